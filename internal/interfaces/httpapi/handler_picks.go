package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/riskibarqy/pick-ledger/internal/domain/owner"
	"github.com/riskibarqy/pick-ledger/internal/domain/pick"
	"github.com/riskibarqy/pick-ledger/internal/usecase"
)

// ListPicks serves the tabular ledger view.
// Query: season, owner, original_owner (id or name), active=true|false.
func (h *Handler) ListPicks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPicks")
	defer span.End()

	filter, err := h.parseViewFilter(ctx, r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rows, err := h.ledger.View(ctx, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "list picks failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, viewToDTO(rows))
}

func (h *Handler) PickSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PickSummary")
	defer span.End()

	items, err := h.ledger.Summary(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "pick summary failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summaryToDTO(items))
}

// PickHistory returns the lineage of one slot.
// Query: season, round, original_owner (id or name); all required.
func (h *Handler) PickHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PickHistory")
	defer span.End()

	query := r.URL.Query()
	season, err := strconv.Atoi(strings.TrimSpace(query.Get("season")))
	if err != nil || season <= 0 {
		writeError(ctx, w, fmt.Errorf("%w: season must be a positive integer", usecase.ErrInvalidInput))
		return
	}
	round, err := strconv.Atoi(strings.TrimSpace(query.Get("round")))
	if err != nil || !pick.RoundInRange(round) {
		writeError(ctx, w, fmt.Errorf("%w: round must be between %d and %d", usecase.ErrInvalidInput, pick.MinRound, pick.MaxRound))
		return
	}
	original, err := h.resolveOwner(ctx, query.Get("original_owner"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rows, err := h.ledger.History(ctx, pick.Key{Season: season, Round: round, OriginalOwnerID: original.ID})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]pickDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, pickToDTO(row))
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) ApplyTrade(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApplyTrade")
	defer span.End()

	var req tradeRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	from, err := h.resolveOwner(ctx, req.FromOriginalOwner)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	to, err := h.resolveOwner(ctx, req.ToOwner)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.ledger.ApplyTrade(ctx, usecase.TradeInput{
		Season:              req.Season,
		Round:               req.Round,
		FromOriginalOwnerID: from.ID,
		ToOwnerID:           to.ID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "apply trade failed",
			"season", req.Season,
			"round", req.Round,
			"from_original_owner_id", from.ID,
			"to_owner_id", to.ID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, tradeResultDTO{
		Superseded: pickToDTO(result.Superseded),
		Active:     pickToDTO(result.Active),
	})
}

func (h *Handler) parseViewFilter(ctx context.Context, query url.Values) (pick.ViewFilter, error) {
	var filter pick.ViewFilter

	if raw := strings.TrimSpace(query.Get("season")); raw != "" {
		season, err := strconv.Atoi(raw)
		if err != nil || season <= 0 {
			return pick.ViewFilter{}, fmt.Errorf("%w: season must be a positive integer", usecase.ErrInvalidInput)
		}
		filter.Season = season
	}
	if raw := strings.TrimSpace(query.Get("owner")); raw != "" {
		o, err := h.resolveOwner(ctx, raw)
		if err != nil {
			return pick.ViewFilter{}, err
		}
		filter.OwnerID = o.ID
	}
	if raw := strings.TrimSpace(query.Get("original_owner")); raw != "" {
		o, err := h.resolveOwner(ctx, raw)
		if err != nil {
			return pick.ViewFilter{}, err
		}
		filter.OriginalOwnerID = o.ID
	}
	if raw := strings.TrimSpace(query.Get("active")); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return pick.ViewFilter{}, fmt.Errorf("%w: active must be a boolean", usecase.ErrInvalidInput)
		}
		filter.ActiveOnly = active
	}

	return filter, nil
}

func (h *Handler) resolveOwner(ctx context.Context, ref string) (owner.Owner, error) {
	_, span := startSpan(ctx, "httpapi.Handler.resolveOwner")
	defer span.End()

	return h.owners.Resolve(ref)
}
