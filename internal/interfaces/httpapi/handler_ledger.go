package httpapi

import (
	"net/http"

	"github.com/riskibarqy/pick-ledger/internal/usecase"
)

func (h *Handler) LedgerStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LedgerStatus")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, statusToDTO(h.ledger.Status(ctx)))
}

func (h *Handler) RefreshLedger(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RefreshLedger")
	defer span.End()

	status, err := h.ledger.Refresh(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "refresh ledger failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, statusToDTO(status))
}

func (h *Handler) SeedFuture(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SeedFuture")
	defer span.End()

	var req seedRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	count, err := h.ledger.SeedFuture(ctx, usecase.SeedInput{
		StartSeason: req.StartSeason,
		EndSeason:   req.EndSeason,
		Rounds:      req.Rounds,
		Overwrite:   req.Overwrite,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "seed future picks failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, map[string]int{"records": count})
}
