package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/pick-ledger/internal/domain/owner"
	"github.com/riskibarqy/pick-ledger/internal/platform/logging"
	"github.com/riskibarqy/pick-ledger/internal/platform/tracing"
	"github.com/riskibarqy/pick-ledger/internal/usecase"
	"go.opentelemetry.io/otel/trace"
)

const maxRequestBodyBytes = 1 << 20

var spans = tracing.NewScope("pick-ledger/internal/interfaces/httpapi", "httpapi.Handler.")

func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return spans.Start(ctx, name)
}

type Handler struct {
	ledger    *usecase.LedgerService
	owners    *owner.Directory
	logger    *logging.Logger
	validator *validator.Validate
}

func NewHandler(ledger *usecase.LedgerService, owners *owner.Directory, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		ledger:    ledger,
		owners:    owners,
		logger:    logger,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) decodeJSON(ctx context.Context, r *http.Request, out any) error {
	_, span := startSpan(ctx, "httpapi.Handler.decodeJSON")
	defer span.End()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read request body: %v", usecase.ErrInvalidInput, err)
	}
	if len(body) == 0 {
		return fmt.Errorf("%w: request body is empty", usecase.ErrInvalidInput)
	}
	if err := sonic.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
