package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/pick-ledger/internal/domain/owner"
	"github.com/riskibarqy/pick-ledger/internal/domain/pick"
	"github.com/riskibarqy/pick-ledger/internal/usecase"
)

const (
	googleAPIVersion = "2.0"
	errorDomain      = "pick-ledger"
)

type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  []googleErrorItem `json:"errors,omitempty"`
}

type googleErrorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	_, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(ctx, w, status, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Data:       data,
	})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	mapped := mapError(err)
	writeErrorBody(ctx, w, mapped, err.Error())
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	writeErrorBody(ctx, w, mappedError{
		HTTPStatus: http.StatusInternalServerError,
		Reason:     "internalError",
		Status:     "INTERNAL",
	}, "internal server error")
}

func writeErrorBody(ctx context.Context, w http.ResponseWriter, mapped mappedError, msg string) {
	writeJSON(ctx, w, mapped.HTTPStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    mapped.HTTPStatus,
			Message: msg,
			Status:  mapped.Status,
			Errors: []googleErrorItem{
				{
					Domain:  errorDomain,
					Reason:  mapped.Reason,
					Message: msg,
				},
			},
		},
	})
}

// mapError checks SourceFetch before DependencyUnavailable since a fetch error matches both.
func mapError(err error) mappedError {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return mappedError{HTTPStatus: http.StatusBadRequest, Reason: "invalidInput", Status: "INVALID_ARGUMENT"}
	case errors.Is(err, owner.ErrUnknownOwner):
		return mappedError{HTTPStatus: http.StatusBadRequest, Reason: "unknownOwner", Status: "INVALID_ARGUMENT"}
	case errors.Is(err, pick.ErrPickNotFound):
		return mappedError{HTTPStatus: http.StatusNotFound, Reason: "pickNotFound", Status: "NOT_FOUND"}
	case errors.Is(err, usecase.ErrNotFound):
		return mappedError{HTTPStatus: http.StatusNotFound, Reason: "notFound", Status: "NOT_FOUND"}
	case errors.Is(err, usecase.ErrUnauthorized):
		return mappedError{HTTPStatus: http.StatusUnauthorized, Reason: "unauthorized", Status: "UNAUTHENTICATED"}
	case errors.Is(err, usecase.ErrLedgerNotLoaded):
		return mappedError{HTTPStatus: http.StatusConflict, Reason: "ledgerNotLoaded", Status: "FAILED_PRECONDITION"}
	case errors.Is(err, usecase.ErrSourceFetch):
		return mappedError{HTTPStatus: http.StatusBadGateway, Reason: "sourceFetchFailed", Status: "UNAVAILABLE"}
	case errors.Is(err, pick.ErrMalformedRecord):
		return mappedError{HTTPStatus: http.StatusBadGateway, Reason: "malformedRecord", Status: "DATA_LOSS"}
	case errors.Is(err, usecase.ErrDependencyUnavailable):
		return mappedError{HTTPStatus: http.StatusServiceUnavailable, Reason: "dependencyUnavailable", Status: "UNAVAILABLE"}
	default:
		return mappedError{HTTPStatus: http.StatusInternalServerError, Reason: "internalError", Status: "INTERNAL"}
	}
}
