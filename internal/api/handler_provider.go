package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fastprodman/points/internal/models"
	"github.com/fastprodman/points/internal/services/points"
)

// PointService is what the handlers need from points.Service.
type PointService interface {
	GetBalance(ctx context.Context, userID int64) (models.UserBalance, error)
	GetHistory(ctx context.Context, userID int64) ([]models.TransactionRecord, error)
	Charge(ctx context.Context, userID, amount int64) (models.UserBalance, error)
	Deduct(ctx context.Context, userID, amount int64) (models.UserBalance, error)
}

// HandlerProvider exposes a PointService over HTTP.
type HandlerProvider struct {
	svc PointService
}

func NewHandler(svc PointService) *HandlerProvider {
	return &HandlerProvider{svc: svc}
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		// headers are gone, nothing left to tell the client
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

// writeServiceError maps the points error kinds onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	code := points.Code(err)

	switch {
	case errors.Is(err, points.ErrInvalidArgument):
		// argument errors carry the caller-facing text
		writeError(w, http.StatusBadRequest, code, err.Error())
	case errors.Is(err, points.ErrUserNotFound):
		writeError(w, http.StatusNotFound, code, "user not found")
	case errors.Is(err, points.ErrLockTimeout):
		writeError(w, http.StatusConflict, code, "user is busy, try again")
	default:
		slog.ErrorContext(r.Context(), "request failed",
			"path", r.URL.Path, "request_id", RequestIDFrom(r.Context()), "error", err)
		writeError(w, http.StatusInternalServerError, code, "internal error")
	}
}

// parseUserIDFromPath reads `{userId}` from routes like /point/{userId}.
// Range checks are left to the service.
func parseUserIDFromPath(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "userId")
	if idStr == "" {
		return 0, fmt.Errorf("missing userId")
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid userId: %w", err)
	}

	return id, nil
}

// parseAmount reads a body that is a single JSON integer, e.g. `150` or `-30`.
func parseAmount(w http.ResponseWriter, r *http.Request) (int64, error) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<10)
	defer r.Body.Close()

	var amount int64

	dec := json.NewDecoder(r.Body)

	err := dec.Decode(&amount)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("empty body")
		}

		return 0, fmt.Errorf("amount must be a JSON integer")
	}

	if dec.More() {
		return 0, fmt.Errorf("amount must be a single JSON integer")
	}

	return amount, nil
}

// --- Handlers ---

// GetPointHandler handles GET /point/{userId}
func (h *HandlerProvider) GetPointHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, points.Code(points.ErrInvalidArgument), "invalid userId in path")
		return
	}

	row, err := h.svc.GetBalance(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, row)
}

// GetHistoriesHandler handles GET /point/{userId}/histories
func (h *HandlerProvider) GetHistoriesHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, points.Code(points.ErrInvalidArgument), "invalid userId in path")
		return
	}

	records, err := h.svc.GetHistory(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, records)
}

// ChargeHandler handles PATCH /point/{userId}/charge
func (h *HandlerProvider) ChargeHandler(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.svc.Charge)
}

// UseHandler handles PATCH /point/{userId}/use
func (h *HandlerProvider) UseHandler(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.svc.Deduct)
}

func (h *HandlerProvider) mutate(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, userID, amount int64) (models.UserBalance, error),
) {
	userID, err := parseUserIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, points.Code(points.ErrInvalidArgument), "invalid userId in path")
		return
	}

	amount, err := parseAmount(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, points.Code(points.ErrInvalidArgument), err.Error())
		return
	}

	row, err := op(r.Context(), userID, amount)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, row)
}
