package expense

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/arnav/expense-tracker/internal/auth"
	"github.com/arnav/expense-tracker/internal/models"
	"github.com/arnav/expense-tracker/internal/stats"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// ExpenseStore defines the interface for expense persistence.
type ExpenseStore interface {
	Insert(ctx context.Context, exp *models.Expense) (*models.Expense, error)
	ListByUser(ctx context.Context, userID string) ([]models.Expense, error)
	Update(ctx context.Context, userID, id string, fields map[string]interface{}) (*models.Expense, error)
	Delete(ctx context.Context, userID, id string) error
}

// SummaryCache defines the interface for cached summaries.
type SummaryCache interface {
	Get(ctx context.Context, userID, timeframe string, dest interface{}) (bool, error)
	Set(ctx context.Context, userID, timeframe string, v interface{}) error
	Invalidate(ctx context.Context, userID string) error
}

// FileStore defines the interface for archived exports.
type FileStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Download(ctx context.Context, key string) ([]byte, string, error)
}

// Handler holds expense HTTP handlers. Every route sits behind the auth
// guard, so the user id is always present in the request context.
type Handler struct {
	store ExpenseStore
	cache SummaryCache
	files FileStore
	log   *logrus.Logger
	now   func() time.Time
}

func NewHandler(store ExpenseStore, cache SummaryCache, files FileStore, log *logrus.Logger) *Handler {
	return &Handler{store: store, cache: cache, files: files, log: log, now: time.Now}
}

// List returns all of the caller's expenses, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	expenses, err := h.store.ListByUser(r.Context(), userID)
	if err != nil {
		h.log.WithError(err).Error("list expenses")
		writeMessage(w, http.StatusInternalServerError, "database error")
		return
	}
	if expenses == nil {
		expenses = []models.Expense{}
	}
	writeJSON(w, http.StatusOK, expenses)
}

// Create inserts a new expense owned by the caller.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req models.CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeMessage(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Amount < 0 {
		writeMessage(w, http.StatusBadRequest, "amount must not be negative")
		return
	}

	exp := &models.Expense{
		UserID:   userID,
		Title:    req.Title,
		Amount:   req.Amount,
		Category: models.NormalizeCategory(req.Category),
	}
	saved, err := h.store.Insert(r.Context(), exp)
	if err != nil {
		h.log.WithError(err).Error("insert expense")
		writeMessage(w, http.StatusInternalServerError, "database error")
		return
	}

	h.dropCachedSummaries(r.Context(), userID)
	writeJSON(w, http.StatusCreated, saved)
}

// Update applies a partial update to one of the caller's expenses.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	id := chi.URLParam(r, "id")

	var req models.UpdateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	fields := map[string]interface{}{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			writeMessage(w, http.StatusBadRequest, "title must not be empty")
			return
		}
		fields["title"] = title
	}
	if req.Amount != nil {
		if *req.Amount < 0 {
			writeMessage(w, http.StatusBadRequest, "amount must not be negative")
			return
		}
		fields["amount"] = *req.Amount
	}
	if req.Category != nil {
		fields["category"] = models.NormalizeCategory(*req.Category)
	}
	if len(fields) == 0 {
		writeMessage(w, http.StatusBadRequest, "no fields to update")
		return
	}

	updated, err := h.store.Update(r.Context(), userID, id, fields)
	if errors.Is(err, models.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, "expense not found")
		return
	}
	if err != nil {
		h.log.WithError(err).Error("update expense")
		writeMessage(w, http.StatusInternalServerError, "database error")
		return
	}

	h.dropCachedSummaries(r.Context(), userID)
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes one of the caller's expenses.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	id := chi.URLParam(r, "id")

	err := h.store.Delete(r.Context(), userID, id)
	if errors.Is(err, models.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, "expense not found")
		return
	}
	if err != nil {
		h.log.WithError(err).Error("delete expense")
		writeMessage(w, http.StatusInternalServerError, "database error")
		return
	}

	h.dropCachedSummaries(r.Context(), userID)
	w.WriteHeader(http.StatusNoContent)
}

// Summary returns aggregate statistics over the caller's expenses for the
// requested timeframe, served from the cache when a fresh copy exists.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	tf, err := stats.ParseTimeframe(r.URL.Query().Get("timeframe"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "timeframe must be week, month, or year")
		return
	}

	if h.cache != nil {
		var cached stats.Summary
		found, err := h.cache.Get(r.Context(), userID, string(tf), &cached)
		if err != nil {
			h.log.WithError(err).Warn("summary cache get")
		} else if found {
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	expenses, err := h.store.ListByUser(r.Context(), userID)
	if err != nil {
		h.log.WithError(err).Error("list expenses for summary")
		writeMessage(w, http.StatusInternalServerError, "database error")
		return
	}

	summary := stats.Summarize(expenses, tf, h.now())
	if h.cache != nil {
		if err := h.cache.Set(r.Context(), userID, string(tf), summary); err != nil {
			h.log.WithError(err).Warn("summary cache set")
		}
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) dropCachedSummaries(ctx context.Context, userID string) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Invalidate(ctx, userID); err != nil {
		h.log.WithError(err).Warn("summary cache invalidate")
	}
}
