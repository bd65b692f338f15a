package expense

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/arnav/expense-tracker/internal/auth"
	"github.com/arnav/expense-tracker/internal/models"
	"github.com/arnav/expense-tracker/internal/stats"
)

// Export streams the caller's expenses for the requested timeframe as a CSV
// attachment. A copy is archived to object storage under the caller's id;
// archive failures are logged and do not fail the download.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	tf, err := stats.ParseTimeframe(r.URL.Query().Get("timeframe"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "timeframe must be week, month, or year")
		return
	}

	expenses, err := h.store.ListByUser(r.Context(), userID)
	if err != nil {
		h.log.WithError(err).Error("list expenses for export")
		writeMessage(w, http.StatusInternalServerError, "database error")
		return
	}
	filtered := stats.Filter(expenses, tf, h.now())

	data, err := expensesCSV(filtered)
	if err != nil {
		h.log.WithError(err).Error("build export csv")
		writeMessage(w, http.StatusInternalServerError, "export failed")
		return
	}

	if h.files != nil {
		name := uuid.New().String() + ".csv"
		key := userID + "/" + name
		if err := h.files.Upload(r.Context(), key, data, "text/csv"); err != nil {
			h.log.WithError(err).WithField("key", key).Warn("archive export")
		} else {
			w.Header().Set("X-Export-Archive", name)
		}
	}

	filename := fmt.Sprintf("expenses-%s.csv", tf)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Write(data)
}

// DownloadExport re-serves a previously archived export. Object keys are
// prefixed with the owner's id, so another user's archive name simply does
// not resolve.
func (h *Handler) DownloadExport(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	name := chi.URLParam(r, "name")

	if h.files == nil {
		writeMessage(w, http.StatusNotFound, "export not found")
		return
	}
	data, contentType, err := h.files.Download(r.Context(), userID+"/"+name)
	if err != nil {
		writeMessage(w, http.StatusNotFound, "export not found")
		return
	}

	if contentType == "" {
		contentType = "text/csv"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Write(data)
}

func expensesCSV(expenses []models.Expense) ([]byte, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	if err := cw.Write([]string{"id", "title", "amount", "category", "created_at"}); err != nil {
		return nil, err
	}
	for _, e := range expenses {
		record := []string{
			e.ID.Hex(),
			e.Title,
			strconv.FormatFloat(e.Amount, 'f', 2, 64),
			string(e.Category),
			e.CreatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return nil, err
		}
	}
	cw.Flush()
	return buf.Bytes(), cw.Error()
}
