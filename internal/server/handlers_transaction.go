package server

import (
	"net/http"
	"time"

	"fintrack/internal/middleware"
)

type transactionRequest struct {
	Amount      float64   `json:"amount"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tx, err := s.transactions.Create(r.Context(), middleware.GetUserID(r.Context()), req.Amount, req.Type, req.Description, req.CreatedAt)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "success",
		"transaction": tx,
	})
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.transactions.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"transactions": txs})
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := s.transactions.Update(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"), req.Amount, req.Type, req.Description)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	err := s.transactions.Delete(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	monthly := r.URL.Query().Get("monthly") == "true"

	summary, err := s.transactions.Summary(r.Context(), middleware.GetUserID(r.Context()), monthly, time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleDownloadSummary(w http.ResponseWriter, r *http.Request) {
	monthly := r.URL.Query().Get("monthly") == "true"

	data, filename, err := s.reports.SummaryWorkbook(r.Context(), middleware.GetUserID(r.Context()), monthly)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeWorkbook(w, filename, data)
}

func (s *Server) handleSendSummary(w http.ResponseWriter, r *http.Request) {
	monthly := r.URL.Query().Get("monthly") == "true"

	if err := s.reports.SendSummary(r.Context(), middleware.GetUserID(r.Context()), monthly); err != nil {
		writeServiceError(w, err)
		return
	}

	reportType := "Daily"
	if monthly {
		reportType = "Monthly"
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"message": reportType + " summary sent successfully",
	})
}

func writeWorkbook(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
