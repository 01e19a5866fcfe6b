package server

import (
	"net/http"
	"strings"
	"time"

	"fintrack/internal/export"
	"fintrack/internal/middleware"
	"fintrack/internal/models"
)

type createTripRequest struct {
	Name         string      `json:"name"`
	StartDate    models.Date `json:"start_date"`
	EndDate      models.Date `json:"end_date"`
	Participants []string    `json:"participants"`
}

func (s *Server) handleCreateTrip(w http.ResponseWriter, r *http.Request) {
	var req createTripRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	trip, err := s.trips.Create(r.Context(), middleware.GetUserID(r.Context()), req.Name, req.StartDate, req.EndDate, req.Participants)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, trip)
}

func (s *Server) handleListTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := s.trips.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"trips": trips})
}

func (s *Server) handleGetTrip(w http.ResponseWriter, r *http.Request) {
	trip, err := s.trips.Get(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, trip)
}

func (s *Server) handleAddParticipant(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	name := strings.TrimSpace(req.Name)
	err := s.trips.AddParticipant(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"), name)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "name": name})
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PaidBy      string    `json:"paid_by"`
		Amount      float64   `json:"amount"`
		Description string    `json:"description"`
		CreatedAt   time.Time `json:"created_at"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	expense, err := s.trips.AddExpense(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"), req.PaidBy, req.Amount, req.Description, req.CreatedAt)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "expense": expense})
}

func (s *Server) handleSettlement(w http.ResponseWriter, r *http.Request) {
	result, err := s.trips.Settlement(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleExportTrip(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	tripID := r.PathValue("id")

	trip, err := s.trips.Get(ctx, userID, tripID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	result, err := s.trips.Settlement(ctx, userID, tripID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	data, err := export.TripWorkbook(trip, result)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeWorkbook(w, exportFilename(trip.Name), data)
}

// exportFilename derives a safe attachment name from the trip name.
func exportFilename(name string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == ' ':
			return '-'
		default:
			return -1
		}
	}, name)
	if safe == "" {
		safe = "trip"
	}
	return safe + "-export.xlsx"
}
