// Package server exposes the HTTP API.
package server

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fintrack/internal/auth"
	"fintrack/internal/middleware"
	"fintrack/internal/service"
)

// Server wires the services into an HTTP handler.
type Server struct {
	auth         *service.AuthService
	transactions *service.TransactionService
	trips        *service.TripService
	reports      *service.ReportService
	accessTokens *auth.JWTManager
	origins      []string
	logger       *slog.Logger
}

// New creates a server over the given services.
func New(authSvc *service.AuthService, transactions *service.TransactionService, trips *service.TripService, reports *service.ReportService, accessTokens *auth.JWTManager, origins []string, logger *slog.Logger) *Server {
	return &Server{
		auth:         authSvc,
		transactions: transactions,
		trips:        trips,
		reports:      reports,
		accessTokens: accessTokens,
		origins:      origins,
		logger:       logger,
	}
}

// Handler builds the route table and middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Public endpoints.
	mux.HandleFunc("POST /register", s.handleRegister)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("POST /guest-login", s.handleGuestLogin)
	mux.HandleFunc("POST /refresh", s.handleRefresh)
	mux.HandleFunc("POST /forgot-password", s.handleForgotPassword)
	mux.HandleFunc("POST /reset-password", s.handleResetPassword)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Authenticated endpoints.
	protected := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireAuth(s.accessTokens, h)
	}
	mux.Handle("POST /transaction", protected(s.handleCreateTransaction))
	mux.Handle("GET /transactions", protected(s.handleListTransactions))
	mux.Handle("PUT /transaction/{id}", protected(s.handleUpdateTransaction))
	mux.Handle("DELETE /transaction/{id}", protected(s.handleDeleteTransaction))
	mux.Handle("GET /summary", protected(s.handleSummary))
	mux.Handle("GET /download-excel", protected(s.handleDownloadSummary))
	mux.Handle("POST /send-summary", protected(s.handleSendSummary))

	mux.Handle("POST /trips", protected(s.handleCreateTrip))
	mux.Handle("GET /trips", protected(s.handleListTrips))
	mux.Handle("GET /trips/{id}", protected(s.handleGetTrip))
	mux.Handle("POST /trips/{id}/participant", protected(s.handleAddParticipant))
	mux.Handle("POST /trips/{id}/expense", protected(s.handleAddExpense))
	mux.Handle("GET /trips/{id}/settlement", protected(s.handleSettlement))

	// Export links are opened directly by the browser, so the token may
	// arrive as a query parameter instead of a header.
	mux.Handle("GET /trips/{id}/export",
		middleware.RequireAuthOrQueryToken(s.accessTokens, http.HandlerFunc(s.handleExportTrip)))

	handler := middleware.Metrics(mux, mux)
	handler = middleware.CORS(s.origins, handler)
	handler = middleware.Logging(handler)
	return handler
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
