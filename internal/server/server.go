// Package server wires the application services into a JSON HTTP API.
package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Ghazal-Dolatshahi/expense-sharing-app/internal/auth"
	"github.com/Ghazal-Dolatshahi/expense-sharing-app/internal/middleware"
	"github.com/Ghazal-Dolatshahi/expense-sharing-app/internal/service"
)

// Server holds the services behind the HTTP API.
type Server struct {
	authService       *service.AuthService
	expenseService    *service.ExpenseService
	settlementService *service.SettlementService
	jwtManager        *auth.JWTManager
}

// New creates a Server over the given services.
func New(
	authService *service.AuthService,
	expenseService *service.ExpenseService,
	settlementService *service.SettlementService,
	jwtManager *auth.JWTManager,
) *Server {
	return &Server{
		authService:       authService,
		expenseService:    expenseService,
		settlementService: settlementService,
		jwtManager:        jwtManager,
	}
}

// Handler builds the full route table with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	protected := middleware.RequireAuth(s.jwtManager)

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.Handle("GET /api/auth/me", protected(http.HandlerFunc(s.handleCurrentUser)))

	mux.Handle("POST /api/expenses", protected(http.HandlerFunc(s.handleAddExpense)))
	mux.Handle("GET /api/expenses", protected(http.HandlerFunc(s.handleListExpenses)))
	mux.Handle("GET /api/balances", protected(http.HandlerFunc(s.handleBalances)))
	mux.Handle("GET /api/statistics", protected(http.HandlerFunc(s.handleStatistics)))
	mux.Handle("POST /api/settlements", protected(http.HandlerFunc(s.handleInitiateSettlement)))
	mux.Handle("GET /api/settlements", protected(http.HandlerFunc(s.handleListSettlements)))

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return middleware.Metrics(middleware.Logging(middleware.CORS(mux)))
}
