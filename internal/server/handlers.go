package server

import (
	"net/http"

	"github.com/Ghazal-Dolatshahi/expense-sharing-app/internal/ledger"
	"github.com/Ghazal-Dolatshahi/expense-sharing-app/internal/middleware"
	"github.com/Ghazal-Dolatshahi/expense-sharing-app/internal/models"
	"github.com/Ghazal-Dolatshahi/expense-sharing-app/internal/service"
)

type registerRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := s.authService.Register(r.Context(), req.Email, req.DisplayName, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := s.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.authService.CurrentUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	var input service.AddExpenseInput
	if !decodeJSON(w, r, &input) {
		return
	}

	expense, err := s.expenseService.AddExpense(r.Context(), middleware.GetUserID(r.Context()), input)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, expense)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.expenseService.ListExpenses(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if expenses == nil {
		expenses = []models.Expense{}
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := s.expenseService.Balances(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if balances == nil {
		balances = []ledger.Balance{}
	}
	writeJSON(w, http.StatusOK, balances)
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := s.expenseService.Statistics(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type initiateSettlementRequest struct {
	CounterpartyID string `json:"counterparty_id"`
}

func (s *Server) handleInitiateSettlement(w http.ResponseWriter, r *http.Request) {
	var req initiateSettlementRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	settlement, err := s.settlementService.Initiate(r.Context(), middleware.GetUserID(r.Context()), req.CounterpartyID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, settlement)
}

func (s *Server) handleListSettlements(w http.ResponseWriter, r *http.Request) {
	settlements, err := s.settlementService.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if settlements == nil {
		settlements = []*models.Settlement{}
	}
	writeJSON(w, http.StatusOK, settlements)
}
