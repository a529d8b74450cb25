package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gobudget/internal/adapter/http/dto"
	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/usecase"
)

// DebtService defines the behavior needed by DebtHandler.
type DebtService interface {
	AddPayment(ctx context.Context, input usecase.AddPaymentInput) (*domain.Debt, error)
	AddCharge(ctx context.Context, input usecase.AddChargeInput) (*domain.Debt, error)
	GetDebt(ctx context.Context, a, b string) (*domain.Debt, error)
	ListDebts(ctx context.Context, uid string) ([]*domain.Debt, error)
}

// DebtHandler handles debt-related HTTP requests.
type DebtHandler struct {
	debtUC DebtService
}

// NewDebtHandler creates a new DebtHandler.
func NewDebtHandler(debtUC DebtService) *DebtHandler {
	return &DebtHandler{debtUC: debtUC}
}

// debtParty reports whether the request may act on a debt involving the two
// users. An authenticated caller must be one of the parties.
func debtParty(r *http.Request, a, b string) bool {
	user := requestUser(r)
	if user == nil {
		return true
	}
	return user.ID == a || user.ID == b
}

// List returns every debt involving the user, seen from their side.
func (h *DebtHandler) List(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	if uid == "" {
		writeError(w, http.StatusBadRequest, "missing user ID", "")
		return
	}
	if !debtParty(r, uid, uid) {
		writeError(w, http.StatusForbidden, "forbidden", "debts are visible to their parties only")
		return
	}

	debts, err := h.debtUC.ListDebts(r.Context(), uid)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list debts", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DebtsFromDomain(debts, uid))
}

// Get returns the balance between two users. A pair with no history reads
// as a settled zero balance.
func (h *DebtHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	other := chi.URLParam(r, "other")
	if uid == "" || other == "" {
		writeError(w, http.StatusBadRequest, "missing user ID", "")
		return
	}
	if !debtParty(r, uid, other) {
		writeError(w, http.StatusForbidden, "forbidden", "debts are visible to their parties only")
		return
	}

	debt, err := h.debtUC.GetDebt(r.Context(), uid, other)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get debt", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DebtFromDomain(debt, uid))
}

// AddPayment records money handed between two users.
func (h *DebtHandler) AddPayment(w http.ResponseWriter, r *http.Request) {
	var req dto.AddPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if !debtParty(r, req.FromUID, req.ToUID) {
		writeError(w, http.StatusForbidden, "forbidden", "payments may only be recorded by a party")
		return
	}

	debt, err := h.debtUC.AddPayment(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to add payment", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.DebtFromDomain(debt, req.FromUID))
}

// AddCharge records a standalone debt without an underlying transaction.
func (h *DebtHandler) AddCharge(w http.ResponseWriter, r *http.Request) {
	var req dto.AddChargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if !debtParty(r, req.DebtorUID, req.CreditorUID) {
		writeError(w, http.StatusForbidden, "forbidden", "charges may only be recorded by a party")
		return
	}

	debt, err := h.debtUC.AddCharge(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to add charge", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.DebtFromDomain(debt, req.DebtorUID))
}
