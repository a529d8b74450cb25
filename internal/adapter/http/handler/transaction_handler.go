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

// TransactionService defines the behavior needed by TransactionHandler.
type TransactionService interface {
	AddTransaction(ctx context.Context, input usecase.AddTransactionInput) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, input usecase.UpdateTransactionInput) (*domain.Transaction, error)
	UpdateSplit(ctx context.Context, input usecase.UpdateSplitInput) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, input usecase.DeleteTransactionInput) error
	GetTransaction(ctx context.Context, groupID, id string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, input usecase.ListTransactionsInput) ([]*domain.Transaction, error)
}

// TransactionHandler handles transaction-related HTTP requests.
type TransactionHandler struct {
	transactionUC TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionUC TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionUC: transactionUC}
}

// Add records a spending event against the frame in the path, which is also
// the frame the caller is viewing.
func (h *TransactionHandler) Add(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "gid")
	index, err := parseFrameIndex(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid frame index", err.Error())
		return
	}
	if !authorizedForGroup(r, groupID) {
		writeError(w, http.StatusForbidden, "forbidden", domain.ErrNotGroupMember.Error())
		return
	}

	var req dto.AddTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	actorUID := ""
	if user := requestUser(r); user != nil {
		actorUID = user.ID
	}
	if req.Split != nil && actorUID == "" {
		writeError(w, http.StatusUnauthorized, "split transactions require an authenticated user", "")
		return
	}

	input, err := req.ToUseCaseInput(groupID, actorUID, index)
	if err != nil {
		writeError(w, mapDomainError(err), "invalid split", err.Error())
		return
	}

	transaction, err := h.transactionUC.AddTransaction(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to add transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(transaction))
}

// List lists live transactions in a frame.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "gid")
	index, err := parseFrameIndex(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid frame index", err.Error())
		return
	}
	if !authorizedForGroup(r, groupID) {
		writeError(w, http.StatusForbidden, "forbidden", domain.ErrNotGroupMember.Error())
		return
	}

	transactions, err := h.transactionUC.ListTransactions(r.Context(), usecase.ListTransactionsInput{
		GroupID: groupID,
		Frame:   index,
		Limit:   parseIntQuery(r, "limit", 50),
		Offset:  parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(transactions))
}

// Get retrieves a transaction by ID.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "gid")
	id := chi.URLParam(r, "id")
	if !authorizedForGroup(r, groupID) {
		writeError(w, http.StatusForbidden, "forbidden", domain.ErrNotGroupMember.Error())
		return
	}

	transaction, err := h.transactionUC.GetTransaction(r.Context(), groupID, id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(transaction))
}

// Update edits a transaction. The viewing query parameter names the frame
// the caller has open; ledger adjustments are applied relative to it.
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "gid")
	id := chi.URLParam(r, "id")
	if !authorizedForGroup(r, groupID) {
		writeError(w, http.StatusForbidden, "forbidden", domain.ErrNotGroupMember.Error())
		return
	}

	viewing, err := parseFrameIndex(r.URL.Query().Get("viewing"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid viewing frame", err.Error())
		return
	}

	var req dto.UpdateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	transaction, err := h.transactionUC.UpdateTransaction(r.Context(), req.ToUseCaseInput(groupID, id, viewing))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(transaction))
}

// UpdateSplit recomputes both sides of a shared expense.
func (h *TransactionHandler) UpdateSplit(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "gid")
	id := chi.URLParam(r, "id")
	if !authorizedForGroup(r, groupID) {
		writeError(w, http.StatusForbidden, "forbidden", domain.ErrNotGroupMember.Error())
		return
	}

	user := requestUser(r)
	if user == nil {
		writeError(w, http.StatusUnauthorized, "split updates require an authenticated user", "")
		return
	}

	viewing, err := parseFrameIndex(r.URL.Query().Get("viewing"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid viewing frame", err.Error())
		return
	}

	var req dto.UpdateSplitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(groupID, user.ID, id, viewing)
	if err != nil {
		writeError(w, mapDomainError(err), "invalid split", err.Error())
		return
	}

	transaction, err := h.transactionUC.UpdateSplit(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update split", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(transaction))
}

// Delete removes a transaction and reverses its ledger effects.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "gid")
	id := chi.URLParam(r, "id")
	if !authorizedForGroup(r, groupID) {
		writeError(w, http.StatusForbidden, "forbidden", domain.ErrNotGroupMember.Error())
		return
	}

	viewing, err := parseFrameIndex(r.URL.Query().Get("viewing"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid viewing frame", err.Error())
		return
	}

	actorUID := ""
	if user := requestUser(r); user != nil {
		actorUID = user.ID
	}

	err = h.transactionUC.DeleteTransaction(r.Context(), usecase.DeleteTransactionInput{
		GroupID:       groupID,
		ActorUID:      actorUID,
		ViewingFrame:  viewing,
		TransactionID: id,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to delete transaction", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
