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

// CategoryService defines the behavior needed by CategoryHandler.
type CategoryService interface {
	CreateCategory(ctx context.Context, input usecase.CreateCategoryInput) (*domain.Category, error)
	UpdateBudget(ctx context.Context, input usecase.UpdateBudgetInput) (*domain.Category, error)
	CoverBalance(ctx context.Context, input usecase.CoverBalanceInput) (*usecase.CoverBalanceResult, error)
	DeleteCategory(ctx context.Context, groupID, categoryID string) error
	GetHistory(ctx context.Context, groupID, categoryID string, viewing domain.FrameIndex) (domain.CategoryHistory, error)
}

// CategoryHandler handles category-related HTTP requests.
type CategoryHandler struct {
	categoryUC CategoryService
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryUC CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryUC: categoryUC}
}

// Create creates a category in a frame.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	var req dto.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	category, err := h.categoryUC.CreateCategory(r.Context(), req.ToUseCaseInput(groupID, index))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create category", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.CategoryFromDomain(category))
}

// UpdateBudget sets a category's budget.
func (h *CategoryHandler) UpdateBudget(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "gid")
	categoryID := chi.URLParam(r, "id")
	if !authorizedForGroup(r, groupID) {
		writeError(w, http.StatusForbidden, "forbidden", domain.ErrNotGroupMember.Error())
		return
	}

	var req dto.UpdateBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	category, err := h.categoryUC.UpdateBudget(r.Context(), req.ToUseCaseInput(groupID, categoryID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update budget", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CategoryFromDomain(category))
}

// Cover resolves an overspent category from another category or the
// unbudgeted pool.
func (h *CategoryHandler) Cover(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "gid")
	categoryID := chi.URLParam(r, "id")
	if !authorizedForGroup(r, groupID) {
		writeError(w, http.StatusForbidden, "forbidden", domain.ErrNotGroupMember.Error())
		return
	}

	var req dto.CoverBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.categoryUC.CoverBalance(r.Context(), req.ToUseCaseInput(groupID, categoryID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to cover balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CoverFromResult(result))
}

// Delete marks a category as not alive. Its budget returns to the
// unallocated pool; its transactions keep their assignment.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "gid")
	categoryID := chi.URLParam(r, "id")
	if !authorizedForGroup(r, groupID) {
		writeError(w, http.StatusForbidden, "forbidden", domain.ErrNotGroupMember.Error())
		return
	}

	if err := h.categoryUC.DeleteCategory(r.Context(), groupID, categoryID); err != nil {
		writeError(w, mapDomainError(err), "failed to delete category", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetHistory returns the category's trailing budget/spending window ending
// at the viewing frame.
func (h *CategoryHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "gid")
	categoryID := chi.URLParam(r, "id")
	if !authorizedForGroup(r, groupID) {
		writeError(w, http.StatusForbidden, "forbidden", domain.ErrNotGroupMember.Error())
		return
	}

	viewing, err := parseFrameIndex(r.URL.Query().Get("viewing"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid viewing frame", err.Error())
		return
	}

	history, err := h.categoryUC.GetHistory(r.Context(), groupID, categoryID, viewing)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get history", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.HistoryFromDomain(history))
}
