package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gobudget/internal/adapter/http/dto"
	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/usecase"
)

// FrameService defines the behavior needed by FrameHandler.
type FrameService interface {
	GetOrCreate(ctx context.Context, groupID string, index domain.FrameIndex) (*domain.Frame, error)
	SetIncome(ctx context.Context, input usecase.SetIncomeInput) (*domain.Frame, error)
	GetInsights(ctx context.Context, groupID string, index domain.FrameIndex) ([]domain.Insight, error)
	GetView(ctx context.Context, groupID string, index domain.FrameIndex) (*usecase.FrameView, error)
}

// FrameHandler handles frame-related HTTP requests.
type FrameHandler struct {
	frameUC FrameService
}

// NewFrameHandler creates a new FrameHandler.
func NewFrameHandler(frameUC FrameService) *FrameHandler {
	return &FrameHandler{frameUC: frameUC}
}

// Get returns the assembled month view. The month is selected with the
// month (1-12) and year query parameters and defaults to the current month.
func (h *FrameHandler) Get(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "gid")
	if groupID == "" {
		writeError(w, http.StatusBadRequest, "missing group ID", "")
		return
	}
	if !authorizedForGroup(r, groupID) {
		writeError(w, http.StatusForbidden, "forbidden", domain.ErrNotGroupMember.Error())
		return
	}

	now := time.Now()
	month := parseIntQuery(r, "month", int(now.Month()))
	year := parseIntQuery(r, "year", now.Year())

	index, err := domain.ParseFrameIndex(month-1, year)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month", err.Error())
		return
	}

	view, err := h.frameUC.GetView(r.Context(), groupID, index)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get frame", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.FrameViewFromUseCase(view))
}

// SetIncome sets the frame's income.
func (h *FrameHandler) SetIncome(w http.ResponseWriter, r *http.Request) {
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

	var req dto.SetIncomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	frame, err := h.frameUC.SetIncome(r.Context(), req.ToUseCaseInput(groupID, index))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to set income", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.FrameFromDomain(frame))
}

// GetInsights returns the derived advisories for a frame.
func (h *FrameHandler) GetInsights(w http.ResponseWriter, r *http.Request) {
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

	insights, err := h.frameUC.GetInsights(r.Context(), groupID, index)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get insights", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.InsightsFromDomain(insights))
}
