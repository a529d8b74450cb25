package dto

import (
	"time"

	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/usecase"
)

// SetIncomeRequest represents a request to set a frame's income.
type SetIncomeRequest struct {
	Income domain.Money `json:"income"`
}

// ToUseCaseInput converts to use case input.
func (r *SetIncomeRequest) ToUseCaseInput(groupID string, index domain.FrameIndex) usecase.SetIncomeInput {
	return usecase.SetIncomeInput{
		GroupID: groupID,
		Index:   index,
		Income:  r.Income,
	}
}

// CreateCategoryRequest represents a request to create a category.
type CreateCategoryRequest struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateCategoryRequest) ToUseCaseInput(groupID string, frame domain.FrameIndex) usecase.CreateCategoryInput {
	return usecase.CreateCategoryInput{
		GroupID:  groupID,
		Frame:    frame,
		Name:     r.Name,
		ParentID: r.ParentID,
	}
}

// UpdateBudgetRequest represents a request to set a category's budget.
type UpdateBudgetRequest struct {
	Budget domain.Money `json:"budget"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateBudgetRequest) ToUseCaseInput(groupID, categoryID string) usecase.UpdateBudgetInput {
	return usecase.UpdateBudgetInput{
		GroupID:    groupID,
		CategoryID: categoryID,
		Budget:     r.Budget,
	}
}

// CoverBalanceRequest represents a request to cover an overspent category.
// A nil source covers from the unbudgeted pool.
type CoverBalanceRequest struct {
	FromCategoryID *string `json:"from_category_id,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CoverBalanceRequest) ToUseCaseInput(groupID, categoryID string) usecase.CoverBalanceInput {
	return usecase.CoverBalanceInput{
		GroupID:        groupID,
		CategoryID:     categoryID,
		FromCategoryID: r.FromCategoryID,
	}
}

// SplitRequest carries the shared-expense half of a new transaction.
// Shares are decimal strings so clients never deal with float weights.
type SplitRequest struct {
	WithUID     string       `json:"with_uid"`
	WithGroupID string       `json:"with_group_id"`
	Payer       string       `json:"payer"`
	Total       domain.Money `json:"total"`
	MyShare     string       `json:"my_share"`
	TheirShare  string       `json:"their_share"`
	Settled     bool         `json:"settled"`
}

func (r *SplitRequest) toSplitInput() (*usecase.SplitInput, error) {
	mine, err := domain.ParseShare(r.MyShare)
	if err != nil {
		return nil, err
	}
	theirs, err := domain.ParseShare(r.TheirShare)
	if err != nil {
		return nil, err
	}
	return &usecase.SplitInput{
		WithUID:     r.WithUID,
		WithGroupID: r.WithGroupID,
		Payer:       r.Payer,
		Total:       r.Total,
		MyShare:     mine,
		TheirShare:  theirs,
		Settled:     r.Settled,
	}, nil
}

// AddTransactionRequest represents a request to record a spending event.
type AddTransactionRequest struct {
	Amount      domain.Money  `json:"amount"`
	CategoryID  *string       `json:"category_id,omitempty"`
	Description string        `json:"description"`
	Date        time.Time     `json:"date"`
	Split       *SplitRequest `json:"split,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *AddTransactionRequest) ToUseCaseInput(groupID, actorUID string, viewing domain.FrameIndex) (usecase.AddTransactionInput, error) {
	input := usecase.AddTransactionInput{
		GroupID:      groupID,
		ActorUID:     actorUID,
		ViewingFrame: viewing,
		Amount:       r.Amount,
		CategoryID:   r.CategoryID,
		Description:  r.Description,
		Date:         r.Date,
	}
	if r.Split != nil {
		split, err := r.Split.toSplitInput()
		if err != nil {
			return usecase.AddTransactionInput{}, err
		}
		input.Split = split
	}
	return input, nil
}

// UpdateTransactionRequest represents a partial transaction edit. Absent
// fields are left untouched; clear_category removes the assignment.
type UpdateTransactionRequest struct {
	Amount        *domain.Money `json:"amount,omitempty"`
	CategoryID    *string       `json:"category_id,omitempty"`
	ClearCategory bool          `json:"clear_category,omitempty"`
	Description   *string       `json:"description,omitempty"`
	Date          *time.Time    `json:"date,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateTransactionRequest) ToUseCaseInput(groupID, transactionID string, viewing domain.FrameIndex) usecase.UpdateTransactionInput {
	return usecase.UpdateTransactionInput{
		GroupID:       groupID,
		ViewingFrame:  viewing,
		TransactionID: transactionID,
		Amount:        r.Amount,
		CategoryID:    r.CategoryID,
		ClearCategory: r.ClearCategory,
		Description:   r.Description,
		Date:          r.Date,
	}
}

// UpdateSplitRequest represents a request to recompute a shared expense.
type UpdateSplitRequest struct {
	Total      domain.Money `json:"total"`
	MyShare    string       `json:"my_share"`
	TheirShare string       `json:"their_share"`
	Settled    *bool        `json:"settled,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateSplitRequest) ToUseCaseInput(groupID, actorUID, transactionID string, viewing domain.FrameIndex) (usecase.UpdateSplitInput, error) {
	mine, err := domain.ParseShare(r.MyShare)
	if err != nil {
		return usecase.UpdateSplitInput{}, err
	}
	theirs, err := domain.ParseShare(r.TheirShare)
	if err != nil {
		return usecase.UpdateSplitInput{}, err
	}
	return usecase.UpdateSplitInput{
		GroupID:       groupID,
		ActorUID:      actorUID,
		ViewingFrame:  viewing,
		TransactionID: transactionID,
		Total:         r.Total,
		MyShare:       mine,
		TheirShare:    theirs,
		Settled:       r.Settled,
	}, nil
}

// AddPaymentRequest represents a request to record a debt payment.
type AddPaymentRequest struct {
	FromUID string       `json:"from_uid"`
	ToUID   string       `json:"to_uid"`
	Amount  domain.Money `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *AddPaymentRequest) ToUseCaseInput() usecase.AddPaymentInput {
	return usecase.AddPaymentInput{
		FromUID: r.FromUID,
		ToUID:   r.ToUID,
		Amount:  r.Amount,
	}
}

// AddChargeRequest represents a request to record a standalone charge.
type AddChargeRequest struct {
	DebtorUID   string       `json:"debtor_uid"`
	CreditorUID string       `json:"creditor_uid"`
	Amount      domain.Money `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *AddChargeRequest) ToUseCaseInput() usecase.AddChargeInput {
	return usecase.AddChargeInput{
		DebtorUID:   r.DebtorUID,
		CreditorUID: r.CreditorUID,
		Amount:      r.Amount,
	}
}

// PaginationRequest represents pagination parameters.
type PaginationRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
