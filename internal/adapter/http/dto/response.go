package dto

import (
	"time"

	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/usecase"
)

// FrameResponse represents a frame in API responses.
type FrameResponse struct {
	GroupID  string       `json:"group_id"`
	Index    int          `json:"index"`
	Month    int          `json:"month"`
	Year     int          `json:"year"`
	Income   domain.Money `json:"income"`
	Balance  domain.Money `json:"balance"`
	Spending domain.Money `json:"spending"`
}

// FrameFromDomain converts a domain frame to a response. Month is 1-based,
// matching the month query parameter.
func FrameFromDomain(f *domain.Frame) *FrameResponse {
	return &FrameResponse{
		GroupID:  f.GroupID,
		Index:    int(f.Index),
		Month:    f.Index.Month() + 1,
		Year:     f.Index.Year(),
		Income:   f.Income,
		Balance:  f.Balance,
		Spending: f.Spending,
	}
}

// CategoryResponse represents a category in API responses.
type CategoryResponse struct {
	ID       string       `json:"id"`
	GroupID  string       `json:"group_id"`
	Frame    int          `json:"frame"`
	Name     string       `json:"name"`
	Ordering int          `json:"ordering"`
	Budget   domain.Money `json:"budget"`
	Balance  domain.Money `json:"balance"`
	ParentID *string      `json:"parent_id,omitempty"`
	Alive    bool         `json:"alive"`
}

// CategoryFromDomain converts a domain category to a response.
func CategoryFromDomain(c *domain.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:       c.ID,
		GroupID:  c.GroupID,
		Frame:    int(c.Frame),
		Name:     c.Name,
		Ordering: c.Ordering,
		Budget:   c.Budget,
		Balance:  c.Balance,
		ParentID: c.ParentID,
		Alive:    c.Alive,
	}
}

// CoverResponse carries both sides of a cover operation.
type CoverResponse struct {
	Covered *CategoryResponse `json:"covered"`
	Source  *CategoryResponse `json:"source,omitempty"`
}

// CoverFromResult converts a cover result to a response.
func CoverFromResult(r *usecase.CoverBalanceResult) *CoverResponse {
	resp := &CoverResponse{Covered: CategoryFromDomain(r.Covered)}
	if r.Source != nil {
		resp.Source = CategoryFromDomain(r.Source)
	}
	return resp
}

// CategoryViewResponse pairs a category with its display sums, which roll up
// child categories into their parent.
type CategoryViewResponse struct {
	Category       *CategoryResponse `json:"category"`
	DisplayBudget  domain.Money      `json:"display_budget"`
	DisplayBalance domain.Money      `json:"display_balance"`
}

// FrameViewResponse is the aggregate frame screen payload.
type FrameViewResponse struct {
	Frame      *FrameResponse          `json:"frame"`
	Categories []*CategoryViewResponse `json:"categories"`
	Insights   []*InsightResponse      `json:"insights"`
}

// FrameViewFromUseCase converts a frame view to a response.
func FrameViewFromUseCase(v *usecase.FrameView) *FrameViewResponse {
	categories := make([]*CategoryViewResponse, len(v.Categories))
	for i := range v.Categories {
		cv := v.Categories[i]
		categories[i] = &CategoryViewResponse{
			Category:       CategoryFromDomain(&cv.Category),
			DisplayBudget:  cv.DisplayBudget,
			DisplayBalance: cv.DisplayBalance,
		}
	}
	return &FrameViewResponse{
		Frame:      FrameFromDomain(&v.Frame),
		Categories: categories,
		Insights:   InsightsFromDomain(v.Insights),
	}
}

// InsightResponse represents one advisory. Only the fields for its kind are
// populated.
type InsightResponse struct {
	Kind       domain.InsightKind `json:"kind"`
	Amount     *domain.Money      `json:"amount,omitempty"`
	CategoryID string             `json:"category_id,omitempty"`
	Name       string             `json:"name,omitempty"`
	Balance    *domain.Money      `json:"balance,omitempty"`
	Count      int                `json:"count,omitempty"`
}

// InsightFromDomain flattens an insight variant into the wire form.
func InsightFromDomain(in domain.Insight) *InsightResponse {
	switch v := in.(type) {
	case domain.Overbudgeted:
		amount := v.Amount
		return &InsightResponse{Kind: v.Kind(), Amount: &amount}
	case domain.Underbudgeted:
		amount := v.Amount
		return &InsightResponse{Kind: v.Kind(), Amount: &amount}
	case domain.OverspentCategory:
		balance := v.Balance
		return &InsightResponse{Kind: v.Kind(), CategoryID: v.CategoryID, Name: v.Name, Balance: &balance}
	case domain.UncategorizedTransactions:
		return &InsightResponse{Kind: v.Kind(), Count: v.Count}
	default:
		return &InsightResponse{Kind: in.Kind()}
	}
}

// InsightsFromDomain converts domain insights to responses.
func InsightsFromDomain(insights []domain.Insight) []*InsightResponse {
	result := make([]*InsightResponse, len(insights))
	for i, in := range insights {
		result[i] = InsightFromDomain(in)
	}
	return result
}

// SplitResponse represents the shared-expense half of a transaction.
type SplitResponse struct {
	ID          string       `json:"id"`
	With        string       `json:"with"`
	Payer       string       `json:"payer"`
	Settled     bool         `json:"settled"`
	MyShare     string       `json:"my_share"`
	TheirShare  string       `json:"their_share"`
	OtherAmount domain.Money `json:"other_amount"`
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID          string         `json:"id"`
	GroupID     string         `json:"group_id"`
	Frame       int            `json:"frame"`
	CategoryID  *string        `json:"category_id,omitempty"`
	Amount      domain.Money   `json:"amount"`
	Description string         `json:"description"`
	Date        time.Time      `json:"date"`
	Split       *SplitResponse `json:"split,omitempty"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	resp := &TransactionResponse{
		ID:          t.ID,
		GroupID:     t.GroupID,
		Frame:       int(t.Frame),
		CategoryID:  t.CategoryID,
		Amount:      t.Amount,
		Description: t.Description,
		Date:        t.Date,
	}
	if t.Split != nil {
		resp.Split = &SplitResponse{
			ID:          t.Split.ID,
			With:        t.Split.With,
			Payer:       t.Split.Payer,
			Settled:     t.Split.Settled,
			MyShare:     t.Split.MyShare.String(),
			TheirShare:  t.Split.TheirShare.String(),
			OtherAmount: t.Split.OtherAmount,
		}
	}
	return resp
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(transactions []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(transactions))
	for i, t := range transactions {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// HistorySnapshotResponse is one frame's budget and spending for a category.
type HistorySnapshotResponse struct {
	Frame    int          `json:"frame"`
	Budget   domain.Money `json:"budget"`
	Spending domain.Money `json:"spending"`
}

// HistoryFromDomain converts a category history window to responses,
// oldest first.
func HistoryFromDomain(h domain.CategoryHistory) []*HistorySnapshotResponse {
	result := make([]*HistorySnapshotResponse, len(h))
	for i, s := range h {
		result[i] = &HistorySnapshotResponse{
			Frame:    int(s.Frame),
			Budget:   s.Budget,
			Spending: s.Spending,
		}
	}
	return result
}

// DebtResponse represents a pairwise debt seen from one user's side.
type DebtResponse struct {
	UID       string       `json:"uid"`
	OtherUID  string       `json:"other_uid"`
	Owed      domain.Money `json:"owed"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// DebtFromDomain converts a debt to the response seen from uid's side.
// Owed is how much uid owes the other party; negative means the other party
// owes uid.
func DebtFromDomain(d *domain.Debt, uid string) *DebtResponse {
	return &DebtResponse{
		UID:       uid,
		OtherUID:  d.Other(uid),
		Owed:      d.OwedBy(uid),
		UpdatedAt: d.UpdatedAt,
	}
}

// DebtsFromDomain converts debts to responses seen from uid's side.
func DebtsFromDomain(debts []*domain.Debt, uid string) []*DebtResponse {
	result := make([]*DebtResponse, len(debts))
	for i, d := range debts {
		result[i] = DebtFromDomain(d, uid)
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
