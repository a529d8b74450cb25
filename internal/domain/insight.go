package domain

// InsightKind discriminates the closed set of insight variants.
type InsightKind string

const (
	InsightKindOverbudgeted  InsightKind = "overbudgeted"
	InsightKindUnderbudgeted InsightKind = "underbudgeted"
	InsightKindOverspent     InsightKind = "overspent_category"
	InsightKindUncategorized InsightKind = "uncategorized_transactions"
)

// Insight is a derived, non-persisted advisory about a frame's state.
// It is a closed sum type: every consumer must switch exhaustively over the
// concrete variants and treat anything else as a programming error.
type Insight interface {
	Kind() InsightKind
}

// Overbudgeted means more budget is allocated across categories than the
// frame has available.
type Overbudgeted struct {
	Amount Money
}

func (Overbudgeted) Kind() InsightKind { return InsightKindOverbudgeted }

// Underbudgeted means available money is not yet fully allocated.
type Underbudgeted struct {
	Amount Money
}

func (Underbudgeted) Kind() InsightKind { return InsightKindUnderbudgeted }

// OverspentCategory flags a single category whose balance went negative.
type OverspentCategory struct {
	CategoryID string
	Name       string
	Balance    Money
}

func (OverspentCategory) Kind() InsightKind { return InsightKindOverspent }

// UncategorizedTransactions carries the count of nonzero transactions in the
// frame that have no category.
type UncategorizedTransactions struct {
	Count int
}

func (UncategorizedTransactions) Kind() InsightKind { return InsightKindUncategorized }

// FrameInsights derives the advisory set for a frame. Aggregate over/under
// budgeting takes priority and suppresses per-category overspend flags;
// fixing the aggregate problem comes first. The uncategorized-transaction
// insight is independent of the budgeting ones.
func FrameInsights(frame Frame, categories []Category, uncategorized int) []Insight {
	totalBudgeted := MoneyZero
	for _, c := range categories {
		totalBudgeted = totalBudgeted.Plus(c.Budget)
	}

	needsBudgeting := frame.NeedsBudgeting()

	var insights []Insight

	switch totalBudgeted.Cmp(needsBudgeting) {
	case 1:
		insights = append(insights, Overbudgeted{Amount: totalBudgeted.Minus(needsBudgeting)})
	case -1:
		insights = append(insights, Underbudgeted{Amount: needsBudgeting.Minus(totalBudgeted)})
	default:
		for _, c := range categories {
			if c.Balance.IsNegative() {
				insights = append(insights, OverspentCategory{
					CategoryID: c.ID,
					Name:       c.Name,
					Balance:    c.Balance,
				})
			}
		}
	}

	if uncategorized > 0 {
		insights = append(insights, UncategorizedTransactions{Count: uncategorized})
	}

	return insights
}
