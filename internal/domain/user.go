package domain

// User is the authenticated caller. GroupID is the budget ledger the user
// belongs to; shared budgets put several users behind one group.
type User struct {
	ID      string
	GroupID string
	Email   string
}
