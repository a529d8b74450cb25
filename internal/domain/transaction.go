package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// HistoryWindow is how many frames back a transaction still updates a
// category's spending history.
const HistoryWindow = 6

// Transaction is a single spending event against a group's ledger. Amount is
// always the amount charged to this group; for split expenses it is this
// side's share only, with the counterparty holding a mirrored transaction.
type Transaction struct {
	ID          string
	GroupID     string
	Frame       FrameIndex
	CategoryID  *string
	Amount      Money
	Description string
	Date        time.Time
	Alive       bool
	Split       *Split
}

// Split links a shared expense mirrored across two group ledgers.
// OtherAmount is the counterparty's share of the total.
type Split struct {
	ID          string
	With        string
	Payer       string
	Settled     bool
	MyShare     Share
	TheirShare  Share
	OtherAmount Money
}

// Validate checks the transaction invariants that hold regardless of frame
// context: a non-negative, well-scaled amount.
func (t *Transaction) Validate() error {
	if !t.Amount.IsValid(false) {
		return ErrInvalidAmount
	}
	return nil
}

// InHistoryWindow reports whether the transaction's frame is recent enough,
// seen from the viewing frame, for its category history to be maintained.
func (t *Transaction) InHistoryWindow(viewing FrameIndex) bool {
	return t.Frame+HistoryWindow >= viewing && t.Frame <= viewing
}

// HistoryOffset is how many frames back from the viewing frame the
// transaction lands.
func (t *Transaction) HistoryOffset(viewing FrameIndex) int {
	return int(viewing - t.Frame)
}

// Share is a positive rational weight used to compute a proportional split of
// a total into two exact Money amounts. Once the split is computed the
// amounts are fixed; shares are never re-derived.
type Share struct {
	dec decimal.Decimal
}

// ParseShare parses a share weight from its decimal string.
func ParseShare(s string) (Share, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Share{}, fmt.Errorf("%w: %q", ErrInvalidShare, s)
	}

	if !d.IsPositive() {
		return Share{}, fmt.Errorf("%w: %q must be positive", ErrInvalidShare, s)
	}

	return Share{dec: d}, nil
}

// MustParseShare parses a share weight and panics on failure.
func MustParseShare(s string) Share {
	sh, err := ParseShare(s)
	if err != nil {
		panic(err)
	}
	return sh
}

// String returns the share's decimal string.
func (s Share) String() string {
	return s.dec.String()
}

// IsZero reports whether the share is the zero value (unset).
func (s Share) IsZero() bool {
	return s.dec.IsZero()
}

// DistributeTotal splits total proportionally between mine and theirs.
// Mine is rounded to two decimal places; theirs takes the exact remainder so
// the two always sum back to total.
func DistributeTotal(total Money, mine, theirs Share) (Money, Money) {
	weights := mine.dec.Add(theirs.dec)
	if weights.IsZero() {
		return total, MoneyZero
	}

	my := Money{dec: total.dec.Mul(mine.dec).Div(weights).Round(2)}
	return my, total.Minus(my)
}
