package domain

import (
	"time"
)

// frameEpochYear anchors frame indexing. Index 0 is January of the epoch year.
const frameEpochYear = 1970

// FrameIndex identifies one calendar month's budgeting period as a
// monotonically increasing integer. Adjacent months differ by exactly 1.
type FrameIndex int

// NewFrameIndex maps a zero-based month (0 = January) and a year onto the
// frame index. The mapping is a bijection for month in [0,11].
func NewFrameIndex(month, year int) FrameIndex {
	return FrameIndex((year-frameEpochYear)*12 + month)
}

// ParseFrameIndex validates the month range before mapping.
func ParseFrameIndex(month, year int) (FrameIndex, error) {
	if month < 0 || month > 11 {
		return 0, ErrInvalidMonth
	}
	return NewFrameIndex(month, year), nil
}

// FrameIndexFromDate returns the frame the given date falls into.
func FrameIndexFromDate(t time.Time) FrameIndex {
	return NewFrameIndex(int(t.Month())-1, t.Year())
}

// Month returns the zero-based month of the frame.
func (i FrameIndex) Month() int {
	m := int(i) % 12
	if m < 0 {
		m += 12
	}
	return m
}

// Year returns the calendar year of the frame.
func (i FrameIndex) Year() int {
	return frameEpochYear + (int(i)-i.Month())/12
}

// Prev returns the preceding month's frame index.
func (i FrameIndex) Prev() FrameIndex {
	return i - 1
}

// Next returns the following month's frame index.
func (i FrameIndex) Next() FrameIndex {
	return i + 1
}

// Frame is one month's aggregate ledger state for a group.
// Balance is the running surplus/deficit carried across all frames up to and
// including this one; Spending is scoped to this frame alone.
type Frame struct {
	GroupID  string
	Index    FrameIndex
	Income   Money
	Balance  Money
	Spending Money
}

// NewFrame creates a frame that inherits the running balance from the
// previous frame. Pass MoneyZero when no prior frame exists.
func NewFrame(groupID string, index FrameIndex, previousBalance Money) Frame {
	return Frame{
		GroupID: groupID,
		Index:   index,
		Balance: previousBalance,
	}
}

// WithIncome returns the frame with income set. The running balance absorbs
// the income delta one-for-one.
func (f Frame) WithIncome(income Money) Frame {
	f.Balance = f.Balance.Plus(income.Minus(f.Income))
	f.Income = income
	return f
}

// ApplySpending returns the frame after amount is spent within it.
func (f Frame) ApplySpending(amount Money) Frame {
	f.Balance = f.Balance.Minus(amount)
	f.Spending = f.Spending.Plus(amount)
	return f
}

// ApplyPastSpending returns the frame after amount is spent in an earlier
// frame. The running balance still drops; this frame's own spending does not.
func (f Frame) ApplyPastSpending(amount Money) Frame {
	f.Balance = f.Balance.Minus(amount)
	return f
}

// NeedsBudgeting is the income-to-date not yet allocated to categories,
// restated as running balance plus this frame's spending.
func (f Frame) NeedsBudgeting() Money {
	return f.Balance.Plus(f.Spending)
}
