package domain

// HistorySnapshot is one frame's {budget, spending} record for a category,
// kept to render per-category trend displays.
type HistorySnapshot struct {
	GroupID    string
	CategoryID string
	Frame      FrameIndex
	Budget     Money
	Spending   Money
}

// CategoryHistory is the ordered window of snapshots for one category,
// oldest first, ending at the viewing frame. The snapshot for a past frame
// sits at index len - 1 - (viewing - frame).
type CategoryHistory []HistorySnapshot

// At returns the snapshot offset frames back from the viewing frame.
func (h CategoryHistory) At(offset int) (HistorySnapshot, bool) {
	i := len(h) - 1 - offset
	if i < 0 || i >= len(h) {
		return HistorySnapshot{}, false
	}
	return h[i], true
}

// AddSpending returns the snapshot with delta added to its spending.
func (s HistorySnapshot) AddSpending(delta Money) HistorySnapshot {
	s.Spending = s.Spending.Plus(delta)
	return s
}
