package domain

// Category is a budget bucket within a single frame. Balance is the budget
// remaining after spending; negative means overspent. Categories are never
// physically removed, only marked not alive, so transaction history stays
// intact.
type Category struct {
	ID       string
	GroupID  string
	Frame    FrameIndex
	Name     string
	Ordering int
	Budget   Money
	Balance  Money
	ParentID *string
	Alive    bool
}

// WithBudget returns the category with its budget set to b. The balance
// absorbs the budget delta exactly: changing the budget without a spending
// event shifts the balance by the same amount.
func (c Category) WithBudget(b Money) Category {
	c.Balance = c.Balance.Plus(b.Minus(c.Budget))
	c.Budget = b
	return c
}

// ApplySpending returns the category after amount is spent against it.
func (c Category) ApplySpending(amount Money) Category {
	c.Balance = c.Balance.Minus(amount)
	return c
}

// ReverseSpending returns the category with a prior debit undone.
func (c Category) ReverseSpending(amount Money) Category {
	c.Balance = c.Balance.Plus(amount)
	return c
}

// CoverFromCategory resolves the overspent category's negative balance by
// moving budget out of source. The deficit (a negative amount) is added to
// both of source's fields, the overspent category's budget is reduced to
// match actual spending, and its balance lands on zero. Total budget+balance
// across the pair is conserved up to the overspent budget correction.
func CoverFromCategory(overspent, source Category) (covered, newSource Category) {
	deficit := overspent.Balance

	source.Budget = source.Budget.Plus(deficit)
	source.Balance = source.Balance.Plus(deficit)

	return coverOwn(overspent), source
}

// CoverFromUnbudgeted resolves a negative balance against the implicit
// unbudgeted pool. Only the overspent category's own fields change.
func CoverFromUnbudgeted(overspent Category) Category {
	return coverOwn(overspent)
}

func coverOwn(c Category) Category {
	c.Budget = c.Budget.Minus(c.Balance)
	c.Balance = MoneyZero
	return c
}

// CategorySet is an arena of one frame's categories with a lazily built
// children adjacency index. The index is invalidated by a structural version
// counter whenever the set changes.
type CategorySet struct {
	byID     map[string]*Category
	ordered  []string
	children map[string][]string
	version  uint64
	indexed  uint64
}

// NewCategorySet builds an arena over the given categories.
func NewCategorySet(categories []Category) *CategorySet {
	s := &CategorySet{
		byID: make(map[string]*Category, len(categories)),
	}
	for i := range categories {
		c := categories[i]
		s.byID[c.ID] = &c
		s.ordered = append(s.ordered, c.ID)
	}
	s.version = 1
	return s
}

// Get returns the category with the given id.
func (s *CategorySet) Get(id string) (Category, bool) {
	c, ok := s.byID[id]
	if !ok {
		return Category{}, false
	}
	return *c, true
}

// Put inserts or replaces a category, bumping the structural version.
func (s *CategorySet) Put(c Category) {
	if _, exists := s.byID[c.ID]; !exists {
		s.ordered = append(s.ordered, c.ID)
	}
	stored := c
	s.byID[c.ID] = &stored
	s.version++
}

// All returns the categories in insertion order.
func (s *CategorySet) All() []Category {
	out := make([]Category, 0, len(s.ordered))
	for _, id := range s.ordered {
		out = append(out, *s.byID[id])
	}
	return out
}

// NextOrdering is one past the largest ordering in the set.
func (s *CategorySet) NextOrdering() int {
	max := -1
	for _, c := range s.byID {
		if c.Ordering > max {
			max = c.Ordering
		}
	}
	return max + 1
}

func (s *CategorySet) ensureIndex() {
	if s.indexed == s.version {
		return
	}

	s.children = make(map[string][]string)
	for _, id := range s.ordered {
		c := s.byID[id]
		if c.ParentID != nil {
			s.children[*c.ParentID] = append(s.children[*c.ParentID], c.ID)
		}
	}
	s.indexed = s.version
}

// Descendants returns the transitive closure of children under id.
func (s *CategorySet) Descendants(id string) []Category {
	s.ensureIndex()

	var out []Category
	queue := append([]string(nil), s.children[id]...)
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		if c, ok := s.byID[next]; ok {
			out = append(out, *c)
			queue = append(queue, s.children[next]...)
		}
	}
	return out
}

// DisplayBudget is the category's own budget plus every descendant's budget.
func (s *CategorySet) DisplayBudget(id string) Money {
	c, ok := s.byID[id]
	if !ok {
		return MoneyZero
	}

	total := c.Budget
	for _, d := range s.Descendants(id) {
		total = total.Plus(d.Budget)
	}
	return total
}

// DisplayBalance is the category's own balance plus every descendant's balance.
func (s *CategorySet) DisplayBalance(id string) Money {
	c, ok := s.byID[id]
	if !ok {
		return MoneyZero
	}

	total := c.Balance
	for _, d := range s.Descendants(id) {
		total = total.Plus(d.Balance)
	}
	return total
}
