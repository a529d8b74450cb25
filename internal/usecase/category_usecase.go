package usecase

import (
	"context"

	"github.com/iho/gobudget/internal/domain"
)

// CategoryUseCase handles category bookkeeping: creation, budget edits and
// cover ("move budget") operations.
type CategoryUseCase struct {
	txManager    TransactionManager
	categoryRepo CategoryRepository
	historyRepo  HistoryRepository
	idGen        IDGenerator
	cache        Cache
}

// NewCategoryUseCase creates a new CategoryUseCase. The cache is optional.
func NewCategoryUseCase(
	txManager TransactionManager,
	categoryRepo CategoryRepository,
	historyRepo HistoryRepository,
	idGen IDGenerator,
	cache Cache,
) *CategoryUseCase {
	return &CategoryUseCase{
		txManager:    txManager,
		categoryRepo: categoryRepo,
		historyRepo:  historyRepo,
		idGen:        idGen,
		cache:        cache,
	}
}

// CreateCategoryInput represents input for creating a category.
type CreateCategoryInput struct {
	GroupID  string
	Frame    domain.FrameIndex
	Name     string
	ParentID *string
}

// CreateCategory creates a category with zero budget and balance, ordered
// after every existing category in the (group, frame).
func (uc *CategoryUseCase) CreateCategory(ctx context.Context, input CreateCategoryInput) (*domain.Category, error) {
	if err := domain.ValidateCategoryName(input.Name); err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	existing, err := uc.categoryRepo.ListByFrame(ctx, input.GroupID, input.Frame)
	if err != nil {
		return nil, err
	}

	set := domain.NewCategorySet(derefCategories(existing))

	if input.ParentID != nil {
		parent, ok := set.Get(*input.ParentID)
		if !ok {
			return nil, domain.ErrCategoryNotFound
		}
		if parent.GroupID != input.GroupID {
			return nil, domain.ErrNotGroupMember
		}
	}

	category := &domain.Category{
		ID:       uc.idGen.Generate(),
		GroupID:  input.GroupID,
		Frame:    input.Frame,
		Name:     input.Name,
		Ordering: set.NextOrdering(),
		Budget:   domain.MoneyZero,
		Balance:  domain.MoneyZero,
		ParentID: input.ParentID,
		Alive:    true,
	}

	if err := uc.categoryRepo.Create(ctx, tx, category); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return category, nil
}

// UpdateBudgetInput represents input for a budget edit.
type UpdateBudgetInput struct {
	GroupID    string
	CategoryID string
	Budget     domain.Money
}

// UpdateBudget sets a category's budget. The balance absorbs the budget
// delta exactly; no spending event is implied.
func (uc *CategoryUseCase) UpdateBudget(ctx context.Context, input UpdateBudgetInput) (*domain.Category, error) {
	if err := domain.ValidateAmount(input.Budget, false); err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	category, err := uc.lockOwnedCategory(ctx, tx, input.GroupID, input.CategoryID)
	if err != nil {
		return nil, err
	}

	updated := category.WithBudget(input.Budget)
	if err := uc.categoryRepo.Update(ctx, tx, &updated); err != nil {
		return nil, err
	}

	if err := uc.recordBudget(ctx, tx, &updated); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.invalidateInsights(ctx, updated.GroupID, updated.Frame)

	return &updated, nil
}

// CoverBalanceInput represents input for covering an overspent category.
type CoverBalanceInput struct {
	GroupID    string
	CategoryID string
	// FromCategoryID is the budget source. Nil covers from the implicit
	// unbudgeted pool.
	FromCategoryID *string
}

// CoverBalanceResult carries both sides of a cover operation.
type CoverBalanceResult struct {
	Covered *domain.Category
	Source  *domain.Category
}

// CoverBalance resolves a negative category balance by moving budget from
// another category or from the unbudgeted pool.
func (uc *CategoryUseCase) CoverBalance(ctx context.Context, input CoverBalanceInput) (*CoverBalanceResult, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	overspent, err := uc.lockOwnedCategory(ctx, tx, input.GroupID, input.CategoryID)
	if err != nil {
		return nil, err
	}

	if !overspent.Balance.IsNegative() {
		return nil, domain.ErrNotOverspent
	}

	result := &CoverBalanceResult{}

	if input.FromCategoryID == nil {
		covered := domain.CoverFromUnbudgeted(*overspent)
		if err := uc.categoryRepo.Update(ctx, tx, &covered); err != nil {
			return nil, err
		}
		result.Covered = &covered
	} else {
		source, err := uc.lockOwnedCategory(ctx, tx, input.GroupID, *input.FromCategoryID)
		if err != nil {
			return nil, err
		}

		if source.Frame != overspent.Frame {
			return nil, domain.ErrCategoryFrameMismatch
		}

		covered, newSource := domain.CoverFromCategory(*overspent, *source)
		if err := uc.categoryRepo.Update(ctx, tx, &covered); err != nil {
			return nil, err
		}
		if err := uc.categoryRepo.Update(ctx, tx, &newSource); err != nil {
			return nil, err
		}

		result.Covered = &covered
		result.Source = &newSource

		if err := uc.recordBudget(ctx, tx, &newSource); err != nil {
			return nil, err
		}
	}

	if err := uc.recordBudget(ctx, tx, result.Covered); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.invalidateInsights(ctx, result.Covered.GroupID, result.Covered.Frame)

	return result, nil
}

// DeleteCategory soft-deletes a category. The record stays in place so past
// transactions keep resolving.
func (uc *CategoryUseCase) DeleteCategory(ctx context.Context, groupID, categoryID string) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	category, err := uc.lockOwnedCategory(ctx, tx, groupID, categoryID)
	if err != nil {
		return err
	}

	category.Alive = false
	if err := uc.categoryRepo.Update(ctx, tx, category); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	uc.invalidateInsights(ctx, category.GroupID, category.Frame)

	return nil
}

// GetHistory returns the spending-history window for a category ending at
// the viewing frame. Both bounds are inclusive, so the window holds the
// viewing frame plus up to HistoryWindow earlier frames, the same range the
// transaction write path maintains.
func (uc *CategoryUseCase) GetHistory(ctx context.Context, groupID, categoryID string, viewing domain.FrameIndex) (domain.CategoryHistory, error) {
	category, err := uc.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	if category.GroupID != groupID {
		return nil, domain.ErrNotGroupMember
	}

	return uc.historyRepo.Window(ctx, groupID, categoryID, viewing-domain.HistoryWindow, viewing)
}

// invalidateInsights drops the cached insight set for the category's frame
// so the next read recomputes against the new budgets.
func (uc *CategoryUseCase) invalidateInsights(ctx context.Context, groupID string, index domain.FrameIndex) {
	if uc.cache == nil {
		return
	}
	_ = uc.cache.Delete(ctx, insightsCacheKey(groupID, index))
}

// lockOwnedCategory loads a category for update, distinguishing a missing
// category from one owned by another group.
func (uc *CategoryUseCase) lockOwnedCategory(ctx context.Context, tx Transaction, groupID, categoryID string) (*domain.Category, error) {
	category, err := uc.categoryRepo.GetByIDForUpdate(ctx, tx, categoryID)
	if err != nil {
		return nil, err
	}

	if category.GroupID != groupID {
		return nil, domain.ErrNotGroupMember
	}

	if !category.Alive {
		return nil, domain.ErrCategoryDead
	}

	return category, nil
}

// recordBudget mirrors a category's current budget into its history snapshot
// for its own frame.
func (uc *CategoryUseCase) recordBudget(ctx context.Context, tx Transaction, category *domain.Category) error {
	snapshot, err := uc.historyRepo.Get(ctx, tx, category.GroupID, category.ID, category.Frame)
	if err != nil {
		return err
	}

	if snapshot == nil {
		snapshot = &domain.HistorySnapshot{
			GroupID:    category.GroupID,
			CategoryID: category.ID,
			Frame:      category.Frame,
		}
	}

	snapshot.Budget = category.Budget
	return uc.historyRepo.Upsert(ctx, tx, snapshot)
}

func derefCategories(in []*domain.Category) []domain.Category {
	out := make([]domain.Category, 0, len(in))
	for _, c := range in {
		out = append(out, *c)
	}
	return out
}
