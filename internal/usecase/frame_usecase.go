package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iho/gobudget/internal/domain"
)

// FrameUseCase handles monthly frame reconciliation and insight generation.
type FrameUseCase struct {
	txManager       TransactionManager
	frameRepo       FrameRepository
	categoryRepo    CategoryRepository
	transactionRepo TransactionRepository
	cache           Cache
}

// NewFrameUseCase creates a new FrameUseCase. The cache is optional.
func NewFrameUseCase(
	txManager TransactionManager,
	frameRepo FrameRepository,
	categoryRepo CategoryRepository,
	transactionRepo TransactionRepository,
	cache Cache,
) *FrameUseCase {
	return &FrameUseCase{
		txManager:       txManager,
		frameRepo:       frameRepo,
		categoryRepo:    categoryRepo,
		transactionRepo: transactionRepo,
		cache:           cache,
	}
}

// GetOrCreate returns the frame for (group, index), lazily creating it with
// the running balance carried over from the most recent earlier frame.
func (uc *FrameUseCase) GetOrCreate(ctx context.Context, groupID string, index domain.FrameIndex) (*domain.Frame, error) {
	frame, err := uc.frameRepo.Get(ctx, groupID, index)
	if err == nil {
		return frame, nil
	}
	if !errors.Is(err, domain.ErrFrameNotFound) {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	frame, err = getOrCreateFrameTx(ctx, tx, uc.frameRepo, groupID, index)
	if err != nil {
		// A concurrent caller can create the frame between the unlocked
		// read above and the insert. Their row is the one to return.
		if errors.Is(err, domain.ErrFrameExists) {
			return uc.frameRepo.Get(ctx, groupID, index)
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return frame, nil
}

// getOrCreateFrameTx is the transactional get-or-create used by every
// mutating path: it locks the frame row, creating it first when absent.
func getOrCreateFrameTx(ctx context.Context, tx Transaction, repo FrameRepository, groupID string, index domain.FrameIndex) (*domain.Frame, error) {
	frame, err := repo.GetForUpdate(ctx, tx, groupID, index)
	if err == nil {
		return frame, nil
	}
	if !errors.Is(err, domain.ErrFrameNotFound) {
		return nil, err
	}

	previousBalance := domain.MoneyZero
	previous, err := repo.GetLatestBefore(ctx, tx, groupID, index)
	if err != nil && !errors.Is(err, domain.ErrFrameNotFound) {
		return nil, err
	}
	if previous != nil {
		previousBalance = previous.Balance
	}

	created := domain.NewFrame(groupID, index, previousBalance)
	if err := repo.Create(ctx, tx, &created); err != nil {
		return nil, err
	}

	return &created, nil
}

// SetIncomeInput represents input for setting a frame's income.
type SetIncomeInput struct {
	GroupID string
	Index   domain.FrameIndex
	Income  domain.Money
}

// SetIncome sets a frame's income; the running balance absorbs the delta.
func (uc *FrameUseCase) SetIncome(ctx context.Context, input SetIncomeInput) (*domain.Frame, error) {
	if err := domain.ValidateAmount(input.Income, false); err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	frame, err := getOrCreateFrameTx(ctx, tx, uc.frameRepo, input.GroupID, input.Index)
	if err != nil {
		return nil, err
	}

	updated := frame.WithIncome(input.Income)
	if err := uc.frameRepo.Update(ctx, tx, &updated); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.invalidateInsights(ctx, input.GroupID, input.Index)

	return &updated, nil
}

// insightRecord is the cacheable flat form of a domain.Insight.
type insightRecord struct {
	Kind       domain.InsightKind `json:"kind"`
	Amount     domain.Money       `json:"amount,omitempty"`
	CategoryID string             `json:"category_id,omitempty"`
	Name       string             `json:"name,omitempty"`
	Balance    domain.Money       `json:"balance,omitempty"`
	Count      int                `json:"count,omitempty"`
}

func recordsFromInsights(insights []domain.Insight) []insightRecord {
	records := make([]insightRecord, 0, len(insights))
	for _, in := range insights {
		switch v := in.(type) {
		case domain.Overbudgeted:
			records = append(records, insightRecord{Kind: v.Kind(), Amount: v.Amount})
		case domain.Underbudgeted:
			records = append(records, insightRecord{Kind: v.Kind(), Amount: v.Amount})
		case domain.OverspentCategory:
			records = append(records, insightRecord{Kind: v.Kind(), CategoryID: v.CategoryID, Name: v.Name, Balance: v.Balance})
		case domain.UncategorizedTransactions:
			records = append(records, insightRecord{Kind: v.Kind(), Count: v.Count})
		default:
			panic(fmt.Sprintf("unhandled insight variant %T", in))
		}
	}
	return records
}

func insightsFromRecords(records []insightRecord) ([]domain.Insight, error) {
	insights := make([]domain.Insight, 0, len(records))
	for _, r := range records {
		switch r.Kind {
		case domain.InsightKindOverbudgeted:
			insights = append(insights, domain.Overbudgeted{Amount: r.Amount})
		case domain.InsightKindUnderbudgeted:
			insights = append(insights, domain.Underbudgeted{Amount: r.Amount})
		case domain.InsightKindOverspent:
			insights = append(insights, domain.OverspentCategory{CategoryID: r.CategoryID, Name: r.Name, Balance: r.Balance})
		case domain.InsightKindUncategorized:
			insights = append(insights, domain.UncategorizedTransactions{Count: r.Count})
		default:
			return nil, fmt.Errorf("unhandled insight kind %q", r.Kind)
		}
	}
	return insights, nil
}

// GetInsights derives the advisory set for a frame, with a short-lived cache
// in front of the computation.
func (uc *FrameUseCase) GetInsights(ctx context.Context, groupID string, index domain.FrameIndex) ([]domain.Insight, error) {
	key := insightsCacheKey(groupID, index)

	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, key); err == nil && cached != nil {
			var records []insightRecord
			if err := json.Unmarshal(cached, &records); err == nil {
				if insights, err := insightsFromRecords(records); err == nil {
					return insights, nil
				}
			}
		}
	}

	frame, err := uc.GetOrCreate(ctx, groupID, index)
	if err != nil {
		return nil, err
	}

	categories, err := uc.categoryRepo.ListByFrame(ctx, groupID, index)
	if err != nil {
		return nil, err
	}

	uncategorized, err := uc.transactionRepo.CountUncategorized(ctx, groupID, index)
	if err != nil {
		return nil, err
	}

	insights := domain.FrameInsights(*frame, aliveCategories(categories), uncategorized)

	if uc.cache != nil {
		if payload, err := json.Marshal(recordsFromInsights(insights)); err == nil {
			_ = uc.cache.Set(ctx, key, payload, InsightsCacheTTL)
		}
	}

	return insights, nil
}

// FrameView is the assembled month view: the frame, its categories with
// tree-summed display values, and the derived insights.
type FrameView struct {
	Frame      domain.Frame
	Categories []CategoryView
	Insights   []domain.Insight
}

// CategoryView pairs a category with its display sums.
type CategoryView struct {
	Category       domain.Category
	DisplayBudget  domain.Money
	DisplayBalance domain.Money
}

// GetView assembles the full month view for a group.
func (uc *FrameUseCase) GetView(ctx context.Context, groupID string, index domain.FrameIndex) (*FrameView, error) {
	frame, err := uc.GetOrCreate(ctx, groupID, index)
	if err != nil {
		return nil, err
	}

	categories, err := uc.categoryRepo.ListByFrame(ctx, groupID, index)
	if err != nil {
		return nil, err
	}

	alive := aliveCategories(categories)
	set := domain.NewCategorySet(alive)

	views := make([]CategoryView, 0, len(alive))
	for _, c := range alive {
		views = append(views, CategoryView{
			Category:       c,
			DisplayBudget:  set.DisplayBudget(c.ID),
			DisplayBalance: set.DisplayBalance(c.ID),
		})
	}

	insights, err := uc.GetInsights(ctx, groupID, index)
	if err != nil {
		return nil, err
	}

	return &FrameView{
		Frame:      *frame,
		Categories: views,
		Insights:   insights,
	}, nil
}

func (uc *FrameUseCase) invalidateInsights(ctx context.Context, groupID string, index domain.FrameIndex) {
	if uc.cache == nil {
		return
	}
	_ = uc.cache.Delete(ctx, insightsCacheKey(groupID, index))
}

func insightsCacheKey(groupID string, index domain.FrameIndex) string {
	return fmt.Sprintf("insights:%s:%d", groupID, index)
}

func aliveCategories(in []*domain.Category) []domain.Category {
	out := make([]domain.Category, 0, len(in))
	for _, c := range in {
		if c.Alive {
			out = append(out, *c)
		}
	}
	return out
}
