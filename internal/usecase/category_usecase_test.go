package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/usecase"
	"github.com/iho/gobudget/internal/usecase/mocks"
)

func newCategoryUseCase() (*usecase.CategoryUseCase, *mocks.MockCategoryRepository, *mocks.MockHistoryRepository) {
	categoryRepo := mocks.NewMockCategoryRepository()
	historyRepo := mocks.NewMockHistoryRepository()
	uc := usecase.NewCategoryUseCase(
		mocks.NewMockTransactionManager(),
		categoryRepo,
		historyRepo,
		mocks.NewMockIDGenerator(),
		nil,
	)
	return uc, categoryRepo, historyRepo
}

func seedCategory(t *testing.T, repo *mocks.MockCategoryRepository, c domain.Category) {
	t.Helper()
	if err := repo.Create(context.Background(), nil, &c); err != nil {
		t.Fatalf("seed category: %v", err)
	}
}

func TestCategoryUseCase_CreateCategory(t *testing.T) {
	frame := domain.NewFrameIndex(3, 2025)

	tests := []struct {
		name        string
		input       usecase.CreateCategoryInput
		seed        []domain.Category
		expectError error
	}{
		{
			name:  "successful creation",
			input: usecase.CreateCategoryInput{GroupID: "g1", Frame: frame, Name: "Groceries"},
		},
		{
			name:        "empty name rejected",
			input:       usecase.CreateCategoryInput{GroupID: "g1", Frame: frame, Name: ""},
			expectError: domain.ErrInvalidCategoryName,
		},
		{
			name:        "missing parent",
			input:       usecase.CreateCategoryInput{GroupID: "g1", Frame: frame, Name: "Snacks", ParentID: strPtr("nope")},
			expectError: domain.ErrCategoryNotFound,
		},
		{
			name:  "with existing parent",
			input: usecase.CreateCategoryInput{GroupID: "g1", Frame: frame, Name: "Snacks", ParentID: strPtr("food")},
			seed: []domain.Category{
				{ID: "food", GroupID: "g1", Frame: frame, Name: "Food", Ordering: 1, Alive: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, repo, _ := newCategoryUseCase()
			for _, c := range tt.seed {
				seedCategory(t, repo, c)
			}

			category, err := uc.CreateCategory(context.Background(), tt.input)

			if tt.expectError != nil {
				if !errors.Is(err, tt.expectError) {
					t.Fatalf("expected %v, got %v", tt.expectError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !category.Budget.IsZero() || !category.Balance.IsZero() {
				t.Errorf("new category must start at zero, got budget=%s balance=%s", category.Budget, category.Balance)
			}
			if !category.Alive {
				t.Error("new category must be alive")
			}
		})
	}
}

func TestCategoryUseCase_CreateCategory_OrderingAppends(t *testing.T) {
	frame := domain.NewFrameIndex(3, 2025)
	uc, repo, _ := newCategoryUseCase()
	seedCategory(t, repo, domain.Category{ID: "a", GroupID: "g1", Frame: frame, Name: "A", Ordering: 5, Alive: true})

	category, err := uc.CreateCategory(context.Background(), usecase.CreateCategoryInput{
		GroupID: "g1", Frame: frame, Name: "B",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if category.Ordering <= 5 {
		t.Errorf("expected ordering after existing categories, got %d", category.Ordering)
	}
}

func TestCategoryUseCase_UpdateBudget(t *testing.T) {
	frame := domain.NewFrameIndex(3, 2025)

	t.Run("balance absorbs budget delta", func(t *testing.T) {
		uc, repo, historyRepo := newCategoryUseCase()
		seedCategory(t, repo, domain.Category{
			ID: "c1", GroupID: "g1", Frame: frame, Name: "Food",
			Budget:  domain.MustParseMoney("50.00"),
			Balance: domain.MustParseMoney("40.00"),
			Alive:   true,
		})

		updated, err := uc.UpdateBudget(context.Background(), usecase.UpdateBudgetInput{
			GroupID: "g1", CategoryID: "c1", Budget: domain.MustParseMoney("30.00"),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := updated.Balance.String(); got != "20.00" {
			t.Errorf("expected balance 20.00, got %s", got)
		}

		snapshot, err := historyRepo.Get(context.Background(), nil, "g1", "c1", frame)
		if err != nil {
			t.Fatalf("history get: %v", err)
		}
		if snapshot == nil || snapshot.Budget.String() != "30.00" {
			t.Errorf("expected budget snapshot 30.00, got %+v", snapshot)
		}
	})

	t.Run("wrong group", func(t *testing.T) {
		uc, repo, _ := newCategoryUseCase()
		seedCategory(t, repo, domain.Category{ID: "c1", GroupID: "other", Frame: frame, Name: "Food", Alive: true})

		_, err := uc.UpdateBudget(context.Background(), usecase.UpdateBudgetInput{
			GroupID: "g1", CategoryID: "c1", Budget: domain.MustParseMoney("30.00"),
		})
		if !errors.Is(err, domain.ErrNotGroupMember) {
			t.Fatalf("expected ErrNotGroupMember, got %v", err)
		}
	})

	t.Run("dead category", func(t *testing.T) {
		uc, repo, _ := newCategoryUseCase()
		seedCategory(t, repo, domain.Category{ID: "c1", GroupID: "g1", Frame: frame, Name: "Food", Alive: false})

		_, err := uc.UpdateBudget(context.Background(), usecase.UpdateBudgetInput{
			GroupID: "g1", CategoryID: "c1", Budget: domain.MustParseMoney("30.00"),
		})
		if !errors.Is(err, domain.ErrCategoryDead) {
			t.Fatalf("expected ErrCategoryDead, got %v", err)
		}
	})

	t.Run("negative budget rejected", func(t *testing.T) {
		uc, repo, _ := newCategoryUseCase()
		seedCategory(t, repo, domain.Category{ID: "c1", GroupID: "g1", Frame: frame, Name: "Food", Alive: true})

		_, err := uc.UpdateBudget(context.Background(), usecase.UpdateBudgetInput{
			GroupID: "g1", CategoryID: "c1", Budget: domain.MustParseMoney("-5.00"),
		})
		if !errors.Is(err, domain.ErrInvalidAmount) {
			t.Fatalf("expected ErrInvalidAmount, got %v", err)
		}
	})
}

func TestCategoryUseCase_CoverBalance(t *testing.T) {
	frame := domain.NewFrameIndex(3, 2025)

	t.Run("not overspent", func(t *testing.T) {
		uc, repo, _ := newCategoryUseCase()
		seedCategory(t, repo, domain.Category{
			ID: "c1", GroupID: "g1", Frame: frame, Name: "Food",
			Budget: domain.MustParseMoney("50.00"), Balance: domain.MustParseMoney("10.00"),
			Alive: true,
		})

		_, err := uc.CoverBalance(context.Background(), usecase.CoverBalanceInput{GroupID: "g1", CategoryID: "c1"})
		if !errors.Is(err, domain.ErrNotOverspent) {
			t.Fatalf("expected ErrNotOverspent, got %v", err)
		}
	})

	t.Run("cover from unbudgeted pool", func(t *testing.T) {
		uc, repo, _ := newCategoryUseCase()
		seedCategory(t, repo, domain.Category{
			ID: "c1", GroupID: "g1", Frame: frame, Name: "Food",
			Budget: domain.MustParseMoney("50.00"), Balance: domain.MustParseMoney("-15.00"),
			Alive: true,
		})

		result, err := uc.CoverBalance(context.Background(), usecase.CoverBalanceInput{GroupID: "g1", CategoryID: "c1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := result.Covered.Budget.String(); got != "65.00" {
			t.Errorf("expected budget 65.00, got %s", got)
		}
		if !result.Covered.Balance.IsZero() {
			t.Errorf("expected balance zero, got %s", result.Covered.Balance)
		}
		if result.Source != nil {
			t.Error("unbudgeted cover must have no source category")
		}
	})

	t.Run("cover from another category", func(t *testing.T) {
		uc, repo, _ := newCategoryUseCase()
		seedCategory(t, repo, domain.Category{
			ID: "c1", GroupID: "g1", Frame: frame, Name: "Food",
			Budget: domain.MustParseMoney("50.00"), Balance: domain.MustParseMoney("-15.00"),
			Alive: true,
		})
		seedCategory(t, repo, domain.Category{
			ID: "c2", GroupID: "g1", Frame: frame, Name: "Fun",
			Budget: domain.MustParseMoney("100.00"), Balance: domain.MustParseMoney("100.00"),
			Alive: true,
		})

		result, err := uc.CoverBalance(context.Background(), usecase.CoverBalanceInput{
			GroupID: "g1", CategoryID: "c1", FromCategoryID: strPtr("c2"),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := result.Covered.Budget.String(); got != "65.00" {
			t.Errorf("expected covered budget 65.00, got %s", got)
		}
		if !result.Covered.Balance.IsZero() {
			t.Errorf("expected covered balance zero, got %s", result.Covered.Balance)
		}
		if got := result.Source.Budget.String(); got != "85.00" {
			t.Errorf("expected source budget 85.00, got %s", got)
		}
		if got := result.Source.Balance.String(); got != "85.00" {
			t.Errorf("expected source balance 85.00, got %s", got)
		}
	})

	t.Run("source in another frame", func(t *testing.T) {
		uc, repo, _ := newCategoryUseCase()
		seedCategory(t, repo, domain.Category{
			ID: "c1", GroupID: "g1", Frame: frame, Name: "Food",
			Balance: domain.MustParseMoney("-15.00"), Alive: true,
		})
		seedCategory(t, repo, domain.Category{
			ID: "c2", GroupID: "g1", Frame: frame.Next(), Name: "Fun",
			Budget: domain.MustParseMoney("100.00"), Balance: domain.MustParseMoney("100.00"),
			Alive: true,
		})

		_, err := uc.CoverBalance(context.Background(), usecase.CoverBalanceInput{
			GroupID: "g1", CategoryID: "c1", FromCategoryID: strPtr("c2"),
		})
		if !errors.Is(err, domain.ErrCategoryFrameMismatch) {
			t.Fatalf("expected ErrCategoryFrameMismatch, got %v", err)
		}
	})
}

func TestCategoryUseCase_DeleteCategory(t *testing.T) {
	frame := domain.NewFrameIndex(3, 2025)
	uc, repo, _ := newCategoryUseCase()
	seedCategory(t, repo, domain.Category{ID: "c1", GroupID: "g1", Frame: frame, Name: "Food", Alive: true})

	if err := uc.DeleteCategory(context.Background(), "g1", "c1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	category, err := repo.GetByID(context.Background(), "c1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if category.Alive {
		t.Error("expected category to be soft-deleted")
	}

	// Deleting again reports the category as dead, not missing.
	if err := uc.DeleteCategory(context.Background(), "g1", "c1"); !errors.Is(err, domain.ErrCategoryDead) {
		t.Fatalf("expected ErrCategoryDead, got %v", err)
	}
}

func TestCategoryUseCase_GetHistory_WindowBounds(t *testing.T) {
	viewing := domain.NewFrameIndex(6, 2025)
	uc, repo, historyRepo := newCategoryUseCase()
	seedCategory(t, repo, domain.Category{ID: "c1", GroupID: "g1", Frame: viewing, Name: "Food", Alive: true})

	// One snapshot per frame from just outside the window up to the
	// viewing frame itself.
	for idx := viewing - domain.HistoryWindow - 1; idx <= viewing; idx++ {
		err := historyRepo.Upsert(context.Background(), nil, &domain.HistorySnapshot{
			GroupID: "g1", CategoryID: "c1", Frame: idx,
			Spending: domain.MustParseMoney("1.00"),
		})
		if err != nil {
			t.Fatalf("seed snapshot: %v", err)
		}
	}

	history, err := uc.GetHistory(context.Background(), "g1", "c1", viewing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The window is inclusive on both ends: the viewing frame and the 6
	// frames before it, nothing older.
	if len(history) != domain.HistoryWindow+1 {
		t.Fatalf("expected %d snapshots, got %d", domain.HistoryWindow+1, len(history))
	}
	for _, s := range history {
		if s.Frame < viewing-domain.HistoryWindow || s.Frame > viewing {
			t.Errorf("snapshot frame %d outside the window", s.Frame)
		}
	}
}

func TestCategoryUseCase_BudgetEditsInvalidateCachedInsights(t *testing.T) {
	march := domain.NewFrameIndex(3, 2025)
	f := newFrameFixture()
	uc := usecase.NewCategoryUseCase(
		mocks.NewMockTransactionManager(),
		f.categoryRepo,
		mocks.NewMockHistoryRepository(),
		mocks.NewMockIDGenerator(),
		f.cache,
	)

	seedFrame(t, f.frameRepo, domain.Frame{
		GroupID: "g1", Index: march,
		Income:  domain.MustParseMoney("100.00"),
		Balance: domain.MustParseMoney("100.00"),
	})
	seedCategory(t, f.categoryRepo, domain.Category{
		ID: "c1", GroupID: "g1", Frame: march, Name: "Food",
		Budget: domain.MoneyZero, Balance: domain.MoneyZero, Alive: true,
	})

	// Prime the cache with the unallocated state.
	insights, err := f.uc.GetInsights(context.Background(), "g1", march)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	under, ok := insights[0].(domain.Underbudgeted)
	if !ok || under.Amount.String() != "100.00" {
		t.Fatalf("expected Underbudgeted 100.00, got %v", insights)
	}

	if _, err := uc.UpdateBudget(context.Background(), usecase.UpdateBudgetInput{
		GroupID: "g1", CategoryID: "c1", Budget: domain.MustParseMoney("100.00"),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The next read must recompute, not replay the pre-edit cache entry.
	insights, err = f.uc.GetInsights(context.Background(), "g1", march)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, in := range insights {
		if in.Kind() == domain.InsightKindUnderbudgeted {
			t.Fatalf("stale underbudgeted insight after budget edit: %v", in)
		}
	}
}

func TestCategoryUseCase_MutationsDropInsightsCacheKey(t *testing.T) {
	march := domain.NewFrameIndex(3, 2025)

	newFixture := func(t *testing.T, seed domain.Category) (*usecase.CategoryUseCase, *[]string) {
		var deleted []string
		cache := mocks.NewMockCache()
		cache.DeleteFunc = func(ctx context.Context, key string) error {
			deleted = append(deleted, key)
			return nil
		}
		categoryRepo := mocks.NewMockCategoryRepository()
		seedCategory(t, categoryRepo, seed)
		uc := usecase.NewCategoryUseCase(
			mocks.NewMockTransactionManager(),
			categoryRepo,
			mocks.NewMockHistoryRepository(),
			mocks.NewMockIDGenerator(),
			cache,
		)
		return uc, &deleted
	}

	t.Run("cover balance", func(t *testing.T) {
		uc, deleted := newFixture(t, domain.Category{
			ID: "c1", GroupID: "g1", Frame: march, Name: "Food",
			Balance: domain.MustParseMoney("-15.00"), Alive: true,
		})
		if _, err := uc.CoverBalance(context.Background(), usecase.CoverBalanceInput{GroupID: "g1", CategoryID: "c1"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(*deleted) != 1 {
			t.Fatalf("expected one cache delete, got %d", len(*deleted))
		}
	})

	t.Run("delete category", func(t *testing.T) {
		uc, deleted := newFixture(t, domain.Category{
			ID: "c1", GroupID: "g1", Frame: march, Name: "Food", Alive: true,
		})
		if err := uc.DeleteCategory(context.Background(), "g1", "c1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(*deleted) != 1 {
			t.Fatalf("expected one cache delete, got %d", len(*deleted))
		}
	})

	t.Run("failed edit leaves cache alone", func(t *testing.T) {
		uc, deleted := newFixture(t, domain.Category{
			ID: "c1", GroupID: "other", Frame: march, Name: "Food", Alive: true,
		})
		_, err := uc.UpdateBudget(context.Background(), usecase.UpdateBudgetInput{
			GroupID: "g1", CategoryID: "c1", Budget: domain.MustParseMoney("10.00"),
		})
		if !errors.Is(err, domain.ErrNotGroupMember) {
			t.Fatalf("expected ErrNotGroupMember, got %v", err)
		}
		if len(*deleted) != 0 {
			t.Fatalf("expected no cache delete, got %d", len(*deleted))
		}
	})
}

func strPtr(s string) *string { return &s }
