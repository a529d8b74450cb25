package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/usecase"
	"github.com/iho/gobudget/internal/usecase/mocks"
)

type transactionFixture struct {
	uc              *usecase.TransactionUseCase
	transactionRepo *mocks.MockTransactionRepository
	categoryRepo    *mocks.MockCategoryRepository
	frameRepo       *mocks.MockFrameRepository
	historyRepo     *mocks.MockHistoryRepository
	debtRepo        *mocks.MockDebtRepository
}

func newTransactionFixture() *transactionFixture {
	f := &transactionFixture{
		transactionRepo: mocks.NewMockTransactionRepository(),
		categoryRepo:    mocks.NewMockCategoryRepository(),
		frameRepo:       mocks.NewMockFrameRepository(),
		historyRepo:     mocks.NewMockHistoryRepository(),
		debtRepo:        mocks.NewMockDebtRepository(),
	}
	f.uc = usecase.NewTransactionUseCase(
		mocks.NewMockTransactionManager(),
		f.transactionRepo,
		f.categoryRepo,
		f.frameRepo,
		f.historyRepo,
		f.debtRepo,
		mocks.NewMockCache(),
		mocks.NewMockIDGenerator(),
		nil,
		nil,
	)
	return f
}

var (
	march      = domain.NewFrameIndex(3, 2025)
	february   = domain.NewFrameIndex(2, 2025)
	marchDate  = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	febDate    = time.Date(2025, time.February, 20, 12, 0, 0, 0, time.UTC)
	aprilDate  = time.Date(2025, time.April, 1, 12, 0, 0, 0, time.UTC)
)

func (f *transactionFixture) mustFrame(t *testing.T, groupID string, index domain.FrameIndex) *domain.Frame {
	t.Helper()
	frame, err := f.frameRepo.Get(context.Background(), groupID, index)
	if err != nil {
		t.Fatalf("frame %s/%d: %v", groupID, index, err)
	}
	return frame
}

func (f *transactionFixture) mustCategory(t *testing.T, id string) *domain.Category {
	t.Helper()
	category, err := f.categoryRepo.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("category %s: %v", id, err)
	}
	return category
}

func TestTransactionUseCase_MutationsCarryTransactionDeadline(t *testing.T) {
	txManager := mocks.NewMockTransactionManager()
	var deadlineSet bool
	txManager.BeginFunc = func(ctx context.Context) (usecase.Transaction, error) {
		_, deadlineSet = ctx.Deadline()
		return &mocks.MockTransaction{}, nil
	}
	frameRepo := mocks.NewMockFrameRepository()
	seedFrame(t, frameRepo, domain.Frame{GroupID: "g1", Index: march})
	uc := usecase.NewTransactionUseCase(
		txManager,
		mocks.NewMockTransactionRepository(),
		mocks.NewMockCategoryRepository(),
		frameRepo,
		mocks.NewMockHistoryRepository(),
		mocks.NewMockDebtRepository(),
		nil,
		mocks.NewMockIDGenerator(),
		nil,
		nil,
	)

	_, err := uc.AddTransaction(context.Background(), usecase.AddTransactionInput{
		GroupID: "g1", ActorUID: "alice", ViewingFrame: march,
		Amount: domain.MustParseMoney("5.00"), Description: "coffee", Date: marchDate,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deadlineSet {
		t.Error("expected the transaction context to carry a deadline")
	}
}

func TestTransactionUseCase_AddTransaction_SameFrame(t *testing.T) {
	f := newTransactionFixture()
	seedFrame(t, f.frameRepo, domain.Frame{
		GroupID: "g1", Index: march,
		Balance: domain.MustParseMoney("200.00"),
	})
	seedCategory(t, f.categoryRepo, domain.Category{
		ID: "c1", GroupID: "g1", Frame: march, Name: "Food",
		Budget:  domain.MustParseMoney("50.00"),
		Balance: domain.MustParseMoney("50.00"),
		Alive:   true,
	})

	_, err := f.uc.AddTransaction(context.Background(), usecase.AddTransactionInput{
		GroupID:      "g1",
		ActorUID:     "alice",
		ViewingFrame: march,
		Amount:       domain.MustParseMoney("10.00"),
		CategoryID:   strPtr("c1"),
		Description:  "lunch",
		Date:         marchDate,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	frame := f.mustFrame(t, "g1", march)
	if got := frame.Balance.String(); got != "190.00" {
		t.Errorf("expected frame balance 190.00, got %s", got)
	}
	if got := frame.Spending.String(); got != "10.00" {
		t.Errorf("expected frame spending 10.00, got %s", got)
	}

	category := f.mustCategory(t, "c1")
	if got := category.Balance.String(); got != "40.00" {
		t.Errorf("expected category balance 40.00, got %s", got)
	}
	if got := category.Budget.String(); got != "50.00" {
		t.Errorf("budget must not move on spending, got %s", got)
	}

	snapshot, err := f.historyRepo.Get(context.Background(), nil, "g1", "c1", march)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if snapshot == nil || snapshot.Spending.String() != "10.00" {
		t.Errorf("expected history spending 10.00, got %+v", snapshot)
	}
}

func TestTransactionUseCase_AddTransaction_PastFrame(t *testing.T) {
	f := newTransactionFixture()
	seedFrame(t, f.frameRepo, domain.Frame{
		GroupID: "g1", Index: march,
		Balance:  domain.MustParseMoney("200.00"),
		Spending: domain.MustParseMoney("30.00"),
	})
	seedCategory(t, f.categoryRepo, domain.Category{
		ID: "c-feb", GroupID: "g1", Frame: february, Name: "Food",
		Balance: domain.MustParseMoney("20.00"),
		Alive:   true,
	})

	_, err := f.uc.AddTransaction(context.Background(), usecase.AddTransactionInput{
		GroupID:      "g1",
		ActorUID:     "alice",
		ViewingFrame: march,
		Amount:       domain.MustParseMoney("15.00"),
		CategoryID:   strPtr("c-feb"),
		Description:  "forgotten receipt",
		Date:         febDate,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The viewed frame's running balance drops, its own spending does not.
	frame := f.mustFrame(t, "g1", march)
	if got := frame.Balance.String(); got != "185.00" {
		t.Errorf("expected frame balance 185.00, got %s", got)
	}
	if got := frame.Spending.String(); got != "30.00" {
		t.Errorf("expected frame spending unchanged at 30.00, got %s", got)
	}

	// A past-frame category keeps its balance; only history records it.
	category := f.mustCategory(t, "c-feb")
	if got := category.Balance.String(); got != "20.00" {
		t.Errorf("expected category balance unchanged, got %s", got)
	}

	snapshot, err := f.historyRepo.Get(context.Background(), nil, "g1", "c-feb", february)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if snapshot == nil || snapshot.Spending.String() != "15.00" {
		t.Errorf("expected history spending 15.00, got %+v", snapshot)
	}
}

func TestTransactionUseCase_AddTransaction_Errors(t *testing.T) {
	tests := []struct {
		name        string
		input       usecase.AddTransactionInput
		expectError error
	}{
		{
			name: "future frame",
			input: usecase.AddTransactionInput{
				GroupID: "g1", ActorUID: "alice", ViewingFrame: march,
				Amount: domain.MustParseMoney("10.00"), Date: aprilDate,
			},
			expectError: domain.ErrFutureFrame,
		},
		{
			name: "negative amount",
			input: usecase.AddTransactionInput{
				GroupID: "g1", ActorUID: "alice", ViewingFrame: march,
				Amount: domain.MustParseMoney("-10.00"), Date: marchDate,
			},
			expectError: domain.ErrInvalidAmount,
		},
		{
			name: "category from another frame",
			input: usecase.AddTransactionInput{
				GroupID: "g1", ActorUID: "alice", ViewingFrame: march,
				Amount: domain.MustParseMoney("10.00"), Date: marchDate,
				CategoryID: strPtr("c-feb"),
			},
			expectError: domain.ErrCategoryFrameMismatch,
		},
		{
			name: "category from another group",
			input: usecase.AddTransactionInput{
				GroupID: "g1", ActorUID: "alice", ViewingFrame: march,
				Amount: domain.MustParseMoney("10.00"), Date: marchDate,
				CategoryID: strPtr("c-other"),
			},
			expectError: domain.ErrNotGroupMember,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTransactionFixture()
			seedFrame(t, f.frameRepo, domain.Frame{GroupID: "g1", Index: march})
			seedCategory(t, f.categoryRepo, domain.Category{
				ID: "c-feb", GroupID: "g1", Frame: february, Name: "Food", Alive: true,
			})
			seedCategory(t, f.categoryRepo, domain.Category{
				ID: "c-other", GroupID: "g2", Frame: march, Name: "Theirs", Alive: true,
			})

			_, err := f.uc.AddTransaction(context.Background(), tt.input)
			if !errors.Is(err, tt.expectError) {
				t.Fatalf("expected %v, got %v", tt.expectError, err)
			}
		})
	}
}

func TestTransactionUseCase_AddTransaction_Split(t *testing.T) {
	f := newTransactionFixture()
	seedFrame(t, f.frameRepo, domain.Frame{
		GroupID: "g-alice", Index: march,
		Balance: domain.MustParseMoney("100.00"),
	})

	created, err := f.uc.AddTransaction(context.Background(), usecase.AddTransactionInput{
		GroupID:      "g-alice",
		ActorUID:     "alice",
		ViewingFrame: march,
		Description:  "dinner",
		Date:         marchDate,
		Split: &usecase.SplitInput{
			WithUID:     "bob",
			WithGroupID: "g-bob",
			Payer:       "alice",
			Total:       domain.MustParseMoney("30.00"),
			MyShare:     domain.MustParseShare("1"),
			TheirShare:  domain.MustParseShare("2"),
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := created.Amount.String(); got != "10.00" {
		t.Errorf("expected my amount 10.00, got %s", got)
	}
	if got := created.Split.OtherAmount.String(); got != "20.00" {
		t.Errorf("expected other amount 20.00, got %s", got)
	}

	// My ledger.
	frame := f.mustFrame(t, "g-alice", march)
	if got := frame.Balance.String(); got != "90.00" {
		t.Errorf("expected my balance 90.00, got %s", got)
	}

	// Their ledger got a mirror in the transaction's frame.
	theirFrame := f.mustFrame(t, "g-bob", march)
	if got := theirFrame.Spending.String(); got != "20.00" {
		t.Errorf("expected their spending 20.00, got %s", got)
	}

	mirror, err := f.transactionRepo.GetMirror(context.Background(), nil, created.Split.ID, created.ID)
	if err != nil {
		t.Fatalf("mirror: %v", err)
	}
	if mirror == nil {
		t.Fatal("expected a mirror transaction")
	}
	if mirror.GroupID != "g-bob" || mirror.Split.With != "alice" {
		t.Errorf("mirror wired wrong: group=%s with=%s", mirror.GroupID, mirror.Split.With)
	}
	if got := mirror.Amount.String(); got != "20.00" {
		t.Errorf("expected mirror amount 20.00, got %s", got)
	}
	if mirror.Split.MyShare.String() != "2" || mirror.Split.TheirShare.String() != "1" {
		t.Errorf("mirror shares not swapped: %s/%s", mirror.Split.MyShare, mirror.Split.TheirShare)
	}

	// Alice paid 30 but owes only 10, so Bob owes her 20.
	u1, u2 := domain.CanonicalPair("alice", "bob")
	debt, err := f.debtRepo.Get(context.Background(), u1, u2)
	if err != nil {
		t.Fatalf("debt: %v", err)
	}
	if got := debt.OwedBy("bob").String(); got != "20.00" {
		t.Errorf("expected bob to owe 20.00, got %s", got)
	}
}

func TestTransactionUseCase_AddTransaction_SettledSplitLeavesDebtAlone(t *testing.T) {
	f := newTransactionFixture()
	seedFrame(t, f.frameRepo, domain.Frame{GroupID: "g-alice", Index: march})

	_, err := f.uc.AddTransaction(context.Background(), usecase.AddTransactionInput{
		GroupID:      "g-alice",
		ActorUID:     "alice",
		ViewingFrame: march,
		Description:  "settled dinner",
		Date:         marchDate,
		Split: &usecase.SplitInput{
			WithUID:     "bob",
			WithGroupID: "g-bob",
			Payer:       "alice",
			Total:       domain.MustParseMoney("30.00"),
			MyShare:     domain.MustParseShare("1"),
			TheirShare:  domain.MustParseShare("1"),
			Settled:     true,
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	u1, u2 := domain.CanonicalPair("alice", "bob")
	if _, err := f.debtRepo.Get(context.Background(), u1, u2); !errors.Is(err, domain.ErrDebtNotFound) {
		t.Fatalf("expected no debt record, got %v", err)
	}
}

func TestTransactionUseCase_AddTransaction_SplitPayerMustParticipate(t *testing.T) {
	f := newTransactionFixture()
	seedFrame(t, f.frameRepo, domain.Frame{GroupID: "g-alice", Index: march})

	_, err := f.uc.AddTransaction(context.Background(), usecase.AddTransactionInput{
		GroupID:      "g-alice",
		ActorUID:     "alice",
		ViewingFrame: march,
		Description:  "dinner",
		Date:         marchDate,
		Split: &usecase.SplitInput{
			WithUID:     "bob",
			WithGroupID: "g-bob",
			Payer:       "charlie",
			Total:       domain.MustParseMoney("30.00"),
			MyShare:     domain.MustParseShare("1"),
			TheirShare:  domain.MustParseShare("2"),
		},
	})
	if !errors.Is(err, domain.ErrInvalidPayer) {
		t.Fatalf("expected ErrInvalidPayer, got %v", err)
	}

	// Nothing was recorded and no debt materialized between the pair.
	u1, u2 := domain.CanonicalPair("alice", "bob")
	if _, err := f.debtRepo.Get(context.Background(), u1, u2); !errors.Is(err, domain.ErrDebtNotFound) {
		t.Fatalf("expected no debt record, got %v", err)
	}
	list, err := f.transactionRepo.ListByFrame(context.Background(), "g-alice", march, 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected no stored transactions, got %d", len(list))
	}
}

func TestTransactionUseCase_AddTransaction_CounterpartyPayerAccepted(t *testing.T) {
	f := newTransactionFixture()
	seedFrame(t, f.frameRepo, domain.Frame{GroupID: "g-alice", Index: march})

	created, err := f.uc.AddTransaction(context.Background(), usecase.AddTransactionInput{
		GroupID:      "g-alice",
		ActorUID:     "alice",
		ViewingFrame: march,
		Description:  "dinner",
		Date:         marchDate,
		Split: &usecase.SplitInput{
			WithUID:     "bob",
			WithGroupID: "g-bob",
			Payer:       "bob",
			Total:       domain.MustParseMoney("30.00"),
			MyShare:     domain.MustParseShare("1"),
			TheirShare:  domain.MustParseShare("2"),
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Split.Payer != "bob" {
		t.Fatalf("expected payer bob, got %s", created.Split.Payer)
	}

	// Bob fronted the total, so Alice owes her 10.00 share.
	u1, u2 := domain.CanonicalPair("alice", "bob")
	debt, err := f.debtRepo.Get(context.Background(), u1, u2)
	if err != nil {
		t.Fatalf("debt: %v", err)
	}
	if got := debt.OwedBy("alice").String(); got != "10.00" {
		t.Errorf("expected alice to owe 10.00, got %s", got)
	}
}

func TestTransactionUseCase_UpdateTransaction(t *testing.T) {
	t.Run("amount change adjusts frame category and history", func(t *testing.T) {
		f := newTransactionFixture()
		seedFrame(t, f.frameRepo, domain.Frame{GroupID: "g1", Index: march})
		seedCategory(t, f.categoryRepo, domain.Category{
			ID: "c1", GroupID: "g1", Frame: march, Name: "Food",
			Budget: domain.MustParseMoney("50.00"), Balance: domain.MustParseMoney("50.00"),
			Alive: true,
		})

		created, err := f.uc.AddTransaction(context.Background(), usecase.AddTransactionInput{
			GroupID: "g1", ActorUID: "alice", ViewingFrame: march,
			Amount: domain.MustParseMoney("10.00"), CategoryID: strPtr("c1"),
			Description: "lunch", Date: marchDate,
		})
		if err != nil {
			t.Fatalf("add: %v", err)
		}

		newAmount := domain.MustParseMoney("25.00")
		_, err = f.uc.UpdateTransaction(context.Background(), usecase.UpdateTransactionInput{
			GroupID: "g1", ViewingFrame: march, TransactionID: created.ID,
			Amount: &newAmount,
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}

		category := f.mustCategory(t, "c1")
		if got := category.Balance.String(); got != "25.00" {
			t.Errorf("expected category balance 25.00, got %s", got)
		}

		frame := f.mustFrame(t, "g1", march)
		if got := frame.Spending.String(); got != "25.00" {
			t.Errorf("expected frame spending 25.00, got %s", got)
		}

		snapshot, _ := f.historyRepo.Get(context.Background(), nil, "g1", "c1", march)
		if snapshot == nil || snapshot.Spending.String() != "25.00" {
			t.Errorf("expected history spending 25.00, got %+v", snapshot)
		}
	})

	t.Run("category reassignment moves the debit", func(t *testing.T) {
		f := newTransactionFixture()
		seedFrame(t, f.frameRepo, domain.Frame{GroupID: "g1", Index: march})
		seedCategory(t, f.categoryRepo, domain.Category{
			ID: "c1", GroupID: "g1", Frame: march, Name: "Food",
			Balance: domain.MustParseMoney("50.00"), Alive: true,
		})
		seedCategory(t, f.categoryRepo, domain.Category{
			ID: "c2", GroupID: "g1", Frame: march, Name: "Fun",
			Balance: domain.MustParseMoney("30.00"), Alive: true,
		})

		created, err := f.uc.AddTransaction(context.Background(), usecase.AddTransactionInput{
			GroupID: "g1", ActorUID: "alice", ViewingFrame: march,
			Amount: domain.MustParseMoney("10.00"), CategoryID: strPtr("c1"),
			Description: "lunch", Date: marchDate,
		})
		if err != nil {
			t.Fatalf("add: %v", err)
		}

		_, err = f.uc.UpdateTransaction(context.Background(), usecase.UpdateTransactionInput{
			GroupID: "g1", ViewingFrame: march, TransactionID: created.ID,
			CategoryID: strPtr("c2"),
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}

		if got := f.mustCategory(t, "c1").Balance.String(); got != "50.00" {
			t.Errorf("expected old category restored to 50.00, got %s", got)
		}
		if got := f.mustCategory(t, "c2").Balance.String(); got != "20.00" {
			t.Errorf("expected new category debited to 20.00, got %s", got)
		}
	})

	t.Run("split amount immutable", func(t *testing.T) {
		f := newTransactionFixture()
		seedFrame(t, f.frameRepo, domain.Frame{GroupID: "g-alice", Index: march})

		created, err := f.uc.AddTransaction(context.Background(), usecase.AddTransactionInput{
			GroupID: "g-alice", ActorUID: "alice", ViewingFrame: march,
			Description: "dinner", Date: marchDate,
			Split: &usecase.SplitInput{
				WithUID: "bob", WithGroupID: "g-bob", Payer: "alice",
				Total:   domain.MustParseMoney("30.00"),
				MyShare: domain.MustParseShare("1"), TheirShare: domain.MustParseShare("1"),
			},
		})
		if err != nil {
			t.Fatalf("add: %v", err)
		}

		other := domain.MustParseMoney("99.00")
		_, err = f.uc.UpdateTransaction(context.Background(), usecase.UpdateTransactionInput{
			GroupID: "g-alice", ViewingFrame: march, TransactionID: created.ID,
			Amount: &other,
		})
		if !errors.Is(err, domain.ErrSplitAmountImmutable) {
			t.Fatalf("expected ErrSplitAmountImmutable, got %v", err)
		}
	})

	t.Run("date must stay in frame", func(t *testing.T) {
		f := newTransactionFixture()
		seedFrame(t, f.frameRepo, domain.Frame{GroupID: "g1", Index: march})

		created, err := f.uc.AddTransaction(context.Background(), usecase.AddTransactionInput{
			GroupID: "g1", ActorUID: "alice", ViewingFrame: march,
			Amount: domain.MustParseMoney("10.00"), Description: "lunch", Date: marchDate,
		})
		if err != nil {
			t.Fatalf("add: %v", err)
		}

		_, err = f.uc.UpdateTransaction(context.Background(), usecase.UpdateTransactionInput{
			GroupID: "g1", ViewingFrame: march, TransactionID: created.ID,
			Date: &febDate,
		})
		if !errors.Is(err, domain.ErrDateOutsideFrame) {
			t.Fatalf("expected ErrDateOutsideFrame, got %v", err)
		}
	})
}

func TestTransactionUseCase_UpdateSplit(t *testing.T) {
	f := newTransactionFixture()
	seedFrame(t, f.frameRepo, domain.Frame{GroupID: "g-alice", Index: march})

	created, err := f.uc.AddTransaction(context.Background(), usecase.AddTransactionInput{
		GroupID: "g-alice", ActorUID: "alice", ViewingFrame: march,
		Description: "dinner", Date: marchDate,
		Split: &usecase.SplitInput{
			WithUID: "bob", WithGroupID: "g-bob", Payer: "alice",
			Total:   domain.MustParseMoney("30.00"),
			MyShare: domain.MustParseShare("1"), TheirShare: domain.MustParseShare("2"),
		},
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	// Rebalance to an even split of a new total.
	updated, err := f.uc.UpdateSplit(context.Background(), usecase.UpdateSplitInput{
		GroupID: "g-alice", ActorUID: "alice", ViewingFrame: march,
		TransactionID: created.ID,
		Total:         domain.MustParseMoney("40.00"),
		MyShare:       domain.MustParseShare("1"),
		TheirShare:    domain.MustParseShare("1"),
	})
	if err != nil {
		t.Fatalf("update split: %v", err)
	}

	if got := updated.Amount.String(); got != "20.00" {
		t.Errorf("expected my amount 20.00, got %s", got)
	}
	if got := updated.Split.OtherAmount.String(); got != "20.00" {
		t.Errorf("expected other amount 20.00, got %s", got)
	}

	mirror, err := f.transactionRepo.GetMirror(context.Background(), nil, updated.Split.ID, updated.ID)
	if err != nil || mirror == nil {
		t.Fatalf("mirror: %v %v", mirror, err)
	}
	if got := mirror.Amount.String(); got != "20.00" {
		t.Errorf("expected mirror amount 20.00, got %s", got)
	}

	// Both frames track the new amounts.
	if got := f.mustFrame(t, "g-alice", march).Spending.String(); got != "20.00" {
		t.Errorf("expected my spending 20.00, got %s", got)
	}
	if got := f.mustFrame(t, "g-bob", march).Spending.String(); got != "20.00" {
		t.Errorf("expected their spending 20.00, got %s", got)
	}

	// Alice paid 40, owes 20: Bob now owes her 20 instead of the initial 20.
	u1, u2 := domain.CanonicalPair("alice", "bob")
	debt, err := f.debtRepo.Get(context.Background(), u1, u2)
	if err != nil {
		t.Fatalf("debt: %v", err)
	}
	if got := debt.OwedBy("bob").String(); got != "20.00" {
		t.Errorf("expected bob to owe 20.00, got %s", got)
	}

	// Settling the split zeroes its debt contribution.
	settled := true
	if _, err := f.uc.UpdateSplit(context.Background(), usecase.UpdateSplitInput{
		GroupID: "g-alice", ActorUID: "alice", ViewingFrame: march,
		TransactionID: created.ID,
		Total:         domain.MustParseMoney("40.00"),
		MyShare:       domain.MustParseShare("1"),
		TheirShare:    domain.MustParseShare("1"),
		Settled:       &settled,
	}); err != nil {
		t.Fatalf("settle: %v", err)
	}

	debt, err = f.debtRepo.Get(context.Background(), u1, u2)
	if err != nil {
		t.Fatalf("debt after settle: %v", err)
	}
	if !debt.Balance.IsZero() {
		t.Errorf("expected zero balance after settle, got %s", debt.Balance)
	}
}

func TestTransactionUseCase_UpdateSplit_NotSplit(t *testing.T) {
	f := newTransactionFixture()
	seedFrame(t, f.frameRepo, domain.Frame{GroupID: "g1", Index: march})

	created, err := f.uc.AddTransaction(context.Background(), usecase.AddTransactionInput{
		GroupID: "g1", ActorUID: "alice", ViewingFrame: march,
		Amount: domain.MustParseMoney("10.00"), Description: "lunch", Date: marchDate,
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	_, err = f.uc.UpdateSplit(context.Background(), usecase.UpdateSplitInput{
		GroupID: "g1", ActorUID: "alice", ViewingFrame: march,
		TransactionID: created.ID,
		Total:         domain.MustParseMoney("40.00"),
		MyShare:       domain.MustParseShare("1"),
		TheirShare:    domain.MustParseShare("1"),
	})
	if !errors.Is(err, domain.ErrNotSplit) {
		t.Fatalf("expected ErrNotSplit, got %v", err)
	}
}

func TestTransactionUseCase_DeleteTransaction(t *testing.T) {
	t.Run("reverses everything including the mirror", func(t *testing.T) {
		f := newTransactionFixture()
		seedFrame(t, f.frameRepo, domain.Frame{
			GroupID: "g-alice", Index: march,
			Balance: domain.MustParseMoney("100.00"),
		})

		created, err := f.uc.AddTransaction(context.Background(), usecase.AddTransactionInput{
			GroupID: "g-alice", ActorUID: "alice", ViewingFrame: march,
			Description: "dinner", Date: marchDate,
			Split: &usecase.SplitInput{
				WithUID: "bob", WithGroupID: "g-bob", Payer: "alice",
				Total:   domain.MustParseMoney("30.00"),
				MyShare: domain.MustParseShare("1"), TheirShare: domain.MustParseShare("2"),
			},
		})
		if err != nil {
			t.Fatalf("add: %v", err)
		}

		if err := f.uc.DeleteTransaction(context.Background(), usecase.DeleteTransactionInput{
			GroupID: "g-alice", ActorUID: "alice", ViewingFrame: march,
			TransactionID: created.ID,
		}); err != nil {
			t.Fatalf("delete: %v", err)
		}

		if got := f.mustFrame(t, "g-alice", march).Balance.String(); got != "100.00" {
			t.Errorf("expected balance restored to 100.00, got %s", got)
		}
		if got := f.mustFrame(t, "g-bob", march).Spending.String(); got != "0.00" {
			t.Errorf("expected mirror spending reversed, got %s", got)
		}

		u1, u2 := domain.CanonicalPair("alice", "bob")
		debt, err := f.debtRepo.Get(context.Background(), u1, u2)
		if err != nil {
			t.Fatalf("debt: %v", err)
		}
		if !debt.Balance.IsZero() {
			t.Errorf("expected debt reversed to zero, got %s", debt.Balance)
		}

		mirror, err := f.transactionRepo.GetMirror(context.Background(), nil, created.Split.ID, created.ID)
		if err != nil {
			t.Fatalf("mirror: %v", err)
		}
		if mirror.Alive {
			t.Error("expected mirror soft-deleted")
		}

		// The deleted transaction reads as gone.
		if _, err := f.uc.GetTransaction(context.Background(), "g-alice", created.ID); !errors.Is(err, domain.ErrTransactionNotFound) {
			t.Fatalf("expected ErrTransactionNotFound, got %v", err)
		}
	})

	t.Run("only the viewed frame's transactions", func(t *testing.T) {
		f := newTransactionFixture()
		seedFrame(t, f.frameRepo, domain.Frame{GroupID: "g1", Index: march})

		created, err := f.uc.AddTransaction(context.Background(), usecase.AddTransactionInput{
			GroupID: "g1", ActorUID: "alice", ViewingFrame: march,
			Amount: domain.MustParseMoney("15.00"), Description: "old", Date: febDate,
		})
		if err != nil {
			t.Fatalf("add: %v", err)
		}

		err = f.uc.DeleteTransaction(context.Background(), usecase.DeleteTransactionInput{
			GroupID: "g1", ActorUID: "alice", ViewingFrame: march,
			TransactionID: created.ID,
		})
		if !errors.Is(err, domain.ErrNotInViewedFrame) {
			t.Fatalf("expected ErrNotInViewedFrame, got %v", err)
		}
	})
}

func TestTransactionUseCase_ListTransactions(t *testing.T) {
	f := newTransactionFixture()
	seedFrame(t, f.frameRepo, domain.Frame{GroupID: "g1", Index: march})

	for i := 0; i < 3; i++ {
		_, err := f.uc.AddTransaction(context.Background(), usecase.AddTransactionInput{
			GroupID: "g1", ActorUID: "alice", ViewingFrame: march,
			Amount: domain.MustParseMoney("5.00"), Description: "coffee", Date: marchDate,
		})
		if err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	listed, err := f.uc.ListTransactions(context.Background(), usecase.ListTransactionsInput{
		GroupID: "g1", Frame: march, Limit: 2,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 2 {
		t.Errorf("expected 2 transactions, got %d", len(listed))
	}
}
