package usecase_test

import (
	"context"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/usecase"
	"github.com/iho/gobudget/internal/usecase/mocks/gen"
)

func TestDebtUseCase_GetDebt_CanonicalLookup(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	debtRepo := gen.NewMockDebtRepository(ctrl)
	debtRepo.EXPECT().Get(gomock.Any(), "alice", "bob").Return(&domain.Debt{
		U1:      "alice",
		U2:      "bob",
		Balance: domain.MustParseMoney("-12.50"),
	}, nil)

	uc := usecase.NewDebtUseCase(gen.NewMockTransactionManager(ctrl), debtRepo)

	// The lookup goes through the canonical pair even when the caller
	// passes the uids in the other order.
	debt, err := uc.GetDebt(context.Background(), "bob", "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !debt.OwedBy("bob").Equal(domain.MustParseMoney("12.50")) {
		t.Errorf("expected bob to owe 12.50, got %s", debt.OwedBy("bob"))
	}
}

func TestDebtUseCase_GetDebt_RepoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	debtRepo := gen.NewMockDebtRepository(ctrl)
	debtRepo.EXPECT().Get(gomock.Any(), "alice", "bob").Return(nil, context.DeadlineExceeded)

	uc := usecase.NewDebtUseCase(gen.NewMockTransactionManager(ctrl), debtRepo)

	if _, err := uc.GetDebt(context.Background(), "alice", "bob"); err == nil {
		t.Fatal("expected repository error to propagate")
	}
}

func TestDebtUseCase_ListDebts_PassesThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	debtRepo := gen.NewMockDebtRepository(ctrl)
	debtRepo.EXPECT().ListByUser(gomock.Any(), "carol").Return([]*domain.Debt{
		{U1: "alice", U2: "carol", Balance: domain.MustParseMoney("5.00")},
		{U1: "carol", U2: "dave", Balance: domain.MustParseMoney("-7.25")},
	}, nil)

	uc := usecase.NewDebtUseCase(gen.NewMockTransactionManager(ctrl), debtRepo)

	debts, err := uc.ListDebts(context.Background(), "carol")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(debts) != 2 {
		t.Errorf("expected 2 debts, got %d", len(debts))
	}
}
