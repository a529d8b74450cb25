package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/iho/gobudget/internal/domain"
)

// DebtUseCase tracks pairwise balances between users outside of any frame.
type DebtUseCase struct {
	txManager TransactionManager
	debtRepo  DebtRepository
}

// NewDebtUseCase creates a new DebtUseCase.
func NewDebtUseCase(txManager TransactionManager, debtRepo DebtRepository) *DebtUseCase {
	return &DebtUseCase{
		txManager: txManager,
		debtRepo:  debtRepo,
	}
}

// AddPaymentInput represents a direct payment between two users.
type AddPaymentInput struct {
	FromUID string
	ToUID   string
	Amount  domain.Money
}

// AddPayment records money handed from one user to another, reducing what
// the payer owes.
func (uc *DebtUseCase) AddPayment(ctx context.Context, input AddPaymentInput) (*domain.Debt, error) {
	if err := domain.ValidateAmount(input.Amount, false); err != nil {
		return nil, err
	}
	if input.FromUID == input.ToUID {
		return nil, domain.ErrSelfDebt
	}

	delta := domain.PaymentDelta(input.FromUID, input.ToUID, input.Amount)
	return uc.applyDelta(ctx, input.FromUID, input.ToUID, delta)
}

// AddChargeInput represents a manual debt charge against one user.
type AddChargeInput struct {
	DebtorUID   string
	CreditorUID string
	Amount      domain.Money
}

// AddCharge records that the debtor owes the creditor an additional amount
// without an underlying transaction.
func (uc *DebtUseCase) AddCharge(ctx context.Context, input AddChargeInput) (*domain.Debt, error) {
	if err := domain.ValidateAmount(input.Amount, false); err != nil {
		return nil, err
	}
	if input.DebtorUID == input.CreditorUID {
		return nil, domain.ErrSelfDebt
	}

	delta := domain.ChargeDelta(input.DebtorUID, input.CreditorUID, input.Amount)
	return uc.applyDelta(ctx, input.DebtorUID, input.CreditorUID, delta)
}

// GetDebt retrieves the balance between two users. A pair that never
// interacted reads as a zero balance.
func (uc *DebtUseCase) GetDebt(ctx context.Context, a, b string) (*domain.Debt, error) {
	if a == b {
		return nil, domain.ErrSelfDebt
	}

	u1, u2 := domain.CanonicalPair(a, b)

	debt, err := uc.debtRepo.Get(ctx, u1, u2)
	if err != nil {
		if errors.Is(err, domain.ErrDebtNotFound) {
			return &domain.Debt{U1: u1, U2: u2, Balance: domain.MoneyZero}, nil
		}
		return nil, err
	}

	return debt, nil
}

// ListDebts lists every debt record involving the user.
func (uc *DebtUseCase) ListDebts(ctx context.Context, uid string) ([]*domain.Debt, error) {
	return uc.debtRepo.ListByUser(ctx, uid)
}

func (uc *DebtUseCase) applyDelta(ctx context.Context, a, b string, delta domain.Money) (*domain.Debt, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	u1, u2 := domain.CanonicalPair(a, b)

	debt, err := uc.debtRepo.GetForUpdate(ctx, tx, u1, u2)
	if err != nil {
		if !errors.Is(err, domain.ErrDebtNotFound) {
			return nil, err
		}
		debt = &domain.Debt{U1: u1, U2: u2, Balance: domain.MoneyZero}
	}

	debt.Balance = debt.Balance.Plus(delta)
	debt.UpdatedAt = time.Now().UTC()

	if err := uc.debtRepo.Upsert(ctx, tx, debt); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return debt, nil
}
