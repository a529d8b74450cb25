package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/infrastructure/metrics"
)

// TransactionUseCase applies spending events against categories, frames and
// history. Split expenses additionally touch the counterparty's ledger and
// the pairwise debt balance.
type TransactionUseCase struct {
	txManager       TransactionManager
	transactionRepo TransactionRepository
	categoryRepo    CategoryRepository
	frameRepo       FrameRepository
	historyRepo     HistoryRepository
	debtRepo        DebtRepository
	cache           Cache
	idGen           IDGenerator
	retrier         Retrier
	metrics         *metrics.Metrics
}

// NewTransactionUseCase creates a new TransactionUseCase. The cache,
// retrier and metrics are optional: the cache only drops stale insight
// entries, the retrier re-runs mutations aborted by lock conflicts.
func NewTransactionUseCase(
	txManager TransactionManager,
	transactionRepo TransactionRepository,
	categoryRepo CategoryRepository,
	frameRepo FrameRepository,
	historyRepo HistoryRepository,
	debtRepo DebtRepository,
	cache Cache,
	idGen IDGenerator,
	retrier Retrier,
	m *metrics.Metrics,
) *TransactionUseCase {
	return &TransactionUseCase{
		txManager:       txManager,
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		frameRepo:       frameRepo,
		historyRepo:     historyRepo,
		debtRepo:        debtRepo,
		cache:           cache,
		idGen:           idGen,
		retrier:         retrier,
		metrics:         m,
	}
}

// withRetry runs op under the configured retrier, each attempt bounded by
// DefaultTransactionTimeout so a stuck attempt cannot hold row locks open.
// Every mutating method rolls back fully on error, so a retried op starts
// from a clean slate.
func (uc *TransactionUseCase) withRetry(ctx context.Context, op func(ctx context.Context) error) error {
	attempt := func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()
		return op(txCtx)
	}
	if uc.retrier == nil {
		return attempt()
	}
	return uc.retrier.Retry(ctx, attempt)
}

// SplitInput describes the shared half of a new transaction.
type SplitInput struct {
	WithUID     string
	WithGroupID string
	Payer       string
	Total       domain.Money
	MyShare     domain.Share
	TheirShare  domain.Share
	Settled     bool
}

// AddTransactionInput represents input for adding a transaction.
type AddTransactionInput struct {
	GroupID      string
	ActorUID     string
	ViewingFrame domain.FrameIndex
	// Amount is the charge against this group's ledger. Ignored when Split
	// is set; the two sides are then derived from Total and the shares.
	Amount      domain.Money
	CategoryID  *string
	Description string
	Date        time.Time
	Split       *SplitInput
}

// AddTransaction records a spending event seen from the viewing frame.
// A transaction dated in an earlier frame still reduces the running balance
// carried into the viewing frame, but not the viewing frame's own spending.
func (uc *TransactionUseCase) AddTransaction(ctx context.Context, input AddTransactionInput) (*domain.Transaction, error) {
	start := time.Now()

	var result *domain.Transaction
	err := uc.withRetry(ctx, func(ctx context.Context) error {
		var err error
		result, err = uc.addTransaction(ctx, input)
		return err
	})

	if err == nil && uc.metrics != nil {
		uc.metrics.TransactionsRecorded.Inc()
		if result.Split != nil {
			uc.metrics.SplitsCreated.Inc()
		}
		amount, _ := result.Amount.Decimal().Float64()
		uc.metrics.TransactionAmount.Observe(amount)
		uc.metrics.TransactionDuration.Observe(time.Since(start).Seconds())
	}

	return result, err
}

func (uc *TransactionUseCase) addTransaction(ctx context.Context, input AddTransactionInput) (*domain.Transaction, error) {
	if err := domain.ValidateDescription(input.Description); err != nil {
		return nil, err
	}

	frameIndex := domain.FrameIndexFromDate(input.Date)
	if frameIndex > input.ViewingFrame {
		return nil, domain.ErrFutureFrame
	}

	amount := input.Amount
	otherAmount := domain.MoneyZero

	if input.Split != nil {
		if input.Split.Payer != input.ActorUID && input.Split.Payer != input.Split.WithUID {
			return nil, domain.ErrInvalidPayer
		}
		if input.Split.MyShare.IsZero() || input.Split.TheirShare.IsZero() {
			return nil, domain.ErrInvalidShare
		}
		if err := domain.ValidateAmount(input.Split.Total, false); err != nil {
			return nil, err
		}
		amount, otherAmount = domain.DistributeTotal(input.Split.Total, input.Split.MyShare, input.Split.TheirShare)
	}

	if err := domain.ValidateAmount(amount, false); err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	transaction := &domain.Transaction{
		ID:          uc.idGen.Generate(),
		GroupID:     input.GroupID,
		Frame:       frameIndex,
		CategoryID:  input.CategoryID,
		Amount:      amount,
		Description: input.Description,
		Date:        input.Date,
		Alive:       true,
	}

	if input.Split != nil {
		transaction.Split = &domain.Split{
			ID:          uc.idGen.Generate(),
			With:        input.Split.WithUID,
			Payer:       input.Split.Payer,
			Settled:     input.Split.Settled,
			MyShare:     input.Split.MyShare,
			TheirShare:  input.Split.TheirShare,
			OtherAmount: otherAmount,
		}
	}

	var category *domain.Category
	if input.CategoryID != nil {
		category, err = uc.lockCategoryForAssign(ctx, tx, input.GroupID, *input.CategoryID, frameIndex)
		if err != nil {
			return nil, err
		}
	}

	frame, err := getOrCreateFrameTx(ctx, tx, uc.frameRepo, input.GroupID, input.ViewingFrame)
	if err != nil {
		return nil, err
	}

	var updatedFrame domain.Frame
	if frameIndex == input.ViewingFrame {
		updatedFrame = frame.ApplySpending(amount)
		if category != nil {
			debited := category.ApplySpending(amount)
			if err := uc.categoryRepo.Update(ctx, tx, &debited); err != nil {
				return nil, err
			}
		}
	} else {
		updatedFrame = frame.ApplyPastSpending(amount)
	}

	if err := uc.frameRepo.Update(ctx, tx, &updatedFrame); err != nil {
		return nil, err
	}

	if category != nil && transaction.InHistoryWindow(input.ViewingFrame) {
		if err := uc.bumpHistory(ctx, tx, category, frameIndex, amount); err != nil {
			return nil, err
		}
	}

	if err := uc.transactionRepo.Create(ctx, tx, transaction); err != nil {
		return nil, err
	}

	if input.Split != nil {
		if err := uc.createMirror(ctx, tx, transaction, input, otherAmount, amount); err != nil {
			return nil, err
		}

		delta := domain.BalanceDelta(input.ActorUID, nil, transaction)
		if err := uc.applyDebtDelta(ctx, tx, input.ActorUID, input.Split.WithUID, delta); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.invalidateInsights(ctx, input.GroupID, input.ViewingFrame)
	if input.Split != nil {
		uc.invalidateInsights(ctx, input.Split.WithGroupID, frameIndex)
	}

	return transaction, nil
}

// createMirror records the counterparty's half of a split. Their ledger sees
// it as same-frame spending in the transaction's own frame.
func (uc *TransactionUseCase) createMirror(ctx context.Context, tx Transaction, transaction *domain.Transaction, input AddTransactionInput, theirAmount, myAmount domain.Money) error {
	mirror := &domain.Transaction{
		ID:          uc.idGen.Generate(),
		GroupID:     input.Split.WithGroupID,
		Frame:       transaction.Frame,
		Amount:      theirAmount,
		Description: input.Description,
		Date:        input.Date,
		Alive:       true,
		Split: &domain.Split{
			ID:          transaction.Split.ID,
			With:        input.ActorUID,
			Payer:       input.Split.Payer,
			Settled:     input.Split.Settled,
			MyShare:     input.Split.TheirShare,
			TheirShare:  input.Split.MyShare,
			OtherAmount: myAmount,
		},
	}

	theirFrame, err := getOrCreateFrameTx(ctx, tx, uc.frameRepo, input.Split.WithGroupID, transaction.Frame)
	if err != nil {
		return err
	}

	updated := theirFrame.ApplySpending(theirAmount)
	if err := uc.frameRepo.Update(ctx, tx, &updated); err != nil {
		return err
	}

	return uc.transactionRepo.Create(ctx, tx, mirror)
}

// UpdateTransactionInput represents a partial transaction edit. Nil fields
// are left untouched; ClearCategory removes the category assignment.
type UpdateTransactionInput struct {
	GroupID       string
	ViewingFrame  domain.FrameIndex
	TransactionID string
	Amount        *domain.Money
	CategoryID    *string
	ClearCategory bool
	Description   *string
	Date          *time.Time
}

// UpdateTransaction reconciles an edit against the ledger, applying only the
// adjustments implied by fields that actually changed.
func (uc *TransactionUseCase) UpdateTransaction(ctx context.Context, input UpdateTransactionInput) (*domain.Transaction, error) {
	var result *domain.Transaction
	err := uc.withRetry(ctx, func(ctx context.Context) error {
		var err error
		result, err = uc.updateTransaction(ctx, input)
		return err
	})
	return result, err
}

func (uc *TransactionUseCase) updateTransaction(ctx context.Context, input UpdateTransactionInput) (*domain.Transaction, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	transaction, err := uc.lockOwnedTransaction(ctx, tx, input.GroupID, input.TransactionID)
	if err != nil {
		return nil, err
	}

	if input.Amount != nil && transaction.Split != nil && input.Amount.Cmp(transaction.Amount) != 0 {
		return nil, domain.ErrSplitAmountImmutable
	}

	if input.Date != nil && domain.FrameIndexFromDate(*input.Date) != transaction.Frame {
		return nil, domain.ErrDateOutsideFrame
	}

	frame, err := getOrCreateFrameTx(ctx, tx, uc.frameRepo, input.GroupID, input.ViewingFrame)
	if err != nil {
		return nil, err
	}
	workingFrame := *frame
	sameFrame := transaction.Frame == input.ViewingFrame
	inWindow := transaction.InHistoryWindow(input.ViewingFrame)

	// Category reassignment: reverse the old debit, debit the new target.
	categoryChanged := input.ClearCategory || (input.CategoryID != nil && !sameStringPtr(input.CategoryID, transaction.CategoryID))
	if categoryChanged {
		if transaction.CategoryID != nil {
			old, err := uc.lockCategoryAny(ctx, tx, input.GroupID, *transaction.CategoryID)
			if err != nil {
				return nil, err
			}

			if sameFrame {
				reversed := old.ReverseSpending(transaction.Amount)
				if err := uc.categoryRepo.Update(ctx, tx, &reversed); err != nil {
					return nil, err
				}
			}
			if inWindow {
				if err := uc.bumpHistory(ctx, tx, old, transaction.Frame, transaction.Amount.Neg()); err != nil {
					return nil, err
				}
			}
		}

		if input.ClearCategory {
			transaction.CategoryID = nil
		} else {
			target, err := uc.lockCategoryForAssign(ctx, tx, input.GroupID, *input.CategoryID, transaction.Frame)
			if err != nil {
				return nil, err
			}

			if sameFrame {
				debited := target.ApplySpending(transaction.Amount)
				if err := uc.categoryRepo.Update(ctx, tx, &debited); err != nil {
					return nil, err
				}
			}
			if inWindow {
				if err := uc.bumpHistory(ctx, tx, target, transaction.Frame, transaction.Amount); err != nil {
					return nil, err
				}
			}

			transaction.CategoryID = input.CategoryID
		}
	}

	// Amount change: the assigned category and the viewing frame absorb the
	// delta.
	if input.Amount != nil && input.Amount.Cmp(transaction.Amount) != 0 {
		if err := domain.ValidateAmount(*input.Amount, false); err != nil {
			return nil, err
		}

		delta := input.Amount.Minus(transaction.Amount)

		if sameFrame {
			workingFrame = workingFrame.ApplySpending(delta)
		} else {
			workingFrame = workingFrame.ApplyPastSpending(delta)
		}

		if transaction.CategoryID != nil {
			category, err := uc.lockCategoryAny(ctx, tx, input.GroupID, *transaction.CategoryID)
			if err != nil {
				return nil, err
			}

			if sameFrame {
				debited := category.ApplySpending(delta)
				if err := uc.categoryRepo.Update(ctx, tx, &debited); err != nil {
					return nil, err
				}
			}
			if inWindow {
				if err := uc.bumpHistory(ctx, tx, category, transaction.Frame, delta); err != nil {
					return nil, err
				}
			}
		}

		transaction.Amount = *input.Amount
	}

	if input.Description != nil {
		if err := domain.ValidateDescription(*input.Description); err != nil {
			return nil, err
		}
		transaction.Description = *input.Description
	}

	if input.Date != nil {
		transaction.Date = *input.Date
	}

	if err := uc.frameRepo.Update(ctx, tx, &workingFrame); err != nil {
		return nil, err
	}

	if err := uc.transactionRepo.Update(ctx, tx, transaction); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.invalidateInsights(ctx, input.GroupID, input.ViewingFrame)

	return transaction, nil
}

// UpdateSplitInput edits a shared expense's total and shares. Both halves
// are recomputed; per-transaction amounts cannot be edited directly.
type UpdateSplitInput struct {
	GroupID       string
	ActorUID      string
	ViewingFrame  domain.FrameIndex
	TransactionID string
	Total         domain.Money
	MyShare       domain.Share
	TheirShare    domain.Share
	Settled       *bool
}

// UpdateSplit recomputes both sides of a split from a new total and shares,
// adjusting both ledgers and the pairwise debt.
func (uc *TransactionUseCase) UpdateSplit(ctx context.Context, input UpdateSplitInput) (*domain.Transaction, error) {
	var result *domain.Transaction
	err := uc.withRetry(ctx, func(ctx context.Context) error {
		var err error
		result, err = uc.updateSplit(ctx, input)
		return err
	})
	return result, err
}

func (uc *TransactionUseCase) updateSplit(ctx context.Context, input UpdateSplitInput) (*domain.Transaction, error) {
	if err := domain.ValidateAmount(input.Total, false); err != nil {
		return nil, err
	}
	if input.MyShare.IsZero() || input.TheirShare.IsZero() {
		return nil, domain.ErrInvalidShare
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	transaction, err := uc.lockOwnedTransaction(ctx, tx, input.GroupID, input.TransactionID)
	if err != nil {
		return nil, err
	}

	if transaction.Split == nil {
		return nil, domain.ErrNotSplit
	}

	mirror, err := uc.transactionRepo.GetMirror(ctx, tx, transaction.Split.ID, transaction.ID)
	if err != nil {
		return nil, err
	}
	if mirror == nil {
		return nil, domain.ErrSplitCorrupted
	}

	before := *transaction
	beforeSplit := *transaction.Split
	before.Split = &beforeSplit

	mine, theirs := domain.DistributeTotal(input.Total, input.MyShare, input.TheirShare)
	myDelta := mine.Minus(transaction.Amount)
	theirDelta := theirs.Minus(mirror.Amount)

	settled := transaction.Split.Settled
	if input.Settled != nil {
		settled = *input.Settled
	}

	// My side: the viewing frame absorbs the delta.
	if err := uc.applySideDelta(ctx, tx, transaction, input.GroupID, input.ViewingFrame, myDelta); err != nil {
		return nil, err
	}

	// Their side: their own frame is the viewing context.
	if err := uc.applySideDelta(ctx, tx, mirror, mirror.GroupID, mirror.Frame, theirDelta); err != nil {
		return nil, err
	}

	transaction.Amount = mine
	transaction.Split.MyShare = input.MyShare
	transaction.Split.TheirShare = input.TheirShare
	transaction.Split.OtherAmount = theirs
	transaction.Split.Settled = settled

	mirror.Amount = theirs
	mirror.Split.MyShare = input.TheirShare
	mirror.Split.TheirShare = input.MyShare
	mirror.Split.OtherAmount = mine
	mirror.Split.Settled = settled

	if err := uc.transactionRepo.Update(ctx, tx, transaction); err != nil {
		return nil, err
	}
	if err := uc.transactionRepo.Update(ctx, tx, mirror); err != nil {
		return nil, err
	}

	delta := domain.BalanceDelta(input.ActorUID, &before, transaction)
	if err := uc.applyDebtDelta(ctx, tx, input.ActorUID, transaction.Split.With, delta); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.invalidateInsights(ctx, input.GroupID, input.ViewingFrame)
	uc.invalidateInsights(ctx, mirror.GroupID, mirror.Frame)

	return transaction, nil
}

// applySideDelta adjusts one ledger side by an amount delta: the frame, the
// assigned category when the transaction sits in the viewed frame, and the
// history window.
func (uc *TransactionUseCase) applySideDelta(ctx context.Context, tx Transaction, transaction *domain.Transaction, groupID string, viewing domain.FrameIndex, delta domain.Money) error {
	if delta.IsZero() {
		return nil
	}

	frame, err := getOrCreateFrameTx(ctx, tx, uc.frameRepo, groupID, viewing)
	if err != nil {
		return err
	}

	sameFrame := transaction.Frame == viewing

	var updated domain.Frame
	if sameFrame {
		updated = frame.ApplySpending(delta)
	} else {
		updated = frame.ApplyPastSpending(delta)
	}
	if err := uc.frameRepo.Update(ctx, tx, &updated); err != nil {
		return err
	}

	if transaction.CategoryID == nil {
		return nil
	}

	category, err := uc.lockCategoryAny(ctx, tx, groupID, *transaction.CategoryID)
	if err != nil {
		return err
	}

	if sameFrame {
		debited := category.ApplySpending(delta)
		if err := uc.categoryRepo.Update(ctx, tx, &debited); err != nil {
			return err
		}
	}

	if transaction.InHistoryWindow(viewing) {
		return uc.bumpHistory(ctx, tx, category, transaction.Frame, delta)
	}

	return nil
}

// DeleteTransactionInput represents input for deleting a transaction.
type DeleteTransactionInput struct {
	GroupID       string
	ActorUID      string
	ViewingFrame  domain.FrameIndex
	TransactionID string
}

// DeleteTransaction soft-deletes a transaction and reverses its effects on
// the frame, category, history and debt. Only transactions belonging to the
// frame being edited can be deleted through this path.
func (uc *TransactionUseCase) DeleteTransaction(ctx context.Context, input DeleteTransactionInput) error {
	err := uc.withRetry(ctx, func(ctx context.Context) error {
		return uc.deleteTransaction(ctx, input)
	})
	if err == nil && uc.metrics != nil {
		uc.metrics.TransactionsDeleted.Inc()
	}
	return err
}

func (uc *TransactionUseCase) deleteTransaction(ctx context.Context, input DeleteTransactionInput) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	transaction, err := uc.lockOwnedTransaction(ctx, tx, input.GroupID, input.TransactionID)
	if err != nil {
		return err
	}

	if transaction.Frame != input.ViewingFrame {
		return domain.ErrNotInViewedFrame
	}

	frame, err := getOrCreateFrameTx(ctx, tx, uc.frameRepo, input.GroupID, input.ViewingFrame)
	if err != nil {
		return err
	}

	reversed := frame.ApplySpending(transaction.Amount.Neg())
	if err := uc.frameRepo.Update(ctx, tx, &reversed); err != nil {
		return err
	}

	if transaction.CategoryID != nil {
		category, err := uc.lockCategoryAny(ctx, tx, input.GroupID, *transaction.CategoryID)
		if err != nil {
			return err
		}

		restored := category.ReverseSpending(transaction.Amount)
		if err := uc.categoryRepo.Update(ctx, tx, &restored); err != nil {
			return err
		}

		if err := uc.bumpHistory(ctx, tx, category, transaction.Frame, transaction.Amount.Neg()); err != nil {
			return err
		}
	}

	if transaction.Split != nil {
		delta := domain.BalanceDelta(input.ActorUID, transaction, nil)
		if err := uc.applyDebtDelta(ctx, tx, input.ActorUID, transaction.Split.With, delta); err != nil {
			return err
		}

		if err := uc.deleteMirror(ctx, tx, transaction); err != nil {
			return err
		}
	}

	transaction.Alive = false
	if err := uc.transactionRepo.Update(ctx, tx, transaction); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	uc.invalidateInsights(ctx, input.GroupID, input.ViewingFrame)

	return nil
}

func (uc *TransactionUseCase) deleteMirror(ctx context.Context, tx Transaction, transaction *domain.Transaction) error {
	mirror, err := uc.transactionRepo.GetMirror(ctx, tx, transaction.Split.ID, transaction.ID)
	if err != nil {
		return err
	}
	if mirror == nil {
		return domain.ErrSplitCorrupted
	}

	theirFrame, err := getOrCreateFrameTx(ctx, tx, uc.frameRepo, mirror.GroupID, mirror.Frame)
	if err != nil {
		return err
	}

	reversed := theirFrame.ApplySpending(mirror.Amount.Neg())
	if err := uc.frameRepo.Update(ctx, tx, &reversed); err != nil {
		return err
	}

	if mirror.CategoryID != nil {
		category, err := uc.lockCategoryAny(ctx, tx, mirror.GroupID, *mirror.CategoryID)
		if err != nil {
			return err
		}

		restored := category.ReverseSpending(mirror.Amount)
		if err := uc.categoryRepo.Update(ctx, tx, &restored); err != nil {
			return err
		}

		if err := uc.bumpHistory(ctx, tx, category, mirror.Frame, mirror.Amount.Neg()); err != nil {
			return err
		}
	}

	mirror.Alive = false
	return uc.transactionRepo.Update(ctx, tx, mirror)
}

// GetTransaction retrieves a live transaction by id.
func (uc *TransactionUseCase) GetTransaction(ctx context.Context, groupID, id string) (*domain.Transaction, error) {
	transaction, err := uc.transactionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if transaction.GroupID != groupID {
		return nil, domain.ErrNotGroupMember
	}

	if !transaction.Alive {
		return nil, domain.ErrTransactionNotFound
	}

	return transaction, nil
}

// ListTransactionsInput represents input for listing a frame's transactions.
type ListTransactionsInput struct {
	GroupID string
	Frame   domain.FrameIndex
	Limit   int
	Offset  int
}

// ListTransactions lists live transactions in a frame.
func (uc *TransactionUseCase) ListTransactions(ctx context.Context, input ListTransactionsInput) ([]*domain.Transaction, error) {
	limit, offset, err := domain.ValidatePagination(input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}

	return uc.transactionRepo.ListByFrame(ctx, input.GroupID, input.Frame, limit, offset)
}

func (uc *TransactionUseCase) lockOwnedTransaction(ctx context.Context, tx Transaction, groupID, id string) (*domain.Transaction, error) {
	transaction, err := uc.transactionRepo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if transaction.GroupID != groupID {
		return nil, domain.ErrNotGroupMember
	}

	if !transaction.Alive {
		return nil, domain.ErrTransactionNotFound
	}

	return transaction, nil
}

// lockCategoryForAssign requires a live category in the expected frame.
func (uc *TransactionUseCase) lockCategoryForAssign(ctx context.Context, tx Transaction, groupID, id string, frame domain.FrameIndex) (*domain.Category, error) {
	category, err := uc.lockCategoryAny(ctx, tx, groupID, id)
	if err != nil {
		return nil, err
	}

	if !category.Alive {
		return nil, domain.ErrCategoryDead
	}

	if category.Frame != frame {
		return nil, domain.ErrCategoryFrameMismatch
	}

	return category, nil
}

// lockCategoryAny loads a category regardless of liveness; reversal paths
// must still reach soft-deleted categories.
func (uc *TransactionUseCase) lockCategoryAny(ctx context.Context, tx Transaction, groupID, id string) (*domain.Category, error) {
	category, err := uc.categoryRepo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if category.GroupID != groupID {
		return nil, domain.ErrNotGroupMember
	}

	return category, nil
}

func (uc *TransactionUseCase) bumpHistory(ctx context.Context, tx Transaction, category *domain.Category, frame domain.FrameIndex, delta domain.Money) error {
	snapshot, err := uc.historyRepo.Get(ctx, tx, category.GroupID, category.ID, frame)
	if err != nil {
		return err
	}

	if snapshot == nil {
		snapshot = &domain.HistorySnapshot{
			GroupID:    category.GroupID,
			CategoryID: category.ID,
			Frame:      frame,
			Budget:     category.Budget,
		}
	}

	updated := snapshot.AddSpending(delta)
	return uc.historyRepo.Upsert(ctx, tx, &updated)
}

func (uc *TransactionUseCase) applyDebtDelta(ctx context.Context, tx Transaction, a, b string, delta domain.Money) error {
	if delta.IsZero() {
		return nil
	}

	u1, u2 := domain.CanonicalPair(a, b)

	debt, err := uc.debtRepo.GetForUpdate(ctx, tx, u1, u2)
	if err != nil {
		if !errors.Is(err, domain.ErrDebtNotFound) {
			return err
		}
		debt = &domain.Debt{U1: u1, U2: u2, Balance: domain.MoneyZero}
	}

	debt.Balance = debt.Balance.Plus(delta)
	debt.UpdatedAt = time.Now().UTC()

	return uc.debtRepo.Upsert(ctx, tx, debt)
}

func (uc *TransactionUseCase) invalidateInsights(ctx context.Context, groupID string, index domain.FrameIndex) {
	if uc.cache == nil {
		return
	}
	_ = uc.cache.Delete(ctx, insightsCacheKey(groupID, index))
}

func sameStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
