package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository. Split
// fields live flattened on the transactions table; both halves of a split
// carry the same split_id.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, group_id, frame_index, category_id, amount, description, date, alive,
	split_id, split_with, split_payer, split_settled, split_my_share, split_their_share, split_other_amount`

// Create creates a new transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, transaction *domain.Transaction) error {
	var (
		splitID     *string
		splitWith   *string
		splitPayer  *string
		settled     *bool
		myShare     *string
		theirShare  *string
		otherAmount *pgtype.Numeric
	)

	if s := transaction.Split; s != nil {
		splitID = &s.ID
		splitWith = &s.With
		splitPayer = &s.Payer
		settled = &s.Settled
		my := s.MyShare.String()
		myShare = &my
		their := s.TheirShare.String()
		theirShare = &their
		n := moneyToNumeric(s.OtherAmount)
		otherAmount = &n
	}

	_, err := txConn(tx).Exec(ctx, `
		INSERT INTO transactions (`+transactionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		transaction.ID,
		transaction.GroupID,
		int(transaction.Frame),
		transaction.CategoryID,
		moneyToNumeric(transaction.Amount),
		transaction.Description,
		transaction.Date,
		transaction.Alive,
		splitID,
		splitWith,
		splitPayer,
		settled,
		myShare,
		theirShare,
		otherAmount,
	)

	return err
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE id = $1`, id)

	return scanTransaction(row)
}

// GetByIDForUpdate retrieves a transaction by ID with a FOR UPDATE lock.
func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error) {
	row := txConn(tx).QueryRow(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE id = $1
		FOR UPDATE`, id)

	return scanTransaction(row)
}

// GetMirror retrieves the other half of a split, or nil when it is missing.
func (r *TransactionRepository) GetMirror(ctx context.Context, tx usecase.Transaction, splitID, excludeID string) (*domain.Transaction, error) {
	row := txConn(tx).QueryRow(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE split_id = $1 AND id != $2
		FOR UPDATE`, splitID, excludeID)

	mirror, err := scanTransaction(row)
	if errors.Is(err, domain.ErrTransactionNotFound) {
		return nil, nil
	}

	return mirror, err
}

// ListByFrame lists live transactions in a frame, newest first.
func (r *TransactionRepository) ListByFrame(ctx context.Context, groupID string, frame domain.FrameIndex, limit, offset int) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE group_id = $1 AND frame_index = $2 AND alive
		ORDER BY date DESC, id DESC
		LIMIT $3 OFFSET $4`, groupID, int(frame), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}

	return transactions, rows.Err()
}

// CountUncategorized counts live uncategorized transactions in a frame.
func (r *TransactionRepository) CountUncategorized(ctx context.Context, groupID string, frame domain.FrameIndex) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM transactions
		WHERE group_id = $1 AND frame_index = $2 AND alive AND category_id IS NULL`,
		groupID, int(frame)).Scan(&count)

	return count, err
}

// Update updates a transaction.
func (r *TransactionRepository) Update(ctx context.Context, tx usecase.Transaction, transaction *domain.Transaction) error {
	var (
		settled     *bool
		myShare     *string
		theirShare  *string
		otherAmount *pgtype.Numeric
	)

	if s := transaction.Split; s != nil {
		settled = &s.Settled
		my := s.MyShare.String()
		myShare = &my
		their := s.TheirShare.String()
		theirShare = &their
		n := moneyToNumeric(s.OtherAmount)
		otherAmount = &n
	}

	tag, err := txConn(tx).Exec(ctx, `
		UPDATE transactions
		SET category_id = $2, amount = $3, description = $4, date = $5, alive = $6,
			split_settled = $7, split_my_share = $8, split_their_share = $9, split_other_amount = $10
		WHERE id = $1`,
		transaction.ID,
		transaction.CategoryID,
		moneyToNumeric(transaction.Amount),
		transaction.Description,
		transaction.Date,
		transaction.Alive,
		settled,
		myShare,
		theirShare,
		otherAmount,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		transaction domain.Transaction
		frame       int
		amount      pgtype.Numeric
		splitID     *string
		splitWith   *string
		splitPayer  *string
		settled     *bool
		myShare     *string
		theirShare  *string
		otherAmount pgtype.Numeric
	)

	err := row.Scan(
		&transaction.ID,
		&transaction.GroupID,
		&frame,
		&transaction.CategoryID,
		&amount,
		&transaction.Description,
		&transaction.Date,
		&transaction.Alive,
		&splitID,
		&splitWith,
		&splitPayer,
		&settled,
		&myShare,
		&theirShare,
		&otherAmount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, err
	}

	transaction.Frame = domain.FrameIndex(frame)
	transaction.Amount = numericToMoney(amount)

	if splitID != nil {
		mine, err := domain.ParseShare(*myShare)
		if err != nil {
			return nil, err
		}
		theirs, err := domain.ParseShare(*theirShare)
		if err != nil {
			return nil, err
		}

		transaction.Split = &domain.Split{
			ID:          *splitID,
			With:        *splitWith,
			Payer:       *splitPayer,
			Settled:     *settled,
			MyShare:     mine,
			TheirShare:  theirs,
			OtherAmount: numericToMoney(otherAmount),
		}
	}

	return &transaction, nil
}
