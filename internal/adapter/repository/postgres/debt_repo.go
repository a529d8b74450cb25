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

// DebtRepository implements usecase.DebtRepository. Rows are keyed by the
// canonical user pair.
type DebtRepository struct {
	pool *pgxpool.Pool
}

// NewDebtRepository creates a new DebtRepository.
func NewDebtRepository(pool *pgxpool.Pool) *DebtRepository {
	return &DebtRepository{pool: pool}
}

const debtColumns = `u1, u2, balance, updated_at`

// Get retrieves the debt record for a canonical pair.
func (r *DebtRepository) Get(ctx context.Context, u1, u2 string) (*domain.Debt, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+debtColumns+`
		FROM debts
		WHERE u1 = $1 AND u2 = $2`, u1, u2)

	return scanDebt(row)
}

// GetForUpdate retrieves the debt record with a FOR UPDATE lock.
func (r *DebtRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, u1, u2 string) (*domain.Debt, error) {
	row := txConn(tx).QueryRow(ctx, `
		SELECT `+debtColumns+`
		FROM debts
		WHERE u1 = $1 AND u2 = $2
		FOR UPDATE`, u1, u2)

	return scanDebt(row)
}

// Upsert inserts or replaces the debt record for a pair.
func (r *DebtRepository) Upsert(ctx context.Context, tx usecase.Transaction, debt *domain.Debt) error {
	_, err := txConn(tx).Exec(ctx, `
		INSERT INTO debts (`+debtColumns+`)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (u1, u2) DO UPDATE
		SET balance = EXCLUDED.balance, updated_at = EXCLUDED.updated_at`,
		debt.U1,
		debt.U2,
		moneyToNumeric(debt.Balance),
		debt.UpdatedAt,
	)

	return err
}

// ListByUser lists every debt record involving uid.
func (r *DebtRepository) ListByUser(ctx context.Context, uid string) ([]*domain.Debt, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+debtColumns+`
		FROM debts
		WHERE u1 = $1 OR u2 = $1
		ORDER BY updated_at DESC`, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var debts []*domain.Debt
	for rows.Next() {
		debt, err := scanDebt(rows)
		if err != nil {
			return nil, err
		}
		debts = append(debts, debt)
	}

	return debts, rows.Err()
}

func scanDebt(row pgx.Row) (*domain.Debt, error) {
	var (
		debt    domain.Debt
		balance pgtype.Numeric
	)

	err := row.Scan(&debt.U1, &debt.U2, &balance, &debt.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDebtNotFound
		}

		return nil, err
	}

	debt.Balance = numericToMoney(balance)

	return &debt, nil
}
