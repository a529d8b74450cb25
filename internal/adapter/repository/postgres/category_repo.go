package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/usecase"
)

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func txConn(tx usecase.Transaction) dbtx {
	return tx.(*Tx).PgxTx()
}

// CategoryRepository implements usecase.CategoryRepository.
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

const categoryColumns = `id, group_id, frame_index, name, ordering, budget, balance, parent_id, alive`

// Create creates a new category.
func (r *CategoryRepository) Create(ctx context.Context, tx usecase.Transaction, category *domain.Category) error {
	_, err := txConn(tx).Exec(ctx, `
		INSERT INTO categories (`+categoryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		category.ID,
		category.GroupID,
		int(category.Frame),
		category.Name,
		category.Ordering,
		moneyToNumeric(category.Budget),
		moneyToNumeric(category.Balance),
		category.ParentID,
		category.Alive,
	)

	return err
}

// GetByID retrieves a category by ID.
func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE id = $1`, id)

	return scanCategory(row)
}

// GetByIDForUpdate retrieves a category by ID with a FOR UPDATE lock.
func (r *CategoryRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Category, error) {
	row := txConn(tx).QueryRow(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE id = $1
		FOR UPDATE`, id)

	return scanCategory(row)
}

// ListByFrame lists every category in a (group, frame), ordered for display.
func (r *CategoryRepository) ListByFrame(ctx context.Context, groupID string, frame domain.FrameIndex) ([]*domain.Category, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE group_id = $1 AND frame_index = $2
		ORDER BY ordering`, groupID, int(frame))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}

	return categories, rows.Err()
}

// Update updates a category.
func (r *CategoryRepository) Update(ctx context.Context, tx usecase.Transaction, category *domain.Category) error {
	tag, err := txConn(tx).Exec(ctx, `
		UPDATE categories
		SET name = $2, ordering = $3, budget = $4, balance = $5, parent_id = $6, alive = $7
		WHERE id = $1`,
		category.ID,
		category.Name,
		category.Ordering,
		moneyToNumeric(category.Budget),
		moneyToNumeric(category.Balance),
		category.ParentID,
		category.Alive,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}

	return nil
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var (
		category domain.Category
		frame    int
		budget   pgtype.Numeric
		balance  pgtype.Numeric
	)

	err := row.Scan(
		&category.ID,
		&category.GroupID,
		&frame,
		&category.Name,
		&category.Ordering,
		&budget,
		&balance,
		&category.ParentID,
		&category.Alive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}

		return nil, err
	}

	category.Frame = domain.FrameIndex(frame)
	category.Budget = numericToMoney(budget)
	category.Balance = numericToMoney(balance)

	return &category, nil
}

// Type conversion helpers.
func moneyToNumeric(m domain.Money) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(m.Decimal().String())

	return n
}

func numericToMoney(n pgtype.Numeric) domain.Money {
	if !n.Valid {
		return domain.MoneyZero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return domain.NewMoneyFromDecimal(d)
}
