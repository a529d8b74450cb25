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

// FrameRepository implements usecase.FrameRepository.
type FrameRepository struct {
	pool *pgxpool.Pool
}

// NewFrameRepository creates a new FrameRepository.
func NewFrameRepository(pool *pgxpool.Pool) *FrameRepository {
	return &FrameRepository{pool: pool}
}

const frameColumns = `group_id, frame_index, income, balance, spending`

// Get retrieves a frame.
func (r *FrameRepository) Get(ctx context.Context, groupID string, index domain.FrameIndex) (*domain.Frame, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+frameColumns+`
		FROM frames
		WHERE group_id = $1 AND frame_index = $2`, groupID, int(index))

	return scanFrame(row)
}

// GetForUpdate retrieves a frame with a FOR UPDATE lock.
func (r *FrameRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, groupID string, index domain.FrameIndex) (*domain.Frame, error) {
	row := txConn(tx).QueryRow(ctx, `
		SELECT `+frameColumns+`
		FROM frames
		WHERE group_id = $1 AND frame_index = $2
		FOR UPDATE`, groupID, int(index))

	return scanFrame(row)
}

// GetLatestBefore retrieves the most recent frame strictly before index.
func (r *FrameRepository) GetLatestBefore(ctx context.Context, tx usecase.Transaction, groupID string, index domain.FrameIndex) (*domain.Frame, error) {
	row := txConn(tx).QueryRow(ctx, `
		SELECT `+frameColumns+`
		FROM frames
		WHERE group_id = $1 AND frame_index < $2
		ORDER BY frame_index DESC
		LIMIT 1`, groupID, int(index))

	return scanFrame(row)
}

// Create creates a new frame. A concurrent insert of the same (group, frame)
// surfaces as domain.ErrFrameExists so callers can re-read the winner.
func (r *FrameRepository) Create(ctx context.Context, tx usecase.Transaction, frame *domain.Frame) error {
	_, err := txConn(tx).Exec(ctx, `
		INSERT INTO frames (`+frameColumns+`)
		VALUES ($1, $2, $3, $4, $5)`,
		frame.GroupID,
		int(frame.Index),
		moneyToNumeric(frame.Income),
		moneyToNumeric(frame.Balance),
		moneyToNumeric(frame.Spending),
	)
	if isUniqueViolation(err) {
		return domain.ErrFrameExists
	}

	return err
}

// Update updates a frame.
func (r *FrameRepository) Update(ctx context.Context, tx usecase.Transaction, frame *domain.Frame) error {
	tag, err := txConn(tx).Exec(ctx, `
		UPDATE frames
		SET income = $3, balance = $4, spending = $5
		WHERE group_id = $1 AND frame_index = $2`,
		frame.GroupID,
		int(frame.Index),
		moneyToNumeric(frame.Income),
		moneyToNumeric(frame.Balance),
		moneyToNumeric(frame.Spending),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrFrameNotFound
	}

	return nil
}

func scanFrame(row pgx.Row) (*domain.Frame, error) {
	var (
		frame    domain.Frame
		index    int
		income   pgtype.Numeric
		balance  pgtype.Numeric
		spending pgtype.Numeric
	)

	err := row.Scan(&frame.GroupID, &index, &income, &balance, &spending)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFrameNotFound
		}

		return nil, err
	}

	frame.Index = domain.FrameIndex(index)
	frame.Income = numericToMoney(income)
	frame.Balance = numericToMoney(balance)
	frame.Spending = numericToMoney(spending)

	return &frame, nil
}
