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

// HistoryRepository implements usecase.HistoryRepository with one row per
// (group, category, frame).
type HistoryRepository struct {
	pool *pgxpool.Pool
}

// NewHistoryRepository creates a new HistoryRepository.
func NewHistoryRepository(pool *pgxpool.Pool) *HistoryRepository {
	return &HistoryRepository{pool: pool}
}

const historyColumns = `group_id, category_id, frame_index, budget, spending`

// Get retrieves the snapshot for a frame, or nil when none exists.
func (r *HistoryRepository) Get(ctx context.Context, tx usecase.Transaction, groupID, categoryID string, frame domain.FrameIndex) (*domain.HistorySnapshot, error) {
	row := txConn(tx).QueryRow(ctx, `
		SELECT `+historyColumns+`
		FROM category_history
		WHERE group_id = $1 AND category_id = $2 AND frame_index = $3
		FOR UPDATE`, groupID, categoryID, int(frame))

	snapshot, err := scanSnapshot(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return snapshot, nil
}

// Upsert inserts or replaces a snapshot.
func (r *HistoryRepository) Upsert(ctx context.Context, tx usecase.Transaction, snapshot *domain.HistorySnapshot) error {
	_, err := txConn(tx).Exec(ctx, `
		INSERT INTO category_history (`+historyColumns+`)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (group_id, category_id, frame_index) DO UPDATE
		SET budget = EXCLUDED.budget, spending = EXCLUDED.spending`,
		snapshot.GroupID,
		snapshot.CategoryID,
		int(snapshot.Frame),
		moneyToNumeric(snapshot.Budget),
		moneyToNumeric(snapshot.Spending),
	)

	return err
}

// Window retrieves the snapshots for [from, to], oldest first.
func (r *HistoryRepository) Window(ctx context.Context, groupID, categoryID string, from, to domain.FrameIndex) (domain.CategoryHistory, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+historyColumns+`
		FROM category_history
		WHERE group_id = $1 AND category_id = $2 AND frame_index BETWEEN $3 AND $4
		ORDER BY frame_index`, groupID, categoryID, int(from), int(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var window domain.CategoryHistory
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		window = append(window, *snapshot)
	}

	return window, rows.Err()
}

func scanSnapshot(row pgx.Row) (*domain.HistorySnapshot, error) {
	var (
		snapshot domain.HistorySnapshot
		frame    int
		budget   pgtype.Numeric
		spending pgtype.Numeric
	)

	err := row.Scan(&snapshot.GroupID, &snapshot.CategoryID, &frame, &budget, &spending)
	if err != nil {
		return nil, err
	}

	snapshot.Frame = domain.FrameIndex(frame)
	snapshot.Budget = numericToMoney(budget)
	snapshot.Spending = numericToMoney(spending)

	return &snapshot, nil
}
