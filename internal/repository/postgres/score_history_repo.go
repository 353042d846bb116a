package postgres

import (
	"context"
	"fmt"

	"go-ats-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// MaxHistoryLimit caps a single history page
const MaxHistoryLimit = 100

type scoreHistoryRepo struct {
	db DBTX
}

func NewScoreHistoryRepository(db DBTX) domain.ScoreHistoryRepository {
	return &scoreHistoryRepo{db: db}
}

func (r *scoreHistoryRepo) Save(ctx context.Context, record *domain.ScoreRecord) error {
	query := `INSERT INTO ats_score_history
              (client_hash, target_role, overall, critical_count, warning_count, info_count, created_at)
              VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7)
              RETURNING id`

	err := r.db.QueryRow(ctx, query,
		record.ClientHash,
		record.TargetRole,
		record.Overall,
		record.CriticalCount,
		record.WarningCount,
		record.InfoCount,
		record.CreatedAt,
	).Scan(&record.ID)
	if err != nil {
		return fmt.Errorf("failed to save score history: %w", err)
	}
	return nil
}

func (r *scoreHistoryRepo) ListByClient(ctx context.Context, clientHash string, limit int) ([]domain.ScoreRecord, error) {
	if limit <= 0 || limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	query := `SELECT id, client_hash, COALESCE(target_role, ''), overall,
                     critical_count, warning_count, info_count, created_at
              FROM ats_score_history
              WHERE client_hash = $1
              ORDER BY created_at DESC, id DESC
              LIMIT $2`

	rows, err := r.db.Query(ctx, query, clientHash, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list score history: %w", err)
	}
	defer rows.Close()

	records := []domain.ScoreRecord{}
	for rows.Next() {
		var rec domain.ScoreRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.ClientHash,
			&rec.TargetRole,
			&rec.Overall,
			&rec.CriticalCount,
			&rec.WarningCount,
			&rec.InfoCount,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan score history: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate score history: %w", err)
	}
	return records, nil
}
