package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"go-ats-backend/internal/domain"
	"go-ats-backend/internal/repository/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scanInto copies values into pointer destinations, like pgx does for matching types
func scanInto(values []any, dest []any) error {
	if len(values) != len(dest) {
		return fmt.Errorf("scan: %d values into %d destinations", len(values), len(dest))
	}
	for i, v := range values {
		target := reflect.ValueOf(dest[i]).Elem()
		src := reflect.ValueOf(v)
		if !src.Type().AssignableTo(target.Type()) {
			return fmt.Errorf("scan: column %d is %s, destination is %s", i, src.Type(), target.Type())
		}
		target.Set(src)
	}
	return nil
}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return scanInto(r.values, dest)
}

type fakeRows struct {
	data [][]any
	pos  int
	err  error
}

func (r *fakeRows) Close() {}
func (r *fakeRows) Err() error { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error) { return r.data[r.pos-1], nil }
func (r *fakeRows) RawValues() [][]byte { return nil }
func (r *fakeRows) Conn() *pgx.Conn { return nil }

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	return scanInto(r.data[r.pos-1], dest)
}

type fakeDB struct {
	sql  string
	args []any
	row  fakeRow
	rows *fakeRows
	err  error
}

func (db *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	db.sql, db.args = sql, args
	return pgconn.NewCommandTag("INSERT 0 1"), db.err
}

func (db *fakeDB) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	db.sql, db.args = sql, args
	if db.err != nil {
		return nil, db.err
	}
	return db.rows, nil
}

func (db *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	db.sql, db.args = sql, args
	return db.row
}

func TestScoreHistoryRepo_Save(t *testing.T) {
	created := time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC)

	t.Run("inserts and sets id", func(t *testing.T) {
		db := &fakeDB{row: fakeRow{values: []any{int64(42)}}}
		repo := postgres.NewScoreHistoryRepository(db)

		rec := &domain.ScoreRecord{
			ClientHash:    "abc123",
			TargetRole:    "Backend Developer",
			Overall:       81,
			CriticalCount: 1,
			WarningCount:  2,
			InfoCount:     3,
			CreatedAt:     created,
		}
		require.NoError(t, repo.Save(context.Background(), rec))

		assert.Equal(t, int64(42), rec.ID)
		assert.Contains(t, db.sql, "INSERT INTO ats_score_history")
		assert.Contains(t, db.sql, "RETURNING id")
		assert.Equal(t, []any{"abc123", "Backend Developer", 81, 1, 2, 3, created}, db.args)
	})

	t.Run("wraps errors", func(t *testing.T) {
		db := &fakeDB{row: fakeRow{err: errors.New("connection reset")}}
		repo := postgres.NewScoreHistoryRepository(db)

		err := repo.Save(context.Background(), &domain.ScoreRecord{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to save score history")
		assert.Contains(t, err.Error(), "connection reset")
	})
}

func TestScoreHistoryRepo_ListByClient(t *testing.T) {
	newer := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)
	older := newer.Add(-time.Hour)

	t.Run("scans rows in order", func(t *testing.T) {
		db := &fakeDB{rows: &fakeRows{data: [][]any{
			{int64(2), "abc123", "Data Engineer", 74, 0, 1, 4, newer},
			{int64(1), "abc123", "", 55, 2, 0, 1, older},
		}}}
		repo := postgres.NewScoreHistoryRepository(db)

		records, err := repo.ListByClient(context.Background(), "abc123", 10)
		require.NoError(t, err)
		require.Len(t, records, 2)

		assert.Equal(t, domain.ScoreRecord{
			ID: 2, ClientHash: "abc123", TargetRole: "Data Engineer", Overall: 74,
			WarningCount: 1, InfoCount: 4, CreatedAt: newer,
		}, records[0])
		assert.Equal(t, int64(1), records[1].ID)
		assert.Empty(t, records[1].TargetRole)
		assert.Contains(t, db.sql, "ORDER BY created_at DESC")
		assert.Equal(t, []any{"abc123", 10}, db.args)
	})

	t.Run("clamps limit", func(t *testing.T) {
		for _, limit := range []int{0, -3, postgres.MaxHistoryLimit + 1} {
			db := &fakeDB{rows: &fakeRows{}}
			repo := postgres.NewScoreHistoryRepository(db)

			records, err := repo.ListByClient(context.Background(), "abc123", limit)
			require.NoError(t, err)
			assert.NotNil(t, records)
			assert.Empty(t, records)
			assert.Equal(t, postgres.MaxHistoryLimit, db.args[1])
		}
	})

	t.Run("query error", func(t *testing.T) {
		db := &fakeDB{err: errors.New("timeout")}
		repo := postgres.NewScoreHistoryRepository(db)

		_, err := repo.ListByClient(context.Background(), "abc123", 5)
		assert.ErrorContains(t, err, "failed to list score history")
	})

	t.Run("scan error", func(t *testing.T) {
		db := &fakeDB{rows: &fakeRows{data: [][]any{{int64(1), "abc123"}}}}
		repo := postgres.NewScoreHistoryRepository(db)

		_, err := repo.ListByClient(context.Background(), "abc123", 5)
		assert.ErrorContains(t, err, "failed to scan score history")
	})

	t.Run("iteration error", func(t *testing.T) {
		db := &fakeDB{rows: &fakeRows{err: errors.New("broken pipe")}}
		repo := postgres.NewScoreHistoryRepository(db)

		_, err := repo.ListByClient(context.Background(), "abc123", 5)
		assert.ErrorContains(t, err, "failed to iterate score history")
	})
}
