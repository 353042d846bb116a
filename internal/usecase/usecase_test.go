package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-ats-backend/internal/domain"
	"go-ats-backend/internal/scoring"
	"go-ats-backend/internal/taxonomy"
	"go-ats-backend/internal/usage"
	"go-ats-backend/internal/usecase"
	"go-ats-backend/pkg/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock Repositories
type MockHistoryRepo struct {
	mock.Mock
}

func (m *MockHistoryRepo) Save(ctx context.Context, record *domain.ScoreRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockHistoryRepo) ListByClient(ctx context.Context, clientHash string, limit int) ([]domain.ScoreRecord, error) {
	args := m.Called(ctx, clientHash, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ScoreRecord), args.Error(1)
}

type MockScorer struct {
	mock.Mock
}

func (m *MockScorer) Score(r *domain.Resume, role *domain.TargetRole) (*domain.ATSScore, error) {
	args := m.Called(r, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ATSScore), args.Error(1)
}

const sampleResume = `{
  "schemaVersion": 2,
  "header": {"name": "Ada Lovelace", "email": "ada@example.com", "title": "Backend Engineer"},
  "summary": "Backend engineer building Go services.",
  "skills": [{"name": "Languages", "items": ["Go", "SQL"]}],
  "experience": [{"company": "Analytical", "title": "Engineer",
    "bullets": ["Reduced latency by 40% across 12 services"]}],
  "education": [{"institution": "University", "degree": "BSc"}]
}`

func newRequest(role string, keywords ...string) *domain.ATSCheckRequest {
	return &domain.ATSCheckRequest{
		Resume:     json.RawMessage(sampleResume),
		TargetRole: role,
		Keywords:   keywords,
	}
}

func newLimiter(limit int) *usage.Limiter {
	return usage.NewLimiter(usage.NewMemoryStore(), limit, domain.UsageWindow)
}

func TestCheck_ScoresAndConsumesQuota(t *testing.T) {
	uc := usecase.NewATSCheckUsecase(scoring.NewEngine(), newLimiter(3), taxonomy.Default(), nil)

	res, err := uc.Check(context.Background(), "client-1", newRequest("", "Go", "SQL"))

	require.NoError(t, err)
	require.NotNil(t, res.Score)
	assert.False(t, res.QuotaExceeded)
	assert.Equal(t, domain.UsageInfo{Remaining: 2, Limit: 3}, res.Usage)
	assert.ElementsMatch(t, []string{"Go", "SQL"}, res.Score.MatchedKeywords)
}

func TestCheck_QuotaExceededIsNotAnError(t *testing.T) {
	uc := usecase.NewATSCheckUsecase(scoring.NewEngine(), newLimiter(1), taxonomy.Default(), nil)
	ctx := context.Background()

	_, err := uc.Check(ctx, "client-1", newRequest(""))
	require.NoError(t, err)

	res, err := uc.Check(ctx, "client-1", newRequest(""))
	require.NoError(t, err)
	assert.True(t, res.QuotaExceeded)
	assert.Nil(t, res.Score)
	assert.Equal(t, 0, res.Usage.Remaining)
	assert.Equal(t, 1, res.Usage.Limit)
	assert.False(t, res.ResetAt.IsZero())
}

func TestCheckQuota_DoesNotConsume(t *testing.T) {
	limiter := newLimiter(1)
	uc := usecase.NewATSCheckUsecase(scoring.NewEngine(), limiter, taxonomy.Default(), nil)
	ctx := context.Background()

	pre := uc.CheckQuota(ctx, "client-1")
	assert.False(t, pre.QuotaExceeded)
	assert.Equal(t, domain.UsageInfo{Remaining: 1, Limit: 1}, pre.Usage)

	_, err := uc.Check(ctx, "client-1", newRequest(""))
	require.NoError(t, err)

	pre = uc.CheckQuota(ctx, "client-1")
	assert.True(t, pre.QuotaExceeded)
	assert.Equal(t, 0, pre.Usage.Remaining)
	assert.Equal(t, 1, limiter.CheckLimit(ctx, "client-1").Count)
}

func TestCheck_FailuresDoNotConsumeQuota(t *testing.T) {
	limiter := newLimiter(2)
	uc := usecase.NewATSCheckUsecase(scoring.NewEngine(), limiter, taxonomy.Default(), nil)
	ctx := context.Background()

	t.Run("missing resume", func(t *testing.T) {
		_, err := uc.Check(ctx, "client-1", &domain.ATSCheckRequest{})
		var vErr *domain.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "resume", vErr.Field)
	})

	t.Run("null resume", func(t *testing.T) {
		_, err := uc.Check(ctx, "client-1", &domain.ATSCheckRequest{Resume: json.RawMessage("null")})
		var vErr *domain.ValidationError
		assert.ErrorAs(t, err, &vErr)
	})

	t.Run("non-object resume", func(t *testing.T) {
		_, err := uc.Check(ctx, "client-1", &domain.ATSCheckRequest{Resume: json.RawMessage(`"text"`)})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	assert.Equal(t, 2, limiter.CheckLimit(ctx, "client-1").Remaining)
}

func TestCheck_ScorerErrorDoesNotConsumeQuota(t *testing.T) {
	limiter := newLimiter(2)
	scorer := new(MockScorer)
	scorer.On("Score", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))
	uc := usecase.NewATSCheckUsecase(scorer, limiter, taxonomy.Default(), nil)

	_, err := uc.Check(context.Background(), "client-1", newRequest(""))

	assert.Error(t, err)
	assert.Equal(t, 0, limiter.CheckLimit(context.Background(), "client-1").Count)
	scorer.AssertExpectations(t)
}

func TestCheck_ResolvesRoleFromTaxonomy(t *testing.T) {
	scorer := new(MockScorer)
	scorer.On("Score", mock.Anything, mock.MatchedBy(func(role *domain.TargetRole) bool {
		return role != nil && len(role.Keywords) > 0
	})).Return(&domain.ATSScore{Overall: 80, Findings: []domain.Finding{}}, nil)

	uc := usecase.NewATSCheckUsecase(scorer, newLimiter(5), taxonomy.Default(), nil)

	res, err := uc.Check(context.Background(), "client-1", newRequest("backend engineer"))

	require.NoError(t, err)
	assert.Equal(t, 80, res.Score.Overall)
	scorer.AssertExpectations(t)
}

func TestCheck_SavesHistoryWithHashedClient(t *testing.T) {
	repo := new(MockHistoryRepo)
	repo.On("Save", mock.Anything, mock.MatchedBy(func(r *domain.ScoreRecord) bool {
		return r.ClientHash == security.HashValue("client-1") &&
			r.CriticalCount == 1 && r.WarningCount == 1 && r.InfoCount == 1 &&
			r.Overall == 70 && !r.CreatedAt.IsZero()
	})).Return(errors.New("db down"))

	scorer := new(MockScorer)
	scorer.On("Score", mock.Anything, mock.Anything).Return(&domain.ATSScore{
		Overall: 70,
		Findings: []domain.Finding{
			{Severity: domain.SeverityCritical},
			{Severity: domain.SeverityWarning},
			{Severity: domain.SeverityInfo},
		},
	}, nil)

	uc := usecase.NewATSCheckUsecase(scorer, newLimiter(5), taxonomy.Default(), repo)

	res, err := uc.Check(context.Background(), "client-1", newRequest(""))

	require.NoError(t, err, "history failures must not fail the request")
	assert.Equal(t, 4, res.Usage.Remaining)
	repo.AssertExpectations(t)
}

func TestUsage_DoesNotConsume(t *testing.T) {
	uc := usecase.NewATSCheckUsecase(scoring.NewEngine(), newLimiter(5), taxonomy.Default(), nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		info, err := uc.Usage(ctx, "client-1")
		require.NoError(t, err)
		assert.Equal(t, &domain.UsageInfo{Remaining: 5, Limit: 5}, info)
	}
}

func TestHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("unavailable without repository", func(t *testing.T) {
		uc := usecase.NewATSCheckUsecase(scoring.NewEngine(), newLimiter(5), taxonomy.Default(), nil)
		_, err := uc.History(ctx, "client-1", 10)
		assert.ErrorIs(t, err, domain.ErrHistoryUnavailable)
	})

	t.Run("lists by hashed client", func(t *testing.T) {
		repo := new(MockHistoryRepo)
		want := []domain.ScoreRecord{{ID: 1, Overall: 90, CreatedAt: time.Now()}}
		repo.On("ListByClient", ctx, security.HashValue("client-1"), 10).Return(want, nil)

		uc := usecase.NewATSCheckUsecase(scoring.NewEngine(), newLimiter(5), taxonomy.Default(), repo)
		got, err := uc.History(ctx, "client-1", 10)

		require.NoError(t, err)
		assert.Equal(t, want, got)
		repo.AssertExpectations(t)
	})

	t.Run("wraps repository errors", func(t *testing.T) {
		repo := new(MockHistoryRepo)
		repo.On("ListByClient", ctx, mock.Anything, 10).Return(nil, errors.New("db down"))

		uc := usecase.NewATSCheckUsecase(scoring.NewEngine(), newLimiter(5), taxonomy.Default(), repo)
		_, err := uc.History(ctx, "client-1", 10)

		assert.ErrorContains(t, err, "db down")
	})
}

func TestRoles(t *testing.T) {
	uc := usecase.NewATSCheckUsecase(scoring.NewEngine(), newLimiter(5), taxonomy.Default(), nil)
	assert.NotEmpty(t, uc.Roles())
}

func TestHealthCheck(t *testing.T) {
	t.Run("all up", func(t *testing.T) {
		uc := usecase.NewHealthUsecase(map[string]usecase.HealthProbe{
			"redis":    func(context.Context) error { return nil },
			"database": nil,
		})
		status, ok := uc.Check(context.Background())
		assert.True(t, ok)
		assert.Equal(t, "ok", status["status"])
		assert.Equal(t, "ok", status["redis"])
		assert.Equal(t, "disabled", status["database"])
	})

	t.Run("dependency down", func(t *testing.T) {
		uc := usecase.NewHealthUsecase(map[string]usecase.HealthProbe{
			"database": func(context.Context) error { return errors.New("refused") },
		})
		status, ok := uc.Check(context.Background())
		assert.False(t, ok)
		assert.Equal(t, "degraded", status["status"])
		assert.Equal(t, "down", status["database"])
	})
}
