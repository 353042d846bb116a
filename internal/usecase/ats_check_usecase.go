package usecase

import (
	"context"
	"fmt"
	"time"

	"go-ats-backend/internal/domain"
	"go-ats-backend/internal/resume"
	"go-ats-backend/pkg/logger"
	"go-ats-backend/pkg/security"
)

type atsCheckUsecase struct {
	scorer   domain.ResumeScorer
	limiter  domain.UsageLimiter
	taxonomy domain.RoleTaxonomy
	history  domain.ScoreHistoryRepository
	now      func() time.Time
}

// NewATSCheckUsecase wires the scoring flow. history may be nil.
func NewATSCheckUsecase(
	scorer domain.ResumeScorer,
	limiter domain.UsageLimiter,
	taxonomy domain.RoleTaxonomy,
	history domain.ScoreHistoryRepository,
) domain.ATSUsecase {
	return &atsCheckUsecase{
		scorer:   scorer,
		limiter:  limiter,
		taxonomy: taxonomy,
		history:  history,
		now:      time.Now,
	}
}

// CheckQuota reports whether the caller may run a check, without consuming quota
func (u *atsCheckUsecase) CheckQuota(ctx context.Context, clientKey string) *domain.ATSCheckResult {
	status := u.limiter.CheckLimit(ctx, clientKey)
	if !status.Allowed {
		return &domain.ATSCheckResult{
			Usage:         domain.UsageInfo{Remaining: 0, Limit: status.Limit},
			QuotaExceeded: true,
			ResetAt:       status.ResetAt,
		}
	}
	return &domain.ATSCheckResult{
		Usage:   domain.UsageInfo{Remaining: status.Remaining, Limit: status.Limit},
		ResetAt: status.ResetAt,
	}
}

// Check consumes one unit of quota only after a successful score
func (u *atsCheckUsecase) Check(ctx context.Context, clientKey string, req *domain.ATSCheckRequest) (*domain.ATSCheckResult, error) {
	if quota := u.CheckQuota(ctx, clientKey); quota.QuotaExceeded {
		return quota, nil
	}

	if req == nil || !req.HasResume() {
		return nil, &domain.ValidationError{Field: "resume", Message: "resume is required"}
	}

	doc, err := resume.Decode(req.Resume)
	if err != nil {
		return nil, err
	}

	role := u.taxonomy.Resolve(req.TargetRole, req.Keywords)

	score, err := u.scorer.Score(doc, role)
	if err != nil {
		return nil, fmt.Errorf("failed to score resume: %w", err)
	}

	after := u.limiter.Increment(ctx, clientKey)

	u.saveHistory(ctx, clientKey, score)

	return &domain.ATSCheckResult{
		Score: score,
		Usage: domain.UsageInfo{Remaining: after.Remaining, Limit: after.Limit},
	}, nil
}

func (u *atsCheckUsecase) saveHistory(ctx context.Context, clientKey string, score *domain.ATSScore) {
	if u.history == nil {
		return
	}

	record := &domain.ScoreRecord{
		ClientHash: security.HashValue(clientKey),
		TargetRole: score.TargetRole,
		Overall:    score.Overall,
		CreatedAt:  u.now().UTC(),
	}
	for _, f := range score.Findings {
		switch f.Severity {
		case domain.SeverityCritical:
			record.CriticalCount++
		case domain.SeverityWarning:
			record.WarningCount++
		default:
			record.InfoCount++
		}
	}

	// History is best effort and never fails the request
	if err := u.history.Save(ctx, record); err != nil {
		logger.Log.Warn("Failed to save score history", "error", err)
	}
}

func (u *atsCheckUsecase) Usage(ctx context.Context, clientKey string) (*domain.UsageInfo, error) {
	status := u.limiter.CheckLimit(ctx, clientKey)
	return &domain.UsageInfo{Remaining: status.Remaining, Limit: status.Limit}, nil
}

func (u *atsCheckUsecase) Roles() []domain.RoleDefinition {
	return u.taxonomy.Roles()
}

func (u *atsCheckUsecase) History(ctx context.Context, clientKey string, limit int) ([]domain.ScoreRecord, error) {
	if u.history == nil {
		return nil, domain.ErrHistoryUnavailable
	}
	records, err := u.history.ListByClient(ctx, security.HashValue(clientKey), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load score history: %w", err)
	}
	return records, nil
}
