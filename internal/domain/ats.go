package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"time"
)

// ============================================================================
// Scoring Constants
// ============================================================================

// Severity of a finding
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Rank orders severities for sorting, critical first
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	default:
		return 2
	}
}

// Sub-score names
const (
	SubScoreStructure  = "structural_completeness"
	SubScoreKeywords   = "keyword_coverage"
	SubScoreImpact     = "quantified_impact"
	SubScoreFormatting = "formatting_risk"
)

// ============================================================================
// Scoring Input
// ============================================================================

// TargetRole is the role a resume is scored against
type TargetRole struct {
	Label    string   `json:"label"`
	Keywords []string `json:"keywords"`
}

// RoleDefinition is one entry of the role taxonomy
type RoleDefinition struct {
	Name     string   `json:"name" yaml:"name"`
	Aliases  []string `json:"aliases,omitempty" yaml:"aliases"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// ============================================================================
// Scoring Output
// ============================================================================

// ATSScore is the immutable result of scoring a resume
type ATSScore struct {
	Overall         int        `json:"overall"`
	SubScores       []SubScore `json:"subScores"`
	Findings        []Finding  `json:"findings"`
	MatchedKeywords []string   `json:"matchedKeywords"`
	MissingKeywords []string   `json:"missingKeywords"`
	TargetRole      string     `json:"targetRole,omitempty"`
	SchemaVersion   int        `json:"schemaVersion"`
}

// SubScore is one weighted component of the overall score.
// MaxScore is the effective weight after redistribution.
type SubScore struct {
	Name       string  `json:"name"`
	Score      float64 `json:"score"`
	MaxScore   float64 `json:"maxScore"`
	BaseWeight float64 `json:"baseWeight"`
	Applied    bool    `json:"applied"`
}

// SubScore looks up a sub-score by name
func (s *ATSScore) SubScore(name string) (SubScore, bool) {
	for _, sub := range s.SubScores {
		if sub.Name == name {
			return sub, true
		}
	}
	return SubScore{}, false
}

// Finding is a single actionable observation about the resume
type Finding struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Pointer  *Pointer `json:"pointer,omitempty"`
}

// Pointer links a finding back to a resume element
type Pointer struct {
	Section string `json:"section"`
	ItemID  string `json:"itemId,omitempty"`
	Field   string `json:"field,omitempty"`
}

// ============================================================================
// Request / Response
// ============================================================================

// ATSCheckRequest is the body of POST /ats-check. Resume is kept raw so the
// versioned decoder can inspect its shape before defaults are filled.
type ATSCheckRequest struct {
	Resume     json.RawMessage `json:"resume" swaggertype:"object"`
	TargetRole string          `json:"targetRole,omitempty" binding:"max=200,no_emoji"`
	Keywords   []string        `json:"keywords,omitempty" binding:"max=100,dive,max=100,no_emoji"`
}

// HasResume reports whether a non-null resume was supplied
func (r *ATSCheckRequest) HasResume() bool {
	trimmed := bytes.TrimSpace(r.Resume)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// UsageInfo is the caller's remaining quota
type UsageInfo struct {
	Remaining int `json:"remaining"`
	Limit     int `json:"limit"`
}

// ATSCheckResult is returned by ATSUsecase.Check. QuotaExceeded is a flag, not an error.
type ATSCheckResult struct {
	Score         *ATSScore `json:"score,omitempty"`
	Usage         UsageInfo `json:"usage"`
	QuotaExceeded bool      `json:"-"`
	ResetAt       time.Time `json:"-"`
}

// ScoreRecord is a persisted score summary
type ScoreRecord struct {
	ID            int64     `json:"id"`
	ClientHash    string    `json:"-"`
	TargetRole    string    `json:"targetRole,omitempty"`
	Overall       int       `json:"overall"`
	CriticalCount int       `json:"criticalCount"`
	WarningCount  int       `json:"warningCount"`
	InfoCount     int       `json:"infoCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ============================================================================
// Repository & Usecase Interfaces
// ============================================================================

// ScoreHistoryRepository persists score summaries
type ScoreHistoryRepository interface {
	Save(ctx context.Context, record *ScoreRecord) error
	ListByClient(ctx context.Context, clientHash string, limit int) ([]ScoreRecord, error)
}

// ResumeScorer computes an ATS score
type ResumeScorer interface {
	Score(resume *Resume, role *TargetRole) (*ATSScore, error)
}

// RoleTaxonomy resolves role labels to keyword sets
type RoleTaxonomy interface {
	Resolve(label string, extra []string) *TargetRole
	Roles() []RoleDefinition
}

// ATSUsecase defines business logic for the ATS check endpoint
type ATSUsecase interface {
	// CheckQuota runs the limiter check that gates Check, before the body is read
	CheckQuota(ctx context.Context, clientKey string) *ATSCheckResult

	// Check scores a resume and consumes one unit of quota on success
	Check(ctx context.Context, clientKey string, req *ATSCheckRequest) (*ATSCheckResult, error)

	// Usage reports remaining quota without consuming it
	Usage(ctx context.Context, clientKey string) (*UsageInfo, error)

	// Roles lists the predefined target roles
	Roles() []RoleDefinition

	// History lists recent scores for the caller. Returns ErrHistoryUnavailable
	// when no repository is configured.
	History(ctx context.Context, clientKey string, limit int) ([]ScoreRecord, error)
}
