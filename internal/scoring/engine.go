// Package scoring computes deterministic ATS compatibility scores for resumes.
// Scoring is pure: no I/O, no clock and no shared mutable state.
package scoring

import (
	"math"

	"go-ats-backend/internal/domain"
	"go-ats-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// Engine scores resumes. It is safe for concurrent use.
type Engine struct {
	weights        Weights
	maxBulletRunes int
	actionVerbs    map[string]struct{}
	validate       *validator.Validate
}

// Option configures an Engine
type Option func(*Engine)

// WithWeights overrides the base weights. Weights are normalized to 100.
func WithWeights(w Weights) Option {
	return func(e *Engine) {
		if w.Total() > 0 {
			e.weights = w
		}
	}
}

// WithMaxBulletRunes overrides the bullet verbosity threshold
func WithMaxBulletRunes(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxBulletRunes = n
		}
	}
}

// WithActionVerbs adds verbs to the accepted bullet openers
func WithActionVerbs(verbs ...string) Option {
	return func(e *Engine) {
		merged := make(map[string]struct{}, len(e.actionVerbs)+len(verbs))
		for v := range e.actionVerbs {
			merged[v] = struct{}{}
		}
		for _, v := range verbs {
			merged[foldText(v)] = struct{}{}
		}
		e.actionVerbs = merged
	}
}

// NewEngine creates a scoring engine with default weights
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		weights:        DefaultWeights,
		maxBulletRunes: DefaultMaxBulletRunes,
		actionVerbs:    actionVerbs,
		validate:       validation.New(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Weights returns the engine's base weights
func (e *Engine) Weights() Weights {
	return e.weights
}

var defaultEngine = NewEngine()

// Score scores r with the default engine
func Score(r *domain.Resume, role *domain.TargetRole) (*domain.ATSScore, error) {
	return defaultEngine.Score(r, role)
}

type component struct {
	name string
	base float64
	res  subResult
}

// Score computes the ATS score of r against an optional target role.
// It fails only when r is nil.
func (e *Engine) Score(r *domain.Resume, role *domain.TargetRole) (*domain.ATSScore, error) {
	if r == nil {
		return nil, &domain.InvalidInputError{Reason: "resume is missing"}
	}

	kw := scoreKeywords(r, role)
	components := []component{
		{name: domain.SubScoreStructure, base: e.weights.Structure, res: scoreStructure(r)},
		{name: domain.SubScoreKeywords, base: e.weights.Keywords, res: kw.subResult},
		{name: domain.SubScoreImpact, base: e.weights.Impact, res: scoreImpact(r)},
		{name: domain.SubScoreFormatting, base: e.weights.Formatting, res: e.scoreFormatting(r)},
	}

	// Weight of a skipped sub-score is spread proportionally over the others
	appliedBase := 0.0
	for _, c := range components {
		if c.res.applied {
			appliedBase += c.base
		}
	}

	score := &domain.ATSScore{
		SubScores:       make([]domain.SubScore, 0, len(components)),
		Findings:        []domain.Finding{},
		MatchedKeywords: kw.matched,
		MissingKeywords: kw.missing,
		SchemaVersion:   r.SchemaVersion,
	}
	if role != nil {
		score.TargetRole = role.Label
	}

	total := 0.0
	for _, c := range components {
		sub := domain.SubScore{Name: c.name, BaseWeight: c.base, Applied: c.res.applied}
		if c.res.applied {
			eff := effectiveWeight(c.base, appliedBase)
			points := clamp(c.res.fraction*eff, 0, eff)
			total += points
			sub.Score = round2(points)
			sub.MaxScore = round2(eff)
		}
		score.SubScores = append(score.SubScores, sub)
		score.Findings = append(score.Findings, c.res.findings...)
	}

	score.Overall = int(clamp(math.Round(total), 0, 100))
	sortFindings(score.Findings, r.ResolvedSectionOrder())
	return score, nil
}
