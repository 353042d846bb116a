package scoring

import (
	"fmt"
	"strings"

	"go-ats-backend/internal/domain"
)

// lowCoverageThreshold triggers a warning below this fraction
const lowCoverageThreshold = 0.6

type keywordPhrase struct {
	raw    string
	tokens []string
}

type keywordResult struct {
	subResult
	matched []string
	missing []string
}

// compileKeywords tokenizes keywords and drops empty or duplicate phrases
func compileKeywords(keywords []string) []keywordPhrase {
	seen := make(map[string]bool, len(keywords))
	phrases := make([]keywordPhrase, 0, len(keywords))
	for _, kw := range keywords {
		raw := strings.TrimSpace(kw)
		tokens := tokenize(raw)
		if len(tokens) == 0 {
			continue
		}
		key := strings.Join(tokens, " ")
		if seen[key] {
			continue
		}
		seen[key] = true
		phrases = append(phrases, keywordPhrase{raw: raw, tokens: tokens})
	}
	return phrases
}

// textFields returns every machine-read text field of the resume, tokenized
// separately so a phrase never matches across two fields
func textFields(r *domain.Resume) [][]string {
	var fields [][]string
	add := func(values ...string) {
		for _, v := range values {
			if tokens := tokenize(v); len(tokens) > 0 {
				fields = append(fields, tokens)
			}
		}
	}

	add(r.Header.Title, r.Summary)
	for _, cat := range r.Skills {
		add(cat.Items...)
	}
	for _, e := range r.Experience {
		add(e.Title)
		add(e.Bullets...)
	}
	for _, p := range r.Projects {
		add(p.Name, p.Description)
		add(p.Technologies...)
		add(p.Bullets...)
	}
	for _, c := range r.Certifications {
		add(c.Name)
	}
	for _, cs := range r.CustomSections {
		if !cs.IsVisible() {
			continue
		}
		for _, item := range cs.Items {
			add(item.Title, item.Subtitle, item.Description)
			add(item.Bullets...)
		}
	}
	return fields
}

// scoreKeywords computes the fraction of target keywords found in the resume.
// The result is not applied when there is no role or the role has no keywords.
func scoreKeywords(r *domain.Resume, role *domain.TargetRole) keywordResult {
	res := keywordResult{matched: []string{}, missing: []string{}}
	if role == nil {
		return res
	}

	phrases := compileKeywords(role.Keywords)
	if len(phrases) == 0 {
		if !blank(role.Label) {
			res.findings = append(res.findings, newFinding(domain.SeverityInfo, CodeRoleWithoutKeyword,
				fmt.Sprintf("No keywords are known for %q, so keyword coverage was not scored", role.Label), nil))
		}
		return res
	}

	fields := textFields(r)
	for _, ph := range phrases {
		if phraseInFields(fields, ph.tokens) {
			res.matched = append(res.matched, ph.raw)
		} else {
			res.missing = append(res.missing, ph.raw)
		}
	}

	res.applied = true
	res.fraction = float64(len(res.matched)) / float64(len(phrases))

	label := role.Label
	if blank(label) {
		label = "the target role"
	}
	if res.fraction < lowCoverageThreshold {
		res.findings = append(res.findings, newFinding(domain.SeverityWarning, CodeLowKeywordCoverage,
			fmt.Sprintf("Only %d of %d keywords for %s were found", len(res.matched), len(phrases), label),
			at(domain.SectionSkills, "", "")))
	}
	for _, kw := range res.missing {
		res.findings = append(res.findings, newFinding(domain.SeverityInfo, CodeMissingKeyword,
			fmt.Sprintf("Consider mentioning %q if it reflects your experience", kw),
			at(domain.SectionSkills, "", "")))
	}
	return res
}

func phraseInFields(fields [][]string, phrase []string) bool {
	for _, f := range fields {
		if containsPhrase(f, phrase) {
			return true
		}
	}
	return false
}
