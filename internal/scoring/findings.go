package scoring

import (
	"sort"

	"go-ats-backend/internal/domain"
)

// Finding codes
const (
	CodeMissingName        = "MISSING_NAME"
	CodeMissingEmail       = "MISSING_EMAIL"
	CodeMissingTitle       = "MISSING_TITLE"
	CodeMissingExperience  = "MISSING_EXPERIENCE"
	CodeMissingSkills      = "MISSING_SKILLS"
	CodeMissingSummary     = "MISSING_SUMMARY"
	CodeMissingEducation   = "MISSING_EDUCATION"
	CodeLowKeywordCoverage = "LOW_KEYWORD_COVERAGE"
	CodeMissingKeyword     = "MISSING_KEYWORD"
	CodeRoleWithoutKeyword = "ROLE_WITHOUT_KEYWORDS"
	CodeLowImpact          = "LOW_QUANTIFIED_IMPACT"
	CodeNotQuantified      = "IMPACT_NOT_QUANTIFIED"
	CodeNameCharacters     = "FORMAT_NAME_CHARACTERS"
	CodeEmailFormat        = "FORMAT_EMAIL"
	CodePhoneFormat        = "FORMAT_PHONE"
	CodeBulletLength       = "FORMAT_BULLET_LENGTH"
	CodeActionVerb         = "FORMAT_ACTION_VERB"
	CodeBulletCharacters   = "FORMAT_BULLET_CHARACTERS"
)

func newFinding(sev domain.Severity, code, msg string, ptr *domain.Pointer) domain.Finding {
	return domain.Finding{Severity: sev, Code: code, Message: msg, Pointer: ptr}
}

func at(section, itemID, field string) *domain.Pointer {
	return &domain.Pointer{Section: section, ItemID: itemID, Field: field}
}

// sortFindings orders by severity, then by where the section sits in the
// resume. Header ranks first, findings without a pointer rank last. Ties keep
// emission order.
func sortFindings(findings []domain.Finding, sectionOrder []string) {
	rank := make(map[string]int, len(sectionOrder)+1)
	rank[domain.SectionHeader] = 0
	for i, id := range sectionOrder {
		if _, dup := rank[id]; !dup {
			rank[id] = i + 1
		}
	}
	unknownRank := len(sectionOrder) + 1
	noPointerRank := unknownRank + 1

	sectionRank := func(f domain.Finding) int {
		if f.Pointer == nil {
			return noPointerRank
		}
		if r, ok := rank[f.Pointer.Section]; ok {
			return r
		}
		return unknownRank
	}

	sort.SliceStable(findings, func(i, j int) bool {
		si, sj := findings[i].Severity.Rank(), findings[j].Severity.Rank()
		if si != sj {
			return si < sj
		}
		return sectionRank(findings[i]) < sectionRank(findings[j])
	})
}
