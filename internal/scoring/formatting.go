package scoring

import (
	"fmt"
	"unicode/utf8"

	"go-ats-backend/internal/domain"
)

// DefaultMaxBulletRunes is the verbosity threshold for a single bullet
const DefaultMaxBulletRunes = 200

// tally counts formatting checks as they run
type tally struct {
	passed   int
	total    int
	findings []domain.Finding
}

func (t *tally) check(ok bool, sev domain.Severity, code, msg string, ptr *domain.Pointer) {
	t.total++
	if ok {
		t.passed++
		return
	}
	t.findings = append(t.findings, newFinding(sev, code, msg, ptr))
}

// scoreFormatting is the share of passed parser-risk checks. Absent optional
// fields are not checked; with nothing to check the fraction is zero.
func (e *Engine) scoreFormatting(r *domain.Resume) subResult {
	t := &tally{}

	if name := r.Header.Name; !blank(name) {
		t.check(e.validate.Var(name, "valid_name,no_emoji") == nil,
			domain.SeverityWarning, CodeNameCharacters,
			"Remove emoji or special characters from your name so parsers read it correctly",
			at(domain.SectionHeader, "", "name"))
	}
	if email := r.Header.Email; !blank(email) {
		t.check(e.validate.Var(email, "email") == nil,
			domain.SeverityWarning, CodeEmailFormat,
			"Email address is not in a standard format",
			at(domain.SectionHeader, "", "email"))
	}
	if phone := r.Header.Phone; !blank(phone) {
		t.check(e.validate.Var(phone, "valid_phone") == nil,
			domain.SeverityWarning, CodePhoneFormat,
			"Phone number should contain 7 to 15 digits with an optional leading +",
			at(domain.SectionHeader, "", "phone"))
	}

	for _, b := range e.formattedBullets(r) {
		ptr := b.pointer()
		t.check(utf8.RuneCountInString(b.text) <= e.maxBulletRunes,
			domain.SeverityInfo, CodeBulletLength,
			fmt.Sprintf("Shorten this bullet to %d characters or fewer", e.maxBulletRunes), ptr)
		t.check(startsWithActionVerb(e.actionVerbs, b.text),
			domain.SeverityInfo, CodeActionVerb,
			"Start this bullet with an action verb such as Built, Led or Reduced", ptr)
		t.check(e.validate.Var(b.text, "no_emoji") == nil,
			domain.SeverityWarning, CodeBulletCharacters,
			"Remove emoji or decorative symbols from this bullet", ptr)
	}

	res := subResult{applied: true, findings: t.findings}
	if t.total > 0 {
		res.fraction = float64(t.passed) / float64(t.total)
	}
	return res
}

// formattedBullets are the achievement bullets plus bullets of visible custom sections
func (e *Engine) formattedBullets(r *domain.Resume) []bulletRef {
	refs := achievementBullets(r)
	for _, cs := range r.CustomSections {
		if !cs.IsVisible() {
			continue
		}
		for _, item := range cs.Items {
			for i, b := range item.Bullets {
				if !blank(b) {
					refs = append(refs, bulletRef{section: cs.ID, itemID: item.ID, index: i, text: b})
				}
			}
		}
	}
	return refs
}
