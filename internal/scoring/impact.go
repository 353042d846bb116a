package scoring

import (
	"fmt"
	"regexp"

	"go-ats-backend/internal/domain"
)

// lowImpactThreshold triggers a warning below this ratio
const lowImpactThreshold = 0.5

// quantityPattern matches a digit, percent sign, currency symbol or a magnitude word
var quantityPattern = regexp.MustCompile(`\d|%|\p{Sc}|(?i:\b(?:hundreds?|thousands?|millions?|billions?|dozens?|doubled|tripled|halved)\b)`)

// bulletRef locates a bullet inside the resume
type bulletRef struct {
	section string
	itemID  string
	index   int
	text    string
}

func (b bulletRef) pointer() *domain.Pointer {
	return at(b.section, b.itemID, fmt.Sprintf("bullets[%d]", b.index))
}

// achievementBullets lists the non-blank experience and project bullets
func achievementBullets(r *domain.Resume) []bulletRef {
	var refs []bulletRef
	for _, e := range r.Experience {
		for i, b := range e.Bullets {
			if !blank(b) {
				refs = append(refs, bulletRef{section: domain.SectionExperience, itemID: e.ID, index: i, text: b})
			}
		}
	}
	for _, p := range r.Projects {
		for i, b := range p.Bullets {
			if !blank(b) {
				refs = append(refs, bulletRef{section: domain.SectionProjects, itemID: p.ID, index: i, text: b})
			}
		}
	}
	return refs
}

// isQuantified reports whether a bullet carries a measurable result
func isQuantified(text string) bool {
	return quantityPattern.MatchString(text)
}

// scoreImpact is the share of achievement bullets with a quantity signal
func scoreImpact(r *domain.Resume) subResult {
	res := subResult{applied: true}
	bullets := achievementBullets(r)
	if len(bullets) == 0 {
		return res
	}

	quantified := 0
	var nits []domain.Finding
	for _, b := range bullets {
		if isQuantified(b.text) {
			quantified++
			continue
		}
		nits = append(nits, newFinding(domain.SeverityInfo, CodeNotQuantified,
			"Add a number, percentage or amount to show the impact of this bullet", b.pointer()))
	}
	res.fraction = float64(quantified) / float64(len(bullets))

	if res.fraction < lowImpactThreshold {
		res.findings = append(res.findings, newFinding(domain.SeverityWarning, CodeLowImpact,
			fmt.Sprintf("Only %d of %d bullets include measurable results", quantified, len(bullets)),
			at(bullets[0].section, "", "")))
	}
	res.findings = append(res.findings, nits...)
	return res
}
