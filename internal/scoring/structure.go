package scoring

import (
	"strings"

	"go-ats-backend/internal/domain"
)

// subResult is the raw outcome of one sub-score rule
type subResult struct {
	fraction float64
	applied  bool
	findings []domain.Finding
}

type requiredElement struct {
	present bool
	code    string
	message string
	pointer *domain.Pointer
}

// scoreStructure deducts an equal share for each missing required element
func scoreStructure(r *domain.Resume) subResult {
	required := []requiredElement{
		{
			present: !blank(r.Header.Name),
			code:    CodeMissingName,
			message: "Add your full name to the resume header",
			pointer: at(domain.SectionHeader, "", "name"),
		},
		{
			present: !blank(r.Header.Email),
			code:    CodeMissingEmail,
			message: "Add an email address so recruiters can contact you",
			pointer: at(domain.SectionHeader, "", "email"),
		},
		{
			present: !blank(r.Header.Title),
			code:    CodeMissingTitle,
			message: "Add a professional title to the header",
			pointer: at(domain.SectionHeader, "", "title"),
		},
		{
			present: hasExperience(r) || hasProjects(r),
			code:    CodeMissingExperience,
			message: "Add at least one work experience or project entry",
			pointer: at(domain.SectionExperience, "", ""),
		},
		{
			present: r.HasSkills(),
			code:    CodeMissingSkills,
			message: "Add at least one skill",
			pointer: at(domain.SectionSkills, "", ""),
		},
	}

	res := subResult{applied: true}
	missing := 0
	for _, el := range required {
		if el.present {
			continue
		}
		missing++
		res.findings = append(res.findings, newFinding(domain.SeverityCritical, el.code, el.message, el.pointer))
	}
	res.fraction = float64(len(required)-missing) / float64(len(required))

	if blank(r.Summary) {
		res.findings = append(res.findings, newFinding(domain.SeverityInfo, CodeMissingSummary,
			"A short summary helps both ATS keyword matching and human readers",
			at(domain.SectionSummary, "", "")))
	}
	if !hasEducation(r) {
		res.findings = append(res.findings, newFinding(domain.SeverityInfo, CodeMissingEducation,
			"Consider adding an education entry",
			at(domain.SectionEducation, "", "")))
	}
	return res
}

func hasExperience(r *domain.Resume) bool {
	for _, e := range r.Experience {
		if !blank(e.Title) || !blank(e.Company) || anyNonBlank(e.Bullets) {
			return true
		}
	}
	return false
}

func hasProjects(r *domain.Resume) bool {
	for _, p := range r.Projects {
		if !blank(p.Name) || !blank(p.Description) || anyNonBlank(p.Bullets) {
			return true
		}
	}
	return false
}

func hasEducation(r *domain.Resume) bool {
	for _, e := range r.Education {
		if !blank(e.Institution) || !blank(e.Degree) {
			return true
		}
	}
	return false
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func anyNonBlank(items []string) bool {
	for _, s := range items {
		if !blank(s) {
			return true
		}
	}
	return false
}
