package domain

import "strings"

// ============================================================================
// Resume Schema
// ============================================================================

// Schema versions understood by the resume decoder
const (
	ResumeSchemaV1      = 1
	ResumeSchemaV2      = 2
	ResumeSchemaCurrent = ResumeSchemaV2
)

// Built-in section identifiers. Header is not orderable and always ranks first.
const (
	SectionHeader         = "header"
	SectionSummary        = "summary"
	SectionExperience     = "experience"
	SectionProjects       = "projects"
	SectionSkills         = "skills"
	SectionEducation      = "education"
	SectionCertifications = "certifications"
)

// DefaultSectionOrder is used when a resume carries no sectionOrder
var DefaultSectionOrder = []string{
	SectionSummary,
	SectionExperience,
	SectionProjects,
	SectionSkills,
	SectionEducation,
	SectionCertifications,
}

// Resume is the structured resume document consumed read-only by the scoring engine.
// Values reaching the engine have been default-filled by the resume decoder.
type Resume struct {
	SchemaVersion  int             `json:"schemaVersion"`
	Header         Header          `json:"header"`
	Summary        string          `json:"summary"`
	Skills         []SkillCategory `json:"skills"`
	Experience     []Experience    `json:"experience"`
	Projects       []Project       `json:"projects"`
	Education      []Education     `json:"education"`
	Certifications []Certification `json:"certifications"`
	CustomSections []CustomSection `json:"customSections"`
	SectionOrder   []string        `json:"sectionOrder"`
}

// Header holds contact and identity fields
type Header struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Title    string `json:"title"`
	Location string `json:"location,omitempty"`
	Links    []Link `json:"links,omitempty"`
}

type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// SkillCategory groups skills under a label (e.g. "Languages")
type SkillCategory struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

type Experience struct {
	ID        string   `json:"id"`
	Company   string   `json:"company"`
	Title     string   `json:"title"`
	Location  string   `json:"location,omitempty"`
	StartDate string   `json:"startDate,omitempty"`
	EndDate   string   `json:"endDate,omitempty"`
	Current   bool     `json:"current,omitempty"`
	Bullets   []string `json:"bullets"`
}

type Project struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	URL          string   `json:"url,omitempty"`
	Bullets      []string `json:"bullets"`
}

type Education struct {
	ID          string `json:"id"`
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
}

type Certification struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Issuer string `json:"issuer,omitempty"`
	Date   string `json:"date,omitempty"`
}

// CustomSection is a user-defined section. Visible is nil until defaults are filled.
type CustomSection struct {
	ID      string       `json:"id"`
	Title   string       `json:"title"`
	Visible *bool        `json:"visible,omitempty"`
	Items   []CustomItem `json:"items"`
}

// IsVisible reports whether the section should be read by the engine
func (s CustomSection) IsVisible() bool {
	return s.Visible == nil || *s.Visible
}

type CustomItem struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle,omitempty"`
	Date        string   `json:"date,omitempty"`
	Description string   `json:"description,omitempty"`
	Bullets     []string `json:"bullets"`
}

// HasSkills reports whether at least one non-blank skill exists
func (r *Resume) HasSkills() bool {
	for _, cat := range r.Skills {
		for _, item := range cat.Items {
			if strings.TrimSpace(item) != "" {
				return true
			}
		}
	}
	return false
}

// ResolvedSectionOrder returns the order sections are laid out in: known ids from
// SectionOrder first, then sections never mentioned, then unknown ids.
func (r *Resume) ResolvedSectionOrder() []string {
	known := make(map[string]bool, len(DefaultSectionOrder)+len(r.CustomSections))
	for _, id := range DefaultSectionOrder {
		known[id] = true
	}
	for _, cs := range r.CustomSections {
		known[cs.ID] = true
	}

	seen := make(map[string]bool)
	order := make([]string, 0, len(known))
	var unknown []string
	for _, id := range r.SectionOrder {
		if seen[id] {
			continue
		}
		seen[id] = true
		if known[id] {
			order = append(order, id)
		} else {
			unknown = append(unknown, id)
		}
	}
	for _, id := range DefaultSectionOrder {
		if !seen[id] {
			seen[id] = true
			order = append(order, id)
		}
	}
	for _, cs := range r.CustomSections {
		if !seen[cs.ID] {
			seen[cs.ID] = true
			order = append(order, cs.ID)
		}
	}
	return append(order, unknown...)
}
