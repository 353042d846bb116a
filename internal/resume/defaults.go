package resume

import (
	"fmt"

	"go-ats-backend/internal/domain"
)

// FillDefaults normalises a decoded resume in place:
//   - nil collections become empty
//   - missing ids become "<section>-<n>", duplicates get a numeric suffix
//   - custom sections default to visible
//   - sectionOrder is resolved to an explicit full order
//
// The original schemaVersion is preserved so callers can report it; a zero
// version is set to the current one.
func FillDefaults(r *domain.Resume) {
	if r.SchemaVersion == 0 {
		r.SchemaVersion = domain.ResumeSchemaCurrent
	}

	r.Header.Links = orEmpty(r.Header.Links)
	r.Skills = orEmpty(r.Skills)
	r.Experience = orEmpty(r.Experience)
	r.Projects = orEmpty(r.Projects)
	r.Education = orEmpty(r.Education)
	r.Certifications = orEmpty(r.Certifications)
	r.CustomSections = orEmpty(r.CustomSections)
	r.SectionOrder = orEmpty(r.SectionOrder)

	ids := newIDSet(domain.SectionSkills)
	for i := range r.Skills {
		r.Skills[i].ID = ids.assign(r.Skills[i].ID, i)
		r.Skills[i].Items = orEmpty(r.Skills[i].Items)
	}

	ids = newIDSet(domain.SectionExperience)
	for i := range r.Experience {
		r.Experience[i].ID = ids.assign(r.Experience[i].ID, i)
		r.Experience[i].Bullets = orEmpty(r.Experience[i].Bullets)
	}

	ids = newIDSet(domain.SectionProjects)
	for i := range r.Projects {
		r.Projects[i].ID = ids.assign(r.Projects[i].ID, i)
		r.Projects[i].Technologies = orEmpty(r.Projects[i].Technologies)
		r.Projects[i].Bullets = orEmpty(r.Projects[i].Bullets)
	}

	ids = newIDSet(domain.SectionEducation)
	for i := range r.Education {
		r.Education[i].ID = ids.assign(r.Education[i].ID, i)
	}

	ids = newIDSet(domain.SectionCertifications)
	for i := range r.Certifications {
		r.Certifications[i].ID = ids.assign(r.Certifications[i].ID, i)
	}

	// Custom section ids share a namespace with the built-in sections
	ids = newIDSet("custom")
	for _, builtin := range domain.DefaultSectionOrder {
		ids.used[builtin] = true
	}
	ids.used[domain.SectionHeader] = true
	for i := range r.CustomSections {
		cs := &r.CustomSections[i]
		cs.ID = ids.assign(cs.ID, i)
		if cs.Visible == nil {
			visible := true
			cs.Visible = &visible
		}
		cs.Items = orEmpty(cs.Items)
		itemIDs := newIDSet(cs.ID + "-item")
		for j := range cs.Items {
			cs.Items[j].ID = itemIDs.assign(cs.Items[j].ID, j)
			cs.Items[j].Bullets = orEmpty(cs.Items[j].Bullets)
		}
	}

	r.SectionOrder = r.ResolvedSectionOrder()
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// idSet hands out unique ids within one collection
type idSet struct {
	prefix string
	used   map[string]bool
}

func newIDSet(prefix string) *idSet {
	return &idSet{prefix: prefix, used: make(map[string]bool)}
}

func (s *idSet) assign(id string, index int) string {
	if id == "" {
		id = fmt.Sprintf("%s-%d", s.prefix, index+1)
	}
	candidate := id
	for n := 2; s.used[candidate]; n++ {
		candidate = fmt.Sprintf("%s-%d", id, n)
	}
	s.used[candidate] = true
	return candidate
}
