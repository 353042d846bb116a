package resume

import "go-ats-backend/internal/domain"

// resumeV1 is the legacy layout: flat skills, fullName in the header and no
// custom sections
type resumeV1 struct {
	Header struct {
		Name     string        `json:"name"`
		FullName string        `json:"fullName"`
		Email    string        `json:"email"`
		Phone    string        `json:"phone"`
		Title    string        `json:"title"`
		Location string        `json:"location"`
		Links    []domain.Link `json:"links"`
	} `json:"header"`
	Summary        string                 `json:"summary"`
	Skills         []string               `json:"skills"`
	Experience     []domain.Experience    `json:"experience"`
	Projects       []domain.Project       `json:"projects"`
	Education      []domain.Education     `json:"education"`
	Certifications []domain.Certification `json:"certifications"`
}

func (v resumeV1) migrate() domain.Resume {
	name := v.Header.Name
	if name == "" {
		name = v.Header.FullName
	}

	r := domain.Resume{
		SchemaVersion: domain.ResumeSchemaV1,
		Header: domain.Header{
			Name:     name,
			Email:    v.Header.Email,
			Phone:    v.Header.Phone,
			Title:    v.Header.Title,
			Location: v.Header.Location,
			Links:    v.Header.Links,
		},
		Summary:        v.Summary,
		Experience:     v.Experience,
		Projects:       v.Projects,
		Education:      v.Education,
		Certifications: v.Certifications,
	}
	if len(v.Skills) > 0 {
		r.Skills = []domain.SkillCategory{{ID: "skills-1", Name: "Skills", Items: v.Skills}}
	}
	return r
}
