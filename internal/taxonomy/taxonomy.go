// Package taxonomy maps role labels to the keywords used for coverage scoring.
package taxonomy

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"go-ats-backend/internal/domain"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed roles.yaml
var defaultRolesYAML []byte

type file struct {
	Roles []domain.RoleDefinition `yaml:"roles"`
}

// Taxonomy is an immutable role→keyword lookup
type Taxonomy struct {
	roles  []domain.RoleDefinition
	byName map[string]int
}

// Default returns the embedded taxonomy
func Default() *Taxonomy {
	t, err := Parse(defaultRolesYAML)
	if err != nil {
		panic(fmt.Sprintf("taxonomy: embedded roles are invalid: %v", err))
	}
	return t
}

// Load returns the embedded taxonomy extended with roles from path.
// Roles in the file replace embedded roles with the same name.
func Load(path string) (*Taxonomy, error) {
	base := Default()
	if path == "" {
		return base, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read role taxonomy: %w", err)
	}
	extra, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return base.Merge(extra), nil
}

// Parse reads a taxonomy document
func Parse(data []byte) (*Taxonomy, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse role taxonomy: %w", err)
	}
	for i, r := range f.Roles {
		if strings.TrimSpace(r.Name) == "" {
			return nil, fmt.Errorf("role taxonomy entry %d has no name", i)
		}
	}
	return build(f.Roles), nil
}

func build(roles []domain.RoleDefinition) *Taxonomy {
	t := &Taxonomy{byName: make(map[string]int)}
	for _, r := range roles {
		key := normalizeLabel(r.Name)
		if idx, ok := t.byName[key]; ok {
			r.Aliases = mergeAliases(t.roles[idx].Aliases, r.Aliases)
			t.roles[idx] = r
		} else {
			t.roles = append(t.roles, r)
			idx = len(t.roles) - 1
			t.byName[key] = idx
		}
	}
	// Aliases never shadow a canonical name
	for i, r := range t.roles {
		for _, alias := range r.Aliases {
			key := normalizeLabel(alias)
			if _, taken := t.byName[key]; !taken {
				t.byName[key] = i
			}
		}
	}
	return t
}

func mergeAliases(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, alias := range append(append([]string{}, a...), b...) {
		key := normalizeLabel(alias)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, alias)
	}
	return out
}

// Merge returns a new taxonomy with other's roles layered over t's
func (t *Taxonomy) Merge(other *Taxonomy) *Taxonomy {
	roles := make([]domain.RoleDefinition, 0, len(t.roles)+len(other.roles))
	roles = append(roles, t.roles...)
	roles = append(roles, other.roles...)
	return build(roles)
}

// Roles lists roles sorted by name
func (t *Taxonomy) Roles() []domain.RoleDefinition {
	out := make([]domain.RoleDefinition, len(t.roles))
	copy(out, t.roles)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup finds a role by name or alias
func (t *Taxonomy) Lookup(label string) (domain.RoleDefinition, bool) {
	idx, ok := t.byName[normalizeLabel(label)]
	if !ok {
		return domain.RoleDefinition{}, false
	}
	return t.roles[idx], true
}

// Resolve turns a free-text role label plus explicit keywords into a target role.
//   - a known role name or alias yields the role's keywords
//   - text with separators (comma, semicolon, newline) is a custom keyword list
//   - any other label is kept as-is with only the explicit keywords
//
// Resolve returns nil when neither a label nor keywords are given.
func (t *Taxonomy) Resolve(label string, extra []string) *domain.TargetRole {
	label = strings.TrimSpace(label)
	extra = cleanKeywords(extra)
	if label == "" && len(extra) == 0 {
		return nil
	}

	if def, ok := t.Lookup(label); ok {
		keywords := append(append([]string{}, def.Keywords...), extra...)
		return &domain.TargetRole{Label: def.Name, Keywords: keywords}
	}

	if custom := splitCustom(label); len(custom) > 1 {
		return &domain.TargetRole{Label: "Custom", Keywords: append(custom, extra...)}
	}

	return &domain.TargetRole{Label: titleCase(label), Keywords: extra}
}

func splitCustom(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n'
	})
	return cleanKeywords(parts)
}

func cleanKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func normalizeLabel(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// titleCase builds a caser per call; casers are stateful
func titleCase(s string) string {
	return cases.Title(language.English).String(strings.Join(strings.Fields(s), " "))
}
