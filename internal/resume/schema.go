// Package resume decodes resume payloads through the versioned schema and
// fills defaults so downstream code never sees missing collections or ids.
package resume

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"go-ats-backend/internal/domain"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON string

var (
	compiledSchema *gojsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
)

func schema() (*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiledSchema, compileErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	})
	return compiledSchema, compileErr
}

// ShapeError lists schema violations of a resume payload
type ShapeError struct {
	Errors []FieldError
}

// FieldError is a single schema violation
type FieldError struct {
	Field   string
	Message string
}

func (e *ShapeError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return "resume shape: " + strings.Join(parts, "; ")
}

// ValidateShape checks raw against the embedded resume schema
func ValidateShape(raw []byte) error {
	s, err := schema()
	if err != nil {
		return fmt.Errorf("failed to compile resume schema: %w", err)
	}

	result, err := s.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		// Not parseable as JSON at all
		return &ShapeError{Errors: []FieldError{{Field: "(root)", Message: err.Error()}}}
	}
	if result.Valid() {
		return nil
	}

	shapeErr := &ShapeError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		shapeErr.Errors = append(shapeErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return shapeErr
}

// Decode validates, migrates and default-fills a raw resume.
// Every failure is a *domain.InvalidInputError.
func Decode(raw []byte) (*domain.Resume, error) {
	if err := ValidateShape(raw); err != nil {
		return nil, &domain.InvalidInputError{Reason: "resume does not match the expected shape", Err: err}
	}

	version, err := detectVersion(raw)
	if err != nil {
		return nil, &domain.InvalidInputError{Reason: "cannot read schema version", Err: err}
	}

	var r domain.Resume
	switch version {
	case domain.ResumeSchemaV1:
		var legacy resumeV1
		if err := json.Unmarshal(raw, &legacy); err != nil {
			return nil, &domain.InvalidInputError{Reason: "cannot decode v1 resume", Err: err}
		}
		r = legacy.migrate()
	default:
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, &domain.InvalidInputError{Reason: "cannot decode resume", Err: err}
		}
	}

	FillDefaults(&r)
	return &r, nil
}

type versionProbe struct {
	SchemaVersion int               `json:"schemaVersion"`
	Skills        []json.RawMessage `json:"skills"`
}

// detectVersion uses schemaVersion when present. Older payloads without it are
// recognised by their flat string skill list.
func detectVersion(raw []byte) (int, error) {
	var probe versionProbe
	if err := json.Unmarshal(raw, &probe); err != nil {
		return 0, err
	}
	if probe.SchemaVersion != 0 {
		return probe.SchemaVersion, nil
	}
	for _, s := range probe.Skills {
		trimmed := strings.TrimSpace(string(s))
		if strings.HasPrefix(trimmed, `"`) {
			return domain.ResumeSchemaV1, nil
		}
	}
	return domain.ResumeSchemaCurrent, nil
}
