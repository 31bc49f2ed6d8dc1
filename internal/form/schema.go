package form

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/alexanderramin/formdraft/internal/domain"
)

// Field kinds.
const (
	KindInput  = "input"
	KindText   = "text"
	KindSelect = "select"
)

//go:embed onboarding.yml
var onboardingYAML []byte

// Schema describes the hosted form: its sections and fields.
type Schema struct {
	ID       string    `yaml:"id"`
	Title    string    `yaml:"title"`
	Sections []Section `yaml:"sections"`
}

type Section struct {
	Title  string  `yaml:"title"`
	Fields []Field `yaml:"fields"`
}

type Field struct {
	Name        string     `yaml:"name"`
	Label       string     `yaml:"label"`
	Kind        string     `yaml:"kind,omitempty"` // "input" (default), "text", "select"
	Options     []string   `yaml:"options,omitempty"`
	Placeholder string     `yaml:"placeholder,omitempty"`
	ShowWhen    *Condition `yaml:"show_when,omitempty"`
}

// Condition shows a field only while another field holds a given value.
type Condition struct {
	Field  string `yaml:"field"`
	Equals string `yaml:"equals"`
}

var (
	defaultOnce   sync.Once
	defaultSchema *Schema
)

// DefaultSchema returns the embedded customer-onboarding schema.
func DefaultSchema() *Schema {
	defaultOnce.Do(func() {
		s, err := ParseSchema(onboardingYAML)
		if err != nil {
			panic(fmt.Sprintf("embedded form schema: %v", err))
		}
		defaultSchema = s
	})
	return defaultSchema
}

// LoadSchema reads a schema file, or returns the default schema when path is
// empty.
func LoadSchema(path string) (*Schema, error) {
	if path == "" {
		return DefaultSchema(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading form schema: %w", err)
	}
	return ParseSchema(data)
}

// ParseSchema decodes and validates a YAML schema.
func ParseSchema(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing form schema: %w", err)
	}
	for i := range s.Sections {
		for j := range s.Sections[i].Fields {
			if s.Sections[i].Fields[j].Kind == "" {
				s.Sections[i].Fields[j].Kind = KindInput
			}
		}
	}
	if errs := s.Validate(); len(errs) > 0 {
		msg := fmt.Sprintf("form schema validation failed (%d errors):", len(errs))
		for _, e := range errs {
			msg += "\n  - " + e.Error()
		}
		return nil, fmt.Errorf("%s", msg)
	}
	return &s, nil
}

// Validate reports structural problems in the schema.
func (s *Schema) Validate() []error {
	var errs []error
	seen := make(map[string]bool)

	for _, f := range s.Fields() {
		if f.Name == "" {
			errs = append(errs, fmt.Errorf("field %q: name is required", f.Label))
			continue
		}
		if seen[f.Name] {
			errs = append(errs, fmt.Errorf("field %q: duplicate name", f.Name))
		}
		seen[f.Name] = true

		switch f.Kind {
		case KindInput, KindText:
		case KindSelect:
			if len(f.Options) == 0 {
				errs = append(errs, fmt.Errorf("field %q: select needs options", f.Name))
			}
		default:
			errs = append(errs, fmt.Errorf("field %q: invalid kind %q", f.Name, f.Kind))
		}
	}
	for _, f := range s.Fields() {
		if f.ShowWhen != nil && !seen[f.ShowWhen.Field] {
			errs = append(errs, fmt.Errorf("field %q: show_when references unknown field %q", f.Name, f.ShowWhen.Field))
		}
	}
	return errs
}

// Fields returns every field in section order.
func (s *Schema) Fields() []Field {
	var out []Field
	for _, sec := range s.Sections {
		out = append(out, sec.Fields...)
	}
	return out
}

// Field looks a field up by name.
func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields() {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// EmptyValues returns the document a pristine form produces: every field
// present with an empty string.
func (s *Schema) EmptyValues() domain.FormData {
	out := make(domain.FormData)
	for _, f := range s.Fields() {
		out[f.Name] = ""
	}
	return out
}

// Visible reports whether f should be shown given the current values.
func (f Field) Visible(values domain.FormData) bool {
	if f.ShowWhen == nil {
		return true
	}
	v, _ := values[f.ShowWhen.Field].(string)
	return v == f.ShowWhen.Equals
}
