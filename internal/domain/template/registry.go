package template

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Registry holds the rule templates known to the service. Templates are
// registered once at startup; matches reference them by id for their
// whole lifetime.
type Registry struct {
	order     []string
	templates map[string]RuleTemplate
}

// NewRegistry creates a registry seeded with the built-in templates.
func NewRegistry() *Registry {
	r := &Registry{templates: make(map[string]RuleTemplate)}
	for _, t := range Builtin() {
		r.add(t)
	}
	return r
}

func (r *Registry) add(t RuleTemplate) {
	if _, exists := r.templates[t.ID]; !exists {
		r.order = append(r.order, t.ID)
	}
	r.templates[t.ID] = t
}

// ByID looks up a template by id.
func (r *Registry) ByID(id string) (*RuleTemplate, bool) {
	t, ok := r.templates[id]
	if !ok {
		return nil, false
	}
	return &t, true
}

// All returns the registered templates in registration order.
func (r *Registry) All() []RuleTemplate {
	out := make([]RuleTemplate, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.templates[id])
	}
	return out
}

// templatesFile mirrors the YAML layout of a template file:
//
//	templates:
//	  - id: korfball-standard-1
//	    sport: korfball
//	    ...
type templatesFile struct {
	Templates []RuleTemplate `koanf:"templates"`
}

// LoadFile merges templates from a YAML file into the registry and
// returns how many were loaded. File entries override built-ins with
// the same id.
func (r *Registry) LoadFile(path string) (int, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrLoadTemplates, err)
	}
	var tf templatesFile
	if err := k.UnmarshalWithConf("", &tf, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrLoadTemplates, err)
	}
	for _, t := range tf.Templates {
		if t.ID == "" {
			return 0, fmt.Errorf("%w: template without id", ErrInvalidTemplate)
		}
		if len(t.Periods) == 0 {
			return 0, fmt.Errorf("%w: template %q has no periods", ErrInvalidTemplate, t.ID)
		}
	}
	for _, t := range tf.Templates {
		r.add(t)
	}
	return len(tf.Templates), nil
}
