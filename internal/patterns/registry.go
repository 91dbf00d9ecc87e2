// Package patterns defines the betting patterns the engine scores and the
// registry they are looked up from.
package patterns

import (
	"fmt"
	"sort"

	"github.com/yourusername/pattern-edge/internal/models"
)

// Registry holds the patterns known to a run, keyed by name. Registration
// happens at startup; lookups after that are read-only.
type Registry struct {
	byName map[string]models.Pattern
}

// NewRegistry creates an empty pattern registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]models.Pattern)}
}

// Register validates a pattern and adds it to the registry. Registering a
// name twice returns models.ErrDuplicatePattern.
func (r *Registry) Register(p models.Pattern) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if _, exists := r.byName[p.Name]; exists {
		return fmt.Errorf("pattern %q: %w", p.Name, models.ErrDuplicatePattern)
	}
	r.byName[p.Name] = p
	return nil
}

// Get returns the named pattern or models.ErrUnknownPattern.
func (r *Registry) Get(name string) (models.Pattern, error) {
	p, ok := r.byName[name]
	if !ok {
		return models.Pattern{}, fmt.Errorf("pattern %q: %w", name, models.ErrUnknownPattern)
	}
	return p, nil
}

// List returns every registered pattern ordered by name.
func (r *Registry) List() []models.Pattern {
	list := make([]models.Pattern, 0, len(r.byName))
	for _, p := range r.byName {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// ByCategory returns the registered patterns of one category, ordered by name.
func (r *Registry) ByCategory(category models.Category) []models.Pattern {
	list := make([]models.Pattern, 0)
	for _, p := range r.byName {
		if p.Category == category {
			list = append(list, p)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// Len returns the number of registered patterns.
func (r *Registry) Len() int {
	return len(r.byName)
}
