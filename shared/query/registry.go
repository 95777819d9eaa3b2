package query

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrUnknownQuery = errors.New("unknown query")

// Registry resolves query names and aliases.
type Registry struct {
	queries map[string]Query
}

func NewRegistry() *Registry {
	return &Registry{queries: make(map[string]Query)}
}

// DefaultRegistry holds every built-in query. q2, q3 and q4 are aliases.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewExactBooks(), "q2")
	r.Register(NewTopReviewer(), "q3")
	r.Register(NewTopPriced(), "q4")
	return r
}

// Register adds q under its name and any aliases. Later registrations
// replace earlier ones.
func (r *Registry) Register(q Query, aliases ...string) {
	r.queries[strings.ToLower(q.Name())] = q
	for _, alias := range aliases {
		r.queries[strings.ToLower(alias)] = q
	}
}

// Lookup finds a query by case-insensitive name or alias.
func (r *Registry) Lookup(name string) (Query, error) {
	q, ok := r.queries[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w %q (known: %s)", ErrUnknownQuery, name, strings.Join(r.Names(), ", "))
	}
	return q, nil
}

// Names lists the registered names and aliases.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.queries))
	for name := range r.queries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
