package model

import "fmt"

// CategoryID identifies a service category (e.g. a medical department).
type CategoryID string

// Category describes one type of request a provider may support.
type Category struct {
	ID    CategoryID
	Label string // human readable name
}

// CategorySet indexes the categories known to a deployment by ID.
type CategorySet map[CategoryID]Category

// NewCategorySet builds a set from the given categories. Later duplicates
// overwrite earlier ones.
func NewCategorySet(cats ...Category) CategorySet {
	s := make(CategorySet, len(cats))
	for _, c := range cats {
		s[c.ID] = c
	}
	return s
}

// Has reports whether the category is part of the set.
func (s CategorySet) Has(id CategoryID) bool {
	_, ok := s[id]
	return ok
}

// Provider represents a clinic able to accept requests. Providers are
// configured once per deployment and read-only during a solve.
type Provider struct {
	Name       string       // unique identifier
	Categories []CategoryID // supported categories, declaration order preserved
	Capacity   int          // accepted requests per time slot
	Sink       bool         // unassigned sink: unlimited capacity, supports every category
}

// NewSink returns the unassigned sink provider under the given name. Requests
// mapped to it are the ones left unplaced by a solve.
func NewSink(name string) Provider {
	return Provider{Name: name, Sink: true}
}

// Supports reports whether the provider can serve the given category.
func (p Provider) Supports(id CategoryID) bool {
	if p.Sink {
		return true
	}
	for _, c := range p.Categories {
		if c == id {
			return true
		}
	}
	return false
}

// Validate checks that the provider configuration is sound.
func (p Provider) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("provider name must not be empty")
	}
	if !p.Sink && p.Capacity < 0 {
		return fmt.Errorf("provider %s: capacity must not be negative", p.Name)
	}
	return nil
}
