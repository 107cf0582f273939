// Package favorites keeps the set of products a shopper marked as favorite.
// Every operation returns a new Set; a Set is never mutated in place.
package favorites

import (
	"maps"
	"slices"
	"strings"

	"github.com/quentin418/clear-fashion/internal/search"
)

type Set struct {
	ids map[string]struct{}
}

func New(ids ...string) Set {
	s := Set{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		if id != "" {
			s.ids[id] = struct{}{}
		}
	}
	return s
}

// Toggle marks or unmarks a product. Toggling an id into the state it is
// already in returns an equal set.
func Toggle(s Set, id string, favorite bool) Set {
	out := Set{ids: maps.Clone(s.ids)}
	if out.ids == nil {
		out.ids = map[string]struct{}{}
	}
	if id == "" {
		return out
	}
	if favorite {
		out.ids[id] = struct{}{}
	} else {
		delete(out.ids, id)
	}
	return out
}

func (s Set) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

func (s Set) Len() int {
	return len(s.ids)
}

// IDs returns the ids in ascending order.
func (s Set) IDs() []string {
	return slices.Sorted(maps.Keys(s.ids))
}

// Constraint restricts a search to the favorites. An empty set matches no
// product.
func (s Set) Constraint() search.Constraint {
	return search.IDInConstraint(s.IDs()...)
}

// Parse reads a comma separated list of ids, as sent by the front-end in
// the x-favorite-ids header.
func Parse(raw string) Set {
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		ids = append(ids, strings.TrimSpace(id))
	}
	return New(ids...)
}
