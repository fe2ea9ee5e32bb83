// Package strategy holds the ordered, first-match-wins registry shared by the
// slot, pricing and payment strategy families.
package strategy

import "strings"

// Strategy is one interchangeable algorithm selected by a category-matching rule.
type Strategy interface {
	AppliesTo(key string) bool
	Category() string
}

// Registry resolves a key to the first registered strategy that applies to it.
type Registry[T Strategy] struct {
	items    []T
	fallback bool
}

// NewRegistry returns a registry that falls back to the first-registered
// strategy when the key is blank or nothing matches.
func NewRegistry[T Strategy](items ...T) *Registry[T] {
	return &Registry[T]{items: items, fallback: true}
}

// NewStrictRegistry returns a registry that reports no match instead of falling back.
func NewStrictRegistry[T Strategy](items ...T) *Registry[T] {
	return &Registry[T]{items: items}
}

// Resolve returns the strategy for key and whether one was found.
func (r *Registry[T]) Resolve(key string) (T, bool) {
	var zero T
	if len(r.items) == 0 {
		return zero, false
	}
	if strings.TrimSpace(key) != "" {
		for _, s := range r.items {
			if s.AppliesTo(key) {
				return s, true
			}
		}
	}
	if r.fallback {
		return r.items[0], true
	}
	return zero, false
}

// Matches reports whether some strategy explicitly applies to key, ignoring the fallback.
func (r *Registry[T]) Matches(key string) bool {
	if strings.TrimSpace(key) == "" {
		return false
	}
	for _, s := range r.items {
		if s.AppliesTo(key) {
			return true
		}
	}
	return false
}

// All returns the strategies in registration order.
func (r *Registry[T]) All() []T {
	out := make([]T, len(r.items))
	copy(out, r.items)
	return out
}

// Categories lists the category labels in registration order, without duplicates.
func (r *Registry[T]) Categories() []string {
	seen := make(map[string]bool, len(r.items))
	var out []string
	for _, s := range r.items {
		c := s.Category()
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// Normalize lower-cases and trims a service type for keyword matching.
func Normalize(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// ContainsAny reports whether s contains any of the keywords.
func ContainsAny(s string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
