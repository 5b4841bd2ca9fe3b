// Package foundation holds small generic helpers shared by config-facing packages.
package foundation

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

var fold = cases.Fold()

func normalize(s string) string {
	return fold.String(strings.TrimSpace(s))
}

// Normalizer maps user-supplied strings onto a closed set of values,
// ignoring case and surrounding whitespace.
type Normalizer[T comparable] struct {
	validValues  map[string]T
	names        []string
	defaultValue T
}

// NewNormalizer creates a normalizer with a map of valid string->value pairs.
func NewNormalizer[T comparable](values map[string]T, defaultValue T) *Normalizer[T] {
	normalized := make(map[string]T, len(values))
	names := make([]string, 0, len(values))
	for k, v := range values {
		normalized[normalize(k)] = v
		names = append(names, k)
	}
	slices.Sort(names)

	return &Normalizer[T]{
		validValues:  normalized,
		names:        names,
		defaultValue: defaultValue,
	}
}

// Normalize returns the value for raw, or the default when raw is not recognized.
func (n *Normalizer[T]) Normalize(raw string) T {
	if value, exists := n.validValues[normalize(raw)]; exists {
		return value
	}
	return n.defaultValue
}

// NormalizeWithError returns the value for raw, or an error naming the
// accepted spellings.
func (n *Normalizer[T]) NormalizeWithError(raw string) (T, error) {
	if value, exists := n.validValues[normalize(raw)]; exists {
		return value, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid value %q (expected one of %s)", raw, strings.Join(n.names, ", "))
}

// Names returns the accepted spellings, sorted.
func (n *Normalizer[T]) Names() []string {
	return slices.Clone(n.names)
}
