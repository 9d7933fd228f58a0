package schema

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrUnknownEntity is returned when a name does not resolve to a registered entity.
var ErrUnknownEntity = errors.New("unknown entity")

// Registry maps canonical entity names to their definitions.
// It is immutable after construction and safe for concurrent use.
type Registry struct {
	defs map[string]*Definition
}

// NewRegistry compiles the given definitions into a registry.
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{defs: make(map[string]*Definition, len(defs))}
	for i := range defs {
		d := defs[i]
		if err := d.compile(); err != nil {
			return nil, err
		}
		if _, dup := r.defs[d.Name]; dup {
			return nil, fmt.Errorf("schema: entity %q registered twice", d.Name)
		}
		r.defs[d.Name] = &d
	}
	return r, nil
}

// MustNewRegistry is like NewRegistry but panics on error.
func MustNewRegistry(defs ...Definition) *Registry {
	r, err := NewRegistry(defs...)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup resolves name (case-insensitively, ignoring surrounding whitespace)
// to its definition.
func (r *Registry) Lookup(name string) (*Definition, error) {
	canonical := NormalizeEntityName(name)
	d, ok := r.defs[canonical]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntity, strings.TrimSpace(name))
	}
	return d, nil
}

// Names returns the registered entity names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.defs))
	for n := range r.defs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// NormalizeEntityName trims whitespace, lower-cases the name and capitalizes
// its first letter: "  bOOking " becomes "Booking".
func NormalizeEntityName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	if s == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(first)) + s[size:]
}
