package domain

import (
	"strings"
	"unicode"
)

// Namespace names a knowledge partition of the vector store. Namespaces
// are defined at configuration time and never created or destroyed at
// runtime. A valid namespace is always lowercase.
type Namespace string

// CanonicalNamespace lowercases and trims a caller-supplied identifier
// so membership checks are case and whitespace insensitive.
func CanonicalNamespace(s string) Namespace {
	return Namespace(strings.ToLower(strings.TrimSpace(s)))
}

// String returns the namespace identifier.
func (n Namespace) String() string {
	return string(n)
}

// Persona returns the first-person identity derived from the namespace:
// the capitalised namespace name followed by the honorific.
// "tocqueville" becomes "Tocqueville Master".
func (n Namespace) Persona() string {
	runes := []rune(string(n))
	if len(runes) == 0 {
		return "Master"
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes) + " Master"
}

// IDPrefix returns the short (up to three runes) namespace prefix used
// to build response identifiers.
func (n Namespace) IDPrefix() string {
	runes := []rune(string(n))
	if len(runes) > 3 {
		runes = runes[:3]
	}
	return string(runes)
}

// NamespaceSet is the configured set of valid namespaces plus the
// designated default used when resolution falls back.
type NamespaceSet struct {
	def   Namespace
	known map[Namespace]struct{}
	order []Namespace
}

// NewNamespaceSet builds a set from configuration values. The default is
// always a member, whether or not it appears in the list.
func NewNamespaceSet(def string, names []string) NamespaceSet {
	s := NamespaceSet{
		def:   CanonicalNamespace(def),
		known: make(map[Namespace]struct{}, len(names)+1),
	}
	for _, name := range names {
		ns := CanonicalNamespace(name)
		if ns == "" {
			continue
		}
		if _, ok := s.known[ns]; !ok {
			s.known[ns] = struct{}{}
			s.order = append(s.order, ns)
		}
	}
	if _, ok := s.known[s.def]; !ok && s.def != "" {
		s.known[s.def] = struct{}{}
		s.order = append(s.order, s.def)
	}
	return s
}

// Default returns the fallback namespace.
func (s NamespaceSet) Default() Namespace {
	return s.def
}

// Contains reports whether ns is a configured namespace.
func (s NamespaceSet) Contains(ns Namespace) bool {
	_, ok := s.known[ns]
	return ok
}

// All returns the configured namespaces in declaration order.
func (s NamespaceSet) All() []Namespace {
	out := make([]Namespace, len(s.order))
	copy(out, s.order)
	return out
}

// Names returns the configured namespaces as plain strings.
func (s NamespaceSet) Names() []string {
	out := make([]string, len(s.order))
	for i, ns := range s.order {
		out[i] = string(ns)
	}
	return out
}
