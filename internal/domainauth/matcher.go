// Package domainauth decides whether a domain may be claimed on the public
// path by matching it against configured wildcard patterns.
//
// A pattern is a DNS name in which each "*" stands for exactly one label
// (one or more characters, no dots). "*.example.com" therefore matches
// "alice.example.com" but neither "example.com" nor "a.b.example.com".
package domainauth

import (
	"fmt"
	"regexp"
	"strings"
)

// Matcher holds patterns compiled once at construction. It is immutable and
// safe for concurrent use.
type Matcher struct {
	patterns []string
	compiled []*regexp.Regexp
}

// New compiles patterns. An empty list yields a Matcher that authorizes
// nothing; a blank pattern is rejected.
func New(patterns []string) (*Matcher, error) {
	m := &Matcher{
		patterns: make([]string, 0, len(patterns)),
		compiled: make([]*regexp.Regexp, 0, len(patterns)),
	}
	for _, p := range patterns {
		normalized := Normalize(p)
		if normalized == "" {
			return nil, fmt.Errorf("invalid domain pattern %q: empty", p)
		}
		re, err := compile(normalized)
		if err != nil {
			return nil, fmt.Errorf("invalid domain pattern %q: %w", p, err)
		}
		m.patterns = append(m.patterns, normalized)
		m.compiled = append(m.compiled, re)
	}
	return m, nil
}

func compile(pattern string) (*regexp.Regexp, error) {
	parts := strings.Split(pattern, "*")
	for i, part := range parts {
		parts[i] = regexp.QuoteMeta(part)
	}
	return regexp.Compile("^" + strings.Join(parts, "[^.]+") + "$")
}

// IsAuthorized reports whether any pattern matches domain.
func (m *Matcher) IsAuthorized(domain string) bool {
	if m == nil {
		return false
	}
	domain = Normalize(domain)
	if domain == "" {
		return false
	}
	for _, re := range m.compiled {
		if re.MatchString(domain) {
			return true
		}
	}
	return false
}

// Patterns returns the normalized patterns, in configuration order.
func (m *Matcher) Patterns() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.patterns))
	copy(out, m.patterns)
	return out
}

// Normalize lower-cases a DNS name and strips surrounding whitespace and a
// single trailing dot.
func Normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.TrimSuffix(name, ".")
}
