package models

import "sort"

// Binding ties a domain to the DID it resolves to. Domain is the primary
// key; bindings are created and destroyed, never edited.
type Binding struct {
	Domain string `json:"domain"`
	DID    string `json:"did"`
}

// FromMap flattens a domain->DID map into bindings sorted by domain.
func FromMap(m map[string]string) []Binding {
	out := make([]Binding, 0, len(m))
	for domain, did := range m {
		out = append(out, Binding{Domain: domain, DID: did})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Domain < out[j].Domain })
	return out
}

// ToMap indexes bindings by domain. Later duplicates win.
func ToMap(bindings []Binding) map[string]string {
	m := make(map[string]string, len(bindings))
	for _, b := range bindings {
		m[b.Domain] = b.DID
	}
	return m
}
