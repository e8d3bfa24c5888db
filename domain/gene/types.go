package gene

import (
	"sort"
	"strings"
)

// Record is a single row of a differential expression table after column
// mapping: one gene with its measured fold change and adjusted p-value.
type Record struct {
	EnsemblID string  `json:"ensembl_id"`
	Log2FC    float64 `json:"log2_fc"`
	AdjP      float64 `json:"adj_p"`
	Symbol    string  `json:"symbol,omitempty"`
}

// HasValidEnsemblID reports whether the record carries a plausible Ensembl
// identifier. Upstream tables frequently mix symbols and probe IDs into the
// identifier column; only ENS-prefixed IDs participate in enrichment.
func (r Record) HasValidEnsemblID() bool {
	return ValidEnsemblID(r.EnsemblID)
}

// ValidEnsemblID reports whether id looks like an Ensembl gene ID.
func ValidEnsemblID(id string) bool {
	return strings.HasPrefix(strings.TrimSpace(id), "ENS")
}

// Set is an unordered collection of gene identifiers.
type Set map[string]struct{}

// NewSet builds a Set from gene IDs, ignoring empty strings.
func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		if id != "" {
			s[id] = struct{}{}
		}
	}
	return s
}

// Add inserts a gene ID into the set.
func (s Set) Add(id string) {
	if id != "" {
		s[id] = struct{}{}
	}
}

// Contains reports membership.
func (s Set) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of genes in the set.
func (s Set) Len() int {
	return len(s)
}

// Intersect returns the genes present in both sets.
func (s Set) Intersect(other Set) Set {
	small, large := s, other
	if len(other) < len(s) {
		small, large = other, s
	}
	out := make(Set)
	for id := range small {
		if large.Contains(id) {
			out[id] = struct{}{}
		}
	}
	return out
}

// Difference returns the genes in s that are not in other.
func (s Set) Difference(other Set) Set {
	out := make(Set)
	for id := range s {
		if !other.Contains(id) {
			out[id] = struct{}{}
		}
	}
	return out
}

// Union returns all genes present in either set.
func (s Set) Union(other Set) Set {
	out := make(Set, len(s)+len(other))
	for id := range s {
		out[id] = struct{}{}
	}
	for id := range other {
		out[id] = struct{}{}
	}
	return out
}

// Sorted returns the gene IDs in lexicographic order for deterministic output.
func (s Set) Sorted() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SymbolMap maps Ensembl IDs to human-readable gene symbols.
type SymbolMap map[string]string

// NewSymbolMap builds a symbol lookup from DEG records that carry a symbol.
func NewSymbolMap(records []Record) SymbolMap {
	m := make(SymbolMap)
	for _, r := range records {
		if r.EnsemblID != "" && r.Symbol != "" {
			m[r.EnsemblID] = r.Symbol
		}
	}
	return m
}

// Resolve returns the symbol for an Ensembl ID, falling back to the ID itself.
func (m SymbolMap) Resolve(ensemblID string) string {
	if symbol, ok := m[ensemblID]; ok {
		return symbol
	}
	return ensemblID
}

// ResolveAll converts a list of Ensembl IDs to symbols, preserving order.
func (m SymbolMap) ResolveAll(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = m.Resolve(id)
	}
	return out
}

// SetFromRecords collects the Ensembl IDs of records into a Set.
func SetFromRecords(records []Record) Set {
	s := make(Set, len(records))
	for _, r := range records {
		s.Add(r.EnsemblID)
	}
	return s
}
