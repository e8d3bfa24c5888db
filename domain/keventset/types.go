package keventset

import (
	"sort"
	"strings"

	"kenrich/domain/gene"
)

// KeyEvent is one measurable step in an Adverse Outcome Pathway together
// with the genes annotated to it. The same type carries functional pathway
// categories (GO/KEGG terms) when a pathway mapping is loaded instead.
type KeyEvent struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	AOPs  []string `json:"aops,omitempty"`
	Genes gene.Set `json:"genes"`
}

// HasName reports whether the KE carries a usable display name. KEs without
// names are excluded from enrichment output, matching the curation rule that
// unnamed mapping rows are annotation artifacts.
func (k KeyEvent) HasName() bool {
	name := strings.TrimSpace(k.Name)
	return name != "" && !strings.EqualFold(name, "nan")
}

// AOPList returns the sorted, deduplicated AOP identifiers as a single
// comma-separated string for display.
func (k KeyEvent) AOPList() string {
	seen := make(map[string]struct{}, len(k.AOPs))
	uniq := make([]string, 0, len(k.AOPs))
	for _, aop := range k.AOPs {
		aop = strings.TrimSpace(aop)
		if aop == "" {
			continue
		}
		if _, ok := seen[aop]; ok {
			continue
		}
		seen[aop] = struct{}{}
		uniq = append(uniq, aop)
	}
	sort.Strings(uniq)
	return strings.Join(uniq, ", ")
}

// Collection holds every Key Event from a gene-to-KE mapping along with the
// background gene universe implied by the mapping.
type Collection struct {
	events   map[string]*KeyEvent
	universe gene.Set
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{
		events:   make(map[string]*KeyEvent),
		universe: make(gene.Set),
	}
}

// AddMapping records one (gene, KE) annotation row. Name and AOP are taken
// from the first row that provides them; later rows only extend membership.
func (c *Collection) AddMapping(geneID, keID, keName, aop string) {
	geneID = strings.TrimSpace(geneID)
	keID = strings.TrimSpace(keID)
	if geneID == "" || keID == "" {
		return
	}

	ke, ok := c.events[keID]
	if !ok {
		ke = &KeyEvent{ID: keID, Genes: make(gene.Set)}
		c.events[keID] = ke
	}
	ke.Genes.Add(geneID)
	c.universe.Add(geneID)

	if keName = strings.TrimSpace(keName); keName != "" && ke.Name == "" {
		ke.Name = keName
	}
	if aop = strings.TrimSpace(aop); aop != "" {
		ke.AOPs = append(ke.AOPs, aop)
	}
}

// SetName overrides the display name of a KE, used when a description table
// is merged on top of the raw mapping.
func (c *Collection) SetName(keID, name string) {
	if ke, ok := c.events[strings.TrimSpace(keID)]; ok {
		if name = strings.TrimSpace(name); name != "" {
			ke.Name = name
		}
	}
}

// Get returns the KE with the given ID.
func (c *Collection) Get(keID string) (*KeyEvent, bool) {
	ke, ok := c.events[keID]
	return ke, ok
}

// Len returns the number of Key Events in the collection.
func (c *Collection) Len() int {
	return len(c.events)
}

// Universe returns the background gene set: every gene that appears in the
// mapping. Contingency tables are built against this universe.
func (c *Collection) Universe() gene.Set {
	return c.universe
}

// SortedIDs returns KE IDs in lexicographic order. Enrichment iterates in
// this order so identical inputs always produce identical output.
func (c *Collection) SortedIDs() []string {
	ids := make([]string, 0, len(c.events))
	for id := range c.events {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
