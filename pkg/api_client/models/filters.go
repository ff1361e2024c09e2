package models

import (
	"fmt"
	"strings"
)

// Taxonomy identifies one of the three filter vocabularies of the remote site.
// The value is also the query parameter and the term "taxonomy" tag.
type Taxonomy string

const (
	TaxonomyUnit     Taxonomy = "unidade"
	TaxonomyModality Taxonomy = "modalidade"
	TaxonomyLevel    Taxonomy = "nivel"
)

// Taxonomies in the order they are emitted in URLs and shown to operators
var Taxonomies = []Taxonomy{TaxonomyUnit, TaxonomyModality, TaxonomyLevel}

// ParseTaxonomy accepts the taxonomy tag or its plural attribute name
func ParseTaxonomy(s string) (Taxonomy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "unidade", "unidades":
		return TaxonomyUnit, nil
	case "modalidade", "modalidades":
		return TaxonomyModality, nil
	case "nivel", "niveis":
		return TaxonomyLevel, nil
	}
	return "", fmt.Errorf("taxonomia desconhecida %q", s)
}

// FilterSelection holds the selected identifiers per taxonomy. An empty set means unfiltered.
type FilterSelection struct {
	Units      []string `json:"unidades,omitempty"`
	Modalities []string `json:"modalidades,omitempty"`
	Levels     []string `json:"niveis,omitempty"`
}

// IDs returns the set for the given taxonomy
func (f FilterSelection) IDs(t Taxonomy) []string {
	switch t {
	case TaxonomyUnit:
		return f.Units
	case TaxonomyModality:
		return f.Modalities
	case TaxonomyLevel:
		return f.Levels
	}
	return nil
}

// With returns a copy with the set for t replaced by ids
func (f FilterSelection) With(t Taxonomy, ids []string) FilterSelection {
	cp := append([]string(nil), ids...)
	switch t {
	case TaxonomyUnit:
		f.Units = cp
	case TaxonomyModality:
		f.Modalities = cp
	case TaxonomyLevel:
		f.Levels = cp
	}
	return f
}
