package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// VocabularyEntry is one selectable option of a filter vocabulary
type VocabularyEntry struct {
	ID   TermID `json:"id"`
	Name string `json:"name"`
}

// TermID is a WordPress term id. The REST API sends numbers, some proxies send strings.
type TermID string

func (id *TermID) UnmarshalJSON(p []byte) error {
	p = bytes.TrimSpace(p)
	if len(p) > 0 && p[0] == '"' {
		var s string
		if err := json.Unmarshal(p, &s); err != nil {
			return err
		}
		*id = TermID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(p, &n); err != nil {
		return fmt.Errorf("term id: %w", err)
	}
	*id = TermID(n.String())
	return nil
}

// Vocabularies bundles the three reference vocabularies of an endpoint
type Vocabularies struct {
	Units      []VocabularyEntry `json:"unidades"`
	Modalities []VocabularyEntry `json:"modalidades"`
	Levels     []VocabularyEntry `json:"niveis"`
}

// Entries returns the vocabulary for the given taxonomy
func (v *Vocabularies) Entries(t Taxonomy) []VocabularyEntry {
	if v == nil {
		return nil
	}
	switch t {
	case TaxonomyUnit:
		return v.Units
	case TaxonomyModality:
		return v.Modalities
	case TaxonomyLevel:
		return v.Levels
	}
	return nil
}
