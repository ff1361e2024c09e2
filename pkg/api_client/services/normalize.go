package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/ifrs/cursos-estude-api/pkg/api_client/models"
)

// feedTerm is one entry of _embedded["wp:term"], tagged by its taxonomy
type feedTerm struct {
	Taxonomy string `json:"taxonomy"`
	Name     string `json:"name"`
}

// NormalizeCourses turns the body of the cursos feed into Course records.
// Only a body that is not a JSON array fails; broken items become empty courses.
func NormalizeCourses(body []byte) ([]models.Course, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: top-level value is not an array", ErrNormalizationFailed)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNormalizationFailed, err)
	}

	out := make([]models.Course, 0, len(items))
	for _, raw := range items {
		out = append(out, normalizeItem(raw))
	}
	return out, nil
}

func normalizeItem(raw json.RawMessage) models.Course {
	c := models.Course{Units: []string{}, Modalities: []string{}, Levels: []string{}}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return c
	}

	c.Link = decodeString(fields["link"])

	var title struct {
		Rendered json.RawMessage `json:"rendered"`
	}
	if json.Unmarshal(fields["title"], &title) == nil {
		c.Title = html.UnescapeString(decodeString(title.Rendered))
	}

	for _, term := range embeddedTerms(fields["_embedded"]) {
		switch models.Taxonomy(term.Taxonomy) {
		case models.TaxonomyUnit:
			c.Units = append(c.Units, term.Name)
		case models.TaxonomyModality:
			c.Modalities = append(c.Modalities, term.Name)
		case models.TaxonomyLevel:
			c.Levels = append(c.Levels, term.Name)
		}
	}

	var meta map[string]json.RawMessage
	if json.Unmarshal(fields["meta_box"], &meta) == nil {
		c.DurationLabel = decodeLabel(meta["_curso_duracao"])
		c.WorkloadHours = decodeHours(meta["_curso_carga_horaria"])
	}
	return c
}

// embeddedTerms flattens the array of term arrays, skipping anything that does not decode
func embeddedTerms(raw json.RawMessage) []feedTerm {
	var embedded map[string]json.RawMessage
	if json.Unmarshal(raw, &embedded) != nil {
		return nil
	}
	var groups []json.RawMessage
	if json.Unmarshal(embedded["wp:term"], &groups) != nil {
		return nil
	}

	var terms []feedTerm
	for _, g := range groups {
		var group []json.RawMessage
		if json.Unmarshal(g, &group) != nil {
			continue
		}
		for _, t := range group {
			var term feedTerm
			if json.Unmarshal(t, &term) != nil || term.Taxonomy == "" {
				continue
			}
			term.Name = html.UnescapeString(term.Name)
			terms = append(terms, term)
		}
	}
	return terms
}

func decodeString(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

// decodeLabel accepts a string or a number; empty values count as absent
func decodeLabel(raw json.RawMessage) *string {
	if len(raw) == 0 {
		return nil
	}
	s := strings.TrimSpace(decodeString(raw))
	if s == "" {
		var n json.Number
		if json.Unmarshal(raw, &n) == nil {
			s = n.String()
		}
	}
	if s == "" {
		return nil
	}
	return &s
}

// decodeHours accepts a number or a numeric string such as "1200" or "80,5"
func decodeHours(raw json.RawMessage) *float64 {
	if len(raw) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return nil
	}
	var f float64
	if json.Unmarshal(raw, &f) == nil {
		return &f
	}
	s := strings.TrimSpace(decodeString(raw))
	s = strings.TrimSuffix(strings.ToLower(s), "h")
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
