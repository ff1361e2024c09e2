package wpquery

import (
	"testing"

	"github.com/ifrs/cursos-estude-api/pkg/api_client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEndpoint(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr error
	}{
		{"https://example.org", "https://example.org/", nil},
		{"  https://example.org/ ", "https://example.org/", nil},
		{"https://example.org/cursos///", "https://example.org/cursos/", nil},
		{"", "", ErrEndpointMissing},
		{"   ", "", ErrEndpointMissing},
		{"javascript:alert(1)", "", ErrEndpointInvalid},
		{"example.org", "", ErrEndpointInvalid},
	}
	for _, tc := range cases {
		got, err := NormalizeEndpoint(tc.in)
		if tc.wantErr != nil {
			assert.ErrorIs(t, err, tc.wantErr, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestCoursesURLSingleFilter(t *testing.T) {
	got := CoursesURL("https://example.org/", models.FilterSelection{Modalities: []string{"ead"}})
	assert.Equal(t, "https://example.org/wp-json/wp/v2/cursos?_embed&per_page=5&orderby=rand&modalidade=ead", got)
}

func TestCoursesURLNoFilters(t *testing.T) {
	got := CoursesURL("https://example.org/", models.FilterSelection{Units: []string{}, Levels: nil})
	assert.Equal(t, "https://example.org/wp-json/wp/v2/cursos?_embed&per_page=5&orderby=rand", got)
}

func TestCoursesURLAllFiltersInTaxonomyOrder(t *testing.T) {
	got := CoursesURL("https://example.org/", models.FilterSelection{
		Levels:     []string{"7"},
		Units:      []string{"12", "3"},
		Modalities: []string{"ead"},
	})
	assert.Equal(t, "https://example.org/wp-json/wp/v2/cursos?_embed&per_page=5&orderby=rand&unidade=12,3&modalidade=ead&nivel=7", got)
}

func TestCoursesURLDropsUnsafeIdentifiers(t *testing.T) {
	got := CoursesURL("https://example.org/", models.FilterSelection{
		Units:  []string{"<b></b>", "  4 ", "%0a"},
		Levels: []string{"\t\n"},
	})
	assert.Equal(t, "https://example.org/wp-json/wp/v2/cursos?_embed&per_page=5&orderby=rand&unidade=4", got)
	assert.NotContains(t, got, "nivel=")
}

func TestCoursesURLEscapesIdentifiers(t *testing.T) {
	got := CoursesURL("https://example.org/", models.FilterSelection{Units: []string{"a&b=c"}})
	assert.Contains(t, got, "&unidade=a%26b%3Dc")
}

func TestSanitizeIdentifier(t *testing.T) {
	cases := map[string]string{
		"ead":                        "ead",
		"  campus   porto\nalegre ":  "campus porto alegre",
		"<script>x</script>12":       "12",
		"<em>presencial</em>":        "presencial",
		"a%20b":                      "ab",
		"tecnico > superior":         "tecnico superior",
	}
	for in, want := range cases {
		got, ok := SanitizeIdentifier(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "   ", "<br/>", "%41%42", string([]byte{0xff, 0xfe})} {
		_, ok := SanitizeIdentifier(in)
		assert.False(t, ok, "%q", in)
	}
}

func TestCacheKeyIgnoresOrderAndDuplicates(t *testing.T) {
	a := CacheKey("https://example.org/", models.FilterSelection{
		Units:      []string{"1", "2", "3"},
		Modalities: []string{"ead", "presencial"},
	})
	b := CacheKey("https://example.org/", models.FilterSelection{
		Units:      []string{"3", "1", "2", "1"},
		Modalities: []string{"presencial", "ead"},
	})
	assert.Equal(t, a, b)
}

func TestCacheKeyDistinguishesInputs(t *testing.T) {
	base := CacheKey("https://example.org/", models.FilterSelection{Units: []string{"1"}})

	assert.NotEqual(t, base, CacheKey("https://other.org/", models.FilterSelection{Units: []string{"1"}}))
	assert.NotEqual(t, base, CacheKey("https://example.org/", models.FilterSelection{Levels: []string{"1"}}))
	assert.NotEqual(t, base, CacheKey("https://example.org/", models.FilterSelection{Units: []string{"1", "2"}}))
	assert.NotEqual(t,
		CacheKey("https://example.org/", models.FilterSelection{Units: []string{"ab"}}),
		CacheKey("https://example.org/", models.FilterSelection{Units: []string{"a", "b"}}),
	)
}

func TestVocabularyAndDiscoveryURL(t *testing.T) {
	assert.Equal(t, "https://example.org/wp-json", DiscoveryURL("https://example.org/"))
	assert.Equal(t,
		"https://example.org/wp-json/wp/v2/nivel?per_page=100&_fields=id,name",
		VocabularyURL("https://example.org/", models.TaxonomyLevel),
	)
}
