package services

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ifrs/cursos-estude-api/pkg/api_client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestNormalizeGroupsTermsByTaxonomy(t *testing.T) {
	body := `[{"link":"https://x.org/c/","title":{"rendered":"Curso"},
		"_embedded":{"wp:term":[[{"taxonomy":"modalidade","name":"EAD"},{"taxonomy":"unidade","name":"Campus X"}]]}}]`

	got, err := NormalizeCourses([]byte(body))
	require.NoError(t, err)
	require.Len(t, got, 1)

	want := models.Course{
		Link:       "https://x.org/c/",
		Title:      "Curso",
		Units:      []string{"Campus X"},
		Modalities: []string{"EAD"},
		Levels:     []string{},
	}
	if diff := cmp.Diff(want, got[0]); diff != "" {
		t.Errorf("course mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeFullFeed(t *testing.T) {
	got, err := NormalizeCourses([]byte(feedTwoCourses))
	require.NoError(t, err)

	want := []models.Course{
		{
			Link:          "https://estude.example.org/cursos/tecnico-em-informatica/",
			Title:         "Técnico em Informática",
			Units:         []string{"Campus Porto Alegre"},
			Modalities:    []string{"Presencial"},
			Levels:        []string{"Técnico", "Integrado"},
			DurationLabel: strPtr("4 anos"),
			WorkloadHours: floatPtr(3200),
		},
		{
			Link:       "https://estude.example.org/cursos/letras/",
			Title:      "Letras",
			Units:      []string{},
			Modalities: []string{"EAD"},
			Levels:     []string{},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("courses mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeKeepsDuplicatesInSourceOrder(t *testing.T) {
	body := `[{"_embedded":{"wp:term":[
		[{"taxonomy":"unidade","name":"B"}],
		[{"taxonomy":"unidade","name":"A"},{"taxonomy":"unidade","name":"B"}]
	]}}]`
	got, err := NormalizeCourses([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A", "B"}, got[0].Units)
}

func TestNormalizeMissingFieldsAreEmpty(t *testing.T) {
	got, err := NormalizeCourses([]byte(`[{}]`))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Empty(t, got[0].Link)
	assert.Empty(t, got[0].Title)
	assert.Nil(t, got[0].DurationLabel)
	assert.Nil(t, got[0].WorkloadHours)
}

func TestNormalizeMalformedItemDegrades(t *testing.T) {
	body := `[
		"not an object",
		{"link": 42, "title": "plain", "_embedded": {"wp:term": [{"taxonomy":"unidade"}, [7, {"taxonomy":"nivel","name":"Superior"}]]}, "meta_box": []},
		{"link":"https://x.org/ok/","title":{"rendered":"Ok"}}
	]`
	got, err := NormalizeCourses([]byte(body))
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, models.Course{Units: []string{}, Modalities: []string{}, Levels: []string{}}, got[0])
	assert.Empty(t, got[1].Link)
	assert.Empty(t, got[1].Title)
	assert.Equal(t, []string{"Superior"}, got[1].Levels)
	assert.Equal(t, "Ok", got[2].Title)
}

func TestNormalizeTopLevelFailures(t *testing.T) {
	for _, body := range []string{``, `{"code":"rest_no_route"}`, `[{"link":`, `<html></html>`, `null`} {
		_, err := NormalizeCourses([]byte(body))
		assert.ErrorIs(t, err, ErrNormalizationFailed, body)
	}
}

func TestNormalizeWorkloadVariants(t *testing.T) {
	cases := map[string]*float64{
		`1200`:     floatPtr(1200),
		`"80,5"`:   floatPtr(80.5),
		`"40h"`:    floatPtr(40),
		`""`:       nil,
		`"muitas"`: nil,
		`null`:     nil,
	}
	for raw, want := range cases {
		body := `[{"meta_box":{"_curso_carga_horaria":` + raw + `}}]`
		got, err := NormalizeCourses([]byte(body))
		require.NoError(t, err)
		assert.Equal(t, want, got[0].WorkloadHours, raw)
	}
}

func TestNormalizeDurationNumber(t *testing.T) {
	got, err := NormalizeCourses([]byte(`[{"meta_box":{"_curso_duracao":4}}]`))
	require.NoError(t, err)
	require.NotNil(t, got[0].DurationLabel)
	assert.Equal(t, "4", *got[0].DurationLabel)
}
