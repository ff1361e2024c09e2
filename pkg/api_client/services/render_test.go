package services

import (
	"strings"
	"testing"

	"github.com/ifrs/cursos-estude-api/pkg/api_client/models"
	"github.com/stretchr/testify/assert"
)

func TestRenderEmptyListOnlyHasAllCoursesLink(t *testing.T) {
	out := RenderCourses(nil, "https://estude.example.org/")

	assert.Contains(t, out, `<a class="curso curso--todos" href="https://estude.example.org/"`)
	assert.Equal(t, 1, strings.Count(out, "<a "))
	assert.NotContains(t, out, "cursos-erro")
}

func TestRenderCourseCard(t *testing.T) {
	courses := []models.Course{{
		Link:          "https://estude.example.org/cursos/a/",
		Title:         "Técnico em Informática",
		Units:         []string{"Campus Porto Alegre", "Campus Canoas"},
		Modalities:    []string{"Presencial", "EAD"},
		Levels:        []string{"Técnico", "Integrado"},
		DurationLabel: strPtr("4 anos"),
		WorkloadHours: floatPtr(3200),
	}}
	out := RenderCourses(courses, "https://estude.example.org/")

	assert.Contains(t, out, `href="https://estude.example.org/cursos/a/"`)
	assert.Contains(t, out, `<p class="curso__campus">Campus Porto Alegre, Campus Canoas</p>`)
	assert.Contains(t, out, `<h3 class="curso__titulo">Técnico em Informática</h3>`)
	assert.Contains(t, out, `<p class="curso__meta">Técnico / Integrado</p>`)
	assert.Contains(t, out, `<p class="curso__meta">Presencial, EAD - 4 anos (3200h)</p>`)
	assert.Equal(t, 2, strings.Count(out, "<a "))
}

func TestRenderWorkloadOnlyWithDuration(t *testing.T) {
	out := RenderCourses([]models.Course{{Modalities: []string{"EAD"}, WorkloadHours: floatPtr(40)}}, "https://x.org/")
	assert.Contains(t, out, `<p class="curso__meta">EAD</p>`)
	assert.NotContains(t, out, "40h")
}

func TestRenderEscapesText(t *testing.T) {
	courses := []models.Course{{
		Link:  "https://x.org/c/",
		Title: `<script>alert("x")</script>`,
		Units: []string{"A & B"},
	}}
	out := RenderCourses(courses, "https://x.org/")

	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, "A &amp; B")
}

func TestRenderRejectsUnsafeLinks(t *testing.T) {
	courses := []models.Course{
		{Link: "javascript:alert(1)", Title: "js"},
		{Link: "/relative/path", Title: "rel"},
	}
	out := RenderCourses(courses, "https://x.org/")

	assert.NotContains(t, out, "javascript")
	assert.NotContains(t, out, "/relative/path")
	assert.Equal(t, 2, strings.Count(out, `<a class="curso" href=""`))
}

func TestRenderErrorFragments(t *testing.T) {
	assert.Equal(t, `<div class="cursos-erro">Endpoint não configurado.</div>`, RenderError(RenderConfigurationMissing))
	assert.Equal(t, `<div class="cursos-erro">Erro ao buscar dados do endpoint.</div>`, RenderError(RenderFetchFailed))
	assert.Contains(t, RenderError(RenderNormalizationFailed), "cursos-erro")
}
