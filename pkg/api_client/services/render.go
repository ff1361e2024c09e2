package services

import (
	"bytes"
	"html/template"
	"net/url"
	"strconv"
	"strings"

	"github.com/ifrs/cursos-estude-api/pkg/api_client/models"
)

// RenderErrorKind selects the inline error fragment
type RenderErrorKind string

const (
	RenderConfigurationMissing RenderErrorKind = "configuration-missing"
	RenderFetchFailed          RenderErrorKind = "fetch-failed"
	RenderNormalizationFailed  RenderErrorKind = "normalization-failed"
)

var renderErrorMessages = map[RenderErrorKind]string{
	RenderConfigurationMissing: "Endpoint não configurado.",
	RenderFetchFailed:          "Erro ao buscar dados do endpoint.",
	RenderNormalizationFailed:  "Resposta inválida do endpoint.",
}

const coursesTemplate = `<div class="cursos">
{{- range .Courses}}
  <a class="curso" href="{{.Link}}" target="_blank" rel="noopener noreferrer">
    <p class="curso__campus">{{.Campus}}</p>
    <h3 class="curso__titulo">{{.Title}}</h3>
    <p class="curso__meta">{{.Levels}}</p>
    <p class="curso__meta">{{.Modalities}}{{if .Duration}} - {{.Duration}}{{if .Workload}} ({{.Workload}}){{end}}{{end}}</p>
  </a>
{{- end}}
  <a class="curso curso--todos" href="{{.AllLink}}" target="_blank" rel="noopener noreferrer">
    <h3 class="curso__titulo">Conheça todos os Cursos</h3>
  </a>
</div>`

const errorTemplate = `<div class="cursos-erro">{{.}}</div>`

var (
	coursesTmpl = template.Must(template.New("cursos").Parse(coursesTemplate))
	errorTmpl   = template.Must(template.New("erro").Parse(errorTemplate))
)

type courseView struct {
	Link       string
	Campus     string
	Title      string
	Levels     string
	Modalities string
	Duration   string
	Workload   string
}

// RenderCourses builds the display fragment. Text is escaped by html/template and every
// link that is not an absolute http(s) URL is emitted empty.
func RenderCourses(courses []models.Course, endpoint string) string {
	views := make([]courseView, 0, len(courses))
	for _, c := range courses {
		v := courseView{
			Link:       safeLink(c.Link),
			Campus:     strings.Join(c.Units, ", "),
			Title:      c.Title,
			Levels:     strings.Join(c.Levels, " / "),
			Modalities: strings.Join(c.Modalities, ", "),
		}
		if c.DurationLabel != nil {
			v.Duration = *c.DurationLabel
		}
		if c.WorkloadHours != nil && *c.WorkloadHours > 0 {
			v.Workload = strconv.FormatFloat(*c.WorkloadHours, 'f', -1, 64) + "h"
		}
		views = append(views, v)
	}

	var buf bytes.Buffer
	err := coursesTmpl.Execute(&buf, struct {
		Courses []courseView
		AllLink string
	}{Courses: views, AllLink: safeLink(endpoint)})
	if err != nil {
		return RenderError(RenderNormalizationFailed)
	}
	return buf.String()
}

// RenderError returns the inline error fragment for kind
func RenderError(kind RenderErrorKind) string {
	msg, ok := renderErrorMessages[kind]
	if !ok {
		msg = renderErrorMessages[RenderFetchFailed]
	}
	var buf bytes.Buffer
	_ = errorTmpl.Execute(&buf, msg)
	return buf.String()
}

func safeLink(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ""
	}
	return u.String()
}
