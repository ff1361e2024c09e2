package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/ifrs/cursos-estude-api/pkg/api_client/models"
	"github.com/ifrs/cursos-estude-api/pkg/api_client/services"
)

var (
	pink  = lipgloss.Color("205")
	cyan  = lipgloss.Color("86")
	green = lipgloss.Color("82")
	red   = lipgloss.Color("196")
	gray  = lipgloss.Color("245")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(pink).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(cyan).
			Width(14)

	okStyle = lipgloss.NewStyle().
			Foreground(green).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(red).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(gray)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(pink).
			Padding(0, 1)
)

var taxonomyTitles = map[models.Taxonomy]string{
	models.TaxonomyUnit:     "Unidades",
	models.TaxonomyModality: "Modalidades",
	models.TaxonomyLevel:    "Níveis",
}

func promptEndpoint(current string) (string, error) {
	endpoint := current
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Endpoint").
				Description("Endereço do site WordPress, ex.: https://estude.example.org/").
				Placeholder("https://").
				Value(&endpoint).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("informe o endpoint")
					}
					return nil
				}),
		),
	)
	if err := form.Run(); err != nil {
		return "", fmt.Errorf("prompt cancelled: %w", err)
	}
	return strings.TrimSpace(endpoint), nil
}

// waitWithSpinner blocks until the workflow settles
func waitWithSpinner(ctx context.Context, wf *services.Workflow, title string) (models.WorkflowSnapshot, error) {
	var (
		snap    models.WorkflowSnapshot
		waitErr error
	)
	err := spinner.New().
		Title(title + "...").
		Action(func() {
			snap, waitErr = wf.Wait(ctx)
		}).
		Run()
	if err != nil {
		return snap, fmt.Errorf("spinner error: %w", err)
	}
	return snap, waitErr
}

func promptFilters(snap models.WorkflowSnapshot) (models.FilterSelection, error) {
	selected := map[models.Taxonomy]*[]string{}
	var fields []huh.Field
	for _, t := range models.Taxonomies {
		ids := append([]string(nil), snap.Filters.IDs(t)...)
		selected[t] = &ids
		fields = append(fields, huh.NewMultiSelect[string]().
			Title(taxonomyTitles[t]).
			Description("Nenhuma seleção mostra todos").
			Options(vocabularyOptions(snap.Vocabularies.Entries(t), ids)...).
			Value(selected[t]))
	}

	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return models.FilterSelection{}, fmt.Errorf("prompt cancelled: %w", err)
	}

	var out models.FilterSelection
	for _, t := range models.Taxonomies {
		out = out.With(t, *selected[t])
	}
	return out, nil
}

func vocabularyOptions(entries []models.VocabularyEntry, selected []string) []huh.Option[string] {
	chosen := make(map[string]bool, len(selected))
	for _, id := range selected {
		chosen[id] = true
	}
	opts := make([]huh.Option[string], 0, len(entries))
	for _, e := range entries {
		opts = append(opts, huh.NewOption(e.Name, string(e.ID)).Selected(chosen[string(e.ID)]))
	}
	return opts
}

// describeSnapshot explains why the last commit did not reach ready
func describeSnapshot(s models.WorkflowSnapshot) string {
	var b strings.Builder
	b.WriteString(errorStyle.Render(s.Message))
	if r := s.Validation; r != nil && !r.Valid {
		b.WriteString("\n")
		switch r.Reason {
		case models.ReasonMissingRoutes:
			b.WriteString(mutedStyle.Render("Rotas ausentes: " + strings.Join(r.MissingRoutes, ", ")))
		case models.ReasonStatus:
			b.WriteString(mutedStyle.Render(fmt.Sprintf("O endpoint respondeu com status %d", r.StatusCode)))
		default:
			b.WriteString(mutedStyle.Render(fmt.Sprintf("%s: %s", r.Reason, r.Detail)))
		}
	}
	return b.String()
}

func describeBlock(block models.Block, vocab *models.Vocabularies) string {
	names := func(t models.Taxonomy) string {
		ids := block.Filters.IDs(t)
		if len(ids) == 0 {
			return mutedStyle.Render("todos")
		}
		byID := map[string]string{}
		for _, e := range vocab.Entries(t) {
			byID[string(e.ID)] = e.Name
		}
		out := make([]string, 0, len(ids))
		for _, id := range ids {
			out = append(out, firstNonEmpty(byID[id], id))
		}
		return strings.Join(out, ", ")
	}

	lines := []string{
		titleStyle.Render("Bloco salvo"),
		labelStyle.Render("Id") + block.ID,
		labelStyle.Render("Endpoint") + block.Endpoint,
	}
	for _, t := range models.Taxonomies {
		lines = append(lines, labelStyle.Render(taxonomyTitles[t])+names(t))
	}
	lines = append(lines, okStyle.Render("✓ configuração concluída"))
	return boxStyle.Render(strings.Join(lines, "\n"))
}
