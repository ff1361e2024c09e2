package services

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/ifrs/cursos-estude-api/pkg/api_client/helper/fetch"
	"github.com/ifrs/cursos-estude-api/pkg/api_client/helper/wpquery"
	"github.com/ifrs/cursos-estude-api/pkg/api_client/metrics"
	"github.com/ifrs/cursos-estude-api/pkg/api_client/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// VocabularyLoader fetches the three filter vocabularies of a validated endpoint
type VocabularyLoader interface {
	Load(ctx context.Context, endpoint string) (*models.Vocabularies, error)
}

// VocabularyService loads unidade, modalidade and nivel concurrently
type VocabularyService struct {
	fetcher fetch.Fetcher
	log     logrus.FieldLogger
	metrics *metrics.Metrics
}

func NewVocabularyService(fetcher fetch.Fetcher, log logrus.FieldLogger, m *metrics.Metrics) *VocabularyService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &VocabularyService{fetcher: fetcher, log: log.WithField("component", "vocabulary"), metrics: m}
}

// Load returns all three vocabularies or an error wrapping ErrVocabularyLoadFailed.
// Nothing is returned when any single request fails.
func (s *VocabularyService) Load(ctx context.Context, endpoint string) (*models.Vocabularies, error) {
	results := make([][]models.VocabularyEntry, len(models.Taxonomies))

	g, gctx := errgroup.WithContext(ctx)
	for i, t := range models.Taxonomies {
		g.Go(func() error {
			entries, err := s.loadOne(gctx, endpoint, t)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrVocabularyLoadFailed, t, err)
			}
			results[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.log.WithField("endpoint", endpoint).WithError(err).Warn("vocabulary load failed")
		return nil, err
	}

	v := &models.Vocabularies{Units: results[0], Modalities: results[1], Levels: results[2]}
	s.log.WithFields(logrus.Fields{
		"endpoint":    endpoint,
		"unidades":    len(v.Units),
		"modalidades": len(v.Modalities),
		"niveis":      len(v.Levels),
	}).Info("vocabularies loaded")
	return v, nil
}

func (s *VocabularyService) loadOne(ctx context.Context, endpoint string, t models.Taxonomy) ([]models.VocabularyEntry, error) {
	body, err := s.fetcher.Fetch(ctx, wpquery.VocabularyURL(endpoint, t))
	s.metrics.RemoteFetch(string(t), err)
	if err != nil {
		return nil, err
	}

	var entries []models.VocabularyEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", t, err)
	}
	out := make([]models.VocabularyEntry, 0, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(string(e.ID)) == "" {
			continue
		}
		e.Name = html.UnescapeString(e.Name)
		out = append(out, e)
	}
	return out, nil
}
