package services

import (
	"context"
	"errors"
	"time"

	"github.com/ifrs/cursos-estude-api/pkg/api_client/cache"
	"github.com/ifrs/cursos-estude-api/pkg/api_client/helper/fetch"
	"github.com/ifrs/cursos-estude-api/pkg/api_client/helper/wpquery"
	"github.com/ifrs/cursos-estude-api/pkg/api_client/metrics"
	"github.com/ifrs/cursos-estude-api/pkg/api_client/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// CursosService is the server-side render path: build URL, fetch, normalize, cache, render
type CursosService struct {
	fetcher fetch.Fetcher
	cache   *cache.TTLCache[[]models.Course]
	ttl     time.Duration
	group   singleflight.Group
	log     logrus.FieldLogger
	metrics *metrics.Metrics
}

// NewCursosService wires the render path. ttl is the lifetime of a cached course list.
func NewCursosService(fetcher fetch.Fetcher, c *cache.TTLCache[[]models.Course], ttl time.Duration, log logrus.FieldLogger, m *metrics.Metrics) *CursosService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CursosService{
		fetcher: fetcher,
		cache:   c,
		ttl:     ttl,
		log:     log.WithField("component", "cursos"),
		metrics: m,
	}
}

// Render returns the fragment for endpoint and filters. It never fails: every error
// becomes an inline error fragment.
func (s *CursosService) Render(ctx context.Context, endpoint string, filters models.FilterSelection) string {
	courses, ep, err := s.courses(ctx, endpoint, filters)
	if err != nil {
		kind := renderErrorKind(err)
		s.metrics.Render(string(kind))
		if kind != RenderConfigurationMissing {
			s.log.WithError(err).WithField("endpoint", ep).Warn("render fallback to error fragment")
		}
		return RenderError(kind)
	}
	s.metrics.Render("ok")
	return RenderCourses(courses, ep)
}

// Courses returns the normalized, cache-backed course list
func (s *CursosService) Courses(ctx context.Context, endpoint string, filters models.FilterSelection) ([]models.Course, error) {
	courses, _, err := s.courses(ctx, endpoint, filters)
	return courses, err
}

func (s *CursosService) courses(ctx context.Context, endpoint string, filters models.FilterSelection) ([]models.Course, string, error) {
	ep, err := wpquery.NormalizeEndpoint(endpoint)
	if err != nil {
		return nil, "", err
	}

	key := wpquery.CacheKey(ep, filters)
	if courses, ok := s.cache.Get(key); ok {
		s.metrics.CacheLookup(true)
		return courses, ep, nil
	}
	s.metrics.CacheLookup(false)

	// the shared load must not fail the joined callers when the leading one goes away
	loadCtx := context.WithoutCancel(ctx)
	v, err, shared := s.group.Do(key, func() (any, error) {
		// another caller may have stored the key while we waited for the group
		if courses, ok := s.cache.Get(key); ok {
			return courses, nil
		}
		return s.load(loadCtx, ep, filters, key)
	})
	if err != nil {
		return nil, ep, err
	}
	if shared {
		s.log.WithField("endpoint", ep).Debug("joined in-flight course fetch")
	}
	return v.([]models.Course), ep, nil
}

func (s *CursosService) load(ctx context.Context, ep string, filters models.FilterSelection, key string) ([]models.Course, error) {
	url := wpquery.CoursesURL(ep, filters)
	body, err := s.fetcher.Fetch(ctx, url)
	s.metrics.RemoteFetch("cursos", err)
	if err != nil {
		return nil, err
	}

	courses, err := NormalizeCourses(body)
	if err != nil {
		return nil, err
	}
	s.cache.Put(key, courses, s.ttl)
	s.log.WithFields(logrus.Fields{"endpoint": ep, "courses": len(courses), "ttl": s.ttl}).Debug("cached course list")
	return courses, nil
}

func renderErrorKind(err error) RenderErrorKind {
	switch {
	case errors.Is(err, wpquery.ErrEndpointMissing), errors.Is(err, wpquery.ErrEndpointInvalid):
		return RenderConfigurationMissing
	case errors.Is(err, ErrNormalizationFailed):
		return RenderNormalizationFailed
	default:
		return RenderFetchFailed
	}
}
