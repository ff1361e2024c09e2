package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ifrs/cursos-estude-api/pkg/api_client/helper/fetch"
	"github.com/ifrs/cursos-estude-api/pkg/api_client/helper/wpquery"
	"github.com/ifrs/cursos-estude-api/pkg/api_client/metrics"
	"github.com/ifrs/cursos-estude-api/pkg/api_client/models"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// RequiredRoutes must all be announced by the discovery document of an endpoint
var RequiredRoutes = []string{
	"/wp/v2/cursos",
	"/wp/v2/unidade",
	"/wp/v2/modalidade",
	"/wp/v2/nivel",
}

// ValidationError carries the report of a failed validation
type ValidationError struct {
	Report *models.ValidationReport
}

func (e *ValidationError) Error() string {
	r := e.Report
	switch r.Reason {
	case models.ReasonMissingRoutes:
		return fmt.Sprintf("%s: rotas ausentes: %s", r.Endpoint, strings.Join(r.MissingRoutes, ", "))
	case models.ReasonStatus:
		return fmt.Sprintf("%s: status %d", r.Endpoint, r.StatusCode)
	default:
		return fmt.Sprintf("%s: %s: %s", r.Endpoint, r.Reason, r.Detail)
	}
}

func (e *ValidationError) Unwrap() error { return ErrValidationFailed }

// EndpointValidator checks a candidate endpoint
type EndpointValidator interface {
	Validate(ctx context.Context, endpoint string) (*models.ValidationReport, error)
}

// ValidatorService performs capability discovery against {endpoint}wp-json
type ValidatorService struct {
	fetcher fetch.Fetcher
	log     logrus.FieldLogger
	metrics *metrics.Metrics
}

func NewValidatorService(fetcher fetch.Fetcher, log logrus.FieldLogger, m *metrics.Metrics) *ValidatorService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ValidatorService{fetcher: fetcher, log: log.WithField("component", "validator"), metrics: m}
}

// Validate returns a report in every case; err is non-nil (wrapping ErrValidationFailed)
// exactly when the report is not valid. endpoint must already be normalized.
func (s *ValidatorService) Validate(ctx context.Context, endpoint string) (*models.ValidationReport, error) {
	report := s.check(ctx, endpoint)
	s.metrics.Validation(string(report.Reason))
	if report.Valid {
		s.log.WithField("endpoint", endpoint).Info("endpoint validated")
		return report, nil
	}
	err := &ValidationError{Report: report}
	s.log.WithField("endpoint", endpoint).WithField("reason", report.Reason).Warn(err.Error())
	return report, err
}

func (s *ValidatorService) check(ctx context.Context, endpoint string) *models.ValidationReport {
	report := &models.ValidationReport{Endpoint: endpoint}

	body, err := s.fetcher.Fetch(ctx, wpquery.DiscoveryURL(endpoint))
	s.metrics.RemoteFetch("discovery", err)
	if err != nil {
		var fe *fetch.FetchError
		if errors.As(err, &fe) && fe.Kind == fetch.KindStatus {
			report.Reason = models.ReasonStatus
			report.StatusCode = fe.StatusCode
		} else {
			report.Reason = models.ReasonNetwork
		}
		report.Detail = err.Error()
		return report
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(body, &doc); err != nil || doc == nil {
		report.Reason = models.ReasonBody
		report.Detail = "corpo da descoberta não é um objeto JSON"
		return report
	}

	rawRoutes := bytes.TrimSpace(doc["routes"])
	var routes map[string]json.RawMessage
	if len(rawRoutes) == 0 || rawRoutes[0] != '{' || json.Unmarshal(rawRoutes, &routes) != nil {
		report.Reason = models.ReasonRoutesType
		report.Detail = "campo routes ausente ou não é um objeto"
		return report
	}

	missing := lo.Without(RequiredRoutes, lo.Keys(routes)...)
	if len(missing) > 0 {
		report.Reason = models.ReasonMissingRoutes
		report.MissingRoutes = missing
		return report
	}

	report.Valid = true
	return report
}
