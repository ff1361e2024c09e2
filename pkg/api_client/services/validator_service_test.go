package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ifrs/cursos-estude-api/pkg/api_client/helper/fetch"
	"github.com/ifrs/cursos-estude-api/pkg/api_client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEndpoint = "https://estude.example.org/"

func TestValidateOK(t *testing.T) {
	svc := NewValidatorService(newStubFetcher().on(testEndpoint+"wp-json", discoveryOK), quietLogger(), nil)

	report, err := svc.Validate(context.Background(), testEndpoint)
	require.NoError(t, err)
	assert.True(t, report.Valid)
	assert.Equal(t, models.ReasonNone, report.Reason)
}

func TestValidateMissingNivelRoute(t *testing.T) {
	body := `{"routes":{"/wp/v2/cursos":{},"/wp/v2/unidade":{},"/wp/v2/modalidade":{}}}`
	svc := NewValidatorService(newStubFetcher().on(testEndpoint+"wp-json", body), quietLogger(), nil)

	report, err := svc.Validate(context.Background(), testEndpoint)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.False(t, report.Valid)
	assert.Equal(t, models.ReasonMissingRoutes, report.Reason)
	assert.Equal(t, []string{"/wp/v2/nivel"}, report.MissingRoutes)
}

func TestValidateFailureReasons(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		err    error
		reason models.ValidationReason
	}{
		{name: "network", err: &fetch.FetchError{Kind: fetch.KindNetwork, Err: errors.New("dial tcp: refused")}, reason: models.ReasonNetwork},
		{name: "status", err: &fetch.FetchError{Kind: fetch.KindStatus, StatusCode: 404}, reason: models.ReasonStatus},
		{name: "html body", body: `<!DOCTYPE html><html></html>`, reason: models.ReasonBody},
		{name: "array body", body: `[]`, reason: models.ReasonBody},
		{name: "routes array", body: `{"routes":[]}`, reason: models.ReasonRoutesType},
		{name: "routes null", body: `{"routes":null}`, reason: models.ReasonRoutesType},
		{name: "routes missing", body: `{"name":"x"}`, reason: models.ReasonRoutesType},
		{name: "empty routes", body: `{"routes":{}}`, reason: models.ReasonMissingRoutes},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newStubFetcher()
			if tc.err != nil {
				f.fail(testEndpoint+"wp-json", tc.err)
			} else {
				f.on(testEndpoint+"wp-json", tc.body)
			}
			report, err := NewValidatorService(f, quietLogger(), nil).Validate(context.Background(), testEndpoint)
			assert.ErrorIs(t, err, ErrValidationFailed)
			assert.False(t, report.Valid)
			assert.Equal(t, tc.reason, report.Reason)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Same(t, report, verr.Report)
		})
	}
}

func TestValidateStatusCodeReported(t *testing.T) {
	f := newStubFetcher().fail(testEndpoint+"wp-json", &fetch.FetchError{Kind: fetch.KindStatus, StatusCode: 503})
	report, _ := NewValidatorService(f, quietLogger(), nil).Validate(context.Background(), testEndpoint)
	assert.Equal(t, 503, report.StatusCode)
}
