package services

import (
	"context"
	"testing"

	"github.com/ifrs/cursos-estude-api/pkg/api_client/helper/fetch"
	"github.com/ifrs/cursos-estude-api/pkg/api_client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vocabularyFetcher() *stubFetcher {
	return newStubFetcher().
		on(testEndpoint+"wp-json/wp/v2/unidade?per_page=100&_fields=id,name", `[{"id":12,"name":"Campus Porto Alegre"},{"id":13,"name":"Campus Canoas"}]`).
		on(testEndpoint+"wp-json/wp/v2/modalidade?per_page=100&_fields=id,name", `[{"id":"3","name":"EAD"}]`).
		on(testEndpoint+"wp-json/wp/v2/nivel?per_page=100&_fields=id,name", `[{"id":7,"name":"T&eacute;cnico"}]`)
}

func TestVocabularyLoad(t *testing.T) {
	f := vocabularyFetcher()
	v, err := NewVocabularyService(f, quietLogger(), nil).Load(context.Background(), testEndpoint)
	require.NoError(t, err)

	assert.Equal(t, []models.VocabularyEntry{{ID: "12", Name: "Campus Porto Alegre"}, {ID: "13", Name: "Campus Canoas"}}, v.Units)
	assert.Equal(t, []models.VocabularyEntry{{ID: "3", Name: "EAD"}}, v.Modalities)
	assert.Equal(t, []models.VocabularyEntry{{ID: "7", Name: "Técnico"}}, v.Levels)
	assert.Equal(t, 3, f.count())
}

func TestVocabularyAnyFailureFailsAll(t *testing.T) {
	f := vocabularyFetcher().fail(testEndpoint+"wp-json/wp/v2/modalidade", &fetch.FetchError{Kind: fetch.KindStatus, StatusCode: 500})
	v, err := NewVocabularyService(f, quietLogger(), nil).Load(context.Background(), testEndpoint)

	assert.Nil(t, v)
	assert.ErrorIs(t, err, ErrVocabularyLoadFailed)
	assert.Contains(t, err.Error(), "modalidade")
}

func TestVocabularyUnparseable(t *testing.T) {
	f := vocabularyFetcher()
	f.responses[testEndpoint+"wp-json/wp/v2/nivel?per_page=100&_fields=id,name"] = `{"code":"rest_no_route"}`

	_, err := NewVocabularyService(f, quietLogger(), nil).Load(context.Background(), testEndpoint)
	assert.ErrorIs(t, err, ErrVocabularyLoadFailed)
}
