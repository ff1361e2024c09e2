package services

import "errors"

var (
	// ErrNormalizationFailed is returned when the feed body is not a JSON array
	ErrNormalizationFailed = errors.New("resposta do endpoint não é uma lista de cursos")
	// ErrValidationFailed is returned when an endpoint lacks the required capabilities
	ErrValidationFailed = errors.New("endpoint inválido")
	// ErrVocabularyLoadFailed is returned when one of the filter vocabularies could not be loaded
	ErrVocabularyLoadFailed = errors.New("não foi possível buscar os dados")
	// ErrBlankEndpoint is returned when an operator commits an empty endpoint
	ErrBlankEndpoint = errors.New("endpoint vazio")
	// ErrNotReady is returned for filter and save operations before vocabularies are loaded
	ErrNotReady = errors.New("configuração ainda não está pronta")
	// ErrUnknownFilter is returned for identifiers that are not in the loaded vocabulary
	ErrUnknownFilter = errors.New("identificador de filtro desconhecido")
	// ErrSessionNotFound is returned for unknown or expired configuration sessions
	ErrSessionNotFound = errors.New("sessão de configuração não encontrada")
)
