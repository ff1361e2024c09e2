package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ifrs/cursos-estude-api/pkg/api_client/cache"
	"github.com/ifrs/cursos-estude-api/pkg/api_client/metrics"
	"github.com/ifrs/cursos-estude-api/pkg/api_client/models"
	"github.com/sirupsen/logrus"
)

// WorkflowManager keeps configuration sessions alive while they are used
type WorkflowManager struct {
	sessions  *cache.TTLCache[*Workflow]
	idle      time.Duration
	validator EndpointValidator
	loader    VocabularyLoader
	log       logrus.FieldLogger
	metrics   *metrics.Metrics
	// mu orders lookups that extend a session against the purge
	mu sync.Mutex
}

// NewWorkflowManager expires a session after idle of inactivity. A nil clock means real time.
func NewWorkflowManager(validator EndpointValidator, loader VocabularyLoader, idle time.Duration, clock cache.Clock, log logrus.FieldLogger, m *metrics.Metrics) *WorkflowManager {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &WorkflowManager{
		sessions:  cache.New[*Workflow](clock),
		idle:      idle,
		validator: validator,
		loader:    loader,
		log:       log,
		metrics:   m,
	}
}

// Create opens a session. With a saved block the session is restored and activated,
// which loads the vocabularies of its endpoint without validating it again.
func (m *WorkflowManager) Create(block *models.Block) *Workflow {
	wf := NewWorkflow(uuid.New().String(), m.validator, m.loader, m.log, m.metrics)
	if block != nil {
		wf.Restore(*block)
	}
	m.mu.Lock()
	m.sessions.Put(wf.ID(), wf, m.idle)
	m.mu.Unlock()
	wf.Activate()
	return wf
}

// Get returns a live session and extends its lifetime
func (m *WorkflowManager) Get(id string) (*Workflow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wf, ok := m.sessions.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	m.sessions.Put(id, wf, m.idle)
	return wf, nil
}

// Delete closes and forgets a session
func (m *WorkflowManager) Delete(id string) {
	m.mu.Lock()
	wf, ok := m.sessions.Take(id)
	m.mu.Unlock()
	if ok {
		wf.Close()
	}
}

// DeleteExpired closes sessions that were idle for too long and returns how many
func (m *WorkflowManager) DeleteExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := m.sessions.DeleteExpiredFunc(func(_ string, wf *Workflow) {
		wf.Close()
	})
	if n > 0 {
		m.log.WithField("sessions", n).Debug("expired idle configuration sessions")
	}
	return n
}

// Len counts open sessions, including idle ones not yet purged
func (m *WorkflowManager) Len() int {
	return m.sessions.Len()
}
