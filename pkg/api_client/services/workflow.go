package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ifrs/cursos-estude-api/pkg/api_client/metrics"
	"github.com/ifrs/cursos-estude-api/pkg/api_client/models"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// WorkflowEvent drives the configuration state machine
type WorkflowEvent string

const (
	EventCommit           WorkflowEvent = "commit"
	EventActivate         WorkflowEvent = "activate"
	EventValidationOK     WorkflowEvent = "validation-ok"
	EventValidationFailed WorkflowEvent = "validation-failed"
	EventLoadVocabulary   WorkflowEvent = "load-vocabulary"
	EventVocabularyOK     WorkflowEvent = "vocabulary-ok"
	EventVocabularyFailed WorkflowEvent = "vocabulary-failed"
)

const (
	msgInvalidEndpoint   = "Endpoint inválido. Verifique a URL e tente novamente."
	msgVocabularyCommit  = "Não foi possível buscar os dados."
	msgVocabularyRestore = "Não foi possível recuperar dados da API. Verifique o endpoint."
)

// NextState is the transition table. ok is false when the event is not accepted in state.
func NextState(state models.WorkflowState, ev WorkflowEvent) (models.WorkflowState, bool) {
	switch ev {
	case EventCommit:
		return models.StateValidating, true
	case EventActivate:
		if state == models.StateIdle {
			return models.StateLoadingVocabulary, true
		}
	case EventValidationOK:
		if state == models.StateValidating {
			return models.StateValid, true
		}
	case EventValidationFailed:
		if state == models.StateValidating {
			return models.StateInvalid, true
		}
	case EventLoadVocabulary:
		if state == models.StateValid {
			return models.StateLoadingVocabulary, true
		}
	case EventVocabularyOK:
		if state == models.StateLoadingVocabulary {
			return models.StateReady, true
		}
	case EventVocabularyFailed:
		if state == models.StateLoadingVocabulary {
			return models.StateInvalid, true
		}
	}
	return state, false
}

// Workflow is one endpoint configuration session. Commits run validation and vocabulary
// loading in the background; a newer commit cancels and supersedes the running one.
type Workflow struct {
	id        string
	validator EndpointValidator
	loader    VocabularyLoader
	log       logrus.FieldLogger
	metrics   *metrics.Metrics

	base context.Context
	stop context.CancelFunc

	mu        sync.Mutex
	state     models.WorkflowState
	committed string
	candidate string
	message   string
	report    *models.ValidationReport
	vocab     *models.Vocabularies
	filters   models.FilterSelection
	gen       uint64
	cancel    context.CancelFunc
	settled   chan struct{}
}

// NewWorkflow creates an idle session
func NewWorkflow(id string, validator EndpointValidator, loader VocabularyLoader, log logrus.FieldLogger, m *metrics.Metrics) *Workflow {
	if log == nil {
		log = logrus.StandardLogger()
	}
	base, stop := context.WithCancel(context.Background())
	settled := make(chan struct{})
	close(settled)
	return &Workflow{
		id:        id,
		validator: validator,
		loader:    loader,
		log:       log.WithFields(logrus.Fields{"component": "workflow", "session": id}),
		metrics:   m,
		base:      base,
		stop:      stop,
		state:     models.StateIdle,
		settled:   settled,
	}
}

// ID returns the session id
func (w *Workflow) ID() string { return w.id }

// Restore seeds the session with the attributes of a previously saved block.
// It only has effect while the session is idle.
func (w *Workflow) Restore(block models.Block) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != models.StateIdle {
		return
	}
	w.committed = block.Endpoint
	w.filters = block.Filters
}

// Activate starts loading vocabularies for an endpoint committed in a prior session,
// without validating it again. It returns false when there is nothing to load.
func (w *Workflow) Activate() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.committed == "" {
		return false
	}
	if !w.apply(EventActivate) {
		return false
	}
	ctx, gen, done := w.beginLocked()
	go w.run(ctx, gen, done, w.committed, false)
	return true
}

// Commit validates a candidate endpoint. A blank candidate is rejected without any
// state change.
func (w *Workflow) Commit(raw string) error {
	ep := strings.TrimSpace(raw)
	if ep == "" {
		return ErrBlankEndpoint
	}
	ep = strings.TrimRight(ep, "/") + "/"

	w.mu.Lock()
	defer w.mu.Unlock()
	w.apply(EventCommit)
	w.candidate = ep
	w.message = ""
	w.report = nil
	w.vocab = nil
	ctx, gen, done := w.beginLocked()
	go w.run(ctx, gen, done, ep, true)
	return nil
}

// beginLocked cancels the running sequence and opens a new generation
func (w *Workflow) beginLocked() (context.Context, uint64, chan struct{}) {
	if w.cancel != nil {
		w.cancel()
	}
	w.gen++
	ctx, cancel := context.WithCancel(w.base)
	w.cancel = cancel
	w.settled = make(chan struct{})
	return ctx, w.gen, w.settled
}

func (w *Workflow) run(ctx context.Context, gen uint64, done chan struct{}, ep string, validate bool) {
	defer close(done)

	if validate {
		report, err := w.validator.Validate(ctx, ep)
		proceed := false
		w.complete(gen, func() {
			w.report = report
			if err != nil {
				w.apply(EventValidationFailed)
				w.message = msgInvalidEndpoint
				return
			}
			w.apply(EventValidationOK)
			w.committed = ep
			w.apply(EventLoadVocabulary)
			proceed = true
		})
		if !proceed {
			return
		}
	}

	vocab, err := w.loader.Load(ctx, ep)
	w.complete(gen, func() {
		if err != nil {
			w.apply(EventVocabularyFailed)
			if validate {
				w.message = msgVocabularyCommit
			} else {
				w.message = msgVocabularyRestore
			}
			return
		}
		w.vocab = vocab
		w.message = ""
		w.apply(EventVocabularyOK)
	})
}

// complete applies fn unless gen has been superseded
func (w *Workflow) complete(gen uint64, fn func()) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.gen {
		return false
	}
	fn()
	return true
}

// apply must be called with mu held
func (w *Workflow) apply(ev WorkflowEvent) bool {
	next, ok := NextState(w.state, ev)
	if !ok {
		w.log.WithFields(logrus.Fields{"state": w.state, "event": ev}).Debug("event ignored")
		return false
	}
	w.log.WithFields(logrus.Fields{"from": w.state, "to": next, "event": ev}).Debug("transition")
	w.state = next
	w.metrics.WorkflowState(string(next))
	return true
}

// Wait blocks until no validation or vocabulary load is in flight
func (w *Workflow) Wait(ctx context.Context) (models.WorkflowSnapshot, error) {
	for {
		w.mu.Lock()
		ch := w.settled
		w.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return w.Snapshot(), ctx.Err()
		}

		w.mu.Lock()
		current := w.settled
		w.mu.Unlock()
		if current == ch {
			return w.Snapshot(), nil
		}
	}
}

// Snapshot returns the current view of the session
func (w *Workflow) Snapshot() models.WorkflowSnapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := models.WorkflowSnapshot{
		ID:          w.id,
		State:       w.state,
		Endpoint:    w.committed,
		Candidate:   w.candidate,
		Message:     w.message,
		Validation:  w.report,
		Filters:     w.filters,
		Interactive: w.state == models.StateReady,
	}
	if w.state == models.StateReady {
		s.Vocabularies = w.vocab
	}
	return s
}

// SetFilters replaces the selection of one taxonomy. Only identifiers offered by the
// loaded vocabulary are accepted.
func (w *Workflow) SetFilters(t models.Taxonomy, ids []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != models.StateReady {
		return ErrNotReady
	}

	known := make(map[string]struct{})
	for _, e := range w.vocab.Entries(t) {
		known[string(e.ID)] = struct{}{}
	}
	selected := lo.Uniq(lo.Map(ids, func(id string, _ int) string { return strings.TrimSpace(id) }))
	for _, id := range selected {
		if _, ok := known[id]; !ok {
			return fmt.Errorf("%w: %s %q", ErrUnknownFilter, t, id)
		}
	}
	w.filters = w.filters.With(t, selected)
	return nil
}

// ClearFilters removes every selected identifier of one taxonomy
func (w *Workflow) ClearFilters(t models.Taxonomy) error {
	return w.SetFilters(t, nil)
}

// Block returns the durable attributes of the configured block
func (w *Workflow) Block(id string) (models.Block, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != models.StateReady {
		return models.Block{}, ErrNotReady
	}
	return models.Block{
		ID:        id,
		Endpoint:  w.committed,
		Filters:   w.filters,
		UpdatedAt: time.Now().UTC(),
	}, nil
}

// Close cancels any in-flight request of the session
func (w *Workflow) Close() {
	w.stop()
}
