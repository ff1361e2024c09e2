package models

// WorkflowState is the state of an endpoint configuration session
type WorkflowState string

const (
	StateIdle              WorkflowState = "idle"
	StateValidating        WorkflowState = "validating"
	StateValid             WorkflowState = "valid"
	StateLoadingVocabulary WorkflowState = "loading-vocabulary"
	StateReady             WorkflowState = "ready"
	StateInvalid           WorkflowState = "invalid"
)

// Settled reports whether no validation or vocabulary request is pending in this state
func (s WorkflowState) Settled() bool {
	return s == StateIdle || s == StateReady || s == StateInvalid
}

// WorkflowSnapshot is a point-in-time view of a configuration session
type WorkflowSnapshot struct {
	ID           string            `json:"id"`
	State        WorkflowState     `json:"state"`
	Endpoint     string            `json:"endpoint,omitempty"`
	Candidate    string            `json:"candidate,omitempty"`
	Message      string            `json:"message,omitempty"`
	Validation   *ValidationReport `json:"validation,omitempty"`
	Vocabularies *Vocabularies     `json:"vocabularios,omitempty"`
	Filters      FilterSelection   `json:"filtros"`
	Interactive  bool              `json:"interactive"`
}
