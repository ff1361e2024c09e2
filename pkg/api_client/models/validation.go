package models

// ValidationReason tells why a candidate endpoint was rejected
type ValidationReason string

const (
	ReasonNone          ValidationReason = ""
	ReasonNetwork       ValidationReason = "network"
	ReasonStatus        ValidationReason = "status"
	ReasonBody          ValidationReason = "body"
	ReasonRoutesType    ValidationReason = "routes-type"
	ReasonMissingRoutes ValidationReason = "missing-routes"
)

// ValidationReport is the diagnostic outcome of a capability discovery
type ValidationReport struct {
	Endpoint      string           `json:"endpoint"`
	Valid         bool             `json:"valid"`
	Reason        ValidationReason `json:"reason,omitempty"`
	StatusCode    int              `json:"statusCode,omitempty"`
	MissingRoutes []string         `json:"missingRoutes,omitempty"`
	Detail        string           `json:"detail,omitempty"`
}
