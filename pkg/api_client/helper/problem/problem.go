package problem

type InvalidParam struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// APIError implements error and Problem Details (RFC 7807)
type APIError struct {
	Type          string         `json:"type"`
	Title         string         `json:"title"`
	Status        int            `json:"status"`
	Detail        string         `json:"detail"`
	Instance      string         `json:"instance,omitempty"`
	InvalidParams []InvalidParam `json:"invalidParams,omitempty"`
}

func (e APIError) Error() string { return e.Detail }

func NewBadRequest(oasUri, detail string, params ...InvalidParam) APIError {
	return APIError{
		Instance:      oasUri,
		Type:          "https://developer.mozilla.org/en-US/docs/Web/HTTP/Reference/Status/400",
		Title:         "Bad Request",
		Status:        400,
		Detail:        detail,
		InvalidParams: params,
	}
}

func NewNotFound(oasUri, detail string, params ...InvalidParam) APIError {
	return APIError{
		Instance:      oasUri,
		Type:          "https://developer.mozilla.org/en-US/docs/Web/HTTP/Reference/Status/404",
		Title:         "Not Found",
		Status:        404,
		Detail:        detail,
		InvalidParams: params,
	}
}

func NewInternalServerError(detail string) APIError {
	return APIError{
		Type:   "https://developer.mozilla.org/en-US/docs/Web/HTTP/Reference/Status/500",
		Title:  "Internal Server Error",
		Status: 500,
		Detail: detail,
	}
}

func NewConflict(instance, detail string) APIError {
	return APIError{
		Instance: instance,
		Type:     "https://developer.mozilla.org/en-US/docs/Web/HTTP/Reference/Status/409",
		Title:    "Conflict",
		Status:   409,
		Detail:   detail,
	}
}

func NewTooManyRequests(detail string) APIError {
	return APIError{
		Type:   "https://developer.mozilla.org/en-US/docs/Web/HTTP/Reference/Status/429",
		Title:  "Too Many Requests",
		Status: 429,
		Detail: detail,
	}
}

// NewBadGateway reports a failure of the remote WordPress endpoint
func NewBadGateway(instance, detail string) APIError {
	return APIError{
		Instance: instance,
		Type:     "https://developer.mozilla.org/en-US/docs/Web/HTTP/Reference/Status/502",
		Title:    "Bad Gateway",
		Status:   502,
		Detail:   detail,
	}
}
