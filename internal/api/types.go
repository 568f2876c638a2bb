package api

// Response status values used in every JSON envelope.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Fragment is the wire shape of fragment metadata.
type Fragment struct {
	ID      string   `json:"id"`
	OwnerID string   `json:"ownerId"`
	Created string   `json:"created"`
	Updated string   `json:"updated"`
	Type    string   `json:"type"`
	Size    int64    `json:"size"`
	Formats []string `json:"formats,omitempty"`
}

// FragmentResponse wraps one fragment.
type FragmentResponse struct {
	Status   string   `json:"status"`
	Fragment Fragment `json:"fragment"`
}

// FragmentIDsResponse lists fragment ids.
type FragmentIDsResponse struct {
	Status    string   `json:"status"`
	Fragments []string `json:"fragments"`
}

// FragmentListResponse lists expanded fragments.
type FragmentListResponse struct {
	Status    string     `json:"status"`
	Fragments []Fragment `json:"fragments"`
}

// StatusResponse is a body with nothing but a status.
type StatusResponse struct {
	Status string `json:"status"`
}

// HealthResponse reports liveness.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// ErrorBody describes one failed request.
type ErrorBody struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Kind      string `json:"kind,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Status string    `json:"status"`
	Error  ErrorBody `json:"error"`
}
