package models

// Machine-readable error codes carried alongside the human message so
// clients can branch without matching strings. Store internals never leak
// into the message; they are logged server-side only.
const (
	CodeNotFound         = "not_found"
	CodeInvalidInput     = "invalid_input"
	CodeStoreUnavailable = "store_unavailable"
	CodeInternal         = "internal"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
