// Package types holds the JSON envelopes every API response shares, so the
// admin frontend can unwrap "data" or "error" without per-endpoint shapes.
package types

// SuccessEnvelope wraps a successful response body.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error payload. Details carries field-level
// validation messages when the error code allows them.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps a failed response body.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
