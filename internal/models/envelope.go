package models

import "encoding/json"

// Envelope is the response wrapper returned by every service endpoint.
// Data is kept raw so callers can decode it into the endpoint-specific
// shape after inspecting Status and Message.
type Envelope struct {
	// Status is the service-level status code, mirroring the HTTP status
	Status int `json:"status"`

	// Message is the service-provided human-readable message
	Message string `json:"message"`

	// Data is the endpoint-specific payload
	Data json.RawMessage `json:"data,omitempty"`
}

// HasData reports whether the envelope carries a non-null payload.
func (e *Envelope) HasData() bool {
	return len(e.Data) > 0 && string(e.Data) != "null"
}
