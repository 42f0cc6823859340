package responses

import "time"

// APIResponse is the envelope of every JSON response
type APIResponse[T any] struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Code      string    `json:"code,omitempty"`
	Error     string    `json:"error,omitempty"`
	Data      *T        `json:"data,omitempty"`
}
