package entities

import "time"

type ServiceStatus struct {
	Status    string `json:"status"`
	Details   string `json:"details"`
	LatencyMS int64  `json:"latency_ms"`
}

// HealthCheckResponse reports dependency health plus which optional integrations are live
type HealthCheckResponse struct {
	Status       string                   `json:"status"`
	Services     map[string]ServiceStatus `json:"services"`
	LiveProvider bool                     `json:"live_provider"`
	EmailEnabled bool                     `json:"email_enabled"`
	UpSince      time.Time                `json:"up_since"`
	Uptime       string                   `json:"uptime"`
}
