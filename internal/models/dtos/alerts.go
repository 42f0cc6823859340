package dtos

import "time"

// CreateAlertRequest is the body of POST /api/v1/alerts
type CreateAlertRequest struct {
	RouteID     int64   `json:"route_id" validate:"required,gt=0"`
	AirlineCode string  `json:"airline_code,omitempty" validate:"omitempty,iata_airline"`
	TargetPrice float64 `json:"target_price" validate:"required,gt=0,lte=99999999.99"`
	Email       string  `json:"email" validate:"required,email"`
}

// AlertView is an alert joined with its route for display
type AlertView struct {
	ID          int64      `json:"id"`
	RouteID     int64      `json:"route_id"`
	Origin      string     `json:"origin"`
	Destination string     `json:"destination"`
	AirlineCode *string    `json:"airline_code,omitempty"`
	TargetPrice float64    `json:"target_price"`
	Email       string     `json:"email"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	TriggeredAt *time.Time `json:"triggered_at,omitempty"`
}

// TriggeredAlert is an alert that crossed its target in the current evaluation
type TriggeredAlert struct {
	AlertID         int64     `json:"alert_id"`
	RouteID         int64     `json:"route_id"`
	Origin          string    `json:"origin"`
	Destination     string    `json:"destination"`
	OriginCity      string    `json:"origin_city"`
	DestinationCity string    `json:"destination_city"`
	Email           string    `json:"email"`
	TargetPrice     float64   `json:"target_price"`
	CurrentPrice    float64   `json:"current_price"`
	AirlineCode     string    `json:"airline_code"`
	AirlineName     string    `json:"airline_name"`
	TriggeredAt     time.Time `json:"triggered_at"`
}
