package dtos

import "time"

// Offer is one synthesized or retrieved quote for a route/airline/date combination
type Offer struct {
	AirlineCode   string  `json:"airline_code"`
	AirlineName   string  `json:"airline_name"`
	Price         float64 `json:"price"`
	Currency      string  `json:"currency"`
	CabinClass    string  `json:"cabin_class"`
	DepartureDate string  `json:"departure_date"`
	ReturnDate    string  `json:"return_date,omitempty"`
	Source        string  `json:"source"`
}

// LatestPrice is one latest-per-group snapshot row joined with its route and airline
type LatestPrice struct {
	ID              int64     `db:"id" json:"id" csv:"-"`
	RouteID         int64     `db:"route_id" json:"route_id" csv:"route_id"`
	Origin          string    `db:"origin" json:"origin" csv:"origin"`
	Destination     string    `db:"destination" json:"destination" csv:"destination"`
	OriginCity      string    `db:"origin_city" json:"origin_city" csv:"-"`
	DestinationCity string    `db:"destination_city" json:"destination_city" csv:"-"`
	Region          string    `db:"region" json:"region" csv:"-"`
	AirlineCode     string    `db:"airline_code" json:"airline_code" csv:"airline_code"`
	AirlineName     string    `db:"airline_name" json:"airline_name" csv:"airline_name"`
	Price           float64   `db:"price" json:"price" csv:"price"`
	Currency        string    `db:"currency" json:"currency" csv:"currency"`
	CabinClass      string    `db:"cabin_class" json:"cabin_class" csv:"cabin_class"`
	DepartureDate   string    `db:"departure_date" json:"departure_date" csv:"departure_date"`
	ReturnDate      *string   `db:"return_date" json:"return_date,omitempty" csv:"return_date,omitempty"`
	FetchedAt       time.Time `db:"fetched_at" json:"fetched_at" csv:"fetched_at"`
	Source          string    `db:"source" json:"source" csv:"source"`
}

// HistoryPoint is a single snapshot in a route's time series
type HistoryPoint struct {
	ID            int64     `db:"id" json:"id" csv:"id"`
	RouteID       int64     `db:"route_id" json:"route_id" csv:"route_id"`
	AirlineCode   string    `db:"airline_code" json:"airline_code" csv:"airline_code"`
	AirlineName   string    `db:"airline_name" json:"airline_name" csv:"airline_name"`
	Price         float64   `db:"price" json:"price" csv:"price"`
	Currency      string    `db:"currency" json:"currency" csv:"currency"`
	CabinClass    string    `db:"cabin_class" json:"cabin_class" csv:"cabin_class"`
	DepartureDate string    `db:"departure_date" json:"departure_date" csv:"departure_date"`
	ReturnDate    *string   `db:"return_date" json:"return_date,omitempty" csv:"return_date,omitempty"`
	FetchedAt     time.Time `db:"fetched_at" json:"fetched_at" csv:"fetched_at"`
	Source        string    `db:"source" json:"source" csv:"source"`
}

// LowestPrice is the cheapest row among a route's latest-per-group snapshots
type LowestPrice struct {
	Price       float64   `db:"price" json:"price"`
	AirlineCode string    `db:"airline_code" json:"airline_code"`
	AirlineName string    `db:"airline_name" json:"airline_name"`
	FetchedAt   time.Time `db:"fetched_at" json:"fetched_at"`
}

// SearchRequest is the body of an ad-hoc price search
type SearchRequest struct {
	Origin        string `json:"origin" validate:"required,iata_airport"`
	Destination   string `json:"destination" validate:"required,iata_airport,nefield=Origin"`
	DepartureDate string `json:"departure_date" validate:"required,datetime=2006-01-02"`
	ReturnDate    string `json:"return_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Adults        int    `json:"adults" validate:"omitempty,min=1,max=9"`
	CabinClass    string `json:"cabin_class" validate:"omitempty,cabin_class"`
	MaxResults    int    `json:"max_results" validate:"omitempty,min=1,max=50"`
}

// SearchResponse wraps ad-hoc search results
type SearchResponse struct {
	Origin        string  `json:"origin"`
	Destination   string  `json:"destination"`
	DepartureDate string  `json:"departure_date"`
	CabinClass    string  `json:"cabin_class"`
	Offers        []Offer `json:"offers"`
}

// CompareResponse lists the latest fare of every airline on one route
type CompareResponse struct {
	RouteID     int64         `json:"route_id"`
	Origin      string        `json:"origin"`
	Destination string        `json:"destination"`
	Airlines    []LatestPrice `json:"airlines"`
}

// HistoryResponse lists a route's snapshots inside the requested window
type HistoryResponse struct {
	RouteID     int64          `json:"route_id"`
	Origin      string         `json:"origin"`
	Destination string         `json:"destination"`
	Days        int            `json:"days"`
	Points      []HistoryPoint `json:"points"`
}

// DashboardStats summarizes monitoring state
type DashboardStats struct {
	TotalRoutes    int64        `json:"total_routes"`
	TotalAirlines  int64        `json:"total_airlines"`
	TotalSnapshots int64        `json:"total_snapshots"`
	ActiveAlerts   int64        `json:"active_alerts"`
	LastUpdated    *time.Time   `json:"last_updated,omitempty"`
	CheapestFare   *LatestPrice `json:"cheapest_fare,omitempty"`
}

// CycleResult aggregates one fetch cycle
type CycleResult struct {
	Fetched         int           `json:"fetched"`
	Errors          int           `json:"errors"`
	AlertsTriggered int           `json:"alerts_triggered"`
	Duration        time.Duration `json:"duration_ns"`
}
