package dtos

// AirlineView is a monitored airline as exposed by the API
type AirlineView struct {
	Code     string  `json:"iata_code"`
	Name     string  `json:"name"`
	Alliance string  `json:"alliance"`
	Country  string  `json:"country"`
	LogoURL  *string `json:"logo_url,omitempty"`
}

// RouteView is a monitored route as exposed by the API
type RouteView struct {
	ID              int64  `json:"id"`
	Origin          string `json:"origin"`
	Destination     string `json:"destination"`
	OriginCity      string `json:"origin_city"`
	DestinationCity string `json:"destination_city"`
	Region          string `json:"region"`
}
