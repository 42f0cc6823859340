package providers

import (
	"context"

	"infinite-experiment/skywatch/internal/constants"
	"infinite-experiment/skywatch/internal/models/dtos"
)

// PriceProvider defines the interface for live fare sources
type PriceProvider interface {
	// Search returns offers for one route and date; an empty result is reported as an error
	Search(ctx context.Context, params SearchParams) ([]dtos.Offer, error)

	// GetProviderType returns the provider type identifier
	GetProviderType() string
}

// SearchParams describes one fare lookup
type SearchParams struct {
	Origin        string
	Destination   string
	DepartureDate string // YYYY-MM-DD
	ReturnDate    string // optional
	Adults        int
	CabinClass    string
	MaxResults    int
}

func (p SearchParams) withDefaults() SearchParams {
	if p.Adults < 1 {
		p.Adults = 1
	}
	if p.CabinClass == "" {
		p.CabinClass = constants.CabinEconomy
	}
	if p.MaxResults < 1 {
		p.MaxResults = constants.DefaultMaxResults
	}
	return p
}
