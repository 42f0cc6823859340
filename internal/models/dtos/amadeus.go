package dtos

// ---- AMADEUS AUTH ----
type AmadeusTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// ---- AMADEUS FLIGHT OFFERS ----
type AmadeusOffersResponse struct {
	Data         []AmadeusOffer      `json:"data"`
	Dictionaries AmadeusDictionaries `json:"dictionaries"`
}

type AmadeusDictionaries struct {
	Carriers map[string]string `json:"carriers"`
}

type AmadeusOffer struct {
	ID                     string                  `json:"id"`
	Price                  AmadeusPrice            `json:"price"`
	ValidatingAirlineCodes []string                `json:"validatingAirlineCodes"`
	Itineraries            []AmadeusItinerary      `json:"itineraries"`
	TravelerPricings       []AmadeusTravelerPricing `json:"travelerPricings"`
}

type AmadeusPrice struct {
	Currency string `json:"currency"`
	Total    string `json:"total"`
}

type AmadeusItinerary struct {
	Duration string           `json:"duration"`
	Segments []AmadeusSegment `json:"segments"`
}

type AmadeusSegment struct {
	CarrierCode string            `json:"carrierCode"`
	Number      string            `json:"number"`
	Operating   *AmadeusOperating `json:"operating"` // nullable
	Departure   AmadeusEndpoint   `json:"departure"`
	Arrival     AmadeusEndpoint   `json:"arrival"`
}

type AmadeusOperating struct {
	CarrierCode string `json:"carrierCode"`
}

type AmadeusEndpoint struct {
	IATACode string `json:"iataCode"`
	At       string `json:"at"`
}

type AmadeusTravelerPricing struct {
	FareDetailsBySegment []AmadeusFareDetail `json:"fareDetailsBySegment"`
}

type AmadeusFareDetail struct {
	Cabin string `json:"cabin"`
}
