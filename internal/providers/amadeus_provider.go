package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"infinite-experiment/skywatch/internal/catalog"
	"infinite-experiment/skywatch/internal/common"
	"infinite-experiment/skywatch/internal/constants"
	"infinite-experiment/skywatch/internal/models/dtos"
)

const (
	amadeusBaseURLTest = "https://test.api.amadeus.com"
	amadeusBaseURLProd = "https://api.amadeus.com"

	amadeusTokenPath  = "/v1/security/oauth2/token"
	amadeusOffersPath = "/v2/shopping/flight-offers"

	// tokens are dropped this long before the upstream expiry
	tokenSafetyMargin  = 60 * time.Second
	defaultTokenExpiry = 1799
)

// AmadeusConfig carries credentials and limits for the Amadeus provider
type AmadeusConfig struct {
	APIKey    string
	APISecret string
	Env       string // "test" or "production"
	BaseURL   string // overrides Env when set
	Timeout   time.Duration
	RPS       float64
	Currency  string
}

// AmadeusProvider implements PriceProvider against the Amadeus Flight Offers Search API
type AmadeusProvider struct {
	BaseURL   string
	APIKey    string
	APISecret string
	Currency  string
	Client    *http.Client

	catalog *catalog.Catalog
	cache   common.CacheInterface
	limiter *rate.Limiter
	tokens  singleflight.Group
}

// NewAmadeusProvider creates a new Amadeus provider
func NewAmadeusProvider(cfg AmadeusConfig, cat *catalog.Catalog, cache common.CacheInterface) *AmadeusProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = amadeusBaseURLTest
		if cfg.Env == "production" {
			baseURL = amadeusBaseURLProd
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	rps := cfg.RPS
	if rps <= 0 {
		rps = 5
	}

	currency := cfg.Currency
	if currency == "" {
		currency = constants.DefaultCurrency
	}

	return &AmadeusProvider{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		APIKey:    cfg.APIKey,
		APISecret: cfg.APISecret,
		Currency:  currency,
		Client: &http.Client{
			Timeout: timeout,
		},
		catalog: cat,
		cache:   cache,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// GetProviderType returns the provider type identifier
func (p *AmadeusProvider) GetProviderType() string {
	return "amadeus_flight_offers"
}

// Search fetches live offers, keeping only alliance carriers
func (p *AmadeusProvider) Search(ctx context.Context, params SearchParams) ([]dtos.Offer, error) {
	params = params.withDefaults()
	params.Origin = strings.ToUpper(params.Origin)
	params.Destination = strings.ToUpper(params.Destination)

	if params.Origin == "" || params.Destination == "" || params.DepartureDate == "" {
		return nil, &ProviderError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: "Origin, destination and departure date are required",
		}
	}

	token, err := p.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, newProviderError(constants.ErrCodeTimeout, err)
	}

	query := url.Values{}
	query.Set("originLocationCode", params.Origin)
	query.Set("destinationLocationCode", params.Destination)
	query.Set("departureDate", params.DepartureDate)
	query.Set("adults", strconv.Itoa(params.Adults))
	query.Set("travelClass", params.CabinClass)
	query.Set("max", strconv.Itoa(params.MaxResults))
	query.Set("currencyCode", p.Currency)
	if params.ReturnDate != "" {
		query.Set("returnDate", params.ReturnDate)
	}
	query.Set("includedAirlineCodes", strings.Join(p.includedAirlines(params.Origin, params.Destination), ","))

	var resp dtos.AmadeusOffersResponse
	if err := p.doGET(ctx, amadeusOffersPath+"?"+query.Encode(), token, &resp); err != nil {
		// a rejected token is dropped so the next call re-authenticates
		if IsAuthError(err) {
			p.cache.Delete(p.tokenCacheKey())
		}
		return nil, err
	}

	offers := p.parseOffers(&resp, params)
	if len(offers) == 0 {
		return nil, &ProviderError{
			Code:    constants.ErrCodeEmptyResult,
			Message: fmt.Sprintf("No alliance offers for %s-%s on %s", params.Origin, params.Destination, params.DepartureDate),
		}
	}
	return offers, nil
}

func (p *AmadeusProvider) includedAirlines(origin, destination string) []string {
	if carriers, ok := p.catalog.Carriers(origin, destination); ok {
		return carriers
	}
	roster := p.catalog.Roster()
	if len(roster) > 5 {
		roster = roster[:5]
	}
	return roster
}

// parseOffers keeps offers whose first segment is operated by a roster airline
func (p *AmadeusProvider) parseOffers(resp *dtos.AmadeusOffersResponse, params SearchParams) []dtos.Offer {
	offers := make([]dtos.Offer, 0, len(resp.Data))
	for _, o := range resp.Data {
		if len(o.Itineraries) == 0 || len(o.Itineraries[0].Segments) == 0 {
			continue
		}
		first := o.Itineraries[0].Segments[0]

		code := first.CarrierCode
		if first.Operating != nil && first.Operating.CarrierCode != "" {
			code = first.Operating.CarrierCode
		}
		if !p.catalog.Supports(code) {
			continue
		}

		price, err := strconv.ParseFloat(o.Price.Total, 64)
		if err != nil || price <= 0 {
			continue
		}

		currency := o.Price.Currency
		if currency == "" {
			currency = p.Currency
		}

		cabin := params.CabinClass
		if len(o.TravelerPricings) > 0 && len(o.TravelerPricings[0].FareDetailsBySegment) > 0 {
			if c := o.TravelerPricings[0].FareDetailsBySegment[0].Cabin; c != "" {
				cabin = c
			}
		}

		departure := params.DepartureDate
		if len(first.Departure.At) >= len(constants.DateLayout) {
			departure = first.Departure.At[:len(constants.DateLayout)]
		}

		offers = append(offers, dtos.Offer{
			AirlineCode:   code,
			AirlineName:   p.catalog.AirlineName(code),
			Price:         price,
			Currency:      currency,
			CabinClass:    cabin,
			DepartureDate: departure,
			ReturnDate:    params.ReturnDate,
			Source:        constants.SourceLive,
		})
	}
	return offers
}

// ============================================================================
// Authentication
// ============================================================================

func (p *AmadeusProvider) tokenCacheKey() string {
	return string(constants.CachePrefixAmadeusToken) + p.APIKey
}

// accessToken returns a cached bearer token or performs the client-credentials handshake.
// Concurrent callers share one in-flight handshake.
func (p *AmadeusProvider) accessToken(ctx context.Context) (string, error) {
	if p.APIKey == "" || p.APISecret == "" {
		return "", newProviderError(constants.ErrCodeInvalidAPIKey, nil)
	}

	var cached string
	if common.GetJSON(p.cache, p.tokenCacheKey(), &cached) && cached != "" {
		return cached, nil
	}

	v, err, _ := p.tokens.Do(p.tokenCacheKey(), func() (interface{}, error) {
		return p.authenticate(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (p *AmadeusProvider) authenticate(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", p.APIKey)
	form.Set("client_secret", p.APISecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+amadeusTokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return "", &ProviderError{
			Code:    constants.ErrCodeAuthenticationFailed,
			Message: "Failed to create token request",
			Err:     err,
		}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", classifyTransportError(err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", &ProviderError{
			Code:    constants.ErrCodeAuthenticationFailed,
			Message: fmt.Sprintf("Amadeus authentication failed with HTTP %d", resp.StatusCode),
			Details: string(bodyBytes),
		}
	}

	var token dtos.AmadeusTokenResponse
	if err := json.Unmarshal(bodyBytes, &token); err != nil || token.AccessToken == "" {
		return "", &ProviderError{
			Code:    constants.ErrCodeAuthenticationFailed,
			Message: "Amadeus token response was not understood",
			Details: string(bodyBytes),
			Err:     err,
		}
	}

	expiresIn := token.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = defaultTokenExpiry
	}
	if ttl := time.Duration(expiresIn)*time.Second - tokenSafetyMargin; ttl > 0 {
		common.SetJSON(p.cache, p.tokenCacheKey(), token.AccessToken, ttl)
	}

	return token.AccessToken, nil
}

// ============================================================================
// HTTP Helper Methods
// ============================================================================

// doGET performs a GET request with bearer authentication
func (p *AmadeusProvider) doGET(ctx context.Context, endpoint, token string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+endpoint, nil)
	if err != nil {
		return &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to create request",
			Err:     err,
		}
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer resp.Body.Close()

	bodyBytes, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return classifyTransportError(readErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return buildHTTPError(resp.StatusCode, req.URL.Path, string(bodyBytes))
	}

	if err := json.Unmarshal(bodyBytes, result); err != nil {
		return &ProviderError{
			Code:    constants.ErrCodeDecodeError,
			Message: "Failed to decode response",
			Details: string(bodyBytes),
			Err:     err,
		}
	}

	return nil
}

func classifyTransportError(err error) *ProviderError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return newProviderError(constants.ErrCodeTimeout, err)
	}
	return newProviderError(constants.ErrCodeNetworkError, err)
}

// buildHTTPError creates appropriate error based on status code
func buildHTTPError(statusCode int, endpoint string, body string) error {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &ProviderError{
			Code:    constants.ErrCodeAuthenticationFailed,
			Message: fmt.Sprintf("Authentication failed for endpoint %s", endpoint),
			Details: body,
		}
	case http.StatusTooManyRequests:
		return &ProviderError{
			Code:    constants.ErrCodeRateLimited,
			Message: constants.GetErrorMessage(constants.ErrCodeRateLimited),
			Details: body,
		}
	case http.StatusBadRequest:
		return &ProviderError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: fmt.Sprintf("Bad request to %s", endpoint),
			Details: body,
		}
	default:
		return &ProviderError{
			Code:    constants.ErrCodeUpstreamError,
			Message: fmt.Sprintf("HTTP %d from %s", statusCode, endpoint),
			Details: body,
		}
	}
}
