package providers

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"infinite-experiment/skywatch/internal/catalog"
	"infinite-experiment/skywatch/internal/common"
	"infinite-experiment/skywatch/internal/constants"
	"infinite-experiment/skywatch/internal/metrics"
	"infinite-experiment/skywatch/internal/models/dtos"
	"infinite-experiment/skywatch/internal/pricing"
)

type mockProvider struct {
	SearchFunc func(ctx context.Context, params SearchParams) ([]dtos.Offer, error)
}

func (m *mockProvider) Search(ctx context.Context, params SearchParams) ([]dtos.Offer, error) {
	return m.SearchFunc(ctx, params)
}

func (m *mockProvider) GetProviderType() string { return "mock" }

func testModel() *pricing.Model {
	return pricing.NewModel(catalog.Default(), pricing.WithRand(rand.New(rand.NewSource(1))))
}

var lhrJfk = SearchParams{Origin: "LHR", Destination: "JFK", DepartureDate: "2026-03-15"}

func assertSynthetic(t *testing.T, offers []dtos.Offer) {
	t.Helper()
	if len(offers) == 0 {
		t.Fatal("Expected synthetic offers, got none")
	}
	for _, o := range offers {
		if o.Source != constants.SourceSynthetic {
			t.Errorf("Expected synthetic source, got %s", o.Source)
		}
	}
}

func TestAdapter_UsesLiveOffers(t *testing.T) {
	live := []dtos.Offer{{AirlineCode: "BA", Price: 500, Source: constants.SourceLive}}
	provider := &mockProvider{SearchFunc: func(ctx context.Context, p SearchParams) ([]dtos.Offer, error) {
		if p.Adults != 1 || p.CabinClass != constants.CabinEconomy {
			t.Errorf("Expected defaults applied, got %+v", p)
		}
		return live, nil
	}}

	offers := NewPriceAdapter(provider, time.Second, testModel(), nil).Fetch(context.Background(), lhrJfk)

	if len(offers) != 1 || offers[0].Source != constants.SourceLive {
		t.Errorf("Expected live offers, got %+v", offers)
	}
}

func TestAdapter_FallsBackOnEveryFailureKind(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		offers []dtos.Offer
		reason string
	}{
		{"auth", newProviderError(constants.ErrCodeAuthenticationFailed, nil), nil, "auth"},
		{"transport", newProviderError(constants.ErrCodeNetworkError, errors.New("connection refused")), nil, "transport"},
		{"empty error", newProviderError(constants.ErrCodeEmptyResult, nil), nil, "empty"},
		{"zero offers", nil, []dtos.Offer{}, "empty"},
		{"untyped", errors.New("boom"), nil, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := metrics.NewMetricsRegistry()
			provider := &mockProvider{SearchFunc: func(ctx context.Context, p SearchParams) ([]dtos.Offer, error) {
				return tt.offers, tt.err
			}}

			offers := NewPriceAdapter(provider, time.Second, testModel(), reg).Fetch(context.Background(), lhrJfk)

			assertSynthetic(t, offers)
			if got := testutil.ToFloat64(reg.ProviderFallbackTotal.WithLabelValues(tt.reason)); got != 1 {
				t.Errorf("Expected fallback reason %s counted once, got %v", tt.reason, got)
			}
		})
	}
}

func TestAdapter_NoProviderIsSyntheticOnly(t *testing.T) {
	reg := metrics.NewMetricsRegistry()
	offers := NewPriceAdapter(nil, time.Second, testModel(), reg).Fetch(context.Background(), lhrJfk)

	assertSynthetic(t, offers)
	if got := testutil.CollectAndCount(reg.ProviderFallbackTotal); got != 0 {
		t.Errorf("Expected no fallback recorded in mock mode, got %d series", got)
	}
}

func TestAdapter_TimeoutFallsBackToSynthetic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == amadeusTokenPath {
			w.Write([]byte(`{"access_token":"tok-123","expires_in":1799}`))
			return
		}
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	provider := NewAmadeusProvider(AmadeusConfig{
		APIKey:    "key",
		APISecret: "secret",
		BaseURL:   srv.URL,
		RPS:       1000,
	}, catalog.Default(), common.NewCacheService(time.Minute, time.Minute))
	reg := metrics.NewMetricsRegistry()

	start := time.Now()
	offers := NewPriceAdapter(provider, 100*time.Millisecond, testModel(), reg).Fetch(context.Background(), lhrJfk)

	assertSynthetic(t, offers)
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Expected timeout to cut the live call short, took %s", elapsed)
	}
	if got := testutil.ToFloat64(reg.ProviderFallbackTotal.WithLabelValues("timeout")); got != 1 {
		t.Errorf("Expected timeout fallback counted, got %v", got)
	}
}

func TestAdapter_StageOrder(t *testing.T) {
	var calls []string
	stage := func(name string, res StageResult) Stage {
		return Stage{Name: name, Run: func(context.Context, SearchParams) StageResult {
			calls = append(calls, name)
			return res
		}}
	}

	a := NewAdapter(nil,
		stage("first", StageResult{Outcome: OutcomeFailed, Err: errors.New("x")}),
		stage("second", StageResult{Outcome: OutcomeOffers, Offers: []dtos.Offer{{AirlineCode: "AA"}}}),
		stage("third", StageResult{Outcome: OutcomeOffers, Offers: []dtos.Offer{{AirlineCode: "BA"}}}),
	)

	offers := a.Fetch(context.Background(), lhrJfk)
	if len(offers) != 1 || offers[0].AirlineCode != "AA" {
		t.Errorf("Expected second stage offers, got %+v", offers)
	}
	if len(calls) != 2 {
		t.Errorf("Expected pipeline to stop after success, calls=%v", calls)
	}
}
