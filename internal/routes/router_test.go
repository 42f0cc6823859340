package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"infinite-experiment/skywatch/internal/api"
	"infinite-experiment/skywatch/internal/common"
	"infinite-experiment/skywatch/internal/config"
	"infinite-experiment/skywatch/internal/constants"
	"infinite-experiment/skywatch/internal/metrics"
	"infinite-experiment/skywatch/internal/models/gorm"
	"infinite-experiment/skywatch/internal/testutil"
)

type envelope struct {
	Status string          `json:"status"`
	Code   string          `json:"code"`
	Error  string          `json:"error"`
	Data   json.RawMessage `json:"data"`
}

type testServer struct {
	handler http.Handler
	lhrJfk  int64
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	orm, raw := testutil.SetupTestDB(t)

	cfg := &config.Config{
		AppEnv:            "test",
		DBDriver:          "sqlite",
		UseMockData:       true,
		PriceCacheTTL:     time.Minute,
		AmadeusTimeout:    time.Second,
		FetchConcurrency:  4,
		ReportingCurrency: constants.DefaultCurrency,
	}

	deps, err := api.InitDependencies(cfg, orm, raw, common.NewCacheService(time.Minute, time.Minute), metrics.NewMetricsRegistry())
	if err != nil {
		t.Fatalf("InitDependencies failed: %v", err)
	}

	var route gorm.Route
	orm.Where("origin = ? AND destination = ?", "LHR", "JFK").First(&route)

	return &testServer{handler: RegisterRoutes(deps, time.Now()), lhrJfk: route.ID}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("Invalid JSON from %s %s: %v", method, path, err)
		}
	}
	return rec, env
}

func pathf(format string, id int64) string {
	return strings.Replace(format, "{id}", strconv.FormatInt(id, 10), 1)
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodGet, "/healthCheck", nil)
	if rec.Code != http.StatusOK || env.Status != "ok" {
		t.Fatalf("Expected healthy, got %d %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("Expected request ID header")
	}
}

func TestCatalogEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodGet, "/api/v1/airlines", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var airlines []map[string]interface{}
	json.Unmarshal(env.Data, &airlines)
	if len(airlines) != 14 {
		t.Errorf("Expected 14 airlines, got %d", len(airlines))
	}

	rec, _ = s.do(t, http.MethodGet, "/api/v1/routes?region=Transatlantic", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 for routes, got %d", rec.Code)
	}
	rec, _ = s.do(t, http.MethodGet, "/api/v1/routes/regions", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 for regions, got %d", rec.Code)
	}
}

func TestPriceEndpointErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantCode   string
	}{
		{"unknown route history", "/api/v1/prices/history/9999", http.StatusNotFound, "ROUTE_NOT_FOUND"},
		{"unknown route compare", "/api/v1/prices/compare/9999", http.StatusNotFound, "ROUTE_NOT_FOUND"},
		{"bad route id", "/api/v1/prices/history/abc", http.StatusBadRequest, "INVALID_INPUT"},
		{"bad days", pathf("/api/v1/prices/history/{id}?days=x", s.lhrJfk), http.StatusBadRequest, "INVALID_INPUT"},
		{"bad latest filter", "/api/v1/prices/latest?route_id=x", http.StatusBadRequest, "INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := s.do(t, http.MethodGet, tt.path, nil)
			if rec.Code != tt.wantStatus || env.Code != tt.wantCode {
				t.Errorf("Expected %d %s, got %d %s", tt.wantStatus, tt.wantCode, rec.Code, env.Code)
			}
		})
	}
}

func TestFetchNowThenRead(t *testing.T) {
	s := newTestServer(t)

	// no data is not an error
	rec, env := s.do(t, http.MethodGet, "/api/v1/prices/latest", nil)
	if rec.Code != http.StatusOK || string(env.Data) != "[]" {
		t.Fatalf("Expected empty list, got %d %s", rec.Code, env.Data)
	}

	rec, env = s.do(t, http.MethodPost, "/api/v1/jobs/fetch-now", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("fetch-now failed: %d %s", rec.Code, rec.Body.String())
	}
	var result struct {
		Fetched int `json:"fetched"`
		Errors  int `json:"errors"`
	}
	json.Unmarshal(env.Data, &result)
	if result.Fetched == 0 || result.Errors != 0 {
		t.Errorf("Unexpected cycle result %+v", result)
	}

	rec, env = s.do(t, http.MethodGet, pathf("/api/v1/prices/compare/{id}", s.lhrJfk), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("compare failed: %d", rec.Code)
	}
	var cmp struct {
		Airlines []struct {
			AirlineCode string  `json:"airline_code"`
			Price       float64 `json:"price"`
		} `json:"airlines"`
	}
	json.Unmarshal(env.Data, &cmp)
	if len(cmp.Airlines) != 5 {
		t.Errorf("Expected 5 carriers on LHR-JFK, got %d", len(cmp.Airlines))
	}
	for i := 1; i < len(cmp.Airlines); i++ {
		if cmp.Airlines[i].Price < cmp.Airlines[i-1].Price {
			t.Errorf("Compare not sorted by price: %+v", cmp.Airlines)
		}
	}

	rec, _ = s.do(t, http.MethodGet, pathf("/api/v1/prices/history/{id}/export?days=7", s.lhrJfk), nil)
	if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv") {
		t.Fatalf("Expected CSV, got %d %s", rec.Code, rec.Header().Get("Content-Type"))
	}
	if lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n"); len(lines) < 2 {
		t.Errorf("Expected CSV rows after fetch, got %q", rec.Body.String())
	}

	rec, env = s.do(t, http.MethodGet, "/api/v1/dashboard", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard failed: %d", rec.Code)
	}
	var dash struct {
		TotalSnapshots int64 `json:"total_snapshots"`
	}
	json.Unmarshal(env.Data, &dash)
	if dash.TotalSnapshots != int64(result.Fetched) {
		t.Errorf("Expected %d snapshots on dashboard, got %d", result.Fetched, dash.TotalSnapshots)
	}
}

func TestAlertEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodPost, "/api/v1/alerts", map[string]interface{}{
		"route_id":     s.lhrJfk,
		"target_price": 400,
		"email":        "traveler@example.com",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d %s", rec.Code, rec.Body.String())
	}

	rec, env = s.do(t, http.MethodPost, "/api/v1/alerts", map[string]interface{}{
		"route_id":     9999,
		"target_price": 400,
		"email":        "traveler@example.com",
	})
	if rec.Code != http.StatusNotFound || env.Code != "ROUTE_NOT_FOUND" {
		t.Errorf("Expected 404 ROUTE_NOT_FOUND, got %d %s", rec.Code, env.Code)
	}

	rec, env = s.do(t, http.MethodPost, "/api/v1/alerts", map[string]interface{}{
		"route_id":     s.lhrJfk,
		"airline_code": "LH",
		"target_price": 400,
		"email":        "traveler@example.com",
	})
	if rec.Code != http.StatusBadRequest || env.Code != "AIRLINE_NOT_FOUND" {
		t.Errorf("Expected 400 AIRLINE_NOT_FOUND, got %d %s", rec.Code, env.Code)
	}

	rec, env = s.do(t, http.MethodPost, "/api/v1/alerts", map[string]interface{}{
		"route_id":     s.lhrJfk,
		"target_price": -1,
		"email":        "not-an-email",
	})
	if rec.Code != http.StatusBadRequest || env.Code != "INVALID_INPUT" {
		t.Errorf("Expected 400 INVALID_INPUT, got %d %s", rec.Code, env.Code)
	}

	rec, env = s.do(t, http.MethodGet, "/api/v1/alerts", nil)
	var alerts []map[string]interface{}
	json.Unmarshal(env.Data, &alerts)
	if rec.Code != http.StatusOK || len(alerts) != 1 {
		t.Errorf("Expected 1 alert listed, got %d (%d)", len(alerts), rec.Code)
	}
}

func TestSearchEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodPost, "/api/v1/prices/search", map[string]interface{}{
		"origin":         "LHR",
		"destination":    "DOH",
		"departure_date": time.Now().UTC().AddDate(0, 1, 0).Format(constants.DateLayout),
		"cabin_class":    "BUSINESS",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Offers []struct {
			Source     string `json:"source"`
			CabinClass string `json:"cabin_class"`
		} `json:"offers"`
	}
	json.Unmarshal(env.Data, &resp)
	if len(resp.Offers) == 0 || resp.Offers[0].Source != constants.SourceSynthetic || resp.Offers[0].CabinClass != "BUSINESS" {
		t.Errorf("Unexpected search response %s", env.Data)
	}

	rec, env = s.do(t, http.MethodPost, "/api/v1/prices/search", map[string]interface{}{"origin": "LHR"})
	if rec.Code != http.StatusBadRequest || env.Code != "INVALID_INPUT" {
		t.Errorf("Expected 400 INVALID_INPUT, got %d %s", rec.Code, env.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodGet, "/api/v1/airlines", nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "skywatch_http_requests_total") {
		t.Errorf("Expected prometheus output, got %d", rec.Code)
	}
}
