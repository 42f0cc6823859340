package repositories

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	gormlib "gorm.io/gorm"

	"infinite-experiment/skywatch/internal/apperrors"
	"infinite-experiment/skywatch/internal/constants"
	"infinite-experiment/skywatch/internal/models/gorm"
	"infinite-experiment/skywatch/internal/testutil"
)

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func routeID(t *testing.T, db *gormlib.DB, origin, destination string) int64 {
	t.Helper()
	var route gorm.Route
	if err := db.Where("origin = ? AND destination = ?", origin, destination).First(&route).Error; err != nil {
		t.Fatalf("route %s-%s not seeded: %v", origin, destination, err)
	}
	return route.ID
}

func appendSnapshot(t *testing.T, repo *SnapshotRepository, route int64, airline string, price float64, at time.Time) *gorm.PriceSnapshot {
	t.Helper()
	s := &gorm.PriceSnapshot{
		RouteID:       route,
		AirlineCode:   airline,
		Price:         price,
		Currency:      constants.DefaultCurrency,
		CabinClass:    constants.CabinEconomy,
		DepartureDate: "2026-04-01",
		FetchedAt:     at,
		Source:        constants.SourceSynthetic,
	}
	if err := repo.Append(context.Background(), s); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	return s
}

func setupSnapshots(t *testing.T) (*gormlib.DB, *sqlx.DB, *SnapshotRepository) {
	t.Helper()
	orm, raw := testutil.SetupTestDB(t)
	return orm, raw, NewSnapshotRepository(orm, raw)
}

func TestSnapshotRepository_LatestIsMaxFetchedAtPerGroup(t *testing.T) {
	orm, _, repo := setupSnapshots(t)
	ctx := context.Background()
	lhrJfk := routeID(t, orm, "LHR", "JFK")
	dohLhr := routeID(t, orm, "DOH", "LHR")

	appendSnapshot(t, repo, lhrJfk, "BA", 500, baseTime)
	appendSnapshot(t, repo, lhrJfk, "BA", 480, baseTime.Add(time.Hour))
	appendSnapshot(t, repo, lhrJfk, "BA", 510, baseTime.Add(2*time.Hour))
	appendSnapshot(t, repo, lhrJfk, "AA", 470, baseTime.Add(time.Hour))
	appendSnapshot(t, repo, lhrJfk, "AA", 465, baseTime)
	appendSnapshot(t, repo, dohLhr, "QR", 390, baseTime)

	latest, err := repo.Latest(ctx, LatestFilter{})
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if len(latest) != 3 {
		t.Fatalf("Expected 3 groups, got %d: %+v", len(latest), latest)
	}

	seen := map[string]bool{}
	for _, row := range latest {
		key := row.Origin + row.Destination + row.AirlineCode
		if seen[key] {
			t.Errorf("Duplicate group %s", key)
		}
		seen[key] = true

		history, err := repo.History(ctx, row.RouteID, row.AirlineCode, 3650, baseTime.Add(24*time.Hour))
		if err != nil {
			t.Fatalf("History failed: %v", err)
		}
		maxAt := history[len(history)-1].FetchedAt
		if !row.FetchedAt.Equal(maxAt) {
			t.Errorf("Group %s latest at %s, max is %s", key, row.FetchedAt, maxAt)
		}
	}

	for i := 1; i < len(latest); i++ {
		if latest[i].Price < latest[i-1].Price {
			t.Errorf("Latest not sorted by price: %v", latest)
		}
	}

	byAirline := map[string]float64{}
	for _, row := range latest {
		byAirline[row.AirlineCode] = row.Price
	}
	if byAirline["BA"] != 510 || byAirline["AA"] != 470 || byAirline["QR"] != 390 {
		t.Errorf("Unexpected latest prices: %v", byAirline)
	}
}

func TestSnapshotRepository_LatestTieBreaksOnInsertionOrder(t *testing.T) {
	orm, _, repo := setupSnapshots(t)
	route := routeID(t, orm, "LHR", "JFK")

	appendSnapshot(t, repo, route, "BA", 500, baseTime)
	second := appendSnapshot(t, repo, route, "BA", 520, baseTime)

	latest, err := repo.CompareLatest(context.Background(), route)
	if err != nil {
		t.Fatalf("CompareLatest failed: %v", err)
	}
	if len(latest) != 1 {
		t.Fatalf("Expected one row, got %d", len(latest))
	}
	if latest[0].ID != second.ID {
		t.Errorf("Expected later insert %d to win the tie, got %d", second.ID, latest[0].ID)
	}
}

func TestSnapshotRepository_LatestFilters(t *testing.T) {
	orm, _, repo := setupSnapshots(t)
	ctx := context.Background()
	lhrJfk := routeID(t, orm, "LHR", "JFK")
	dohLhr := routeID(t, orm, "DOH", "LHR")

	appendSnapshot(t, repo, lhrJfk, "BA", 500, baseTime)
	appendSnapshot(t, repo, lhrJfk, "AA", 470, baseTime)
	appendSnapshot(t, repo, dohLhr, "BA", 350, baseTime)

	byRoute, err := repo.Latest(ctx, LatestFilter{RouteID: lhrJfk})
	if err != nil || len(byRoute) != 2 {
		t.Errorf("Expected 2 rows for route filter, got %d (err=%v)", len(byRoute), err)
	}

	byAirline, err := repo.Latest(ctx, LatestFilter{AirlineCode: "BA"})
	if err != nil || len(byAirline) != 2 {
		t.Errorf("Expected 2 rows for airline filter, got %d (err=%v)", len(byAirline), err)
	}

	both, err := repo.Latest(ctx, LatestFilter{RouteID: dohLhr, AirlineCode: "BA"})
	if err != nil || len(both) != 1 || both[0].Price != 350 {
		t.Errorf("Expected single DOH-LHR BA row, got %+v (err=%v)", both, err)
	}

	none, err := repo.Latest(ctx, LatestFilter{AirlineCode: "FJ"})
	if err != nil || len(none) != 0 {
		t.Errorf("Expected empty result, got %+v (err=%v)", none, err)
	}
}

func TestSnapshotRepository_HistoryWindowAndOrder(t *testing.T) {
	orm, _, repo := setupSnapshots(t)
	ctx := context.Background()
	route := routeID(t, orm, "LHR", "JFK")
	now := baseTime.Add(40 * 24 * time.Hour)

	appendSnapshot(t, repo, route, "BA", 500, baseTime) // 40 days old
	appendSnapshot(t, repo, route, "BA", 505, now.Add(-10*24*time.Hour))
	appendSnapshot(t, repo, route, "AA", 470, now.Add(-5*24*time.Hour))
	appendSnapshot(t, repo, route, "BA", 495, now.Add(-time.Hour))

	history, err := repo.History(ctx, route, "", 30, now)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("Expected 3 points inside 30 days, got %d", len(history))
	}
	for i := 1; i < len(history); i++ {
		if history[i].FetchedAt.Before(history[i-1].FetchedAt) {
			t.Errorf("History not ascending: %v", history)
		}
	}
	if history[0].AirlineName != "British Airways" {
		t.Errorf("Expected joined airline name, got %q", history[0].AirlineName)
	}

	onlyBA, err := repo.History(ctx, route, "BA", 30, now)
	if err != nil || len(onlyBA) != 2 {
		t.Errorf("Expected 2 BA points, got %d (err=%v)", len(onlyBA), err)
	}
}

func TestSnapshotRepository_AppendThenHistoryRoundTrip(t *testing.T) {
	orm, _, repo := setupSnapshots(t)
	ctx := context.Background()
	route := routeID(t, orm, "HKG", "LHR")

	appendSnapshot(t, repo, route, "CX", 700, baseTime)
	appendSnapshot(t, repo, route, "BA", 690, baseTime.Add(time.Minute))
	last := appendSnapshot(t, repo, route, "CX", 650, baseTime.Add(2*time.Minute))

	history, err := repo.History(ctx, route, "", 1, baseTime.Add(time.Hour))
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 3 || history[len(history)-1].ID != last.ID {
		t.Errorf("Expected newest append last, got %+v", history)
	}
}

func TestSnapshotRepository_LowestLatest(t *testing.T) {
	orm, _, repo := setupSnapshots(t)
	ctx := context.Background()
	route := routeID(t, orm, "LHR", "JFK")

	appendSnapshot(t, repo, route, "BA", 300, baseTime) // superseded, must not count
	appendSnapshot(t, repo, route, "BA", 510, baseTime.Add(time.Hour))
	appendSnapshot(t, repo, route, "AA", 470, baseTime.Add(time.Hour))

	lowest, err := repo.LowestLatest(ctx, route, "")
	if err != nil {
		t.Fatalf("LowestLatest failed: %v", err)
	}
	if lowest == nil || lowest.Price != 470 || lowest.AirlineCode != "AA" {
		t.Errorf("Expected AA 470, got %+v", lowest)
	}

	ba, err := repo.LowestLatest(ctx, route, "BA")
	if err != nil || ba == nil || ba.Price != 510 {
		t.Errorf("Expected BA 510, got %+v (err=%v)", ba, err)
	}

	empty, err := repo.LowestLatest(ctx, routeID(t, orm, "SYD", "LAX"), "")
	if err != nil || empty != nil {
		t.Errorf("Expected nil for route without snapshots, got %+v (err=%v)", empty, err)
	}
}

func TestSnapshotRepository_AppendRejectsUnknownAirline(t *testing.T) {
	orm, _, repo := setupSnapshots(t)

	err := repo.Append(context.Background(), &gorm.PriceSnapshot{
		RouteID:       routeID(t, orm, "LHR", "JFK"),
		AirlineCode:   "ZZ",
		Price:         100,
		Currency:      "USD",
		CabinClass:    constants.CabinEconomy,
		DepartureDate: "2026-04-01",
		FetchedAt:     baseTime,
		Source:        constants.SourceLive,
	})
	if err == nil {
		t.Fatal("Expected foreign key violation")
	}
	if !errors.Is(err, apperrors.ErrPersistence) {
		t.Errorf("Expected persistence error, got %v", err)
	}
}

func TestSnapshotRepository_DashboardHelpers(t *testing.T) {
	orm, _, repo := setupSnapshots(t)
	ctx := context.Background()

	at, err := repo.LastFetchedAt(ctx)
	if err != nil || at != nil {
		t.Errorf("Expected nil last fetch on empty table, got %v (err=%v)", at, err)
	}
	cheapest, err := repo.CheapestLatest(ctx)
	if err != nil || cheapest != nil {
		t.Errorf("Expected nil cheapest on empty table, got %+v (err=%v)", cheapest, err)
	}

	route := routeID(t, orm, "LHR", "DOH")
	appendSnapshot(t, repo, route, "QR", 360, baseTime)
	appendSnapshot(t, repo, route, "BA", 340, baseTime.Add(time.Hour))

	count, err := repo.Count(ctx)
	if err != nil || count != 2 {
		t.Errorf("Expected 2 snapshots, got %d (err=%v)", count, err)
	}

	at, err = repo.LastFetchedAt(ctx)
	if err != nil || at == nil || !at.Equal(baseTime.Add(time.Hour)) {
		t.Errorf("Unexpected last fetch: %v (err=%v)", at, err)
	}

	cheapest, err = repo.CheapestLatest(ctx)
	if err != nil || cheapest == nil || cheapest.AirlineCode != "BA" {
		t.Errorf("Expected BA cheapest, got %+v (err=%v)", cheapest, err)
	}
}

func TestSnapshotRepository_ConcurrentAppendsKeepOneRowPerGroup(t *testing.T) {
	orm, _, repo := setupSnapshots(t)
	ctx := context.Background()
	route := routeID(t, orm, "LHR", "JFK")
	airlines := []string{"BA", "AA", "AY", "IB", "QR"}

	for _, code := range airlines {
		appendSnapshot(t, repo, route, code, 400, baseTime)
	}

	var wg sync.WaitGroup
	for i, code := range airlines {
		wg.Add(1)
		go func(i int, code string) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				s := &gorm.PriceSnapshot{
					RouteID:       route,
					AirlineCode:   code,
					Price:         float64(400 + i*10 + j),
					Currency:      "USD",
					CabinClass:    constants.CabinEconomy,
					DepartureDate: "2026-04-01",
					FetchedAt:     baseTime.Add(time.Duration(j+1) * time.Minute),
					Source:        constants.SourceSynthetic,
				}
				if err := repo.Append(ctx, s); err != nil {
					t.Errorf("append failed: %v", err)
				}
			}
		}(i, code)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	for {
		latest, err := repo.CompareLatest(ctx, route)
		if err != nil {
			t.Fatalf("CompareLatest failed: %v", err)
		}
		if len(latest) != len(airlines) {
			t.Fatalf("Expected %d groups during concurrent writes, got %d", len(airlines), len(latest))
		}
		select {
		case <-done:
			return
		default:
		}
	}
}
