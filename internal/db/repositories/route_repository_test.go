package repositories

import (
	"context"
	"testing"

	"infinite-experiment/skywatch/internal/testutil"
)

func TestRouteRepository_ListAndRegions(t *testing.T) {
	orm, _ := testutil.SetupTestDB(t)
	repo := NewRouteRepository(orm)
	ctx := context.Background()

	all, err := repo.List(ctx, "")
	if err != nil || len(all) != 24 {
		t.Fatalf("Expected 24 seeded routes, got %d (err=%v)", len(all), err)
	}

	transatlantic, err := repo.List(ctx, "Transatlantic")
	if err != nil || len(transatlantic) == 0 {
		t.Fatalf("Expected transatlantic routes, got %d (err=%v)", len(transatlantic), err)
	}
	for _, r := range transatlantic {
		if r.Region != "Transatlantic" {
			t.Errorf("Unexpected region %s", r.Region)
		}
	}

	regions, err := repo.Regions(ctx)
	if err != nil || len(regions) == 0 {
		t.Fatalf("Expected regions, got %v (err=%v)", regions, err)
	}
	for i := 1; i < len(regions); i++ {
		if regions[i] <= regions[i-1] {
			t.Errorf("Regions not distinct and sorted: %v", regions)
		}
	}

	missing, err := repo.FindByID(ctx, 9999)
	if err != nil || missing != nil {
		t.Errorf("Expected nil for unknown route, got %+v (err=%v)", missing, err)
	}
}

func TestAirlineRepository_FindByCode(t *testing.T) {
	orm, _ := testutil.SetupTestDB(t)
	repo := NewAirlineRepository(orm)
	ctx := context.Background()

	qr, err := repo.FindByCode(ctx, "qr")
	if err != nil || qr == nil || qr.Name != "Qatar Airways" || qr.Alliance != "oneworld" {
		t.Errorf("Unexpected airline: %+v (err=%v)", qr, err)
	}

	unknown, err := repo.FindByCode(ctx, "LH")
	if err != nil || unknown != nil {
		t.Errorf("Expected nil for non-alliance airline, got %+v (err=%v)", unknown, err)
	}

	count, err := repo.Count(ctx)
	if err != nil || count != 14 {
		t.Errorf("Expected 14 airlines, got %d (err=%v)", count, err)
	}
}
