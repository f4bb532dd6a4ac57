package repository

import (
	"context"
	"errors"
	"testing"

	"flightassist-service/internal/domain/entity"
)

func TestGormAirlineRepository_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewGormAirlineRepository(newSQLiteDB(t))

	if err := repo.Save(ctx, &entity.Airline{Code: "ai", Name: "Air India", Aliases: []string{"air india"}}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.GetByCode(ctx, "AI")
	if err != nil {
		t.Fatalf("GetByCode: %v", err)
	}
	if got.Name != "Air India" || len(got.Aliases) != 1 {
		t.Errorf("got %+v", got)
	}

	got.AddAlias("Maharaja")
	got.UsageCount = 3
	if err := repo.Save(ctx, got); err != nil {
		t.Fatalf("Save update: %v", err)
	}

	updated, err := repo.GetByCode(ctx, "AI")
	if err != nil {
		t.Fatalf("GetByCode: %v", err)
	}
	if updated.UsageCount != 3 || !updated.HasAlias("maharaja") {
		t.Errorf("update not persisted: %+v", updated)
	}

	all, err := repo.List(ctx)
	if err != nil || len(all) != 1 {
		t.Errorf("List = %d rows, %v; want 1", len(all), err)
	}
}

func TestGormAirlineRepository_NotFound(t *testing.T) {
	repo := NewGormAirlineRepository(newSQLiteDB(t))
	if _, err := repo.GetByCode(context.Background(), "ZZ"); !errors.Is(err, entity.ErrAirlineNotFound) {
		t.Errorf("err = %v, want ErrAirlineNotFound", err)
	}
}

func TestGormAirlineRepository_TopByUsage(t *testing.T) {
	ctx := context.Background()
	repo := NewGormAirlineRepository(newSQLiteDB(t))

	for _, a := range []entity.Airline{
		{Code: "AI", Name: "Air India", UsageCount: 2},
		{Code: "6E", Name: "IndiGo", UsageCount: 9},
		{Code: "SG", Name: "SpiceJet", UsageCount: 5},
		{Code: "UK", Name: "Vistara"},
	} {
		a := a
		if err := repo.Save(ctx, &a); err != nil {
			t.Fatalf("Save %s: %v", a.Code, err)
		}
	}

	top, err := repo.TopByUsage(ctx, 2)
	if err != nil {
		t.Fatalf("TopByUsage: %v", err)
	}
	if len(top) != 2 || top[0].Code != "6E" || top[1].Code != "SG" {
		t.Errorf("top = %+v", top)
	}
}
