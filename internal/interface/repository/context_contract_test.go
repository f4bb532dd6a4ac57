package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"flightassist-service/internal/domain/entity"
	"flightassist-service/internal/domain/repository"
)

func newTestContext(userID int64, created time.Time, origin string) *entity.SearchContext {
	params := entity.CanonicalParameters{
		Origin:        origin,
		Destination:   "BOM",
		DepartureDate: "2025-08-16",
		Passengers:    1,
		CabinClass:    entity.CabinEconomy,
	}
	return &entity.SearchContext{
		ID:            fmt.Sprintf("%d-%s-%d", userID, origin, created.UnixNano()),
		UserID:        userID,
		ContextType:   entity.ContextTypeFlightSearch,
		Origin:        origin,
		Destination:   "BOM",
		DepartureDate: "2025-08-16",
		Passengers:    1,
		CabinClass:    entity.CabinEconomy,
		RawParams:     params,
		OriginalQuery: "flights from " + origin + " to mumbai",
		CreatedAt:     created,
		ExpiresAt:     created.Add(30 * time.Minute),
		Active:        true,
	}
}

// runContextRepositoryContract checks behaviour every context backend must share
func runContextRepositoryContract(t *testing.T, newRepo func(t *testing.T) repository.ContextRepository) {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)

	t.Run("latest active wins", func(t *testing.T) {
		repo := newRepo(t)
		for i, origin := range []string{"DEL", "BLR", "MAA"} {
			if err := repo.Insert(ctx, newTestContext(7, base.Add(time.Duration(i)*time.Minute), origin)); err != nil {
				t.Fatalf("Insert: %v", err)
			}
		}

		got, err := repo.FindLatestActive(ctx, 7, base.Add(3*time.Minute))
		if err != nil {
			t.Fatalf("FindLatestActive: %v", err)
		}
		if got.Origin != "MAA" {
			t.Errorf("origin = %s, want MAA", got.Origin)
		}
		if got.RawParams.Destination != "BOM" {
			t.Errorf("raw params not round-tripped: %+v", got.RawParams)
		}
	})

	t.Run("users are isolated", func(t *testing.T) {
		repo := newRepo(t)
		if err := repo.Insert(ctx, newTestContext(entity.GuestUserID, base, "DEL")); err != nil {
			t.Fatalf("Insert: %v", err)
		}
		if _, err := repo.FindLatestActive(ctx, 8, base); !errors.Is(err, entity.ErrContextNotFound) {
			t.Errorf("err = %v, want ErrContextNotFound", err)
		}
		if _, err := repo.FindLatestActive(ctx, entity.GuestUserID, base); err != nil {
			t.Errorf("guest context not found: %v", err)
		}
	})

	t.Run("expired contexts are not returned", func(t *testing.T) {
		repo := newRepo(t)
		if err := repo.Insert(ctx, newTestContext(9, base, "DEL")); err != nil {
			t.Fatalf("Insert: %v", err)
		}

		later := base.Add(31 * time.Minute)
		if _, err := repo.FindLatestActive(ctx, 9, later); !errors.Is(err, entity.ErrContextNotFound) {
			t.Errorf("err = %v, want ErrContextNotFound", err)
		}
		n, err := repo.DeactivateExpired(ctx, 9, later)
		if err != nil || n != 1 {
			t.Errorf("DeactivateExpired = %d, %v; want 1", n, err)
		}
		if count, _ := repo.CountActive(ctx, 9, base); count != 0 {
			t.Errorf("count after deactivation = %d, want 0", count)
		}
	})

	t.Run("deactivate beyond keeps newest", func(t *testing.T) {
		repo := newRepo(t)
		origins := []string{"DEL", "BLR", "MAA", "CCU", "HYD", "PNQ", "GOI"}
		for i, origin := range origins {
			if err := repo.Insert(ctx, newTestContext(10, base.Add(time.Duration(i)*time.Second), origin)); err != nil {
				t.Fatalf("Insert: %v", err)
			}
		}

		n, err := repo.DeactivateBeyond(ctx, 10, 5)
		if err != nil || n != 2 {
			t.Fatalf("DeactivateBeyond = %d, %v; want 2", n, err)
		}
		now := base.Add(10 * time.Second)
		if count, _ := repo.CountActive(ctx, 10, now); count != 5 {
			t.Errorf("count = %d, want 5", count)
		}
		latest, err := repo.FindLatestActive(ctx, 10, now)
		if err != nil || latest.Origin != "GOI" {
			t.Errorf("latest = %+v, %v; want GOI", latest, err)
		}
	})

	t.Run("deactivate all and sweep", func(t *testing.T) {
		repo := newRepo(t)
		repo.Insert(ctx, newTestContext(11, base, "DEL"))
		repo.Insert(ctx, newTestContext(11, base.Add(time.Minute), "BLR"))
		repo.Insert(ctx, newTestContext(12, base, "MAA"))

		n, err := repo.DeactivateAll(ctx, 11)
		if err != nil || n != 2 {
			t.Errorf("DeactivateAll = %d, %v; want 2", n, err)
		}
		if n, _ := repo.DeactivateAll(ctx, 11); n != 0 {
			t.Errorf("second DeactivateAll = %d, want 0", n)
		}

		swept, err := repo.SweepExpired(ctx, base.Add(time.Hour))
		if err != nil || swept != 1 {
			t.Errorf("SweepExpired = %d, %v; want 1", swept, err)
		}
		if _, err := repo.FindLatestActive(ctx, 12, base); !errors.Is(err, entity.ErrContextNotFound) {
			t.Errorf("swept context still active: %v", err)
		}
	})
}
