package repository

import (
	"testing"
	"time"

	"flightassist-service/internal/domain/repository"
	"flightassist-service/internal/infrastructure/persistence"
)

func TestBadgerContextRepository(t *testing.T) {
	runContextRepositoryContract(t, func(t *testing.T) repository.ContextRepository {
		db, err := persistence.NewBadgerDB("")
		if err != nil {
			t.Fatalf("open badger: %v", err)
		}
		t.Cleanup(func() { db.Close() })
		return NewBadgerContextRepository(db, time.Hour)
	})
}
