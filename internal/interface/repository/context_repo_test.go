package repository

import (
	"testing"

	"flightassist-service/internal/domain/repository"
	"flightassist-service/internal/infrastructure/persistence"

	"gorm.io/gorm"
)

func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := persistence.NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestGormContextRepository(t *testing.T) {
	runContextRepositoryContract(t, func(t *testing.T) repository.ContextRepository {
		return NewGormContextRepository(newSQLiteDB(t))
	})
}
