package repository

import (
	"context"
	"os"
	"testing"

	"flightassist-service/internal/domain/entity"
	"flightassist-service/internal/infrastructure/persistence"

	"github.com/google/uuid"
)

func TestMongoQueryLogRepository(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set, skipping mongo integration test")
	}

	ctx := context.Background()
	client, err := persistence.NewMongoClient(ctx, uri, "", "")
	if err != nil {
		t.Fatalf("connect mongo: %v", err)
	}
	db := persistence.GetDatabase(client, "flightassist_test_"+uuid.NewString()[:8])
	t.Cleanup(func() {
		db.Drop(ctx)
		client.Disconnect(ctx)
	})

	repo := NewMongoQueryLogRepository(db)
	for _, e := range []entity.QueryLogEntry{
		{QueryText: "indigo flights", DetectedCode: "6E", Success: true},
		{QueryText: "indigo flights", DetectedCode: "6E", Success: true},
		{QueryText: "zork air", Success: false},
	} {
		e := e
		if err := repo.Append(ctx, &e); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	total, ok, err := repo.Counts(ctx)
	if err != nil || total != 3 || ok != 2 {
		t.Errorf("Counts = %d, %d, %v", total, ok, err)
	}
	common, err := repo.CommonQueries(ctx, 1)
	if err != nil || len(common) != 1 || common[0].QueryText != "indigo flights" || common[0].Count != 2 {
		t.Errorf("CommonQueries = %+v, %v", common, err)
	}
}
