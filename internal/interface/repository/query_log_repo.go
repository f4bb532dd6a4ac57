package repository

import (
	"context"
	"fmt"
	"time"

	"flightassist-service/internal/domain/entity"
	"flightassist-service/internal/domain/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoQueryLogRepository implements the QueryLogRepository interface
type MongoQueryLogRepository struct {
	collection *mongo.Collection
}

// NewMongoQueryLogRepository creates a new MongoDB query log repository
func NewMongoQueryLogRepository(db *mongo.Database) repository.QueryLogRepository {
	collection := db.Collection("airline_queries")

	ctx := context.Background()

	// Index on timestamp for recent-first reads
	timestampIndex := mongo.IndexModel{
		Keys: bson.M{"timestamp": -1},
	}

	// Index on queryText for the common-queries aggregation
	queryTextIndex := mongo.IndexModel{
		Keys: bson.M{"queryText": 1},
	}

	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		timestampIndex,
		queryTextIndex,
	})

	return &MongoQueryLogRepository{
		collection: collection,
	}
}

// Append writes one detection record
func (r *MongoQueryLogRepository) Append(ctx context.Context, e *entity.QueryLogEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	if _, err := r.collection.InsertOne(ctx, e); err != nil {
		return fmt.Errorf("failed to append query log: %w", err)
	}
	return nil
}

// Counts returns the total and successful detection counts
func (r *MongoQueryLogRepository) Counts(ctx context.Context) (int64, int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count queries: %w", err)
	}
	successful, err := r.collection.CountDocuments(ctx, bson.M{"success": true})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count successful queries: %w", err)
	}
	return total, successful, nil
}

// CommonQueries returns the most frequent query texts
func (r *MongoQueryLogRepository) CommonQueries(ctx context.Context, limit int) ([]entity.QueryCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$queryText"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate queries: %w", err)
	}
	defer cursor.Close(ctx)

	results := []entity.QueryCount{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}
