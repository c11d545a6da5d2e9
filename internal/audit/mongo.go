package audit

import (
	"context"
	"fmt"

	"caro-game/internal/db"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRecorder stores decisions in the ai_decisions collection.
type MongoRecorder struct {
	database *db.MongoDB
}

func NewMongoRecorder(uri, database string) (*MongoRecorder, error) {
	m, err := db.NewMongoDB(uri, database)
	if err != nil {
		return nil, err
	}
	return &MongoRecorder{database: m}, nil
}

func (r *MongoRecorder) Record(ctx context.Context, d Decision) error {
	if _, err := r.database.Decisions().InsertOne(ctx, d); err != nil {
		return fmt.Errorf("failed to insert decision: %w", err)
	}
	return nil
}

func (r *MongoRecorder) Recent(ctx context.Context, limit int) ([]Decision, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.database.Decisions().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query decisions: %w", err)
	}
	defer cursor.Close(ctx)

	var out []Decision
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode decisions: %w", err)
	}
	return out, nil
}

func (r *MongoRecorder) Purge(ctx context.Context) (int64, error) {
	res, err := r.database.Decisions().DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to delete decisions: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *MongoRecorder) Close(ctx context.Context) error {
	return r.database.Close(ctx)
}
