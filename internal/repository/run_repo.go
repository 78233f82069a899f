package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ascentra/internal/model"
)

// RunRepo handles MongoDB operations for run artifacts
type RunRepo interface {
	Create(ctx context.Context, run *model.Run) (string, error)
	GetByID(ctx context.Context, id string) (*model.Run, error)
	GetBySessionID(ctx context.Context, sessionID string) ([]*model.Run, error)
}

type runRepo struct {
	collection *mongo.Collection
}

// NewRunRepo creates a new run repository
func NewRunRepo(db *mongo.Database) RunRepo {
	return &runRepo{
		collection: db.Collection("runs"),
	}
}

func (r *runRepo) Create(ctx context.Context, run *model.Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	run.CreatedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, run); err != nil {
		return "", err
	}
	return run.ID, nil
}

func (r *runRepo) GetByID(ctx context.Context, id string) (*model.Run, error) {
	var run model.Run
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&run)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *runRepo) GetBySessionID(ctx context.Context, sessionID string) ([]*model.Run, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, bson.M{"sessionId": sessionID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var runs []*model.Run
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}
