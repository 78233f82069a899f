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

// StudyRepo handles MongoDB operations for studies
type StudyRepo interface {
	Create(ctx context.Context, study *model.Study) (string, error)
	GetByID(ctx context.Context, id string) (*model.Study, error)
	List(ctx context.Context) ([]*model.Study, error)
	Delete(ctx context.Context, id string) error
}

type studyRepo struct {
	collection *mongo.Collection
}

// NewStudyRepo creates a new study repository
func NewStudyRepo(db *mongo.Database) StudyRepo {
	return &studyRepo{
		collection: db.Collection("studies"),
	}
}

func (r *studyRepo) Create(ctx context.Context, study *model.Study) (string, error) {
	if study.ID == "" {
		study.ID = uuid.New().String()
	}
	study.CreatedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, study); err != nil {
		return "", err
	}
	return study.ID, nil
}

func (r *studyRepo) GetByID(ctx context.Context, id string) (*model.Study, error) {
	var study model.Study
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&study)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &study, nil
}

func (r *studyRepo) List(ctx context.Context) ([]*model.Study, error) {
	// Listings never need the respondent rows; projecting them out keeps
	// the payload small even for large studies.
	opts := options.Find().SetProjection(bson.M{"rows": 0, "header": 0})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var studies []*model.Study
	if err := cursor.All(ctx, &studies); err != nil {
		return nil, err
	}
	return studies, nil
}

func (r *studyRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
