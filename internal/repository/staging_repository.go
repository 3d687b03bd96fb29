package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/noah-isme/filedrop-bot/internal/models"
)

// StagingRepository persists staged file references pending a save.
type StagingRepository struct {
	collection *mongo.Collection
}

// NewStagingRepository constructs the staging repository.
func NewStagingRepository(collection *mongo.Collection) *StagingRepository {
	return &StagingRepository{collection: collection}
}

// Insert stores one staged file reference.
func (r *StagingRepository) Insert(ctx context.Context, file *models.StagedFile) error {
	_, err := r.collection.InsertOne(ctx, file)
	return err
}

// FindByOwner returns the owner's staged files in upload order.
func (r *StagingRepository) FindByOwner(ctx context.Context, ownerID int64) ([]models.StagedFile, error) {
	opts := options.Find().SetSort(bson.D{{Key: "staged_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var files []models.StagedFile
	for cursor.Next(ctx) {
		var file models.StagedFile
		if err := cursor.Decode(&file); err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, cursor.Err()
}

// DeleteByOwner clears all staged files for the owner and reports how many
// were removed.
func (r *StagingRepository) DeleteByOwner(ctx context.Context, ownerID int64) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"user_id": ownerID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates the owner lookup index.
func (r *StagingRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "staged_at", Value: 1}},
		Options: options.Index().SetName("owner_staged_at"),
	})
	return err
}
