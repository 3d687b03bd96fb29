package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/noah-isme/filedrop-bot/internal/models"
)

// FileRepository persists committed, code-addressed file references.
type FileRepository struct {
	collection *mongo.Collection
}

// NewFileRepository constructs the saved-files repository.
func NewFileRepository(collection *mongo.Collection) *FileRepository {
	return &FileRepository{collection: collection}
}

// InsertMany stores one record per committed file.
func (r *FileRepository) InsertMany(ctx context.Context, files []models.SavedFile) error {
	if len(files) == 0 {
		return nil
	}
	docs := make([]interface{}, len(files))
	for i := range files {
		docs[i] = files[i]
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// FindByCode returns every file saved under the code, in batch order.
func (r *FileRepository) FindByCode(ctx context.Context, code string) ([]models.SavedFile, error) {
	opts := options.Find().SetSort(bson.D{{Key: "seq", Value: 1}})
	return r.find(ctx, bson.M{"code": code}, opts)
}

// FindByOwner returns every file saved by the owner across all codes.
func (r *FileRepository) FindByOwner(ctx context.Context, ownerID int64) ([]models.SavedFile, error) {
	opts := options.Find().SetSort(bson.D{{Key: "saved_at", Value: 1}})
	return r.find(ctx, bson.M{"user_id": ownerID}, opts)
}

// CountByCode reports how many saved files carry the code.
func (r *FileRepository) CountByCode(ctx context.Context, code string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"code": code})
}

// DeleteByCodeAndOwner removes every record matching both the code and the
// owner, reporting how many were deleted.
func (r *FileRepository) DeleteByCodeAndOwner(ctx context.Context, code string, ownerID int64) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"code": code, "user_id": ownerID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates the code and owner lookup indexes.
func (r *FileRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "code", Value: 1}, {Key: "seq", Value: 1}},
			Options: options.Index().SetName("code_seq"),
		},
		{
			Keys:    bson.D{{Key: "code", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().SetName("code_owner"),
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *FileRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.SavedFile, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var files []models.SavedFile
	for cursor.Next(ctx) {
		var file models.SavedFile
		if err := cursor.Decode(&file); err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, cursor.Err()
}
