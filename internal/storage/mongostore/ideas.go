package mongostore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/brightideas/bright-ideas-backend/internal/models"
	"github.com/brightideas/bright-ideas-backend/internal/storage"
)

// IdeaStore is the MongoDB-backed idea collection.
type IdeaStore struct {
	col *mongo.Collection
}

func NewIdeaStore(db *mongo.Database) *IdeaStore {
	return &IdeaStore{col: db.Collection("ideas")}
}

func (s *IdeaStore) Create(ctx context.Context, idea *models.Idea) (*models.Idea, error) {
	now := time.Now().UTC()
	idea.ID = primitive.NewObjectID()
	idea.CreatedAt = now
	idea.UpdatedAt = now
	if idea.Likes == nil {
		idea.Likes = []primitive.ObjectID{}
	}
	if idea.Comments == nil {
		idea.Comments = []models.Comment{}
	}
	if idea.Reports == nil {
		idea.Reports = []models.Report{}
	}

	if _, err := s.col.InsertOne(ctx, idea); err != nil {
		return nil, err
	}
	return idea, nil
}

func (s *IdeaStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Idea, error) {
	var idea models.Idea
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&idea)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &idea, nil
}

func (s *IdeaStore) List(ctx context.Context) ([]*models.Idea, error) {
	return s.find(ctx, bson.M{})
}

func (s *IdeaStore) ListByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]*models.Idea, error) {
	return s.find(ctx, bson.M{"author": authorID})
}

func (s *IdeaStore) find(ctx context.Context, filter bson.M) ([]*models.Idea, error) {
	cursor, err := s.col.Find(ctx, filter, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	ideas := []*models.Idea{}
	if err := cursor.All(ctx, &ideas); err != nil {
		return nil, err
	}
	return ideas, nil
}

func (s *IdeaStore) UpdateText(ctx context.Context, id primitive.ObjectID, text string) (*models.Idea, error) {
	update := bson.M{"$set": bson.M{"text": text, "updatedAt": time.Now().UTC()}}
	return s.findOneAndUpdate(ctx, id, update)
}

func (s *IdeaStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *IdeaStore) DeleteByAuthor(ctx context.Context, authorID primitive.ObjectID) error {
	_, err := s.col.DeleteMany(ctx, bson.M{"author": authorID})
	return err
}

// AddLike and RemoveLike use $addToSet/$pull so two users toggling their own
// like on the same idea never overwrite each other.

func (s *IdeaStore) AddLike(ctx context.Context, id, userID primitive.ObjectID) (*models.Idea, error) {
	update := bson.M{
		"$addToSet": bson.M{"likes": userID},
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	}
	return s.findOneAndUpdate(ctx, id, update)
}

func (s *IdeaStore) RemoveLike(ctx context.Context, id, userID primitive.ObjectID) (*models.Idea, error) {
	update := bson.M{
		"$pull": bson.M{"likes": userID},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	return s.findOneAndUpdate(ctx, id, update)
}

func (s *IdeaStore) AddComment(ctx context.Context, id primitive.ObjectID, comment models.Comment) (*models.Idea, error) {
	update := bson.M{
		"$push": bson.M{"comments": comment},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	return s.findOneAndUpdate(ctx, id, update)
}

func (s *IdeaStore) AddReport(ctx context.Context, id primitive.ObjectID, report models.Report) error {
	update := bson.M{
		"$push": bson.M{"reports": report},
		"$set":  bson.M{"isReported": true, "updatedAt": time.Now().UTC()},
	}
	result, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *IdeaStore) findOneAndUpdate(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.Idea, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var idea models.Idea
	err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&idea)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &idea, nil
}

func (s *IdeaStore) Count(ctx context.Context) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{})
}

func (s *IdeaStore) CountReported(ctx context.Context) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{"isReported": true})
}

func (s *IdeaStore) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{"createdAt": bson.M{"$gte": from, "$lt": to}})
}
