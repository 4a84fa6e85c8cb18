package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayush/notes-app/internal/models"
)

// ErrNoteNotFound is returned when no note matches both the note id and the
// owner id. A note that exists but belongs to someone else is indistinguishable
// from a missing one.
var ErrNoteNotFound = errors.New("note not found")

// NoteStore handles note CRUD in MongoDB. Every query filters on the owner's
// user id in addition to the note id.
type NoteStore struct {
	col *mongo.Collection
}

func NewNoteStore(db *mongo.Database) *NoteStore {
	return &NoteStore{col: db.Collection("notes")}
}

func (s *NoteStore) Insert(ctx context.Context, note *models.Note) (string, error) {
	now := time.Now()
	note.CreatedAt = now
	note.UpdatedAt = now
	res, err := s.col.InsertOne(ctx, note)
	if err != nil {
		return "", fmt.Errorf("mongo insert: %w", err)
	}
	oid := res.InsertedID.(primitive.ObjectID)
	return oid.Hex(), nil
}

func (s *NoteStore) GetByID(ctx context.Context, userID, id string) (*models.Note, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNoteNotFound
	}
	var note models.Note
	err = s.col.FindOne(ctx, bson.M{"_id": oid, "user_id": userID}).Decode(&note)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// Replace overwrites the stored document, still scoped to the owner.
func (s *NoteStore) Replace(ctx context.Context, userID string, note *models.Note) error {
	note.UpdatedAt = time.Now()
	res, err := s.col.ReplaceOne(ctx, bson.M{"_id": note.ID, "user_id": userID}, note)
	if err != nil {
		return fmt.Errorf("mongo replace: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNoteNotFound
	}
	return nil
}

// ListByOwner returns the owner's notes, pinned first, then insertion order.
func (s *NoteStore) ListByOwner(ctx context.Context, userID string) ([]models.Note, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "is_pinned", Value: -1},
		{Key: "created_at", Value: 1},
	})
	cur, err := s.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var notes []models.Note
	if err := cur.All(ctx, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (s *NoteStore) Delete(ctx context.Context, userID, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNoteNotFound
	}
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid, "user_id": userID})
	if err != nil {
		return fmt.Errorf("mongo delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNoteNotFound
	}
	return nil
}

// Search returns the owner's notes whose title or content contains the query,
// case-insensitively. The query is quoted so regex metacharacters match literally.
func (s *NoteStore) Search(ctx context.Context, userID, query string) ([]models.Note, error) {
	re := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{
		"user_id": userID,
		"$or": bson.A{
			bson.M{"title": re},
			bson.M{"content": re},
		},
	}
	cur, err := s.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var notes []models.Note
	if err := cur.All(ctx, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}
