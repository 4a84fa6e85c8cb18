package store

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ayush/notes-app/internal/models"
)

// cacheTTL bounds staleness for the notes list; writes also invalidate eagerly.
const cacheTTL = 60 * time.Second

// NewRedisClient creates and pings a Redis client with optional password auth.
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}

// NoteCache caches each user's full notes list in Redis. It is strictly an
// optimization: every error is logged and treated as a miss, never surfaced.
type NoteCache struct {
	rdb *redis.Client
}

func NewNoteCache(rdb *redis.Client) *NoteCache {
	return &NoteCache{rdb: rdb}
}

func noteKey(userID string) string { return "notes:" + userID }

// GetNotes returns the cached list for the user, or false on a miss.
func (c *NoteCache) GetNotes(ctx context.Context, userID string) ([]models.Note, bool) {
	val, err := c.rdb.Get(ctx, noteKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("note cache get: %v", err)
		return nil, false
	}
	var notes []models.Note
	if err := json.Unmarshal(val, &notes); err != nil {
		log.Printf("note cache decode: %v", err)
		return nil, false
	}
	return notes, true
}

// SetNotes stores the user's notes list with a short TTL.
func (c *NoteCache) SetNotes(ctx context.Context, userID string, notes []models.Note) {
	data, err := json.Marshal(notes)
	if err != nil {
		log.Printf("note cache encode: %v", err)
		return
	}
	if err := c.rdb.Set(ctx, noteKey(userID), data, cacheTTL).Err(); err != nil {
		log.Printf("note cache set: %v", err)
	}
}

// Invalidate drops the user's cached list after any write.
func (c *NoteCache) Invalidate(ctx context.Context, userID string) {
	if err := c.rdb.Del(ctx, noteKey(userID)).Err(); err != nil {
		log.Printf("note cache invalidate: %v", err)
	}
}
