package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/your-org/kbeauty-storefront/internal/pkg/storage"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// document is the stored shape of one key
type document struct {
	Key       string     `bson:"_id"`
	Value     string     `bson:"value"`
	ExpiresAt *time.Time `bson:"expires_at,omitempty"`
	UpdatedAt time.Time  `bson:"updated_at"`
}

// Store persists visitor state as one document per key
type Store struct {
	coll *mongo.Collection
	ttl  time.Duration
	now  func() time.Time
}

// NewStore creates a storage driver on coll. A zero ttl keeps documents forever.
func NewStore(coll *mongo.Collection, ttl time.Duration) *Store {
	return &Store{coll: coll, ttl: ttl, now: time.Now}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var doc document
	err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("mongo find: %w", err)
	}
	// The TTL monitor runs about once a minute
	if doc.ExpiresAt != nil && !s.now().Before(*doc.ExpiresAt) {
		return "", storage.ErrNotFound
	}
	return doc.Value, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	doc := document{Key: key, Value: value, UpdatedAt: s.now()}
	if s.ttl > 0 {
		exp := s.now().Add(s.ttl)
		doc.ExpiresAt = &exp
	}

	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo replace: %w", err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("mongo delete: %w", err)
	}
	return nil
}
