package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/coursestore/storefront/internal/core/ports"
)

const (
	defaultTokenCollection = "session_tokens"
	eventBuffer            = 16
)

// tokenDoc holds one token per key. A logout keeps the document with an
// empty token, so every write is an update the change stream can see with
// its full document.
type tokenDoc struct {
	Key       string    `bson:"_id"`
	Token     string    `bson:"token"`
	Origin    string    `bson:"origin"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type changeEvent struct {
	OperationType string    `bson:"operationType"`
	FullDocument  *tokenDoc `bson:"fullDocument"`
}

// TokenStore keeps the token in a MongoDB document and follows writes through
// a change stream. Change streams need a replica set or sharded cluster.
type TokenStore struct {
	col    *mongo.Collection
	key    string
	origin string
	log    zerolog.Logger
}

// NewTokenStore uses collection in db; an empty name selects session_tokens.
func NewTokenStore(db *mongo.Database, collection, key, origin string, log zerolog.Logger) *TokenStore {
	if collection == "" {
		collection = defaultTokenCollection
	}
	return &TokenStore{
		col:    db.Collection(collection),
		key:    key,
		origin: origin,
		log:    log,
	}
}

func (s *TokenStore) Get(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc tokenDoc
	err := s.col.FindOne(ctx, bson.M{"_id": s.key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("mongo find token: %w", err)
	}
	return doc.Token, nil
}

func (s *TokenStore) Set(ctx context.Context, token string) error {
	return s.write(ctx, token)
}

func (s *TokenStore) Delete(ctx context.Context) error {
	return s.write(ctx, "")
}

func (s *TokenStore) write(ctx context.Context, token string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"token":      token,
		"origin":     s.origin,
		"updated_at": time.Now().UTC(),
	}}
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": s.key}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo write token: %w", err)
	}
	return nil
}

// Subscribe opens the change stream before returning.
func (s *TokenStore) Subscribe(ctx context.Context) (<-chan ports.TokenEvent, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "documentKey._id", Value: s.key}}}},
	}
	stream, err := s.col.Watch(ctx, pipeline, options.ChangeStream().SetFullDocument(options.UpdateLookup))
	if err != nil {
		return nil, fmt.Errorf("mongo watch tokens: %w", err)
	}

	out := make(chan ports.TokenEvent, eventBuffer)
	go func() {
		defer close(out)
		defer stream.Close(context.Background())

		for stream.Next(ctx) {
			var change changeEvent
			if err := stream.Decode(&change); err != nil {
				s.log.Warn().Err(err).Msg("skipping undecodable token change")
				continue
			}
			ev := toTokenEvent(change)
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			s.log.Error().Err(err).Msg("token change stream stopped")
		}
	}()
	return out, nil
}

func toTokenEvent(change changeEvent) ports.TokenEvent {
	if change.OperationType == "delete" || change.FullDocument == nil {
		return ports.TokenEvent{Present: false}
	}
	return ports.TokenEvent{
		Origin:  change.FullDocument.Origin,
		Present: change.FullDocument.Token != "",
	}
}

func (s *TokenStore) Ping(ctx context.Context) error {
	if err := s.col.Database().Client().Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongo ping: %w", err)
	}
	return nil
}
