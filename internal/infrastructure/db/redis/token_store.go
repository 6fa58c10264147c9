package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/coursestore/storefront/internal/core/ports"
)

const eventBuffer = 16

// tokenMessage is published on the change channel after every write.
type tokenMessage struct {
	Key     string `json:"key"`
	Origin  string `json:"origin"`
	Present bool   `json:"present"`
}

// TokenStore keeps the token under a plain Redis key and announces writes on
// a Pub/Sub channel, so storefront processes on other hosts can follow.
type TokenStore struct {
	client  *redis.Client
	key     string
	channel string
	origin  string
	log     zerolog.Logger
}

func NewTokenStore(client *redis.Client, key, channel, origin string, log zerolog.Logger) *TokenStore {
	return &TokenStore{
		client:  client,
		key:     key,
		channel: channel,
		origin:  origin,
		log:     log,
	}
}

func (s *TokenStore) Get(ctx context.Context) (string, error) {
	token, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get token: %w", err)
	}
	return token, nil
}

func (s *TokenStore) Set(ctx context.Context, token string) error {
	return s.write(ctx, token)
}

func (s *TokenStore) Delete(ctx context.Context) error {
	return s.write(ctx, "")
}

// write stores or removes the token and publishes the change in one
// MULTI/EXEC, so a subscriber never sees the event before the value.
func (s *TokenStore) write(ctx context.Context, token string) error {
	payload, err := json.Marshal(tokenMessage{Key: s.key, Origin: s.origin, Present: token != ""})
	if err != nil {
		return fmt.Errorf("encode token event: %w", err)
	}

	pipe := s.client.TxPipeline()
	if token == "" {
		pipe.Del(ctx, s.key)
	} else {
		pipe.Set(ctx, s.key, token, 0)
	}
	pipe.Publish(ctx, s.channel, payload)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis write token: %w", err)
	}
	return nil
}

// Subscribe confirms the channel subscription before returning, so no write
// made after Subscribe returns can be missed.
func (s *TokenStore) Subscribe(ctx context.Context) (<-chan ports.TokenEvent, error) {
	pubsub := s.client.Subscribe(ctx, s.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("redis subscribe %s: %w", s.channel, err)
	}

	out := make(chan ports.TokenEvent, eventBuffer)
	go func() {
		defer close(out)
		defer pubsub.Close()

		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				ev, ok := s.decode(msg.Payload)
				if !ok {
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (s *TokenStore) decode(payload string) (ports.TokenEvent, bool) {
	var msg tokenMessage
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		s.log.Warn().Err(err).Str("channel", s.channel).Msg("skipping malformed token event")
		return ports.TokenEvent{}, false
	}
	if msg.Key != s.key {
		return ports.TokenEvent{}, false
	}
	return ports.TokenEvent{Origin: msg.Origin, Present: msg.Present}, true
}

func (s *TokenStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}
