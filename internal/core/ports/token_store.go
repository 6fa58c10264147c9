package ports

import "context"

// TokenEvent notifies that the persisted token changed. Origin identifies the
// tab that wrote it.
type TokenEvent struct {
	Origin  string
	Present bool
}

// TokenStore is durable key-value storage for the bearer token, shared by all
// tabs of the storefront. Writes are last-write-wins.
type TokenStore interface {
	// Get returns the persisted token, or "" when there is none.
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	// Delete removes the token. Deleting a missing token is not an error.
	Delete(ctx context.Context) error
	// Subscribe delivers an event for every write to the token, including
	// the subscriber's own. The channel is closed when ctx is done.
	Subscribe(ctx context.Context) (<-chan TokenEvent, error)
	Ping(ctx context.Context) error
}
