package ports

import "context"

// Persistence is a string key-value store for durable game state. The
// controller serializes the entire game state as one JSON blob under a
// fixed key; adapters decide where the blob lives.
type Persistence interface {
	// Get retrieves the value for key. The second return is false when the
	// key does not exist.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set durably stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}
