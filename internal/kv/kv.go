// Package kv provides the durable key-value backing capability the
// store persists through. Values are raw JSON documents; keys are
// plain strings. Implementations must be safe for a single logical
// writer; nothing here coordinates concurrent application instances.
package kv

import (
	"context"
	"encoding/json"
)

// Store is the backing-store contract: synchronous get/set of JSON
// values by string key. A missing key is reported via the ok return,
// never as an error.
type Store interface {
	Get(ctx context.Context, key string) (value json.RawMessage, ok bool, err error)
	Set(ctx context.Context, key string, value json.RawMessage) error
	Close() error
}
