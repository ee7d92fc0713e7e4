// Package store provides durable keyed persistence for campaign state.
//
// The campaign collections are stored as JSON blobs under stable keys. The KV
// interface is the injection point: production uses SQLite, tests use the
// in-memory implementation.
package store

// KV is durable keyed storage. Load returns nil data (and no error) when the
// key is absent. Implementations must be safe for concurrent use.
type KV interface {
	Load(key string) ([]byte, error)
	Save(key string, data []byte) error
	Delete(key string) error
	Close() error
}
