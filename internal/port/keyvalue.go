package port

import "context"

// KeyValueStore is the durable local store the ledger persists its two
// snapshot keys to. Implementations must fully overwrite on Set so the
// stored value never diverges from the in-memory snapshot.
type KeyValueStore interface {
	// Get returns the stored value for key; ok is false when the key
	// has never been written (which is not an error).
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set overwrites the value stored under key.
	Set(ctx context.Context, key, value string) error

	// Delete removes key entirely; deleting an absent key is a no-op.
	Delete(ctx context.Context, key string) error
}
