package storage

// Store is a narrow key-value contract the local itinerary backend persists
// through. Values are opaque byte blobs (serialized JSON by convention).
type Store interface {
	// Get returns the stored value and whether the key exists.
	Get(key string) ([]byte, bool, error)
	// Set writes the value for key, replacing any previous value.
	Set(key string, value []byte) error
	// Delete removes the key. Deleting an absent key is a no-op.
	Delete(key string) error
}
