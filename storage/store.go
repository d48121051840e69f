package storage

// Store represents a key-value store.
type Store interface {
	// Get reports whether the key is in the store, and its value if so.
	Get(key string) (value []byte, found bool)

	Put(key string, value []byte)

	// Delete should be a no-op if the key is not in the store.
	Delete(key string)
}

func dup(b []byte) []byte {
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
