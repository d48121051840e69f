package storage

// InMemoryStore is a Store implementation powered by a map. It lives as long
// as the process that created it. It is not safe for concurrent use; the
// fixture server only touches it from its accept loop.
type InMemoryStore struct {
	m map[string][]byte
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		m: make(map[string][]byte),
	}
}

func (s *InMemoryStore) Get(key string) (value []byte, found bool) {
	value, found = s.m[key]
	if !found {
		return nil, false
	}
	return value, true
}

func (s *InMemoryStore) Put(key string, value []byte) {
	s.m[key] = dup(value)
}

func (s *InMemoryStore) Delete(key string) {
	delete(s.m, key)
}

// Len returns the number of keys in the store.
func (s *InMemoryStore) Len() int {
	return len(s.m)
}
