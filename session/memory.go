package session

import "sync"

// MemoryStore is an in-process [Store] for tests and ephemeral runs. It
// deep-copies on both Write and Read so callers cannot alias the stored
// record.
type MemoryStore struct {
	mu   sync.Mutex
	sess *Session
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Read returns a copy of the stored session, or absent.
func (m *MemoryStore) Read() (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.sess.valid() {
		return nil, false
	}
	return m.sess.clone(), true
}

// Write replaces the stored session.
func (m *MemoryStore) Write(token, tokenType string, user *User) error {
	if err := checkWrite(token, user); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sess = (&Session{Token: token, TokenType: tokenType, User: user}).clone()
	return nil
}

// Clear drops the stored session.
func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sess = nil
	return nil
}
