package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists the session as a small JSON document on disk, the
// Go-process analog of the browser profile's local storage. The document
// maps slot names to raw values; unknown slots are preserved across writes.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a FileStore rooted at path. The file is created on
// first Write; a missing file simply reads as absent.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Read loads the persisted session. Any failure along the way — missing
// file, unreadable document, malformed slot, partial record — reports
// absent.
func (f *FileStore) Read() (*Session, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return nil, false
	}
	raw, ok := doc[SlotKey]
	if !ok {
		return nil, false
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, false
	}
	if !sess.valid() {
		return nil, false
	}
	return &sess, true
}

// Write persists the full record, replacing any prior value. The document is
// written to a temp file and renamed into place so readers never observe a
// partial write.
func (f *FileStore) Write(token, tokenType string, user *User) error {
	if err := checkWrite(token, user); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		doc = map[string]json.RawMessage{}
	}

	raw, err := json.Marshal(&Session{Token: token, TokenType: tokenType, User: user})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	legacy, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("encode legacy token: %w", err)
	}
	doc[SlotKey] = raw
	doc[LegacySlotKey] = legacy

	return f.save(doc)
}

// Clear removes the session slot and the legacy token slot. Clearing an
// absent session is a no-op.
func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		// Unreadable document reads as absent everywhere else; drop it.
		if rmErr := os.Remove(f.path); rmErr != nil && !os.IsNotExist(rmErr) {
			return rmErr
		}
		return nil
	}

	delete(doc, SlotKey)
	delete(doc, LegacySlotKey)

	if len(doc) == 0 {
		if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}
	return f.save(doc)
}

func (f *FileStore) load() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, err
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = map[string]json.RawMessage{}
	}
	return doc, nil
}

func (f *FileStore) save(doc map[string]json.RawMessage) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode storage document: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".auth-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, f.path)
}
