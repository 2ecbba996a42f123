package jsonfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// DocumentStore keeps one logical collection as a single JSON-array file.
// Records are addressed by an identifier attribute chosen by the caller per
// collection (e.g. "model_id", "control_id"); identifier values are unique
// within a collection.
//
// Saves go through a temp file in the same directory followed by a rename, so
// readers always observe a complete prior-or-new file and need no lock.
type DocumentStore struct {
	path string
}

func NewDocumentStore(path string) *DocumentStore {
	return &DocumentStore{path: path}
}

// Path returns the backing file path.
func (s *DocumentStore) Path() string { return s.path }

// Load reads the whole collection. A missing file is an empty collection; a
// file that does not parse as a JSON array is treated the same way, logged as
// a data-integrity concern rather than failed on.
func (s *DocumentStore) Load() ([]Record, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.path, err)
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		log.Printf("collection %s is not a valid JSON array, treating as empty: %v", s.path, err)
		return []Record{}, nil
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// Save atomically replaces the collection file with the serialized records.
func (s *DocumentStore) Save(records []Record) error {
	lock := lockFor(s.path)
	lock.Lock()
	defer lock.Unlock()
	return s.save(records)
}

// save writes without taking the lock; mutating operations call it while
// already holding the lock for their full load-modify-save cycle.
func (s *DocumentStore) save(records []Record) error {
	if records == nil {
		records = []Record{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode %s: %w", s.path, err)
	}
	return writeAtomic(s.path, buf.Bytes())
}

// FindByID returns the first record whose idField equals idValue, or
// ErrNotFound.
func (s *DocumentStore) FindByID(idField, idValue string) (Record, error) {
	records, err := s.Load()
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if v, ok := rec[idField].(string); ok && v == idValue {
			return rec, nil
		}
	}
	return nil, ErrNotFound
}

// Exists reports whether a record with the given identifier value is present.
func (s *DocumentStore) Exists(idField, idValue string) (bool, error) {
	_, err := s.FindByID(idField, idValue)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Filter returns the records matching every given attribute, in file order.
func (s *DocumentStore) Filter(attrs Record) ([]Record, error) {
	records, err := s.Load()
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if matchAll(rec, attrs) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Create appends the record, failing with ErrConflict when a record with the
// same identifier value already exists.
func (s *DocumentStore) Create(idField string, rec Record) error {
	lock := lockFor(s.path)
	lock.Lock()
	defer lock.Unlock()

	records, err := s.Load()
	if err != nil {
		return err
	}
	id, _ := rec[idField].(string)
	for _, existing := range records {
		if v, ok := existing[idField].(string); ok && v == id {
			return fmt.Errorf("%s=%s: %w", idField, id, ErrConflict)
		}
	}
	return s.save(append(records, rec))
}

// UpdateByID merges updates into the matching record; attributes not listed
// stay untouched. Returns the merged record. Fails with ErrNotFound when no
// record matches and ErrNoUpdates when updates is empty.
func (s *DocumentStore) UpdateByID(idField, idValue string, updates Record) (Record, error) {
	if len(updates) == 0 {
		return nil, ErrNoUpdates
	}
	lock := lockFor(s.path)
	lock.Lock()
	defer lock.Unlock()

	records, err := s.Load()
	if err != nil {
		return nil, err
	}
	for i, rec := range records {
		if v, ok := rec[idField].(string); !ok || v != idValue {
			continue
		}
		for k, val := range updates {
			records[i][k] = val
		}
		if err := s.save(records); err != nil {
			return nil, err
		}
		return records[i], nil
	}
	return nil, fmt.Errorf("%s=%s: %w", idField, idValue, ErrNotFound)
}

// DeleteByID removes the matching record and reports whether a deletion
// occurred. When nothing matches the file is left untouched.
func (s *DocumentStore) DeleteByID(idField, idValue string) (bool, error) {
	lock := lockFor(s.path)
	lock.Lock()
	defer lock.Unlock()

	records, err := s.Load()
	if err != nil {
		return false, err
	}
	kept := records[:0]
	for _, rec := range records {
		if v, ok := rec[idField].(string); ok && v == idValue {
			continue
		}
		kept = append(kept, rec)
	}
	if len(kept) == len(records) {
		return false, nil
	}
	if err := s.save(kept); err != nil {
		return false, err
	}
	return true, nil
}

// writeAtomic writes data to a temp file in the target's directory, syncs it,
// then renames it over the target. A crash mid-write leaves the prior file
// intact; a concurrent reader never sees a partial file.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
