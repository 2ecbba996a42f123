package jsonfile

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultSortAttr orders per-entity reads when the caller does not name a
// sort attribute.
const DefaultSortAttr = "timestamp"

// EventLog keeps one append-only sequence of records as a newline-delimited
// JSON file. Events are immutable once appended; the only mutation is bulk
// removal by exact-match filter, implemented as an atomic rewrite.
type EventLog struct {
	path string

	// OnCorrupt, when set, receives the 1-based line number and parse error
	// for every line skipped during a read. Reads themselves never fail on a
	// malformed line; the log stays available with historical corruption.
	OnCorrupt func(line int, err error)
}

func NewEventLog(path string) *EventLog {
	return &EventLog{path: path}
}

// Path returns the backing file path.
func (l *EventLog) Path() string { return l.path }

// Append serializes the record as one JSON line and writes it to the end of
// the file, creating the file if absent. The line is written in a single
// O_APPEND write under the file lock, so concurrent appenders cannot
// interleave partial lines and a crash after Append returns never damages
// prior lines.
func (l *EventLog) Append(rec Record) error {
	line, err := marshalCompact(rec)
	if err != nil {
		return fmt.Errorf("encode event for %s: %w", l.path, err)
	}
	line = append(line, '\n')

	lock := lockFor(l.path)
	lock.Lock()
	defer lock.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("mkdir for %s: %w", l.path, err)
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", l.path, err)
	}
	defer f.Close()
	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("append %s: %w", l.path, err)
	}
	return nil
}

// ReadAll parses the file line by line in file order. Blank lines are
// ignored; lines that fail to parse are skipped and reported through
// OnCorrupt when set.
func (l *EventLog) ReadAll() ([]Record, error) {
	f, err := os.Open(l.path)
	if os.IsNotExist(err) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	defer f.Close()

	records := []Record{}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			if l.OnCorrupt != nil {
				l.OnCorrupt(lineNo, err)
			}
			continue
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", l.path, err)
	}
	return records, nil
}

// Filter keeps the records where every given attribute equals the given
// value, preserving file order.
func (l *EventLog) Filter(attrs Record) ([]Record, error) {
	records, err := l.ReadAll()
	if err != nil {
		return nil, err
	}
	out := []Record{}
	for _, rec := range records {
		if matchAll(rec, attrs) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// AllForEntity returns every record whose entityIDAttr equals entityID,
// sorted descending by sortBy (DefaultSortAttr when empty). Records with
// equal sort keys keep their append order.
func (l *EventLog) AllForEntity(entityIDAttr, entityID, sortBy string) ([]Record, error) {
	if sortBy == "" {
		sortBy = DefaultSortAttr
	}
	records, err := l.Filter(Record{entityIDAttr: entityID})
	if err != nil {
		return nil, err
	}
	SortDescending(records, sortBy)
	return records, nil
}

// LatestForEntity returns the most recent record for the entity, or
// ErrNotFound when the entity has no events.
func (l *EventLog) LatestForEntity(entityIDAttr, entityID, sortBy string) (Record, error) {
	records, err := l.AllForEntity(entityIDAttr, entityID, sortBy)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return records[0], nil
}

// Count returns the number of records matching the filter.
func (l *EventLog) Count(attrs Record) (int, error) {
	records, err := l.Filter(attrs)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// DeleteByFilter removes every record matching all given attributes and
// rewrites the file with the kept records in their original order, returning
// the number removed. The rewrite uses the same temp-file-then-rename
// discipline as DocumentStore saves: a crash mid-rewrite cannot lose the
// prior log.
func (l *EventLog) DeleteByFilter(attrs Record) (int, error) {
	lock := lockFor(l.path)
	lock.Lock()
	defer lock.Unlock()

	records, err := l.ReadAll()
	if err != nil {
		return 0, err
	}
	var buf bytes.Buffer
	kept := 0
	for _, rec := range records {
		if matchAll(rec, attrs) {
			continue
		}
		line, err := marshalCompact(rec)
		if err != nil {
			return 0, fmt.Errorf("encode event for %s: %w", l.path, err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
		kept++
	}
	removed := len(records) - kept
	if removed == 0 {
		return 0, nil
	}
	if err := writeAtomic(l.path, buf.Bytes()); err != nil {
		return 0, err
	}
	return removed, nil
}
