package jsonfile

import (
	"path/filepath"
	"sync"
)

// Every mutation is a load-modify-save over the whole file, so two concurrent
// writers on the same path would silently drop one update. Locks are held in a
// package-level registry keyed by cleaned path: independent store values bound
// to the same file share one lock. DocumentStore saves and EventLog rewrites
// use the same lock class.
var fileLocks = struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}{m: make(map[string]*sync.Mutex)}

func lockFor(path string) *sync.Mutex {
	key := filepath.Clean(path)
	if abs, err := filepath.Abs(key); err == nil {
		key = abs
	}
	fileLocks.mu.Lock()
	defer fileLocks.mu.Unlock()
	l, ok := fileLocks.m[key]
	if !ok {
		l = &sync.Mutex{}
		fileLocks.m[key] = l
	}
	return l
}
