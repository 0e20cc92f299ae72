// Package cache provides the TTL store that shields the pipeline from
// upstream flakiness and rate limits. Eviction is purely lazy: a stale or
// version-mismatched entry is treated as absent and purged on the access
// that discovered it, so there is no background sweeper to schedule.
package cache

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorillagenics/gorillagenics/internal/metrics"
)

// Default max ages for the named caches.
const (
	OddsMaxAge     = 15 * time.Minute
	ScheduleMaxAge = 60 * time.Minute
	PicksMaxAge    = 60 * time.Minute
	PlayersMaxAge  = 30 * time.Minute
	OffenseMaxAge  = 6 * time.Hour
)

// Options qualify a single Set or Get. A zero MaxAge falls back to the
// store's default.
type Options struct {
	MaxAge  time.Duration
	Version string
}

type entry struct {
	data      interface{}
	timestamp time.Time
	version   string
}

// Store is a mutex-guarded TTL cache. It is the only shared mutable state
// in the core and is safe for concurrent use from multiple in-flight
// pipeline invocations; last writer wins on simultaneous Set.
type Store struct {
	mu            sync.RWMutex
	name          string
	entries       map[string]*entry
	defaultMaxAge time.Duration

	now func() time.Time
}

// New creates a named store with a default max age applied when Options
// carry none.
func New(name string, defaultMaxAge time.Duration) *Store {
	return &Store{
		name:          name,
		entries:       make(map[string]*entry),
		defaultMaxAge: defaultMaxAge,
		now:           time.Now,
	}
}

// Set stores a value under key with the entry's version stamp.
func (s *Store) Set(key string, value interface{}, opts Options) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = &entry{
		data:      value,
		timestamp: s.now(),
		version:   opts.Version,
	}
}

// Get returns the stored value if the entry is still valid: its version
// matches the caller's and its age is within MaxAge. Anything else reads
// as absent, and the dead entry is removed so a subsequent Has agrees.
func (s *Store) Get(key string, opts Options) (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		metrics.RecordCacheMiss(s.name)
		return nil, false
	}

	if !s.valid(e, opts) {
		delete(s.entries, key)
		metrics.RecordCacheEviction(s.name)
		metrics.RecordCacheMiss(s.name)
		return nil, false
	}

	metrics.RecordCacheHit(s.name)
	return e.data, true
}

// Has reports whether a valid entry exists, purging it if it turned out
// stale, exactly like Get.
func (s *Store) Has(key string, opts Options) bool {
	_, ok := s.Get(key, opts)
	return ok
}

// Remove deletes an entry unconditionally.
func (s *Store) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// Clear drops every entry.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*entry)
}

func (s *Store) valid(e *entry, opts Options) bool {
	if opts.Version != e.version {
		return false
	}
	maxAge := opts.MaxAge
	if maxAge == 0 {
		maxAge = s.defaultMaxAge
	}
	return s.now().Sub(e.timestamp) <= maxAge
}

// EntryStat describes one live entry for observability.
type EntryStat struct {
	Key     string        `json:"key"`
	Age     time.Duration `json:"age"`
	Version string        `json:"version"`
	Bytes   int           `json:"bytes"`
}

// Stats summarizes the store contents.
type Stats struct {
	Name       string      `json:"name"`
	EntryCount int         `json:"entry_count"`
	TotalBytes int         `json:"total_bytes"`
	Entries    []EntryStat `json:"entries"`
}

// Stats reports entry count, aggregate serialized size, and per-entry age.
// An entry whose payload cannot be serialized is reported as age 0 with
// version "corrupted" rather than failing the whole call.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{Name: s.name, Entries: make([]EntryStat, 0, len(s.entries))}
	for key, e := range s.entries {
		es := EntryStat{Key: key, Age: s.now().Sub(e.timestamp), Version: e.version}
		if b, err := json.Marshal(e.data); err == nil {
			es.Bytes = len(b)
		} else {
			es.Age = 0
			es.Version = "corrupted"
		}
		st.TotalBytes += es.Bytes
		st.Entries = append(st.Entries, es)
	}
	st.EntryCount = len(st.Entries)
	return st
}

// Caches bundles the named stores the pipeline uses, one per upstream
// data category. Constructed once at startup and never torn down
// mid-process; pass it explicitly instead of reaching for a singleton.
type Caches struct {
	Odds     *Store
	Schedule *Store
	Picks    *Store
	Players  *Store
	Offense  *Store
}

// NewCaches builds the standard set with their default max ages.
func NewCaches() *Caches {
	return NewCachesWith(TTLs{})
}

// TTLs overrides per-cache max ages; zero fields keep the defaults.
type TTLs struct {
	Odds     time.Duration
	Schedule time.Duration
	Picks    time.Duration
	Players  time.Duration
	Offense  time.Duration
}

// NewCachesWith builds the standard set with configured max ages.
func NewCachesWith(t TTLs) *Caches {
	or := func(v, def time.Duration) time.Duration {
		if v > 0 {
			return v
		}
		return def
	}
	return &Caches{
		Odds:     New("odds", or(t.Odds, OddsMaxAge)),
		Schedule: New("schedule", or(t.Schedule, ScheduleMaxAge)),
		Picks:    New("picks", or(t.Picks, PicksMaxAge)),
		Players:  New("players", or(t.Players, PlayersMaxAge)),
		Offense:  New("offense", or(t.Offense, OffenseMaxAge)),
	}
}
