package cache

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pagecraft/pagecraft/internal/types"
)

// DefaultTTL bounds the age of any cache entry.
const DefaultTTL = 5 * time.Minute

type entry[T any] struct {
	data      T
	expiresAt time.Time
}

// table is one TTL-bounded memoization map. Expiry is checked lazily on read;
// SweepExpired handles entries that are never read again.
type table[T any] struct {
	mu      sync.RWMutex
	entries map[string]entry[T]
	ttl     time.Duration
}

func newTable[T any](ttl time.Duration) *table[T] {
	return &table[T]{
		entries: make(map[string]entry[T]),
		ttl:     ttl,
	}
}

func (t *table[T]) get(key string) (T, bool) {
	t.mu.RLock()
	e, exists := t.entries[key]
	t.mu.RUnlock()

	var zero T
	if !exists {
		return zero, false
	}

	if time.Now().After(e.expiresAt) {
		t.mu.Lock()
		delete(t.entries, key)
		t.mu.Unlock()
		return zero, false
	}

	return e.data, true
}

func (t *table[T]) set(key string, data T) {
	t.mu.Lock()
	t.entries[key] = entry[T]{
		data:      data,
		expiresAt: time.Now().Add(t.ttl),
	}
	t.mu.Unlock()
}

func (t *table[T]) delete(key string) {
	t.mu.Lock()
	delete(t.entries, key)
	t.mu.Unlock()
}

func (t *table[T]) deletePrefix(prefix string) {
	t.mu.Lock()
	for key := range t.entries {
		if strings.HasPrefix(key, prefix) {
			delete(t.entries, key)
		}
	}
	t.mu.Unlock()
}

func (t *table[T]) sweep(now time.Time) int {
	t.mu.Lock()
	removed := 0
	for key, e := range t.entries {
		if now.After(e.expiresAt) {
			delete(t.entries, key)
			removed++
		}
	}
	t.mu.Unlock()
	return removed
}

func (t *table[T]) size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

func (t *table[T]) clear() {
	t.mu.Lock()
	t.entries = make(map[string]entry[T])
	t.mu.Unlock()
}

// Store holds the three independent memoization tables of one editing
// session: rendered output keyed by (node, props hash, mode flags), resolved
// props keyed by node id, and field values keyed by (node id, field name).
// Entries are derived, disposable state; dropping any of them at any time
// costs performance, never correctness.
// propsEntry records which props serialization a merged bag was built from,
// so a stale merge is never served after the node's props change.
type propsEntry struct {
	merged map[string]any
	hash   string
}

type Store struct {
	output *table[types.Output]
	props  *table[propsEntry]
	fields *table[any]

	mu      sync.Mutex
	removed map[string]time.Time
	ttl     time.Duration
}

// New creates an empty store. A non-positive ttl falls back to DefaultTTL.
func New(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		output:  newTable[types.Output](ttl),
		props:   newTable[propsEntry](ttl),
		fields:  newTable[any](ttl),
		removed: make(map[string]time.Time),
		ttl:     ttl,
	}
}

// keyEscaper neutralizes the separator characters in caller-supplied key
// components. Node ids and type tags come straight from page JSON, so a ":"
// or "/" in them must not let two nodes share a key or a prefix.
var keyEscaper = strings.NewReplacer(`\`, `\\`, ":", `\:`, "/", `\/`)

// OutputKey builds the output table key. Node id, node type, the subtree hash
// and every mode flag all participate, so renders differing in any of them
// never collide.
func OutputKey(nodeID, nodeType, propsHash string, editMode bool, flags []string) string {
	mode := "view"
	if editMode {
		mode = "edit"
	}
	if len(flags) > 0 {
		sorted := make([]string, len(flags))
		copy(sorted, flags)
		sort.Strings(sorted)
		mode += "+" + keyEscaper.Replace(strings.Join(sorted, "+"))
	}
	return keyEscaper.Replace(nodeID) + ":" + keyEscaper.Replace(nodeType) + ":" + propsHash + ":" + mode
}

// FieldKey builds the field table key. The node id prefix is what
// InvalidateNode matches on.
func FieldKey(nodeID, field string) string {
	return keyEscaper.Replace(nodeID) + "/" + keyEscaper.Replace(field)
}

func (s *Store) GetOutput(key string) (types.Output, bool) {
	return s.output.get(key)
}

func (s *Store) SetOutput(key string, out types.Output) {
	s.output.set(key, out)
}

// GetProps returns the cached merged bag for a node, but only when it was
// built from the same props serialization the caller holds now. A mismatch
// is a miss: a stale merge would silently override a props edit.
func (s *Store) GetProps(nodeID, propsHash string) (map[string]any, bool) {
	e, hit := s.props.get(nodeID)
	if !hit || e.hash != propsHash {
		return nil, false
	}
	return e.merged, true
}

func (s *Store) SetProps(nodeID, propsHash string, merged map[string]any) {
	s.props.set(nodeID, propsEntry{merged: merged, hash: propsHash})
}

func (s *Store) GetFieldValue(nodeID, field string) (any, bool) {
	return s.fields.get(FieldKey(nodeID, field))
}

func (s *Store) SetFieldValue(nodeID, field string, value any) {
	s.fields.set(FieldKey(nodeID, field), value)
}

// InvalidateNode removes every entry in all three tables that references the
// node and records the node as gone so pending debounced flushes for it can
// be dropped. Safe to call for nodes that were never cached.
func (s *Store) InvalidateNode(nodeID string) {
	s.output.deletePrefix(keyEscaper.Replace(nodeID) + ":")
	s.props.delete(nodeID)
	s.fields.deletePrefix(keyEscaper.Replace(nodeID) + "/")

	s.mu.Lock()
	s.removed[nodeID] = time.Now()
	s.mu.Unlock()
}

// Alive reports whether the node has not been invalidated in this session.
// Node ids are never reused, so a removed id stays dead.
func (s *Store) Alive(nodeID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, gone := s.removed[nodeID]
	return !gone
}

// SweepExpired evicts expired entries from all three tables and prunes
// removal records older than the TTL. Callers may invoke it opportunistically
// or schedule it via a Janitor.
func (s *Store) SweepExpired() int {
	now := time.Now()
	removed := s.output.sweep(now)
	removed += s.props.sweep(now)
	removed += s.fields.sweep(now)

	s.mu.Lock()
	for id, at := range s.removed {
		if now.Sub(at) > s.ttl {
			delete(s.removed, id)
		}
	}
	s.mu.Unlock()

	return removed
}

// Size returns the total entry count across the three tables.
func (s *Store) Size() int {
	return s.output.size() + s.props.size() + s.fields.size()
}

// Clear drops everything, removal records included. Meant for session resets.
func (s *Store) Clear() {
	s.output.clear()
	s.props.clear()
	s.fields.clear()

	s.mu.Lock()
	s.removed = make(map[string]time.Time)
	s.mu.Unlock()
}
