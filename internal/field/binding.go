package field

import (
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/bep/debounce"

	"github.com/pagecraft/pagecraft/internal/cache"
)

// DefaultDebounce is the flush delay applied when the caller passes a
// non-positive interval.
const DefaultDebounce = 300 * time.Millisecond

// Binding connects one editor input to one (node, field) pair. Set updates
// the locally held value synchronously so the input reflects every keystroke,
// while the authoritative onChange callback fires at most once per debounce
// window, with the latest value.
//
// Resync policy: external wins. When Sync observes a changed authoritative
// value, any pending debounced flush is cancelled, the local value resets to
// the external one and the cache entry is overwritten. Local edits never
// outlive an external reset.
type Binding struct {
	mu       sync.Mutex
	nodeID   string
	field    string
	value    any
	external any
	pending  bool
	closed   bool

	store     *cache.Store
	onChange  func(any)
	debounced func(func())
	logger    *slog.Logger
}

// NewBinding seeds the bound value from the field-value cache when a live
// entry exists, else from current.
func NewBinding(store *cache.Store, nodeID, fieldName string, current any, onChange func(any), interval time.Duration, logger *slog.Logger) *Binding {
	if interval <= 0 {
		interval = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}

	value := current
	if cached, hit := store.GetFieldValue(nodeID, fieldName); hit {
		value = cached
	}

	return &Binding{
		nodeID:    nodeID,
		field:     fieldName,
		value:     value,
		external:  current,
		store:     store,
		onChange:  onChange,
		debounced: debounce.New(interval),
		logger:    logger,
	}
}

// Value returns the locally held value.
func (b *Binding) Value() any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.value
}

// Set updates the local value immediately and (re)schedules the debounced
// flush. Earlier values inside the same window are superseded, never
// separately propagated.
func (b *Binding) Set(next any) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.value = next
	b.pending = true
	b.mu.Unlock()

	b.debounced(b.flush)
}

// Flush delivers a pending edit immediately, bypassing the remaining window.
func (b *Binding) Flush() {
	b.flush()
}

func (b *Binding) flush() {
	b.mu.Lock()
	if !b.pending || b.closed {
		b.mu.Unlock()
		return
	}
	value := b.value
	b.pending = false
	b.mu.Unlock()

	if !b.store.Alive(b.nodeID) {
		b.logger.Debug("dropping flush for removed node", "node", b.nodeID, "field", b.field)
		return
	}

	if b.onChange != nil {
		b.onChange(value)
	}
	b.store.SetFieldValue(b.nodeID, b.field, value)
}

// Sync reconciles with the authoritative value, e.g. after an undo elsewhere
// reset the node. An unchanged external value is a no-op; a changed one wins
// over any pending local edit.
func (b *Binding) Sync(external any) {
	b.mu.Lock()
	if b.closed || reflect.DeepEqual(external, b.external) {
		b.mu.Unlock()
		return
	}
	hadPending := b.pending
	b.external = external
	b.value = external
	b.pending = false
	b.mu.Unlock()

	if hadPending {
		// Supersede the scheduled flush with a no-op.
		b.debounced(func() {})
		b.logger.Debug("external update cancelled pending edit", "node", b.nodeID, "field", b.field)
	}

	if !b.store.Alive(b.nodeID) {
		return
	}
	b.store.SetFieldValue(b.nodeID, b.field, external)
}

// Close drops any pending flush and detaches the binding. Called on editor
// unmount.
func (b *Binding) Close() {
	b.mu.Lock()
	wasPending := b.pending
	b.closed = true
	b.pending = false
	b.mu.Unlock()

	if wasPending {
		b.debounced(func() {})
	}
}
