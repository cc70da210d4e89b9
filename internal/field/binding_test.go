package field

import (
	"sync"
	"testing"
	"time"

	"github.com/pagecraft/pagecraft/internal/cache"
)

type changeRecorder struct {
	mu     sync.Mutex
	values []any
}

func (c *changeRecorder) onChange(v any) {
	c.mu.Lock()
	c.values = append(c.values, v)
	c.mu.Unlock()
}

func (c *changeRecorder) recorded() []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]any, len(c.values))
	copy(out, c.values)
	return out
}

const testDebounce = 40 * time.Millisecond

func TestSetUpdatesValueImmediately(t *testing.T) {
	store := cache.New(time.Minute)
	rec := &changeRecorder{}
	b := NewBinding(store, "n1", "headline", "initial", rec.onChange, testDebounce, nil)

	b.Set("typed")
	if b.Value() != "typed" {
		t.Errorf("local value must update synchronously, got %v", b.Value())
	}
	if len(rec.recorded()) != 0 {
		t.Error("onChange must not fire before the debounce window elapses")
	}
}

func TestDebounceCollapsesRapidEdits(t *testing.T) {
	store := cache.New(time.Minute)
	rec := &changeRecorder{}
	b := NewBinding(store, "n1", "headline", "", rec.onChange, testDebounce, nil)

	for _, v := range []string{"h", "he", "hel", "hell", "hello"} {
		b.Set(v)
	}

	time.Sleep(3 * testDebounce)

	got := rec.recorded()
	if len(got) != 1 {
		t.Fatalf("expected exactly one onChange, got %d: %v", len(got), got)
	}
	if got[0] != "hello" {
		t.Errorf("flush must carry the latest value, got %v", got[0])
	}

	cached, hit := store.GetFieldValue("n1", "headline")
	if !hit || cached != "hello" {
		t.Errorf("flushed value must land in the field cache, got %v, %v", cached, hit)
	}
}

func TestSeparateWindowsPropagateSeparately(t *testing.T) {
	store := cache.New(time.Minute)
	rec := &changeRecorder{}
	b := NewBinding(store, "n1", "headline", "", rec.onChange, testDebounce, nil)

	b.Set("first")
	time.Sleep(3 * testDebounce)
	b.Set("second")
	time.Sleep(3 * testDebounce)

	got := rec.recorded()
	if len(got) != 2 {
		t.Fatalf("expected two flushes, got %d: %v", len(got), got)
	}
	if got[0] != "first" || got[1] != "second" {
		t.Errorf("got %v", got)
	}
}

func TestSeedsFromCache(t *testing.T) {
	store := cache.New(time.Minute)
	store.SetFieldValue("n1", "headline", "buffered draft")

	b := NewBinding(store, "n1", "headline", "authoritative", nil, testDebounce, nil)
	if b.Value() != "buffered draft" {
		t.Errorf("binding must seed from a live cache entry, got %v", b.Value())
	}

	fresh := NewBinding(store, "n2", "headline", "authoritative", nil, testDebounce, nil)
	if fresh.Value() != "authoritative" {
		t.Errorf("binding must seed from current value on cache miss, got %v", fresh.Value())
	}
}

func TestSyncResynchronizesAfterQuietPeriod(t *testing.T) {
	store := cache.New(time.Minute)
	rec := &changeRecorder{}
	b := NewBinding(store, "n1", "headline", "v1", rec.onChange, testDebounce, nil)

	b.Set("edited")
	time.Sleep(3 * testDebounce)

	b.Sync("undone")
	if b.Value() != "undone" {
		t.Errorf("external reset must win once the window lapsed, got %v", b.Value())
	}

	cached, hit := store.GetFieldValue("n1", "headline")
	if !hit || cached != "undone" {
		t.Errorf("cache entry must be overwritten to match, got %v, %v", cached, hit)
	}
}

func TestSyncCancelsPendingFlush(t *testing.T) {
	store := cache.New(time.Minute)
	rec := &changeRecorder{}
	b := NewBinding(store, "n1", "headline", "v1", rec.onChange, testDebounce, nil)

	b.Set("half-typed")
	b.Sync("external-update")

	time.Sleep(3 * testDebounce)

	if len(rec.recorded()) != 0 {
		t.Errorf("external update must cancel the pending flush, got %v", rec.recorded())
	}
	if b.Value() != "external-update" {
		t.Errorf("got %v", b.Value())
	}
}

func TestSyncUnchangedValueKeepsPendingEdit(t *testing.T) {
	store := cache.New(time.Minute)
	rec := &changeRecorder{}
	b := NewBinding(store, "n1", "headline", "v1", rec.onChange, testDebounce, nil)

	b.Set("typing")
	b.Sync("v1")

	if b.Value() != "typing" {
		t.Errorf("unchanged external value must not clobber the local edit, got %v", b.Value())
	}

	time.Sleep(3 * testDebounce)
	got := rec.recorded()
	if len(got) != 1 || got[0] != "typing" {
		t.Errorf("pending edit must still flush, got %v", got)
	}
}

func TestFlushDroppedForRemovedNode(t *testing.T) {
	store := cache.New(time.Minute)
	rec := &changeRecorder{}
	b := NewBinding(store, "n1", "headline", "v1", rec.onChange, testDebounce, nil)

	b.Set("doomed edit")
	store.InvalidateNode("n1")

	time.Sleep(3 * testDebounce)

	if len(rec.recorded()) != 0 {
		t.Errorf("flush for a removed node must be dropped, got %v", rec.recorded())
	}
	if _, hit := store.GetFieldValue("n1", "headline"); hit {
		t.Error("no field value must be written for a removed node")
	}
}

func TestNilOnChangeStillBuffers(t *testing.T) {
	store := cache.New(time.Minute)
	b := NewBinding(store, "n1", "headline", "v1", nil, testDebounce, nil)

	b.Set("draft")
	time.Sleep(3 * testDebounce)

	cached, hit := store.GetFieldValue("n1", "headline")
	if !hit || cached != "draft" {
		t.Errorf("flush without a callback must still buffer the value, got %v, %v", cached, hit)
	}
}

func TestSyncSkipsRemovedNode(t *testing.T) {
	store := cache.New(time.Minute)
	b := NewBinding(store, "n1", "headline", "v1", nil, testDebounce, nil)

	store.InvalidateNode("n1")
	b.Sync("external")

	if _, hit := store.GetFieldValue("n1", "headline"); hit {
		t.Error("sync must not resurrect a removed node's cache entry")
	}
}

func TestCloseDropsPendingFlush(t *testing.T) {
	store := cache.New(time.Minute)
	rec := &changeRecorder{}
	b := NewBinding(store, "n1", "headline", "v1", rec.onChange, testDebounce, nil)

	b.Set("unsaved")
	b.Close()

	time.Sleep(3 * testDebounce)

	if len(rec.recorded()) != 0 {
		t.Errorf("closed binding must not flush, got %v", rec.recorded())
	}

	b.Set("ignored")
	if b.Value() != "unsaved" {
		t.Errorf("closed binding must ignore further sets, got %v", b.Value())
	}
}

func TestExplicitFlushBypassesWindow(t *testing.T) {
	store := cache.New(time.Minute)
	rec := &changeRecorder{}
	b := NewBinding(store, "n1", "headline", "v1", rec.onChange, time.Minute, nil)

	b.Set("save now")
	b.Flush()

	got := rec.recorded()
	if len(got) != 1 || got[0] != "save now" {
		t.Errorf("explicit flush must deliver immediately, got %v", got)
	}
}
