package props

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pagecraft/pagecraft/internal/types"
)

func TestHashIsStructural(t *testing.T) {
	a := map[string]any{"headline": "hi", "nested": map[string]any{"x": 1.0}}
	b := map[string]any{"nested": map[string]any{"x": 1.0}, "headline": "hi"}

	ha, err := Hash(a)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	hb, err := Hash(b)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if ha != hb {
		t.Errorf("structurally equal bags must hash identically: %s vs %s", ha, hb)
	}
}

func TestHashDistinguishesContent(t *testing.T) {
	ha, _ := Hash(map[string]any{"content": "hello"})
	hb, _ := Hash(map[string]any{"content": "goodbye"})
	if ha == hb {
		t.Error("deep-unequal bags must hash differently")
	}
}

func TestHashNilProps(t *testing.T) {
	h, err := Hash(nil)
	if err != nil {
		t.Fatalf("nil props must hash: %v", err)
	}
	if h != "nil" {
		t.Errorf("got %q", h)
	}
}

func TestHashUnserializable(t *testing.T) {
	if _, err := Hash(map[string]any{"bad": func() {}}); err == nil {
		t.Error("expected error for unserializable props")
	}
}

func TestNodeHashCoversChildren(t *testing.T) {
	base := types.ComponentNode{
		ID:   "wrap",
		Type: "Container",
		Children: []types.ComponentNode{
			{ID: "c", Type: "TextBlock", Props: map[string]any{"content": "one"}},
		},
	}
	edited := base
	edited.Children = []types.ComponentNode{
		{ID: "c", Type: "TextBlock", Props: map[string]any{"content": "two"}},
	}

	ha, err := NodeHash(base)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	hb, err := NodeHash(edited)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if ha == hb {
		t.Error("a child edit must change the node hash")
	}

	again, _ := NodeHash(base)
	if ha != again {
		t.Error("an unchanged subtree must hash identically")
	}
}

func TestMergeNodePropsWin(t *testing.T) {
	node := map[string]any{"headline": "Custom"}
	business := types.BusinessContext{"headline": "Business", "phone": "555-0100"}

	merged := Merge(node, business)

	want := map[string]any{"headline": "Custom", "phone": "555-0100"}
	if diff := cmp.Diff(want, merged); diff != "" {
		t.Errorf("merge mismatch (-want +got):\n%s", diff)
	}

	if business["headline"] != "Business" {
		t.Error("merge must not mutate the business record")
	}
	if len(node) != 1 {
		t.Error("merge must not mutate node props")
	}
}

func TestFieldPathRead(t *testing.T) {
	bag := map[string]any{
		"headline": "hi",
		"quotes":   []any{map[string]any{"author": "Ana"}},
	}

	v, ok := Field(bag, "quotes.0.author")
	if !ok {
		t.Fatal("expected path to resolve")
	}
	if v != "Ana" {
		t.Errorf("got %v", v)
	}

	if _, ok := Field(bag, "missing.path"); ok {
		t.Error("unknown path must not resolve")
	}
}

func TestSetFieldCopyOnWrite(t *testing.T) {
	original := map[string]any{"headline": "old", "nested": map[string]any{"x": "keep"}}

	next, err := SetField(original, "headline", "new")
	if err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if original["headline"] != "old" {
		t.Error("SetField must not mutate the input bag")
	}
	if next["headline"] != "new" {
		t.Errorf("got %v", next["headline"])
	}
	if diff := cmp.Diff(map[string]any{"x": "keep"}, next["nested"]); diff != "" {
		t.Errorf("unrelated fields must carry over (-want +got):\n%s", diff)
	}
}

func TestSetFieldNestedPath(t *testing.T) {
	original := map[string]any{"cta": map[string]any{"label": "Call", "href": "#"}}

	next, err := SetField(original, "cta.label", "Book now")
	if err != nil {
		t.Fatalf("set failed: %v", err)
	}

	v, ok := Field(next, "cta.label")
	if !ok || v != "Book now" {
		t.Errorf("got %v, %v", v, ok)
	}
	if v, _ := Field(original, "cta.label"); v != "Call" {
		t.Error("original must keep its value")
	}
}
