package props

import (
	"encoding/json"
	"fmt"
	"hash/fnv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/pagecraft/pagecraft/internal/types"
)

// Serialize produces the canonical JSON form of a props bag. encoding/json
// sorts map keys, so two structurally equal bags serialize identically
// regardless of how they were built.
func Serialize(props map[string]any) ([]byte, error) {
	if props == nil {
		return []byte("null"), nil
	}
	data, err := json.Marshal(props)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal props: %w", err)
	}
	return data, nil
}

// Hash returns the fnv64a digest of the canonical serialization, used as the
// props component of output cache keys.
func Hash(props map[string]any) (string, error) {
	if props == nil {
		return "nil", nil
	}
	data, err := Serialize(props)
	if err != nil {
		return "", fmt.Errorf("failed to build props cache key: %w", err)
	}
	h := fnv.New64a()
	h.Write(data)
	return fmt.Sprintf("%x", h.Sum64()), nil
}

// NodeHash digests a node's own props together with its whole child subtree.
// Output cache keys use it because a container's cached HTML embeds its
// children: an edit anywhere beneath the node must miss the node's entry.
func NodeHash(node types.ComponentNode) (string, error) {
	data, err := json.Marshal(node)
	if err != nil {
		return "", fmt.Errorf("failed to build node cache key: %w", err)
	}
	h := fnv.New64a()
	h.Write(data)
	return fmt.Sprintf("%x", h.Sum64()), nil
}

// Merge combines a node's own props with the business record into a single
// bag. Node props win on key conflict; neither input is mutated.
func Merge(nodeProps map[string]any, business types.BusinessContext) map[string]any {
	merged := make(map[string]any, len(nodeProps)+len(business))
	for k, v := range business {
		merged[k] = v
	}
	for k, v := range nodeProps {
		merged[k] = v
	}
	return merged
}

// Field reads a value at a gjson path from a props bag. The second return is
// false when the path does not resolve.
func Field(props map[string]any, path string) (any, bool) {
	data, err := Serialize(props)
	if err != nil {
		return nil, false
	}
	result := gjson.GetBytes(data, path)
	if !result.Exists() {
		return nil, false
	}
	return result.Value(), true
}

// SetField returns a new props bag with the value at the given path replaced.
// The input bag is never modified: editors rely on copy-on-write semantics so
// that previously computed cache keys stay valid for the old bag.
func SetField(props map[string]any, path string, value any) (map[string]any, error) {
	data, err := Serialize(props)
	if err != nil {
		return nil, err
	}
	updated, err := sjson.SetBytes(data, path, value)
	if err != nil {
		return nil, fmt.Errorf("failed to set field %q: %w", path, err)
	}
	var next map[string]any
	if err := json.Unmarshal(updated, &next); err != nil {
		return nil, fmt.Errorf("failed to rebuild props after setting %q: %w", path, err)
	}
	return next, nil
}
