package types

import (
	"fmt"

	"github.com/google/uuid"
)

// NewNode mints a component node with a fresh id. Used when a block is added
// to a page from the library.
func NewNode(typeTag string, props map[string]any) ComponentNode {
	return ComponentNode{
		ID:    uuid.NewString(),
		Type:  typeTag,
		Props: props,
	}
}

// ExpandTemplate clones a multi-node block template into page-ready nodes.
// Every node in the result, children included, gets a fresh id so the page
// tree's uniqueness invariant holds even when the same template is expanded
// twice.
func ExpandTemplate(template []ComponentNode) []ComponentNode {
	expanded := make([]ComponentNode, len(template))
	for i, node := range template {
		expanded[i] = cloneWithFreshIDs(node)
	}
	return expanded
}

func cloneWithFreshIDs(node ComponentNode) ComponentNode {
	clone := ComponentNode{
		ID:    uuid.NewString(),
		Type:  node.Type,
		Props: cloneProps(node.Props),
	}
	if len(node.Children) > 0 {
		clone.Children = make([]ComponentNode, len(node.Children))
		for i, child := range node.Children {
			clone.Children[i] = cloneWithFreshIDs(child)
		}
	}
	return clone
}

func cloneProps(props map[string]any) map[string]any {
	if props == nil {
		return nil
	}
	clone := make(map[string]any, len(props))
	for k, v := range props {
		clone[k] = cloneValue(v)
	}
	return clone
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneProps(val)
	case []any:
		items := make([]any, len(val))
		for i, item := range val {
			items[i] = cloneValue(item)
		}
		return items
	default:
		return val
	}
}

// ValidateIDs checks the page tree's id uniqueness invariant. The cache keys
// all three of its tables by node id, so a duplicate id silently corrupts
// cache correctness.
func ValidateIDs(page PageDescription) error {
	seen := make(map[string]struct{})
	var walk func(nodes []ComponentNode) error
	walk = func(nodes []ComponentNode) error {
		for _, node := range nodes {
			if node.ID == "" {
				return fmt.Errorf("node of type %q has empty id", node.Type)
			}
			if _, dup := seen[node.ID]; dup {
				return fmt.Errorf("duplicate node id %q in page tree", node.ID)
			}
			seen[node.ID] = struct{}{}
			if err := walk(node.Children); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(page.Nodes)
}
