package render

import (
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/pagecraft/pagecraft/internal/cache"
	"github.com/pagecraft/pagecraft/internal/props"
	"github.com/pagecraft/pagecraft/internal/registry"
	"github.com/pagecraft/pagecraft/internal/types"
)

// Renderer renders component nodes through the session cache. In view mode
// output is memoized by (node, props subtree, mode flags); in edit mode the output
// cache is bypassed in both directions so the node being edited always
// re-renders from live props. The resolved-props cache is used in both modes.
type Renderer struct {
	registry *registry.Registry
	store    *cache.Store
	logger   *slog.Logger
}

func New(reg *registry.Registry, store *cache.Store, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		registry: reg,
		store:    store,
		logger:   logger,
	}
}

// RenderNode renders exactly one node, children first. One broken node never
// aborts its siblings: unknown types and failing renderers degrade to visible
// placeholders.
func (r *Renderer) RenderNode(node types.ComponentNode, business types.BusinessContext, opts types.RenderOptions) types.Output {
	def, ok := r.registry.Lookup(node.Type)
	if !ok {
		r.logger.Warn("unknown component type", "node", node.ID, "type", node.Type)
		return unknownPlaceholder(node.Type)
	}

	propsHash, propsErr := props.Hash(node.Props)
	subtreeHash, subtreeErr := props.NodeHash(node)
	if subtreeErr != nil {
		r.logger.Warn("props not serializable, forcing cache miss", "node", node.ID, "error", subtreeErr)
	}

	// The output key digests the whole subtree, not just the node's own
	// props: cached container HTML embeds child output.
	key := cache.OutputKey(node.ID, node.Type, subtreeHash, opts.EditMode, opts.Flags)

	if subtreeErr == nil && !opts.EditMode {
		if out, hit := r.store.GetOutput(key); hit {
			r.logger.Debug("output cache hit", "node", node.ID)
			return out
		}
	}

	merged := r.resolveProps(node, business, propsHash, propsErr == nil)

	children := make([]types.Output, len(node.Children))
	for i, child := range node.Children {
		children[i] = r.RenderNode(child, business, opts)
	}

	out, err := callRender(def.Render, merged, types.RenderContext{
		EditMode: opts.EditMode,
		Business: business,
		Children: children,
		OnUpdate: opts.OnUpdate,
	})
	if err != nil {
		r.logger.Warn("renderer failed", "node", node.ID, "type", node.Type, "error", err)
		return errorPlaceholder(node.Type)
	}

	if subtreeErr == nil && !opts.EditMode {
		r.store.SetOutput(key, out)
	}

	return out
}

// RenderAll renders an ordered node sequence.
func (r *Renderer) RenderAll(nodes []types.ComponentNode, business types.BusinessContext, opts types.RenderOptions) []types.Output {
	outputs := make([]types.Output, len(nodes))
	for i, node := range nodes {
		outputs[i] = r.RenderNode(node, business, opts)
	}
	return outputs
}

// RenderPage renders a whole page description into one concatenated fragment.
func (r *Renderer) RenderPage(page types.PageDescription, business types.BusinessContext, opts types.RenderOptions) types.Output {
	outputs := r.RenderAll(page.Nodes, business, opts)
	var sb strings.Builder
	for i, out := range outputs {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(out.HTML)
	}
	return types.Output{HTML: sb.String()}
}

// resolveProps merges node props with the business record, reusing a prior
// merge for the same node as long as the node's props are unchanged.
func (r *Renderer) resolveProps(node types.ComponentNode, business types.BusinessContext, hash string, cacheable bool) map[string]any {
	if cacheable {
		if merged, hit := r.store.GetProps(node.ID, hash); hit {
			return merged
		}
	}
	merged := props.Merge(node.Props, business)
	if cacheable {
		r.store.SetProps(node.ID, hash, merged)
	}
	return merged
}

// callRender invokes a renderer behind a panic boundary so one misbehaving
// block cannot take down the page walk.
func callRender(fn types.RenderFunc, merged map[string]any, ctx types.RenderContext) (out types.Output, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("renderer panicked: %v", rec)
		}
	}()
	return fn(merged, ctx)
}

func unknownPlaceholder(typeTag string) types.Output {
	return types.Output{
		HTML: fmt.Sprintf(
			`<div class="pc-placeholder pc-placeholder-unknown" data-component-type=%q>Unknown component: %s</div>`,
			typeTag, html.EscapeString(typeTag),
		),
	}
}

func errorPlaceholder(typeTag string) types.Output {
	return types.Output{
		HTML: fmt.Sprintf(
			`<div class="pc-placeholder pc-placeholder-error" data-component-type=%q>Component failed to render: %s</div>`,
			typeTag, html.EscapeString(typeTag),
		),
	}
}
