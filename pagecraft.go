// Package pagecraft is the rendering and caching core of a visual website
// builder. A Session owns the memoization state of one page-editing view:
// rendered output, resolved props and buffered field edits, all TTL-bounded
// and invalidated per node.
package pagecraft

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/pagecraft/pagecraft/internal/blocks"
	"github.com/pagecraft/pagecraft/internal/cache"
	"github.com/pagecraft/pagecraft/internal/config"
	"github.com/pagecraft/pagecraft/internal/field"
	"github.com/pagecraft/pagecraft/internal/preload"
	"github.com/pagecraft/pagecraft/internal/props"
	"github.com/pagecraft/pagecraft/internal/registry"
	"github.com/pagecraft/pagecraft/internal/render"
	"github.com/pagecraft/pagecraft/internal/types"
)

type (
	ComponentNode      = types.ComponentNode
	PageDescription    = types.PageDescription
	BusinessContext    = types.BusinessContext
	Output             = types.Output
	RendererDefinition = types.RendererDefinition
	RenderContext      = types.RenderContext
	RenderOption       = types.RenderOption
	Field              = types.Field
	Config             = config.Config

	// RegistryBuilder and Contributor let callers outside this module
	// register their own blocks.
	RegistryBuilder = registry.Builder
	Contributor     = registry.Contributor

	// Binding is a debounced editor-input binding.
	Binding = field.Binding
)

var (
	WithEditMode = types.WithEditMode
	WithFlag     = types.WithFlag
	WithOnUpdate = types.WithOnUpdate
)

// NewNode mints a page-ready node with a fresh id.
var NewNode = types.NewNode

// ExpandTemplate clones a template's nodes with fresh ids.
var ExpandTemplate = types.ExpandTemplate

// NodeField reads one value from a node's props by path, e.g.
// "quotes.0.author". The second return is false when the path does not
// resolve.
func NodeField(node ComponentNode, path string) (any, bool) {
	return props.Field(node.Props, path)
}

// SetNodeField returns a copy of the node with the value at the given props
// path replaced. The input node's props are never mutated, so cache keys
// derived from them stay valid.
func SetNodeField(node ComponentNode, path string, value any) (ComponentNode, error) {
	next, err := props.SetField(node.Props, path, value)
	if err != nil {
		return node, err
	}
	node.Props = next
	return node, nil
}

// LoadConfig reads session tuning from a YAML file, falling back to defaults.
var LoadConfig = config.Load

// DefaultConfig returns the built-in session tuning.
var DefaultConfig = config.Default

type sessionOptions struct {
	cfg          config.Config
	logger       *slog.Logger
	contributors []registry.Contributor
	warmups      []preload.WarmupFunc
	noBuiltins   bool
}

// SessionOption configures New.
type SessionOption func(*sessionOptions)

// WithConfig replaces the default session tuning.
func WithConfig(cfg Config) SessionOption {
	return func(o *sessionOptions) {
		o.cfg = cfg
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) SessionOption {
	return func(o *sessionOptions) {
		o.logger = logger
	}
}

// WithBlocks adds renderer contributors beyond the built-in block library.
func WithBlocks(contributors ...registry.Contributor) SessionOption {
	return func(o *sessionOptions) {
		o.contributors = append(o.contributors, contributors...)
	}
}

// WithoutBuiltinBlocks starts from an empty registry; the caller supplies
// every renderer via WithBlocks.
func WithoutBuiltinBlocks() SessionOption {
	return func(o *sessionOptions) {
		o.noBuiltins = true
	}
}

// WithWarmups adds extra warm-up callables for the preloader, e.g. lazily
// loaded field editors.
func WithWarmups(warmups ...preload.WarmupFunc) SessionOption {
	return func(o *sessionOptions) {
		o.warmups = append(o.warmups, warmups...)
	}
}

// Session is one editing session's rendering pipeline. Sessions are not meant
// to be shared or merged: cache keys are not namespaced, so a new editing
// view gets a new Session.
type Session struct {
	cfg       config.Config
	store     *cache.Store
	registry  *registry.Registry
	renderer  *render.Renderer
	preloader *preload.Preloader
	janitor   *cache.Janitor
	logger    *slog.Logger
}

// New assembles a session: registry sealed from the block library plus any
// extra contributors, a fresh cache store, and an armed preloader. The
// background sweep janitor starts only when the config names a schedule.
func New(opts ...SessionOption) (*Session, error) {
	o := sessionOptions{
		cfg:    config.Default(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	var contributors []registry.Contributor
	if !o.noBuiltins {
		contributors = blocks.All()
	}
	contributors = append(contributors, o.contributors...)

	reg, err := registry.New(contributors...)
	if err != nil {
		return nil, fmt.Errorf("failed to build renderer registry: %w", err)
	}

	store := cache.New(o.cfg.CacheTTL.Std())

	s := &Session{
		cfg:      o.cfg,
		store:    store,
		registry: reg,
		renderer: render.New(reg, store, o.logger),
		logger:   o.logger,
	}

	s.preloader = preload.New(reg, o.cfg.CommonBlocks, o.warmups, o.cfg.PreloadDelay.Std(), o.logger)
	s.preloader.Start()

	if o.cfg.SweepSchedule != "" {
		janitor, err := cache.StartJanitor(store, o.cfg.SweepSchedule, o.logger)
		if err != nil {
			return nil, err
		}
		s.janitor = janitor
	}

	return s, nil
}

// Render renders one node through the session cache.
func (s *Session) Render(node ComponentNode, business BusinessContext, opts ...RenderOption) Output {
	return s.renderer.RenderNode(node, business, buildRenderOptions(opts))
}

// RenderPage validates the page tree's id uniqueness invariant, then renders
// every root node. Individual broken nodes degrade to placeholders; the page
// always finishes rendering.
func (s *Session) RenderPage(page PageDescription, business BusinessContext, opts ...RenderOption) (Output, error) {
	if err := types.ValidateIDs(page); err != nil {
		return Output{}, err
	}
	return s.renderer.RenderPage(page, business, buildRenderOptions(opts)), nil
}

// InvalidateNode drops every cache entry referencing the node and marks it
// dead so pending field flushes for it are discarded. Called on node unmount
// or removal.
func (s *Session) InvalidateNode(nodeID string) {
	s.store.InvalidateNode(nodeID)
}

// BindField connects an editor input to a (node, field) pair with debounced
// propagation. The binding seeds from the field-value cache when possible.
func (s *Session) BindField(nodeID, fieldName string, current any, onChange func(any)) *field.Binding {
	return field.NewBinding(s.store, nodeID, fieldName, current, onChange, s.cfg.DebounceInterval.Std(), s.logger)
}

// BindNodeField binds an editor input to a props path of a concrete node. The
// binding seeds from the node's current value at the path; each debounced
// flush applies the edit copy-on-write and hands the updated node to onNode,
// which typically persists it and swaps it into the page tree.
func (s *Session) BindNodeField(node ComponentNode, path string, onNode func(ComponentNode)) *field.Binding {
	current, _ := props.Field(node.Props, path)
	return s.BindField(node.ID, path, current, func(value any) {
		updated, err := SetNodeField(node, path, value)
		if err != nil {
			s.logger.Warn("failed to apply field edit", "node", node.ID, "path", path, "error", err)
			return
		}
		if onNode != nil {
			onNode(updated)
		}
	})
}

// PreloadOne warms a single renderer on demand.
func (s *Session) PreloadOne(typeTag string) {
	s.preloader.PreloadOne(typeTag)
}

// Sweep evicts expired cache entries. Embeddings without the janitor call it
// opportunistically.
func (s *Session) Sweep() int {
	return s.store.SweepExpired()
}

// Registry exposes the sealed renderer registry, e.g. for block pickers.
func (s *Session) Registry() *registry.Registry {
	return s.registry
}

// ClearCache drops all derived state. Rendering afterwards rebuilds it from
// the canonical page tree.
func (s *Session) ClearCache() {
	s.store.Clear()
}

// CacheTTL reports the session's entry lifetime.
func (s *Session) CacheTTL() time.Duration {
	return s.cfg.CacheTTL.Std()
}

// Close stops the preloader timer and the janitor. The caches are simply
// dropped with the session.
func (s *Session) Close() {
	s.preloader.Stop()
	s.janitor.Stop()
}

func buildRenderOptions(opts []RenderOption) types.RenderOptions {
	var o types.RenderOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
