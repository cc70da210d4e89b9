package types

// ComponentNode is one entry in a page's component tree. IDs are assigned at
// creation and never reused; Type selects a renderer from the registry and is
// immutable once set. Props must only be replaced wholesale (copy-on-write),
// never mutated in place, because cache keys are derived from their
// serialization.
type ComponentNode struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Props    map[string]any  `json:"props,omitempty"`
	Children []ComponentNode `json:"children,omitempty"`
}

// PageDescription is a titled, ordered sequence of root component nodes.
// Node IDs must be unique across the whole tree, children included.
type PageDescription struct {
	Title string          `json:"title"`
	Nodes []ComponentNode `json:"nodes"`
}

// BusinessContext is the externally owned business record merged into every
// node's props before rendering. The core treats it as immutable for the
// duration of a render pass.
type BusinessContext map[string]any

// Output is the opaque, host-displayable result of a render call. The cache
// only requires that it is cheap to copy and share.
type Output struct {
	HTML string
}

// UpdateFunc propagates a field edit back to the owning data store.
type UpdateFunc func(field string, value any)

// RenderContext carries everything besides props into a renderer invocation.
type RenderContext struct {
	EditMode bool
	Business BusinessContext
	Children []Output
	OnUpdate UpdateFunc
}

// RenderFunc renders one component. It must be a pure function of its
// arguments: the cache substitutes a prior Output for a fresh call whenever
// the inputs are judged identical.
type RenderFunc func(props map[string]any, ctx RenderContext) (Output, error)

// Field describes one editable field of a component, used by editors to
// generate input surfaces. Irrelevant to caching correctness.
type Field struct {
	Name    string `json:"name"`
	Label   string `json:"label,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Default any    `json:"default,omitempty"`
}

// RendererDefinition pairs a type tag with its render function and editor
// metadata.
type RendererDefinition struct {
	Type     string
	Fields   []Field
	Render   RenderFunc
	Icon     string
	Category string
}

// RenderOptions are the mode flags a caller supplies for one render pass.
// Every flag participates in output cache key construction.
type RenderOptions struct {
	EditMode bool
	Flags    []string
	OnUpdate UpdateFunc
}

// RenderOption mutates RenderOptions.
type RenderOption func(*RenderOptions)

func WithEditMode() RenderOption {
	return func(o *RenderOptions) {
		o.EditMode = true
	}
}

func WithFlag(flag string) RenderOption {
	return func(o *RenderOptions) {
		o.Flags = append(o.Flags, flag)
	}
}

func WithOnUpdate(fn UpdateFunc) RenderOption {
	return func(o *RenderOptions) {
		o.OnUpdate = fn
	}
}
