package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/pagecraft/pagecraft/internal/types"
)

// Contributor registers one package's renderer definitions into a Builder.
// Block packages each expose a Register function matching this signature.
type Contributor func(*Builder)

// Builder collects renderer definitions before the registry is sealed.
// Registration order does not matter; duplicate type tags are reported as a
// build error rather than silently overwriting.
type Builder struct {
	defs map[string]types.RendererDefinition
	dups []string
}

func NewBuilder() *Builder {
	return &Builder{
		defs: make(map[string]types.RendererDefinition),
	}
}

// Register adds one renderer definition.
func (b *Builder) Register(def types.RendererDefinition) {
	if def.Type == "" {
		b.dups = append(b.dups, "(empty type tag)")
		return
	}
	if _, exists := b.defs[def.Type]; exists {
		b.dups = append(b.dups, def.Type)
		return
	}
	slog.Debug("registering renderer", "type", def.Type)
	b.defs[def.Type] = def
}

// Build seals the collected definitions into an immutable registry. It fails
// if any type tag was registered twice or a definition is missing its render
// function.
func (b *Builder) Build() (*Registry, error) {
	if len(b.dups) > 0 {
		sort.Strings(b.dups)
		return nil, fmt.Errorf("duplicate renderer registrations: %s", strings.Join(b.dups, ", "))
	}
	for tag, def := range b.defs {
		if def.Render == nil {
			return nil, fmt.Errorf("renderer %q has no render function", tag)
		}
	}

	defs := make(map[string]types.RendererDefinition, len(b.defs))
	for tag, def := range b.defs {
		defs[tag] = def
	}
	return &Registry{defs: defs}, nil
}

// Registry maps type tags to renderer definitions. It is immutable after
// Build, which is what makes sharing it across a session's render passes and
// the preloader safe without locking.
type Registry struct {
	defs map[string]types.RendererDefinition
}

// New builds a registry from a set of contributors.
func New(contributors ...Contributor) (*Registry, error) {
	b := NewBuilder()
	for _, contribute := range contributors {
		contribute(b)
	}
	return b.Build()
}

// Lookup resolves a type tag. Unknown tags are recoverable for callers: the
// renderer substitutes a placeholder and keeps walking the page.
func (r *Registry) Lookup(typeTag string) (types.RendererDefinition, bool) {
	def, ok := r.defs[typeTag]
	return def, ok
}

// Types returns all registered type tags, sorted.
func (r *Registry) Types() []string {
	tags := make([]string, 0, len(r.defs))
	for tag := range r.defs {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Len reports the number of registered renderers.
func (r *Registry) Len() int {
	return len(r.defs)
}
