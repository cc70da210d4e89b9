// Package blocks is the built-in block library. Each file contributes one
// renderer definition; the definitions are content, the caching architecture
// lives elsewhere and treats every renderer here as an opaque pure function.
package blocks

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/pagecraft/pagecraft/internal/registry"
	"github.com/pagecraft/pagecraft/internal/types"
)

// All returns every built-in block contributor.
func All() []registry.Contributor {
	return []registry.Contributor{
		RegisterHero,
		RegisterText,
		RegisterGallery,
		RegisterServices,
		RegisterTestimonials,
		RegisterContainer,
	}
}

func mustTemplate(name, src string) *template.Template {
	return template.Must(template.New(name).Parse(src))
}

func execute(t *template.Template, data any) (types.Output, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return types.Output{}, fmt.Errorf("failed to execute %s template: %w", t.Name(), err)
	}
	return types.Output{HTML: buf.String()}, nil
}

func str(props map[string]any, key, fallback string) string {
	if v, ok := props[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func items(props map[string]any, key string) []map[string]any {
	raw, ok := props[key].([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func stringList(props map[string]any, key string) []string {
	raw, ok := props[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
