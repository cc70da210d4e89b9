package blocks

import (
	"strings"

	"github.com/pagecraft/pagecraft/internal/registry"
	"github.com/pagecraft/pagecraft/internal/types"
)

// RegisterContainer contributes the only built-in block with children. Child
// outputs arrive already rendered; the container just frames them.
func RegisterContainer(b *registry.Builder) {
	b.Register(types.RendererDefinition{
		Type:     "Container",
		Icon:     "layout",
		Category: "layout",
		Fields: []types.Field{
			{Name: "layout", Label: "Layout", Kind: "select", Default: "stack"},
		},
		Render: renderContainer,
	})
}

func renderContainer(props map[string]any, ctx types.RenderContext) (types.Output, error) {
	layout := str(props, "layout", "stack")

	var sb strings.Builder
	sb.WriteString(`<div class="pc-container pc-container-` + layout + `">`)
	for _, child := range ctx.Children {
		sb.WriteString("\n")
		sb.WriteString(child.HTML)
	}
	sb.WriteString("\n</div>")
	return types.Output{HTML: sb.String()}, nil
}
