package blocks

import (
	"github.com/pagecraft/pagecraft/internal/registry"
	"github.com/pagecraft/pagecraft/internal/types"
)

var textTemplate = mustTemplate("text", `<div class="pc-text">{{.Content}}</div>`)

func RegisterText(b *registry.Builder) {
	b.Register(types.RendererDefinition{
		Type:     "TextBlock",
		Icon:     "align-left",
		Category: "content",
		Fields: []types.Field{
			{Name: "content", Label: "Content", Kind: "richtext"},
		},
		Render: renderText,
	})
}

func renderText(props map[string]any, _ types.RenderContext) (types.Output, error) {
	return execute(textTemplate, map[string]string{
		"Content": str(props, "content", ""),
	})
}
