package blocks

import (
	"github.com/pagecraft/pagecraft/internal/registry"
	"github.com/pagecraft/pagecraft/internal/types"
)

var galleryTemplate = mustTemplate("gallery", `<section class="pc-gallery">
  {{if .Title}}<h2>{{.Title}}</h2>{{end}}
  <div class="pc-gallery-grid">
    {{range .Images}}<figure><img src="{{.}}" alt="" loading="lazy" /></figure>
    {{end}}</div>
</section>`)

func RegisterGallery(b *registry.Builder) {
	b.Register(types.RendererDefinition{
		Type:     "ImageGallery",
		Icon:     "image",
		Category: "media",
		Fields: []types.Field{
			{Name: "title", Label: "Title", Kind: "text"},
			{Name: "images", Label: "Images", Kind: "image-list"},
		},
		Render: renderGallery,
	})
}

func renderGallery(props map[string]any, _ types.RenderContext) (types.Output, error) {
	return execute(galleryTemplate, map[string]any{
		"Title":  str(props, "title", ""),
		"Images": stringList(props, "images"),
	})
}
