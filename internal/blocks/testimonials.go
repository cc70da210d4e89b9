package blocks

import (
	"github.com/pagecraft/pagecraft/internal/registry"
	"github.com/pagecraft/pagecraft/internal/types"
)

var testimonialsTemplate = mustTemplate("testimonials", `<section class="pc-testimonials">
  <h2>{{.Title}}</h2>
  {{range .Quotes}}<blockquote><p>{{.Quote}}</p><cite>{{.Author}}</cite></blockquote>
  {{end}}</section>`)

type testimonial struct {
	Quote  string
	Author string
}

func RegisterTestimonials(b *registry.Builder) {
	b.Register(types.RendererDefinition{
		Type:     "Testimonials",
		Icon:     "quote",
		Category: "trust",
		Fields: []types.Field{
			{Name: "title", Label: "Title", Kind: "text", Default: "What our customers say"},
			{Name: "quotes", Label: "Quotes", Kind: "item-list"},
		},
		Render: renderTestimonials,
	})
}

func renderTestimonials(props map[string]any, _ types.RenderContext) (types.Output, error) {
	raw := items(props, "quotes")
	quotes := make([]testimonial, 0, len(raw))
	for _, item := range raw {
		quotes = append(quotes, testimonial{
			Quote:  str(item, "quote", ""),
			Author: str(item, "author", ""),
		})
	}
	return execute(testimonialsTemplate, map[string]any{
		"Title":  str(props, "title", "What our customers say"),
		"Quotes": quotes,
	})
}
