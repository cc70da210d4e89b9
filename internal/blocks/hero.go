package blocks

import (
	"github.com/pagecraft/pagecraft/internal/registry"
	"github.com/pagecraft/pagecraft/internal/types"
)

var heroTemplate = mustTemplate("hero", `<section class="pc-hero">
  <h1>{{.Headline}}</h1>
  {{if .Subline}}<p class="pc-hero-subline">{{.Subline}}</p>{{end}}
  {{if .CTA}}<a class="pc-hero-cta" href="{{.CTAHref}}">{{.CTA}}</a>{{end}}
</section>`)

// RegisterHero contributes the hero banner block. The headline falls back to
// the business name so a freshly dropped hero is never blank.
func RegisterHero(b *registry.Builder) {
	b.Register(types.RendererDefinition{
		Type:     "HeroSection",
		Icon:     "sparkles",
		Category: "headers",
		Fields: []types.Field{
			{Name: "headline", Label: "Headline", Kind: "text"},
			{Name: "subline", Label: "Subline", Kind: "text"},
			{Name: "cta", Label: "Call to action", Kind: "text"},
			{Name: "cta_href", Label: "Call to action link", Kind: "url", Default: "#contact"},
		},
		Render: renderHero,
	})
}

func renderHero(props map[string]any, _ types.RenderContext) (types.Output, error) {
	return execute(heroTemplate, map[string]string{
		"Headline": str(props, "headline", str(props, "business_name", "Welcome")),
		"Subline":  str(props, "subline", str(props, "tagline", "")),
		"CTA":      str(props, "cta", ""),
		"CTAHref":  str(props, "cta_href", "#contact"),
	})
}
