package blocks

import (
	"github.com/pagecraft/pagecraft/internal/registry"
	"github.com/pagecraft/pagecraft/internal/types"
)

var servicesTemplate = mustTemplate("services", `<section class="pc-services">
  <h2>{{.Title}}</h2>
  <ul>
    {{range .Services}}<li><h3>{{.Name}}</h3>{{if .Description}}<p>{{.Description}}</p>{{end}}{{if .Price}}<span class="pc-price">{{.Price}}</span>{{end}}</li>
    {{end}}</ul>
</section>`)

type serviceItem struct {
	Name        string
	Description string
	Price       string
}

func RegisterServices(b *registry.Builder) {
	b.Register(types.RendererDefinition{
		Type:     "ServicesGrid",
		Icon:     "briefcase",
		Category: "content",
		Fields: []types.Field{
			{Name: "title", Label: "Title", Kind: "text", Default: "Our Services"},
			{Name: "services", Label: "Services", Kind: "item-list"},
		},
		Render: renderServices,
	})
}

func renderServices(props map[string]any, _ types.RenderContext) (types.Output, error) {
	raw := items(props, "services")
	services := make([]serviceItem, 0, len(raw))
	for _, item := range raw {
		services = append(services, serviceItem{
			Name:        str(item, "name", ""),
			Description: str(item, "description", ""),
			Price:       str(item, "price", ""),
		})
	}
	return execute(servicesTemplate, map[string]any{
		"Title":    str(props, "title", "Our Services"),
		"Services": services,
	})
}
