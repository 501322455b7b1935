package pages

import (
	"context"

	"github.com/a-h/templ"

	"ubigeo_app_go/services/i18n"
	"ubigeo_app_go/templates/components"
	"ubigeo_app_go/templates/partials"
)

// Home is the maintenance page of one model: toolbar, search form and the list
// container, which loads itself. Related homes are fragments inside the parent's dialog.
func Home(v *components.View) templ.Component {
	content := components.Build(func(ctx context.Context, m *components.Markup) {
		m.Raw(`<div class="card shadow-sm"><div class="card-header d-flex justify-content-between align-items-center"><h1 class="h5 mb-0">`)
		m.Text(v.Subtitle)
		if v.Parent != "" {
			m.Raw(` <small class="text-muted">`)
			m.Text(v.Parent)
			m.Raw(`</small>`)
		}
		m.Raw(`</h1><div class="btn-group">`)
		toolbar(ctx, m, v)
		m.Raw(`</div></div><div class="card-body">`)
		if !v.Related {
			m.Component(ctx, partials.SearchForm(v))
		}
		m.Raw(`<div class="mt-3"`)
		m.Attr("id", v.ListID())
		m.Attr("hx-get", v.URLs["list"])
		m.Attr("hx-trigger", "load")
		m.Attr("data-refresh-on", components.JSON(v.RefreshOn))
		m.Raw(`></div></div></div>`)
	})
	if v.Related {
		return content
	}
	return Layout(v, content)
}

func toolbar(ctx context.Context, m *components.Markup, v *components.View) {
	if v.Allowed("add") {
		m.Raw(`<button type="button" class="btn btn-primary btn-sm"`)
		m.Attr("hx-get", v.URLs["add"])
		m.Attr("hx-target", "#dialog")
		m.Raw(`><i class="bi bi-plus-lg"></i> `)
		m.Text(i18n.T(ctx, "actions.add"))
		m.Raw(`</button>`)
	}
	if v.Allowed("import") && v.URLs["import"] != "" {
		m.Raw(`<button type="button" class="btn btn-outline-secondary btn-sm"`)
		m.Attr("hx-get", v.URLs["import"])
		m.Attr("hx-target", "#dialog")
		m.Raw(`><i class="bi bi-upload"></i> `)
		m.Text(i18n.T(ctx, "actions.import"))
		m.Raw(`</button>`)
	}
	if v.Allowed("export") && v.URLs["export"] != "" {
		m.Raw(`<a class="btn btn-outline-secondary btn-sm"`)
		m.Attr("href", v.URLs["export"])
		m.Raw(`><i class="bi bi-download"></i> `)
		m.Text(i18n.T(ctx, "actions.export"))
		m.Raw(`</a>`)
	}
}
