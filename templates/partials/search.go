package partials

import (
	"context"
	"strings"

	"github.com/a-h/templ"

	"ubigeo_app_go/services/i18n"
	"ubigeo_app_go/templates/components"
)

// SearchForm renders the list filter. Every completion event refreshes the list.
func SearchForm(v *components.View) templ.Component {
	return components.Build(func(ctx context.Context, m *components.Markup) {
		triggers := []string{"submit", "ForceSearch from:body"}
		for _, ev := range v.RefreshOn {
			triggers = append(triggers, ev+" from:body")
		}

		m.Raw(`<form class="row g-2 align-items-start" id="search-`, v.Model, `"`)
		m.Attr("hx-get", v.URLs["list"])
		m.Attr("hx-target", "#"+v.ListID())
		m.Attr("hx-trigger", strings.Join(triggers, ", "))
		m.Raw(`><div class="col">`)
		m.Component(ctx, components.FormFields(v.Form))
		m.Raw(`</div><div class="col-auto"><button type="submit" class="btn btn-outline-primary">`)
		m.Text(i18n.T(ctx, "actions.search"))
		m.Raw(`</button></div></form>`)
	})
}
