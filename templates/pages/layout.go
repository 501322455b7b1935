package pages

import (
	"context"

	"github.com/a-h/templ"

	"ubigeo_app_go/services/i18n"
	"ubigeo_app_go/templates/components"
)

// Layout wraps body in the application shell with the shared modal
func Layout(v *components.View, body templ.Component) templ.Component {
	return components.Build(func(ctx context.Context, m *components.Markup) {
		m.Raw(`<!DOCTYPE html><html`)
		m.Attr("lang", i18n.GetLocale(ctx))
		m.Raw(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		m.Text(v.Title)
		m.Raw(`</title>`)
		m.Raw(`<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css">`)
		m.Raw(`<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bootstrap-icons@1.11.3/font/bootstrap-icons.min.css">`)
		m.Raw(`<script src="https://unpkg.com/htmx.org@2.0.4"></script>`)
		m.Raw(`<script defer src="https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/js/bootstrap.bundle.min.js"></script>`)
		m.Raw(`<script defer src="/static/js/maintenance.js"></script>`)
		m.Raw(`</head><body class="bg-light">`)

		m.Raw(`<nav class="navbar navbar-dark bg-dark mb-4"><div class="container"><span class="navbar-brand">`)
		m.Text(v.AppName)
		m.Raw(`</span><span class="navbar-text">`)
		m.Text(i18n.T(ctx, "app.maintenance"))
		m.Raw(`</span></div></nav>`)

		m.Raw(`<main class="container">`)
		m.Component(ctx, body)
		m.Raw(`</main>`)

		m.Raw(`<div id="modal" class="modal fade" tabindex="-1"><div id="dialog" class="modal-dialog" hx-target="this"></div></div>`)
		m.Raw(`<div class="toast-container position-fixed bottom-0 end-0 p-3" id="toasts"></div>`)
		m.Raw(`</body></html>`)
	})
}
