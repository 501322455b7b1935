package partials

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"ubigeo_app_go/services/i18n"
	"ubigeo_app_go/templates/components"
)

// ListTable renders one page of rows with the buttons the user may use on each
func ListTable(v *components.View) templ.Component {
	return components.Build(func(ctx context.Context, m *components.Markup) {
		if v.Form != nil && !v.Form.Valid() {
			m.Component(ctx, components.FormFields(v.Form))
		}

		m.Raw(`<div class="table-responsive"><table class="table table-sm table-hover align-middle"><thead><tr>`)
		for _, h := range v.Headers {
			m.Raw(`<th>`)
			m.Text(h)
			m.Raw(`</th>`)
		}
		m.Raw(`<th class="text-end">`)
		m.Text(i18n.T(ctx, "list.actions"))
		m.Raw(`</th></tr></thead><tbody>`)

		if len(v.Rows) == 0 {
			m.Raw(`<tr><td class="text-center text-muted"`)
			m.Attr("colspan", strconv.Itoa(len(v.Headers)+1))
			m.Raw(`>`)
			m.Text(i18n.T(ctx, "list.empty"))
			m.Raw(`</td></tr>`)
		}
		for _, row := range v.Rows {
			rowMarkup(ctx, m, v, row)
		}
		m.Raw(`</tbody></table></div>`)
		pagination(ctx, m, v)
	})
}

func rowMarkup(ctx context.Context, m *components.Markup, v *components.View, row components.Row) {
	m.Raw(`<tr`)
	if !row.Active {
		m.Attr("class", "table-secondary")
	}
	m.Raw(`>`)
	for _, cell := range row.Cells {
		m.Raw(`<td>`)
		m.Text(cell)
		m.Raw(`</td>`)
	}
	m.Raw(`<td class="text-end text-nowrap">`)

	modalButton(ctx, m, v, "read", row.PK, "btn-outline-secondary", "bi-eye")
	if row.Active {
		modalButton(ctx, m, v, "edit", row.PK, "btn-outline-primary", "bi-pencil")
		if v.Allowed("reset") {
			modalButton(ctx, m, v, "reset", row.PK, "btn-outline-warning", "bi-key")
		}
		if v.Allowed("delete") {
			m.Raw(`<button type="button" class="btn btn-sm btn-outline-danger ms-1"`)
			m.Attr("hx-delete", v.RowURL("delete", row.PK))
			m.Attr("hx-swap", "none")
			m.Attr("hx-confirm", i18n.T(ctx, "modal.delete_confirm", map[string]interface{}{"object": row.Display}))
			m.Attr("title", i18n.T(ctx, "actions.delete"))
			m.Raw(`><i class="bi bi-trash"></i>`)
			label(ctx, m, v, "delete")
			m.Raw(`</button>`)
		}
	} else if v.Allowed("reactivate") {
		m.Raw(`<button type="button" class="btn btn-sm btn-outline-success ms-1"`)
		m.Attr("hx-post", v.RowURL("reactivate", row.PK))
		m.Attr("hx-swap", "none")
		m.Attr("hx-confirm", i18n.T(ctx, "modal.reactivate_confirm", map[string]interface{}{"object": row.Display}))
		m.Attr("title", i18n.T(ctx, "actions.reactivate"))
		m.Raw(`><i class="bi bi-arrow-counterclockwise"></i>`)
		label(ctx, m, v, "reactivate")
		m.Raw(`</button>`)
	}
	modalButton(ctx, m, v, "history", row.PK, "btn-outline-dark", "bi-clock-history")
	m.Raw(`</td></tr>`)
}

// modalButton loads action into the shared modal dialog
func modalButton(ctx context.Context, m *components.Markup, v *components.View, action, pk, class, icon string) {
	if !v.Allowed(action) {
		return
	}
	m.Raw(`<button type="button" class="btn btn-sm `, class, ` ms-1"`)
	m.Attr("hx-get", v.RowURL(action, pk))
	m.Attr("hx-target", "#dialog")
	m.Attr("title", i18n.T(ctx, "actions."+action))
	m.Raw(`><i class="bi `, icon, `"></i>`)
	label(ctx, m, v, action)
	m.Raw(`</button>`)
}

// related lists are narrow, their buttons only show icons
func label(ctx context.Context, m *components.Markup, v *components.View, action string) {
	if v.Related {
		return
	}
	m.Raw(` `)
	m.Text(i18n.T(ctx, "actions."+action))
}

func pagination(ctx context.Context, m *components.Markup, v *components.View) {
	p := v.Page
	if p.Pages <= 1 {
		return
	}
	m.Raw(`<nav class="d-flex justify-content-between align-items-center"><small class="text-muted">`)
	m.Text(i18n.T(ctx, "list.page", map[string]interface{}{"page": p.Number, "pages": p.Pages}))
	m.Raw(` · `)
	m.Text(i18n.T(ctx, "list.total", map[string]interface{}{"count": p.Total}))
	m.Raw(`</small><ul class="pagination pagination-sm mb-0">`)
	pageLink(ctx, m, v, p.Previous, "list.previous")
	pageLink(ctx, m, v, p.Next, "list.next")
	m.Raw(`</ul></nav>`)
}

func pageLink(ctx context.Context, m *components.Markup, v *components.View, url, key string) {
	if url == "" {
		m.Raw(`<li class="page-item disabled"><span class="page-link">`)
		m.Text(i18n.T(ctx, key))
		m.Raw(`</span></li>`)
		return
	}
	m.Raw(`<li class="page-item"><a class="page-link" href="#"`)
	m.Attr("hx-get", url)
	m.Attr("hx-target", "#"+v.ListID())
	m.Raw(`>`)
	m.Text(i18n.T(ctx, key))
	m.Raw(`</a></li>`)
}
