package partials

import (
	"context"

	"github.com/a-h/templ"

	"ubigeo_app_go/services/i18n"
	"ubigeo_app_go/templates/components"
)

// FormModal renders the dialog content for add, edit, read, import and reset
func FormModal(v *components.View) templ.Component {
	return components.Build(func(ctx context.Context, m *components.Markup) {
		m.Raw(`<div class="modal-content">`)
		m.Raw(`<form`)
		if !v.Readonly {
			m.Attr("hx-post", v.FormURL)
			m.Attr("hx-target", "#dialog")
			if v.Upload {
				m.Attr("hx-encoding", "multipart/form-data")
			}
		}
		m.Raw(`>`)
		modalHeader(ctx, m, v)
		m.Raw(`<div class="modal-body">`)
		if v.Upload {
			m.Raw(`<p class="small text-muted">`)
			m.Text(i18n.T(ctx, "import.help"))
			m.Raw(`</p>`)
		}
		m.Component(ctx, components.FormFields(v.Form))
		m.Raw(`</div><div class="modal-footer">`)
		m.Raw(`<button type="button" class="btn btn-secondary" data-bs-dismiss="modal">`)
		if v.Readonly {
			m.Text(i18n.T(ctx, "actions.close"))
		} else {
			m.Text(i18n.T(ctx, "actions.cancel"))
		}
		m.Raw(`</button>`)
		if !v.Readonly {
			m.Raw(`<button type="submit" class="btn btn-primary">`)
			m.Text(i18n.T(ctx, "actions.save"))
			m.Raw(`</button>`)
		}
		m.Raw(`</div></form></div>`)
	})
}

func modalHeader(ctx context.Context, m *components.Markup, v *components.View) {
	m.Raw(`<div class="modal-header" data-modal-size="`, v.ModalSize, `"><h5 class="modal-title">`)
	m.Text(v.ModalTitle)
	m.Raw(`</h5><button type="button" class="btn-close" data-bs-dismiss="modal"`)
	m.Attr("aria-label", i18n.T(ctx, "actions.close"))
	m.Raw(`></button></div>`)
}
