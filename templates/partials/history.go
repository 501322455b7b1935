package partials

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"ubigeo_app_go/services"
	"ubigeo_app_go/services/i18n"
	"ubigeo_app_go/templates/components"
)

// HistoryAccordion renders one accordion item per event. Hidden entries keep
// their place with an empty body that cannot be expanded.
func HistoryAccordion(v *components.View) templ.Component {
	return components.Build(func(ctx context.Context, m *components.Markup) {
		m.Raw(`<div class="modal-content">`)
		modalHeader(ctx, m, v)
		m.Raw(`<div class="modal-body">`)
		if len(v.History) == 0 {
			m.Raw(`<p class="text-muted">`)
			m.Text(i18n.T(ctx, "history.empty"))
			m.Raw(`</p>`)
		}
		m.Raw(`<div class="accordion" id="history-accordion">`)
		for _, entry := range v.History {
			historyItem(ctx, m, entry)
		}
		m.Raw(`</div></div><div class="modal-footer"><button type="button" class="btn btn-secondary" data-bs-dismiss="modal">`)
		m.Text(i18n.T(ctx, "actions.close"))
		m.Raw(`</button></div></div>`)
	})
}

func historyItem(ctx context.Context, m *components.Markup, entry services.HistoryEntry) {
	id := "history-" + strconv.FormatUint(uint64(entry.ID), 10)
	expandable := !entry.Hidden && !entry.HeaderOnly

	m.Raw(`<div class="accordion-item`)
	if entry.Hidden {
		m.Raw(` d-none`)
	}
	m.Raw(`"`)
	m.Attr("data-kind", string(entry.Kind))
	m.Raw(`><h2 class="accordion-header"><button type="button" class="accordion-button collapsed"`)
	if expandable {
		m.Attr("data-bs-toggle", "collapse")
		m.Attr("data-bs-target", "#"+id)
	} else {
		m.Attr("disabled", "")
	}
	m.Raw(`><span class="fw-semibold me-2">`)
	m.Text(entry.Label)
	m.Raw(`</span><span class="text-muted">`)
	m.Text(i18n.T(ctx, "history.by") + " " + entry.Actor + " · " + entry.Timestamp)
	m.Raw(`</span></button></h2>`)

	if entry.HeaderOnly {
		m.Raw(`</div>`)
		return
	}
	m.Raw(`<div class="accordion-collapse collapse"`)
	m.Attr("id", id)
	m.Raw(`><div class="accordion-body">`)
	if expandable {
		changesTable(ctx, m, entry.Changes)
	}
	m.Raw(`</div></div></div>`)
}

func changesTable(ctx context.Context, m *components.Markup, changes []services.DisplayChange) {
	m.Raw(`<table class="table table-sm mb-0"><thead><tr><th>`)
	m.Text(i18n.T(ctx, "history.field"))
	m.Raw(`</th><th>`)
	m.Text(i18n.T(ctx, "history.before"))
	m.Raw(`</th><th>`)
	m.Text(i18n.T(ctx, "history.after"))
	m.Raw(`</th></tr></thead><tbody>`)
	for _, ch := range changes {
		m.Raw(`<tr><td>`)
		m.Text(ch.Label)
		m.Raw(`</td><td>`)
		m.Text(ch.Before)
		m.Raw(`</td><td>`)
		m.Text(ch.After)
		m.Raw(`</td></tr>`)
	}
	m.Raw(`</tbody></table>`)
}
