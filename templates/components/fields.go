package components

import (
	"context"

	"github.com/a-h/templ"

	"ubigeo_app_go/forms"
)

// FormFields renders every control of f with its label and errors
func FormFields(f *forms.Form) templ.Component {
	return Build(func(ctx context.Context, m *Markup) {
		if f == nil {
			return
		}
		if len(f.NonFieldErrors) > 0 {
			m.Raw(`<div class="alert alert-danger" role="alert">`)
			for _, e := range f.NonFieldErrors {
				m.Raw(`<div>`)
				m.Text(e)
				m.Raw(`</div>`)
			}
			m.Raw(`</div>`)
		}
		for _, fld := range f.Fields {
			field(m, fld)
		}
	})
}

func field(m *Markup, fld *forms.Field) {
	if fld.Widget == forms.WidgetHidden {
		m.Raw(`<input type="hidden"`)
		m.Attr("name", fld.Name)
		m.Attr("value", fld.Value)
		m.Raw(`>`)
		return
	}

	id := "id_" + fld.Name
	m.Raw(`<div class="mb-3">`)
	if fld.Widget == forms.WidgetCheckbox {
		m.Raw(`<div class="form-check"><input type="checkbox"`)
		m.Attr("id", id)
		m.Attr("name", fld.Name)
		m.Attr("value", "true")
		m.Attrs(fld.Attrs)
		m.Flag("checked", fld.Value == "true")
		m.Flag("disabled", fld.Disabled)
		m.Raw(`><label class="form-check-label"`)
		m.Attr("for", id)
		m.Raw(`>`)
		m.Text(fld.Label)
		m.Raw(`</label></div>`)
		errors(m, fld)
		m.Raw(`</div>`)
		return
	}

	m.Raw(`<label class="form-label"`)
	m.Attr("for", id)
	m.Raw(`>`)
	m.Text(fld.Label)
	if fld.Required {
		m.Raw(` <span class="text-danger">*</span>`)
	}
	m.Raw(`</label>`)

	switch fld.Widget {
	case forms.WidgetSelect:
		m.Raw(`<select`)
		m.Attr("id", id)
		m.Attr("name", fld.Name)
		m.Attrs(fld.Attrs)
		m.Flag("required", fld.Required)
		m.Flag("disabled", fld.Disabled)
		m.Raw(`>`)
		for _, o := range fld.Options {
			m.Raw(`<option`)
			m.Attr("value", o.Value)
			m.Flag("selected", o.Selected)
			m.Raw(`>`)
			m.Text(o.Label)
			m.Raw(`</option>`)
		}
		m.Raw(`</select>`)
	default:
		m.Raw(`<input`)
		m.Attr("type", fld.Widget)
		m.Attr("id", id)
		m.Attr("name", fld.Name)
		if fld.Widget != forms.WidgetPassword && fld.Widget != forms.WidgetFile {
			m.Attr("value", fld.Value)
		}
		m.Attrs(fld.Attrs)
		m.Flag("required", fld.Required)
		m.Flag("disabled", fld.Disabled)
		m.Raw(`>`)
	}
	errors(m, fld)
	m.Raw(`</div>`)
}

func errors(m *Markup, fld *forms.Field) {
	for _, e := range fld.Errors {
		m.Raw(`<div class="invalid-feedback d-block">`)
		m.Text(e)
		m.Raw(`</div>`)
	}
}
