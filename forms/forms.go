package forms

import (
	"fmt"
	"html"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/form"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

// Widgets
const (
	WidgetText     = "text"
	WidgetSelect   = "select"
	WidgetPassword = "password"
	WidgetCheckbox = "checkbox"
	WidgetFile     = "file"
	WidgetHidden   = "hidden"
)

var (
	// Decoder maps url.Values onto input structs using the "form" tag
	Decoder = form.NewDecoder()
	// Validate checks input structs; error fields carry the "form" tag name
	Validate = newValidator()

	sanitizer = bluemonday.StrictPolicy()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Option is one entry of a select widget
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Field describes one rendered form control
type Field struct {
	Name     string
	Label    string
	Value    string
	Widget   string
	Options  []Option
	Required bool
	Disabled bool
	Attrs    map[string]string
	Errors   []string
}

// Form is an ordered set of fields plus errors that belong to no single field
type Form struct {
	Fields         []*Field
	NonFieldErrors []string
}

// Field returns the field called name, or nil
func (f *Form) Field(name string) *Field {
	for _, fld := range f.Fields {
		if fld.Name == name {
			return fld
		}
	}
	return nil
}

// AddError attaches msg to the named field, or to the form when no such field exists
func (f *Form) AddError(name, msg string) {
	if fld := f.Field(name); fld != nil {
		fld.Errors = append(fld.Errors, msg)
		return
	}
	f.NonFieldErrors = append(f.NonFieldErrors, msg)
}

// AddErrors attaches every message of a validation result
func (f *Form) AddErrors(errs map[string][]string) {
	for _, fld := range f.Fields {
		if msgs, ok := errs[fld.Name]; ok {
			fld.Errors = append(fld.Errors, msgs...)
		}
	}
	for name, msgs := range errs {
		if f.Field(name) == nil {
			f.NonFieldErrors = append(f.NonFieldErrors, msgs...)
		}
	}
}

// Valid reports whether no field or form error has been recorded
func (f *Form) Valid() bool {
	if len(f.NonFieldErrors) > 0 {
		return false
	}
	for _, fld := range f.Fields {
		if len(fld.Errors) > 0 {
			return false
		}
	}
	return true
}

// Format applies the bootstrap styling pass over every field. Readonly forms
// disable all controls.
func (f *Form) Format(readonly bool) *Form {
	for _, fld := range f.Fields {
		if fld.Attrs == nil {
			fld.Attrs = make(map[string]string)
		}
		switch fld.Widget {
		case WidgetSelect:
			fld.Attrs["class"] = "form-select"
		case WidgetCheckbox:
			fld.Attrs["class"] = "form-check-input"
		case WidgetHidden:
		default:
			fld.Attrs["class"] = "form-control"
			fld.Attrs["autocomplete"] = "off"
			if fld.Widget == WidgetText {
				fld.Attrs["placeholder"] = fld.Label
			}
		}
		if readonly {
			fld.Disabled = true
		}
	}
	return f
}

// FormatErrors marks fields with errors as invalid
func (f *Form) FormatErrors() *Form {
	for _, fld := range f.Fields {
		if len(fld.Errors) == 0 {
			continue
		}
		if fld.Attrs == nil {
			fld.Attrs = make(map[string]string)
		}
		if !strings.Contains(fld.Attrs["class"], "is-invalid") {
			fld.Attrs["class"] = strings.TrimSpace(fld.Attrs["class"] + " is-invalid")
		}
	}
	return f
}

// Fill shows the submitted values in the controls they belong to. Disabled
// controls keep their stored value.
func (f *Form) Fill(values url.Values) *Form {
	for _, fld := range f.Fields {
		if fld.Disabled || fld.Widget == WidgetPassword || fld.Widget == WidgetFile {
			continue
		}
		if _, ok := values[fld.Name]; !ok {
			continue
		}
		fld.Value = strings.TrimSpace(values.Get(fld.Name))
		for i := range fld.Options {
			fld.Options[i].Selected = fld.Options[i].Value == fld.Value
		}
	}
	return f
}

// Hide turns the named control into a hidden input carrying value
func (f *Form) Hide(name, value string) *Form {
	if fld := f.Field(name); fld != nil {
		fld.Widget = WidgetHidden
		fld.Value = value
		fld.Options = nil
	}
	return f
}

// Decode fills dst from values; keys absent from values leave dst untouched
func Decode(dst interface{}, values url.Values) error {
	if err := Decoder.Decode(dst, values); err != nil {
		return fmt.Errorf("failed to decode form: %w", err)
	}
	return nil
}

// Check validates v and returns messages keyed by form field name
func Check(v interface{}) map[string][]string {
	err := Validate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string][]string{"": {err.Error()}}
	}

	out := make(map[string][]string)
	for _, fe := range verrs {
		out[fe.Field()] = append(out[fe.Field()], message(fe))
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Este campo es obligatorio."
	case "max":
		return fmt.Sprintf("Asegúrese de que este valor tenga como máximo %s caracteres.", fe.Param())
	case "min":
		return fmt.Sprintf("Asegúrese de que este valor tenga al menos %s caracteres.", fe.Param())
	case "alphanum", "alphanumunicode":
		return "Solo se permiten letras y números."
	case "numeric":
		return "Solo se permiten números."
	case "oneof":
		return "Seleccione una opción válida."
	case "eqfield":
		return "Las contraseñas no coinciden."
	}
	return "Valor inválido."
}

// Clean strips markup and surrounding whitespace from free text. Entities the
// sanitizer produces are decoded again since values are escaped on render.
func Clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(sanitizer.Sanitize(s)))
}

// TextField builds a text control
func TextField(name, label, value string, required bool) *Field {
	return &Field{Name: name, Label: label, Value: value, Widget: WidgetText, Required: required}
}

// SelectField builds a select control with value marked as selected
func SelectField(name, label, value string, required bool, options []Option) *Field {
	opts := make([]Option, 0, len(options)+1)
	opts = append(opts, Option{Value: "", Label: "---------", Selected: value == ""})
	for _, o := range options {
		o.Selected = o.Value == value
		opts = append(opts, o)
	}
	return &Field{Name: name, Label: label, Value: value, Widget: WidgetSelect, Required: required, Options: opts}
}
