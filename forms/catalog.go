package forms

import (
	"net/url"

	"ubigeo_app_go/models"
)

// DepartmentInput is the departamento edit form
type DepartmentInput struct {
	Codigo string `form:"codigo" validate:"required,max=8,alphanum"`
	Name   string `form:"name" validate:"required,max=250"`
}

// ProvinceInput is the provincia edit form
type ProvinceInput struct {
	Codigo       string `form:"codigo" validate:"required,max=8,alphanum"`
	Name         string `form:"name" validate:"required,max=250"`
	Departamento string `form:"departamento" validate:"required,max=8"`
}

// DistrictInput is the distrito edit form. Departamento only narrows the
// provincia options and is never stored.
type DistrictInput struct {
	Codigo       string `form:"codigo" validate:"required,max=8,alphanum"`
	Name         string `form:"name" validate:"required,max=250"`
	Provincia    string `form:"provincia" validate:"required,max=8"`
	Departamento string `form:"departamento" validate:"omitempty,max=8"`
}

// decodeInput decodes values over in, keeps the stored code on edits and
// cleans the name. Returns validation messages keyed by field.
func decodeInput(in interface{}, values url.Values, code *string, name *string, creating bool) map[string][]string {
	stored := *code
	if err := Decode(in, values); err != nil {
		return map[string][]string{"": {err.Error()}}
	}
	if !creating {
		*code = stored
	}
	*name = Clean(*name)
	return Check(in)
}

// BindDepartment validates values and copies them onto d
func BindDepartment(values url.Values, d *models.Department, creating bool) map[string][]string {
	in := DepartmentInput{Codigo: d.Code, Name: d.Name}
	if errs := decodeInput(&in, values, &in.Codigo, &in.Name, creating); len(errs) > 0 {
		return errs
	}
	d.Code = in.Codigo
	d.Name = in.Name
	return nil
}

// BindProvince validates values and copies them onto p
func BindProvince(values url.Values, p *models.Province, creating bool) map[string][]string {
	in := ProvinceInput{Codigo: p.Code, Name: p.Name, Departamento: p.DepartmentCode}
	if errs := decodeInput(&in, values, &in.Codigo, &in.Name, creating); len(errs) > 0 {
		return errs
	}
	p.Code = in.Codigo
	p.Name = in.Name
	p.SetParentKey(in.Departamento)
	return nil
}

// BindDistrict validates values and copies them onto d
func BindDistrict(values url.Values, d *models.District, creating bool) map[string][]string {
	in := DistrictInput{Codigo: d.Code, Name: d.Name, Provincia: d.ProvinceCode, Departamento: d.DepartmentCode()}
	if errs := decodeInput(&in, values, &in.Codigo, &in.Name, creating); len(errs) > 0 {
		return errs
	}
	d.Code = in.Codigo
	d.Name = in.Name
	d.SetParentKey(in.Provincia)
	return nil
}

func codeField(code string, creating bool) *Field {
	f := TextField("codigo", "Código", code, true)
	// codes are immutable once stored
	f.Disabled = !creating
	return f
}

// DepartmentForm builds the departamento form
func DepartmentForm(d *models.Department, creating bool) *Form {
	return &Form{Fields: []*Field{
		codeField(d.Code, creating),
		TextField("name", "Nombre", d.Name, true),
	}}
}

// ProvinceForm builds the provincia form; departments are the selectable parents
func ProvinceForm(p *models.Province, creating bool, departments []Option) *Form {
	return &Form{Fields: []*Field{
		codeField(p.Code, creating),
		TextField("name", "Nombre", p.Name, true),
		SelectField("departamento", "Departamento", p.DepartmentCode, true, departments),
	}}
}

// DistrictForm builds the distrito form. department is the current value of
// the narrowing selector and provinces are already narrowed to it.
func DistrictForm(d *models.District, creating bool, department string, departments, provinces []Option) *Form {
	return &Form{Fields: []*Field{
		codeField(d.Code, creating),
		TextField("name", "Nombre", d.Name, true),
		SelectField("departamento", "Departamento", department, false, departments),
		SelectField("provincia", "Provincia", d.ProvinceCode, true, provinces),
	}}
}

// RecordOptions turns records into select options labelled with their display string
func RecordOptions[T models.Record](records []T) []Option {
	opts := make([]Option, 0, len(records))
	for _, r := range records {
		opts = append(opts, Option{Value: r.PrimaryKey(), Label: r.String()})
	}
	return opts
}
