package forms

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ubigeo_app_go/models"
)

func TestFormatStylesEveryWidget(t *testing.T) {
	f := &Form{Fields: []*Field{
		TextField("name", "Nombre", "", true),
		SelectField("departamento", "Departamento", "15", true, []Option{{Value: "15", Label: "LIMA"}}),
		{Name: "is_active", Label: "Activo", Widget: WidgetCheckbox},
		{Name: "password", Label: "Contraseña", Widget: WidgetPassword},
	}}
	f.Format(false)

	assert.Equal(t, "form-control", f.Fields[0].Attrs["class"])
	assert.Equal(t, "off", f.Fields[0].Attrs["autocomplete"])
	assert.Equal(t, "Nombre", f.Fields[0].Attrs["placeholder"])
	assert.Equal(t, "form-select", f.Fields[1].Attrs["class"])
	assert.Equal(t, "form-check-input", f.Fields[2].Attrs["class"])
	assert.Empty(t, f.Fields[3].Attrs["placeholder"])
	assert.False(t, f.Fields[0].Disabled)

	// first option is the blank choice
	require.Len(t, f.Fields[1].Options, 2)
	assert.False(t, f.Fields[1].Options[0].Selected)
	assert.True(t, f.Fields[1].Options[1].Selected)

	f.Format(true)
	for _, fld := range f.Fields {
		assert.True(t, fld.Disabled, fld.Name)
	}
}

func TestErrorsMarkFieldsInvalid(t *testing.T) {
	f := DepartmentForm(&models.Department{}, true).Format(false)
	assert.True(t, f.Valid())

	f.AddErrors(map[string][]string{"name": {"Este campo es obligatorio."}, "": {"general"}})
	f.AddError("codigo", "duplicado")
	f.FormatErrors().FormatErrors()

	assert.False(t, f.Valid())
	assert.Equal(t, "form-control is-invalid", f.Field("name").Attrs["class"])
	assert.Equal(t, []string{"duplicado"}, f.Field("codigo").Errors)
	assert.Equal(t, []string{"general"}, f.NonFieldErrors)
}

func TestBindDepartment(t *testing.T) {
	t.Run("valid create", func(t *testing.T) {
		d := &models.Department{}
		errs := BindDepartment(url.Values{"codigo": {"15"}, "name": {" <b>lima</b> "}}, d, true)
		assert.Empty(t, errs)
		assert.Equal(t, "15", d.Code)
		assert.Equal(t, "lima", d.Name)
	})

	t.Run("missing fields", func(t *testing.T) {
		errs := BindDepartment(url.Values{}, &models.Department{}, true)
		assert.Equal(t, []string{"Este campo es obligatorio."}, errs["codigo"])
		assert.Equal(t, []string{"Este campo es obligatorio."}, errs["name"])
	})

	t.Run("code is immutable on edit", func(t *testing.T) {
		d := &models.Department{Code: "15", CatalogBase: models.CatalogBase{Name: "LIMA"}}
		errs := BindDepartment(url.Values{"codigo": {"99"}, "name": {"lima metropolitana"}}, d, false)
		assert.Empty(t, errs)
		assert.Equal(t, "15", d.Code)
		assert.Equal(t, "lima metropolitana", d.Name)
	})

	t.Run("code too long", func(t *testing.T) {
		errs := BindDepartment(url.Values{"codigo": {"123456789"}, "name": {"x"}}, &models.Department{}, true)
		assert.Contains(t, errs["codigo"][0], "como máximo 8")
	})
}

func TestBindDistrictForcesParentAndIgnoresSelector(t *testing.T) {
	d := &models.District{Province: &models.Province{Code: "1501"}}
	errs := BindDistrict(url.Values{
		"codigo":       {"150102"},
		"name":         {"ancon"},
		"provincia":    {"1502"},
		"departamento": {"15"},
	}, d, true)
	require.Empty(t, errs)
	assert.Equal(t, "1502", d.ProvinceCode)
	assert.Nil(t, d.Province)
}

func TestBindSearch(t *testing.T) {
	in, errs := BindSearch(url.Values{"param": {"Lima2"}, "page": {"2"}})
	assert.Empty(t, errs)
	assert.Equal(t, "Lima2", in.Param)
	assert.Equal(t, 2, in.Page)

	_, errs = BindSearch(url.Values{"param": {"Lima!"}})
	assert.Equal(t, []string{"Solo se permiten letras y números."}, errs["param"])

	in, errs = BindSearch(url.Values{"param": {"Áncash"}})
	assert.Empty(t, errs)
	assert.Equal(t, "Áncash", in.Param)

	_, errs = BindSearch(url.Values{"page": {"dos"}})
	assert.NotEmpty(t, errs)
}

func TestBindUser(t *testing.T) {
	t.Run("create requires password", func(t *testing.T) {
		_, errs := BindUser(url.Values{"username": {"ana"}, "name": {"Ana"}, "role": {"asesor"}}, &models.User{}, true)
		assert.Equal(t, []string{"Este campo es obligatorio."}, errs["password"])
	})

	t.Run("unknown role", func(t *testing.T) {
		_, errs := BindUser(url.Values{"username": {"ana"}, "name": {"Ana"}, "role": {"root"}, "password": {"clave2024"}}, &models.User{}, true)
		assert.Equal(t, []string{"Seleccione una opción válida."}, errs["role"])
	})

	t.Run("edit ignores password", func(t *testing.T) {
		u := &models.User{Username: "ana", Name: "Ana", Role: models.RoleAsesor}
		password, errs := BindUser(url.Values{"name": {"Ana María"}, "password": {"x"}}, u, false)
		assert.Empty(t, errs)
		assert.Empty(t, password)
		assert.Equal(t, "Ana María", u.Name)
		assert.Equal(t, models.RoleAsesor, u.Role)
	})
}

func TestBindPasswordReset(t *testing.T) {
	password, errs := BindPasswordReset(url.Values{"password": {"clave2024"}, "confirmation": {"clave2024"}})
	assert.Empty(t, errs)
	assert.Equal(t, "clave2024", password)

	_, errs = BindPasswordReset(url.Values{"password": {"clave2024"}, "confirmation": {"otra2024"}})
	assert.Equal(t, []string{"Las contraseñas no coinciden."}, errs["confirmation"])

	_, errs = BindPasswordReset(url.Values{"password": {"corta"}, "confirmation": {"corta"}})
	assert.Contains(t, errs["password"][0], "al menos 8")
}

func TestFillKeepsDisabledControls(t *testing.T) {
	dep := &models.Department{Code: "15", CatalogBase: models.CatalogBase{Name: "LIMA"}}
	f := DepartmentForm(dep, false)
	f.Fill(url.Values{"codigo": {"99"}, "name": {" callao "}})

	assert.Equal(t, "15", f.Field("codigo").Value)
	assert.Equal(t, "callao", f.Field("name").Value)
}

func TestFillReselectsOptions(t *testing.T) {
	prov := &models.Province{Code: "1501", DepartmentCode: "15"}
	f := ProvinceForm(prov, false, []Option{{Value: "15", Label: "LIMA"}, {Value: "07", Label: "CALLAO"}})
	f.Fill(url.Values{"departamento": {"07"}})

	sel := f.Field("departamento")
	assert.Equal(t, "07", sel.Value)
	assert.False(t, sel.Options[1].Selected)
	assert.True(t, sel.Options[2].Selected)

	f.Hide("departamento", "15")
	assert.Equal(t, WidgetHidden, sel.Widget)
	assert.Equal(t, "15", sel.Value)
	assert.Empty(t, sel.Options)
}
