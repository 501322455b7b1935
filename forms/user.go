package forms

import (
	"net/url"

	"ubigeo_app_go/models"
)

// UserInput is the usuario edit form. Password is only read when creating.
type UserInput struct {
	Username string `form:"username" validate:"required,max=150,alphanum"`
	Name     string `form:"name" validate:"required,max=250"`
	Role     string `form:"role" validate:"required,oneof=admin supervisor asesor"`
	Password string `form:"password" validate:"omitempty,min=8,max=128"`
}

// PasswordResetInput is the password reset form
type PasswordResetInput struct {
	Password     string `form:"password" validate:"required,min=8,max=128"`
	Confirmation string `form:"confirmation" validate:"required,eqfield=Password"`
}

// SearchInput carries the list filters
type SearchInput struct {
	Param string `form:"param" validate:"omitempty,max=100,alphanumunicode"`
	Page  int    `form:"page" validate:"omitempty,min=1"`
}

// BindUser validates values and copies them onto u. The returned password is
// the plain text to hash, empty on edits.
func BindUser(values url.Values, u *models.User, creating bool) (string, map[string][]string) {
	in := UserInput{Username: u.Username, Name: u.Name, Role: u.Role}
	if err := Decode(&in, values); err != nil {
		return "", map[string][]string{"": {err.Error()}}
	}
	in.Name = Clean(in.Name)
	if !creating {
		in.Password = ""
	}

	errs := Check(&in)
	if creating && in.Password == "" {
		if errs == nil {
			errs = make(map[string][]string)
		}
		errs["password"] = append(errs["password"], "Este campo es obligatorio.")
	}
	if len(errs) > 0 {
		return "", errs
	}

	u.Username = in.Username
	u.Name = in.Name
	u.Role = in.Role
	return in.Password, nil
}

// BindPasswordReset validates a password reset submission
func BindPasswordReset(values url.Values) (string, map[string][]string) {
	var in PasswordResetInput
	if err := Decode(&in, values); err != nil {
		return "", map[string][]string{"": {err.Error()}}
	}
	if errs := Check(&in); len(errs) > 0 {
		return "", errs
	}
	return in.Password, nil
}

// BindSearch decodes and validates the list filters
func BindSearch(values url.Values) (SearchInput, map[string][]string) {
	var in SearchInput
	if err := Decode(&in, values); err != nil {
		return in, map[string][]string{"param": {"Valor inválido."}}
	}
	return in, Check(&in)
}

func roleOptions() []Option {
	role, _ := models.UserMeta.Field("role")
	opts := make([]Option, 0, len(role.Choices))
	for _, c := range role.Choices {
		opts = append(opts, Option{Value: c.Value, Label: c.Label})
	}
	return opts
}

// UserForm builds the usuario form; the password control only appears when creating
func UserForm(u *models.User, creating bool) *Form {
	f := &Form{Fields: []*Field{
		TextField("username", "Usuario", u.Username, true),
		TextField("name", "Nombre", u.Name, true),
		SelectField("role", "Rol", u.Role, true, roleOptions()),
	}}
	if creating {
		f.Fields = append(f.Fields, &Field{Name: "password", Label: "Contraseña", Widget: WidgetPassword, Required: true})
	}
	return f
}

// PasswordResetForm builds the blank reset form
func PasswordResetForm() *Form {
	return &Form{Fields: []*Field{
		{Name: "password", Label: "Contraseña", Widget: WidgetPassword, Required: true},
		{Name: "confirmation", Label: "Confirmar contraseña", Widget: WidgetPassword, Required: true},
	}}
}

// ImportForm builds the blank import form
func ImportForm() *Form {
	return &Form{Fields: []*Field{
		{Name: "file", Label: "Archivo", Widget: WidgetFile, Required: true,
			Attrs: map[string]string{"accept": ".xlsx"}},
	}}
}

// SearchForm builds the list search form
func SearchForm(param, placeholder string) *Form {
	f := &Form{Fields: []*Field{TextField("param", placeholder, param, false)}}
	return f.Format(false)
}
