package handlers

import (
	"context"
	"net/url"

	"ubigeo_app_go/forms"
	"ubigeo_app_go/models"
	"ubigeo_app_go/services"
)

// Services holds one catalog service per maintained model
type Services struct {
	Departments *services.CatalogService[*models.Department]
	Provinces   *services.CatalogService[*models.Province]
	Districts   *services.CatalogService[*models.District]
	Users       *services.CatalogService[*models.User]
}

// NewServices builds the catalog services on the shared database
func NewServices(deps *Deps) *Services {
	return &Services{
		Departments: services.NewDepartmentService(deps.DB, deps.Log),
		Provinces:   services.NewProvinceService(deps.DB, deps.Log),
		Districts:   services.NewDistrictService(deps.DB, deps.Log),
		Users:       services.NewUserService(deps.DB, deps.Log),
	}
}

var catalogListFields = []string{"created_at", "updated_at", "is_active"}

func listFields(fields ...string) []string {
	return append(fields, catalogListFields...)
}

// DepartmentRoute maintains departamentos
func DepartmentRoute(s *Services) RouteConfig[*models.Department] {
	return RouteConfig[*models.Department]{
		Service:      s.Departments,
		Actions:      CatalogActions,
		ListFields:   listFields("codigo", "name"),
		ExportFields: []string{"codigo", "name"},
		Bind:         forms.BindDepartment,
		Form: func(ctx context.Context, d *models.Department, creating bool, _ url.Values) (*forms.Form, error) {
			return forms.DepartmentForm(d, creating), nil
		},
	}
}

// ProvinceRoute maintains provincias; soft-deleted departments stay selectable
func ProvinceRoute(s *Services) RouteConfig[*models.Province] {
	return RouteConfig[*models.Province]{
		Service:      s.Provinces,
		Actions:      CatalogActions,
		ListFields:   listFields("codigo", "name", "departamento"),
		ExportFields: []string{"codigo", "name", "departamento"},
		ParentField:  "departamento",
		Bind:         forms.BindProvince,
		Form: func(ctx context.Context, p *models.Province, creating bool, _ url.Values) (*forms.Form, error) {
			departments, err := s.Departments.All(ctx, services.ScopeAll, nil)
			if err != nil {
				return nil, err
			}
			return forms.ProvinceForm(p, creating, forms.RecordOptions(departments)), nil
		},
	}
}

// DistrictRoute maintains distritos. The departamento selector narrows the
// provincia options and re-renders the form when it changes.
func DistrictRoute(s *Services) RouteConfig[*models.District] {
	return RouteConfig[*models.District]{
		Service:       s.Districts,
		Actions:       CatalogActions,
		ListFields:    listFields("codigo", "name", "provincia", "departamento"),
		ExportFields:  []string{"codigo", "name", "provincia", "departamento"},
		ParentField:   "provincia",
		CascadeFields: []string{"departamento"},
		Bind:          forms.BindDistrict,
		Form: func(ctx context.Context, d *models.District, creating bool, values url.Values) (*forms.Form, error) {
			department := d.DepartmentCode()
			if values != nil && values.Has("departamento") {
				department = values.Get("departamento")
			}

			departments, err := s.Departments.All(ctx, services.ScopeAll, nil)
			if err != nil {
				return nil, err
			}
			var where map[string]interface{}
			if department != "" {
				where = map[string]interface{}{"department_code": department}
			}
			provinces, err := s.Provinces.All(ctx, services.ScopeAll, where)
			if err != nil {
				return nil, err
			}
			return forms.DistrictForm(d, creating, department,
				forms.RecordOptions(departments), forms.RecordOptions(provinces)), nil
		},
	}
}

// UserRoute maintains the users of the maintenance module
func UserRoute(s *Services) RouteConfig[*models.User] {
	return RouteConfig[*models.User]{
		Service:           s.Users,
		Actions:           UserActions,
		ListFields:        []string{"username", "name", "role", "last_login", "created_at", "is_active"},
		ExportFields:      []string{"username", "name", "role", "is_active", "last_login"},
		SearchPlaceholder: "Buscar por usuario o nombre",
		Bind: func(values url.Values, u *models.User, creating bool) map[string][]string {
			password, errs := forms.BindUser(values, u, creating)
			if len(errs) > 0 || !creating {
				return errs
			}
			if err := services.ValidatePassword(password); err != nil {
				return map[string][]string{"password": {sentence(err.Error())}}
			}
			hash, err := services.HashPassword(password)
			if err != nil {
				return map[string][]string{"": {err.Error()}}
			}
			u.Password = hash
			return nil
		},
		Form: func(ctx context.Context, u *models.User, creating bool, _ url.Values) (*forms.Form, error) {
			return forms.UserForm(u, creating), nil
		},
		Reset: func(ctx context.Context, u *models.User, password string) error {
			hash, err := services.HashPassword(password)
			if err != nil {
				return err
			}
			u.Password = hash
			return s.Users.Update(ctx, u)
		},
	}
}
