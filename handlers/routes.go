package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Register mounts every maintenance route on g
func Register(g *echo.Group, deps *Deps) *Services {
	s := NewServices(deps)

	mount(g, "/common/departamento", NewMaintenance(DepartmentRoute(s), deps).Handle)
	mount(g, "/common/provincia", NewMaintenance(ProvinceRoute(s), deps).Handle)
	mount(g, "/common/distrito", NewMaintenance(DistrictRoute(s), deps).Handle)
	mount(g, "/common/usuario", NewMaintenance(UserRoute(s), deps).Handle)

	mount(g, "/common/departamento/:parent/provincia",
		NewRelatedMaintenance(ProvinceRoute(s), ParentOf(s.Departments, "department_code"), deps).Handle)
	mount(g, "/common/provincia/:parent/distrito",
		NewRelatedMaintenance(DistrictRoute(s), ParentOf(s.Provinces, "province_code"), deps).Handle)

	g.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/common/departamento/")
	})
	return s
}

// mount answers every method so the dispatcher can tell wrong verbs from unknown actions
func mount(g *echo.Group, prefix string, h echo.HandlerFunc) {
	g.Any(prefix+"/", h)
	g.Any(prefix+"/:action/", h)
	g.Any(prefix+"/:action/:pk/", h)
}
