package handlers

import (
	"context"
	"net/url"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"ubigeo_app_go/forms"
	"ubigeo_app_go/models"
	"ubigeo_app_go/services"
)

// Deps are the collaborators shared by every maintenance route
type Deps struct {
	DB       *gorm.DB
	Log      *zap.Logger
	Authz    *services.Authorizer
	Storage  services.StorageProvider
	Resolver services.DisplayResolver
	AppName  string
	Now      func() time.Time
}

func (d *Deps) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

func (d *Deps) logger() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}

// RouteConfig describes how one model is maintained
type RouteConfig[T models.Record] struct {
	Service *services.CatalogService[T]
	// Actions enabled on the route
	Actions []string
	// ListFields and ExportFields are the columns of the list and the spreadsheet
	ListFields   []string
	ExportFields []string

	SearchPlaceholder string

	// ParentField is the form field holding the parent key. On related routes
	// it is hidden and forced to the parent.
	ParentField string
	// CascadeFields re-render the form through partial when they change
	CascadeFields []string

	// Bind validates submitted values and copies them onto obj
	Bind func(values url.Values, obj T, creating bool) map[string][]string
	// Form builds the edit form; values are the submitted values on re-renders
	Form func(ctx context.Context, obj T, creating bool, values url.Values) (*forms.Form, error)
	// Reset stores a new password for obj
	Reset func(ctx context.Context, obj T, password string) error
}

// ParentRoute scopes a related route to rows of a parent model
type ParentRoute struct {
	Meta *models.ModelMeta
	// Column of the child table that references the parent
	Column string
	// Load returns the parent row in the all scope, services.ErrNotFound when missing
	Load func(ctx context.Context, pk string) (models.Record, error)
}

// ParentOf builds a ParentRoute from the parent's service
func ParentOf[P models.Record](svc *services.CatalogService[P], column string) *ParentRoute {
	return &ParentRoute{
		Meta:   svc.New().Meta(),
		Column: column,
		Load: func(ctx context.Context, pk string) (models.Record, error) {
			obj, err := svc.Get(ctx, pk, services.ScopeAll)
			if err != nil {
				return nil, err
			}
			return obj, nil
		},
	}
}
