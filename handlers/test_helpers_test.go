package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ubigeo_app_go/middleware"
	"ubigeo_app_go/models"
	"ubigeo_app_go/services"
	"ubigeo_app_go/services/i18n"
)

var testNow = time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *gorm.DB {
	// Unique shared memory name isolates tests while keeping one database per pool
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = testDB.AutoMigrate(
		&models.Department{},
		&models.Province{},
		&models.District{},
		&models.User{},
		&models.HistoryEvent{},
	)
	require.NoError(t, err)
	require.NoError(t, i18n.Load(nil))
	return testDB
}

func setupDeps(t *testing.T, db *gorm.DB) *Deps {
	authz, err := services.NewAuthorizer("", nil)
	require.NoError(t, err)
	return &Deps{
		DB:       db,
		Log:      zap.NewNop(),
		Authz:    authz,
		Resolver: services.NewResolverRegistry(db),
		AppName:  "Ubigeo",
		Now:      func() time.Time { return testNow },
	}
}

// setupEcho mounts every maintenance route behind a middleware that logs user in
func setupEcho(t *testing.T, deps *Deps, user *models.User) *echo.Echo {
	e := echo.New()
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if user != nil {
				c.Set(middleware.ContextKeyUser, user)
			}
			return next(c)
		}
	})
	e.Use(middleware.EventContext())
	Register(e.Group(""), deps)
	return e
}

func doRequest(e *echo.Echo, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// triggered decodes the HX-Trigger header of a completion response
func triggered(t *testing.T, rec *httptest.ResponseRecorder) map[string]map[string]interface{} {
	t.Helper()
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
	var out map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(rec.Header().Get(HeaderHXTrigger)), &out))
	return out
}

func createUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	hash, err := services.HashPassword("clave2024")
	require.NoError(t, err)

	user := &models.User{Username: username, Name: username, Role: role, Password: hash}
	require.NoError(t, services.NewUserService(db, nil).Create(context.Background(), user))
	return user
}

// seedLima creates department 15, province 1501 and district 150101
func seedLima(t *testing.T, db *gorm.DB) (*models.Department, *models.Province, *models.District) {
	ctx := context.Background()

	dep := &models.Department{Code: "15", CatalogBase: models.CatalogBase{Name: "lima"}}
	require.NoError(t, services.NewDepartmentService(db, nil).Create(ctx, dep))

	prov := &models.Province{Code: "1501", DepartmentCode: "15", CatalogBase: models.CatalogBase{Name: "lima"}}
	require.NoError(t, services.NewProvinceService(db, nil).Create(ctx, prov))

	dist := &models.District{Code: "150101", ProvinceCode: "1501", CatalogBase: models.CatalogBase{Name: "lima"}}
	require.NoError(t, services.NewDistrictService(db, nil).Create(ctx, dist))

	return dep, prov, dist
}

// countQueries counts the SELECT statements run on db
func countQueries(db *gorm.DB) *int {
	n := new(int)
	db.Callback().Query().Before("gorm:query").Register("test:count", func(*gorm.DB) {
		*n++
	})
	return n
}
