package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ubigeo_app_go/models"
)

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
	return testDB
}

// seedLima creates department 15, province 1501 and district 150101
func seedLima(t *testing.T, db *gorm.DB) (*models.Department, *models.Province, *models.District) {
	ctx := context.Background()

	dep := &models.Department{Code: "15", CatalogBase: models.CatalogBase{Name: "lima"}}
	require.NoError(t, NewDepartmentService(db, nil).Create(ctx, dep))

	prov := &models.Province{Code: "1501", DepartmentCode: "15", CatalogBase: models.CatalogBase{Name: "lima"}}
	require.NoError(t, NewProvinceService(db, nil).Create(ctx, prov))

	dist := &models.District{Code: "150101", ProvinceCode: "1501", CatalogBase: models.CatalogBase{Name: "lima"}}
	require.NoError(t, NewDistrictService(db, nil).Create(ctx, dist))

	return dep, prov, dist
}

func createUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	hash, err := HashPassword("clave2024")
	require.NoError(t, err)

	user := &models.User{Username: username, Name: username, Role: role, Password: hash}
	require.NoError(t, NewUserService(db, nil).Create(context.Background(), user))
	return user
}
