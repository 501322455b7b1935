package services

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"ubigeo_app_go/models"
)

// NewDepartmentService lists departments by name, soft-deleted last
func NewDepartmentService(db *gorm.DB, log *zap.Logger) *CatalogService[*models.Department] {
	return &CatalogService[*models.Department]{
		DB:            db,
		Log:           log,
		New:           func() *models.Department { return &models.Department{} },
		OrderBy:       []string{"is_active DESC", "name"},
		SearchColumns: []string{"name"},
	}
}

// NewProvinceService lists provinces by code with their department loaded
func NewProvinceService(db *gorm.DB, log *zap.Logger) *CatalogService[*models.Province] {
	return &CatalogService[*models.Province]{
		DB:            db,
		Log:           log,
		New:           func() *models.Province { return &models.Province{} },
		Preload:       []string{"Department"},
		OrderBy:       []string{"is_active DESC", "code"},
		SearchColumns: []string{"name"},
	}
}

// NewDistrictService lists districts by code with province and department loaded
func NewDistrictService(db *gorm.DB, log *zap.Logger) *CatalogService[*models.District] {
	return &CatalogService[*models.District]{
		DB:            db,
		Log:           log,
		New:           func() *models.District { return &models.District{} },
		Preload:       []string{"Province", "Province.Department"},
		OrderBy:       []string{"is_active DESC", "code"},
		SearchColumns: []string{"name"},
	}
}

// NewUserService lists maintenance users by username
func NewUserService(db *gorm.DB, log *zap.Logger) *CatalogService[*models.User] {
	return &CatalogService[*models.User]{
		DB:            db,
		Log:           log,
		New:           func() *models.User { return &models.User{} },
		OrderBy:       []string{"is_active DESC", "username"},
		SearchColumns: []string{"username", "name"},
	}
}
