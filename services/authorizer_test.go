package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ubigeo_app_go/models"
)

func TestAuthorizerDefaultPolicy(t *testing.T) {
	authz, err := NewAuthorizer("", nil)
	require.NoError(t, err)

	admin := &models.User{Role: models.RoleAdmin, IsActive: true}
	supervisor := &models.User{Role: models.RoleSupervisor, IsActive: true}
	asesor := &models.User{Role: models.RoleAsesor, IsActive: true}

	tests := []struct {
		name   string
		user   *models.User
		action string
		meta   *models.ModelMeta
		want   bool
	}{
		{"asesor lists", asesor, "list", models.DepartmentMeta, true},
		{"asesor exports", asesor, "export", models.DistrictMeta, true},
		{"asesor cannot add", asesor, "add", models.DepartmentMeta, false},
		{"supervisor inherits list", supervisor, "list", models.ProvinceMeta, true},
		{"supervisor adds", supervisor, "add", models.ProvinceMeta, true},
		{"supervisor imports", supervisor, "import", models.DistrictMeta, true},
		{"supervisor cannot add users", supervisor, "add", models.UserMeta, false},
		{"supervisor reads users", supervisor, "read", models.UserMeta, true},
		{"admin resets passwords", admin, "reset", models.UserMeta, true},
		{"nil user", nil, "list", models.DepartmentMeta, false},
		{"superuser is refused", &models.User{Role: models.RoleAdmin, IsActive: true, IsSuperuser: true}, "list", models.DepartmentMeta, false},
		{"inactive user is refused", &models.User{Role: models.RoleAdmin}, "list", models.DepartmentMeta, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, authz.Can(tt.user, tt.action, tt.meta, nil))
		})
	}
}

func TestAuthorizerObjectState(t *testing.T) {
	authz, err := NewAuthorizer("", nil)
	require.NoError(t, err)
	admin := &models.User{Role: models.RoleAdmin, IsActive: true}

	active := &models.Department{Code: "15", CatalogBase: models.CatalogBase{Name: "LIMA", IsActive: true}}
	inactive := &models.Department{Code: "07", CatalogBase: models.CatalogBase{Name: "CALLAO"}}

	assert.True(t, authz.Can(admin, "edit", models.DepartmentMeta, active))
	assert.False(t, authz.Can(admin, "edit", models.DepartmentMeta, inactive))
	assert.False(t, authz.Can(admin, "delete", models.DepartmentMeta, inactive))
	assert.True(t, authz.Can(admin, "read", models.DepartmentMeta, inactive))
	assert.True(t, authz.Can(admin, "history", models.DepartmentMeta, inactive))

	assert.True(t, authz.Can(admin, "reactivate", models.DepartmentMeta, inactive))
	assert.False(t, authz.Can(admin, "reactivate", models.DepartmentMeta, active))
}

func TestObjectAllows(t *testing.T) {
	active := &models.District{Code: "150101", CatalogBase: models.CatalogBase{Name: "LIMA", IsActive: true}}
	inactive := &models.District{Code: "150102", CatalogBase: models.CatalogBase{Name: "ANCON"}}

	assert.True(t, ObjectAllows("edit", active))
	assert.False(t, ObjectAllows("edit", inactive))
	assert.False(t, ObjectAllows("delete", inactive))
	assert.True(t, ObjectAllows("read", inactive))
	assert.True(t, ObjectAllows("reactivate", inactive))
	assert.False(t, ObjectAllows("reactivate", active))
}

func TestAuthorizerPolicyFile(t *testing.T) {
	policy := filepath.Join(t.TempDir(), "policy.csv")
	content := "p, consulta, common/departamento, list\n"
	require.NoError(t, os.WriteFile(policy, []byte(content), 0644))

	authz, err := NewAuthorizer(policy, nil)
	require.NoError(t, err)

	user := &models.User{Role: "consulta", IsActive: true}
	assert.True(t, authz.Can(user, "list", models.DepartmentMeta, nil))
	assert.False(t, authz.Can(user, "list", models.ProvinceMeta, nil))
}
