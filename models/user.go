package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles
const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
	RoleAsesor     = "asesor"
)

type User struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Username    string     `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Name        string     `gorm:"size:250;not null" json:"name"`
	Password    string     `gorm:"not null" json:"-"`
	Role        string     `gorm:"size:20;not null" json:"role"`
	IsSuperuser bool       `gorm:"not null" json:"is_superuser"`
	IsActive    bool       `gorm:"not null;index" json:"is_active"`
	LastLogin   *time.Time `json:"last_login"`
}

// UserMeta describes the usuario catalog
var UserMeta = &ModelMeta{
	App:           "common",
	Name:          "usuario",
	Verbose:       "usuario",
	VerbosePlural: "usuarios",
	Table:         "users",
	PKColumn:      "id",
	Fields: []FieldMeta{
		{Name: "username", Label: "Usuario"},
		{Name: "name", Label: "Nombre"},
		{Name: "role", Label: "Rol", Kind: FieldChoice, Choices: []Choice{
			{Value: RoleAdmin, Label: "Administrador"},
			{Value: RoleSupervisor, Label: "Supervisor"},
			{Value: RoleAsesor, Label: "Asesor"},
		}},
		{Name: "is_superuser", Label: "Superusuario", Kind: FieldBool},
		{Name: "is_active", Label: "Activo", Kind: FieldBool},
		{Name: "password", Label: "Contraseña"},
		{Name: "last_login", Label: "Último ingreso", Kind: FieldDateTime},
		{Name: "created_at", Label: "Fecha de creación", Kind: FieldDateTime},
	},
}

// BeforeCreate hook to generate UUID
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

func (u *User) PrimaryKey() string { return u.ID }

func (u *User) Active() bool { return u.IsActive }

func (u *User) SetActive(active bool) { u.IsActive = active }

func (u *User) Meta() *ModelMeta { return UserMeta }

// Snapshot includes the password hash so resets show up in history; it is never displayed
func (u *User) Snapshot() map[string]interface{} {
	var lastLogin interface{}
	if u.LastLogin != nil {
		lastLogin = *u.LastLogin
	}
	return map[string]interface{}{
		"username":     u.Username,
		"name":         u.Name,
		"role":         u.Role,
		"is_superuser": u.IsSuperuser,
		"is_active":    u.IsActive,
		"password":     u.Password,
		"last_login":   lastLogin,
		"created_at":   u.CreatedAt,
	}
}

func (u *User) Value(field string) interface{} {
	switch field {
	case "username":
		return u.Username
	case "name":
		return u.Name
	case "role":
		return u.Role
	case "is_superuser":
		return u.IsSuperuser
	case "is_active":
		return u.IsActive
	case "last_login":
		if u.LastLogin == nil {
			return nil
		}
		return *u.LastLogin
	case "created_at":
		return u.CreatedAt
	}
	return nil
}

func (u *User) String() string {
	return displayName(u.Username, u.IsActive)
}

// RoleLabel returns the display label of the user's role
func (u *User) RoleLabel() string {
	f, _ := UserMeta.Field("role")
	return f.ChoiceLabel(u.Role)
}
