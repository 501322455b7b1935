package models

import (
	"gorm.io/gorm"
)

// Province belongs to a Department
type Province struct {
	Code string `gorm:"size:8;primarykey" json:"codigo"`
	CatalogBase

	DepartmentCode string      `gorm:"size:8;not null;index" json:"departamento"`
	Department     *Department `gorm:"foreignKey:DepartmentCode;references:Code" json:"-"`

	// Relationships
	Districts []District `gorm:"foreignKey:ProvinceCode;constraint:OnDelete:RESTRICT" json:"distritos,omitempty"`
}

// ProvinceMeta describes the provincia catalog
var ProvinceMeta = &ModelMeta{
	App:           "common",
	Name:          "provincia",
	Verbose:       "provincia",
	VerbosePlural: "provincias",
	Feminine:      true,
	Table:         "provinces",
	PKColumn:      "code",
	Fields: withCatalogFields(
		FieldMeta{Name: "codigo", Label: "Código"},
		FieldMeta{Name: "name", Label: "Nombre"},
		FieldMeta{Name: "departamento", Label: "Departamento", Kind: FieldForeignKey, Related: "departamento"},
	),
	Children: []ChildRef{{Table: "districts", Column: "province_code"}},
}

// BeforeSave upper-cases the name on every write
func (p *Province) BeforeSave(tx *gorm.DB) error {
	p.normalize()
	return nil
}

// TableName specifies the table name
func (Province) TableName() string {
	return "provinces"
}

func (p *Province) PrimaryKey() string { return p.Code }

func (p *Province) Meta() *ModelMeta { return ProvinceMeta }

func (p *Province) ParentKey() string { return p.DepartmentCode }

// SetParentKey re-points the province and drops the stale preloaded parent
func (p *Province) SetParentKey(pk string) {
	if p.Department != nil && p.Department.Code != pk {
		p.Department = nil
	}
	p.DepartmentCode = pk
}

func (p *Province) ParentMeta() *ModelMeta { return DepartmentMeta }

func (p *Province) Snapshot() map[string]interface{} {
	s := p.snapshot()
	s["codigo"] = p.Code
	s["departamento"] = p.DepartmentCode
	return s
}

func (p *Province) Value(field string) interface{} {
	switch field {
	case "codigo":
		return p.Code
	case "departamento":
		if p.Department != nil {
			return p.Department
		}
		return p.DepartmentCode
	}
	return p.value(field)
}

func (p *Province) String() string {
	return displayName(p.Name, p.IsActive)
}
