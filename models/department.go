package models

import (
	"gorm.io/gorm"
)

// Department is the top level of the ubigeo hierarchy (e.g. "15" LIMA)
type Department struct {
	Code string `gorm:"size:8;primarykey" json:"codigo"`
	CatalogBase

	// Relationships
	Provinces []Province `gorm:"foreignKey:DepartmentCode;constraint:OnDelete:RESTRICT" json:"provincias,omitempty"`
}

// DepartmentMeta describes the departamento catalog
var DepartmentMeta = &ModelMeta{
	App:           "common",
	Name:          "departamento",
	Verbose:       "departamento",
	VerbosePlural: "departamentos",
	Table:         "departments",
	PKColumn:      "code",
	Fields: withCatalogFields(
		FieldMeta{Name: "codigo", Label: "Código"},
		FieldMeta{Name: "name", Label: "Nombre"},
	),
	Children: []ChildRef{{Table: "provinces", Column: "department_code"}},
}

// BeforeSave upper-cases the name on every write
func (d *Department) BeforeSave(tx *gorm.DB) error {
	d.normalize()
	return nil
}

// TableName specifies the table name
func (Department) TableName() string {
	return "departments"
}

func (d *Department) PrimaryKey() string { return d.Code }

func (d *Department) Meta() *ModelMeta { return DepartmentMeta }

func (d *Department) Snapshot() map[string]interface{} {
	s := d.snapshot()
	s["codigo"] = d.Code
	return s
}

func (d *Department) Value(field string) interface{} {
	if field == "codigo" {
		return d.Code
	}
	return d.value(field)
}

func (d *Department) String() string {
	return displayName(d.Name, d.IsActive)
}
