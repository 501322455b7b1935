package models

import (
	"gorm.io/gorm"
)

// District belongs to a Province; its department is reached through the province
type District struct {
	Code string `gorm:"size:8;primarykey" json:"codigo"`
	CatalogBase

	ProvinceCode string    `gorm:"size:8;not null;index" json:"provincia"`
	Province     *Province `gorm:"foreignKey:ProvinceCode;references:Code" json:"-"`
}

// DistrictMeta describes the distrito catalog
var DistrictMeta = &ModelMeta{
	App:           "common",
	Name:          "distrito",
	Verbose:       "distrito",
	VerbosePlural: "distritos",
	Table:         "districts",
	PKColumn:      "code",
	Fields: withCatalogFields(
		FieldMeta{Name: "codigo", Label: "Código"},
		FieldMeta{Name: "name", Label: "Nombre"},
		FieldMeta{Name: "provincia", Label: "Provincia", Kind: FieldForeignKey, Related: "provincia"},
		FieldMeta{Name: "departamento", Label: "Departamento", Kind: FieldForeignKey, Related: "departamento", Derived: true},
	),
}

// BeforeSave upper-cases the name on every write
func (d *District) BeforeSave(tx *gorm.DB) error {
	d.normalize()
	return nil
}

// TableName specifies the table name
func (District) TableName() string {
	return "districts"
}

func (d *District) PrimaryKey() string { return d.Code }

func (d *District) Meta() *ModelMeta { return DistrictMeta }

func (d *District) ParentKey() string { return d.ProvinceCode }

// SetParentKey re-points the district and drops the stale preloaded parent
func (d *District) SetParentKey(pk string) {
	if d.Province != nil && d.Province.Code != pk {
		d.Province = nil
	}
	d.ProvinceCode = pk
}

func (d *District) ParentMeta() *ModelMeta { return ProvinceMeta }

// DepartmentCode is derived from the province, empty when it is not loaded
func (d *District) DepartmentCode() string {
	if d.Province == nil {
		return ""
	}
	return d.Province.DepartmentCode
}

func (d *District) Snapshot() map[string]interface{} {
	s := d.snapshot()
	s["codigo"] = d.Code
	s["provincia"] = d.ProvinceCode
	return s
}

func (d *District) Value(field string) interface{} {
	switch field {
	case "codigo":
		return d.Code
	case "provincia":
		if d.Province != nil {
			return d.Province
		}
		return d.ProvinceCode
	case "departamento":
		if d.Province != nil && d.Province.Department != nil {
			return d.Province.Department
		}
		return d.DepartmentCode()
	}
	return d.value(field)
}

func (d *District) String() string {
	return displayName(d.Name, d.IsActive)
}
