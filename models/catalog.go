package models

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DeletedText prefixes the display string of soft-deleted rows
const DeletedText = "ELIMINADO"

// FieldKind selects how a field value is formatted in lists, exports and history
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldDateTime
	FieldBool
	FieldForeignKey
	FieldChoice
)

// Choice is one value/label pair of an enumerated field
type Choice struct {
	Value string
	Label string
}

// FieldMeta describes one tracked or displayed field of a model
type FieldMeta struct {
	Name    string // form, snapshot and export key
	Label   string // human readable name
	Kind    FieldKind
	Related string // referenced model name for FieldForeignKey
	Derived bool   // computed from relations, never written
	Choices []Choice
}

// ChoiceLabel returns the label for raw, or raw itself when unknown
func (f FieldMeta) ChoiceLabel(raw string) string {
	for _, c := range f.Choices {
		if c.Value == raw {
			return c.Label
		}
	}
	return raw
}

// ChildRef points at a table holding rows that reference a model
type ChildRef struct {
	Table  string
	Column string
}

// ModelMeta is the static description of a maintained model
type ModelMeta struct {
	App           string
	Name          string
	Verbose       string
	VerbosePlural string
	Feminine      bool
	Table         string
	PKColumn      string
	Fields        []FieldMeta
	Children      []ChildRef
}

// Field looks up a field by name
func (m *ModelMeta) Field(name string) (FieldMeta, bool) {
	for _, f := range m.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldMeta{}, false
}

// FieldByLabel matches a spreadsheet header against field names and labels
func (m *ModelMeta) FieldByLabel(header string) (FieldMeta, bool) {
	header = strings.TrimSpace(header)
	for _, f := range m.Fields {
		if strings.EqualFold(f.Name, header) || strings.EqualFold(f.Label, header) {
			return f, true
		}
	}
	return FieldMeta{}, false
}

// Headers returns the title-cased labels of the given fields
func (m *ModelMeta) Headers(fields []string) []string {
	headers := make([]string, 0, len(fields))
	for _, name := range fields {
		if f, ok := m.Field(name); ok {
			headers = append(headers, TitleCase(f.Label))
		} else {
			headers = append(headers, TitleCase(name))
		}
	}
	return headers
}

// Title is the singular display name, title-cased
func (m *ModelMeta) Title() string {
	return TitleCase(m.Verbose)
}

// PluralTitle is the plural display name, title-cased
func (m *ModelMeta) PluralTitle() string {
	return TitleCase(m.VerbosePlural)
}

// TitleCase upper-cases the first letter of every word and lower-cases the rest.
// Casers keep state, so each call gets its own.
func TitleCase(s string) string {
	return cases.Title(language.Spanish).String(s)
}

// Record is implemented by every maintained model
type Record interface {
	PrimaryKey() string
	Active() bool
	SetActive(active bool)
	Meta() *ModelMeta
	// Snapshot returns the tracked values keyed by field name
	Snapshot() map[string]interface{}
	// Value returns a list/export field value; foreign keys return the related Record when loaded
	Value(field string) interface{}
	String() string
}

// Parented is implemented by records that belong to a parent catalog
type Parented interface {
	ParentKey() string
	SetParentKey(pk string)
	ParentMeta() *ModelMeta
}

// CatalogBase holds the shape shared by all ubigeo catalogs
type CatalogBase struct {
	Name      string    `gorm:"size:250;not null" json:"name"`
	IsActive  bool      `gorm:"not null;index" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Active reports whether the row is not soft-deleted
func (b *CatalogBase) Active() bool {
	return b.IsActive
}

// SetActive toggles the soft-delete flag
func (b *CatalogBase) SetActive(active bool) {
	b.IsActive = active
}

// normalize applies the write-time rules every catalog shares
func (b *CatalogBase) normalize() {
	b.Name = strings.ToUpper(strings.TrimSpace(b.Name))
}

func (b *CatalogBase) snapshot() map[string]interface{} {
	return map[string]interface{}{
		"name":       b.Name,
		"is_active":  b.IsActive,
		"created_at": b.CreatedAt,
	}
}

func (b *CatalogBase) value(field string) interface{} {
	switch field {
	case "name":
		return b.Name
	case "is_active":
		return b.IsActive
	case "created_at":
		return b.CreatedAt
	case "updated_at":
		return b.UpdatedAt
	}
	return nil
}

// displayName renders a catalog name with the soft-delete prefix when inactive
func displayName(name string, active bool) string {
	if active {
		return name
	}
	return DeletedText + " - " + name
}

// catalogFields are appended to every catalog's field list
var catalogFields = []FieldMeta{
	{Name: "is_active", Label: "Activo", Kind: FieldBool},
	{Name: "created_at", Label: "Fecha de creación", Kind: FieldDateTime},
	{Name: "updated_at", Label: "Fecha de última modificación", Kind: FieldDateTime},
}

func withCatalogFields(fields ...FieldMeta) []FieldMeta {
	return append(fields, catalogFields...)
}
