package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ubigeo_app_go/models"
)

func TestFormatField(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2024, 2, 29, 23, 5, 9, 0, time.UTC)
	dep := &models.Department{Code: "15", CatalogBase: models.CatalogBase{Name: "LIMA"}}
	fk := models.FieldMeta{Name: "departamento", Kind: models.FieldForeignKey, Related: "departamento"}
	resolver := ResolverRegistry{
		"departamento": func(ctx context.Context, pk string) (string, error) { return "DEP " + pk, nil },
	}

	tests := []struct {
		name  string
		field models.FieldMeta
		value interface{}
		want  string
	}{
		{"nil", models.FieldMeta{}, nil, "-"},
		{"blank text", models.FieldMeta{}, "  ", "-"},
		{"text", models.FieldMeta{}, "LIMA", "LIMA"},
		{"json number", models.FieldMeta{}, float64(15), "15"},
		{"bool true", models.FieldMeta{Kind: models.FieldBool}, true, "Sí"},
		{"bool false", models.FieldMeta{Kind: models.FieldBool}, false, "No"},
		{"time", models.FieldMeta{Kind: models.FieldDateTime}, at, "29/02/2024 23:05:09"},
		{"json time", models.FieldMeta{Kind: models.FieldDateTime}, "2024-02-29T23:05:09Z", "29/02/2024 23:05:09"},
		{"zero time", models.FieldMeta{Kind: models.FieldDateTime}, time.Time{}, "-"},
		{"bad time", models.FieldMeta{Kind: models.FieldDateTime}, "ayer", "-"},
		{"loaded fk", fk, dep, "LIMA"},
		{"fk key", fk, "15", "DEP 15"},
		{"choice", models.UserMeta.Fields[2], "admin", "Administrador"},
		{"unknown choice", models.UserMeta.Fields[2], "root", "root"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatField(ctx, tt.field, tt.value, resolver))
		})
	}
}

func TestExportValueWritesForeignKeysAsCodes(t *testing.T) {
	dep := &models.Department{Code: "15", CatalogBase: models.CatalogBase{Name: "LIMA"}}
	fk, _ := models.ProvinceMeta.Field("departamento")

	assert.Equal(t, "15", ExportValue(fk, dep))
	assert.Equal(t, "15", ExportValue(fk, "15"))
	assert.Equal(t, "Sí", ExportValue(models.FieldMeta{Kind: models.FieldBool}, true))
	assert.Equal(t, "-", ExportValue(models.FieldMeta{}, nil))
}
