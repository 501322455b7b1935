package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventNames(t *testing.T) {
	tests := []struct {
		table  EventTable
		action string
		ok     bool
		want   string
		found  bool
	}{
		{TopLevelEvents, ActionAdd, true, "ObjectAdded", true},
		{TopLevelEvents, ActionDelete, false, "ObjectDeletedFail", true},
		{TopLevelEvents, ActionImport, true, "ObjectsImported", true},
		{TopLevelEvents, ActionReset, false, "PasswordUpdatedFail", true},
		{RelatedEvents, ActionEdit, true, "ObjectEditedRelated", true},
		{RelatedEvents, ActionReactivate, false, "ObjectReactivatedFailRelated", true},
		{RelatedEvents, ActionImport, true, "", false},
		{TopLevelEvents, ActionList, true, "", false},
	}
	for _, tt := range tests {
		got, found := tt.table.Name(tt.action, tt.ok)
		assert.Equal(t, tt.found, found, tt.action)
		assert.Equal(t, tt.want, got, tt.action)
	}
}

func TestSuccessNames(t *testing.T) {
	assert.Equal(t, []string{"ObjectAddedRelated", "ObjectEditedRelated", "ObjectDeletedRelated", "ObjectReactivatedRelated"},
		RelatedEvents.SuccessNames())
	assert.Len(t, TopLevelEvents.SuccessNames(), 6)
}

func TestCompletionTitle(t *testing.T) {
	assert.Equal(t, "Provincia creada correctamente", CompletionTitle(ActionAdd, true, true, "Provincia"))
	assert.Equal(t, "Distrito eliminado correctamente", CompletionTitle(ActionDelete, true, false, "Distrito"))
	assert.Equal(t, "No se pudo reactivar Registro no encontrado", CompletionTitle(ActionReactivate, false, true, "Registro no encontrado"))
	assert.Equal(t, "Contraseña reseteada correctamente", CompletionTitle(ActionReset, true, false, ""))
}

func TestTriggerEscapesNonASCII(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

	require.NoError(t, Trigger(c, "PasswordUpdated", map[string]interface{}{"title": "Contraseña 🔑"}))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, `{"PasswordUpdated":{"title":"Contrase\u00f1a \ud83d\udd11"}}`, rec.Header().Get(HeaderHXTrigger))
}
