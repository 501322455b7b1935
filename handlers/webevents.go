package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf16"

	"github.com/labstack/echo/v4"
)

// HeaderHXTrigger carries client events on htmx responses
const HeaderHXTrigger = "HX-Trigger"

// EventForceSearch makes the search form resubmit itself
const EventForceSearch = "ForceSearch"

// EventTable names the client events emitted when an action completes
type EventTable struct {
	success map[string]string
	fail    map[string]string
}

// TopLevelEvents are emitted by maintenance routes
var TopLevelEvents = EventTable{
	success: map[string]string{
		ActionAdd:        "ObjectAdded",
		ActionDelete:     "ObjectDeleted",
		ActionReactivate: "ObjectReactivated",
		ActionEdit:       "ObjectEdited",
		ActionImport:     "ObjectsImported",
		ActionReset:      "PasswordUpdated",
	},
	fail: map[string]string{
		ActionAdd:        "ObjectAddedFail",
		ActionDelete:     "ObjectDeletedFail",
		ActionReactivate: "ObjectReactivatedFail",
		ActionEdit:       "ObjectEditedFail",
		ActionImport:     "ObjectsImportedFail",
		ActionReset:      "PasswordUpdatedFail",
	},
}

// RelatedEvents are emitted by routes scoped to a parent row
var RelatedEvents = EventTable{
	success: map[string]string{
		ActionAdd:        "ObjectAddedRelated",
		ActionDelete:     "ObjectDeletedRelated",
		ActionReactivate: "ObjectReactivatedRelated",
		ActionEdit:       "ObjectEditedRelated",
	},
	fail: map[string]string{
		ActionAdd:        "ObjectAddedFailRelated",
		ActionDelete:     "ObjectDeletedFailRelated",
		ActionReactivate: "ObjectReactivatedFailRelated",
		ActionEdit:       "ObjectEditedFailRelated",
	},
}

// Name returns the event emitted when action succeeds or fails
func (t EventTable) Name(action string, ok bool) (string, bool) {
	if ok {
		name, found := t.success[action]
		return name, found
	}
	name, found := t.fail[action]
	return name, found
}

// SuccessNames lists every success event, used to refresh lists
func (t EventTable) SuccessNames() []string {
	names := make([]string, 0, len(t.success))
	for _, a := range []string{ActionAdd, ActionEdit, ActionDelete, ActionReactivate, ActionImport, ActionReset} {
		if name, ok := t.success[a]; ok {
			names = append(names, name)
		}
	}
	return names
}

// message holds the masculine and feminine form of a completion title; {} is
// replaced by the argument
type message struct {
	masculine string
	feminine  string
}

func (m message) format(feminine bool, arg string) string {
	text := m.masculine
	if feminine && m.feminine != "" {
		text = m.feminine
	}
	return strings.Replace(text, "{}", arg, 1)
}

var successMessages = map[string]message{
	ActionAdd:        {"{} creado correctamente", "{} creada correctamente"},
	ActionDelete:     {"{} eliminado correctamente", "{} eliminada correctamente"},
	ActionReactivate: {"{} reactivado correctamente", "{} reactivada correctamente"},
	ActionEdit:       {"{} actualizado correctamente", "{} actualizada correctamente"},
	ActionImport:     {masculine: "Importación correcta. {}"},
	ActionReset:      {masculine: "Contraseña reseteada correctamente"},
}

var failMessages = map[string]message{
	ActionAdd:        {masculine: "Se encontraron errores. {}"},
	ActionDelete:     {masculine: "No se pudo eliminar. {}"},
	ActionReactivate: {masculine: "No se pudo reactivar {}"},
	ActionEdit:       {masculine: "Se encontraron errores. {}"},
	ActionImport:     {masculine: "Se encontraron errores. {}"},
	ActionReset:      {masculine: "No se actualizó contraseña"},
}

// CompletionTitle renders the title shown for a finished action
func CompletionTitle(action string, ok, feminine bool, arg string) string {
	table := failMessages
	if ok {
		table = successMessages
	}
	return table[action].format(feminine, arg)
}

// Trigger ends the request with 204 and the given client event
func Trigger(c echo.Context, event string, payload interface{}) error {
	body, err := asciiJSON(map[string]interface{}{event: payload})
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", event, err)
	}
	c.Response().Header().Set(HeaderHXTrigger, body)
	return c.NoContent(http.StatusNoContent)
}

// asciiJSON marshals v escaping every non-ASCII rune, header values are not
// reliably decoded as UTF-8 by browsers
func asciiJSON(v interface{}) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, r := range string(raw) {
		if r < 0x80 {
			b.WriteRune(r)
			continue
		}
		if r > 0xFFFF {
			r1, r2 := utf16.EncodeRune(r)
			fmt.Fprintf(&b, `\u%04x\u%04x`, r1, r2)
			continue
		}
		fmt.Fprintf(&b, `\u%04x`, r)
	}
	return b.String(), nil
}
