package services

import (
	"context"

	"gorm.io/gorm"

	"ubigeo_app_go/models"
	"ubigeo_app_go/services/i18n"
)

// HistoryKind classifies an event for display
type HistoryKind string

const (
	KindInsert         HistoryKind = "insert"
	KindUpdate         HistoryKind = "update"
	KindDelete         HistoryKind = "delete"
	KindResetPassword  HistoryKind = "reset-password"
	KindLoginTimestamp HistoryKind = "login-timestamp-only"
	KindEditorClaimed  HistoryKind = "editor-claimed"
	KindEditorReleased HistoryKind = "editor-released"
)

var kindLabelKeys = map[HistoryKind]string{
	KindInsert:         "history.insert",
	KindUpdate:         "history.update",
	KindDelete:         "history.delete",
	KindResetPassword:  "history.reset_password",
	KindEditorClaimed:  "history.editor_claimed",
	KindEditorReleased: "history.editor_released",
}

// Fields that drive classification and are never shown
const (
	passwordField   = "password"
	lastLoginField  = "last_login"
	editorIDField   = "current_editor_id"
	editorDateField = "current_editor_fecha"
)

// DisplayChange is one formatted row of an event diff
type DisplayChange struct {
	Field  string
	Label  string
	Before string
	After  string
}

// HistoryEntry is one accordion item
type HistoryEntry struct {
	ID        uint
	Kind      HistoryKind
	Label     string
	Actor     string
	Timestamp string
	// Hidden entries are counted but render with an empty, non-expandable body
	Hidden bool
	// HeaderOnly entries show the header without a diff table
	HeaderOnly bool
	Changes    []DisplayChange
}

// HistoryRenderer turns stored events into display-ready entries
type HistoryRenderer struct {
	DB       *gorm.DB
	Resolver DisplayResolver
}

// Classify decides the display kind of an event from its label and changed fields
func Classify(event models.HistoryEvent) HistoryKind {
	changes := event.Changes()
	fields := make(map[string]models.FieldChange, len(changes))
	for _, c := range changes {
		fields[c.Field] = c
	}

	if event.Label == models.HistoryUpdate || event.Label == models.HistoryDelete {
		if len(fields) == 1 {
			if _, ok := fields[passwordField]; ok {
				return KindResetPassword
			}
			if _, ok := fields[lastLoginField]; ok {
				return KindLoginTimestamp
			}
		}
		if len(fields) == 2 {
			id, hasID := fields[editorIDField]
			_, hasDate := fields[editorDateField]
			if hasID && hasDate {
				if isEmpty(id.Before) {
					return KindEditorClaimed
				}
				return KindEditorReleased
			}
		}
	}

	switch event.Label {
	case models.HistoryInsert:
		return KindInsert
	case models.HistoryDelete:
		return KindDelete
	}
	return KindUpdate
}

func isEmpty(v interface{}) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}
	return false
}

// Render formats events in the order given
func (r *HistoryRenderer) Render(ctx context.Context, meta *models.ModelMeta, events []models.HistoryEvent) []HistoryEntry {
	actors := make(map[string]string)
	entries := make([]HistoryEntry, 0, len(events))

	for _, ev := range events {
		kind := Classify(ev)
		entry := HistoryEntry{
			ID:        ev.ID,
			Kind:      kind,
			Actor:     r.actor(ctx, ev.ParsedContext().User, actors),
			Timestamp: FormatTime(ev.CreatedAt),
		}
		if key, ok := kindLabelKeys[kind]; ok {
			entry.Label = i18n.T(ctx, key)
		}

		switch kind {
		case KindLoginTimestamp:
			entry.Hidden = true
		case KindResetPassword, KindEditorClaimed, KindEditorReleased:
			entry.HeaderOnly = true
		default:
			entry.Changes = r.changes(ctx, meta, ev)
		}
		entries = append(entries, entry)
	}
	return entries
}

// changes formats the diff in field declaration order, unknown fields last
func (r *HistoryRenderer) changes(ctx context.Context, meta *models.ModelMeta, ev models.HistoryEvent) []DisplayChange {
	byField := make(map[string]models.FieldChange)
	for _, c := range ev.Changes() {
		if c.Field == passwordField {
			continue
		}
		byField[c.Field] = c
	}

	out := make([]DisplayChange, 0, len(byField))
	for _, f := range meta.Fields {
		c, ok := byField[f.Name]
		if !ok {
			continue
		}
		out = append(out, DisplayChange{
			Field:  f.Name,
			Label:  models.TitleCase(f.Label),
			Before: FormatField(ctx, f, c.Before, r.Resolver),
			After:  FormatField(ctx, f, c.After, r.Resolver),
		})
		delete(byField, f.Name)
	}
	for _, c := range ev.Changes() {
		if _, ok := byField[c.Field]; !ok {
			continue
		}
		f := models.FieldMeta{Name: c.Field, Label: c.Field}
		out = append(out, DisplayChange{
			Field:  c.Field,
			Label:  models.TitleCase(c.Field),
			Before: FormatField(ctx, f, c.Before, r.Resolver),
			After:  FormatField(ctx, f, c.After, r.Resolver),
		})
	}
	return out
}

// actor resolves the user stored in the event context, "-" when it cannot be loaded
func (r *HistoryRenderer) actor(ctx context.Context, id string, cache map[string]string) string {
	if id == "" || r.DB == nil {
		return Placeholder
	}
	if cached, ok := cache[id]; ok {
		return cached
	}

	name := Placeholder
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err == nil {
		name = user.Username
	}
	cache[id] = name
	return name
}
