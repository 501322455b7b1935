package models

import (
	"encoding/json"
	"errors"
	"reflect"
	"sort"
	"time"

	"gorm.io/gorm"
)

// HistoryLabel is the raw operation recorded by the change feed
type HistoryLabel string

const (
	HistoryInsert HistoryLabel = "insert"
	HistoryUpdate HistoryLabel = "update"
	HistoryDelete HistoryLabel = "delete"
)

// ErrImmutableEvent is returned when something tries to rewrite history
var ErrImmutableEvent = errors.New("history events are immutable")

// HistoryEvent is an append-only record of one change to a maintained row
type HistoryEvent struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	Model    string       `gorm:"size:50;not null;index:idx_history_object" json:"model"`
	ObjectPK string       `gorm:"size:64;not null;index:idx_history_object" json:"object_pk"`
	Label    HistoryLabel `gorm:"size:10;not null" json:"label"`

	Diff    string `gorm:"type:text" json:"diff"`    // JSON {"field": [before, after]}
	Context string `gorm:"type:text" json:"context"` // JSON {"user": ..., "ip": ..., "user_agent": ...}
}

// FieldChange is one entry of an event diff
type FieldChange struct {
	Field  string
	Before interface{}
	After  interface{}
}

// EventContext is the request metadata stored with every event
type EventContext struct {
	User      string `json:"user,omitempty"`
	IP        string `json:"ip,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

// Changes decodes the diff blob, sorted by field name
func (h *HistoryEvent) Changes() []FieldChange {
	raw := make(map[string][]interface{})
	if h.Diff != "" {
		_ = json.Unmarshal([]byte(h.Diff), &raw)
	}

	changes := make([]FieldChange, 0, len(raw))
	for field, pair := range raw {
		c := FieldChange{Field: field}
		if len(pair) > 0 {
			c.Before = pair[0]
		}
		if len(pair) > 1 {
			c.After = pair[1]
		}
		changes = append(changes, c)
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Field < changes[j].Field })
	return changes
}

// ChangedFields returns the set of fields present in the diff
func (h *HistoryEvent) ChangedFields() map[string]struct{} {
	fields := make(map[string]struct{})
	for _, c := range h.Changes() {
		fields[c.Field] = struct{}{}
	}
	return fields
}

// ParsedContext decodes the context blob; a malformed blob yields an empty context
func (h *HistoryEvent) ParsedContext() EventContext {
	var ctx EventContext
	if h.Context != "" {
		_ = json.Unmarshal([]byte(h.Context), &ctx)
	}
	return ctx
}

// BeforeUpdate prevents modification of history events
func (h *HistoryEvent) BeforeUpdate(tx *gorm.DB) error {
	return ErrImmutableEvent
}

// BeforeDelete prevents deletion of history events
func (h *HistoryEvent) BeforeDelete(tx *gorm.DB) error {
	return ErrImmutableEvent
}

// TableName specifies the table name
func (HistoryEvent) TableName() string {
	return "history_events"
}

// DiffSnapshots compares two snapshots through their JSON form and returns the
// changed fields as {"field": [before, after]}. A nil before marks an insert.
func DiffSnapshots(before, after map[string]interface{}) (map[string][2]interface{}, error) {
	oldMap, err := normalizeSnapshot(before)
	if err != nil {
		return nil, err
	}
	newMap, err := normalizeSnapshot(after)
	if err != nil {
		return nil, err
	}

	diff := make(map[string][2]interface{})
	for k, n := range newMap {
		o, ok := oldMap[k]
		if before == nil || !ok || !reflect.DeepEqual(o, n) {
			diff[k] = [2]interface{}{o, n}
		}
	}
	for k, o := range oldMap {
		if _, ok := newMap[k]; !ok {
			diff[k] = [2]interface{}{o, nil}
		}
	}
	return diff, nil
}

func normalizeSnapshot(s map[string]interface{}) (map[string]interface{}, error) {
	out := make(map[string]interface{})
	if s == nil {
		return out, nil
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
