package services

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"ubigeo_app_go/models"
)

type eventContextKey struct{}

// WithEventContext stores the actor metadata recorded with every history event
func WithEventContext(ctx context.Context, ec models.EventContext) context.Context {
	return context.WithValue(ctx, eventContextKey{}, ec)
}

// EventContextFrom returns the actor metadata stored by WithEventContext
func EventContextFrom(ctx context.Context) models.EventContext {
	if ctx == nil {
		return models.EventContext{}
	}
	if ec, ok := ctx.Value(eventContextKey{}).(models.EventContext); ok {
		return ec
	}
	return models.EventContext{}
}

// RecordHistory appends one event for a change of rec inside tx. A nil before
// snapshot records an insert. Updates with no changed field are not recorded.
func RecordHistory(
	ctx context.Context,
	tx *gorm.DB,
	rec models.Record,
	label models.HistoryLabel,
	before map[string]interface{},
) error {
	diff, err := models.DiffSnapshots(before, rec.Snapshot())
	if err != nil {
		return fmt.Errorf("failed to diff %s: %w", rec.Meta().Name, err)
	}
	if len(diff) == 0 && label == models.HistoryUpdate {
		return nil
	}

	diffJSON, err := json.Marshal(diff)
	if err != nil {
		return fmt.Errorf("failed to encode diff: %w", err)
	}
	ctxJSON, err := json.Marshal(EventContextFrom(ctx))
	if err != nil {
		return fmt.Errorf("failed to encode event context: %w", err)
	}

	event := models.HistoryEvent{
		Model:    rec.Meta().Name,
		ObjectPK: rec.PrimaryKey(),
		Label:    label,
		Diff:     string(diffJSON),
		Context:  string(ctxJSON),
	}
	if err := tx.Create(&event).Error; err != nil {
		return fmt.Errorf("failed to record history: %w", err)
	}
	return nil
}

// ListHistory returns the events of one row in append order
func ListHistory(db *gorm.DB, meta *models.ModelMeta, pk string) ([]models.HistoryEvent, error) {
	var events []models.HistoryEvent
	err := db.Where("model = ? AND object_pk = ?", meta.Name, pk).
		Order("id ASC").
		Find(&events).Error
	return events, err
}
