package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"ubigeo_app_go/models"
)

// Display formats
const (
	DateTimeLayout  = "02/01/2006 15:04:05"
	ExportTimestamp = "20060102_150405"
	Placeholder     = "-"
	BoolTrue        = "Sí"
	BoolFalse       = "No"
)

// DisplayResolver turns a foreign key value into the referenced row's display string
type DisplayResolver interface {
	Display(ctx context.Context, model, pk string) (string, error)
}

// ResolverFunc loads the display string of one row of a model
type ResolverFunc func(ctx context.Context, pk string) (string, error)

// ResolverRegistry dispatches display lookups by model name
type ResolverRegistry map[string]ResolverFunc

// Display resolves pk through the resolver registered for model
func (r ResolverRegistry) Display(ctx context.Context, model, pk string) (string, error) {
	fn, ok := r[model]
	if !ok {
		return "", fmt.Errorf("no display resolver for %s", model)
	}
	return fn(ctx, pk)
}

// RecordResolver builds a resolver that loads rows of one model in the all scope
func RecordResolver[T models.Record](db *gorm.DB, newFn func() T) ResolverFunc {
	return func(ctx context.Context, pk string) (string, error) {
		obj := newFn()
		err := db.WithContext(ctx).Where(obj.Meta().PKColumn+" = ?", pk).First(obj).Error
		if err != nil {
			return "", err
		}
		return obj.String(), nil
	}
}

// NewResolverRegistry registers every maintained model
func NewResolverRegistry(db *gorm.DB) ResolverRegistry {
	return ResolverRegistry{
		models.DepartmentMeta.Name: RecordResolver(db, func() *models.Department { return &models.Department{} }),
		models.ProvinceMeta.Name:   RecordResolver(db, func() *models.Province { return &models.Province{} }),
		models.DistrictMeta.Name:   RecordResolver(db, func() *models.District { return &models.District{} }),
		models.UserMeta.Name:       RecordResolver(db, func() *models.User { return &models.User{} }),
	}
}

// FormatBool renders a boolean as Sí / No
func FormatBool(b bool) string {
	if b {
		return BoolTrue
	}
	return BoolFalse
}

// FormatTime renders t with the fixed date-time layout, zero values as the placeholder
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return Placeholder
	}
	return t.Format(DateTimeLayout)
}

// parseTime accepts time values and their JSON encodings
func parseTime(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, !t.IsZero()
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, !parsed.IsZero()
			}
		}
	}
	return time.Time{}, false
}

// raw renders a scalar value, nil and empty strings as the placeholder
func raw(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return Placeholder
	case string:
		if strings.TrimSpace(val) == "" {
			return Placeholder
		}
		return val
	case bool:
		return FormatBool(val)
	case float64:
		// JSON numbers
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%v", val)
	}
	return fmt.Sprintf("%v", v)
}

// FormatField renders a field value for lists and history. Foreign keys given as a
// loaded Record use its display string; bare keys go through resolver.
func FormatField(ctx context.Context, field models.FieldMeta, v interface{}, resolver DisplayResolver) string {
	if v == nil {
		return Placeholder
	}

	switch field.Kind {
	case models.FieldDateTime:
		t, ok := parseTime(v)
		if !ok {
			return Placeholder
		}
		return t.Format(DateTimeLayout)
	case models.FieldBool:
		if b, ok := v.(bool); ok {
			return FormatBool(b)
		}
	case models.FieldForeignKey:
		if rec, ok := v.(models.Record); ok {
			return rec.String()
		}
		pk := raw(v)
		if pk == Placeholder || resolver == nil {
			return pk
		}
		display, err := resolver.Display(ctx, field.Related, pk)
		if err != nil {
			return pk
		}
		return display
	case models.FieldChoice:
		s := raw(v)
		if s == Placeholder {
			return s
		}
		return field.ChoiceLabel(s)
	}
	return raw(v)
}

// ExportValue renders a field value for a spreadsheet cell. Foreign keys are
// written as the referenced code so the file can be imported back.
func ExportValue(field models.FieldMeta, v interface{}) string {
	if v == nil {
		return Placeholder
	}
	switch field.Kind {
	case models.FieldForeignKey:
		if rec, ok := v.(models.Record); ok {
			return rec.PrimaryKey()
		}
	case models.FieldDateTime:
		t, ok := parseTime(v)
		if !ok {
			return Placeholder
		}
		return t.Format(DateTimeLayout)
	case models.FieldChoice:
		s := raw(v)
		if s == Placeholder {
			return s
		}
		return field.ChoiceLabel(s)
	}
	return raw(v)
}
