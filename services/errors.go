package services

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a row does not exist in the requested scope
	ErrNotFound = errors.New("registro no encontrado")
	// ErrHasActiveChildren blocks soft-deleting a row that active rows still reference
	ErrHasActiveChildren = errors.New("tiene registros dependientes activos")
	// ErrParentNotFound is returned when the referenced parent row does not exist
	ErrParentNotFound = errors.New("el registro padre no existe")
)

// ConstraintError is a database constraint violation translated for the user
type ConstraintError struct {
	Entity  string
	Message string
	Err     error
}

func (e *ConstraintError) Error() string {
	return e.Message
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}

// constraintMessages maps engine error fragments to user messages. The first
// matching fragment wins, so table-specific entries come before generic ones.
var constraintMessages = []struct {
	fragment string
	message  string
}{
	// sqlite / libsql
	{"UNIQUE constraint failed: departments.code", "Ya existe un departamento con este código"},
	{"UNIQUE constraint failed: provinces.code", "Ya existe una provincia con este código"},
	{"UNIQUE constraint failed: districts.code", "Ya existe un distrito con este código"},
	{"UNIQUE constraint failed: users.username", "Ya existe un usuario con este nombre de usuario"},
	{"FOREIGN KEY constraint failed", "El registro referenciado no existe o tiene dependientes"},
	// postgres
	{"departments_pkey", "Ya existe un departamento con este código"},
	{"provinces_pkey", "Ya existe una provincia con este código"},
	{"districts_pkey", "Ya existe un distrito con este código"},
	{"idx_users_username", "Ya existe un usuario con este nombre de usuario"},
	{"fk_provinces_department", "El departamento referenciado no existe"},
	{"fk_districts_province", "La provincia referenciada no existe"},
}

// constraintMarkers identify errors that are constraint violations even when no message is mapped
var constraintMarkers = []string{
	"constraint failed",
	"violates unique constraint",
	"violates foreign key constraint",
	"duplicate key",
}

// TranslateConstraint turns a constraint violation into a ConstraintError, logging
// it with the entity name. Other errors are returned unchanged.
func TranslateConstraint(log *zap.Logger, entity string, err error) error {
	if err == nil {
		return nil
	}
	if !isConstraintViolation(err) {
		return err
	}

	raw := err.Error()
	message := raw
	for _, m := range constraintMessages {
		if strings.Contains(raw, m.fragment) {
			message = m.message
			break
		}
	}

	if log != nil {
		log.Warn("constraint violation",
			zap.String("entity", entity),
			zap.String("message", message),
			zap.Error(err),
		)
	}
	return &ConstraintError{Entity: entity, Message: message, Err: err}
}

func isConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	raw := strings.ToLower(err.Error())
	for _, marker := range constraintMarkers {
		if strings.Contains(raw, marker) {
			return true
		}
	}
	return false
}

// UserMessage renders a service error for a form or failure signal
func UserMessage(err error) string {
	var ce *ConstraintError
	switch {
	case errors.As(err, &ce):
		return ce.Message
	case errors.Is(err, ErrHasActiveChildren):
		return "Tiene registros dependientes activos"
	case errors.Is(err, ErrParentNotFound):
		return "El registro padre no existe"
	case errors.Is(err, ErrNotFound):
		return "Registro no encontrado"
	}
	return fmt.Sprintf("%v", err)
}

// IsUserError reports whether err is an expected outcome the user should see
// rather than a defect
func IsUserError(err error) bool {
	var ce *ConstraintError
	return errors.As(err, &ce) ||
		errors.Is(err, ErrHasActiveChildren) ||
		errors.Is(err, ErrParentNotFound) ||
		errors.Is(err, ErrNotFound)
}
