package repository

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/entities"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/errors"
)

// Sentinel errors for repository operations.
var (
	// ErrLifelistNotFound indicates the requested lifelist does not exist.
	ErrLifelistNotFound = errors.NewStd("lifelist not found")

	// ErrLifelistTypeNotFound indicates the requested lifelist type does not exist.
	ErrLifelistTypeNotFound = errors.NewStd("lifelist type not found")

	// ErrFieldNotFound indicates the requested custom field does not exist.
	ErrFieldNotFound = errors.NewStd("custom field not found")

	// ErrClassificationNotFound indicates the requested classification does not exist
	// or does not belong to the given lifelist.
	ErrClassificationNotFound = errors.NewStd("classification not found")

	// ErrNoActiveClassification indicates the lifelist has no active classification.
	ErrNoActiveClassification = errors.NewStd("no active classification")

	// ErrClassificationEntryNotFound indicates the requested classification entry does not exist.
	ErrClassificationEntryNotFound = errors.NewStd("classification entry not found")

	// ErrObservationNotFound indicates the requested observation does not exist.
	ErrObservationNotFound = errors.NewStd("observation not found")

	// ErrPhotoNotFound indicates the requested photo does not exist.
	ErrPhotoNotFound = errors.NewStd("photo not found")

	// ErrTagNotFound indicates the requested tag does not exist.
	ErrTagNotFound = errors.NewStd("tag not found")

	// ErrDuplicateKey indicates a unique constraint violation.
	ErrDuplicateKey = errors.NewStd("duplicate key")

	// ErrInvalidInput indicates invalid input parameters.
	ErrInvalidInput = errors.NewStd("invalid input")
)

const component = "datastore"

// isDuplicateKey reports whether err is a unique constraint violation.
// The managers enable gorm's error translation; the string checks cover raw driver errors.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") ||
		strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "constraint failed: primary key")
}

// dbError creates a categorized database error with context pairs.
func dbError(err error, operation string, context ...any) error {
	if err == nil {
		return nil
	}
	var enhanced *errors.EnhancedError
	if errors.As(err, &enhanced) {
		return err
	}

	builder := errors.New(err).
		Component(component).
		Category(errors.CategoryDatabase).
		Context("operation", operation)

	for i := 0; i < len(context)-1; i += 2 {
		if key, ok := context[i].(string); ok {
			builder = builder.Context(key, context[i+1])
		}
	}
	return builder.Build()
}

// notFoundError wraps a sentinel so both errors.Is(err, sentinel) and errors.IsNotFound work.
func notFoundError(sentinel error, resource string, identifier any) error {
	return errors.New(sentinel).
		Component(component).
		Category(errors.CategoryNotFound).
		Context("resource", resource).
		Context("identifier", fmt.Sprint(identifier)).
		Build()
}

// conflictError wraps ErrDuplicateKey with the violating operation.
func conflictError(err error, operation string, context ...any) error {
	builder := errors.New(fmt.Errorf("%w: %w", ErrDuplicateKey, err)).
		Component(component).
		Category(errors.CategoryConflict).
		Priority(errors.PriorityLow).
		Context("operation", operation)

	for i := 0; i < len(context)-1; i += 2 {
		if key, ok := context[i].(string); ok {
			builder = builder.Context(key, context[i+1])
		}
	}
	return builder.Build()
}

// validationError creates a validation error wrapping ErrInvalidInput.
func validationError(message, field string, value any) error {
	return errors.New(fmt.Errorf("%w: %s", ErrInvalidInput, message)).
		Component(component).
		Category(errors.CategoryValidation).
		Context("field", field).
		Context("value", fmt.Sprint(value)).
		Build()
}

// escapeLike escapes LIKE wildcards using '!' as the escape character,
// which behaves the same on SQLite and MySQL.
func escapeLike(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return r.Replace(s)
}

// containsPattern returns a folded, escaped %term% pattern for the search columns.
func containsPattern(term string) string {
	return "%" + escapeLike(entities.FoldSearch(term)) + "%"
}

// prefixPattern returns a folded, escaped term% pattern for the search columns.
func prefixPattern(term string) string {
	return escapeLike(entities.FoldSearch(term)) + "%"
}
