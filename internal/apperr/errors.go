package apperr

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Sentinel errors for the failure kinds surfaced by the service layer.
// Handlers match on these with errors.Is to pick an HTTP status.
var (
	// ErrNotFound is returned when an entity is absent or belongs to
	// another tenant. The two cases are intentionally indistinguishable.
	ErrNotFound = errors.New("not found")

	// ErrValidation is returned for malformed or constraint-violating input.
	ErrValidation = errors.New("validation failed")

	// ErrInsufficientStock is returned when a stock adjustment would
	// drive a counter negative.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrConflict is returned on unique-constraint violations, such as
	// a duplicate SKU within a tenant.
	ErrConflict = errors.New("conflict")

	// ErrOrderProcessing is returned when any line of a multi-line
	// order transition fails and the whole transaction is rolled back.
	ErrOrderProcessing = errors.New("order processing failed")

	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// NotFound wraps ErrNotFound with the entity name.
func NotFound(entity string) error {
	return fmt.Errorf("%s: %w", entity, ErrNotFound)
}

// Validation wraps ErrValidation with a human-readable reason.
func Validation(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrValidation)
}

// Conflict wraps ErrConflict with a human-readable reason.
func Conflict(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrConflict)
}

// InsufficientStock wraps ErrInsufficientStock naming the stock row.
func InsufficientStock(sku string, warehouseID uint64, field string) error {
	return fmt.Errorf("sku %s warehouse %d counter %s: %w", sku, warehouseID, field, ErrInsufficientStock)
}

// OrderProcessing wraps a line-level failure into ErrOrderProcessing,
// naming the first failing line so the caller sees a single aggregated
// error. The cause stays on the error chain, so errors.Is still matches
// ErrInsufficientStock or ErrNotFound underneath.
func OrderProcessing(sku string, cause error) error {
	return fmt.Errorf("line %s: %w: %w", sku, cause, ErrOrderProcessing)
}

// FromDB translates persistence-layer errors into the taxonomy at the
// repository boundary so raw storage errors never leak upward.
// The entity name is used for not-found wrapping.
func FromDB(err error, entity string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound(entity)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Conflict("%s already exists", entity)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return Validation("%s references a missing record", entity)
	default:
		return err
	}
}
