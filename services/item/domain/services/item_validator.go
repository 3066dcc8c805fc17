// Package services contains stateless domain services for the item bounded context.
// Domain services enforce business rules that operate purely on domain types
// and have zero external dependencies beyond stdlib and the domain layer.
package services

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ghuser/itemsvc/services/item/domain/models"
)

// ValidateName enforces the strict naming rules. They are only applied when
// strict validation is switched on; by default any string is accepted.
//
// Rules:
//   - Not empty or whitespace only
//   - At most MaxItemNameLength characters
//   - No leading or trailing whitespace
//   - No control characters (Unicode category Cc)
//   - No consecutive spaces
func ValidateName(name models.ItemName) error {
	s := name.String()

	if name.IsBlank() {
		return errors.New("item name must not be empty")
	}

	if n := utf8.RuneCountInString(s); n > models.MaxItemNameLength {
		return fmt.Errorf("item name must not exceed %d characters (got %d)", models.MaxItemNameLength, n)
	}

	if s != strings.TrimSpace(s) {
		return errors.New("item name must not have leading or trailing whitespace")
	}

	for _, r := range s {
		if unicode.IsControl(r) {
			return errors.New("item name must not contain control characters")
		}
	}

	if strings.Contains(s, "  ") {
		return errors.New("item name must not contain consecutive spaces")
	}

	return nil
}

// ValidateItemForCreation checks a constructed Item before it is persisted.
// Structural fields are always checked; name rules only when strict is set.
func ValidateItemForCreation(item *models.Item, strict bool) error {
	if item == nil {
		return errors.New("item cannot be nil")
	}

	if item.ID == uuid.Nil {
		return errors.New("id must be set")
	}

	if item.CreatedAt.IsZero() {
		return errors.New("created_at must be set")
	}

	if v := item.Value.Float64(); math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("value must be finite, got %v", v)
	}

	if strict {
		if err := ValidateName(item.Name); err != nil {
			return fmt.Errorf("invalid name: %w", err)
		}
	}

	return nil
}
