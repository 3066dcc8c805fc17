package models

import (
	"fmt"
	"math"
)

// ItemValue is the numeric payload of an item. Zero and negative values are
// valid; NaN and the infinities are not, since JSON cannot carry them back.
type ItemValue float64

// NewItemValue constructs an ItemValue or returns an error for non-finite input.
func NewItemValue(v float64) (ItemValue, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("item value must be a finite number, got %v", v)
	}
	return ItemValue(v), nil
}

// Float64 returns the underlying float64 value.
func (v ItemValue) Float64() float64 {
	return float64(v)
}
