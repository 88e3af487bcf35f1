package model

import (
	"errors"
	"math"
	"strings"
)

// MaxID is the largest task ID. It is never handed out so that the counter
// after it still fits in an int.
const MaxID = math.MaxInt - 1

// ErrIDsExhausted is returned when no task ID is left to assign.
var ErrIDsExhausted = errors.New("no task IDs left")

// ValidateTitle checks that a task title is not empty or whitespace-only.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Field: "title", Message: "must not be empty"}
	}
	return nil
}
