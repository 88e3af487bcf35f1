package model

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

var (
	// ErrInvalidID is returned when an ID cannot be parsed.
	ErrInvalidID = errors.New("invalid ID format")

	// idRegex matches task IDs like 7, #7, 007
	idRegex = regexp.MustCompile(`^#?(\d+)$`)
)

// ParseID parses a task ID string.
// Accepts "7", "#7" and "007", which all parse to 7.
// Returns ErrInvalidID if the format is invalid.
func ParseID(s string) (int, error) {
	matches := idRegex.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("%w: %q is not a valid task ID", ErrInvalidID, s)
	}

	num, err := strconv.Atoi(matches[1])
	if err != nil || num <= 0 {
		return 0, fmt.Errorf("%w: %q has invalid number", ErrInvalidID, s)
	}
	return num, nil
}

// IsID returns true if s looks like a task ID.
func IsID(s string) bool {
	_, err := ParseID(s)
	return err == nil
}

// FormatID formats a task ID for display, padded to the width of maxID.
func FormatID(id int, maxID int) string {
	return fmt.Sprintf("#%0*d", digitWidth(maxID), id)
}

// digitWidth returns the number of digits needed to display maxID.
// Minimum width is 1.
func digitWidth(maxID int) int {
	width := 0
	for n := maxID; n > 0; n /= 10 {
		width++
	}
	if width == 0 {
		return 1
	}
	return width
}
