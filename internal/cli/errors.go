package cli

import (
	"errors"
	"io/fs"

	"github.com/jacksmith/tm/internal/model"
)

// FormatError returns a user-friendly error message.
// It prefixes the error with "error: " for consistent CLI output.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	return "error: " + err.Error()
}

// Hint returns a follow-up suggestion for err, or "" when there is none.
func Hint(err error) string {
	var (
		notFound *model.NotFoundError
		ioErr    *model.IOError
		fmtErr   *model.FormatError
	)
	switch {
	case errors.As(err, &notFound):
		return "Use list to see task IDs."
	case errors.As(err, &fmtErr):
		return "Nothing was loaded; current tasks are unchanged."
	case errors.As(err, &ioErr) && ioErr.Op == "read" && errors.Is(err, fs.ErrNotExist):
		return "No such file. Save first or check the path."
	case errors.As(err, &ioErr) && ioErr.Op == "read":
		return "Nothing was loaded; current tasks are unchanged."
	case errors.As(err, &ioErr):
		return "Tasks were not saved."
	}
	return ""
}
