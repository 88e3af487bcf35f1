// Package model defines the core data structures for tm.
package model

import (
	"fmt"
	"strings"
)

// FileVersion is the persistence format version written by SaveTasks.
const FileVersion = 1

// Task is a single to-do item.
type Task struct {
	ID          int    `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	Done        bool   `yaml:"done"`
}

// TaskFile is the complete persisted state of a task store.
type TaskFile struct {
	Version int    `yaml:"version"`
	NextID  int    `yaml:"next_id"`
	Tasks   []Task `yaml:"tasks,omitempty"`
}

// Filter selects a subset of tasks for listing.
type Filter string

const (
	FilterAll  Filter = "all"
	FilterOpen Filter = "open"
	FilterDone Filter = "done"
)

// ParseFilter parses a filter name. An empty string means FilterAll.
func ParseFilter(s string) (Filter, error) {
	switch Filter(strings.ToLower(strings.TrimSpace(s))) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterOpen, "todo":
		return FilterOpen, nil
	case FilterDone:
		return FilterDone, nil
	}
	return "", &ValidationError{Field: "filter", Message: fmt.Sprintf("%q is not one of all, open, done", s)}
}

// Match reports whether t passes the filter.
func (f Filter) Match(t Task) bool {
	switch f {
	case FilterOpen:
		return !t.Done
	case FilterDone:
		return t.Done
	default:
		return true
	}
}

// StatusMark returns the checkbox shown next to a task in listings.
func (t Task) StatusMark() string {
	if t.Done {
		return "[x]"
	}
	return "[ ]"
}
