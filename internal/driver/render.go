package driver

import (
	"fmt"
	"io"
	"strings"

	"github.com/jacksmith/tm/internal/cli"
	"github.com/jacksmith/tm/internal/model"
)

// renderTasks writes tasks as an aligned table. IDs are padded to the
// widest ID shown.
func renderTasks(w io.Writer, tasks []model.Task) {
	maxID := 0
	for _, t := range tasks {
		if t.ID > maxID {
			maxID = t.ID
		}
	}

	table := cli.NewTable()
	for _, t := range tasks {
		mark := t.StatusMark()
		title := cli.Truncate(cli.SingleLine(t.Title), cli.DefaultMaxTitleWidth)
		if t.Done {
			mark = cli.Green(mark)
			title = cli.Gray(title)
		}
		table.AddRow(model.FormatID(t.ID, maxID), mark, title)
	}
	table.Render(w)
}

// summarize describes a task list, e.g. "3 tasks, 1 done".
func summarize(tasks []model.Task) string {
	done := 0
	for _, t := range tasks {
		if t.Done {
			done++
		}
	}
	noun := "tasks"
	if len(tasks) == 1 {
		noun = "task"
	}
	return fmt.Sprintf("%d %s, %d done", len(tasks), noun, done)
}

// describe renders a single task for confirmation messages.
func describe(t model.Task) string {
	return fmt.Sprintf("#%d %s", t.ID, cli.Truncate(cli.SingleLine(t.Title), cli.DefaultMaxTitleWidth))
}

// details renders every field of a task for the show action.
func details(t model.Task) string {
	status := "open"
	if t.Done {
		status = cli.Green("done")
	}
	description := cli.Gray("-")
	if t.Description != "" {
		description = strings.ReplaceAll(t.Description, "\n", "\n             ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "#%d %s\n", t.ID, t.Title)
	fmt.Fprintf(&b, "Status:      %s\n", status)
	fmt.Fprintf(&b, "Description: %s", description)
	return b.String()
}

// renderMenu writes the action menu.
func renderMenu(w io.Writer) {
	fmt.Fprintln(w, "Actions:")
	table := cli.NewTable()
	for _, entry := range actions {
		table.AddRow("  "+entry.key+")", entry.usage, cli.Gray(entry.summary))
	}
	table.Render(w)
	fmt.Fprintln(w, cli.Gray("Pick a number or type an action. A task is an ID like 3 or #3, or its exact title."))
}
