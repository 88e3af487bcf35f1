package driver

import (
	"fmt"

	"github.com/jacksmith/tm/internal/cli"
	"github.com/jacksmith/tm/internal/model"
)

// Action is one of the operations offered by the menu.
type Action int

const (
	ActionQuit Action = iota
	ActionAdd
	ActionRemove
	ActionToggle
	ActionEdit
	ActionDescribe
	ActionShow
	ActionList
	ActionSave
	ActionLoad
	ActionFind
	ActionHelp
)

// String returns the action's name as typed by the user.
func (a Action) String() string {
	if entry, ok := entryFor(a); ok {
		return entry.name
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// operation is the timed part of an action. It returns the message to show.
type operation func() (string, error)

// actionEntry describes an action's menu entry.
type actionEntry struct {
	action  Action
	key     string
	name    string
	aliases []string
	usage   string
	summary string
}

// actions lists every action in menu order.
var actions = []actionEntry{
	{ActionAdd, "1", "add", []string{"new"}, "add <title>", "Add a task"},
	{ActionRemove, "2", "remove", []string{"rm", "del", "delete"}, "remove <task>", "Remove a task"},
	{ActionToggle, "3", "toggle", []string{"done", "x"}, "toggle <task>", "Mark a task done or open"},
	{ActionEdit, "4", "edit", nil, "edit <task> [title]", "Change a task's title"},
	{ActionDescribe, "5", "describe", []string{"desc", "note"}, "describe <task>", "Set or clear a task's description"},
	{ActionShow, "6", "show", []string{"info", "view"}, "show <task>", "Show a task's details"},
	{ActionList, "7", "list", []string{"ls"}, "list [all|open|done]", "Show tasks"},
	{ActionFind, "8", "find", []string{"search"}, "find <text>", "Search task titles"},
	{ActionSave, "9", "save", nil, "save [path]", "Write tasks to a file"},
	{ActionLoad, "10", "load", nil, "load [path]", "Replace tasks from a file"},
	{ActionHelp, "11", "help", []string{"?", "h", "menu"}, "help", "Show this menu"},
	{ActionQuit, "0", "quit", []string{"q", "exit"}, "quit", "Exit"},
}

// actionNames and actionAliases index the table for cli.MatchCommand.
// Menu numbers are aliases too.
var actionNames, actionAliases = indexActions()

func indexActions() ([]string, map[string]string) {
	names := make([]string, 0, len(actions))
	aliases := make(map[string]string)
	for _, entry := range actions {
		names = append(names, entry.name)
		aliases[entry.key] = entry.name
		for _, alias := range entry.aliases {
			aliases[alias] = entry.name
		}
	}
	return names, aliases
}

func entryFor(a Action) (actionEntry, bool) {
	for _, entry := range actions {
		if entry.action == a {
			return entry, true
		}
	}
	return actionEntry{}, false
}

// ParseAction resolves a menu selection: a menu number, a name, an alias or
// an unambiguous name prefix.
func ParseAction(selection string) (Action, error) {
	name, err := cli.MatchCommand(selection, actionNames, actionAliases)
	if err != nil {
		return 0, &model.ValidationError{Message: err.Error()}
	}
	for _, entry := range actions {
		if entry.name == name {
			return entry.action, nil
		}
	}
	return 0, &model.ValidationError{Message: fmt.Sprintf("unknown action %q", selection)}
}
