// Package driver runs the interactive menu loop over a task store.
package driver

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/log"
	"github.com/jacksmith/tm/internal/cli"
	"github.com/jacksmith/tm/internal/logging"
	"github.com/jacksmith/tm/internal/model"
	"github.com/jacksmith/tm/internal/storage"
	"github.com/jacksmith/tm/internal/timing"
)

// Prompts shown to the user.
const (
	promptAction = "> "
	promptTitle  = "Title: "
	promptTask   = "Task (ID or title): "
	promptNew    = "New title: "
	promptDesc   = "Description (optional): "
	promptNote   = "Description (blank clears): "
	promptQuery  = "Search for: "
)

// Tasks is the task collection the driver operates on.
// *store.TaskStore implements it.
type Tasks interface {
	Add(title string) (model.Task, error)
	AddWithDescription(title, description string) (model.Task, error)
	Remove(id int) error
	Toggle(id int) (model.Task, error)
	Edit(id int, title string) (model.Task, error)
	Describe(id int, description string) (model.Task, error)
	Get(id int) (model.Task, error)
	List() []model.Task
	Filter(f model.Filter) []model.Task
	Search(query string) []model.Task
	FindByTitle(title string) []model.Task
	Save(path string) error
	Load(path string) error
	Dirty() bool
}

// Options configures a Driver.
type Options struct {
	// DefaultPath is used by save and load when no path is given.
	DefaultPath string
	// ShowTiming prints the elapsed time after every operation.
	ShowTiming bool
	// Logger receives debug records; nil discards them.
	Logger *log.Logger
	// Clock overrides time.Now for timing.
	Clock func() time.Time
}

// Driver reads menu selections, dispatches them to a Tasks and reports the
// outcome and elapsed time of each operation.
type Driver struct {
	tasks  Tasks
	in     LineReader
	out    io.Writer
	opts   Options
	log    *log.Logger
	timer  *timing.Timer
	last   timing.Report
	quit   bool
	failed int
}

// New returns a Driver reading from in and writing to out.
func New(tasks Tasks, in LineReader, out io.Writer, opts Options) *Driver {
	if opts.DefaultPath == "" {
		opts.DefaultPath = storage.DefaultTaskFile
	}
	d := &Driver{
		tasks: tasks,
		in:    in,
		out:   out,
		opts:  opts,
		log:   opts.Logger,
	}
	if d.log == nil {
		d.log = logging.Discard()
	}

	d.timer = timing.New(d.record)
	if opts.Clock != nil {
		d.timer = d.timer.WithClock(opts.Clock)
	}
	return d
}

// Run shows the menu and processes selections until quit or end of input.
func (d *Driver) Run() error {
	renderMenu(d.out)
	for !d.quit {
		line, err := d.in.ReadLine(promptAction)
		if errors.Is(err, io.EOF) {
			d.finish()
			return nil
		}
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			d.fail(err)
			continue
		}
		if err != nil {
			d.finish()
			return err
		}
		if err := d.Exec(line); errors.Is(err, io.EOF) {
			d.finish()
			return nil
		}
	}
	return nil
}

// RunScript executes each line as if typed at the prompt, stopping early on
// quit. It returns an error if any of these lines failed; earlier failures
// are not counted.
func (d *Driver) RunScript(lines []string) error {
	d.failed = 0
	for _, line := range lines {
		if d.quit {
			break
		}
		if err := d.Exec(line); errors.Is(err, io.EOF) {
			break
		}
	}
	if !d.quit {
		d.finish()
	}
	if d.failed > 0 {
		return fmt.Errorf("%d of %d commands failed", d.failed, len(lines))
	}
	return nil
}

// Exec parses and runs one input line. Errors are reported to the user and
// also returned; only io.EOF from a prompt is meant to stop the loop.
func (d *Driver) Exec(line string) error {
	selection, args := splitFirst(line)
	if selection == "" {
		return nil
	}

	action, err := ParseAction(selection)
	if err != nil {
		d.fail(err)
		return err
	}

	op, err := d.prepare(action, args)
	if err != nil {
		if !errors.Is(err, io.EOF) {
			d.fail(err)
		}
		return err
	}
	if op == nil {
		return nil
	}

	var msg string
	err = d.timer.Measure(action.String(), func() error {
		var opErr error
		msg, opErr = op()
		return opErr
	})
	if err != nil {
		d.fail(err)
	} else if msg != "" {
		fmt.Fprintln(d.out, msg)
	}
	if d.opts.ShowTiming {
		fmt.Fprintln(d.out, cli.Gray(fmt.Sprintf("(%s took %s)", d.last.Name, timing.Format(d.last.Elapsed))))
	}
	return err
}

// Done reports whether quit was selected.
func (d *Driver) Done() bool {
	return d.quit
}

// record receives timing reports.
func (d *Driver) record(r timing.Report) {
	d.last = r
	if r.Err != nil {
		d.log.Debug("action failed", "action", r.Name, "elapsed", r.Elapsed, "err", r.Err)
		return
	}
	d.log.Debug("action done", "action", r.Name, "elapsed", r.Elapsed)
}

// fail reports err to the user and keeps the loop going.
func (d *Driver) fail(err error) {
	d.failed++
	fmt.Fprintln(d.out, cli.Red(cli.FormatError(err)))
	if hint := cli.Hint(err); hint != "" {
		fmt.Fprintln(d.out, cli.Gray(hint))
	}
}

// finish ends the session, warning about unsaved changes.
func (d *Driver) finish() {
	d.quit = true
	if d.tasks.Dirty() {
		fmt.Fprintln(d.out, cli.Yellow("warning: unsaved changes were discarded"))
		d.log.Warn("exiting with unsaved changes")
	}
}

// prepare gathers the arguments for an action and returns the operation to
// time. It may prompt for missing arguments.
func (d *Driver) prepare(action Action, args string) (operation, error) {
	switch action {
	case ActionAdd:
		return d.prepareAdd(args)
	case ActionRemove:
		return d.prepareRemove(args)
	case ActionToggle:
		return d.prepareToggle(args)
	case ActionEdit:
		return d.prepareEdit(args)
	case ActionDescribe:
		return d.prepareDescribe(args)
	case ActionShow:
		return d.prepareShow(args)
	case ActionList:
		return d.prepareList(args)
	case ActionSave:
		return d.prepareSave(args)
	case ActionLoad:
		return d.prepareLoad(args)
	case ActionFind:
		return d.prepareFind(args)
	case ActionHelp:
		renderMenu(d.out)
		return nil, nil
	case ActionQuit:
		d.finish()
		return nil, nil
	}
	return nil, fmt.Errorf("unhandled action %s", action)
}

// prepareAdd takes the title from args. Without args it prompts for the
// title and then for an optional description.
func (d *Driver) prepareAdd(args string) (operation, error) {
	title, description := strings.TrimSpace(args), ""
	if title == "" {
		var err error
		if title, err = d.argOrPrompt("", promptTitle); err != nil {
			return nil, err
		}
		if err := model.ValidateTitle(title); err != nil {
			return nil, err
		}
		if description, err = d.argOrPrompt("", promptDesc); err != nil {
			return nil, err
		}
	}
	return func() (string, error) {
		task, err := d.tasks.AddWithDescription(title, description)
		if err != nil {
			return "", err
		}
		return "Added " + describe(task), nil
	}, nil
}

func (d *Driver) prepareRemove(args string) (operation, error) {
	id, err := d.taskArg(args)
	if err != nil {
		return nil, err
	}
	return func() (string, error) {
		task, err := d.tasks.Get(id)
		if err != nil {
			return "", err
		}
		if err := d.tasks.Remove(id); err != nil {
			return "", err
		}
		return "Removed " + describe(task), nil
	}, nil
}

func (d *Driver) prepareToggle(args string) (operation, error) {
	id, err := d.taskArg(args)
	if err != nil {
		return nil, err
	}
	return func() (string, error) {
		task, err := d.tasks.Toggle(id)
		if err != nil {
			return "", err
		}
		if task.Done {
			return "Marked " + describe(task) + " as done", nil
		}
		return "Marked " + describe(task) + " as open", nil
	}, nil
}

func (d *Driver) prepareEdit(args string) (operation, error) {
	ref, title := splitFirst(args)
	if !model.IsID(ref) {
		// A title reference takes the whole argument
		ref, title = strings.TrimSpace(args), ""
	}

	id, err := d.taskArg(ref)
	if err != nil {
		return nil, err
	}
	if title, err = d.argOrPrompt(title, promptNew); err != nil {
		return nil, err
	}
	return func() (string, error) {
		task, err := d.tasks.Edit(id, title)
		if err != nil {
			return "", err
		}
		return "Updated " + describe(task), nil
	}, nil
}

func (d *Driver) prepareDescribe(args string) (operation, error) {
	ref, description := splitFirst(args)
	if !model.IsID(ref) {
		ref, description = strings.TrimSpace(args), ""
	}

	id, err := d.taskArg(ref)
	if err != nil {
		return nil, err
	}
	if description == "" {
		if description, err = d.argOrPrompt("", promptNote); err != nil {
			return nil, err
		}
	}
	return func() (string, error) {
		task, err := d.tasks.Describe(id, description)
		if err != nil {
			return "", err
		}
		if task.Description == "" {
			return "Cleared description of " + describe(task), nil
		}
		return "Updated description of " + describe(task), nil
	}, nil
}

func (d *Driver) prepareShow(args string) (operation, error) {
	id, err := d.taskArg(args)
	if err != nil {
		return nil, err
	}
	return func() (string, error) {
		task, err := d.tasks.Get(id)
		if err != nil {
			return "", err
		}
		return details(task), nil
	}, nil
}

func (d *Driver) prepareList(args string) (operation, error) {
	filter, err := model.ParseFilter(args)
	if err != nil {
		return nil, err
	}
	return func() (string, error) {
		tasks := d.tasks.Filter(filter)
		if len(tasks) == 0 {
			if filter == model.FilterAll {
				return "No tasks.", nil
			}
			return fmt.Sprintf("No %s tasks.", filter), nil
		}
		renderTasks(d.out, tasks)
		if filter == model.FilterAll {
			return cli.Gray(summarize(tasks)), nil
		}
		return cli.Gray(fmt.Sprintf("%s (showing %s)", summarize(tasks), filter)), nil
	}, nil
}

func (d *Driver) prepareFind(args string) (operation, error) {
	query, err := d.argOrPrompt(args, promptQuery)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		return nil, &model.ValidationError{Field: "query", Message: "must not be empty"}
	}
	return func() (string, error) {
		tasks := d.tasks.Search(query)
		if len(tasks) == 0 {
			return fmt.Sprintf("No tasks match %q.", query), nil
		}
		renderTasks(d.out, tasks)
		return "", nil
	}, nil
}

func (d *Driver) prepareSave(args string) (operation, error) {
	path := d.pathArg(args)
	return func() (string, error) {
		if err := d.tasks.Save(path); err != nil {
			return "", err
		}
		n := len(d.tasks.List())
		d.log.Debug("saved tasks", "path", path, "count", n)
		return fmt.Sprintf("Saved %d %s to %s", n, plural(n), path), nil
	}, nil
}

func (d *Driver) prepareLoad(args string) (operation, error) {
	path := d.pathArg(args)
	return func() (string, error) {
		if err := d.tasks.Load(path); err != nil {
			return "", err
		}
		n := len(d.tasks.List())
		d.log.Debug("loaded tasks", "path", path, "count", n)
		return fmt.Sprintf("Loaded %d %s from %s", n, plural(n), path), nil
	}, nil
}

// argOrPrompt returns args, or asks for a value when args is empty.
// The result is trimmed.
func (d *Driver) argOrPrompt(args, prompt string) (string, error) {
	if args = strings.TrimSpace(args); args != "" {
		return args, nil
	}
	line, err := d.in.ReadLine(prompt)
	return strings.TrimSpace(line), err
}

// taskArg resolves a task reference, prompting when none was given.
func (d *Driver) taskArg(args string) (int, error) {
	ref, err := d.argOrPrompt(args, promptTask)
	if err != nil {
		return 0, err
	}
	return d.resolveTask(ref)
}

// resolveTask turns "3", "#3" or an exact title into a task ID.
func (d *Driver) resolveTask(ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return 0, &model.ValidationError{Field: "task", Message: "no task given"}
	}
	if id, err := model.ParseID(ref); err == nil {
		return id, nil
	}

	matches := d.tasks.FindByTitle(ref)
	switch len(matches) {
	case 0:
		return 0, &model.ValidationError{Field: "task", Message: fmt.Sprintf("no task titled %q", ref)}
	case 1:
		return matches[0].ID, nil
	}
	ids := make([]string, len(matches))
	for i, t := range matches {
		ids[i] = fmt.Sprintf("#%d", t.ID)
	}
	return 0, &model.ValidationError{
		Field:   "task",
		Message: fmt.Sprintf("%q matches %s; use an ID", ref, strings.Join(ids, ", ")),
	}
}

func (d *Driver) pathArg(args string) string {
	if path := strings.TrimSpace(args); path != "" {
		return path
	}
	return d.opts.DefaultPath
}

// splitFirst splits line into its first word and the trimmed remainder.
func splitFirst(line string) (string, string) {
	line = strings.TrimSpace(line)
	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i:])
}

func plural(n int) string {
	if n == 1 {
		return "task"
	}
	return "tasks"
}
