// Package store holds the in-memory task collection and its persistence.
package store

import (
	"strings"

	"github.com/jacksmith/tm/internal/model"
	"github.com/jacksmith/tm/internal/storage"
)

// TaskStore is an ordered collection of tasks.
//
// IDs are assigned sequentially from 1 and never reused, even after the task
// holding them is removed. Every operation either applies fully or leaves the
// store unchanged. A TaskStore is not safe for concurrent use.
type TaskStore struct {
	tasks  []model.Task
	nextID int
	dirty  bool
}

// New returns an empty TaskStore.
func New() *TaskStore {
	return &TaskStore{nextID: 1}
}

// Add appends a new open task and returns it.
func (s *TaskStore) Add(title string) (model.Task, error) {
	return s.AddWithDescription(title, "")
}

// AddWithDescription is Add with a free-text description attached.
// It fails with model.ErrIDsExhausted once every ID has been handed out.
func (s *TaskStore) AddWithDescription(title, description string) (model.Task, error) {
	if err := model.ValidateTitle(title); err != nil {
		return model.Task{}, err
	}
	if s.nextID > model.MaxID {
		return model.Task{}, model.ErrIDsExhausted
	}

	task := model.Task{ID: s.nextID, Title: title, Description: strings.TrimSpace(description)}
	s.tasks = append(s.tasks, task)
	s.nextID++
	s.dirty = true
	return task, nil
}

// Remove deletes the task with the given ID.
func (s *TaskStore) Remove(id int) error {
	i, err := s.index(id)
	if err != nil {
		return err
	}

	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	s.dirty = true
	return nil
}

// Toggle flips the done flag of a task and returns the updated task.
func (s *TaskStore) Toggle(id int) (model.Task, error) {
	i, err := s.index(id)
	if err != nil {
		return model.Task{}, err
	}

	s.tasks[i].Done = !s.tasks[i].Done
	s.dirty = true
	return s.tasks[i], nil
}

// Edit replaces the title of a task and returns the updated task.
func (s *TaskStore) Edit(id int, title string) (model.Task, error) {
	i, err := s.index(id)
	if err != nil {
		return model.Task{}, err
	}
	if err := model.ValidateTitle(title); err != nil {
		return model.Task{}, err
	}

	s.tasks[i].Title = title
	s.dirty = true
	return s.tasks[i], nil
}

// Describe replaces the description of a task. An empty description clears
// it.
func (s *TaskStore) Describe(id int, description string) (model.Task, error) {
	i, err := s.index(id)
	if err != nil {
		return model.Task{}, err
	}

	s.tasks[i].Description = strings.TrimSpace(description)
	s.dirty = true
	return s.tasks[i], nil
}

// Get returns a copy of the task with the given ID.
func (s *TaskStore) Get(id int) (model.Task, error) {
	i, err := s.index(id)
	if err != nil {
		return model.Task{}, err
	}
	return s.tasks[i], nil
}

// List returns a copy of all tasks in insertion order.
func (s *TaskStore) List() []model.Task {
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Filter returns the tasks matching f in insertion order.
func (s *TaskStore) Filter(f model.Filter) []model.Task {
	out := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// Search returns tasks whose title contains query, ignoring case.
func (s *TaskStore) Search(query string) []model.Task {
	query = strings.ToLower(query)
	out := make([]model.Task, 0)
	for _, t := range s.tasks {
		if strings.Contains(strings.ToLower(t.Title), query) {
			out = append(out, t)
		}
	}
	return out
}

// FindByTitle returns tasks whose title equals title, ignoring case and
// surrounding whitespace.
func (s *TaskStore) FindByTitle(title string) []model.Task {
	title = strings.TrimSpace(title)
	out := make([]model.Task, 0)
	for _, t := range s.tasks {
		if strings.EqualFold(strings.TrimSpace(t.Title), title) {
			out = append(out, t)
		}
	}
	return out
}

// Len returns the number of tasks.
func (s *TaskStore) Len() int {
	return len(s.tasks)
}

// NextID returns the ID the next added task will get.
func (s *TaskStore) NextID() int {
	return s.nextID
}

// Dirty reports whether the store changed since the last save or load.
func (s *TaskStore) Dirty() bool {
	return s.dirty
}

// Save writes every task to path, replacing the file.
func (s *TaskStore) Save(path string) error {
	tf := &model.TaskFile{
		Version: model.FileVersion,
		NextID:  s.nextID,
		Tasks:   s.List(),
	}
	if err := storage.SaveTasks(path, tf); err != nil {
		return err
	}
	s.dirty = false
	return nil
}

// Load replaces the whole collection with the contents of path.
// On any error the store is left exactly as it was.
func (s *TaskStore) Load(path string) error {
	tf, err := storage.LoadTasks(path)
	if err != nil {
		return err
	}

	s.tasks = tf.Tasks
	s.nextID = tf.NextID
	s.dirty = false
	return nil
}

// index returns the position of the task with the given ID.
func (s *TaskStore) index(id int) (int, error) {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i, nil
		}
	}
	return -1, &model.NotFoundError{ID: id}
}
