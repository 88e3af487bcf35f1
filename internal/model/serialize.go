package model

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// MarshalTasks encodes a task file as YAML.
// Tasks keep their order. Titles are always emitted as strings,
// quoted when they would otherwise read back as another type.
func MarshalTasks(tf *TaskFile) ([]byte, error) {
	node := buildTaskFileNode(tf)

	data, err := yaml.Marshal(node)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tasks: %w", err)
	}
	return data, nil
}

// UnmarshalTasks decodes a task file. path is only used in error messages.
// All problems are reported as *FormatError. An empty document decodes to an
// empty task file.
func UnmarshalTasks(path string, data []byte) (*TaskFile, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &FormatError{Path: path, Message: "invalid YAML", Err: err}
	}

	tf := &TaskFile{Version: FileVersion}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		tf.NextID = 1
		return tf, nil
	}

	d := decoder{path: path}
	root := doc.Content[0]
	if isNull(root) {
		tf.NextID = 1
		return tf, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, d.errorf(root, "top level must be a mapping")
	}

	nextID := 0
	seenKeys := make(map[string]bool)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if seenKeys[key.Value] {
			return nil, d.errorf(key, "duplicate key %q", key.Value)
		}
		seenKeys[key.Value] = true

		switch key.Value {
		case "version":
			v, err := d.intField(value, "version")
			if err != nil {
				return nil, err
			}
			if v != FileVersion {
				return nil, d.errorf(value, "unsupported version %d", v)
			}
		case "next_id":
			v, err := d.intField(value, "next_id")
			if err != nil {
				return nil, err
			}
			if v < 1 {
				return nil, d.errorf(value, "next_id must be positive")
			}
			nextID = v
		case "tasks":
			tasks, err := d.tasks(value)
			if err != nil {
				return nil, err
			}
			tf.Tasks = tasks
		default:
			return nil, d.errorf(key, "unknown field %q", key.Value)
		}
	}

	// ids are capped at MaxID, so the counter cannot overflow here
	tf.NextID = nextID
	for _, t := range tf.Tasks {
		if t.ID >= tf.NextID {
			tf.NextID = t.ID + 1
		}
	}
	if tf.NextID < 1 {
		tf.NextID = 1
	}
	return tf, nil
}

type decoder struct {
	path string
}

func (d decoder) errorf(n *yaml.Node, format string, args ...any) *FormatError {
	return &FormatError{Path: d.path, Line: n.Line, Message: fmt.Sprintf(format, args...)}
}

func (d decoder) tasks(n *yaml.Node) ([]Task, error) {
	if isNull(n) {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, d.errorf(n, "tasks must be a list")
	}

	tasks := make([]Task, 0, len(n.Content))
	ids := make(map[int]bool, len(n.Content))
	for _, item := range n.Content {
		t, err := d.task(item)
		if err != nil {
			return nil, err
		}
		if ids[t.ID] {
			return nil, d.errorf(item, "duplicate task id %d", t.ID)
		}
		ids[t.ID] = true
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (d decoder) task(n *yaml.Node) (Task, error) {
	var t Task
	if n.Kind != yaml.MappingNode {
		return t, d.errorf(n, "task must be a mapping")
	}

	var hasID, hasTitle, hasDescription, hasDone bool
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		switch key.Value {
		case "id":
			if hasID {
				return t, d.errorf(key, "duplicate key %q", key.Value)
			}
			v, err := d.intField(value, "id")
			if err != nil {
				return t, err
			}
			if v < 1 {
				return t, d.errorf(value, "id must be positive")
			}
			if v > MaxID {
				return t, d.errorf(value, "id must be at most %d", MaxID)
			}
			t.ID, hasID = v, true
		case "title":
			if hasTitle {
				return t, d.errorf(key, "duplicate key %q", key.Value)
			}
			if value.Kind != yaml.ScalarNode || value.ShortTag() != "!!str" {
				return t, d.errorf(value, "title must be a string")
			}
			if err := ValidateTitle(value.Value); err != nil {
				return t, d.errorf(value, "title must not be empty")
			}
			t.Title, hasTitle = value.Value, true
		case "description":
			if hasDescription {
				return t, d.errorf(key, "duplicate key %q", key.Value)
			}
			hasDescription = true
			if isNull(value) {
				continue
			}
			if value.Kind != yaml.ScalarNode || value.ShortTag() != "!!str" {
				return t, d.errorf(value, "description must be a string")
			}
			t.Description = value.Value
		case "done":
			if hasDone {
				return t, d.errorf(key, "duplicate key %q", key.Value)
			}
			if value.Kind != yaml.ScalarNode || value.ShortTag() != "!!bool" {
				return t, d.errorf(value, "done must be true or false")
			}
			var b bool
			if err := value.Decode(&b); err != nil {
				return t, &FormatError{Path: d.path, Line: value.Line, Message: "done must be true or false", Err: err}
			}
			t.Done, hasDone = b, true
		default:
			return t, d.errorf(key, "unknown task field %q", key.Value)
		}
	}

	switch {
	case !hasID:
		return t, d.errorf(n, "task is missing id")
	case !hasTitle:
		return t, d.errorf(n, "task %d is missing title", t.ID)
	case !hasDone:
		return t, d.errorf(n, "task %d is missing done", t.ID)
	}
	return t, nil
}

func (d decoder) intField(n *yaml.Node, field string) (int, error) {
	if n.Kind != yaml.ScalarNode || n.ShortTag() != "!!int" {
		return 0, d.errorf(n, "%s must be an integer", field)
	}
	var v int
	if err := n.Decode(&v); err != nil {
		return 0, &FormatError{Path: d.path, Line: n.Line, Message: field + " must be an integer", Err: err}
	}
	return v, nil
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

// buildTaskFileNode creates a yaml.Node tree for a TaskFile.
func buildTaskFileNode(tf *TaskFile) *yaml.Node {
	doc := &yaml.Node{Kind: yaml.MappingNode}

	version := tf.Version
	if version == 0 {
		version = FileVersion
	}
	addIntField(doc, "version", version)
	addIntField(doc, "next_id", tf.NextID)

	tasksNode := &yaml.Node{Kind: yaml.SequenceNode}
	for i := range tf.Tasks {
		tasksNode.Content = append(tasksNode.Content, buildTaskNode(&tf.Tasks[i]))
	}
	if len(tf.Tasks) == 0 {
		tasksNode.Style = yaml.FlowStyle
	}
	doc.Content = append(doc.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: "tasks"},
		tasksNode,
	)

	return doc
}

// buildTaskNode creates a yaml.Node for a Task.
func buildTaskNode(t *Task) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode}
	addIntField(node, "id", t.ID)
	addStringField(node, "title", t.Title)
	if t.Description != "" {
		addStringField(node, "description", t.Description)
	}
	addBoolField(node, "done", t.Done)
	return node
}

// Helper functions for building yaml.Node

func addStringField(node *yaml.Node, key, value string) {
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Value: value, Tag: "!!str"},
	)
}

func addIntField(node *yaml.Node, key string, value int) {
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Value: strconv.Itoa(value), Tag: "!!int"},
	)
}

func addBoolField(node *yaml.Node, key string, value bool) {
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Value: strconv.FormatBool(value), Tag: "!!bool"},
	)
}
