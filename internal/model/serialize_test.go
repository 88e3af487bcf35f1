package model

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalTasks(t *testing.T) {
	content := `version: 1
next_id: 5
tasks:
  - id: 1
    title: Buy milk
    done: true
  - id: 2
    title: Write report
    done: false
`
	tf, err := UnmarshalTasks("tasks.yaml", []byte(content))
	require.NoError(t, err)

	assert.Equal(t, 1, tf.Version)
	assert.Equal(t, 5, tf.NextID)
	require.Len(t, tf.Tasks, 2)
	assert.Equal(t, Task{ID: 1, Title: "Buy milk", Done: true}, tf.Tasks[0])
	assert.Equal(t, Task{ID: 2, Title: "Write report", Done: false}, tf.Tasks[1])
}

func TestUnmarshalTasksDefaults(t *testing.T) {
	t.Run("empty file is an empty store", func(t *testing.T) {
		tf, err := UnmarshalTasks("tasks.yaml", nil)
		require.NoError(t, err)
		assert.Empty(t, tf.Tasks)
		assert.Equal(t, 1, tf.NextID)
	})

	t.Run("comment only file is an empty store", func(t *testing.T) {
		tf, err := UnmarshalTasks("tasks.yaml", []byte("# nothing here\n"))
		require.NoError(t, err)
		assert.Empty(t, tf.Tasks)
		assert.Equal(t, 1, tf.NextID)
	})

	t.Run("missing next_id derives from highest id", func(t *testing.T) {
		content := `tasks:
  - {id: 4, title: a, done: false}
  - {id: 2, title: b, done: true}
`
		tf, err := UnmarshalTasks("tasks.yaml", []byte(content))
		require.NoError(t, err)
		assert.Equal(t, 5, tf.NextID)
		// File order is kept
		assert.Equal(t, 4, tf.Tasks[0].ID)
		assert.Equal(t, 2, tf.Tasks[1].ID)
	})

	t.Run("stale next_id is raised past existing ids", func(t *testing.T) {
		content := `next_id: 2
tasks:
  - {id: 7, title: a, done: false}
`
		tf, err := UnmarshalTasks("tasks.yaml", []byte(content))
		require.NoError(t, err)
		assert.Equal(t, 8, tf.NextID)
	})

	t.Run("next_id above ids is kept", func(t *testing.T) {
		tf, err := UnmarshalTasks("tasks.yaml", []byte("next_id: 10\ntasks: []\n"))
		require.NoError(t, err)
		assert.Equal(t, 10, tf.NextID)
		assert.Empty(t, tf.Tasks)
	})

	t.Run("null tasks", func(t *testing.T) {
		tf, err := UnmarshalTasks("tasks.yaml", []byte("tasks:\n"))
		require.NoError(t, err)
		assert.Empty(t, tf.Tasks)
	})

	t.Run("description is optional", func(t *testing.T) {
		content := `tasks:
  - {id: 1, title: a, description: two litres, done: false}
  - {id: 2, title: b, description: null, done: false}
  - {id: 3, title: c, done: true}
`
		tf, err := UnmarshalTasks("tasks.yaml", []byte(content))
		require.NoError(t, err)
		assert.Equal(t, "two litres", tf.Tasks[0].Description)
		assert.Empty(t, tf.Tasks[1].Description)
		assert.Empty(t, tf.Tasks[2].Description)
	})

	t.Run("highest id leaves room for the counter", func(t *testing.T) {
		content := fmt.Sprintf("tasks:\n  - {id: %d, title: a, done: false}\n", MaxID)
		tf, err := UnmarshalTasks("tasks.yaml", []byte(content))
		require.NoError(t, err)
		assert.Equal(t, math.MaxInt, tf.NextID)
	})

	t.Run("next_id at the int limit is kept", func(t *testing.T) {
		content := fmt.Sprintf("next_id: %d\ntasks:\n  - {id: 1, title: a, done: false}\n", math.MaxInt)
		tf, err := UnmarshalTasks("tasks.yaml", []byte(content))
		require.NoError(t, err)
		assert.Equal(t, math.MaxInt, tf.NextID)
	})

	t.Run("quoted numeric title is a string", func(t *testing.T) {
		tf, err := UnmarshalTasks("tasks.yaml", []byte("tasks:\n  - {id: 1, title: \"42\", done: false}\n"))
		require.NoError(t, err)
		assert.Equal(t, "42", tf.Tasks[0].Title)
	})
}

func TestUnmarshalTasksMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
		message string
		line    int
	}{
		{"invalid yaml", "tasks: [\n", "invalid YAML", 0},
		{"top level list", "- 1\n- 2\n", "top level must be a mapping", 1},
		{"unknown top level key", "owner: me\n", `unknown field "owner"`, 1},
		{"duplicate top level key", "next_id: 1\nnext_id: 2\n", `duplicate key "next_id"`, 2},
		{"unsupported version", "version: 2\n", "unsupported version 2", 1},
		{"version not int", "version: one\n", "version must be an integer", 1},
		{"next_id not positive", "next_id: 0\n", "next_id must be positive", 1},
		{"tasks not a list", "tasks: nope\n", "tasks must be a list", 1},
		{"task not a mapping", "tasks:\n  - just text\n", "task must be a mapping", 2},
		{"missing id", "tasks:\n  - title: a\n    done: false\n", "task is missing id", 2},
		{"missing title", "tasks:\n  - id: 1\n    done: false\n", "task 1 is missing title", 2},
		{"missing done", "tasks:\n  - id: 1\n    title: a\n", "task 1 is missing done", 2},
		{"id not int", "tasks:\n  - {id: one, title: a, done: false}\n", "id must be an integer", 2},
		{"id not positive", "tasks:\n  - {id: -1, title: a, done: false}\n", "id must be positive", 2},
		{"id at the int limit", fmt.Sprintf("tasks:\n  - {id: 1, title: a, done: false}\n  - {id: %d, title: b, done: false}\n", math.MaxInt), fmt.Sprintf("id must be at most %d", MaxID), 3},
		{"id past the int limit", "tasks:\n  - {id: 9223372036854775808, title: a, done: false}\n", "id must be an integer", 2},
		{"description not string", "tasks:\n  - {id: 1, title: a, description: [x], done: false}\n", "description must be a string", 2},
		{"title not string", "tasks:\n  - {id: 1, title: 12, done: false}\n", "title must be a string", 2},
		{"title empty", "tasks:\n  - {id: 1, title: \"  \", done: false}\n", "title must not be empty", 2},
		{"done not bool", "tasks:\n  - {id: 1, title: a, done: maybe}\n", "done must be true or false", 2},
		{"done yes is not bool", "tasks:\n  - {id: 1, title: a, done: yes}\n", "done must be true or false", 2},
		{"unknown task field", "tasks:\n  - {id: 1, title: a, done: false, due: 2025-01-01}\n", `unknown task field "due"`, 2},
		{"duplicate task key", "tasks:\n  - {id: 1, id: 2, title: a, done: false}\n", `duplicate key "id"`, 2},
		{"duplicate ids", "tasks:\n  - {id: 1, title: a, done: false}\n  - {id: 1, title: b, done: true}\n", "duplicate task id 1", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tf, err := UnmarshalTasks("tasks.yaml", []byte(tt.content))
			require.Error(t, err)
			assert.Nil(t, tf)

			var fe *FormatError
			require.True(t, errors.As(err, &fe), "expected FormatError, got %T", err)
			assert.Contains(t, fe.Message, tt.message)
			assert.Equal(t, "tasks.yaml", fe.Path)
			if tt.line > 0 {
				assert.Equal(t, tt.line, fe.Line)
			}
		})
	}
}

func TestMarshalTasks(t *testing.T) {
	tf := &TaskFile{
		NextID: 3,
		Tasks: []Task{
			{ID: 1, Title: "Buy milk", Done: true},
			{ID: 2, Title: "Write report", Description: "Quarterly numbers"},
		},
	}

	data, err := MarshalTasks(tf)
	require.NoError(t, err)

	expected := `version: 1
next_id: 3
tasks:
    - id: 1
      title: Buy milk
      done: true
    - id: 2
      title: Write report
      description: Quarterly numbers
      done: false
`
	assert.Equal(t, expected, string(data))
}

func TestMarshalTasksEmpty(t *testing.T) {
	data, err := MarshalTasks(&TaskFile{NextID: 1})
	require.NoError(t, err)
	assert.Equal(t, "version: 1\nnext_id: 1\ntasks: []\n", string(data))
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	tf := &TaskFile{
		Version: FileVersion,
		NextID:  12,
		Tasks: []Task{
			{ID: 3, Title: "Buy milk", Done: true},
			{ID: 5, Title: "123"},
			{ID: 6, Title: "true"},
			{ID: 7, Title: "null"},
			{ID: 8, Title: "  padded  "},
			{ID: 9, Title: "colon: inside # and hash", Done: true},
			{ID: 10, Title: "line one\nline two"},
			{ID: 11, Title: "zażółć gęślą jaźń", Description: "no: really\nsecond line"},
		},
	}

	data, err := MarshalTasks(tf)
	require.NoError(t, err)

	got, err := UnmarshalTasks("round.yaml", data)
	require.NoError(t, err)
	assert.Equal(t, tf, got)
}
