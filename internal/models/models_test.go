package models_test

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/tasks/internal/models"
)

// ---------------------------------------------------------------------------
// NewTask
// ---------------------------------------------------------------------------

func TestNewTask_HappyPath(t *testing.T) {
	c := qt.New(t)

	now := time.Date(2024, 3, 9, 14, 5, 7, 999, time.Local)
	task := models.NewTask(3, "Buy milk", now)
	c.Assert(task.ID, qt.Equals, 3)
	c.Assert(task.Text, qt.Equals, "Buy milk")
	c.Assert(task.Done, qt.IsFalse)
	c.Assert(task.CreatedAt, qt.Equals, "2024-03-09T14:05:07")
}

// ---------------------------------------------------------------------------
// NextID
// ---------------------------------------------------------------------------

func TestNextID_HappyPath(t *testing.T) {
	c := qt.New(t)

	cases := []struct {
		name  string
		tasks []models.Task
		want  int
	}{
		{"empty snapshot starts at one", nil, 1},
		{"single task", []models.Task{{ID: 1}}, 2},
		{"gap left by delete is not reused", []models.Task{{ID: 1}, {ID: 3}}, 4},
		{"max wins over order", []models.Task{{ID: 7}, {ID: 2}}, 8},
	}

	for _, tc := range cases {
		c.Run(tc.name, func(c *qt.C) {
			c.Assert(models.NextID(tc.tasks), qt.Equals, tc.want)
			c.Assert(models.MaxID(tc.tasks), qt.Equals, tc.want-1)
		})
	}
}

// ---------------------------------------------------------------------------
// IndexOf / Summarize
// ---------------------------------------------------------------------------

func TestIndexOf_HappyPath(t *testing.T) {
	c := qt.New(t)
	tasks := []models.Task{{ID: 4}, {ID: 9}}
	c.Assert(models.IndexOf(tasks, 9), qt.Equals, 1)
	c.Assert(models.IndexOf(tasks, 5), qt.Equals, -1)
	c.Assert(models.IndexOf(nil, 1), qt.Equals, -1)
}

func TestSummarize_HappyPath(t *testing.T) {
	c := qt.New(t)

	c.Run("empty", func(c *qt.C) {
		c.Assert(models.Summarize(nil), qt.DeepEquals, models.Summary{})
	})

	c.Run("mixed", func(c *qt.C) {
		got := models.Summarize([]models.Task{{ID: 1, Done: true}, {ID: 2}, {ID: 3}})
		c.Assert(got, qt.DeepEquals, models.Summary{Total: 3, Completed: 1, Pending: 2})
	})
}
