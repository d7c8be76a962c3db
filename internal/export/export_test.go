package export_test

import (
	"bytes"
	"testing"

	qt "github.com/frankban/quicktest"
	"gopkg.in/yaml.v3"

	"github.com/go-ports/tasks/internal/export"
	"github.com/go-ports/tasks/internal/models"
)

func sample() []models.Task {
	return []models.Task{
		{ID: 1, Text: "Buy milk", Done: true, CreatedAt: "2024-01-15T09:30:00"},
		{ID: 3, Text: "Read [docs]\nlater", CreatedAt: ""},
	}
}

// ---------------------------------------------------------------------------
// Markdown
// ---------------------------------------------------------------------------

func TestRenderItem_HappyPath(t *testing.T) {
	c := qt.New(t)

	cases := []struct {
		name string
		task models.Task
		want string
	}{
		{"done with timestamp", sample()[0], "- [x] Buy milk (#1, 2024-01-15T09:30:00)"},
		{"pending without timestamp, escaped", sample()[1], `- [ ] Read \[docs\] later (#3)`},
	}

	for _, tc := range cases {
		c.Run(tc.name, func(c *qt.C) {
			c.Assert(export.RenderItem(tc.task), qt.Equals, tc.want)
		})
	}
}

func TestMarkdown_HappyPath(t *testing.T) {
	c := qt.New(t)

	c.Run("checklist with summary", func(c *qt.C) {
		got := export.Markdown(sample())
		c.Assert(got, qt.Equals, "# Tasks\n\n"+
			"- [x] Buy milk (#1, 2024-01-15T09:30:00)\n"+
			"- [ ] Read \\[docs\\] later (#3)\n"+
			"\n2 tasks, 1 completed, 1 pending\n")
	})

	c.Run("empty list", func(c *qt.C) {
		c.Assert(export.Markdown(nil), qt.Equals, "# Tasks\n\n_No tasks._\n")
	})
}

// ---------------------------------------------------------------------------
// YAML / Write
// ---------------------------------------------------------------------------

func TestYAML_HappyPath(t *testing.T) {
	c := qt.New(t)

	var buf bytes.Buffer
	c.Assert(export.YAML(&buf, sample()), qt.IsNil)

	var doc struct {
		Tasks   []models.Task  `yaml:"tasks"`
		Summary models.Summary `yaml:"summary"`
	}
	c.Assert(yaml.Unmarshal(buf.Bytes(), &doc), qt.IsNil)
	c.Assert(doc.Tasks, qt.DeepEquals, sample())
	c.Assert(doc.Summary, qt.DeepEquals, models.Summary{Total: 2, Completed: 1, Pending: 1})
}

func TestWrite_FailurePath(t *testing.T) {
	c := qt.New(t)
	var buf bytes.Buffer
	err := export.Write(&buf, "pdf", sample())
	c.Assert(err, qt.ErrorMatches, `unknown export format "pdf".*`)
	c.Assert(buf.Len(), qt.Equals, 0)
}

func TestWrite_HappyPath(t *testing.T) {
	c := qt.New(t)
	for _, format := range []string{"markdown", "md", "YAML", "yml"} {
		c.Run(format, func(c *qt.C) {
			var buf bytes.Buffer
			c.Assert(export.Write(&buf, format, sample()), qt.IsNil)
			c.Assert(buf.String(), qt.Contains, "Buy milk")
		})
	}
}
