// Package export renders task snapshots for use outside the CLI.
package export

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/go-ports/tasks/internal/models"
)

// Supported formats.
const (
	FormatMarkdown = "markdown"
	FormatYAML     = "yaml"
)

// Formats lists the accepted --format values.
var Formats = []string{FormatMarkdown, FormatYAML}

// Write renders tasks to w in the named format.
func Write(w io.Writer, format string, tasks []models.Task) error {
	switch strings.ToLower(format) {
	case FormatMarkdown, "md":
		_, err := io.WriteString(w, Markdown(tasks))
		return err
	case FormatYAML, "yml":
		return YAML(w, tasks)
	default:
		return fmt.Errorf("unknown export format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

// RenderItem produces a single checklist line for a task.
func RenderItem(t models.Task) string {
	var sb strings.Builder
	if t.Done {
		sb.WriteString("- [x] ")
	} else {
		sb.WriteString("- [ ] ")
	}
	sb.WriteString(escapeMarkdown(t.Text))
	sb.WriteString(" (#")
	fmt.Fprint(&sb, t.ID)
	if t.CreatedAt != "" {
		sb.WriteString(", ")
		sb.WriteString(t.CreatedAt)
	}
	sb.WriteString(")")
	return sb.String()
}

// Markdown renders tasks as a GitHub-style checklist with a summary footer.
func Markdown(tasks []models.Task) string {
	var sb strings.Builder
	sb.WriteString("# Tasks\n\n")
	if len(tasks) == 0 {
		sb.WriteString("_No tasks._\n")
		return sb.String()
	}
	for _, t := range tasks {
		sb.WriteString(RenderItem(t))
		sb.WriteString("\n")
	}
	s := models.Summarize(tasks)
	fmt.Fprintf(&sb, "\n%d tasks, %d completed, %d pending\n", s.Total, s.Completed, s.Pending)
	return sb.String()
}

// yamlDoc is the exported YAML document.
type yamlDoc struct {
	Tasks   []models.Task  `yaml:"tasks"`
	Summary models.Summary `yaml:"summary"`
}

// YAML writes tasks and their summary as a YAML document.
func YAML(w io.Writer, tasks []models.Task) error {
	if tasks == nil {
		tasks = make([]models.Task, 0)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(yamlDoc{Tasks: tasks, Summary: models.Summarize(tasks)}); err != nil {
		return err
	}
	return enc.Close()
}

// escapeMarkdown keeps task text on one line and stops it from opening
// nested list items or links.
func escapeMarkdown(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := strings.NewReplacer(`\`, `\\`, "[", `\[`, "]", `\]`)
	return r.Replace(s)
}
