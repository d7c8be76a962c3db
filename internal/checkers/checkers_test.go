package checkers_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/tasks/internal/checkers"
)

func TestJSONPathEquals_HappyPath(t *testing.T) {
	c := qt.New(t)

	doc := `{"summary":{"total":2},"tasks":[{"id":1,"text":"Buy milk","done":true}]}`

	c.Assert(doc, checkers.JSONPathEquals("$.summary.total"), 2)
	c.Assert([]byte(doc), checkers.JSONPathEquals("$.tasks[0].text"), "Buy milk")
	c.Assert(doc, checkers.JSONPathEquals("$.tasks[0].done"), true)
}

func TestJSONPathEquals_FailurePath(t *testing.T) {
	c := qt.New(t)

	checker := checkers.JSONPathEquals("$.a")
	note := func(string, any) {}

	c.Run("value mismatch", func(c *qt.C) {
		err := checker.Check(`{"a":1}`, []any{2}, note)
		c.Assert(err, qt.IsNotNil)
	})

	c.Run("invalid JSON", func(c *qt.C) {
		err := checker.Check(`{`, []any{1}, note)
		c.Assert(err, qt.ErrorMatches, "cannot decode JSON.*")
	})

	c.Run("unsupported got type", func(c *qt.C) {
		err := checker.Check(42, []any{1}, note)
		c.Assert(qt.IsBadCheck(err), qt.IsTrue)
	})
}
