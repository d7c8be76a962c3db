// Package models defines the core data types for the task tracker.
package models

import (
	"time"
)

// TimestampLayout is the persisted created_at format: local time, second
// precision, no zone offset.
const TimestampLayout = "2006-01-02T15:04:05"

// Task is a single to-do record. Field order is the persisted field order.
type Task struct {
	ID        int    `json:"id" yaml:"id"`
	Text      string `json:"text" yaml:"text"`
	Done      bool   `json:"done" yaml:"done"`
	CreatedAt string `json:"created_at" yaml:"created_at"`
}

// NewTask builds a pending task stamped with now in local time.
func NewTask(id int, text string, now time.Time) Task {
	return Task{
		ID:        id,
		Text:      text,
		CreatedAt: now.Local().Format(TimestampLayout),
	}
}

// MaxID returns the highest id in tasks, or 0 for an empty snapshot.
func MaxID(tasks []Task) int {
	maxID := 0
	for _, t := range tasks {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	return maxID
}

// NextID returns 1 + the highest id in tasks, or 1 for an empty snapshot.
// Deleted ids are never handed out again as long as a higher id survives.
// Callers must check MaxID against math.MaxInt first.
func NextID(tasks []Task) int {
	return MaxID(tasks) + 1
}

// IndexOf returns the position of the task with id, or -1.
func IndexOf(tasks []Task, id int) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Summary counts tasks by completion state.
type Summary struct {
	Total     int `json:"total" yaml:"total"`
	Completed int `json:"completed" yaml:"completed"`
	Pending   int `json:"pending" yaml:"pending"`
}

// Summarize computes the Summary for tasks.
func Summarize(tasks []Task) Summary {
	s := Summary{Total: len(tasks)}
	for _, t := range tasks {
		if t.Done {
			s.Completed++
		}
	}
	s.Pending = s.Total - s.Completed
	return s
}

// ListResult is returned from Service.List.
type ListResult struct {
	Tasks    []Task
	Summary  Summary
	Warnings []string
}

// Empty reports whether the listing has no tasks.
func (r *ListResult) Empty() bool { return len(r.Tasks) == 0 }
