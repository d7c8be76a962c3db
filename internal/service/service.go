// Package service implements the task operations on top of a store backend.
// Every operation is one load, an optional mutation and at most one save.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-ports/tasks/internal/config"
	"github.com/go-ports/tasks/internal/db"
	"github.com/go-ports/tasks/internal/models"
	"github.com/go-ports/tasks/internal/store"
)

var (
	// ErrInvalidInput is returned for empty task text or a non-positive id.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when no task has the requested id.
	ErrNotFound = errors.New("task not found")
	// ErrAlreadyDone is informational: the task was already completed and
	// nothing was written.
	ErrAlreadyDone = errors.New("task already completed")
	// ErrIDExhausted is returned by Add when the highest stored id is
	// math.MaxInt and no larger id can be issued.
	ErrIDExhausted = errors.New("task id space exhausted")
)

// Service runs task operations against a single backend.
type Service struct {
	TasksHome string
	Config    *config.TasksConfig

	backend store.Backend
	log     *slog.Logger
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for recoverable conditions.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides the time source used for created_at.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New initialises a Service rooted at tasksHome.
// If tasksHome is empty it is resolved via config.GetTasksHome.
func New(tasksHome string, opts ...Option) (*Service, error) {
	if tasksHome == "" {
		tasksHome = config.GetTasksHome("")
	}

	cfg, err := config.Load(filepath.Join(tasksHome, "config.yaml"))
	if err != nil {
		return nil, fmt.Errorf("service.New: load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("service.New: %w", err)
	}

	var backend store.Backend
	path := cfg.StorePath(tasksHome)
	switch cfg.Store.Backend {
	case config.BackendSQLite:
		backend = db.NewBackend(path)
	default:
		backend = store.NewJSONFile(path)
	}

	s := NewWithBackend(backend, opts...)
	s.TasksHome = tasksHome
	s.Config = cfg
	return s, nil
}

// NewWithBackend returns a Service over an explicit backend.
func NewWithBackend(backend store.Backend, opts ...Option) *Service {
	s := &Service{
		Config:  config.Default(),
		backend: backend,
		log:     slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StorePath returns the path of the backing store.
func (s *Service) StorePath() string { return s.backend.Path() }

// ---------------------------------------------------------------------------
// Snapshot access
// ---------------------------------------------------------------------------

// load reads the current snapshot. A malformed store degrades to an empty
// snapshot; the returned warnings describe why.
func (s *Service) load(ctx context.Context) ([]models.Task, []string, error) {
	tasks, err := s.backend.Load(ctx)
	if errors.Is(err, store.ErrMalformedStore) {
		s.log.Warn("task store is malformed, using an empty task list",
			"path", s.backend.Path(), "err", err)
		return make([]models.Task, 0), []string{err.Error()}, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load tasks: %w", err)
	}
	return tasks, nil, nil
}

func (s *Service) save(ctx context.Context, tasks []models.Task) error {
	if err := s.backend.Save(ctx, tasks); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

func validateID(id int) error {
	if id <= 0 {
		return fmt.Errorf("%w: id must be a positive integer, got %d", ErrInvalidInput, id)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Operations
// ---------------------------------------------------------------------------

// Add creates a pending task with the trimmed text and returns it.
func (s *Service) Add(ctx context.Context, text string) (*models.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: task text is empty", ErrInvalidInput)
	}

	tasks, _, err := s.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("Add: %w", err)
	}
	if maxID := models.MaxID(tasks); maxID == math.MaxInt {
		return nil, fmt.Errorf("Add: %w: highest id is %d", ErrIDExhausted, maxID)
	}
	task := models.NewTask(models.NextID(tasks), text, s.now())
	tasks = append(tasks, task)
	if err := s.save(ctx, tasks); err != nil {
		return nil, fmt.Errorf("Add: %w", err)
	}
	return &task, nil
}

// List returns every task in creation order with completion counts.
func (s *Service) List(ctx context.Context) (*models.ListResult, error) {
	tasks, warnings, err := s.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	return &models.ListResult{
		Tasks:    tasks,
		Summary:  models.Summarize(tasks),
		Warnings: warnings,
	}, nil
}

// Done marks the task complete. Completing a task twice returns the task
// together with ErrAlreadyDone and leaves the store untouched.
func (s *Service) Done(ctx context.Context, id int) (*models.Task, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	tasks, _, err := s.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("Done: %w", err)
	}
	i := models.IndexOf(tasks, id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if tasks[i].Done {
		task := tasks[i]
		return &task, fmt.Errorf("%w: %d", ErrAlreadyDone, id)
	}

	tasks[i].Done = true
	if err := s.save(ctx, tasks); err != nil {
		return nil, fmt.Errorf("Done: %w", err)
	}
	task := tasks[i]
	return &task, nil
}

// Delete removes the task with id and returns it. Other tasks keep their ids
// and order.
func (s *Service) Delete(ctx context.Context, id int) (*models.Task, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	tasks, _, err := s.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("Delete: %w", err)
	}
	i := models.IndexOf(tasks, id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}

	removed := tasks[i]
	remaining := make([]models.Task, 0, len(tasks)-1)
	remaining = append(remaining, tasks[:i]...)
	remaining = append(remaining, tasks[i+1:]...)
	if err := s.save(ctx, remaining); err != nil {
		return nil, fmt.Errorf("Delete: %w", err)
	}
	return &removed, nil
}

// Init creates the tasks home and writes an empty store when none exists.
// An existing store, malformed or not, is left untouched and created is false.
func (s *Service) Init(ctx context.Context) (created bool, err error) {
	if s.TasksHome != "" {
		if err := os.MkdirAll(s.TasksHome, 0o755); err != nil {
			return false, fmt.Errorf("Init: %w", err)
		}
	}
	if _, err := os.Stat(s.backend.Path()); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("Init: %w", err)
	}
	if err := s.save(ctx, make([]models.Task, 0)); err != nil {
		return false, fmt.Errorf("Init: %w", err)
	}
	return true, nil
}

// Clear replaces the store with an empty task list.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.save(ctx, make([]models.Task, 0)); err != nil {
		return fmt.Errorf("Clear: %w", err)
	}
	return nil
}
