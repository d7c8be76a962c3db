package store

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/go-ports/tasks/internal/models"
)

//go:embed schema.json
var schemaJSON string

var taskListSchema = jsonschema.MustCompileString("tasks.schema.json", schemaJSON)

// JSONFile persists snapshots as an indented JSON array in a single file.
type JSONFile struct {
	path string
}

// NewJSONFile returns a backend rooted at path. The file is not touched until
// the first Load or Save.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

// Path returns the backing file path.
func (f *JSONFile) Path() string { return f.path }

// Load reads and validates the task file.
func (f *JSONFile) Load(ctx context.Context) ([]models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return []models.Task{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store.Load: %w", err)
	}

	tasks, err := decodeTasks(data)
	if err != nil {
		return []models.Task{}, &MalformedError{Path: f.path, Err: err}
	}
	return tasks, nil
}

// Save writes the full snapshot atomically.
func (f *JSONFile) Save(ctx context.Context, tasks []models.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encodeTasks(tasks)
	if err != nil {
		return fmt.Errorf("store.Save: encode: %w", err)
	}
	if err := writeFileAtomic(f.path, data, 0o644); err != nil {
		return fmt.Errorf("store.Save: %w", err)
	}
	return nil
}

// decodeTasks validates the document shape before decoding into typed records.
func decodeTasks(data []byte) ([]models.Task, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("invalid JSON: trailing content")
	}
	if err := taskListSchema.Validate(doc); err != nil {
		return nil, schemaError(err)
	}

	tasks := make([]models.Task, 0)
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, err
	}
	if err := CheckUnique(tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// schemaError reduces a schema failure to its first leaf cause.
func schemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	if ve.InstanceLocation == "" {
		return fmt.Errorf("unexpected shape: %s", ve.Message)
	}
	return fmt.Errorf("unexpected shape at %s: %s", ve.InstanceLocation, ve.Message)
}

// encodeTasks renders tasks as 2-space indented JSON without escaping
// non-ASCII or HTML characters, terminated by a newline.
func encodeTasks(tasks []models.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []models.Task{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tasks); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeFileAtomic writes data to a temp file next to path, syncs it and
// renames it over path, so readers see either the old or the new content.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return syncDir(dir)
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	// Some platforms refuse to fsync directories; the rename already happened.
	_ = d.Sync()
	return nil
}
