// Package output writes one text file per record into the output directory.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"entrybot/internal/logging"
)

const (
	dirPerm  os.FileMode = 0o755
	filePerm os.FileMode = 0o644
)

// WriteError reports a filesystem fault while persisting a record.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("file-system error saving %q: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Writer persists record text under a fixed directory.
type Writer struct {
	dir string
}

// NewWriter returns a Writer rooted at dir. The directory is not touched until EnsureDir or Write.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Dir returns the output directory.
func (w *Writer) Dir() string { return w.dir }

// EnsureDir creates the output directory and its parents if absent.
func (w *Writer) EnsureDir() error {
	if strings.TrimSpace(w.dir) == "" {
		return fmt.Errorf("output directory not configured")
	}
	if err := os.MkdirAll(w.dir, dirPerm); err != nil {
		return fmt.Errorf("cannot create save directory: %w", err)
	}
	return nil
}

// FileName is the deterministic file name for a record id.
func FileName(id string) string {
	return "post " + id + ".txt"
}

// Write stores text as UTF-8 in the record's file, replacing any previous content,
// and returns the file path. Failures are returned as *WriteError.
func (w *Writer) Write(id, text string) (string, error) {
	name := FileName(id)
	if filepath.Base(name) != name || strings.ContainsAny(id, `/\`) {
		return "", &WriteError{Path: name, Err: fmt.Errorf("record id %q is not a valid file name", id)}
	}
	dest := filepath.Join(w.dir, name)

	if err := writeAtomic(dest, []byte(text)); err != nil {
		return dest, &WriteError{Path: dest, Err: err}
	}
	logging.Output("Saved file: %s", name)
	return dest, nil
}

// writeAtomic writes to a temp file in the destination directory and renames it into place.
func writeAtomic(dest string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".entrybot-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmpPath, filePerm); err != nil {
		return err
	}
	return os.Rename(tmpPath, dest)
}
