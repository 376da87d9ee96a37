package manifest

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/cargofeat/cargo-features/pkg/errors"
)

// Load reads and parses the manifest at path. A file that cannot be read is
// an invalid path; only text that is not TOML fails to parse.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	doc, err := parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeManifestParse, err, "parse %s", path)
	}
	return doc, nil
}

// Save replaces the file at path with the document text. The text goes to a
// temporary file in the same directory first and is renamed over path, so a
// failed write leaves the original untouched.
func (d *Document) Save(path string) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".Cargo.toml.*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeManifestWrite, err, "write %s", path)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(d.src); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeManifestWrite, err, "write %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeManifestWrite, err, "write %s", path)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return errors.Wrap(errors.ErrCodeManifestWrite, err, "write %s", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrap(errors.ErrCodeManifestWrite, err, "write %s", path)
	}
	return nil
}

// Change describes one dependency edit.
type Change struct {
	Path    string
	Table   []string
	Key     string
	Entry   Entry
	Before  string // previous value text, empty when the key was absent
	Changed bool   // the document text differs after the edit
	Written bool   // the file was rewritten
}

// Writer applies dependency edits to manifest files.
type Writer struct {
	// DryRun computes the change without touching the file.
	DryRun bool
	Logger *log.Logger
}

// NewWriter creates a Writer.
func NewWriter(logger *log.Logger, dryRun bool) *Writer {
	if logger == nil {
		logger = log.Default()
	}
	return &Writer{DryRun: dryRun, Logger: logger}
}

// Write sets table.key to e in the manifest at path. The file is only opened
// for writing once the edited text has been produced and verified, and not
// at all when nothing changed.
func (w *Writer) Write(path string, table []string, key string, e Entry) (*Change, error) {
	doc, err := Load(path)
	if err != nil {
		return nil, err
	}
	ch := &Change{Path: path, Table: table, Key: key, Entry: e}
	ch.Before, _ = doc.Lookup(table, key)

	ch.Changed, err = doc.Set(table, key, e)
	if err != nil {
		return nil, err
	}
	w.Logger.Debug("manifest edit", "path", path, "key", formatKey(slices.Concat(table, []string{key})), "value", e.String(), "changed", ch.Changed)

	if !ch.Changed || w.DryRun {
		return ch, nil
	}
	if err := doc.Save(path); err != nil {
		return nil, err
	}
	ch.Written = true
	return ch, nil
}
