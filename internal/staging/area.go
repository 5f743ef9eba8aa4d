// Package staging owns the on-disk working copies that external
// transformation tools run against. One Area backs exactly one pass of a
// chain: files are materialized into it, baseline modification timestamps
// are recorded, the tool mutates the directory, and the tracker then reports
// which staged files changed. Areas are never shared between passes; a later
// pass gets its own physical copy via CopyFrom.
package staging

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/text/encoding/htmlindex"

	"stagehand/internal/logging"
)

// Area mirrors a subset of an in-memory file tree inside one exclusive
// directory. An Area is confined to the pass that created it and is not safe
// for concurrent use.
type Area struct {
	dir       string
	baselines map[string]time.Time
}

// Create makes the staging directory and returns an empty Area. The
// directory must not already exist: two passes sharing a directory is a
// coordinator bug, not a recoverable condition.
func Create(dir string) (*Area, error) {
	if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
		return nil, fmt.Errorf("create staging parent: %w", err)
	}
	if err := os.Mkdir(dir, 0o755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("%w: %s", ErrAreaExists, dir)
		}
		return nil, fmt.Errorf("create staging directory: %w", err)
	}
	logging.StagingDebug("created staging area at %s", dir)
	return &Area{
		dir:       dir,
		baselines: make(map[string]time.Time),
	}, nil
}

// Dir returns the absolute path of the staging directory.
func (a *Area) Dir() string { return a.dir }

// Resolve maps a staged relative path to its absolute on-disk location.
func (a *Area) Resolve(rel string) string {
	return filepath.Join(a.dir, filepath.FromSlash(rel))
}

// Write materializes one file under its original relative path, creating
// parent directories on demand, and records the file's modification time as
// its baseline for later change detection.
func (a *Area) Write(rel string, content []byte) error {
	abs := a.Resolve(rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("stage %s: %w", rel, err)
	}
	if err := os.WriteFile(abs, content, 0o644); err != nil {
		return fmt.Errorf("stage %s: %w", rel, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("stage %s: %w", rel, err)
	}
	a.baselines[rel] = info.ModTime()
	return nil
}

// CopyFrom recursively copies every file and directory from a prior pass's
// area into this one, recording each copied file's new modification time as
// its baseline. Files that vanish between listing and copying are skipped:
// a transformer deleting a file mid-chain is legitimate, not an error.
func (a *Area) CopyFrom(prev *Area) error {
	err := filepath.WalkDir(prev.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		rel, relErr := filepath.Rel(prev.dir, path)
		if relErr != nil {
			return relErr
		}
		if rel == "." {
			return nil
		}
		target := filepath.Join(a.dir, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if err := copyFile(path, target); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				logging.StagingDebug("skipping vanished file %s", rel)
				return nil
			}
			return err
		}
		info, statErr := os.Stat(target)
		if statErr != nil {
			return statErr
		}
		a.baselines[filepath.ToSlash(rel)] = info.ModTime()
		return nil
	})
	if err != nil {
		return fmt.Errorf("copy from previous stage: %w", err)
	}
	logging.Staging("copied %d files from %s", len(a.baselines), prev.dir)
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// ReadBytes returns the current raw content of a staged file.
func (a *Area) ReadBytes(rel string) ([]byte, error) {
	data, err := os.ReadFile(a.Resolve(rel))
	if err != nil {
		return nil, fmt.Errorf("read staged %s: %w", rel, err)
	}
	return data, nil
}

// Read returns the current content of a staged file decoded using the
// declared charset, or as UTF-8 when charset is empty.
func (a *Area) Read(rel, charset string) (string, error) {
	data, err := a.ReadBytes(rel)
	if err != nil {
		return "", err
	}
	if charset == "" {
		return string(data), nil
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownCharset, charset)
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode staged %s as %s: %w", rel, charset, err)
	}
	return string(decoded), nil
}

// Tracked returns the staged relative paths that carry a baseline.
func (a *Area) Tracked() []string {
	paths := make([]string, 0, len(a.baselines))
	for rel := range a.baselines {
		paths = append(paths, rel)
	}
	return paths
}

// Exists reports whether a staged file is still present on disk.
func (a *Area) Exists(rel string) bool {
	_, err := os.Stat(a.Resolve(rel))
	return err == nil
}
