package staging

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Changed compares every tracked file against its baseline timestamp and
// returns the relative paths that changed, sorted. A missing file counts as
// changed (the tool deleted it); a strictly later modification time counts
// as changed. This is deliberately a timestamp heuristic, not a content
// hash: a tool that rewrites a file byte-identically but touches its mtime
// still registers as changed.
func (a *Area) Changed() ([]string, error) {
	var changed []string
	for rel, baseline := range a.baselines {
		info, err := os.Stat(a.Resolve(rel))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				changed = append(changed, rel)
				continue
			}
			return nil, err
		}
		if info.ModTime().After(baseline) {
			changed = append(changed, rel)
		}
	}
	sort.Strings(changed)
	return changed, nil
}

// Untracked walks the staging directory and returns relative paths present
// on disk that carry no baseline, sorted. These are files the external tool
// generated rather than ones the chain staged.
func (a *Area) Untracked() ([]string, error) {
	var generated []string
	err := filepath.WalkDir(a.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(a.dir, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if _, tracked := a.baselines[rel]; !tracked {
			generated = append(generated, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(generated)
	return generated, nil
}
