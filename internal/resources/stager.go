package resources

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"stagehand/internal/logging"
)

// Stage makes the tool distribution at source available under cacheDir and
// returns the published root. Extraction is complete-then-publish: the
// distribution is unpacked into a uniquely named temporary directory and
// only renamed into place once whole, so concurrent runs sharing a cache
// never observe a half-extracted toolkit. An already-published root is
// reused as-is. Entry-point repair runs once, on the freshly extracted copy.
func Stage(source, cacheDir string) (string, error) {
	target := filepath.Join(cacheDir, publishName(source))
	if _, err := os.Stat(target); err == nil {
		logging.Resources("reusing extracted toolkit at %s", target)
		return target, nil
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("create toolkit cache: %w", err)
	}

	tmp := filepath.Join(cacheDir, ".extract-"+uuid.NewString())
	if err := extract(source, tmp); err != nil {
		os.RemoveAll(tmp)
		return "", err
	}
	if err := RepairEntryPoints(tmp); err != nil {
		// Repair is best effort; a distribution without a .bin dir is usable
		// for tools addressed by script path.
		logging.ResourcesWarn("entry-point repair: %v", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.RemoveAll(tmp)
		// A concurrent run may have published first; that copy is equivalent.
		if _, statErr := os.Stat(target); statErr == nil {
			return target, nil
		}
		return "", fmt.Errorf("publish toolkit: %w", err)
	}
	logging.Resources("extracted toolkit %s -> %s", source, target)
	return target, nil
}

func publishName(source string) string {
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func extract(source, dest string) error {
	info, err := os.Stat(source)
	if err != nil {
		return fmt.Errorf("toolkit source: %w", err)
	}
	if info.IsDir() {
		return copyTree(source, dest)
	}
	if strings.EqualFold(filepath.Ext(source), ".zip") {
		return unzip(source, dest)
	}
	return fmt.Errorf("toolkit source %s: unsupported format", source)
}

func copyTree(src, dest string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(src, path)
		if relErr != nil {
			return relErr
		}
		target := filepath.Join(dest, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		info, infoErr := d.Info()
		if infoErr != nil {
			return infoErr
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return readErr
		}
		return os.WriteFile(target, data, info.Mode().Perm())
	})
}

func unzip(archive, dest string) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return fmt.Errorf("open toolkit archive: %w", err)
	}
	defer r.Close()
	for _, f := range r.File {
		target, err := safeJoin(dest, f.Name)
		if err != nil {
			return err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := extractZipFile(f, target); err != nil {
			return err
		}
	}
	return nil
}

func extractZipFile(f *zip.File, target string) error {
	in, err := f.Open()
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, f.Mode().Perm()|0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func safeJoin(dest, name string) (string, error) {
	target := filepath.Join(dest, filepath.FromSlash(name))
	if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry escapes destination: %s", name)
	}
	return target, nil
}

// RepairEntryPoints reconstructs node_modules/.bin links from package
// manifests. Every failure on an individual mapping is skipped, never
// fatal: a distribution with one broken package should still serve the
// tools that work.
func RepairEntryPoints(root string) error {
	modules := filepath.Join(root, "node_modules")
	if _, err := os.Stat(modules); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	manifests, err := collectManifests(root, modules)
	if err != nil {
		return err
	}
	ops := PlanLinks(manifests)
	if len(ops) == 0 {
		return nil
	}

	binDir := filepath.Join(modules, ".bin")
	// Stale regular files shipped in place of the links are cleared first.
	if entries, err := os.ReadDir(binDir); err == nil {
		for _, e := range entries {
			os.Remove(filepath.Join(binDir, e.Name()))
		}
	}
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return err
	}

	repaired := 0
	for _, op := range ops {
		script := filepath.Join(root, filepath.FromSlash(op.Script))
		if _, err := os.Stat(script); err != nil {
			logging.ResourcesWarn("entry point %s: script %s missing, skipped", op.Name, op.Script)
			continue
		}
		if err := os.Chmod(script, 0o755); err != nil {
			logging.ResourcesWarn("entry point %s: chmod: %v", op.Name, err)
		}
		rel, err := filepath.Rel(binDir, script)
		if err != nil {
			continue
		}
		link := filepath.Join(binDir, op.Name)
		os.Remove(link)
		if err := os.Symlink(rel, link); err != nil {
			logging.ResourcesWarn("entry point %s: %v", op.Name, err)
			continue
		}
		repaired++
	}
	logging.Resources("repaired %d/%d entry points under %s", repaired, len(ops), binDir)
	return nil
}

// collectManifests reads package.json files directly under node_modules and
// one level deeper for scoped packages.
func collectManifests(root, modules string) ([]Manifest, error) {
	var manifests []Manifest
	entries, err := os.ReadDir(modules)
	if err != nil {
		return nil, err
	}
	appendManifest := func(pkgDir string) {
		data, err := os.ReadFile(filepath.Join(pkgDir, "package.json"))
		if err != nil {
			return
		}
		rel, err := filepath.Rel(root, pkgDir)
		if err != nil {
			return
		}
		m, err := ParseManifest(filepath.ToSlash(rel), data)
		if err != nil {
			logging.ResourcesWarn("manifest %s: %v", rel, err)
			return
		}
		manifests = append(manifests, m)
	}
	for _, e := range entries {
		if !e.IsDir() || e.Name() == ".bin" {
			continue
		}
		dir := filepath.Join(modules, e.Name())
		if strings.HasPrefix(e.Name(), "@") {
			scoped, err := os.ReadDir(dir)
			if err != nil {
				continue
			}
			for _, s := range scoped {
				if s.IsDir() {
					appendManifest(filepath.Join(dir, s.Name()))
				}
			}
			continue
		}
		appendManifest(dir)
	}
	return manifests, nil
}
