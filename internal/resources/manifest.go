// Package resources stages a bundled tool distribution onto disk and
// repairs the executable entry points that packaging strips. Archives
// cannot carry symlinks, so the links under node_modules/.bin are
// reconstructed from each package's manifest after extraction.
package resources

import (
	"encoding/json"
	"path"
	"sort"
)

// Manifest is the slice of a package descriptor that matters for entry-point
// repair: the package name and its declared executable mapping. Bin is
// either a single script path or a table of command name to script path.
type Manifest struct {
	// Dir is the manifest's directory relative to the distribution root,
	// e.g. "node_modules/jscodeshift".
	Dir  string
	Name string
	Bin  map[string]string
}

type rawManifest struct {
	Name string          `json:"name"`
	Bin  json.RawMessage `json:"bin"`
}

// ParseManifest decodes the entry-point mapping from package.json bytes.
// A bare string bin maps the package's own name to that script.
func ParseManifest(dir string, data []byte) (Manifest, error) {
	var raw rawManifest
	if err := json.Unmarshal(data, &raw); err != nil {
		return Manifest{}, err
	}
	m := Manifest{Dir: dir, Name: raw.Name}
	if len(raw.Bin) == 0 {
		return m, nil
	}
	var single string
	if err := json.Unmarshal(raw.Bin, &single); err == nil {
		if raw.Name != "" {
			m.Bin = map[string]string{path.Base(raw.Name): single}
		}
		return m, nil
	}
	var table map[string]string
	if err := json.Unmarshal(raw.Bin, &table); err == nil {
		m.Bin = table
	}
	// Any other shape is a malformed manifest; repair just skips it.
	return m, nil
}

// LinkOp is one entry-point link to create: Name under the .bin directory
// pointing at Script, a path relative to the distribution root.
type LinkOp struct {
	Name   string
	Script string
}

// PlanLinks turns manifests into the ordered set of link operations, one per
// declared entry point. It is a pure function: filesystem checks (does the
// script exist) happen at apply time, so planning stays independently
// testable.
func PlanLinks(manifests []Manifest) []LinkOp {
	var ops []LinkOp
	for _, m := range manifests {
		for name, script := range m.Bin {
			if name == "" || script == "" {
				continue
			}
			ops = append(ops, LinkOp{
				Name:   name,
				Script: path.Join(m.Dir, script),
			})
		}
	}
	sort.Slice(ops, func(i, j int) bool {
		if ops[i].Name != ops[j].Name {
			return ops[i].Name < ops[j].Name
		}
		return ops[i].Script < ops[j].Script
	})
	return ops
}
