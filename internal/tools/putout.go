package tools

import (
	"path/filepath"

	"stagehand/internal/config"
)

// PutoutBuilder runs putout against the staged tree: optionally disabling
// every rule and re-enabling the requested ones first, then a final fix
// pass. Each invocation is a separate pass over the same staging area.
type PutoutBuilder struct{}

func (b *PutoutBuilder) Name() string { return "putout" }

func (b *PutoutBuilder) Build(step config.Step, env BuildEnv) ([]Invocation, error) {
	executable := filepath.Join(env.NodeModules, ".bin", "putout")

	stepEnv := step.Env
	if opts := step.Putout; opts != nil && opts.ConfigFile != "" {
		path, err := writeScratchConfig(env.ScratchDir, "putout-config-*.json", opts.ConfigFile)
		if err != nil {
			return nil, err
		}
		stepEnv = make(map[string]string, len(step.Env)+1)
		for k, v := range step.Env {
			stepEnv[k] = v
		}
		stepEnv["PUTOUT_CONFIG_FILE"] = path
	}

	var invocations []Invocation
	if opts := step.Putout; opts != nil && len(opts.Rules) > 0 {
		// --disable-all exits non-zero even on success; tolerated.
		invocations = append(invocations, Invocation{
			Program:         "node",
			Args:            []string{executable, ".", "--disable-all"},
			Env:             stepEnv,
			IgnoreExitError: true,
		})
		for _, rule := range opts.Rules {
			invocations = append(invocations, Invocation{
				Program: "node",
				Args:    []string{executable, ".", "--enable", rule},
				Env:     stepEnv,
			})
		}
	}
	invocations = append(invocations, Invocation{
		Program: "node",
		Args:    []string{executable, ".", "--fix"},
		Env:     stepEnv,
	})
	return invocations, nil
}
