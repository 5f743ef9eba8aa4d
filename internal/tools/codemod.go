package tools

import (
	"path/filepath"

	"stagehand/internal/config"
)

// defaultCodemodTemplate runs a package's transform through jscodeshift
// against the staging directory (the process working directory, hence ".").
const defaultCodemodTemplate = "${nodeModules}/.bin/jscodeshift -t ${nodeModules}/${npmPackage}/transforms/${transform} ${repoDir} ${codemodArgs}"

// CodemodBuilder applies an npm-packaged codemod via jscodeshift.
type CodemodBuilder struct{}

func (b *CodemodBuilder) Name() string { return "codemod" }

func (b *CodemodBuilder) Build(step config.Step, env BuildEnv) ([]Invocation, error) {
	template := step.Template
	if template == "" {
		template = defaultCodemodTemplate
	}
	args, err := ResolveTemplate(template, Placeholders{
		NodeModules: env.NodeModules,
		Package:     step.Package,
		Transform:   step.Transform,
		RepoDir:     ".",
		Parser:      env.Parser,
	}, step.Args)
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return nil, nil
	}
	// The entry-point script runs under node explicitly; repaired symlinks
	// are not relied on for execute permission.
	return []Invocation{{
		Program: "node",
		Args:    args,
		Env:     step.Env,
	}}, nil
}

// driverPath locates a driver script bundled with the distribution.
func driverPath(toolkitRoot, name string) string {
	return filepath.Join(toolkitRoot, "config", name)
}
