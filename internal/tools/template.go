package tools

import (
	"fmt"
	"regexp"
	"strings"

	"stagehand/internal/config"
)

// Placeholders are the substitution values for a command template.
type Placeholders struct {
	NodeModules string
	Package     string
	Transform   string
	RepoDir     string
	Parser      string
}

var placeholderPattern = regexp.MustCompile(`\$\{[^}]*\}`)

// ResolveTemplate substitutes placeholders into a whitespace-separated
// command template and returns the argument list. ${codemodArgs} expands to
// the extra arguments in place, keeping any prefix or suffix glued to the
// token. Any placeholder left after substitution is a configuration error.
//
// Splitting happens before substitution, so a substituted value containing
// spaces stays one argument — but an argument with spaces cannot be written
// into the template text itself. Steps needing that should rely on the
// typed builders instead of a template override.
func ResolveTemplate(template string, ph Placeholders, extraArgs []string) ([]string, error) {
	var args []string
	for _, part := range strings.Fields(template) {
		part = ph.substitute(part)
		if idx := strings.Index(part, "${codemodArgs}"); idx != -1 {
			if prefix := part[:idx]; prefix != "" {
				args = append(args, prefix)
			}
			for _, arg := range extraArgs {
				args = append(args, strings.ReplaceAll(arg, "${repoDir}", ph.RepoDir))
			}
			if suffix := part[idx+len("${codemodArgs}"):]; suffix != "" {
				args = append(args, suffix)
			}
			continue
		}
		if leftover := placeholderPattern.FindString(part); leftover != "" {
			return nil, fmt.Errorf("%w: %s", config.ErrUnresolvedPlaceholder, leftover)
		}
		args = append(args, part)
	}
	return args, nil
}

func (ph Placeholders) substitute(part string) string {
	part = strings.ReplaceAll(part, "${nodeModules}", ph.NodeModules)
	part = strings.ReplaceAll(part, "${npmPackage}", ph.Package)
	part = strings.ReplaceAll(part, "${transform}", ph.Transform)
	part = strings.ReplaceAll(part, "${repoDir}", ph.RepoDir)
	part = strings.ReplaceAll(part, "${parser}", ph.Parser)
	return part
}
