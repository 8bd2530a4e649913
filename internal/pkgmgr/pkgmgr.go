// Package pkgmgr builds command lines for the supported JavaScript package
// managers.
package pkgmgr

import (
	"fmt"
	"strings"
)

// Manager identifies a package manager executable.
type Manager string

const (
	NPM  Manager = "npm"
	PNPM Manager = "pnpm"
	Yarn Manager = "yarn"
	Bun  Manager = "bun"
)

// Supported lists the managers vitetail knows how to drive.
var Supported = []Manager{NPM, PNPM, Yarn, Bun}

// Parse resolves a manager name.
func Parse(name string) (Manager, error) {
	m := Manager(strings.ToLower(strings.TrimSpace(name)))
	for _, s := range Supported {
		if m == s {
			return m, nil
		}
	}
	names := make([]string, len(Supported))
	for i, s := range Supported {
		names[i] = string(s)
	}
	return "", fmt.Errorf("unsupported package manager: %q (supported: %s)", name, strings.Join(names, ", "))
}

// Create returns the argv that runs the create-<generator> package to
// scaffold project from template.
func (m Manager) Create(generator, version, project, template string) []string {
	spec := generator
	if version != "" {
		spec += "@" + version
	}

	args := []string{string(m), "create", spec, project}
	if m == NPM {
		// npm swallows flags meant for the initializer without the separator.
		args = append(args, "--")
	}
	return append(args, "--template", template)
}

// Install returns the argv that installs the project's dependencies.
func (m Manager) Install() []string {
	return []string{string(m), "install"}
}

// AddDev returns the argv that installs packages as dev dependencies. Exact
// pins the resolved version instead of a range.
func (m Manager) AddDev(exact bool, packages ...string) []string {
	var args []string
	switch m {
	case NPM:
		args = []string{"npm", "install", "-D"}
		if exact {
			args = append(args, "--save-exact")
		}
	case PNPM:
		args = []string{"pnpm", "add", "-D"}
		if exact {
			args = append(args, "--save-exact")
		}
	case Yarn:
		args = []string{"yarn", "add", "-D"}
		if exact {
			args = append(args, "--exact")
		}
	case Bun:
		args = []string{"bun", "add", "-d"}
		if exact {
			args = append(args, "--exact")
		}
	}
	return append(args, packages...)
}

// Exec returns the argv that runs a binary installed in the project.
func (m Manager) Exec(bin string, binArgs ...string) []string {
	var args []string
	switch m {
	case NPM:
		args = []string{"npx", bin}
	case PNPM:
		args = []string{"pnpm", "exec", bin}
	case Yarn:
		args = []string{"yarn", bin}
	case Bun:
		args = []string{"bunx", bin}
	}
	return append(args, binArgs...)
}
