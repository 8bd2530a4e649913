// Package linter describes how each supported linter is added to a project.
package linter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jywlabs/vitetail/internal/project"
)

// ESLintConfig is the flat config written for eslint.
const ESLintConfig = `import js from '@eslint/js'
import globals from 'globals'

export default [
  { ignores: ['dist'] },
  js.configs.recommended,
  {
    files: ['**/*.{js,jsx,ts,tsx}'],
    languageOptions: {
      ecmaVersion: 'latest',
      sourceType: 'module',
      globals: globals.browser,
    },
  },
]
`

// PrettierConfig selects prettier's defaults.
const PrettierConfig = "{}\n"

// Setup is the install and config file for one linter.
type Setup struct {
	Packages   []string
	Exact      bool
	ConfigFile string
	Config     string
}

// For returns the setup for l. ok is false for none and unknown linters.
func For(l project.Linter) (Setup, bool) {
	switch l {
	case project.ESLint:
		return Setup{
			Packages:   []string{"eslint", "@eslint/js", "globals"},
			ConfigFile: "eslint.config.js",
			Config:     ESLintConfig,
		}, true
	case project.Prettier:
		return Setup{
			Packages:   []string{"prettier"},
			Exact:      true,
			ConfigFile: ".prettierrc",
			Config:     PrettierConfig,
		}, true
	default:
		return Setup{}, false
	}
}

// WriteConfig writes the setup's config file into projectDir.
func (s Setup) WriteConfig(projectDir string) error {
	path := filepath.Join(projectDir, s.ConfigFile)
	if err := os.WriteFile(path, []byte(s.Config), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.ConfigFile, err)
	}
	return nil
}
