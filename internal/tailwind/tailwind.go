// Package tailwind writes the Tailwind CSS configuration and stylesheet into
// a scaffolded project and points the entry script at the new stylesheet.
package tailwind

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// ConfigContent is written over the file produced by `tailwindcss init -p`.
const ConfigContent = `/** @type {import('tailwindcss').Config} */
export default {
  content: [
    './index.html',
    './src/**/*.{vue,js,ts,jsx,tsx}',
  ],
  theme: {
    extend: {},
  },
  plugins: [],
}
`

// StylesheetContent holds the three utility-layer directives.
const StylesheetContent = `@tailwind base;
@tailwind components;
@tailwind utilities;
`

// InitArgs are the arguments passed to the tailwindcss binary to generate
// tailwind.config.js and postcss.config.js.
var InitArgs = []string{"init", "-p"}

// cssImport matches a side-effect import of a relative stylesheet, with
// either quote style.
var cssImport = regexp.MustCompile(`(import\s+)(['"])\.\.?/[^'"\n]+\.css(['"])`)

// RewriteImport points every relative stylesheet import in src at target,
// e.g. "./style.css". It reports whether anything changed.
func RewriteImport(src []byte, target string) ([]byte, bool) {
	if !cssImport.Match(src) {
		return src, false
	}
	out := cssImport.ReplaceAllFunc(src, func(m []byte) []byte {
		sub := cssImport.FindSubmatch(m)
		repl := append([]byte{}, sub[1]...)
		repl = append(repl, sub[2]...)
		repl = append(repl, target...)
		return append(repl, sub[3]...)
	})
	return out, !bytes.Equal(out, src)
}

// ImportPath returns how a script at entry refers to stylesheet. Both are
// project-relative slash paths.
func ImportPath(entry, stylesheet string) string {
	rel, err := filepath.Rel(path.Dir(entry), stylesheet)
	if err != nil {
		return "./" + path.Base(stylesheet)
	}
	rel = filepath.ToSlash(rel)
	if strings.HasPrefix(rel, "../") {
		return rel
	}
	return "./" + rel
}

// Files names the project-relative paths the CSS phase overwrites.
type Files struct {
	Config     string
	Stylesheet string
}

// WriteConfig overwrites the config file and stylesheet under projectDir.
func WriteConfig(projectDir string, files Files) error {
	if err := writeFile(projectDir, files.Config, ConfigContent); err != nil {
		return err
	}
	return writeFile(projectDir, files.Stylesheet, StylesheetContent)
}

// PatchEntry rewrites the stylesheet import in the entry script when the
// script exists. A missing entry script is not an error; it returns false.
func PatchEntry(projectDir, entry, stylesheet string) (bool, error) {
	if entry == "" {
		return false, nil
	}

	full := filepath.Join(projectDir, filepath.FromSlash(entry))
	src, err := os.ReadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", entry, err)
	}

	out, changed := RewriteImport(src, ImportPath(entry, stylesheet))
	if !changed {
		return false, nil
	}

	info, err := os.Stat(full)
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", entry, err)
	}
	if err := os.WriteFile(full, out, info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", entry, err)
	}
	return true, nil
}

func writeFile(projectDir, rel, content string) error {
	full := filepath.Join(projectDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", rel, err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", rel, err)
	}
	return nil
}
