// Package stub renders the starter files that replace the generator's
// default demo content for each supported framework.
package stub

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/jywlabs/vitetail/internal/project"
)

//go:embed templates
var templateFS embed.FS

// Square-bracket delimiters keep Vue mustaches and JSX braces intact.
const (
	leftDelim  = "[["
	rightDelim = "]]"
)

// UnsupportedFrameworkError is returned for a framework id without stubs.
type UnsupportedFrameworkError struct {
	Framework string
}

func (e *UnsupportedFrameworkError) Error() string {
	return fmt.Sprintf("unsupported framework %q", e.Framework)
}

// File is one rendered stub, with a path relative to the project root.
type File struct {
	Path    string
	Content []byte
}

// data is what every template sees.
type data struct {
	Name       string
	TypeScript bool
	Ext        string
	JSXExt     string
}

type target struct {
	path     string
	template string
}

// Lookup resolves a variant id such as "react-ts" to a framework with stubs.
func Lookup(id string) (project.Framework, error) {
	fw, ok := project.ParseFramework(id)
	if !ok {
		return "", &UnsupportedFrameworkError{Framework: id}
	}
	return fw, nil
}

// targets lists the files each framework's writer owns.
func targets(fw project.Framework, ts bool) ([]target, error) {
	js, jsx := "js", "jsx"
	if ts {
		js, jsx = "ts", "tsx"
	}

	switch fw {
	case project.Vanilla:
		return []target{
			{path: "index.html", template: "vanilla/index.html.tmpl"},
			{path: "src/main." + js, template: "vanilla/main.js.tmpl"},
		}, nil
	case project.Vue:
		return []target{
			{path: "src/App.vue", template: "vue/App.vue.tmpl"},
		}, nil
	case project.React:
		return []target{
			{path: "src/main." + jsx, template: "react/main.jsx.tmpl"},
		}, nil
	case project.Preact:
		return []target{
			{path: "src/main." + jsx, template: "preact/main.jsx.tmpl"},
		}, nil
	case project.Lit:
		return []target{
			{path: "index.html", template: "lit/index.html.tmpl"},
			{path: "src/my-element." + js, template: "lit/my-element.js.tmpl"},
		}, nil
	case project.Solid:
		return []target{
			{path: "src/App." + jsx, template: "solid/App.jsx.tmpl"},
		}, nil
	default:
		return nil, &UnsupportedFrameworkError{Framework: string(fw)}
	}
}

// Render produces the stub files for a framework without touching disk.
// The result depends only on its inputs.
func Render(fw project.Framework, name string, ts bool) ([]File, error) {
	tgts, err := targets(fw, ts)
	if err != nil {
		return nil, err
	}

	d := data{Name: name, TypeScript: ts, Ext: "js", JSXExt: "jsx"}
	if ts {
		d.Ext, d.JSXExt = "ts", "tsx"
	}

	files := make([]File, 0, len(tgts))
	for _, t := range tgts {
		content, err := renderTemplate(t.template, d)
		if err != nil {
			return nil, err
		}
		files = append(files, File{Path: t.path, Content: content})
	}
	return files, nil
}

func renderTemplate(name string, d data) ([]byte, error) {
	raw, err := templateFS.ReadFile("templates/" + name)
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", name, err)
	}

	tmpl, err := template.New(name).Delims(leftDelim, rightDelim).Option("missingkey=error").Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, d); err != nil {
		return nil, fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// Write renders the stubs for fw and writes them under projectDir,
// replacing whatever the generator put there. It returns the relative
// paths written, in order.
func Write(projectDir string, fw project.Framework, name string, ts bool) ([]string, error) {
	files, err := Render(fw, name, ts)
	if err != nil {
		return nil, err
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(projectDir, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return written, fmt.Errorf("failed to create directory for %s: %w", f.Path, err)
		}
		if err := os.WriteFile(path, f.Content, 0644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", f.Path, err)
		}
		written = append(written, f.Path)
	}
	return written, nil
}
