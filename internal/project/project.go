package project

import "strings"

// DefaultName is used when the user leaves the project name empty.
const DefaultName = "my-vite-project"

// TypeScriptSuffix marks the typed variant of a generator template.
const TypeScriptSuffix = "-ts"

// Framework identifies a front-end framework template.
type Framework string

const (
	Vanilla Framework = "vanilla"
	Vue     Framework = "vue"
	React   Framework = "react"
	Preact  Framework = "preact"
	Lit     Framework = "lit"
	Solid   Framework = "solid"
)

// Frameworks lists the selectable frameworks in prompt order.
var Frameworks = []Framework{Vanilla, Vue, React, Preact, Lit, Solid}

// Label returns the display name for the framework.
func (f Framework) Label() string {
	switch f {
	case Vanilla:
		return "Vanilla"
	case Vue:
		return "Vue"
	case React:
		return "React"
	case Preact:
		return "Preact"
	case Lit:
		return "Lit"
	case Solid:
		return "Solid"
	default:
		return string(f)
	}
}

// EntryScript returns the project-relative path of the script that imports
// the main stylesheet. Unknown frameworks return an empty string.
func (f Framework) EntryScript(typescript bool) string {
	js, jsx := ".js", ".jsx"
	if typescript {
		js, jsx = ".ts", ".tsx"
	}

	switch f {
	case Vanilla, Vue:
		return "src/main" + js
	case React, Preact:
		return "src/main" + jsx
	case Lit:
		return "src/my-element" + js
	case Solid:
		return "src/index" + jsx
	default:
		return ""
	}
}

// ParseFramework resolves a variant id such as "react-ts". A trailing "-ts"
// is stripped and the rest must match a framework exactly.
func ParseFramework(id string) (Framework, bool) {
	base := strings.TrimSuffix(id, TypeScriptSuffix)
	for _, f := range Frameworks {
		if string(f) == base {
			return f, true
		}
	}
	return "", false
}

// Linter identifies the linter the user picked.
type Linter string

const (
	ESLint     Linter = "eslint"
	Prettier   Linter = "prettier"
	LinterNone Linter = "none"
)

// Linters lists the selectable linters in prompt order.
var Linters = []Linter{ESLint, Prettier, LinterNone}

// Label returns the display name for the linter.
func (l Linter) Label() string {
	switch l {
	case ESLint:
		return "ESLint"
	case Prettier:
		return "Prettier"
	case LinterNone, "":
		return "None"
	default:
		return string(l)
	}
}

// Request is the set of answers collected for one run.
type Request struct {
	Name         string
	Framework    Framework
	TypeScript   bool
	Linter       Linter // empty when the question was skipped
	CSSFramework bool
}

// Variant returns the generator template identifier: the framework name,
// suffixed with "-ts" when TypeScript was requested.
func (r Request) Variant() string {
	if r.TypeScript {
		return string(r.Framework) + TypeScriptSuffix
	}
	return string(r.Framework)
}

// WantsLinter reports whether a linter other than none was chosen.
func (r Request) WantsLinter() bool {
	return r.Linter != "" && r.Linter != LinterNone
}
