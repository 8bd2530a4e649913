package scaffold

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/jywlabs/vitetail/internal/config"
	"github.com/jywlabs/vitetail/internal/executor"
	"github.com/jywlabs/vitetail/internal/project"
	"github.com/jywlabs/vitetail/internal/tailwind"
)

// fakeRunner records every command and simulates generator output.
type fakeRunner struct {
	calls  []executor.Command
	failOn string // fail the first command whose line contains this
	onRun  func(cmd executor.Command) error
}

func (f *fakeRunner) Run(ctx context.Context, cmd executor.Command) (executor.Result, error) {
	f.calls = append(f.calls, cmd)
	if f.failOn != "" && strings.Contains(cmd.String(), f.failOn) {
		return executor.Result{}, &executor.CommandError{
			Command:  cmd.String(),
			Dir:      cmd.Dir,
			ExitCode: 1,
			Stderr:   "npm ERR! boom",
		}
	}
	if f.onRun != nil {
		if err := f.onRun(cmd); err != nil {
			return executor.Result{}, err
		}
	}
	return executor.Result{Stdout: "ok"}, nil
}

func (f *fakeRunner) lines() []string {
	lines := make([]string, len(f.calls))
	for i, c := range f.calls {
		lines[i] = c.String()
	}
	return lines
}

// fakeReporter records phase events as "start:phase" style strings.
type fakeReporter struct {
	events   []string
	warnings []string
}

func (r *fakeReporter) PhaseStarted(p Phase)  { r.events = append(r.events, "start:"+string(p)) }
func (r *fakeReporter) PhaseFinished(p Phase) { r.events = append(r.events, "finish:"+string(p)) }
func (r *fakeReporter) PhaseFailed(p Phase, err error) {
	r.events = append(r.events, "fail:"+string(p))
}
func (r *fakeReporter) Warn(msg string) { r.warnings = append(r.warnings, msg) }

// generator mimics create-vite and tailwindcss init by writing the files
// they would produce.
func generator(base string, files map[string]string) func(executor.Command) error {
	return func(cmd executor.Command) error {
		line := cmd.String()
		switch {
		case strings.Contains(line, " create "):
			dir := filepath.Join(base, cmd.Args[3])
			for rel, content := range files {
				path := filepath.Join(dir, filepath.FromSlash(rel))
				if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
					return err
				}
				if err := os.WriteFile(path, []byte(content), 0644); err != nil {
					return err
				}
			}
		case strings.Contains(line, "tailwindcss init"):
			if err := os.WriteFile(filepath.Join(cmd.Dir, "tailwind.config.js"), []byte("content: []"), 0644); err != nil {
				return err
			}
			return os.WriteFile(filepath.Join(cmd.Dir, "postcss.config.js"), []byte("export default {}"), 0644)
		}
		return nil
	}
}

func newTestPipeline(t *testing.T, cfg config.Config, runner executor.Runner, reporter Reporter, dir string) *Pipeline {
	t.Helper()
	p, err := NewPipeline(&cfg, runner, reporter, dir)
	if err != nil {
		t.Fatalf("NewPipeline() error: %v", err)
	}
	return p
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

func TestMaterialize_VanillaNoCSS(t *testing.T) {
	base := t.TempDir()
	runner := &fakeRunner{onRun: generator(base, map[string]string{
		"index.html":   "generated",
		"src/main.js":  "generated",
		"package.json": "{}",
	})}
	reporter := &fakeReporter{}
	p := newTestPipeline(t, config.Default(), runner, reporter, base)

	req := project.Request{Name: "demo", Framework: project.Vanilla}
	out, err := p.Materialize(context.Background(), req)
	if err != nil {
		t.Fatalf("Materialize() error: %v", err)
	}

	wantCalls := []string{
		"npm create vite@latest demo -- --template vanilla",
		"npm install",
	}
	if !reflect.DeepEqual(runner.lines(), wantCalls) {
		t.Errorf("calls = %q, want %q", runner.lines(), wantCalls)
	}
	projectDir := filepath.Join(base, "demo")
	if runner.calls[0].Dir != base {
		t.Errorf("scaffold ran in %s, want %s", runner.calls[0].Dir, base)
	}
	if runner.calls[1].Dir != projectDir {
		t.Errorf("install ran in %s, want %s", runner.calls[1].Dir, projectDir)
	}

	wantPhases := []Phase{PhaseDirectoryCheck, PhaseScaffold, PhaseInstallDeps, PhaseWriteStubs, PhaseDone}
	if !reflect.DeepEqual(out.Phases, wantPhases) {
		t.Errorf("phases = %v, want %v", out.Phases, wantPhases)
	}
	if !reflect.DeepEqual(out.StubFiles, []string{"index.html", "src/main.js"}) {
		t.Errorf("stub files = %v", out.StubFiles)
	}
	if !strings.Contains(readFile(t, filepath.Join(projectDir, "src", "main.js")), "count is") {
		t.Error("main.js has no counter")
	}
	if _, err := os.Stat(filepath.Join(projectDir, "tailwind.config.js")); !os.IsNotExist(err) {
		t.Error("CSS phase should not have run")
	}
	if len(reporter.warnings) != 0 {
		t.Errorf("unexpected warnings: %v", reporter.warnings)
	}
}

func TestMaterialize_ReactTypeScriptWithCSS(t *testing.T) {
	base := t.TempDir()
	runner := &fakeRunner{onRun: generator(base, map[string]string{
		"index.html":    "generated",
		"src/main.tsx":  "import './index.css'\n",
		"src/index.css": ":root {}",
		"package.json":  "{}",
	})}
	p := newTestPipeline(t, config.Default(), runner, &fakeReporter{}, base)

	req := project.Request{Name: "demo", Framework: project.React, TypeScript: true, CSSFramework: true}
	out, err := p.Materialize(context.Background(), req)
	if err != nil {
		t.Fatalf("Materialize() error: %v", err)
	}

	wantCalls := []string{
		"npm create vite@latest demo -- --template react-ts",
		"npm install",
		"npm install -D tailwindcss@3 postcss@latest autoprefixer@latest",
		"npx tailwindcss init -p",
	}
	if !reflect.DeepEqual(runner.lines(), wantCalls) {
		t.Errorf("calls = %q, want %q", runner.lines(), wantCalls)
	}

	wantPhases := []Phase{PhaseDirectoryCheck, PhaseScaffold, PhaseInstallDeps, PhaseWriteStubs, PhaseInstallCSS, PhaseDone}
	if !reflect.DeepEqual(out.Phases, wantPhases) {
		t.Errorf("phases = %v, want %v", out.Phases, wantPhases)
	}

	projectDir := filepath.Join(base, "demo")
	main := readFile(t, filepath.Join(projectDir, "src", "main.tsx"))
	if !strings.Contains(main, "import './style.css'") {
		t.Errorf("main.tsx does not import the new stylesheet:\n%s", main)
	}
	if strings.Contains(main, "index.css") {
		t.Error("main.tsx still imports index.css")
	}
	if got := readFile(t, filepath.Join(projectDir, "tailwind.config.js")); got != tailwind.ConfigContent {
		t.Errorf("tailwind.config.js = %q", got)
	}
	if got := readFile(t, filepath.Join(projectDir, "src", "style.css")); got != tailwind.StylesheetContent {
		t.Errorf("style.css = %q", got)
	}
}

func TestMaterialize_DirectoryNotEmpty(t *testing.T) {
	base := t.TempDir()
	if err := os.MkdirAll(filepath.Join(base, "demo"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(base, "demo", "notes.txt"), []byte("keep"), 0644); err != nil {
		t.Fatal(err)
	}

	runner := &fakeRunner{}
	reporter := &fakeReporter{}
	p := newTestPipeline(t, config.Default(), runner, reporter, base)

	out, err := p.Materialize(context.Background(), project.Request{Name: "demo", Framework: project.Vue})

	var notEmpty *DirectoryNotEmptyError
	if !errors.As(err, &notEmpty) {
		t.Fatalf("error = %v, want DirectoryNotEmptyError", err)
	}
	var phaseErr *PhaseError
	if !errors.As(err, &phaseErr) || phaseErr.Phase != PhaseDirectoryCheck {
		t.Errorf("error = %v, want PhaseError in directory-check", err)
	}
	if len(runner.calls) != 0 {
		t.Errorf("no command should run, got %q", runner.lines())
	}
	if !reflect.DeepEqual(out.Phases, []Phase{PhaseDirectoryCheck, PhaseFailed}) {
		t.Errorf("phases = %v", out.Phases)
	}
	if !reflect.DeepEqual(reporter.events, []string{"start:directory-check", "fail:directory-check"}) {
		t.Errorf("events = %v", reporter.events)
	}
}

func TestMaterialize_FailureHaltsLaterPhases(t *testing.T) {
	tests := []struct {
		name       string
		failOn     string
		css        bool
		wantCalls  int
		wantPhase  Phase
		stubsExist bool
	}{
		{name: "scaffold", failOn: "create", wantCalls: 1, wantPhase: PhaseScaffold},
		{name: "install", failOn: "npm install", wantCalls: 2, wantPhase: PhaseInstallDeps},
		{name: "css install", failOn: "install -D", css: true, wantCalls: 3, wantPhase: PhaseInstallCSS, stubsExist: true},
		{name: "css init", failOn: "tailwindcss init", css: true, wantCalls: 4, wantPhase: PhaseInstallCSS, stubsExist: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := t.TempDir()
			runner := &fakeRunner{failOn: tt.failOn}
			reporter := &fakeReporter{}
			p := newTestPipeline(t, config.Default(), runner, reporter, base)

			req := project.Request{Name: "demo", Framework: project.Vanilla, CSSFramework: tt.css}
			out, err := p.Materialize(context.Background(), req)

			var cmdErr *executor.CommandError
			if !errors.As(err, &cmdErr) {
				t.Fatalf("error = %v, want CommandError", err)
			}
			if cmdErr.ExitCode != 1 || cmdErr.Stderr == "" {
				t.Errorf("CommandError = %+v", cmdErr)
			}
			var phaseErr *PhaseError
			if !errors.As(err, &phaseErr) || phaseErr.Phase != tt.wantPhase {
				t.Errorf("failed phase = %v, want %s", err, tt.wantPhase)
			}
			if len(runner.calls) != tt.wantCalls {
				t.Errorf("calls = %q, want %d", runner.lines(), tt.wantCalls)
			}
			if last := out.Phases[len(out.Phases)-1]; last != PhaseFailed {
				t.Errorf("last phase = %s, want failed", last)
			}
			if last := reporter.events[len(reporter.events)-1]; last != "fail:"+string(tt.wantPhase) {
				t.Errorf("last event = %s", last)
			}

			_, statErr := os.Stat(filepath.Join(base, "demo", "src", "main.js"))
			if tt.stubsExist != (statErr == nil) {
				t.Errorf("stub exists = %v, want %v", statErr == nil, tt.stubsExist)
			}
		})
	}
}

func TestMaterialize_FileWriteFailureHalts(t *testing.T) {
	tests := []struct {
		name       string
		css        bool
		afterLine  string // command after which blocker becomes a directory
		blocker    string
		wantPhase  Phase
		wantCalls  []string
		wantPhases []Phase
	}{
		{
			name:       "stub",
			afterLine:  " create ",
			blocker:    "src/main.js",
			wantPhase:  PhaseWriteStubs,
			wantCalls:  []string{"npm create vite@latest demo -- --template vanilla", "npm install"},
			wantPhases: []Phase{PhaseDirectoryCheck, PhaseScaffold, PhaseInstallDeps, PhaseWriteStubs, PhaseFailed},
		},
		{
			name:      "css config",
			css:       true,
			afterLine: "tailwindcss init",
			blocker:   "tailwind.config.js",
			wantPhase: PhaseInstallCSS,
			wantCalls: []string{
				"npm create vite@latest demo -- --template vanilla",
				"npm install",
				"npm install -D tailwindcss@3 postcss@latest autoprefixer@latest",
				"npx tailwindcss init -p",
			},
			wantPhases: []Phase{PhaseDirectoryCheck, PhaseScaffold, PhaseInstallDeps, PhaseWriteStubs, PhaseInstallCSS, PhaseFailed},
		},
		{
			name:      "stylesheet",
			css:       true,
			afterLine: " create ",
			blocker:   "src/style.css",
			wantPhase: PhaseInstallCSS,
			wantCalls: []string{
				"npm create vite@latest demo -- --template vanilla",
				"npm install",
				"npm install -D tailwindcss@3 postcss@latest autoprefixer@latest",
				"npx tailwindcss init -p",
			},
			wantPhases: []Phase{PhaseDirectoryCheck, PhaseScaffold, PhaseInstallDeps, PhaseWriteStubs, PhaseInstallCSS, PhaseFailed},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := t.TempDir()
			projectDir := filepath.Join(base, "demo")
			gen := generator(base, map[string]string{"package.json": "{}"})
			runner := &fakeRunner{onRun: func(cmd executor.Command) error {
				if err := gen(cmd); err != nil {
					return err
				}
				if strings.Contains(cmd.String(), tt.afterLine) {
					target := filepath.Join(projectDir, filepath.FromSlash(tt.blocker))
					if err := os.RemoveAll(target); err != nil {
						return err
					}
					return os.MkdirAll(target, 0755)
				}
				return nil
			}}
			p := newTestPipeline(t, config.Default(), runner, &fakeReporter{}, base)

			req := project.Request{Name: "demo", Framework: project.Vanilla, CSSFramework: tt.css}
			out, err := p.Materialize(context.Background(), req)

			var phaseErr *PhaseError
			if !errors.As(err, &phaseErr) || phaseErr.Phase != tt.wantPhase {
				t.Fatalf("error = %v, want failure in %s", err, tt.wantPhase)
			}
			var cmdErr *executor.CommandError
			if errors.As(err, &cmdErr) {
				t.Errorf("local write failure reported as command error: %v", err)
			}
			if got := runner.lines(); !reflect.DeepEqual(got, tt.wantCalls) {
				t.Errorf("calls = %q, want %q", got, tt.wantCalls)
			}
			if !reflect.DeepEqual(out.Phases, tt.wantPhases) {
				t.Errorf("phases = %v, want %v", out.Phases, tt.wantPhases)
			}
		})
	}
}

func TestMaterialize_UnknownFrameworkWarns(t *testing.T) {
	base := t.TempDir()
	runner := &fakeRunner{}
	reporter := &fakeReporter{}
	p := newTestPipeline(t, config.Default(), runner, reporter, base)

	req := project.Request{Name: "demo", Framework: project.Framework("svelte"), CSSFramework: true}
	out, err := p.Materialize(context.Background(), req)
	if err != nil {
		t.Fatalf("Materialize() error: %v", err)
	}

	if runner.calls[0].String() != "npm create vite@latest demo -- --template svelte" {
		t.Errorf("scaffold call = %q", runner.calls[0])
	}
	if len(out.Warnings) != 1 || len(reporter.warnings) != 1 {
		t.Fatalf("warnings = %v", out.Warnings)
	}
	if !strings.Contains(out.Warnings[0], "svelte") {
		t.Errorf("warning = %q", out.Warnings[0])
	}
	if len(out.StubFiles) != 0 {
		t.Errorf("no stubs expected, got %v", out.StubFiles)
	}
	if out.Phases[len(out.Phases)-1] != PhaseDone {
		t.Errorf("phases = %v", out.Phases)
	}
}

func TestMaterialize_LinterAndGit(t *testing.T) {
	base := t.TempDir()
	runner := &fakeRunner{onRun: generator(base, map[string]string{
		"package.json": "{}",
		".gitignore":   "node_modules\n",
	})}
	cfg := config.Default()
	cfg.PackageManager = "pnpm"
	cfg.Linter.Configure = true
	cfg.Git.Init = true
	p := newTestPipeline(t, cfg, runner, &fakeReporter{}, base)

	req := project.Request{Name: "demo", Framework: project.Solid, TypeScript: true, Linter: project.Prettier}
	out, err := p.Materialize(context.Background(), req)
	if err != nil {
		t.Fatalf("Materialize() error: %v", err)
	}

	wantCalls := []string{
		"pnpm create vite@latest demo --template solid-ts",
		"pnpm install",
		"pnpm add -D --save-exact prettier",
	}
	if !reflect.DeepEqual(runner.lines(), wantCalls) {
		t.Errorf("calls = %q, want %q", runner.lines(), wantCalls)
	}
	wantPhases := []Phase{PhaseDirectoryCheck, PhaseScaffold, PhaseInstallDeps, PhaseWriteStubs, PhaseLinter, PhaseInitGit, PhaseDone}
	if !reflect.DeepEqual(out.Phases, wantPhases) {
		t.Errorf("phases = %v, want %v", out.Phases, wantPhases)
	}
	if got := readFile(t, filepath.Join(base, "demo", ".prettierrc")); got != "{}\n" {
		t.Errorf(".prettierrc = %q", got)
	}
	if out.CommitHash == "" {
		t.Error("expected an initial commit")
	}
}

func TestMaterialize_LinterSkippedWhenNone(t *testing.T) {
	base := t.TempDir()
	runner := &fakeRunner{}
	cfg := config.Default()
	cfg.Linter.Configure = true
	p := newTestPipeline(t, cfg, runner, nil, base)

	req := project.Request{Name: "demo", Framework: project.Lit, Linter: project.LinterNone}
	out, err := p.Materialize(context.Background(), req)
	if err != nil {
		t.Fatalf("Materialize() error: %v", err)
	}
	for _, ph := range out.Phases {
		if ph == PhaseLinter {
			t.Error("linter phase should be skipped for none")
		}
	}
	if len(runner.calls) != 2 {
		t.Errorf("calls = %q", runner.lines())
	}
}

func TestMaterialize_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := &fakeRunner{}
	p := newTestPipeline(t, config.Default(), runner, nil, t.TempDir())

	_, err := p.Materialize(ctx, project.Request{Name: "demo", Framework: project.React})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if len(runner.calls) != 0 {
		t.Errorf("calls = %q", runner.lines())
	}
}

func TestNewPipeline_UnknownPackageManager(t *testing.T) {
	cfg := config.Default()
	cfg.PackageManager = "cargo"
	if _, err := NewPipeline(&cfg, &fakeRunner{}, nil, t.TempDir()); err == nil {
		t.Error("expected error for unknown package manager")
	}
}
