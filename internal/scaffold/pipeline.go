// Package scaffold turns a collected project request into a populated
// project directory by running an ordered, fail-fast sequence of phases.
package scaffold

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jywlabs/vitetail/internal/config"
	"github.com/jywlabs/vitetail/internal/executor"
	"github.com/jywlabs/vitetail/internal/git"
	"github.com/jywlabs/vitetail/internal/linter"
	"github.com/jywlabs/vitetail/internal/logging"
	"github.com/jywlabs/vitetail/internal/pkgmgr"
	"github.com/jywlabs/vitetail/internal/project"
	"github.com/jywlabs/vitetail/internal/stub"
	"github.com/jywlabs/vitetail/internal/tailwind"
)

// Reporter is notified at every phase boundary.
type Reporter interface {
	PhaseStarted(phase Phase)
	PhaseFinished(phase Phase)
	PhaseFailed(phase Phase, err error)
	Warn(msg string)
}

// Outcome describes what a run did, including when it failed part way.
type Outcome struct {
	ProjectDir string
	Phases     []Phase  // phases entered, in order, ending in done or failed
	StubFiles  []string // project-relative paths written by the stub writer
	Warnings   []string
	CommitHash string
}

// Pipeline orchestrates project materialization.
type Pipeline struct {
	config   *config.Config
	runner   executor.Runner
	reporter Reporter
	pm       pkgmgr.Manager
	dir      string
}

// NewPipeline creates a pipeline that creates projects under dir.
func NewPipeline(cfg *config.Config, runner executor.Runner, reporter Reporter, dir string) (*Pipeline, error) {
	pm, err := pkgmgr.Parse(cfg.PackageManager)
	if err != nil {
		return nil, err
	}
	if reporter == nil {
		reporter = nopReporter{}
	}
	return &Pipeline{
		config:   cfg,
		runner:   runner,
		reporter: reporter,
		pm:       pm,
		dir:      dir,
	}, nil
}

// step is one phase and the work it performs.
type step struct {
	phase Phase
	run   func(ctx context.Context, req project.Request, out *Outcome) error
}

// steps returns the phases for req in their fixed order. Optional phases
// are left out when not requested.
func (p *Pipeline) steps(req project.Request) []step {
	steps := []step{
		{PhaseDirectoryCheck, p.checkDirectory},
		{PhaseScaffold, p.scaffold},
		{PhaseInstallDeps, p.installDeps},
		{PhaseWriteStubs, p.writeStubs},
	}
	if req.CSSFramework {
		steps = append(steps, step{PhaseInstallCSS, p.installCSS})
	}
	if p.config.Linter.Configure && req.WantsLinter() {
		steps = append(steps, step{PhaseLinter, p.configureLinter})
	}
	if p.config.Git.Init {
		steps = append(steps, step{PhaseInitGit, p.initGit})
	}
	return steps
}

// Materialize runs every phase for req in order and stops at the first
// failure. Nothing is retried and nothing already written is rolled back.
// The returned Outcome is non-nil even on error.
func (p *Pipeline) Materialize(ctx context.Context, req project.Request) (*Outcome, error) {
	out := &Outcome{ProjectDir: filepath.Join(p.dir, req.Name)}
	tr := newTracker()
	defer func() { out.Phases = tr.history }()

	for _, s := range p.steps(req) {
		if err := tr.advance(s.phase); err != nil {
			return out, err
		}

		if err := ctx.Err(); err != nil {
			return out, p.fail(tr, s.phase, err)
		}

		p.reporter.PhaseStarted(s.phase)
		if err := s.run(ctx, req, out); err != nil {
			return out, p.fail(tr, s.phase, err)
		}
		p.reporter.PhaseFinished(s.phase)
	}

	if err := tr.advance(PhaseDone); err != nil {
		return out, err
	}
	return out, nil
}

func (p *Pipeline) fail(tr *tracker, phase Phase, err error) error {
	perr := &PhaseError{Phase: phase, Err: err}
	p.reporter.PhaseFailed(phase, perr)
	// A failing phase is never terminal, so this cannot be rejected.
	_ = tr.advance(PhaseFailed)
	return perr
}

func (p *Pipeline) warn(out *Outcome, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	out.Warnings = append(out.Warnings, msg)
	p.reporter.Warn(msg)
}

// run executes one external command and logs its captured output.
func (p *Pipeline) run(ctx context.Context, dir string, args []string) error {
	cmd := executor.Command{Args: args, Dir: dir}
	logging.DebugContext(ctx, "Running %s in %s", cmd, dir)

	result, err := p.runner.Run(ctx, cmd)
	if err != nil {
		return err
	}
	if stdout := strings.TrimSpace(result.Stdout); stdout != "" {
		logging.DebugContext(ctx, "%s", stdout)
	}
	return nil
}

func (p *Pipeline) checkDirectory(_ context.Context, _ project.Request, out *Outcome) error {
	return EnsureDir(out.ProjectDir)
}

// scaffold runs the generator from the base directory; it fills in the
// directory the guard just created.
func (p *Pipeline) scaffold(ctx context.Context, req project.Request, _ *Outcome) error {
	gen := p.config.Generator
	return p.run(ctx, p.dir, p.pm.Create(gen.Package, gen.Version, req.Name, req.Variant()))
}

func (p *Pipeline) installDeps(ctx context.Context, _ project.Request, out *Outcome) error {
	return p.run(ctx, out.ProjectDir, p.pm.Install())
}

func (p *Pipeline) writeStubs(ctx context.Context, req project.Request, out *Outcome) error {
	fw, err := stub.Lookup(req.Variant())
	var unsupported *stub.UnsupportedFrameworkError
	if errors.As(err, &unsupported) {
		p.warn(out, "No starter files available for %s, keeping the generated ones", req.Framework)
		return nil
	}
	if err != nil {
		return err
	}

	written, err := stub.Write(out.ProjectDir, fw, req.Name, req.TypeScript)
	out.StubFiles = append(out.StubFiles, written...)
	if err != nil {
		return err
	}
	logging.DebugContext(ctx, "Wrote %s", strings.Join(written, ", "))
	return nil
}

func (p *Pipeline) installCSS(ctx context.Context, req project.Request, out *Outcome) error {
	css := p.config.CSS
	if err := p.run(ctx, out.ProjectDir, p.pm.AddDev(false, css.Packages...)); err != nil {
		return err
	}
	if err := p.run(ctx, out.ProjectDir, p.pm.Exec("tailwindcss", tailwind.InitArgs...)); err != nil {
		return err
	}

	files := tailwind.Files{Config: css.ConfigFile, Stylesheet: css.Stylesheet}
	if err := tailwind.WriteConfig(out.ProjectDir, files); err != nil {
		return err
	}

	entry := req.Framework.EntryScript(req.TypeScript)
	changed, err := tailwind.PatchEntry(out.ProjectDir, entry, css.Stylesheet)
	if err != nil {
		return err
	}
	if changed {
		logging.DebugContext(ctx, "Pointed %s at %s", entry, css.Stylesheet)
	}
	return nil
}

func (p *Pipeline) configureLinter(ctx context.Context, req project.Request, out *Outcome) error {
	setup, ok := linter.For(req.Linter)
	if !ok {
		p.warn(out, "Unknown linter %q, skipping", req.Linter)
		return nil
	}
	if err := p.run(ctx, out.ProjectDir, p.pm.AddDev(setup.Exact, setup.Packages...)); err != nil {
		return err
	}
	return setup.WriteConfig(out.ProjectDir)
}

func (p *Pipeline) initGit(ctx context.Context, _ project.Request, out *Outcome) error {
	author := git.Author{Name: p.config.Git.AuthorName, Email: p.config.Git.AuthorEmail}
	result, err := git.InitRepository(out.ProjectDir, author)
	if errors.Is(err, git.ErrAlreadyRepository) {
		p.warn(out, "%s is already a git repository, leaving it as is", out.ProjectDir)
		return nil
	}
	if err != nil {
		return err
	}
	if result.Committed {
		out.CommitHash = result.Hash
		logging.DebugContext(ctx, "Committed %d files as %s", result.Files, result.Hash)
	}
	return nil
}

type nopReporter struct{}

func (nopReporter) PhaseStarted(Phase)       {}
func (nopReporter) PhaseFinished(Phase)      {}
func (nopReporter) PhaseFailed(Phase, error) {}
func (nopReporter) Warn(string)              {}
