package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jywlabs/vitetail/internal/config"
	"github.com/jywlabs/vitetail/internal/display"
	"github.com/jywlabs/vitetail/internal/executor"
	"github.com/jywlabs/vitetail/internal/logging"
	"github.com/jywlabs/vitetail/internal/prompt"
	"github.com/jywlabs/vitetail/internal/scaffold"
	"github.com/spf13/cobra"
)

func runCreate(cmd *cobra.Command, args []string) error {
	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	return createProject(cmd.Context(), configFromContext(cmd), cmd.InOrStdin(), cmd.OutOrStdout(), dir, executor.New())
}

// createProject runs the interactive flow: banner, questions, then the
// pipeline in dir.
func createProject(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer, dir string, runner executor.Runner) error {
	d := display.NewDisplay(out)
	if cfg.Banner.Enabled {
		d.ShowBanner(ctx, cfg.Banner.Duration)
	}

	req, err := prompt.NewCollector(in, out, cfg.DefaultProjectName).Collect()
	if err != nil {
		return fmt.Errorf("failed to collect answers: %w", err)
	}
	logging.DebugContext(ctx, "Creating %s with template %s (linter %s, tailwind %t)",
		req.Name, req.Variant(), req.Linter, req.CSSFramework)

	pipeline, err := scaffold.NewPipeline(cfg, runner, d, dir)
	if err != nil {
		return err
	}

	outcome, err := pipeline.Materialize(ctx, req)
	if err != nil {
		d.ShowError(err)
		return &reportedError{err: err}
	}

	d.ShowSuccess(display.Summary{
		Name:           req.Name,
		Dir:            outcome.ProjectDir,
		PackageManager: cfg.PackageManager,
		Warnings:       len(outcome.Warnings),
	})
	return nil
}
