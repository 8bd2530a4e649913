package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jywlabs/vitetail/internal/config"
	"github.com/jywlabs/vitetail/internal/display"
	"github.com/jywlabs/vitetail/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Context key type for storing config
type configKeyType struct{}

var configKey = configKeyType{}

// Root command options
var (
	cfgFile  string
	noBanner bool
)

var rootCmd = &cobra.Command{
	Use:   "vitetail",
	Short: "ViteTail - Create a Vite project with Tailwind CSS",
	Long: `ViteTail asks a few questions and creates a ready-to-run Vite project
in a new directory under the current one.

It runs the Vite generator, installs dependencies, replaces the demo
content with a small starter page and, if you want it, installs and
configures Tailwind CSS.

Questions:
  1. Project name            (default: my-vite-project)
  2. Template                vanilla, vue, react, preact, lit, solid
  3. TypeScript              yes/no
  4. Linter                  eslint, prettier, none
  5. Tailwind CSS            yes/no

Commands:
  frameworks  List supported templates and the files vitetail writes
  config      Show the effective configuration
  version     Show version info`,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initConfig,
	RunE:              runCreate,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is $XDG_CONFIG_HOME/vitetail/vitetail.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (plain, color, json)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Quiet mode - only show errors")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose mode - show debug output")
	rootCmd.PersistentFlags().BoolVar(&noBanner, "no-banner", false, "Skip the startup banner")
}

// configFromContext retrieves the config from the command context, falling
// back to defaults.
func configFromContext(cmd *cobra.Command) *config.Config {
	if ctx := cmd.Context(); ctx != nil {
		if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
			return cfg
		}
	}
	cfg := config.Default()
	return &cfg
}

// initConfig initializes configuration with proper precedence:
// CLI Flags > Environment Variables > Config File > Defaults
func initConfig(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		logging.WarnContext(cmd.Context(), "Ignoring .env: %v", err)
	}

	v, err := config.NewViper(cfgFile)
	if err != nil {
		return err
	}
	if err := bindFlags(v, cmd); err != nil {
		return err
	}

	cfg, err := config.FromViper(v)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	quiet, _ := cmd.Flags().GetBool("quiet")
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := logging.NewWithOptions(cfg.Log.Level, cfg.Log.Format, quiet, verbose)
	logger.SetOutput(cmd.ErrOrStderr())
	if file := v.ConfigFileUsed(); file != "" {
		logger.Debug("Using config file %s", file)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, configKey, cfg)
	ctx = logging.WithLogger(ctx, logger)
	cmd.SetContext(ctx)
	return nil
}

// flagKeys maps persistent flags onto config keys.
var flagKeys = map[string]string{
	"log-level":  "log.level",
	"log-format": "log.format",
}

// bindFlags lets explicitly set flags override env and file values.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	var bindErr error
	cmd.Root().PersistentFlags().VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || bindErr != nil {
			return
		}
		if err := v.BindPFlag(key, f); err != nil {
			bindErr = fmt.Errorf("failed to bind %s flag: %w", f.Name, err)
		}
	})
	if bindErr != nil {
		return bindErr
	}
	if noBanner {
		v.Set("banner.enabled", false)
	}
	return nil
}

// reportedError marks an error the command already showed to the user.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// Execute runs the root command. Errors not already shown are printed to
// stderr; the caller decides the exit code.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		printError(os.Stderr, err)
	}
	return err
}

func printError(w io.Writer, err error) {
	var reported *reportedError
	if errors.As(err, &reported) {
		return
	}
	fmt.Fprintf(w, "%s %v\n", display.StyleError.Render("Error:"), err)
}
