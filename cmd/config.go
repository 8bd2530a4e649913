package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/jywlabs/vitetail/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Long: `Show the effective vitetail configuration as YAML.

Values come from, in order of precedence: flags, VITETAIL_* environment
variables (a .env file in the current directory is loaded first), the
config file, and built-in defaults.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return showConfig(cmd.OutOrStdout(), configFromContext(cmd))
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default config file",
	Long: `Write the default configuration to a file.

Without a path the file is created in the user config directory.

Example:
  vitetail config init                  # $XDG_CONFIG_HOME/vitetail/vitetail.yaml
  vitetail config init ./vitetail.yaml  # project-local config`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		return initConfigFile(cmd.OutOrStdout(), path)
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func showConfig(w io.Writer, cfg *config.Config) error {
	data, err := cfg.ToYAML()
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func initConfigFile(w io.Writer, path string) error {
	if path == "" {
		path = filepath.Join(config.SearchDirs()[0], config.FileName+".yaml")
	}
	if err := config.WriteDefault(path); err != nil {
		return err
	}
	fmt.Fprintf(w, "Wrote default configuration to %s\n", path)
	return nil
}
