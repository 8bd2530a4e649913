package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/jywlabs/vitetail/internal/pkgmgr"
	"github.com/jywlabs/vitetail/internal/project"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// FileName is the config file name without extension.
const FileName = "vitetail"

// EnvPrefix prefixes environment overrides, e.g. VITETAIL_PACKAGE_MANAGER.
const EnvPrefix = "VITETAIL"

// Config is the full vitetail configuration.
type Config struct {
	DefaultProjectName string          `mapstructure:"default_project_name" yaml:"default_project_name"`
	PackageManager     string          `mapstructure:"package_manager" yaml:"package_manager"`
	Generator          GeneratorConfig `mapstructure:"generator" yaml:"generator"`
	CSS                CSSConfig       `mapstructure:"css" yaml:"css"`
	Banner             BannerConfig    `mapstructure:"banner" yaml:"banner"`
	Linter             LinterConfig    `mapstructure:"linter" yaml:"linter"`
	Git                GitConfig       `mapstructure:"git" yaml:"git"`
	Log                LogConfig       `mapstructure:"log" yaml:"log"`
}

// GeneratorConfig selects the create-* package run by the package manager.
type GeneratorConfig struct {
	Package string `mapstructure:"package" yaml:"package"`
	Version string `mapstructure:"version" yaml:"version"`
}

// CSSConfig describes the Tailwind CSS installation.
type CSSConfig struct {
	Packages   []string `mapstructure:"packages" yaml:"packages"`
	ConfigFile string   `mapstructure:"config_file" yaml:"config_file"`
	Stylesheet string   `mapstructure:"stylesheet" yaml:"stylesheet"`
}

// BannerConfig controls the startup banner.
type BannerConfig struct {
	Enabled  bool          `mapstructure:"enabled" yaml:"enabled"`
	Duration time.Duration `mapstructure:"duration" yaml:"duration"`
}

// MarshalYAML writes the duration in its string form, e.g. "2s".
func (b BannerConfig) MarshalYAML() (any, error) {
	return struct {
		Enabled  bool   `yaml:"enabled"`
		Duration string `yaml:"duration"`
	}{b.Enabled, b.Duration.String()}, nil
}

// LinterConfig controls the optional linter phase.
type LinterConfig struct {
	Configure bool `mapstructure:"configure" yaml:"configure"`
}

// GitConfig controls the optional repository initialization phase.
type GitConfig struct {
	Init        bool   `mapstructure:"init" yaml:"init"`
	AuthorName  string `mapstructure:"author_name" yaml:"author_name"`
	AuthorEmail string `mapstructure:"author_email" yaml:"author_email"`
}

// LogConfig holds logging defaults.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DefaultProjectName: project.DefaultName,
		PackageManager:     string(pkgmgr.NPM),
		Generator: GeneratorConfig{
			Package: "vite",
			Version: "latest",
		},
		CSS: CSSConfig{
			Packages:   []string{"tailwindcss@3", "postcss@latest", "autoprefixer@latest"},
			ConfigFile: "tailwind.config.js",
			Stylesheet: "src/style.css",
		},
		Banner: BannerConfig{
			Enabled:  true,
			Duration: 2 * time.Second,
		},
		Git: GitConfig{
			AuthorName:  "vitetail",
			AuthorEmail: "vitetail@localhost",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "color",
		},
	}
}

// Validate checks that the configuration can drive a run.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DefaultProjectName) == "" {
		return fmt.Errorf("default_project_name must not be empty")
	}
	if _, err := pkgmgr.Parse(c.PackageManager); err != nil {
		return fmt.Errorf("package_manager: %w", err)
	}
	if c.Generator.Package == "" {
		return fmt.Errorf("generator.package must not be empty")
	}
	if err := pkgmgr.ValidateVersion(c.Generator.Version); err != nil {
		return fmt.Errorf("generator.version: %w", err)
	}
	if len(c.CSS.Packages) != 3 {
		return fmt.Errorf("css.packages must list exactly 3 packages, got %d", len(c.CSS.Packages))
	}
	if c.CSS.ConfigFile == "" || c.CSS.Stylesheet == "" {
		return fmt.Errorf("css.config_file and css.stylesheet must not be empty")
	}
	if c.Banner.Duration < 0 {
		return fmt.Errorf("banner.duration must not be negative")
	}
	return nil
}

// SearchDirs returns the directories searched for vitetail.yaml, in order.
func SearchDirs() []string {
	var dirs []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, "vitetail"))
	} else if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "vitetail"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".vitetail"))
	}
	return append(dirs, ".")
}

// LoadDotEnv loads variables from a .env file. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// NewViper builds a Viper instance seeded with defaults, environment
// bindings, and the config file. When path is empty the search dirs are used
// and a missing file is ignored; an explicit path must exist.
func NewViper(path string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		return v, nil
	}

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	for _, dir := range SearchDirs() {
		v.AddConfigPath(dir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	return v, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("default_project_name", d.DefaultProjectName)
	v.SetDefault("package_manager", d.PackageManager)
	v.SetDefault("generator.package", d.Generator.Package)
	v.SetDefault("generator.version", d.Generator.Version)
	v.SetDefault("css.packages", d.CSS.Packages)
	v.SetDefault("css.config_file", d.CSS.ConfigFile)
	v.SetDefault("css.stylesheet", d.CSS.Stylesheet)
	v.SetDefault("banner.enabled", d.Banner.Enabled)
	v.SetDefault("banner.duration", d.Banner.Duration)
	v.SetDefault("linter.configure", d.Linter.Configure)
	v.SetDefault("git.init", d.Git.Init)
	v.SetDefault("git.author_name", d.Git.AuthorName)
	v.SetDefault("git.author_email", d.Git.AuthorEmail)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// FromViper decodes and validates the configuration held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ToYAML renders the configuration as YAML.
func (c *Config) ToYAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// WriteDefault writes the default configuration to path. It refuses to
// overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists at %s", path)
	}

	cfg := Default()
	data, err := cfg.ToYAML()
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
