// Package config provides configuration management for comicdata.
//
// Configuration is loaded from three sources with the following precedence
// (highest to lowest):
//  1. CLI flags
//  2. Environment variables (COMICDATA_ prefix)
//  3. Config file (.comicdata.yaml)
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Supported log levels.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Supported log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Supported userscript version bumps.
const (
	BumpNone  = "none"
	BumpPatch = "patch"
	BumpMinor = "minor"
	BumpMajor = "major"
)

// Project layout defaults.
const (
	DefaultCSV         = "generator_stuff/housepets_comics.csv"
	DefaultOutputDir   = "generator_output"
	DefaultOutputFile  = "comics.js"
	DefaultTemplateDir = "userscripts_base"
	DefaultSpliceDir   = "."
	DefaultArcColumn   = "arc_number"
	DefaultVariable    = "comicData"
	DefaultMarker      = "COMIC_DATA"
	DefaultDebounce    = 500 * time.Millisecond
)

var jsIdentifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Config represents the global configuration for comicdata.
type Config struct {
	// LogLevel controls the verbosity of log output.
	// Valid values: debug, info, warn, error.
	LogLevel string `mapstructure:"log-level" json:"logLevel"`

	// LogFormat controls the format of log output.
	// Valid values: text, json.
	LogFormat string `mapstructure:"log-format" json:"logFormat"`

	// NoColor disables colored output.
	NoColor bool `mapstructure:"no-color" json:"noColor"`

	// Quiet suppresses all log output below error level.
	Quiet bool `mapstructure:"quiet" json:"quiet"`

	// CSV is the comic metadata source file.
	CSV string `mapstructure:"csv" json:"csv"`

	// OutputDir receives the standalone dataset file.
	OutputDir string `mapstructure:"output-dir" json:"outputDir"`

	// OutputFile is the dataset file name inside OutputDir.
	OutputFile string `mapstructure:"output-file" json:"outputFile"`

	// TemplateDir holds the userscript templates.
	TemplateDir string `mapstructure:"template-dir" json:"templateDir"`

	// SpliceDir receives the spliced userscripts. Defaults to the working
	// directory rather than OutputDir.
	SpliceDir string `mapstructure:"splice-dir" json:"spliceDir"`

	// ArcColumn names the numeric arc identifier column.
	ArcColumn string `mapstructure:"arc-column" json:"arcColumn"`

	// Variable is the JavaScript identifier the data is assigned to.
	Variable string `mapstructure:"variable" json:"variable"`

	// Marker is the tag of the template region markers, // <Marker>.
	Marker string `mapstructure:"marker" json:"marker"`

	// Debounce is the minimum interval between two watch triggers for the
	// same path.
	Debounce time.Duration `mapstructure:"debounce" json:"debounce"`

	// Bump selects the userscript @version component to increment on
	// every splice: none, patch, minor, major.
	Bump string `mapstructure:"bump" json:"bump"`

	// ConfigFile is the resolved path to the config file used.
	// Set after Load() — not read from config itself.
	ConfigFile string `mapstructure:"-" json:"-"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		LogLevel:  LogLevelInfo,
		LogFormat: LogFormatText,
		NoColor:   false,
		Quiet:     false,

		CSV:         DefaultCSV,
		OutputDir:   DefaultOutputDir,
		OutputFile:  DefaultOutputFile,
		TemplateDir: DefaultTemplateDir,
		SpliceDir:   DefaultSpliceDir,
		ArcColumn:   DefaultArcColumn,
		Variable:    DefaultVariable,
		Marker:      DefaultMarker,
		Debounce:    DefaultDebounce,
		Bump:        BumpNone,
	}
}

// Validate checks that all config values are valid.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		// valid
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", c.LogLevel)
	}

	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
		// valid
	default:
		return fmt.Errorf("invalid log format %q: must be one of text, json", c.LogFormat)
	}

	if strings.TrimSpace(c.ArcColumn) == "" {
		return fmt.Errorf("invalid arc column: must not be empty")
	}

	if !jsIdentifier.MatchString(c.Variable) {
		return fmt.Errorf("invalid variable %q: must be a JavaScript identifier", c.Variable)
	}

	if c.Marker == "" || strings.ContainsAny(c.Marker, "<>\n") {
		return fmt.Errorf("invalid marker %q: must be a non-empty tag without angle brackets", c.Marker)
	}

	if c.Debounce <= 0 {
		return fmt.Errorf("invalid debounce %s: must be positive", c.Debounce)
	}

	switch c.Bump {
	case "", BumpNone, BumpPatch, BumpMinor, BumpMajor:
		// valid
	default:
		return fmt.Errorf("invalid bump %q: must be one of none, patch, minor, major", c.Bump)
	}

	return nil
}

// EffectiveLogLevel returns the log level to use. When Quiet is true the log
// level is overridden to "error" regardless of the configured LogLevel.
func (c *Config) EffectiveLogLevel() string {
	if c.Quiet {
		return LogLevelError
	}

	return c.LogLevel
}

// Load initialises configuration from flags, environment variables, and an
// optional config file. A fresh viper instance is used on every call so that
// Load is safe for concurrent tests.
func Load(cmd *cobra.Command, configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)
	configureEnv(v)

	if err := configureFile(v, configFile); err != nil {
		return nil, err
	}

	if err := bindFlags(v, cmd); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Store the resolved config file path so downstream code can locate it.
	cfg.ConfigFile = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log-level", LogLevelInfo)
	v.SetDefault("log-format", LogFormatText)
	v.SetDefault("no-color", false)
	v.SetDefault("quiet", false)
	v.SetDefault("csv", DefaultCSV)
	v.SetDefault("output-dir", DefaultOutputDir)
	v.SetDefault("output-file", DefaultOutputFile)
	v.SetDefault("template-dir", DefaultTemplateDir)
	v.SetDefault("splice-dir", DefaultSpliceDir)
	v.SetDefault("arc-column", DefaultArcColumn)
	v.SetDefault("variable", DefaultVariable)
	v.SetDefault("marker", DefaultMarker)
	v.SetDefault("debounce", DefaultDebounce)
	v.SetDefault("bump", BumpNone)
}

// configureEnv sets up environment variable support.
func configureEnv(v *viper.Viper) {
	v.SetEnvPrefix("COMICDATA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
}

// configureFile sets up the config file source.
func configureFile(v *viper.Viper, configFile string) error {
	if configFile != "" {
		v.SetConfigFile(configFile)

		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %q: %w", configFile, err)
		}

		return nil
	}

	// Auto-discovery mode.
	v.SetConfigName(".comicdata")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "comicdata"))
	}

	if err := v.ReadInConfig(); err != nil {
		// No config file found → perfectly fine in auto-discovery.
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}

		// Found a file but it was malformed.
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// bindFlags walks from cmd up to the root and binds all PersistentFlags.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	if cmd == nil {
		return nil
	}

	// Bind the current command's own flags.
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	// Walk up to root and bind all persistent flags at each level.
	for c := cmd; c != nil; c = c.Parent() {
		if err := v.BindPFlags(c.PersistentFlags()); err != nil {
			return fmt.Errorf("binding persistent flags: %w", err)
		}
	}

	return nil
}

// ---------------------------------------------------------------------------
// Context helpers
// ---------------------------------------------------------------------------

type ctxKey struct{}

// NewContext returns a child context carrying cfg.
func NewContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext extracts a Config from ctx, falling back to Default().
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(ctxKey{}).(*Config); ok {
		return cfg
	}

	return Default()
}
