package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config is the logging configuration, modelled on a dictionary of named
// formatters, filters and handlers referenced by loggers.
//
// Names of formatters, filters, handlers and loggers are case-insensitive
// when read from a file.
type Config struct {
	// App prefixes logger names derived from package paths
	App        string                     `mapstructure:"app"`
	Tracing    TracingConfig              `mapstructure:"tracing"`
	Formatters map[string]FormatterConfig `mapstructure:"formatters"`
	Filters    map[string]FilterConfig    `mapstructure:"filters"`
	Handlers   map[string]HandlerConfig   `mapstructure:"handlers"`
	Loggers    map[string]LoggerConfig    `mapstructure:"loggers"`
	Root       LoggerConfig               `mapstructure:"root"`
}

// TracingConfig controls the call tracer.
type TracingConfig struct {
	// Enabled turns wrapping on for functions wrapped after Init (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level of entry, exit and item records (default: TRACE)
	Level string `mapstructure:"level"`
	// Ignore lists function names that are never wrapped
	Ignore []string `mapstructure:"ignore"`
}

// FormatterConfig describes one formatter.
type FormatterConfig struct {
	// Type is one of "pattern", "text", "json", "dispatch" (default: pattern
	// when Format is set, text otherwise)
	Type string `mapstructure:"type"`
	// Format is the pattern formatter's template
	Format string `mapstructure:"format"`
	// TimestampFormat applies to text and json formatters
	TimestampFormat string `mapstructure:"timestamp_format"`
	// IncludeCaller applies to text and json formatters
	IncludeCaller bool `mapstructure:"include_caller"`
	// Routes are tried in order by the dispatch formatter
	Routes []RouteConfig `mapstructure:"routes"`
}

// RouteConfig maps a logger name pattern to a formatter name.
type RouteConfig struct {
	Logger    string `mapstructure:"logger"`
	Formatter string `mapstructure:"formatter"`
}

// FilterConfig describes one filter.
type FilterConfig struct {
	// Type is "context" or "regex"
	Type string `mapstructure:"type"`
	// Match is the substring the context filter looks for
	Match string `mapstructure:"match"`
	// Field and Pattern configure the regex filter
	Field   string `mapstructure:"field"`
	Pattern string `mapstructure:"pattern"`
}

// HandlerConfig describes one handler. Which options apply depends on
// Type: "console", "file", "watched", "rotating" or "multifile".
type HandlerConfig struct {
	Type      string   `mapstructure:"type"`
	Level     string   `mapstructure:"level"`
	Formatter string   `mapstructure:"formatter"`
	Filters   []string `mapstructure:"filters"`

	// Stream is "stderr" (default) or "stdout" for console handlers
	Stream string `mapstructure:"stream"`

	Filename string `mapstructure:"filename"`
	// Pattern is the multifile filename template
	Pattern  string `mapstructure:"pattern"`
	Mode     string `mapstructure:"mode"`
	Encoding string `mapstructure:"encoding"`
	Errors   string `mapstructure:"errors"`
	Delay    bool   `mapstructure:"delay"`
	// Terminator replaces the default "\n"; an empty string disables it
	Terminator *string `mapstructure:"terminator"`

	MaxSizeMB  int           `mapstructure:"max_size_mb"`
	MaxAge     time.Duration `mapstructure:"max_age"`
	MaxBackups int           `mapstructure:"max_backups"`
	LocalTime  bool          `mapstructure:"local_time"`
	Compress   bool          `mapstructure:"compress"`
}

// LoggerConfig describes a logger. Unregistered names fall back to their
// nearest configured ancestor, then to the root.
type LoggerConfig struct {
	// Level defaults to the nearest configured ancestor's, and to INFO for
	// the root. Without Handlers records go to the ancestor's handlers.
	Level    string   `mapstructure:"level"`
	Handlers []string `mapstructure:"handlers"`
	Filters  []string `mapstructure:"filters"`
	Caller   bool     `mapstructure:"caller"`
}

// Default returns the configuration used when no file is given: text
// records on stderr at INFO, tracing enabled.
func Default() *Config {
	return &Config{
		Tracing: TracingConfig{Enabled: true},
		Formatters: map[string]FormatterConfig{
			"default": {Type: "text"},
		},
		Handlers: map[string]HandlerConfig{
			"console": {Type: "console", Formatter: "default"},
		},
		Root: LoggerConfig{
			Level:    "INFO",
			Handlers: []string{"console"},
		},
	}
}

// keyDelimiter replaces viper's "." so dotted logger names stay map keys.
const keyDelimiter = "::"

// Load reads a JSON, YAML or TOML file. The format follows the extension.
// Unknown keys are errors.
func Load(path string) (*Config, error) {
	v, err := readConfig(path)
	if err != nil {
		return nil, err
	}
	return decode(v, path)
}

func readConfig(path string) (*viper.Viper, error) {
	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))
	v.SetConfigFile(path)
	if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext == "" || ext == "conf" {
		v.SetConfigType("json")
	}
	v.SetDefault("tracing"+keyDelimiter+"enabled", true)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "read logging config %s", path)
	}
	return v, nil
}

func decode(v *viper.Viper, path string) (*Config, error) {
	var cfg Config
	err := v.Unmarshal(&cfg,
		viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)),
		func(dc *mapstructure.DecoderConfig) { dc.ErrorUnused = true },
	)
	if err != nil {
		return nil, errors.Wrapf(err, "decode logging config %s", path)
	}
	return &cfg, nil
}

// lookup finds name in m, trying the lower-cased name when the exact one
// is missing.
func lookup[T any](m map[string]T, name string) (T, bool) {
	if v, ok := m[name]; ok {
		return v, true
	}
	v, ok := m[strings.ToLower(name)]
	return v, ok
}
