package config

import (
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// FlagName is the command line flag naming the configuration file.
	FlagName = "logging-config"
	// DefaultPath is used when neither the flag nor the environment names
	// a file.
	DefaultPath = "/etc/tracelog/logging.yaml"
	// EnvPrefix makes TRACELOG_LOGGING_CONFIG override the default path.
	EnvPrefix = "TRACELOG"
)

// AddFlags registers --logging-config on fs.
func AddFlags(fs *pflag.FlagSet) {
	fs.String(FlagName, DefaultPath, "logging configuration file (JSON, YAML or TOML)")
}

// Path resolves the configuration file from fs, the environment and the
// default, in that order of precedence. fs may be nil.
func Path(fs *pflag.FlagSet) string {
	v := viper.New()
	v.SetDefault(FlagName, DefaultPath)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if fs != nil {
		if f := fs.Lookup(FlagName); f != nil {
			_ = v.BindPFlag(FlagName, f)
		}
	}
	return v.GetString(FlagName)
}

var (
	mu      sync.Mutex
	current *Setup
)

// Init loads the file at path, builds it and installs the result as the
// process-wide logging setup. An empty path installs Default(). A non-empty
// app overrides the file's app name. The previous setup, if any, is closed
// after the new one is installed.
func Init(path, app string) (*Setup, error) {
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = Load(path); err != nil {
			return nil, err
		}
	}
	if app != "" {
		cfg.App = app
	}
	return Apply(cfg)
}

// Watch initialises logging from path like Init and applies the file again
// whenever it is written. A reload that fails to decode or build leaves
// the installed setup in place and is passed to onError, which may be nil.
// The file is watched for the life of the process.
func Watch(path, app string, onError func(error)) (*Setup, error) {
	v, err := readConfig(path)
	if err != nil {
		return nil, err
	}
	reload := func(name string) (*Setup, error) {
		cfg, err := decode(v, name)
		if err != nil {
			return nil, err
		}
		if app != "" {
			cfg.App = app
		}
		return Apply(cfg)
	}

	s, err := reload(path)
	if err != nil {
		return nil, err
	}
	v.OnConfigChange(func(ev fsnotify.Event) {
		if !ev.Has(fsnotify.Write | fsnotify.Create) {
			return
		}
		if _, err := reload(ev.Name); err != nil && onError != nil {
			onError(errors.Wrapf(err, "reload %s", ev.Name))
		}
	})
	v.WatchConfig()
	return s, nil
}

// Apply builds cfg and installs it like Init.
func Apply(cfg *Config) (*Setup, error) {
	s, err := Build(cfg)
	if err != nil {
		return nil, err
	}

	mu.Lock()
	prev := current
	current = s
	s.Install()
	mu.Unlock()

	if prev != nil {
		return s, prev.Close()
	}
	return s, nil
}

// Current returns the setup installed by the last successful Init or
// Apply, or nil.
func Current() *Setup {
	mu.Lock()
	defer mu.Unlock()
	return current
}

// Shutdown closes the installed setup's handlers.
func Shutdown() error {
	mu.Lock()
	s := current
	current = nil
	mu.Unlock()
	if s == nil {
		return nil
	}
	return s.Close()
}
