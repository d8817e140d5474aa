package main

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/philipp01105/tracelog/config"
	"github.com/philipp01105/tracelog/core"
	"github.com/philipp01105/tracelog/logger"
	"github.com/philipp01105/tracelog/scope"
)

type emitOptions struct {
	logger   string
	level    string
	contexts []string
	fields   map[string]string
}

func newEmitCmd() *cobra.Command {
	opts := &emitOptions{}
	cmd := &cobra.Command{
		Use:   "emit MESSAGE",
		Short: "Send one record through the configured pipeline",
		Long: `Send one record through the configured pipeline.

Examples:
  # Record from logger "shop.db" inside two nested scopes
  logcheck emit --logger shop.db --context request-42 --context GET "hello"

  # Record with fields, useful to exercise multifile patterns
  logcheck emit --field user=alice --level warn "quota exceeded"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEmit(cmd, opts, args[0])
		},
	}
	cmd.Flags().StringVarP(&opts.logger, "logger", "l", "", "logger name (default: root)")
	cmd.Flags().StringVar(&opts.level, "level", "INFO", "record level")
	cmd.Flags().StringArrayVarP(&opts.contexts, "context", "c", nil, "scope label, repeat to nest")
	cmd.Flags().StringToStringVarP(&opts.fields, "field", "f", nil, "field as key=value")
	return cmd
}

func runEmit(cmd *cobra.Command, opts *emitOptions, msg string) (err error) {
	level, err := logger.ParseLevelStrict(opts.level)
	if err != nil {
		return err
	}

	if _, err := config.Init(config.Path(cmd.Flags()), ""); err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, config.Shutdown()) }()

	ctx := context.Background()
	for _, label := range opts.contexts {
		ctx = scope.With(ctx, label)
	}
	keys := make([]string, 0, len(opts.fields))
	for k := range opts.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fields := make([]core.Field, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, logger.String(k, opts.fields[k]))
	}

	l := logger.Get(opts.logger)
	if !l.Enabled(level) {
		return errors.Errorf("logger %q does not emit %s records", l.Name(), level)
	}

	var handlerErr error
	logger.SetErrorHandler(func(err error, _ *core.Entry) { handlerErr = err })
	defer logger.SetErrorHandler(nil)

	l.LogContext(ctx, level, msg, fields...)
	return errors.Wrap(handlerErr, "write record")
}
