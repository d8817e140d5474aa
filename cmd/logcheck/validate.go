package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/philipp01105/tracelog/config"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Build the configuration without writing any record",
		Long: `Build every formatter, filter, handler and logger of the configuration
and list them. Files are not opened, so validation has no effect on disk.`,
		Args: cobra.NoArgs,
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, _ []string) error {
	path := config.Path(cmd.Flags())
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	for name, h := range cfg.Handlers {
		h.Delay = true
		cfg.Handlers[name] = h
	}

	s, err := config.Build(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: ok\n", path)
	fmt.Fprintln(out, "handlers:")
	for _, name := range s.HandlerNames() {
		fmt.Fprintf(out, "  %s (%s)\n", name, strings.ToLower(cfg.Handlers[name].Type))
	}
	fmt.Fprintln(out, "loggers:")
	fmt.Fprintf(out, "  <root> %s -> %s\n", s.Root.Level(), strings.Join(cfg.Root.Handlers, ", "))
	for _, name := range s.LoggerNames() {
		fmt.Fprintf(out, "  %s %s -> %s\n", name, s.Loggers[name].Level(), strings.Join(cfg.Loggers[name].Handlers, ", "))
	}
	fmt.Fprintf(out, "tracing: %v\n", cfg.Tracing.Enabled)
	return nil
}
