package main

import (
	"github.com/spf13/cobra"

	"github.com/philipp01105/tracelog/config"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "logcheck",
		Short: "Check tracelog logging configuration",
		Long: `logcheck loads a tracelog logging configuration the same way an
application calling config.Init does.

The file is taken from --logging-config, then TRACELOG_LOGGING_CONFIG,
then ` + config.DefaultPath + `.`,
		SilenceUsage: true,
	}
	config.AddFlags(root.PersistentFlags())

	root.AddCommand(newValidateCmd(), newEmitCmd())
	return root
}
