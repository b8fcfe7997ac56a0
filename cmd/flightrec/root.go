package main

import (
	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}
	app := newCommandContext(flags)

	rootCmd := &cobra.Command{
		Use:   "flightrec [flags] <command> [args...]",
		Short: "Synchronize tracklogs, waypoints and settings with a flight recorder",
		Long: "flightrec synchronizes a Flytec or Brauniger flight recorder.\n\n" +
			"Commands may be abbreviated to any unique prefix.\n\n" +
			"Commands:\n" + commandUsage(),
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.bind(cmd)
			defer app.close()
			return app.dispatch(cmd.Context(), args)
		},
	}

	pf := rootCmd.Flags()
	pf.SetInterspersed(false)
	pf.StringVarP(&flags.config, "config", "c", "", "Configuration file path")
	pf.StringVar(&flags.device, "device", "", "Recorder path (overrides device.path)")
	pf.StringVar(&flags.format, "format", "table", "Output format: table or json")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	return rootCmd
}
