package main

import (
	"github.com/spf13/cobra"
)

// annotationSkipConfig marks commands that must run without a loaded
// configuration, such as the one that creates it.
const annotationSkipConfig = "meridian.skipConfigLoad"

func newRootCommand() *cobra.Command {
	var (
		configPath string
		endpoint   string
	)

	root := &cobra.Command{
		Use:   "meridian",
		Short: "Telescope mount control client",
		Long: `meridian drives a mount daemon over its control endpoint.

Motion verbs block until the mount lands and report the outcome through
the process exit status. Interrupting a motion verb sends a single stop
command before exiting.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to the configuration file")
	root.PersistentFlags().StringVar(&endpoint, "endpoint", "", "daemon endpoint, overriding the configuration")

	cctx := newCommandContext(&configPath, &endpoint)
	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if skipsConfigLoad(cmd) {
			return nil
		}
		_, err := cctx.ensureConfig()
		return err
	}

	root.AddCommand(
		newStatusCommand(cctx),
		newParkCommand(cctx),
		newSlewCommand(cctx),
		newHorizonCommand(cctx),
		newTrackCommand(cctx),
		newOffsetCommand(cctx),
		newStopCommand(cctx),
		newInitCommand(cctx),
		newHomeCommand(cctx),
		newKillCommand(cctx),
		newListParksCommand(cctx),
		newLogCommand(cctx),
		newConfigCommand(cctx),
	)
	return root
}

func skipsConfigLoad(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotationSkipConfig] == "true" {
			return true
		}
	}
	return false
}
