package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"meridian/internal/engine"
	"meridian/internal/exitcode"
	"meridian/internal/ipc"
	"meridian/internal/sky"
)

// reportParseError prints a local validation failure and marks it as
// already reported, before any network traffic happens.
func reportParseError(cmd *cobra.Command, err error) error {
	fmt.Fprintf(cmd.OutOrStdout(), "error: invalid %v\n", err)
	return &engine.ExitError{Code: exitcode.Reported}
}

func newStatusCommand(cctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the mount status panel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			command := engine.Command{
				Name: "status",
				Handler: cctx.queryCall(func(ctx context.Context, client *ipc.Client) (exitcode.Code, error) {
					report, code, err := client.ReportStatus(ctx)
					if err != nil || code != exitcode.Succeeded {
						return code, err
					}
					if report == nil {
						return exitcode.Failed, nil
					}
					if asJSON {
						if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
							return 0, err
						}
						return exitcode.Succeeded, nil
					}
					out := cmd.OutOrStdout()
					renderStatusPanel(out, report, shouldColorize(out))
					return exitcode.Succeeded, nil
				}),
			}
			return cctx.runVerb(cmd, command, args)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw status report as JSON")
	return cmd
}

func newParkCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "park <position>",
		Short: "Slew to a configured park position and stop there",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if cfg := cctx.configValue(); cfg != nil {
				if _, ok := cfg.Parks[name]; !ok {
					return reportParseError(cmd, fmt.Errorf("park position %q (valid: %s)",
						name, strings.Join(cfg.ParkNames(), " ")))
				}
			}
			command := engine.Command{
				Name:         "park",
				StopOnCancel: true,
				Handler: cctx.motionCall(func(ctx context.Context, client *ipc.Client) (exitcode.Code, error) {
					return client.Park(ctx, name)
				}),
			}
			return cctx.runVerb(cmd, command, args)
		},
	}
}

func newSlewCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "slew <ra> <dec>",
		Short: "Slew to an equatorial target and stop there",
		Long: `Slew moves the mount to the given right ascension and declination and
holds position without tracking. Coordinates are sexagesimal or decimal;
sexagesimal right ascension is in hours.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ra, err := sky.ParseRA(args[0])
			if err != nil {
				return reportParseError(cmd, err)
			}
			dec, err := sky.ParseDec(args[1])
			if err != nil {
				return reportParseError(cmd, err)
			}
			command := engine.Command{
				Name:         "slew",
				StopOnCancel: true,
				Handler: cctx.motionCall(func(ctx context.Context, client *ipc.Client) (exitcode.Code, error) {
					return client.SlewRADec(ctx, ra, dec)
				}),
			}
			return cctx.runVerb(cmd, command, args)
		},
	}
}

func newHorizonCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "horizon <alt> <az>",
		Short: "Slew to a horizontal target and stop there",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			alt, err := sky.ParseAlt(args[0])
			if err != nil {
				return reportParseError(cmd, err)
			}
			az, err := sky.ParseAz(args[1])
			if err != nil {
				return reportParseError(cmd, err)
			}
			command := engine.Command{
				Name:         "horizon",
				StopOnCancel: true,
				Handler: cctx.motionCall(func(ctx context.Context, client *ipc.Client) (exitcode.Code, error) {
					return client.SlewAltAz(ctx, alt, az)
				}),
			}
			return cctx.runVerb(cmd, command, args)
		},
	}
}

func newTrackCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "track <ra> <dec>",
		Short: "Slew to an equatorial target and keep following it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ra, err := sky.ParseRA(args[0])
			if err != nil {
				return reportParseError(cmd, err)
			}
			dec, err := sky.ParseDec(args[1])
			if err != nil {
				return reportParseError(cmd, err)
			}
			command := engine.Command{
				Name:         "track",
				StopOnCancel: true,
				Handler: cctx.motionCall(func(ctx context.Context, client *ipc.Client) (exitcode.Code, error) {
					return client.TrackRADec(ctx, ra, dec)
				}),
			}
			return cctx.runVerb(cmd, command, args)
		},
	}
}

func newOffsetCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "offset <dra> <ddec>",
		Short: "Nudge the tracked target by small equatorial offsets",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dra, err := sky.ParseOffset(args[0])
			if err != nil {
				return reportParseError(cmd, err)
			}
			ddec, err := sky.ParseOffset(args[1])
			if err != nil {
				return reportParseError(cmd, err)
			}
			command := engine.Command{
				Name:         "offset",
				StopOnCancel: true,
				Handler: cctx.motionCall(func(ctx context.Context, client *ipc.Client) (exitcode.Code, error) {
					return client.OffsetRADec(ctx, dra, ddec)
				}),
			}
			return cctx.runVerb(cmd, command, args)
		},
	}
}

func newStopCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Halt any motion and end tracking",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			command := engine.Command{
				Name: "stop",
				Handler: cctx.queryCall(func(ctx context.Context, client *ipc.Client) (exitcode.Code, error) {
					return client.Stop(ctx)
				}),
			}
			return cctx.runVerb(cmd, command, args)
		},
	}
}

func newInitCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Power the mount axes up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			command := engine.Command{
				Name: "init",
				Handler: cctx.queryCall(func(ctx context.Context, client *ipc.Client) (exitcode.Code, error) {
					return client.Initialize(ctx)
				}),
			}
			return cctx.runVerb(cmd, command, args)
		},
	}
}

func newHomeCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "Run the axis homing sequence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			command := engine.Command{
				Name:         "home",
				StopOnCancel: true,
				Handler: cctx.motionCall(func(ctx context.Context, client *ipc.Client) (exitcode.Code, error) {
					return client.FindHomes(ctx)
				}),
			}
			return cctx.runVerb(cmd, command, args)
		},
	}
}

func newKillCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "kill",
		Short: "Power the mount down",
		Long: `Kill aborts any motion and powers the mount axes down. The daemon keeps
running; a later init brings the mount back.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			command := engine.Command{
				Name: "kill",
				Handler: cctx.queryCall(func(ctx context.Context, client *ipc.Client) (exitcode.Code, error) {
					return client.Shutdown(ctx)
				}),
			}
			return cctx.runVerb(cmd, command, args)
		},
	}
}
