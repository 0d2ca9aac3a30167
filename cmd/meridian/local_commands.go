package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"meridian/internal/journal"
)

// newListParksCommand answers entirely from configuration; the daemon is
// never contacted.
func newListParksCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list-parks",
		Short: "List the configured park positions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(cfg.ParkNames(), " "))
			return nil
		},
	}
}

func newLogCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "log [count]",
		Short: "Show recent commands from the shared journal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count := 20
			if len(args) == 1 {
				parsed, err := strconv.Atoi(args[0])
				if err != nil || parsed <= 0 {
					return reportParseError(cmd, fmt.Errorf("entry count %q is not a positive integer", args[0]))
				}
				count = parsed
			}
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}

			jrnl, err := journal.OpenReadOnly(cfg.JournalPath())
			if errors.Is(err, fs.ErrNotExist) {
				fmt.Fprintln(cmd.OutOrStdout(), "no commands recorded yet")
				return nil
			}
			if err != nil {
				return err
			}
			defer jrnl.Close()

			entries, err := jrnl.Recent(cmd.Context(), count)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no commands recorded yet")
				return nil
			}
			renderJournalTable(cmd.OutOrStdout(), entries)
			return nil
		},
	}
}

func renderJournalTable(out io.Writer, entries []journal.Entry) {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Time", "Verb", "Arguments", "Result", "Duration"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Duration", Align: text.AlignRight},
	})
	for _, entry := range entries {
		tw.AppendRow(table.Row{
			entry.StartedAt.Local().Format("2006-01-02 15:04:05"),
			entry.Verb,
			entry.Arguments,
			entry.Code.String(),
			entry.FinishedAt.Sub(entry.StartedAt).Round(time.Millisecond).String(),
		})
	}
	tw.Render()
}
