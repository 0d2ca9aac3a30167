package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"meridian/internal/ipc"
	"meridian/internal/mount"
	"meridian/internal/sky"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"

	statusIndent     = "  "
	statusLabelWidth = 20
)

type statusKind int

const (
	statusOK statusKind = iota
	statusWarn
	statusError
	statusInfo
)

func (k statusKind) badge() string {
	switch k {
	case statusOK:
		return "[OK]"
	case statusWarn:
		return "[WARN]"
	case statusError:
		return "[ERROR]"
	default:
		return "[INFO]"
	}
}

func (k statusKind) color() string {
	switch k {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	default:
		return ansiBlue
	}
}

func shouldColorize(out io.Writer) bool {
	file, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

// stateKind picks the badge severity for a mount state: green for the
// landed states, yellow while in motion, red when powered down.
func stateKind(state string) statusKind {
	switch mount.State(state) {
	case mount.StateTracking, mount.StateParked:
		return statusOK
	case mount.StateSlewing, mount.StateHoming:
		return statusWarn
	case mount.StateDisabled:
		return statusError
	default:
		return statusInfo
	}
}

func renderStatusPanel(out io.Writer, report *ipc.StatusReport, colorize bool) {
	renderSectionHeader(out, "Mount")
	renderBadgeLine(out, "State", stateKind(report.State), report.State, colorize)
	homedKind, homedText := statusWarn, "no"
	if report.AxesHomed {
		homedKind, homedText = statusOK, "yes"
	}
	renderBadgeLine(out, "Axes homed", homedKind, homedText, colorize)
	fmt.Fprintln(out)

	renderSectionHeader(out, "Pointing")
	renderLabelLine(out, "RA / Dec", sky.FormatHMS(report.RA)+"  "+sky.FormatDMS(report.Dec))
	renderLabelLine(out, "Alt / Az", sky.FormatDMS(report.Alt)+"  "+sky.FormatDMS(report.Az))
	renderLabelLine(out, "Offsets", fmt.Sprintf("%+.3f / %+.3f deg", report.OffsetRA, report.OffsetDec))
	fmt.Fprintln(out)

	renderSectionHeader(out, "Sky")
	renderLabelLine(out, "LST", sky.FormatHMS(report.LST))
	renderLabelLine(out, "Sun separation", fmt.Sprintf("%.1f deg", report.SunSeparation))
	renderLabelLine(out, "Moon separation", fmt.Sprintf("%.1f deg", report.MoonSeparation))
	fmt.Fprintln(out)

	renderSectionHeader(out, "Site")
	renderLabelLine(out, "Latitude", sky.FormatDMS(report.SiteLatitude))
	renderLabelLine(out, "Longitude", sky.FormatDMS(report.SiteLongitude))
}

func renderSectionHeader(out io.Writer, title string) {
	header := fmt.Sprintf("== %s ==", title)
	fmt.Fprintln(out, header)
	fmt.Fprintln(out, strings.Repeat("-", len(header)))
}

func renderBadgeLine(out io.Writer, label string, kind statusKind, text string, colorize bool) {
	badge := kind.badge()
	if colorize {
		badge = kind.color() + badge + ansiReset
	}
	fmt.Fprintf(out, "%s%-*s %s %s\n", statusIndent, statusLabelWidth, label+":", badge, text)
}

func renderLabelLine(out io.Writer, label, value string) {
	fmt.Fprintf(out, "%s%-*s %s\n", statusIndent, statusLabelWidth, label+":", value)
}
