// Package manpage generates a roff-formatted man page for link-pulse.
//
// The man page is generated at runtime from the actual KeyRegistry and
// compiled-in version information, keeping documentation in sync with
// the code automatically.
//
// Usage:
//
//	link-pulse -man | man -l -
//	link-pulse -man > ~/.local/share/man/man1/link-pulse.1
package manpage

import (
	"fmt"
	"strings"
	"time"

	"gitlab.com/tinyland/lab/link-pulse/display/tui"
)

// Generate produces a complete roff-formatted man(1) page for link-pulse.
// The version, commit, and date parameters are passed from the build-time
// linker variables so the man page always reflects the current build.
func Generate(version, commit, date string) string {
	var b strings.Builder

	writeHeader(&b, version)
	writeName(&b)
	writeSynopsis(&b)
	writeDescription(&b)
	writeOptions(&b)
	writeKeybindings(&b)
	writeConfiguration(&b)
	writeShellIntegration(&b)
	writeFiles(&b)
	writeExamples(&b)
	writeEnvironment(&b)
	writeExitStatus(&b)
	writeSeeAlso(&b)
	writeAuthors(&b)
	writeBugs(&b)
	writeFooter(&b, version, commit, date)

	return b.String()
}

// roffEscape escapes special roff characters in a string.
func roffEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `-`, `\-`)
	s = strings.ReplaceAll(s, `.`, `\&.`)
	return s
}

func writeHeader(b *strings.Builder, version string) {
	month := time.Now().Format("January 2006")
	fmt.Fprintf(b, ".TH LINK-PULSE 1 \"%s\" \"link-pulse %s\" \"User Commands\"\n", month, version)
}

func writeName(b *strings.Builder) {
	b.WriteString(`.SH NAME
link\-pulse \- live network throughput and Wi\-Fi link quality sampler
`)
}

func writeSynopsis(b *strings.Builder) {
	b.WriteString(`.SH SYNOPSIS
.B link\-pulse
[\fIOPTIONS\fR]
`)
}

func writeDescription(b *strings.Builder) {
	b.WriteString(`.SH DESCRIPTION
.B link\-pulse
samples network interface counters and wireless link state, smooths the
readings with exponential moving averages, and publishes change-coalesced
snapshots of throughput, Wi\-Fi quality, and host health. Snapshots are
persisted so one\-shot invocations render instantly from the last run.
.PP
The tool operates in several modes:
.IP \(bu 2
.B Watch mode
(\fB\-watch\fR): Launches an interactive terminal view with Network,
Wi\-Fi, and System tabs fed live from the samplers.
.IP \(bu 2
.B Report mode
(\fB\-once\fR, default with no flags): Prints a boxed report card of the
three snapshots. When the cache is cold it samples briefly first.
.IP \(bu 2
.B Segment mode
(\fB\-segment\fR): Prints a one\-line status segment for prompt
embedding. Reads only the cache so the prompt never waits on sampling.
.IP \(bu 2
.B JSON mode
(\fB\-json\fR): Prints the snapshots as machine\-readable JSON.
.IP \(bu 2
.B Diagnostics
(\fB\-health\fR, \fB\-doctor\fR): Report snapshot freshness and walk
the probe environment (interfaces, wireless support, rfkill).
`)
}

func writeOptions(b *strings.Builder) {
	b.WriteString(`.SH OPTIONS
`)

	flags := []struct {
		flag string
		arg  string
		desc string
	}{
		{"watch", "", "Launch the interactive watch view. Three tabs (Network, Wi\\-Fi, System) update live as the samplers publish; rate history renders as sparklines."},
		{"once", "", "Print the boxed report card and exit. Renders from cached snapshots when they are fresh; otherwise runs the samplers for a couple of ticks first. This is the default mode."},
		{"segment", "", "Print a one\\-line status segment for embedding in a shell prompt. Reads only cached snapshots and never samples, so it returns immediately."},
		{"json", "", "Print the snapshots as JSON. With \\fB\\-health\\fR, prints the health report as JSON instead."},
		{"shell", "SHELL", "Output a shell integration script for the specified shell. SHELL must be one of: bash, zsh, fish, nu. The script refreshes the prompt segment before each prompt and binds Ctrl+N to the watch view."},
		{"health", "", "Report snapshot ages and cache freshness. Exit code 0 means every snapshot is fresh, 1 means stale or missing."},
		{"doctor", "", "Diagnose the sampling environment: interfaces found, wireless support, rfkill state, counter source visibility."},
		{"keys", "", "Show all registered keybindings in a formatted table. Can be filtered by mode and formatted as JSON."},
		{"mode", "MODE", "Filter keybindings by mode when used with \\fB\\-keys\\fR. MODE must be one of: tui, shell."},
		{"format", "FORMAT", "Output format for \\fB\\-keys\\fR. FORMAT must be one of: table (default), json."},
		{"reset\\-cache", "", "Remove every cached snapshot and exit."},
		{"fixed", "", "Use deterministic scripted probes instead of reading the host. Useful for demos and for testing display layouts."},
		{"interval", "DUR", "Override the network sampling interval (e.g. 500ms, 2s). The Wi\\-Fi and system intervals scale from their configured values."},
		{"wifi\\-interface", "NAME", "Pin the Wi\\-Fi interface to sample. The default (auto) picks the first wireless interface found."},
		{"config", "PATH", "Path to the YAML configuration file. Default: ~/.config/link\\-pulse/config.yaml."},
		{"no\\-color", "", "Disable colored output. Equivalent to setting display.color to never."},
		{"verbose", "", "Enable verbose (debug\\-level) logging to stderr."},
		{"version", "", "Print the version, commit hash, and build date, then exit."},
		{"man", "", "Print this man page to stdout in roff format. Pipe to man(1) for formatted viewing: \\fBlink\\-pulse \\-man | man \\-l \\-\\fR."},
	}

	for _, f := range flags {
		b.WriteString(".TP\n")
		if f.arg != "" {
			fmt.Fprintf(b, ".BR \\-%s \" \\fI%s\\fR\"\n", f.flag, f.arg)
		} else {
			fmt.Fprintf(b, ".B \\-%s\n", f.flag)
		}
		b.WriteString(f.desc + "\n")
	}
}

func writeKeybindings(b *strings.Builder) {
	b.WriteString(`.SH KEYBINDINGS
The following keybindings are registered in the KeyRegistry and are the
single source of truth for all link\-pulse input handling.
`)

	registry := tui.DefaultRegistry()

	modes := []struct {
		mode tui.KeyMode
		name string
		desc string
	}{
		{tui.ModeTUI, "Watch Mode", "Active in the interactive watch view (\\fB\\-watch\\fR)."},
		{tui.ModeShell, "Shell Mode", "Active in shell integration scripts (\\fB\\-shell\\fR)."},
	}

	for _, m := range modes {
		entries := registry.ByMode(m.mode)
		if len(entries) == 0 {
			continue
		}

		fmt.Fprintf(b, ".SS %s\n%s\n", m.name, m.desc)

		// Group by category within each mode.
		categories := []struct {
			cat  tui.KeyCategory
			name string
		}{
			{tui.CategoryNavigation, "Navigation"},
			{tui.CategorySystem, "System"},
		}

		for _, cat := range categories {
			var catEntries []tui.KeyEntry
			for _, e := range entries {
				if e.Category == cat.cat {
					catEntries = append(catEntries, e)
				}
			}
			if len(catEntries) == 0 {
				continue
			}

			fmt.Fprintf(b, ".PP\n\\fI%s:\\fR\n", cat.name)
			for _, e := range catEntries {
				keysStr := strings.Join(e.Binding.Keys(), ", ")
				desc := e.Binding.Help().Desc
				fmt.Fprintf(b, ".TP\n.B %s\n%s (since %s)\n", roffEscape(keysStr), desc, e.Since)
			}
		}
	}
}

func writeConfiguration(b *strings.Builder) {
	b.WriteString(`.SH CONFIGURATION
Configuration is read from a YAML file at
.B ~/.config/link\-pulse/config.yaml
by default, or from the path specified with \fB\-config\fR.
.PP
The configuration file is organized into the following top-level sections:
.SS sampling
.TP
.B network_interval
Tick period for the throughput sampler (e.g. "1s"). Default: "1s".
.TP
.B wifi_interval
Tick period for the Wi\-Fi sampler. Default: "2s".
.TP
.B system_interval
Tick period for the host sampler. Default: "5s".
.TP
.B network_alpha
EMA weight for the throughput filters, between 0 and 1. Higher values
track spikes faster; lower values smooth harder. Default: 0.3.
.TP
.B wifi_time_constant
Time constant for the adaptive Wi\-Fi signal filter (e.g. "5s").
Default: "5s".
.TP
.B gap_floor
Minimum pause treated as a sampling gap (e.g. "5s"). The effective gap
threshold is the larger of this and gap_factor times the interval.
Default: "5s".
.TP
.B gap_factor
Multiple of the tick interval treated as a sampling gap. Default: 4.
.SS wifi
.TP
.B interface
Wireless interface to sample, or "auto" to detect. Default: "auto".
.TP
.B bands
Quality band edges for the 0\-100 signal score: snr_low, snr_high (dB),
signal_low, signal_high (dBm).
.SS cache
.TP
.B enabled
Persist published snapshots for warm starts. Default: true.
.TP
.B dir
Snapshot directory. Default: ~/.cache/link\-pulse.
.SS display
.TP
.B theme
Watch view theme: "dark" (default), "light", or "mono".
.TP
.B color
Color mode: "auto" (default), "always", or "never".
.SS segment
.TP
.B max_width
Cell budget for the prompt segment line. 0 means uncapped. Default: 0.
.TP
.B parts
Toggles for the segment parts: wifi, rates, battery.
.SS log
.TP
.B level
Log level: "debug", "info", "warn", or "error". Default: "warn".
.TP
.B file
Optional log file path. Empty logs to stderr only.
`)
}

func writeShellIntegration(b *strings.Builder) {
	b.WriteString(`.SH SHELL INTEGRATION
Shell integration scripts refresh the prompt segment before each prompt,
bind a key (default Ctrl+N) to launch the watch view, and define lp\-*
convenience functions for health checks and cache management.
.PP
Generate and source the integration script for your shell:
.SS Bash
.nf
eval "$(link\-pulse \-shell bash)"
.fi
.PP
Or add to ~/.bashrc for persistent integration.
.SS Zsh
.nf
eval "$(link\-pulse \-shell zsh)"
.fi
.PP
Or add to ~/.zshrc for persistent integration.
.SS Fish
.nf
link\-pulse \-shell fish | source
.fi
.PP
Or add to ~/.config/fish/config.fish for persistent integration.
.SS Nushell
.nf
link\-pulse \-shell nu | save \-f ~/.config/nushell/link\-pulse.nu
source ~/.config/nushell/link\-pulse.nu
.fi
.PP
Nushell does not support eval, so the script must be saved to a file first.
`)
}

func writeFiles(b *strings.Builder) {
	b.WriteString(`.SH FILES
.TP
.I ~/.config/link\-pulse/config.yaml
Primary configuration file (YAML).
.TP
.I ~/.cache/link\-pulse/
Snapshot cache directory.
.TP
.I ~/.cache/link\-pulse/network.json
Last published throughput snapshot.
.TP
.I ~/.cache/link\-pulse/wifi.json
Last published Wi\-Fi link snapshot.
.TP
.I ~/.cache/link\-pulse/system.json
Last published host snapshot, including the CPU history ring.
`)
}

func writeExamples(b *strings.Builder) {
	b.WriteString(`.SH EXAMPLES
Print the report card:
.PP
.nf
link\-pulse
.fi
.PP
Launch the live watch view:
.PP
.nf
link\-pulse \-watch
.fi
.PP
Watch with deterministic demo data:
.PP
.nf
link\-pulse \-watch \-fixed
.fi
.PP
Check snapshot freshness:
.PP
.nf
link\-pulse \-health
link\-pulse \-health \-json
.fi
.PP
Embed the segment in a prompt (bash):
.PP
.nf
eval "$(link\-pulse \-shell bash)"
.fi
.PP
Pin the sampled wireless interface:
.PP
.nf
link\-pulse \-watch \-wifi\-interface wlan0
.fi
.PP
View keybindings:
.PP
.nf
link\-pulse \-keys
link\-pulse \-keys \-mode tui
link\-pulse \-keys \-format json
.fi
.PP
View this man page:
.PP
.nf
link\-pulse \-man | man \-l \-
.fi
.PP
Install the man page permanently:
.PP
.nf
link\-pulse \-man > ~/.local/share/man/man1/link\-pulse.1
.fi
`)
}

func writeEnvironment(b *strings.Builder) {
	b.WriteString(`.SH ENVIRONMENT
.TP
.B LINK_PULSE_CONFIG
Override path to the configuration file. The \fB\-config\fR flag wins
over this variable.
.TP
.B NO_COLOR
Disable colored output when set, unless display.color is "always".
.TP
.B COLUMNS, LINES
Fallback terminal dimensions when TTY detection fails.
`)
}

func writeExitStatus(b *strings.Builder) {
	b.WriteString(".SH EXIT STATUS\n")
	b.WriteString(".TP\n.B 0\n")
	b.WriteString("Success. For \\fB\\-health\\fR, indicates every snapshot is fresh.\n")
	b.WriteString(".TP\n.B 1\n")
	b.WriteString("Failure. For \\fB\\-health\\fR, indicates a stale or missing snapshot.\n")
}

func writeSeeAlso(b *strings.Builder) {
	b.WriteString(`.SH SEE ALSO
.BR iw (8),
.BR rfkill (8),
.BR ip (8),
.BR proc (5)
`)
}

func writeAuthors(b *strings.Builder) {
	b.WriteString(`.SH AUTHORS
Tinyland Lab <https://gitlab.com/tinyland/lab>
`)
}

func writeBugs(b *strings.Builder) {
	b.WriteString(`.SH BUGS
Report bugs at <https://gitlab.com/tinyland/lab/link\-pulse/\-/issues>.
`)
}

func writeFooter(b *strings.Builder, version, commit, date string) {
	fmt.Fprintf(b, ".SH VERSION\n%s (%s) built %s\n", version, commit, date)
}
