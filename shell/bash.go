package shell

import "fmt"

// GenerateBashIntegration returns a Bash script snippet that provides
// link-pulse shell integration. Source the output in ~/.bashrc.
func GenerateBashIntegration(cfg IntegrationConfig) string {
	return fmt.Sprintf(`# link-pulse shell integration for Bash
# Source this in your ~/.bashrc or ~/.bash_profile

# Refresh the prompt segment before each prompt
_link_pulse_prompt() {
    LINK_PULSE_SEGMENT="$(%[1]s -segment 2>/dev/null)"
}
PROMPT_COMMAND="_link_pulse_prompt${PROMPT_COMMAND:+; $PROMPT_COMMAND}"
# Embed the segment in your PS1, e.g.:
# PS1='[\u@\h \W] ${LINK_PULSE_SEGMENT}\$ '

# Launch the live dashboard with Ctrl+N
_link_pulse_watch() {
    %[1]s -watch
}
bind -x '"%[2]s": _link_pulse_watch'

# One-shot status card
lp-status() {
    %[1]s -once
}

# Live dashboard
lp-watch() {
    %[1]s -watch
}

# One-line prompt segment
lp-segment() {
    %[1]s -segment
}

# Snapshot freshness report
lp-health() {
    %[1]s -health
}

# Probe environment diagnostics
lp-doctor() {
    %[1]s -doctor
}

# Drop cached snapshots
lp-reset() {
    %[1]s -reset-cache
}
`, cfg.BinaryPath, cfg.WatchKeybinding)
}
