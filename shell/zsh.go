package shell

import "fmt"

// GenerateZshIntegration returns a Zsh script snippet that provides
// link-pulse shell integration. Source the output in ~/.zshrc.
func GenerateZshIntegration(cfg IntegrationConfig) string {
	return fmt.Sprintf(`# link-pulse shell integration for Zsh
# Source this in your ~/.zshrc

# Refresh the prompt segment before each prompt
_link_pulse_prompt() {
    LINK_PULSE_SEGMENT="$(%[1]s -segment 2>/dev/null)"
}
autoload -Uz add-zsh-hook
add-zsh-hook precmd _link_pulse_prompt
# Embed the segment in your prompt, e.g.:
# setopt prompt_subst
# RPROMPT='${LINK_PULSE_SEGMENT}'

# Launch the live dashboard with Ctrl+N
_link_pulse_watch() {
    BUFFER=""
    zle reset-prompt
    %[1]s -watch
    zle reset-prompt
}
zle -N _link_pulse_watch
bindkey '^N' _link_pulse_watch

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

# Zsh completion for link-pulse
_link_pulse_completion() {
    local -a commands
    commands=(
        '-watch:Launch the live dashboard'
        '-once:Print a one-shot status card'
        '-json:Print the current snapshots as JSON'
        '-segment:Print the one-line prompt segment'
        '-shell:Print shell integration (bash|zsh|fish|nu)'
        '-health:Report snapshot freshness'
        '-doctor:Diagnose the probe environment'
        '-man:Print the man page'
        '-reset-cache:Drop cached snapshots'
        '-config:Config file path'
        '-version:Show version'
    )
    _describe 'link-pulse' commands
}
compdef _link_pulse_completion link-pulse
`, cfg.BinaryPath)
}
