package shell

import "fmt"

// GenerateFishIntegration returns a Fish shell script snippet that provides
// link-pulse prompt wiring, keybindings, helper functions, and tab
// completions.
func GenerateFishIntegration(cfg IntegrationConfig) string {
	return fmt.Sprintf(`# link-pulse shell integration for Fish

# Right prompt shows the link segment unless one is already defined
if not functions -q fish_right_prompt
    function fish_right_prompt
        %[1]s -segment 2>/dev/null
    end
end

# Launch the live dashboard with Ctrl+N
function _link_pulse_watch
    commandline -f repaint
    %[1]s -watch
    commandline -f repaint
end
bind \cn _link_pulse_watch

function lp-status -d "Print a one-shot status card"
    %[1]s -once
end

function lp-watch -d "Launch the live dashboard"
    %[1]s -watch
end

function lp-segment -d "Print the one-line prompt segment"
    %[1]s -segment
end

function lp-health -d "Report snapshot freshness"
    %[1]s -health
end

function lp-doctor -d "Diagnose the probe environment"
    %[1]s -doctor
end

function lp-reset -d "Drop cached snapshots"
    %[1]s -reset-cache
end

# Completions
complete -c %[1]s -o watch -d "Launch the live dashboard"
complete -c %[1]s -o once -d "Print a one-shot status card"
complete -c %[1]s -o json -d "Print the current snapshots as JSON"
complete -c %[1]s -o segment -d "Print the one-line prompt segment"
complete -c %[1]s -o shell -d "Print shell integration" -xa "bash zsh fish nu"
complete -c %[1]s -o health -d "Report snapshot freshness"
complete -c %[1]s -o doctor -d "Diagnose the probe environment"
complete -c %[1]s -o man -d "Print the man page"
complete -c %[1]s -o reset-cache -d "Drop cached snapshots"
complete -c %[1]s -o config -d "Config file path" -rF
complete -c %[1]s -o version -d "Show version"
`, cfg.BinaryPath)
}
