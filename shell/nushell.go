package shell

import "fmt"

// GenerateNushellIntegration returns a Nushell script snippet that provides
// link-pulse commands and completions. The prompt hook assigns the right
// prompt directly; keybinding configuration is emitted as comments because
// Nushell keybindings must be defined statically in the user's config.nu and
// cannot be added dynamically via source.
func GenerateNushellIntegration(cfg IntegrationConfig) string {
	return fmt.Sprintf(`# link-pulse shell integration for Nushell

# Right prompt shows the link segment
$env.PROMPT_COMMAND_RIGHT = { || ^%[1]s -segment }

# Keybinding: add the following block to $env.config.keybindings in your config.nu:
# {
#     name: link_pulse_watch
#     modifier: control
#     keycode: char_n
#     mode: [emacs vi_normal vi_insert]
#     event: {
#         send: executehostcommand
#         cmd: "%[1]s -watch"
#     }
# }

# Print a one-shot status card
def lp-status [] {
    ^%[1]s -once
}

# Launch the live dashboard
def lp-watch [] {
    ^%[1]s -watch
}

# Print the one-line prompt segment
def lp-segment [] {
    ^%[1]s -segment
}

# Report snapshot freshness
def lp-health [] {
    ^%[1]s -health
}

# Diagnose the probe environment
def lp-doctor [] {
    ^%[1]s -doctor
}

# Drop cached snapshots
def lp-reset [] {
    ^%[1]s -reset-cache
}

# Completions
def "nu-complete link-pulse shell" [] {
    ["bash" "zsh" "fish" "nu"]
}

extern "%[1]s" [
    --watch                                  # Launch the live dashboard
    --once                                   # Print a one-shot status card
    --json                                   # Print the current snapshots as JSON
    --segment                                # Print the one-line prompt segment
    --shell: string@"nu-complete link-pulse shell"  # Print shell integration
    --health                                 # Report snapshot freshness
    --doctor                                 # Diagnose the probe environment
    --man                                    # Print the man page
    --reset-cache                            # Drop cached snapshots
    --config: path                           # Config file path
    --version                                # Show version
]
`, cfg.BinaryPath)
}
