package shell

import (
	"strings"
	"testing"
)

func TestGenerateBashIntegration_ContainsKeybinding(t *testing.T) {
	cfg := DefaultIntegrationConfig()
	output := GenerateBashIntegration(cfg)

	if !strings.Contains(output, "bind -x") {
		t.Error("output should contain bind -x for bash keybinding")
	}
	if !strings.Contains(output, `\C-n`) {
		t.Error("output should contain \\C-n keybinding")
	}
}

func TestGenerateBashIntegration_ContainsPromptHook(t *testing.T) {
	cfg := DefaultIntegrationConfig()
	output := GenerateBashIntegration(cfg)

	if !strings.Contains(output, "PROMPT_COMMAND=") {
		t.Error("output should append to PROMPT_COMMAND")
	}
	if !strings.Contains(output, "LINK_PULSE_SEGMENT=") {
		t.Error("output should set LINK_PULSE_SEGMENT for PS1 embedding")
	}
	if !strings.Contains(output, "link-pulse -segment") {
		t.Error("prompt hook should call link-pulse -segment")
	}
}

func TestGenerateBashIntegration_ContainsFunctions(t *testing.T) {
	cfg := DefaultIntegrationConfig()
	output := GenerateBashIntegration(cfg)

	functions := []string{"lp-status", "lp-watch", "lp-segment", "lp-health", "lp-doctor", "lp-reset"}
	for _, fn := range functions {
		if !strings.Contains(output, fn+"()") {
			t.Errorf("output should contain function %s()", fn)
		}
	}
}

func TestGenerateBashIntegration_UsesBinaryPath(t *testing.T) {
	cfg := DefaultIntegrationConfig()
	cfg.BinaryPath = "/usr/local/bin/link-pulse"
	output := GenerateBashIntegration(cfg)

	if !strings.Contains(output, "/usr/local/bin/link-pulse -watch") {
		t.Error("output should use custom binary path for -watch")
	}
	if !strings.Contains(output, "/usr/local/bin/link-pulse -segment") {
		t.Error("output should use custom binary path for -segment")
	}
	if !strings.Contains(output, "/usr/local/bin/link-pulse -reset-cache") {
		t.Error("output should use custom binary path for -reset-cache")
	}
}

func TestGenerateBashIntegration_Header(t *testing.T) {
	cfg := DefaultIntegrationConfig()
	output := GenerateBashIntegration(cfg)

	if !strings.HasPrefix(output, "# link-pulse shell integration for Bash") {
		t.Error("output should start with Bash header comment")
	}
}
