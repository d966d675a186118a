package tui

import "testing"

func TestGetThemePreset_Dark(t *testing.T) {
	p := GetThemePreset("dark")
	if p.Name != "dark" {
		t.Errorf("Name = %q, want %q", p.Name, "dark")
	}
}

func TestGetThemePreset_Light(t *testing.T) {
	p := GetThemePreset("light")
	if p.Name != "light" {
		t.Errorf("Name = %q, want %q", p.Name, "light")
	}
}

func TestGetThemePreset_Mono(t *testing.T) {
	p := GetThemePreset("mono")
	if p.Name != "mono" {
		t.Errorf("Name = %q, want %q", p.Name, "mono")
	}
}

func TestGetThemePreset_Unknown(t *testing.T) {
	p := GetThemePreset("nonexistent")
	if p.Name != "dark" {
		t.Errorf("unknown name should return dark, got %q", p.Name)
	}
}

func TestAllThemePresets(t *testing.T) {
	presets := AllThemePresets()
	if len(presets) != 3 {
		t.Errorf("expected 3 presets, got %d", len(presets))
	}

	// Verify mutation safety: modifying the returned slice should not affect
	// the internal list.
	presets[0].Name = "mutated"
	original := AllThemePresets()
	if original[0].Name == "mutated" {
		t.Error("AllThemePresets should return a copy, not a reference")
	}
}

func TestApplyTheme(t *testing.T) {
	// Start with the default theme (set by init in theme.go).
	beforeTab := styleActiveTab

	// Apply a different theme.
	ApplyTheme(LightTheme)
	afterTab := styleActiveTab

	// The active tab background should differ because dark uses #06B6D4
	// and light uses #0E7490 for Primary.
	beforeBg := beforeTab.GetBackground()
	afterBg := afterTab.GetBackground()

	if beforeBg == afterBg {
		t.Error("expected styleActiveTab background to change after ApplyTheme")
	}

	// Restore the default theme for other tests.
	ApplyTheme(DarkTheme)
}

func TestApplyTheme_MonoReverse(t *testing.T) {
	// Mono has no Primary color; the active tab falls back to reverse video.
	ApplyTheme(MonoTheme)
	if !styleActiveTab.GetReverse() {
		t.Error("expected reverse video for the mono active tab")
	}

	ApplyTheme(DarkTheme)
	if styleActiveTab.GetReverse() {
		t.Error("expected no reverse video for the dark active tab")
	}
}

func TestApplyTheme_CompactMode(t *testing.T) {
	// Mono has CompactMode: true, which uses Padding(0, 1).
	ApplyTheme(MonoTheme)
	top, right, bottom, left := styleContent.GetPadding()
	if top != 0 || bottom != 0 {
		t.Errorf("compact mode: vertical padding should be 0, got top=%d bottom=%d", top, bottom)
	}
	if right != 1 || left != 1 {
		t.Errorf("compact mode: horizontal padding should be 1, got right=%d left=%d", right, left)
	}

	// Dark has CompactMode: false, which uses Padding(1, 2).
	ApplyTheme(DarkTheme)
	top, right, bottom, left = styleContent.GetPadding()
	if top != 1 || bottom != 1 {
		t.Errorf("full mode: vertical padding should be 1, got top=%d bottom=%d", top, bottom)
	}
	if right != 2 || left != 2 {
		t.Errorf("full mode: horizontal padding should be 2, got right=%d left=%d", right, left)
	}
}

func TestThemePreset_Names(t *testing.T) {
	for _, p := range AllThemePresets() {
		if p.Name == "" {
			t.Error("preset has empty Name")
		}
		if p.Description == "" {
			t.Errorf("preset %q has empty Description", p.Name)
		}
	}
}

func TestThemePreset_Colors(t *testing.T) {
	// Every preset needs a muted color for the footers. Dark and light carry
	// a full palette; mono deliberately leaves the rest empty so the
	// terminal defaults show through.
	for _, p := range AllThemePresets() {
		if string(p.Muted) == "" {
			t.Errorf("preset %q has empty Muted color", p.Name)
		}
	}

	for _, name := range []string{"dark", "light"} {
		p := GetThemePreset(name)
		if string(p.Primary) == "" || string(p.Secondary) == "" || string(p.Text) == "" {
			t.Errorf("preset %q should carry a full palette", name)
		}
	}

	mono := GetThemePreset("mono")
	if string(mono.Primary) != "" {
		t.Error("mono preset should leave Primary unset")
	}
}
