package tui

import (
	"strings"
	"testing"

	"gitlab.com/tinyland/lab/link-pulse/display/color"
	"gitlab.com/tinyland/lab/link-pulse/sampler"
)

func TestDetectLayout_Compact(t *testing.T) {
	tests := []int{10, 30, 59}
	for _, width := range tests {
		got := DetectLayout(width)
		if got != LayoutCompact {
			t.Errorf("DetectLayout(%d) = %d, want LayoutCompact (%d)", width, got, LayoutCompact)
		}
	}
}

func TestDetectLayout_Normal(t *testing.T) {
	tests := []int{60, 80, 100, 120}
	for _, width := range tests {
		got := DetectLayout(width)
		if got != LayoutNormal {
			t.Errorf("DetectLayout(%d) = %d, want LayoutNormal (%d)", width, got, LayoutNormal)
		}
	}
}

func TestDetectLayout_Wide(t *testing.T) {
	tests := []int{121, 150, 200}
	for _, width := range tests {
		got := DetectLayout(width)
		if got != LayoutWide {
			t.Errorf("DetectLayout(%d) = %d, want LayoutWide (%d)", width, got, LayoutWide)
		}
	}
}

func TestLayoutForSize_Compact(t *testing.T) {
	cfg := LayoutForSize(LayoutCompact, 50)

	if cfg.GaugeWidth != 10 {
		t.Errorf("Compact GaugeWidth = %d, want 10", cfg.GaugeWidth)
	}
	if cfg.SparkWidth != 20 {
		t.Errorf("Compact SparkWidth = %d, want 20", cfg.SparkWidth)
	}
	if cfg.RuleWidth != 46 {
		t.Errorf("Compact RuleWidth = %d, want 46", cfg.RuleWidth)
	}
	if cfg.ShowSparklines {
		t.Error("Compact ShowSparklines should be false")
	}
}

func TestLayoutForSize_Normal(t *testing.T) {
	cfg := LayoutForSize(LayoutNormal, 100)

	if cfg.GaugeWidth != 20 {
		t.Errorf("Normal GaugeWidth = %d, want 20", cfg.GaugeWidth)
	}
	if cfg.SparkWidth != 30 {
		t.Errorf("Normal SparkWidth = %d, want 30", cfg.SparkWidth)
	}
	if cfg.RuleWidth != 92 {
		t.Errorf("Normal RuleWidth = %d, want 92", cfg.RuleWidth)
	}
	if !cfg.ShowSparklines {
		t.Error("Normal ShowSparklines should be true")
	}
}

func TestLayoutForSize_Wide(t *testing.T) {
	cfg := LayoutForSize(LayoutWide, 150)

	if cfg.GaugeWidth != 30 {
		t.Errorf("Wide GaugeWidth = %d, want 30", cfg.GaugeWidth)
	}
	if cfg.SparkWidth != 45 {
		t.Errorf("Wide SparkWidth = %d, want 45", cfg.SparkWidth)
	}
	if cfg.RuleWidth != 138 {
		t.Errorf("Wide RuleWidth = %d, want 138", cfg.RuleWidth)
	}
	if !cfg.ShowSparklines {
		t.Error("Wide ShowSparklines should be true")
	}
}

func TestLabeledRow(t *testing.T) {
	got := labeledRow("Down", "1.2 MB/s")

	if !strings.Contains(got, "Down:") {
		t.Errorf("labeledRow = %q, missing label", got)
	}
	if !strings.Contains(got, "1.2 MB/s") {
		t.Errorf("labeledRow = %q, missing value", got)
	}
}

func TestLabeledRow_Alignment(t *testing.T) {
	// Labels of different lengths pad to the same column, so values line up.
	short := color.StripANSI(labeledRow("Up", "340 B/s"))
	long := color.StripANSI(labeledRow("Total down", "5.0 GB"))

	shortIdx := strings.Index(short, "340 B/s")
	longIdx := strings.Index(long, "5.0 GB")
	if shortIdx != longIdx {
		t.Errorf("value columns misaligned: %d vs %d (%q / %q)", shortIdx, longIdx, short, long)
	}
}

func TestLabeledRow_UnicodeLabelAlignment(t *testing.T) {
	// The arrow labels pad by rune count, not byte count.
	plain := color.StripANSI(labeledRow("History ↓", "▁▂▃"))
	ascii := color.StripANSI(labeledRow("Total up", "▁▂▃"))

	plainCol := len([]rune(plain[:strings.Index(plain, "▁")]))
	asciiCol := len([]rune(ascii[:strings.Index(ascii, "▁")]))
	if plainCol != asciiCol {
		t.Errorf("unicode label misaligned: col %d vs %d", plainCol, asciiCol)
	}
}

func TestStatsLine(t *testing.T) {
	got := statsLine(sampler.Stats{Ticks: 42, GapEvents: 3, Observers: 2})
	want := "ticks 42, gaps 3, observers 2"
	if got != want {
		t.Errorf("statsLine = %q, want %q", got, want)
	}
}

func TestTruncateText_Short(t *testing.T) {
	got := truncateText("hello", 10)
	if got != "hello" {
		t.Errorf("truncateText(\"hello\", 10) = %q, want %q", got, "hello")
	}
}

func TestTruncateText_Exact(t *testing.T) {
	got := truncateText("hello", 5)
	if got != "hello" {
		t.Errorf("truncateText(\"hello\", 5) = %q, want %q", got, "hello")
	}
}

func TestTruncateText_Long(t *testing.T) {
	got := truncateText("hello world", 8)
	if got != "hello..." {
		t.Errorf("truncateText(\"hello world\", 8) = %q, want %q", got, "hello...")
	}
}

func TestTruncateText_VeryShort(t *testing.T) {
	// maxWidth < 4 should hard-truncate without ellipsis.
	got := truncateText("hello", 3)
	if got != "hel" {
		t.Errorf("truncateText(\"hello\", 3) = %q, want %q", got, "hel")
	}

	got = truncateText("hello", 0)
	if got != "" {
		t.Errorf("truncateText(\"hello\", 0) = %q, want %q", got, "")
	}
}

func TestHorizontalRule(t *testing.T) {
	got := horizontalRule(10)
	if len([]rune(got)) != 10 {
		t.Errorf("horizontalRule(10) length = %d, want 10", len([]rune(got)))
	}
	for _, r := range got {
		if r != '─' {
			t.Errorf("horizontalRule(10) contains unexpected rune %U", r)
		}
	}

	// Zero width should return empty.
	got = horizontalRule(0)
	if got != "" {
		t.Errorf("horizontalRule(0) = %q, want empty", got)
	}
}
