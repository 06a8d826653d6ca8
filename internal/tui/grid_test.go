package tui

import (
	"strings"
	"testing"
)

func TestCenterTextPads(t *testing.T) {
	out := centerText("C", 1, 7)
	if len(out) != 7 {
		t.Fatalf("expected width 7, got %d: %q", len(out), out)
	}
	if strings.TrimSpace(out) != "C" {
		t.Fatalf("unexpected content: %q", out)
	}
	if out[3] != 'C' {
		t.Fatalf("symbol not centered: %q", out)
	}
}

func TestCenterTextWideContent(t *testing.T) {
	if out := centerText("ABCDEFGH", 8, 7); out != "ABCDEFGH" {
		t.Fatalf("over-wide content must pass through: %q", out)
	}
}

func TestCellContentLineCount(t *testing.T) {
	content := cellContent(false, "")
	if lines := strings.Split(content, "\n"); len(lines) != cellInnerLines {
		t.Fatalf("expected %d lines, got %d", cellInnerLines, len(lines))
	}
}

func TestCellContentShowsSymbolOnlyWhenLit(t *testing.T) {
	if !strings.Contains(cellContent(true, "C"), "C") {
		t.Fatalf("lit cell must show the symbol")
	}
	if strings.Contains(cellContent(false, "C"), "C") {
		t.Fatalf("unlit cell must not show the symbol")
	}
}
