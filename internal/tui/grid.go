// Package tui provides the Bubble Tea training interface.
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const (
	gridSide       = 3
	cellInnerWidth = 7
	cellInnerLines = 3
)

func renderGrid(lit int, symbol string) string {
	rows := make([]string, 0, gridSide)
	for row := 0; row < gridSide; row++ {
		cells := make([]string, 0, gridSide)
		for col := 0; col < gridSide; col++ {
			idx := row*gridSide + col
			cells = append(cells, renderCell(idx == lit, symbol))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderCell(lit bool, symbol string) string {
	content := cellContent(lit, symbol)
	if lit {
		return cellLitStyle.Render(content)
	}
	return cellStyle.Render(content)
}

func cellContent(lit bool, symbol string) string {
	lines := make([]string, cellInnerLines)
	for i := range lines {
		lines[i] = strings.Repeat(" ", cellInnerWidth)
	}
	if lit && symbol != "" {
		lines[cellInnerLines/2] = centerText(symbolStyle.Render(symbol), runewidth.StringWidth(symbol), cellInnerWidth)
	}
	return strings.Join(lines, "\n")
}

// centerText pads a rendered string to width using its display width,
// which may differ from its byte or rune length for wide symbols.
func centerText(rendered string, displayWidth, width int) string {
	if displayWidth >= width {
		return rendered
	}
	left := (width - displayWidth) / 2
	right := width - displayWidth - left
	return strings.Repeat(" ", left) + rendered + strings.Repeat(" ", right)
}
