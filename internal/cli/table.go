package cli

import (
	"strings"
	"unicode/utf8"

	"github.com/jmylchreest/tonal/internal/colour"
)

// Table is a plain-text table with dynamic column widths. Cells may contain
// colour swatches; escape sequences do not count towards a column's width.
type Table struct {
	headers   []string
	rows      [][]string
	padding   int
	maxWidths map[int]int // Maximum width per column index (0 = no limit)
}

// NewTable creates a new table with the given headers.
func NewTable(headers []string) *Table {
	return &Table{
		headers:   headers,
		rows:      make([][]string, 0),
		padding:   2,
		maxWidths: make(map[int]int),
	}
}

// SetColumnMaxWidth wraps text in a column at maxWidth characters.
func (t *Table) SetColumnMaxWidth(colIndex int, maxWidth int) {
	t.maxWidths[colIndex] = maxWidth
}

// AddRow adds a row, padding or truncating it to the header count.
func (t *Table) AddRow(row []string) {
	if len(row) == len(t.headers) {
		t.rows = append(t.rows, row)
		return
	}
	fitted := make([]string, len(t.headers))
	copy(fitted, row)
	t.rows = append(t.rows, fitted)
}

// Render formats and returns the table as a string.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	wrapped := make([][][]string, len(t.rows))
	for r, row := range t.rows {
		wrapped[r] = make([][]string, len(row))
		for c, cell := range row {
			if limit := t.maxWidths[c]; limit > 0 {
				wrapped[r][c] = wrapText(cell, limit)
			} else {
				wrapped[r][c] = []string{cell}
			}
		}
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = displayWidth(h)
	}
	for _, row := range wrapped {
		for i, cell := range row {
			for _, line := range cell {
				if w := displayWidth(line); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}

	gap := strings.Repeat(" ", t.padding)
	var sb strings.Builder

	parts := make([]string, len(t.headers))
	for i, h := range t.headers {
		parts[i] = padRight(h, widths[i])
	}
	sb.WriteString(strings.Join(parts, gap))
	sb.WriteString("\n")

	for i, w := range widths {
		parts[i] = strings.Repeat("-", w)
	}
	sb.WriteString(strings.Join(parts, gap))
	sb.WriteString("\n")

	for _, row := range wrapped {
		lines := 1
		for _, cell := range row {
			lines = max(lines, len(cell))
		}
		for l := range lines {
			for c := range t.headers {
				text := ""
				if c < len(row) && l < len(row[c]) {
					text = row[c][l]
				}
				parts[c] = padRight(text, widths[c])
			}
			sb.WriteString(strings.Join(parts, gap))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// displayWidth is the number of visible characters in s.
func displayWidth(s string) int {
	return utf8.RuneCountInString(colour.StripANSI(s))
}

// padRight pads s with spaces to width visible characters.
func padRight(s string, width int) string {
	w := displayWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// wrapText wraps text to fit within the specified width, breaking at word boundaries.
func wrapText(text string, width int) []string {
	if width <= 0 || len(text) <= width {
		return []string{text}
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{text}
	}

	var lines []string
	current := ""
	for _, word := range words {
		if len(word) > width {
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			for len(word) > width {
				lines = append(lines, word[:width])
				word = word[width:]
			}
			current = word
			continue
		}

		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if len(candidate) <= width {
			current = candidate
		} else {
			if current != "" {
				lines = append(lines, current)
			}
			current = word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}

	return lines
}
