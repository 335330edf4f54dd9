package cli

import (
	"strings"
)

// Table is a plain text table with dynamic column widths. Widths ignore ANSI
// escape sequences so colour swatches can be used as cells.
type Table struct {
	headers    []string
	rows       [][]string
	footer     []string
	padding    int
	alignRight map[int]bool
}

// NewTable creates a new table with the given headers.
func NewTable(headers []string) *Table {
	return &Table{
		headers:    headers,
		rows:       make([][]string, 0),
		padding:    2,
		alignRight: make(map[int]bool),
	}
}

// AlignRight right-aligns a column, for counts.
func (t *Table) AlignRight(colIndex int) {
	t.alignRight[colIndex] = true
}

// AddRow adds a row to the table. Rows are padded or truncated to the header
// count.
func (t *Table) AddRow(row []string) {
	t.rows = append(t.rows, t.fit(row))
}

// SetFooter sets a row printed after a second separator, for totals.
func (t *Table) SetFooter(row []string) {
	t.footer = t.fit(row)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

func (t *Table) fit(row []string) []string {
	if len(row) == len(t.headers) {
		return row
	}
	out := make([]string, len(t.headers))
	copy(out, row)
	return out
}

// Render formats and returns the table as a string.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	colWidths := make([]int, len(t.headers))
	measure := func(row []string) {
		for i, cell := range row {
			colWidths[i] = max(colWidths[i], visibleLen(cell))
		}
	}
	measure(t.headers)
	for _, row := range t.rows {
		measure(row)
	}
	if t.footer != nil {
		measure(t.footer)
	}

	var result strings.Builder
	gap := strings.Repeat(" ", t.padding)

	writeRow := func(row []string) {
		parts := make([]string, len(row))
		for i, cell := range row {
			if t.alignRight[i] {
				parts[i] = padLeft(cell, colWidths[i])
			} else {
				parts[i] = padRight(cell, colWidths[i])
			}
		}
		result.WriteString(strings.TrimRight(strings.Join(parts, gap), " "))
		result.WriteString("\n")
	}

	separator := make([]string, len(colWidths))
	for i, w := range colWidths {
		separator[i] = strings.Repeat("-", w)
	}

	writeRow(t.headers)
	writeRow(separator)
	for _, row := range t.rows {
		writeRow(row)
	}
	if t.footer != nil {
		writeRow(separator)
		writeRow(t.footer)
	}

	return result.String()
}

// visibleLen returns the printed width of s, skipping ANSI CSI sequences.
func visibleLen(s string) int {
	n := 0
	inEscape := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inEscape:
			if c >= '@' && c <= '~' && c != '[' {
				inEscape = false
			}
		case c == '\033':
			inEscape = true
		default:
			n++
		}
	}
	return n
}

// padRight pads a string with spaces on the right to reach the desired width.
func padRight(s string, width int) string {
	if l := visibleLen(s); l < width {
		return s + strings.Repeat(" ", width-l)
	}
	return s
}

// padLeft pads a string with spaces on the left to reach the desired width.
func padLeft(s string, width int) string {
	if l := visibleLen(s); l < width {
		return strings.Repeat(" ", width-l) + s
	}
	return s
}
