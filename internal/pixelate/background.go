package pixelate

// DefaultBackgroundKeys are the blank bead keys treated as background when the
// caller does not supply its own set.
var DefaultBackgroundKeys = []string{"T1", "H1", "H2"}

// KeySet builds a lookup set from a list of keys.
func KeySet(keys []string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}

// TagExternal marks background cells connected to the grid border as external
// and returns how many cells it marked. A background cell is connected when a
// 4-connected path of background cells leads from it to a border cell, so
// background holes enclosed by other colours stay internal. The fill uses an
// explicit stack and is safe for any grid size.
func TagExternal(g *Grid, background map[string]bool) int {
	if len(background) == 0 || len(g.Cells) == 0 {
		return 0
	}

	visited := make([]bool, len(g.Cells))
	var stack []point
	tagged := 0

	push := func(col, row int) {
		idx := g.index(col, row)
		if visited[idx] || !background[g.Cells[idx].Key] {
			return
		}
		visited[idx] = true
		stack = append(stack, point{col, row})
	}

	for col := range g.Cols {
		push(col, 0)
		push(col, g.Rows-1)
	}
	for row := range g.Rows {
		push(0, row)
		push(g.Cols-1, row)
	}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		idx := g.index(p.col, p.row)
		g.Cells[idx].External = true
		tagged++

		for _, d := range neighbours4 {
			n := point{p.col + d.col, p.row + d.row}
			if g.InBounds(n.col, n.row) {
				push(n.col, n.row)
			}
		}
	}

	return tagged
}
