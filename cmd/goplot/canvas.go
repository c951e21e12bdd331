package main

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Canvas is a braille dot canvas: each cell holds 2×4 dots, so a canvas of
// cols×rows cells has a device size of 2*cols × 4*rows. Each cell keeps the
// colour of the last dot set in it.
type Canvas struct {
	cols, rows int
	Grid       [][]rune
	colors     [][]string
}

// NewCanvas returns a blank canvas.
func NewCanvas(cols, rows int) *Canvas {
	c := &Canvas{cols: cols, rows: rows}
	c.Grid = make([][]rune, rows)
	c.colors = make([][]string, rows)
	for i := range c.Grid {
		c.Grid[i] = make([]rune, cols)
		c.colors[i] = make([]string, cols)
	}
	c.Clear()
	return c
}

// Size returns the canvas size in dots.
func (c *Canvas) Size() (w, h int) { return c.cols * 2, c.rows * 4 }

func (c *Canvas) Clear() {
	for y := range c.Grid {
		for x := range c.Grid[y] {
			c.Grid[y][x] = 0x2800
			c.colors[y][x] = ""
		}
	}
}

// dotBits[dy][dx] is the braille bit for the dot at (dx, dy) inside a cell.
var dotBits = [4][2]rune{{0x01, 0x08}, {0x02, 0x10}, {0x04, 0x20}, {0x40, 0x80}}

// Set lights dot (x, y). Dots outside the canvas are ignored.
func (c *Canvas) Set(x, y int, color string) {
	w, h := c.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	col, row := x/2, y/4
	c.Grid[row][col] |= dotBits[y%4][x%2]
	if color != "" {
		c.colors[row][col] = color
	}
}

// DrawLine draws a Bresenham line. Endpoints far outside the canvas are
// clipped to a margin first so clamped samples do not cost long walks.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, color string) {
	w, h := c.Size()
	if !clipLine(&x0, &y0, &x1, &y1, w, h) {
		return
	}
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		c.Set(x0, y0, color)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// clipLine shortens the segment to the band y in [-h, 2h], keeping its slope.
// It reports false when nothing of the segment can be visible.
func clipLine(x0, y0, x1, y1 *int, w, h int) bool {
	lo, hi := -h, 2*h
	if (*y0 < lo && *y1 < lo) || (*y0 > hi && *y1 > hi) || (*x0 < 0 && *x1 < 0) || (*x0 >= w && *x1 >= w) {
		return false
	}
	clip := func(xa, ya *int, xb, yb int) {
		target := *ya
		if *ya < lo {
			target = lo
		} else if *ya > hi {
			target = hi
		}
		if target == *ya {
			return
		}
		f := float64(target-yb) / float64(*ya-yb)
		*xa = xb + int(math.Round(f*float64(*xa-xb)))
		*ya = target
	}
	clip(x0, y0, *x1, *y1)
	clip(x1, y1, *x0, *y0)
	return true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// String renders the canvas, colouring each cell with lipgloss.
func (c *Canvas) String() string {
	styles := map[string]lipgloss.Style{}
	var b strings.Builder
	for y, row := range c.Grid {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x, r := range row {
			color := c.colors[y][x]
			if color == "" || r == 0x2800 {
				b.WriteRune(r)
				continue
			}
			st, ok := styles[color]
			if !ok {
				st = lipgloss.NewStyle().Foreground(lipgloss.Color(color))
				styles[color] = st
			}
			b.WriteString(st.Render(string(r)))
		}
	}
	return b.String()
}

// Plain renders the canvas without colour.
func (c *Canvas) Plain() string {
	var b strings.Builder
	for y, row := range c.Grid {
		if y > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(row))
	}
	return b.String()
}
