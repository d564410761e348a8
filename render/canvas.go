package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/simloop/core"
)

// Cell is one terminal cell of the canvas
type Cell struct {
	Rune rune
	Fg   core.Color
	Bg   core.Color
}

// Canvas is a compositor over a grid of terminal cells with touched tracking
type Canvas struct {
	cells      []Cell
	touched    []bool
	width      int
	height     int
	background core.Color
}

// NewCanvas creates a canvas of width x height cells
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{background: core.Black}
	c.Resize(width, height)
	return c
}

// Resize adjusts canvas dimensions, reallocates only if capacity insufficient
func (c *Canvas) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	size := width * height
	if cap(c.cells) < size {
		c.cells = make([]Cell, size)
		c.touched = make([]bool, size)
	} else {
		c.cells = c.cells[:size]
		c.touched = c.touched[:size]
	}
	c.width = width
	c.height = height
	c.Clear()
}

// SetBackground sets the color cells take on Clear
func (c *Canvas) SetBackground(bg core.Color) {
	bg.A = 255
	c.background = bg
}

// Background returns the clear color
func (c *Canvas) Background() core.Color {
	return c.background
}

// Clear resets all cells to the background using exponential copy
func (c *Canvas) Clear() {
	if len(c.cells) == 0 {
		return
	}
	c.cells[0] = Cell{Rune: ' ', Fg: c.background, Bg: c.background}
	c.touched[0] = false
	for filled := 1; filled < len(c.cells); filled *= 2 {
		copy(c.cells[filled:], c.cells[:filled])
	}
	for filled := 1; filled < len(c.touched); filled *= 2 {
		copy(c.touched[filled:], c.touched[:filled])
	}
}

// Bounds returns the canvas size in cells
func (c *Canvas) Bounds() (int, int) {
	return c.width, c.height
}

func (c *Canvas) inBounds(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

// Get returns the cell at (x, y), zero value when out of bounds
func (c *Canvas) Get(x, y int) Cell {
	if !c.inBounds(x, y) {
		return Cell{}
	}
	return c.cells[y*c.width+x]
}

// Touched reports whether (x, y) was painted since the last Clear
func (c *Canvas) Touched(x, y int) bool {
	return c.inBounds(x, y) && c.touched[y*c.width+x]
}

// Paint composites color over the background of (x, y) using the color's alpha
func (c *Canvas) Paint(x, y int, color core.Color) {
	if !c.inBounds(x, y) || color.A == 0 {
		return
	}
	idx := y*c.width + x
	c.cells[idx].Bg = c.cells[idx].Bg.Over(color)
	c.touched[idx] = true
}

// Flush writes every cell to screen
func (c *Canvas) Flush(screen tcell.Screen) {
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			cell := c.cells[y*c.width+x]
			r := cell.Rune
			if r == 0 {
				r = ' '
			}
			style := tcell.StyleDefault.Foreground(toTcell(cell.Fg)).Background(toTcell(cell.Bg))
			screen.SetContent(x, y, r, nil, style)
		}
	}
}

func toTcell(c core.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
