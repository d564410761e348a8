package render

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/lixenwraith/simloop/core"
)

// Rasterizer maps pixel-space draw commands onto a cell canvas
// A cell is painted when the shape covers its sample point, the cell center
type Rasterizer struct {
	CellWidth  int
	CellHeight int
	Textures   *TextureCache
}

// NewRasterizer creates a rasterizer for cells of cellWidth x cellHeight pixels
func NewRasterizer(cellWidth, cellHeight int, textures *TextureCache) *Rasterizer {
	return &Rasterizer{
		CellWidth:  max(cellWidth, 1),
		CellHeight: max(cellHeight, 1),
		Textures:   textures,
	}
}

// Draw rasterizes one command; a texture command naming an unknown texture returns ErrTextureNotFound
func (r *Rasterizer) Draw(c *Canvas, cmd core.DrawCommand) error {
	switch cmd := cmd.(type) {
	case core.FilledRectangle:
		r.fillRect(c, cmd.Rect, cmd.Color)
	case core.Rectangle:
		r.strokeRect(c, cmd.Rect, cmd.Color)
	case core.FilledCircle:
		r.fillCircle(c, cmd.X, cmd.Y, cmd.Radius, cmd.Color)
	case core.Circle:
		r.strokeCircle(c, cmd.X, cmd.Y, cmd.Radius, cmd.Color)
	case core.Texture:
		return r.blit(c, cmd.ID, cmd.Src, cmd.Dst, nil, 0, false, false)
	case core.TextureEx:
		return r.blit(c, cmd.ID, cmd.Src, cmd.Dst, cmd.Center, cmd.Angle, cmd.FlipH, cmd.FlipV)
	default:
		return eris.Errorf("unsupported draw command %T", cmd)
	}
	return nil
}

// visibleSpan returns the canvas cells touched by the inclusive pixel box [minX, maxX] x [minY, maxY]
// The span is clipped to the canvas in floating point so huge shapes neither overflow nor iterate off-screen cells
func (r *Rasterizer) visibleSpan(c *Canvas, minX, minY, maxX, maxY float64) (x0, y0, x1, y1 int, ok bool) {
	cw, ch := c.Bounds()
	fx0 := math.Max(math.Floor(minX/float64(r.CellWidth)), 0)
	fy0 := math.Max(math.Floor(minY/float64(r.CellHeight)), 0)
	fx1 := math.Min(math.Floor(maxX/float64(r.CellWidth)), float64(cw-1))
	fy1 := math.Min(math.Floor(maxY/float64(r.CellHeight)), float64(ch-1))
	if fx0 > fx1 || fy0 > fy1 {
		return 0, 0, 0, 0, false
	}
	return int(fx0), int(fy0), int(fx1), int(fy1), true
}

// rectBox returns the inclusive pixel box of rect
func rectBox(rect core.Rect) (minX, minY, maxX, maxY float64) {
	return float64(rect.X), float64(rect.Y),
		float64(rect.X) + float64(rect.Width) - 1, float64(rect.Y) + float64(rect.Height) - 1
}

// center returns the sample point of cell (cx, cy) in pixels
func (r *Rasterizer) center(cx, cy int) (float64, float64) {
	return (float64(cx) + 0.5) * float64(r.CellWidth), (float64(cy) + 0.5) * float64(r.CellHeight)
}

// fillRect paints every cell overlapping rect so sub-cell rectangles stay visible
func (r *Rasterizer) fillRect(c *Canvas, rect core.Rect, color core.Color) {
	if rect.Empty() {
		return
	}
	minX, minY, maxX, maxY := rectBox(rect)
	x0, y0, x1, y1, ok := r.visibleSpan(c, minX, minY, maxX, maxY)
	if !ok {
		return
	}
	for cy := y0; cy <= y1; cy++ {
		for cx := x0; cx <= x1; cx++ {
			c.Paint(cx, cy, color)
		}
	}
}

// strokeRect paints the border cells of rect; edges off the canvas are not drawn
func (r *Rasterizer) strokeRect(c *Canvas, rect core.Rect, color core.Color) {
	if rect.Empty() {
		return
	}
	minX, minY, maxX, maxY := rectBox(rect)
	x0, y0, x1, y1, ok := r.visibleSpan(c, minX, minY, maxX, maxY)
	if !ok {
		return
	}
	left, right := math.Floor(minX/float64(r.CellWidth)), math.Floor(maxX/float64(r.CellWidth))
	top, bottom := math.Floor(minY/float64(r.CellHeight)), math.Floor(maxY/float64(r.CellHeight))
	for cy := y0; cy <= y1; cy++ {
		for cx := x0; cx <= x1; cx++ {
			fx, fy := float64(cx), float64(cy)
			if fx == left || fx == right || fy == top || fy == bottom {
				c.Paint(cx, cy, color)
			}
		}
	}
}

func (r *Rasterizer) circleSpan(c *Canvas, x, y, radius int) (x0, y0, x1, y1 int, ok bool) {
	fx, fy, rad := float64(x), float64(y), float64(radius)
	return r.visibleSpan(c, fx-rad, fy-rad, fx+rad, fy+rad)
}

// fillCircle paints cells whose center lies within radius; the cell holding the center is always painted
func (r *Rasterizer) fillCircle(c *Canvas, x, y, radius int, color core.Color) {
	if radius < 0 {
		return
	}
	x0, y0, x1, y1, ok := r.circleSpan(c, x, y, radius)
	if !ok {
		return
	}
	ox, oy := floorDiv(x, r.CellWidth), floorDiv(y, r.CellHeight)
	rad := float64(radius)
	for cy := y0; cy <= y1; cy++ {
		for cx := x0; cx <= x1; cx++ {
			px, py := r.center(cx, cy)
			if (cx == ox && cy == oy) || math.Hypot(px-float64(x), py-float64(y)) <= rad {
				c.Paint(cx, cy, color)
			}
		}
	}
}

// strokeCircle paints cells whose center lies within half a cell of the circumference
func (r *Rasterizer) strokeCircle(c *Canvas, x, y, radius int, color core.Color) {
	if radius < 0 {
		return
	}
	x0, y0, x1, y1, ok := r.circleSpan(c, x, y, radius)
	if !ok {
		return
	}
	tolerance := float64(max(r.CellWidth, r.CellHeight)) / 2
	rad := float64(radius)
	for cy := y0; cy <= y1; cy++ {
		for cx := x0; cx <= x1; cx++ {
			px, py := r.center(cx, cy)
			if math.Abs(math.Hypot(px-float64(x), py-float64(y))-rad) <= tolerance {
				c.Paint(cx, cy, color)
			}
		}
	}
}

// blit samples the texture at every cell center covered by the transformed destination
// Angle is in degrees clockwise; flips mirror the source before rotation
func (r *Rasterizer) blit(c *Canvas, id string, src, dst *core.Rect, center *core.Point, angle float64, flipH, flipV bool) error {
	tex, err := r.Textures.Get(id)
	if err != nil {
		return err
	}

	s := tex.Bounds()
	if src != nil {
		s = src.Intersect(tex.Bounds())
	}
	cw, ch := c.Bounds()
	d := core.NewRect(0, 0, cw*r.CellWidth, ch*r.CellHeight)
	if dst != nil {
		d = *dst
	}
	if s.Empty() || d.Empty() {
		return nil
	}

	pivot := d.Center()
	if center != nil {
		pivot = core.Point{X: d.X + center.X, Y: d.Y + center.Y}
	}
	sin, cos := math.Sincos(-angle * math.Pi / 180)
	rotated := angle != 0

	// Unrotated blits only visit the destination cells; rotated ones visit the whole canvas
	minX, minY, maxX, maxY := rectBox(d)
	x0, y0, x1, y1, ok := r.visibleSpan(c, minX, minY, maxX, maxY)
	if rotated {
		x0, y0, x1, y1, ok = 0, 0, cw-1, ch-1, cw > 0 && ch > 0
	}
	if !ok {
		return nil
	}

	for cy := y0; cy <= y1; cy++ {
		for cx := x0; cx <= x1; cx++ {
			px, py := r.center(cx, cy)
			if rotated {
				dx, dy := px-float64(pivot.X), py-float64(pivot.Y)
				px = float64(pivot.X) + dx*cos - dy*sin
				py = float64(pivot.Y) + dx*sin + dy*cos
			}

			u := (px - float64(d.X)) / float64(d.Width)
			v := (py - float64(d.Y)) / float64(d.Height)
			if u < 0 || u >= 1 || v < 0 || v >= 1 {
				continue
			}
			if flipH {
				u = 1 - u
			}
			if flipV {
				v = 1 - v
			}

			sx := s.X + min(int(u*float64(s.Width)), s.Width-1)
			sy := s.Y + min(int(v*float64(s.Height)), s.Height-1)
			c.Paint(cx, cy, tex.At(sx, sy))
		}
	}
	return nil
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
