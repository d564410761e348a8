package core

// Color stores explicit 8-bit channels with straight alpha, decoupled from any backend
type Color struct {
	R, G, B, A uint8
}

// Predefined colors
var (
	Black   = RGB(0, 0, 0)
	White   = RGB(255, 255, 255)
	Red     = RGB(255, 0, 0)
	Green   = RGB(0, 255, 0)
	Blue    = RGB(0, 0, 255)
	Yellow  = RGB(255, 255, 0)
	Cyan    = RGB(0, 255, 255)
	Magenta = RGB(255, 0, 255)
	Gray    = RGB(128, 128, 128)
)

// RGB returns an opaque color
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// RGBA returns a color with explicit alpha
func RGBA(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// Opaque reports whether the color fully covers what is under it
func (c Color) Opaque() bool {
	return c.A == 255
}

// Blend performs alpha blending: result = src*alpha + dst*(1-alpha)
func (c Color) Blend(src Color, alpha float64) Color {
	if alpha <= 0 {
		return c
	}
	if alpha >= 1 {
		return Color{R: src.R, G: src.G, B: src.B, A: 255}
	}
	inv := 1.0 - alpha
	return Color{
		R: uint8(float64(src.R)*alpha + float64(c.R)*inv),
		G: uint8(float64(src.G)*alpha + float64(c.G)*inv),
		B: uint8(float64(src.B)*alpha + float64(c.B)*inv),
		A: 255,
	}
}

// Over composites src on top of c using src's own alpha channel
func (c Color) Over(src Color) Color {
	return c.Blend(src, float64(src.A)/255)
}

// Scale multiplies each color channel by factor, alpha untouched
func (c Color) Scale(factor float64) Color {
	if factor <= 0 {
		return Color{A: c.A}
	}
	if factor >= 1 {
		return c
	}
	return Color{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}
