package core

// DrawKind identifies the primitive a DrawCommand describes
type DrawKind uint8

const (
	DrawRectangle DrawKind = iota
	DrawFilledRectangle
	DrawCircle
	DrawFilledCircle
	DrawTexture
	DrawTextureEx
)

func (k DrawKind) String() string {
	switch k {
	case DrawRectangle:
		return "rectangle"
	case DrawFilledRectangle:
		return "filled_rectangle"
	case DrawCircle:
		return "circle"
	case DrawFilledCircle:
		return "filled_circle"
	case DrawTexture:
		return "texture"
	case DrawTextureEx:
		return "texture_ex"
	default:
		return "unknown"
	}
}

// DrawCommand describes one primitive or texture blit for the presentation side
// The set of implementations is closed; renderers switch on the concrete type
type DrawCommand interface {
	Kind() DrawKind
	drawCommand()
}

// Rectangle draws the outline of Rect
type Rectangle struct {
	Rect  Rect
	Color Color
}

// FilledRectangle fills Rect
type FilledRectangle struct {
	Rect  Rect
	Color Color
}

// Circle draws the outline of a circle centered at (X, Y)
type Circle struct {
	X, Y   int
	Radius int
	Color  Color
}

// FilledCircle fills a circle centered at (X, Y)
type FilledCircle struct {
	X, Y   int
	Radius int
	Color  Color
}

// Texture blits the texture registered under ID
// Nil Src means the whole texture, nil Dst means the whole canvas
type Texture struct {
	ID  string
	Src *Rect
	Dst *Rect
}

// TextureEx is Texture with rotation (degrees, clockwise) around Center and mirroring
// Center is relative to the top-left of Dst; nil rotates around the middle of Dst
type TextureEx struct {
	ID     string
	Src    *Rect
	Dst    *Rect
	Center *Point
	Angle  float64
	FlipH  bool
	FlipV  bool
}

func (Rectangle) Kind() DrawKind       { return DrawRectangle }
func (FilledRectangle) Kind() DrawKind { return DrawFilledRectangle }
func (Circle) Kind() DrawKind          { return DrawCircle }
func (FilledCircle) Kind() DrawKind    { return DrawFilledCircle }
func (Texture) Kind() DrawKind         { return DrawTexture }
func (TextureEx) Kind() DrawKind       { return DrawTextureEx }

func (Rectangle) drawCommand()       {}
func (FilledRectangle) drawCommand() {}
func (Circle) drawCommand()          {}
func (FilledCircle) drawCommand()    {}
func (Texture) drawCommand()         {}
func (TextureEx) drawCommand()       {}
