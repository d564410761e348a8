package event

// InputType represents the kind of input event
type InputType uint8

const (
	InputKeyPress InputType = iota
	InputResize
)

func (t InputType) String() string {
	switch t {
	case InputKeyPress:
		return "key_press"
	case InputResize:
		return "resize"
	default:
		return "unknown"
	}
}

// Input is an event produced by the presentation side and drained by the simulation once per tick
type Input interface {
	Type() InputType
	input()
}

// KeyPress reports a key press
// Rune is only meaningful when Key is KeyRune
type KeyPress struct {
	Key  Key
	Rune rune
	Mod  Modifier
}

// Resize reports a new presentation surface size in backend units, cells for a terminal
type Resize struct {
	Width, Height int
}

func (KeyPress) Type() InputType { return InputKeyPress }
func (Resize) Type() InputType  { return InputResize }

func (KeyPress) input() {}
func (Resize) input()  {}

// IsRune reports whether the event is the printable character r with no modifiers other than shift
func (k KeyPress) IsRune(r rune) bool {
	return k.Key == KeyRune && k.Rune == r && k.Mod&^ModShift == 0
}
