package core

import "time"

// RequestKind routes a Request to the presentation-side subsystem that owns it
type RequestKind uint8

const (
	RequestAudio RequestKind = iota
	RequestWindow
	RequestControl
)

func (k RequestKind) String() string {
	switch k {
	case RequestAudio:
		return "audio"
	case RequestWindow:
		return "window"
	case RequestControl:
		return "control"
	default:
		return "unknown"
	}
}

// Request is an outbound message from the simulation to the presentation side
// Each request carries everything needed to act on it without calling back into the simulation
type Request interface {
	Kind() RequestKind
	request()
}

// ===== AUDIO =====

// PlaySound plays a built-in effect; Volume is linear gain in [0, 1]
type PlaySound struct {
	Sound  SoundType
	Volume float64
}

// PlayTone plays a sine tone
type PlayTone struct {
	Frequency float64
	Duration  time.Duration
	Volume    float64
}

// SetMuted silences or restores all audio output
type SetMuted struct {
	Muted bool
}

// ===== WINDOW =====

// EnableFullscreen switches to exclusive fullscreen
type EnableFullscreen struct{}

// EnableDesktopFullscreen switches to borderless desktop-sized fullscreen
type EnableDesktopFullscreen struct{}

// DisableFullscreen returns to windowed mode
type DisableFullscreen struct{}

// ResizeWindow sets the logical canvas size in pixels
type ResizeWindow struct {
	Width, Height int
}

// SetBackgroundColor sets the color the canvas is cleared to before each frame
type SetBackgroundColor struct {
	Color Color
}

// LoadTexture registers a texture from a file under ID
type LoadTexture struct {
	ID   string
	Path string
}

// LoadTextureBytes registers a texture from encoded bytes under ID
type LoadTextureBytes struct {
	ID    string
	Bytes []byte
}

// UnloadTexture drops the texture registered under ID
type UnloadTexture struct {
	ID string
}

// ===== CONTROL =====

// StopRequest asks the presentation side to shut everything down
type StopRequest struct{}

func (PlaySound) Kind() RequestKind               { return RequestAudio }
func (PlayTone) Kind() RequestKind                { return RequestAudio }
func (SetMuted) Kind() RequestKind                { return RequestAudio }
func (EnableFullscreen) Kind() RequestKind        { return RequestWindow }
func (EnableDesktopFullscreen) Kind() RequestKind { return RequestWindow }
func (DisableFullscreen) Kind() RequestKind       { return RequestWindow }
func (ResizeWindow) Kind() RequestKind            { return RequestWindow }
func (SetBackgroundColor) Kind() RequestKind      { return RequestWindow }
func (LoadTexture) Kind() RequestKind             { return RequestWindow }
func (LoadTextureBytes) Kind() RequestKind        { return RequestWindow }
func (UnloadTexture) Kind() RequestKind           { return RequestWindow }
func (StopRequest) Kind() RequestKind             { return RequestControl }

func (PlaySound) request()               {}
func (PlayTone) request()                {}
func (SetMuted) request()                {}
func (EnableFullscreen) request()        {}
func (EnableDesktopFullscreen) request() {}
func (DisableFullscreen) request()       {}
func (ResizeWindow) request()            {}
func (SetBackgroundColor) request()      {}
func (LoadTexture) request()             {}
func (LoadTextureBytes) request()        {}
func (UnloadTexture) request()           {}
func (StopRequest) request()             {}
