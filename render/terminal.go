package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/simloop/config"
	"github.com/lixenwraith/simloop/core"
	"github.com/lixenwraith/simloop/engine"
)

// Terminal presents draw batches on a tcell screen and executes window requests
// The logical canvas is measured in pixels; each terminal cell covers CellWidth x CellHeight pixels
// Fullscreen modes grow the logical canvas to the whole screen, windowed mode clips it to the configured size
type Terminal struct {
	screen tcell.Screen
	canvas *Canvas
	raster *Rasterizer
	logger zerolog.Logger

	width      int // Logical canvas size in pixels
	height     int
	fullscreen bool
	dirty      bool // Force a redraw of the last batch
	last       []core.DrawCommand
}

// TerminalOption configures a Terminal
type TerminalOption func(*Terminal)

// WithTerminalLogger sets the terminal logger
func WithTerminalLogger(l zerolog.Logger) TerminalOption {
	return func(t *Terminal) {
		t.logger = l
	}
}

// NewTerminal wraps an initialized screen; the caller keeps ownership of Init and Fini
func NewTerminal(screen tcell.Screen, cfg config.Config, opts ...TerminalOption) *Terminal {
	t := &Terminal{
		screen: screen,
		canvas: NewCanvas(0, 0),
		raster: NewRasterizer(cfg.CellWidth, cfg.CellHeight, NewTextureCache()),
		logger: zerolog.Nop(),
		width:  cfg.Width,
		height: cfg.Height,
	}
	for _, opt := range opts {
		opt(t)
	}
	screen.HideCursor()
	t.fit()
	return t
}

// Canvas exposes the compositor, mainly for inspection
func (t *Terminal) Canvas() *Canvas {
	return t.canvas
}

// Textures exposes the texture cache
func (t *Terminal) Textures() *TextureCache {
	return t.raster.Textures
}

// Fullscreen reports whether a fullscreen mode is active
func (t *Terminal) Fullscreen() bool {
	return t.fullscreen
}

// fit sizes the canvas to the cells the logical area covers, clipped to the screen
func (t *Terminal) fit() bool {
	sw, sh := t.screen.Size()
	cols, rows := sw, sh
	if !t.fullscreen {
		cols = min(cols, t.width/t.raster.CellWidth)
		rows = min(rows, t.height/t.raster.CellHeight)
	}
	if w, h := t.canvas.Bounds(); w == cols && h == rows {
		return false
	}
	t.canvas.Resize(cols, rows)
	return true
}

// Accepts implements engine.RequestSink for window requests
func (t *Terminal) Accepts(kind core.RequestKind) bool {
	return kind == core.RequestWindow
}

// HandleRequest implements engine.RequestSink
func (t *Terminal) HandleRequest(r core.Request) error {
	switch r := r.(type) {
	case core.EnableFullscreen, core.EnableDesktopFullscreen:
		t.fullscreen = true
		t.dirty = true
	case core.DisableFullscreen:
		t.fullscreen = false
		t.dirty = true
	case core.ResizeWindow:
		if r.Width <= 0 || r.Height <= 0 {
			return eris.Errorf("invalid window size %dx%d", r.Width, r.Height)
		}
		t.width, t.height = r.Width, r.Height
		t.dirty = true
	case core.SetBackgroundColor:
		t.canvas.SetBackground(r.Color)
		t.dirty = true
	case core.LoadTexture:
		return t.raster.Textures.Load(r.ID, r.Path)
	case core.LoadTextureBytes:
		return t.raster.Textures.LoadBytes(r.ID, r.Bytes)
	case core.UnloadTexture:
		return t.raster.Textures.Unload(r.ID)
	default:
		return eris.Errorf("unsupported window request %T", r)
	}
	t.logger.Debug().Msgf("window request %T", r)
	return nil
}

// DrawFrame implements engine.FrameSink
// A stale frame keeps the screen as is unless the window changed since the last draw
func (t *Terminal) DrawFrame(f engine.Frame) error {
	if t.fit() {
		t.dirty = true
	}
	if f.Fresh {
		t.last = f.Commands
	} else if !t.dirty {
		return nil
	}
	t.dirty = false

	t.canvas.Clear()
	for _, cmd := range t.last {
		if err := t.raster.Draw(t.canvas, cmd); err != nil {
			// Missing textures are skipped so a late load does not kill the frame
			if eris.Is(err, ErrTextureNotFound) {
				t.logger.Debug().Err(err).Uint64("frame", f.Number).Msg("texture skipped")
				continue
			}
			return err
		}
	}

	t.screen.Clear()
	t.canvas.Flush(t.screen)
	t.screen.Show()
	return nil
}
