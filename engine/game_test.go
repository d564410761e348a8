package engine

import (
	"bytes"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/simloop/config"
	"github.com/lixenwraith/simloop/core"
	"github.com/lixenwraith/simloop/event"
)

type recordingSink struct {
	kind     core.RequestKind
	requests []core.Request
	err      error
}

func (s *recordingSink) Accepts(kind core.RequestKind) bool { return kind == s.kind }

func (s *recordingSink) HandleRequest(r core.Request) error {
	s.requests = append(s.requests, r)
	return s.err
}

type recordingFrames struct {
	frames []Frame
}

func (f *recordingFrames) DrawFrame(frame Frame) error {
	f.frames = append(f.frames, frame)
	return nil
}

type scriptedInput struct {
	pending []event.Input
}

func (p *scriptedInput) Update(state *SharedState) error {
	for _, in := range p.pending {
		if err := state.PushEvent(in); err != nil {
			return err
		}
	}
	p.pending = nil
	return nil
}

func fastConfig() config.Config {
	cfg := config.Default()
	cfg.TicksPerSecond = 1000
	cfg.FrameRate = 500
	return cfg
}

func TestDispatchRoutesByKind(t *testing.T) {
	state := NewSharedState()
	audio := &recordingSink{kind: core.RequestAudio}
	window := &recordingSink{kind: core.RequestWindow}

	require.NoError(t, state.PushRequests(
		core.PlaySound{Sound: core.SoundCoin},
		core.SetBackgroundColor{Color: core.Blue},
		core.PlayTone{Frequency: 440},
	))

	unhandled, err := Dispatch(state, audio, window)
	require.NoError(t, err)
	assert.Empty(t, unhandled)
	assert.Equal(t, []core.Request{core.PlaySound{Sound: core.SoundCoin}, core.PlayTone{Frequency: 440}}, audio.requests)
	assert.Equal(t, []core.Request{core.SetBackgroundColor{Color: core.Blue}}, window.requests)
	assert.True(t, state.Running())
}

func TestDispatchStopRequestAndUnhandled(t *testing.T) {
	state := NewSharedState()
	require.NoError(t, state.PushRequests(core.EnableFullscreen{}, core.StopRequest{}))

	unhandled, err := Dispatch(state)
	require.NoError(t, err)
	assert.Equal(t, []core.Request{core.EnableFullscreen{}}, unhandled)
	assert.False(t, state.Running())
}

func TestDispatchReturnsSinkError(t *testing.T) {
	state := NewSharedState()
	boom := eris.New("boom")
	window := &recordingSink{kind: core.RequestWindow, err: boom}
	require.NoError(t, state.PushRequest(core.UnloadTexture{ID: "missing"}))

	_, err := Dispatch(state, window)
	assert.True(t, eris.Is(err, boom))
}

func TestGameRunRejectsInvalidConfig(t *testing.T) {
	cfg := fastConfig()
	cfg.TicksPerSecond = 0

	err := NewGame(cfg).Run(nil)
	assert.True(t, eris.Is(err, config.ErrInvalidConfig))
}

func TestGameRunEndToEnd(t *testing.T) {
	audio := &recordingSink{kind: core.RequestAudio}
	frames := &recordingFrames{}
	input := &scriptedInput{pending: []event.Input{event.KeyPress{Key: event.KeyRune, Rune: 'q'}}}

	game := NewGame(fastConfig(),
		WithPresenters(input),
		WithRequestSinks(audio),
		WithFrameSinks(frames),
	)

	err := game.Run(func(h *Handle) error {
		With(h.AddEntity(), counter{})
		AddSystem(h, func(h *Handle, _ core.Entity, c *counter) error {
			c.N++
			h.Draw(core.FilledRectangle{Rect: core.NewRect(c.N, 0, 1, 1), Color: core.Green})
			for _, in := range h.Events() {
				if k, ok := in.(event.KeyPress); ok && k.IsRune('q') {
					if err := h.Send(core.PlaySound{Sound: core.SoundBlip, Volume: 1}); err != nil {
						return err
					}
				}
			}
			if c.N == 50 {
				return h.Send(core.StopRequest{})
			}
			return nil
		})
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []core.Request{core.PlaySound{Sound: core.SoundBlip, Volume: 1}}, audio.requests)
	require.NotEmpty(t, frames.frames)
	assert.Equal(t, uint64(1), frames.frames[0].Number)
	for i := 1; i < len(frames.frames); i++ {
		assert.Equal(t, frames.frames[i-1].Number+1, frames.frames[i].Number)
	}
}

func TestGameRunReturnsSystemError(t *testing.T) {
	boom := eris.New("boom")
	err := NewGame(fastConfig()).Run(func(h *Handle) error {
		With(h.AddEntity(), counter{})
		AddSystem(h, func(h *Handle, _ core.Entity, c *counter) error {
			c.N++
			if c.N == 3 {
				return boom
			}
			return nil
		})
		return nil
	})
	assert.True(t, eris.Is(err, boom))
}

func TestGameRunSurfacesSimulationPanic(t *testing.T) {
	err := NewGame(fastConfig()).Run(func(h *Handle) error {
		With(h.AddEntity(), counter{})
		AddSystem(h, func(h *Handle, _ core.Entity, _ *counter) error {
			panic("system exploded")
		})
		return nil
	})
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrSimulationCrashed))
	assert.Contains(t, err.Error(), "system exploded")
}

func TestGameRunStopsAtMaxTicks(t *testing.T) {
	cfg := fastConfig()
	cfg.MaxTicks = 5

	var buf bytes.Buffer
	require.NoError(t, NewGame(cfg, WithGameLogger(zerolog.New(zerolog.SyncWriter(&buf)))).Run(nil))
	assert.Contains(t, buf.String(), `"message":"tick limit reached"`)
	assert.Contains(t, buf.String(), `"message":"game stopped"`)
	assert.Contains(t, buf.String(), `"batches":`)
}
