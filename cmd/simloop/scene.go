package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"math/rand"

	"github.com/rotisserie/eris"

	"github.com/lixenwraith/simloop/config"
	"github.com/lixenwraith/simloop/core"
	"github.com/lixenwraith/simloop/engine"
	"github.com/lixenwraith/simloop/event"
)

const (
	starTexture  = "star"
	maxBalls     = 64
	playerSpeed  = 8.0
	playerRadius = 10
)

var backgrounds = []core.Color{
	core.RGB(12, 12, 28),
	core.RGB(28, 12, 12),
	core.RGB(12, 28, 12),
}

// Body is a moving disc bouncing inside the arena
type Body struct {
	X, Y   float64
	VX, VY float64
	Radius int
	Color  core.Color
}

// Player marks the body steered by the keyboard
type Player struct {
	Speed float64
}

// Sprite draws a spinning texture over a body
type Sprite struct {
	Texture string
	Size    int
	Angle   float64
	Spin    float64 // Degrees per tick
}

// Arena holds the playfield bounds and presentation toggles
type Arena struct {
	Bounds     core.Rect
	Background int
	Fullscreen bool
	Muted      bool
}

// scene is the demo: bouncing balls, a steerable player and a spinning sprite
type scene struct {
	cfg config.Config
	rng *rand.Rand
}

func newScene(cfg config.Config, seed int64) *scene {
	return &scene{cfg: cfg, rng: rand.New(rand.NewSource(seed))}
}

// Init registers systems in update order and spawns the initial entities
func (s *scene) Init(h *engine.Handle) error {
	tex, err := starPNG(16)
	if err != nil {
		return err
	}
	if err := h.SendAll(
		core.LoadTextureBytes{ID: starTexture, Bytes: tex},
		core.SetBackgroundColor{Color: backgrounds[0]},
	); err != nil {
		return err
	}

	engine.AddSystem[Arena](h, s.arenaSystem)
	engine.AddSystem[Player](h, s.playerSystem)
	engine.AddSystem[Body](h, s.bodySystem)
	engine.AddSystem[Sprite](h, s.spriteSystem)

	engine.With(h.AddEntity(), Arena{
		Bounds: core.NewRect(0, 0, s.cfg.Width, s.cfg.Height),
		Muted:  s.cfg.Muted,
	}).Build()

	engine.With(engine.With(h.AddEntity(), Player{Speed: playerSpeed}), Body{
		X:      float64(s.cfg.Width) / 2,
		Y:      float64(s.cfg.Height) / 2,
		Radius: playerRadius,
		Color:  core.Yellow,
	}).Build()

	for i := 0; i < 3; i++ {
		s.spawnBall(h)
	}

	engine.With(engine.With(h.AddEntity(), Body{
		X: float64(s.cfg.Width) / 4, Y: float64(s.cfg.Height) / 4,
		VX: 3, VY: 2, Radius: 16,
	}), Sprite{Texture: starTexture, Size: 32, Spin: 6}).Build()

	h.Logger().Info().Int("bodies", engine.CountComponents[Body](h)).Msg("scene initialized")
	return nil
}

func (s *scene) spawnBall(h *engine.Handle) core.Entity {
	angle := s.rng.Float64() * 2 * math.Pi
	speed := 2 + s.rng.Float64()*4
	return engine.With(h.AddEntity(), Body{
		X:      float64(s.cfg.Width) * (0.2 + 0.6*s.rng.Float64()),
		Y:      float64(s.cfg.Height) * (0.2 + 0.6*s.rng.Float64()),
		VX:     math.Cos(angle) * speed,
		VY:     math.Sin(angle) * speed,
		Radius: 6 + s.rng.Intn(10),
		Color:  core.RGB(uint8(80+s.rng.Intn(176)), uint8(80+s.rng.Intn(176)), uint8(80+s.rng.Intn(176))),
	}).Build()
}

// arenaSystem handles global keys and draws the playfield border
func (s *scene) arenaSystem(h *engine.Handle, _ core.Entity, a *Arena) error {
	for _, in := range h.Events() {
		switch in := in.(type) {
		case event.KeyPress:
			var req core.Request
			switch {
			case in.Key == event.KeyEscape || in.IsRune('q'):
				req = core.StopRequest{}
			case in.IsRune('f'):
				a.Fullscreen = !a.Fullscreen
				req = core.DisableFullscreen{}
				if a.Fullscreen {
					req = core.EnableDesktopFullscreen{}
				}
			case in.IsRune('b'):
				a.Background = (a.Background + 1) % len(backgrounds)
				req = core.SetBackgroundColor{Color: backgrounds[a.Background]}
			case in.IsRune('m'):
				a.Muted = !a.Muted
				req = core.SetMuted{Muted: a.Muted}
			case in.IsRune(' '):
				if engine.CountComponents[Body](h) < maxBalls {
					s.spawnBall(h)
					req = core.PlaySound{Sound: core.SoundCoin, Volume: 0.6}
				} else {
					req = core.PlaySound{Sound: core.SoundError, Volume: 0.6}
				}
			}
			if req != nil {
				if err := h.Send(req); err != nil {
					return err
				}
			}
		case event.Resize:
			h.Logger().Debug().Int("width", in.Width).Int("height", in.Height).Msg("terminal resized")
		}
	}

	h.Draw(core.Rectangle{Rect: a.Bounds, Color: core.Gray})
	return nil
}

// playerSystem steers the player body with the arrow keys
func (s *scene) playerSystem(h *engine.Handle, e core.Entity, p *Player) error {
	body, err := engine.GetComponent[Body](h, e)
	if err != nil {
		return eris.Wrap(err, "player without body")
	}

	moved := false
	for _, in := range h.Events() {
		k, ok := in.(event.KeyPress)
		if !ok {
			continue
		}
		switch k.Key {
		case event.KeyLeft:
			body.X -= p.Speed
		case event.KeyRight:
			body.X += p.Speed
		case event.KeyUp:
			body.Y -= p.Speed
		case event.KeyDown:
			body.Y += p.Speed
		default:
			continue
		}
		moved = true
	}
	if moved {
		engine.AddComponent(h, e, body)
	}
	return nil
}

// bodySystem integrates velocity, bounces off the arena walls and draws the disc
func (s *scene) bodySystem(h *engine.Handle, e core.Entity, b *Body) error {
	b.X += b.VX
	b.Y += b.VY

	r := float64(b.Radius)
	w, hgt := float64(s.cfg.Width), float64(s.cfg.Height)
	bounced := false
	if b.X-r < 0 || b.X+r > w {
		b.VX = -b.VX
		b.X = math.Min(math.Max(b.X, r), w-r)
		bounced = b.VX != 0
	}
	if b.Y-r < 0 || b.Y+r > hgt {
		b.VY = -b.VY
		b.Y = math.Min(math.Max(b.Y, r), hgt-r)
		bounced = bounced || b.VY != 0
	}
	if bounced && !engine.HasComponent[Sprite](h, e) {
		if err := h.Send(core.PlaySound{Sound: core.SoundBump, Volume: 0.3}); err != nil {
			return err
		}
	}

	if b.Color.A > 0 {
		h.Draw(core.FilledCircle{X: int(b.X), Y: int(b.Y), Radius: b.Radius, Color: b.Color})
	}
	return nil
}

// spriteSystem spins the texture and draws it centered on the body
func (s *scene) spriteSystem(h *engine.Handle, e core.Entity, sp *Sprite) error {
	body, err := engine.GetComponent[Body](h, e)
	if err != nil {
		return eris.Wrap(err, "sprite without body")
	}
	sp.Angle = math.Mod(sp.Angle+sp.Spin, 360)

	dst := core.NewRect(int(body.X)-sp.Size/2, int(body.Y)-sp.Size/2, sp.Size, sp.Size)
	h.Draw(core.TextureEx{ID: sp.Texture, Dst: &dst, Angle: sp.Angle, FlipH: h.Tick()%120 >= 60})
	return nil
}

// starPNG renders a size x size four-pointed star as PNG bytes
func starPNG(size int) ([]byte, error) {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	c := float64(size-1) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := math.Abs(float64(x)-c), math.Abs(float64(y)-c)
			if dx*dy <= c/2 && dx+dy <= c*1.2 {
				img.Set(x, y, color.NRGBA{R: 255, G: 215, B: 0, A: 255})
			}
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, eris.Wrap(err, "failed to encode star texture")
	}
	return buf.Bytes(), nil
}
