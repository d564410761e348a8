package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/rotisserie/eris"

	"github.com/lixenwraith/simloop/core"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// sample returns the wave value at phase in [0, 1)
func (w WaveType) sample(phase float64) float64 {
	switch w {
	case WaveSquare:
		if phase < 0.5 {
			return 1
		}
		return -1
	case WaveSaw:
		return 2 * (phase - 0.5)
	case WaveNoise:
		return rand.Float64()*2 - 1
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}

// Voice is one synthesized note with a linear attack and release
type Voice struct {
	Freq     float64
	Wave     WaveType
	Duration time.Duration
	Attack   time.Duration
	Release  time.Duration
}

// Streamer renders the voice at rate; the stream ends after Duration
func (v Voice) Streamer(rate beep.SampleRate) beep.Streamer {
	return withEnvelope(oscillate(v.Freq, v.Wave, rate), rate.N(v.Duration), rate.N(v.Attack), rate.N(v.Release))
}

// oscillate returns an endless wave
func oscillate(freq float64, wave WaveType, rate beep.SampleRate) beep.Streamer {
	step := freq / float64(rate)
	phase := 0.0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			v := wave.sample(phase)
			samples[i] = [2]float64{v, v}
			phase += step
			phase -= math.Floor(phase)
		}
		return len(samples), true
	})
}

// withEnvelope cuts s after total samples and ramps gain over the first attack and last release samples
func withEnvelope(s beep.Streamer, total, attack, release int) beep.Streamer {
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if rem := total - pos; len(samples) > rem {
			samples = samples[:rem]
		}
		if len(samples) == 0 {
			return 0, false
		}
		n, _ := s.Stream(samples)
		for i := range samples[:n] {
			g := envelopeGain(pos, total, attack, release)
			samples[i][0] *= g
			samples[i][1] *= g
			pos++
		}
		return n, n > 0
	})
}

func envelopeGain(pos, total, attack, release int) float64 {
	g := 1.0
	if pos < attack {
		g = float64(pos) / float64(attack)
	}
	if rem := total - pos; rem < release {
		g = math.Min(g, float64(rem)/float64(release))
	}
	return g
}

// newVolume applies linear gain; math.Log2(0) is -Inf so zero maps to silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// layer places a voice inside an effect
type layer struct {
	voice  Voice
	offset time.Duration
	gain   float64
}

func note(freq float64, wave WaveType, d time.Duration) Voice {
	return Voice{Freq: freq, Wave: wave, Duration: d, Attack: 5 * time.Millisecond, Release: d / 2}
}

var recipes = map[core.SoundType][]layer{
	core.SoundBeep: {{voice: note(660, WaveSine, 120*time.Millisecond), gain: 1}},
	core.SoundBlip: {{voice: note(1320, WaveSquare, 40*time.Millisecond), gain: 0.8}},
	core.SoundBump: {{voice: note(90, WaveSine, 150*time.Millisecond), gain: 1}},
	// B5 then E6
	core.SoundCoin: {
		{voice: note(987.77, WaveSquare, 80*time.Millisecond), gain: 0.7},
		{voice: note(1318.51, WaveSquare, 220*time.Millisecond), offset: 80 * time.Millisecond, gain: 0.7},
	},
	core.SoundError: {
		{voice: note(100, WaveSaw, 150*time.Millisecond), gain: 0.8},
		{voice: note(0, WaveNoise, 150*time.Millisecond), gain: 0.2},
	},
}

// Effect returns a finite streamer for a built-in sound
func Effect(sound core.SoundType, rate beep.SampleRate) (beep.Streamer, error) {
	layers, ok := recipes[sound]
	if !ok {
		return nil, eris.Errorf("unknown sound %d", sound)
	}
	streams := make([]beep.Streamer, len(layers))
	for i, l := range layers {
		s := l.voice.Streamer(rate)
		if l.offset > 0 {
			s = beep.Seq(beep.Silence(rate.N(l.offset)), s)
		}
		streams[i] = newVolume(s, l.gain)
	}
	return beep.Mix(streams...), nil
}

// Tone returns a sine tone of frequency hz lasting d
func Tone(hz float64, d time.Duration, rate beep.SampleRate) (beep.Streamer, error) {
	sine, err := generators.SineTone(rate, hz)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid tone %.1fHz", hz)
	}
	n := rate.N(d)
	return withEnvelope(sine, n, rate.N(5*time.Millisecond), rate.N(10*time.Millisecond)), nil
}
