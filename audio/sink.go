// Package audio plays simulation audio requests through beep
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/simloop/core"
)

// SampleRate is the output rate of every generated stream
const SampleRate = beep.SampleRate(48000)

// Output receives finished, finite streams
type Output interface {
	Play(s beep.Streamer)
}

// SpeakerOutput mixes streams onto the system speaker
type SpeakerOutput struct {
	mixer *beep.Mixer
}

// NewSpeakerOutput initializes the speaker with a 100ms buffer and starts the mixer
func NewSpeakerOutput(rate beep.SampleRate) (*SpeakerOutput, error) {
	if err := speaker.Init(rate, rate.N(100*time.Millisecond)); err != nil {
		return nil, eris.Wrap(err, "failed to initialize speaker")
	}
	out := &SpeakerOutput{mixer: &beep.Mixer{}}
	speaker.Play(out.mixer)
	return out, nil
}

// Play adds s to the mixer
func (o *SpeakerOutput) Play(s beep.Streamer) {
	speaker.Lock()
	o.mixer.Add(s)
	speaker.Unlock()
}

// Stop drops every playing stream
func (o *SpeakerOutput) Stop() {
	speaker.Lock()
	o.mixer.Clear()
	speaker.Unlock()
}

// Sink executes audio requests
type Sink struct {
	mu     sync.Mutex
	out    Output
	rate   beep.SampleRate
	muted  bool
	played int
	logger zerolog.Logger
}

// NewSink creates a sink over out; muted drops every sound until a SetMuted request clears it
func NewSink(out Output, muted bool, logger zerolog.Logger) *Sink {
	return &Sink{
		out:    out,
		rate:   SampleRate,
		muted:  muted,
		logger: logger,
	}
}

// Accepts implements engine.RequestSink for audio requests
func (s *Sink) Accepts(kind core.RequestKind) bool {
	return kind == core.RequestAudio
}

// HandleRequest implements engine.RequestSink
func (s *Sink) HandleRequest(r core.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch r := r.(type) {
	case core.SetMuted:
		s.muted = r.Muted
		s.logger.Debug().Bool("muted", r.Muted).Msg("audio mute toggled")
		return nil
	case core.PlaySound:
		if s.muted {
			return nil
		}
		stream, err := Effect(r.Sound, s.rate)
		if err != nil {
			return err
		}
		s.play(newVolume(stream, clampVolume(r.Volume)))
		return nil
	case core.PlayTone:
		if s.muted {
			return nil
		}
		if r.Duration <= 0 {
			return eris.Errorf("tone duration must be positive, got %s", r.Duration)
		}
		stream, err := Tone(r.Frequency, r.Duration, s.rate)
		if err != nil {
			return err
		}
		s.play(newVolume(stream, clampVolume(r.Volume)))
		return nil
	default:
		return eris.Errorf("unsupported audio request %T", r)
	}
}

func (s *Sink) play(stream beep.Streamer) {
	s.out.Play(stream)
	s.played++
}

// Muted reports the mute state
func (s *Sink) Muted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.muted
}

// Played returns the number of streams handed to the output
func (s *Sink) Played() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.played
}

func clampVolume(v float64) float64 {
	return min(max(v, 0), 1)
}
