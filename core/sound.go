package core

// SoundType names a built-in sound effect the audio sink knows how to synthesize
type SoundType int

const (
	SoundBeep  SoundType = iota // Short neutral confirmation
	SoundBlip                   // High, very short UI tick
	SoundBump                   // Low thud on collision
	SoundCoin                   // Two-note pickup chime
	SoundError                  // Harsh buzz
	SoundTypeCount
)

func (s SoundType) String() string {
	switch s {
	case SoundBeep:
		return "beep"
	case SoundBlip:
		return "blip"
	case SoundBump:
		return "bump"
	case SoundCoin:
		return "coin"
	case SoundError:
		return "error"
	default:
		return "unknown"
	}
}
