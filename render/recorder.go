package render

import (
	"bufio"
	"io"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"

	"github.com/lixenwraith/simloop/core"
	"github.com/lixenwraith/simloop/engine"
)

// RecordedCommand is the JSON form of one draw command
type RecordedCommand struct {
	Kind    string           `json:"kind"`
	Command core.DrawCommand `json:"command"`
}

// RecordedFrame is one line of a recording
type RecordedFrame struct {
	Frame    uint64            `json:"frame"`
	Commands []RecordedCommand `json:"commands"`
}

// Recorder writes every fresh draw batch as a JSON line, usable headless or next to a Terminal
type Recorder struct {
	w   *bufio.Writer
	enc *json.Encoder
	n   int
}

// NewRecorder creates a recorder writing to w
func NewRecorder(w io.Writer) *Recorder {
	bw := bufio.NewWriter(w)
	return &Recorder{w: bw, enc: json.NewEncoder(bw)}
}

// DrawFrame implements engine.FrameSink
func (r *Recorder) DrawFrame(f engine.Frame) error {
	if !f.Fresh {
		return nil
	}
	rec := RecordedFrame{Frame: f.Number, Commands: make([]RecordedCommand, len(f.Commands))}
	for i, cmd := range f.Commands {
		rec.Commands[i] = RecordedCommand{Kind: cmd.Kind().String(), Command: cmd}
	}
	if err := r.enc.Encode(rec); err != nil {
		return eris.Wrapf(err, "failed to record frame %d", f.Number)
	}
	r.n++
	return nil
}

// Frames returns the number of frames recorded
func (r *Recorder) Frames() int {
	return r.n
}

// Flush writes buffered frames to the underlying writer
func (r *Recorder) Flush() error {
	return eris.Wrap(r.w.Flush(), "failed to flush recording")
}
