// Package wave loads audio files into memory off the main thread.
//
// A Waveform is created in one call and filled in by a worker
// goroutine; the render thread polls it with cheap read-locked
// accessors. This is the only concurrent machinery in the engine, and
// it never calls back into the GUI.
package wave

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"

	"github.com/adithasan/genesis"
)

// State names a phase of a Waveform load.
type State int

const (
	// StateSpawning means Load has returned but the worker has not
	// started yet.
	StateSpawning State = iota
	// StateOpening means the worker is opening and probing the file.
	StateOpening
	// StateReading means samples are being appended.
	StateReading
	// StateComplete means the whole stream was decoded.
	StateComplete
	// StateError means the load stopped; Err holds the cause.
	StateError
)

func (s State) String() string {
	switch s {
	case StateSpawning:
		return "spawning"
	case StateOpening:
		return "opening"
	case StateReading:
		return "reading"
	case StateComplete:
		return "complete"
	case StateError:
		return "error"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// chunkFrames is the number of stereo frames decoded per lock
// acquisition. Small enough to keep readers responsive, large enough
// to amortize the locking.
const chunkFrames = 512

// Waveform holds an audio stream being decoded in the background.
// All methods are safe to call from any goroutine.
type Waveform struct {
	mu      sync.RWMutex
	state   State
	err     error
	format  beep.Format
	buffers [][][2]float64
	frames  int
}

// Load starts decoding the audio file at path on a worker goroutine
// and returns immediately. Progress is observed through State,
// Snapshot and Frames. Cancelling ctx stops the worker and leaves the
// waveform in StateError with the context's error.
func Load(ctx context.Context, path string) *Waveform {
	w := &Waveform{state: StateSpawning}
	go w.run(ctx, path)
	return w
}

func (w *Waveform) run(ctx context.Context, path string) {
	if err := ctx.Err(); err != nil {
		w.fail(err)
		return
	}
	w.setState(StateOpening)

	f, err := os.Open(path)
	if err != nil {
		w.fail(fmt.Errorf("open audio: %w", err))
		return
	}
	defer f.Close()

	streamer, format, err := decode(path, f)
	if err != nil {
		w.fail(fmt.Errorf("decode %q: %w", path, err))
		return
	}
	defer streamer.Close()

	w.mu.Lock()
	w.format = format
	w.state = StateReading
	w.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			w.fail(ctx.Err())
			return
		default:
		}
		chunk := make([][2]float64, chunkFrames)
		n, ok := streamer.Stream(chunk)
		if n > 0 {
			w.mu.Lock()
			w.buffers = append(w.buffers, chunk[:n])
			w.frames += n
			w.mu.Unlock()
		}
		if !ok {
			if err := streamer.Err(); err != nil {
				w.fail(fmt.Errorf("read samples from %q: %w", path, err))
				return
			}
			w.setState(StateComplete)
			genesis.Logger().Debug("waveform loaded", "path", path, "frames", w.Frames())
			return
		}
	}
}

// decode picks a decoder from the file extension. Every decoder
// accepts an *os.File; closing the streamer closes the file where the
// decoder took ownership of it.
func decode(path string, f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return wav.Decode(f)
	case ".mp3":
		return mp3.Decode(f)
	case ".ogg", ".oga":
		return vorbis.Decode(f)
	case ".flac":
		return flac.Decode(f)
	}
	return nil, beep.Format{}, fmt.Errorf("unsupported audio extension %q", filepath.Ext(path))
}

func (w *Waveform) setState(s State) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
}

func (w *Waveform) fail(err error) {
	w.mu.Lock()
	w.state = StateError
	w.err = err
	w.mu.Unlock()
	genesis.Logger().Warn("waveform load failed", "err", err)
}

// State reports the current load phase.
func (w *Waveform) State() State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

// Err reports why the load stopped. It is non-nil exactly when the
// state is StateError.
func (w *Waveform) Err() error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.err
}

// Format reports the decoded stream format. It is meaningful once the
// state has reached StateReading.
func (w *Waveform) Format() beep.Format {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.format
}

// Snapshot returns the sample chunks decoded so far, oldest first.
// Each chunk is a run of stereo frames. The returned outer slice is a
// copy; the chunks themselves are never mutated after append, so the
// caller may read them freely while decoding continues.
func (w *Waveform) Snapshot() [][][2]float64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([][][2]float64, len(w.buffers))
	copy(out, w.buffers)
	return out
}

// Frames reports the number of stereo frames decoded so far.
func (w *Waveform) Frames() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.frames
}
