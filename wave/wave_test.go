package wave_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/adithasan/genesis/wave"
)

// writeWAV writes a canonical 16-bit stereo PCM file at 44.1 kHz. Every
// frame carries the constant samples (0.25, -0.25).
func writeWAV(t *testing.T, path string, frames int) {
	t.Helper()
	var buf bytes.Buffer
	dataSize := uint32(frames * 4)
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(2)) // stereo
	binary.Write(&buf, binary.LittleEndian, uint32(44100))
	binary.Write(&buf, binary.LittleEndian, uint32(44100*4)) // byte rate
	binary.Write(&buf, binary.LittleEndian, uint16(4))       // block align
	binary.Write(&buf, binary.LittleEndian, uint16(16))      // bits per sample
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, dataSize)
	for i := 0; i < frames; i++ {
		binary.Write(&buf, binary.LittleEndian, int16(8192))
		binary.Write(&buf, binary.LittleEndian, int16(-8192))
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write wav: %v", err)
	}
}

// waitState polls until the waveform reaches want. An unexpected
// StateError fails immediately with the load error.
func waitState(t *testing.T, w *wave.Waveform, want wave.State) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		state := w.State()
		if state == want {
			return
		}
		if state == wave.StateError && want != wave.StateError {
			t.Fatalf("load failed: %v", w.Err())
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %v, still %v", want, w.State())
}

func TestLoadDecodesWholeFile(t *testing.T) {
	const frames = 1300
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeWAV(t, path, frames)

	w := wave.Load(context.Background(), path)
	waitState(t, w, wave.StateComplete)

	if w.Err() != nil {
		t.Errorf("expected nil error after a clean load, got %v", w.Err())
	}
	if w.Frames() != frames {
		t.Errorf("expected %d frames, got %d", frames, w.Frames())
	}

	format := w.Format()
	if format.SampleRate != 44100 {
		t.Errorf("expected sample rate 44100, got %v", format.SampleRate)
	}
	if format.NumChannels != 2 {
		t.Errorf("expected 2 channels, got %d", format.NumChannels)
	}

	chunks := w.Snapshot()
	if len(chunks) == 0 {
		t.Fatal("expected decoded chunks")
	}
	total := 0
	for _, chunk := range chunks {
		if len(chunk) == 0 || len(chunk) > 512 {
			t.Errorf("unexpected chunk length %d", len(chunk))
		}
		total += len(chunk)
	}
	if total != frames {
		t.Errorf("expected %d frames across chunks, got %d", frames, total)
	}

	first := chunks[0][0]
	if math.Abs(first[0]-0.25) > 0.01 || math.Abs(first[1]+0.25) > 0.01 {
		t.Errorf("expected first frame near (0.25, -0.25), got %v", first)
	}
}

func TestLoadMissingFile(t *testing.T) {
	w := wave.Load(context.Background(), filepath.Join(t.TempDir(), "missing.wav"))
	waitState(t, w, wave.StateError)

	if !errors.Is(w.Err(), os.ErrNotExist) {
		t.Errorf("expected a not-exist error, got %v", w.Err())
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("not audio"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	w := wave.Load(context.Background(), path)
	waitState(t, w, wave.StateError)

	if !strings.Contains(w.Err().Error(), "unsupported audio extension") {
		t.Errorf("unexpected error: %v", w.Err())
	}
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.wav")
	if err := os.WriteFile(path, []byte("RIFFnope"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	w := wave.Load(context.Background(), path)
	waitState(t, w, wave.StateError)

	if !strings.Contains(w.Err().Error(), "decode") {
		t.Errorf("unexpected error: %v", w.Err())
	}
}

func TestLoadCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := filepath.Join(t.TempDir(), "tone.wav")
	writeWAV(t, path, 16)

	w := wave.Load(ctx, path)
	waitState(t, w, wave.StateError)

	if !errors.Is(w.Err(), context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", w.Err())
	}
}

func TestStateString(t *testing.T) {
	cases := []struct {
		state wave.State
		want  string
	}{
		{wave.StateSpawning, "spawning"},
		{wave.StateOpening, "opening"},
		{wave.StateReading, "reading"},
		{wave.StateComplete, "complete"},
		{wave.StateError, "error"},
		{wave.State(9), "State(9)"},
	}
	for _, tc := range cases {
		if got := tc.state.String(); got != tc.want {
			t.Errorf("State(%d).String() = %q, want %q", int(tc.state), got, tc.want)
		}
	}
}
