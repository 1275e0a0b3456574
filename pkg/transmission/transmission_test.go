package transmission

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/pbzweihander/magic-gci-bot/pkg/queue"
)

// oggStream builds a minimal Ogg container: two header packets followed by
// the given audio frames, one segment each.
func oggStream(frames ...[]byte) []byte {
	segments := [][]byte{[]byte("OpusHead"), []byte("OpusTags")}
	segments = append(segments, frames...)

	var b bytes.Buffer
	b.WriteString("OggS")
	b.Write(make([]byte, 22))
	b.WriteByte(byte(len(segments)))
	for _, s := range segments {
		b.WriteByte(byte(len(s)))
	}
	for _, s := range segments {
		b.Write(s)
	}
	return b.Bytes()
}

type fakeSynth struct {
	audio []byte
	err   error
	lines []string
}

func (f *fakeSynth) Synthesize(_ context.Context, text string) ([]byte, error) {
	f.lines = append(f.lines, text)
	return f.audio, f.err
}

type fakeRadio struct {
	frames  [][]byte
	sentAt  []time.Time
	flushed int
	failAt  int // fail on the n-th Transmit (1-based); 0 = never
}

func (f *fakeRadio) Transmit(frame []byte) error {
	if f.failAt > 0 && len(f.frames)+1 == f.failAt {
		return errors.New("transport down")
	}
	f.frames = append(f.frames, frame)
	f.sentAt = append(f.sentAt, time.Now())
	return nil
}

func (f *fakeRadio) Flush() error {
	f.flushed++
	return nil
}

func TestTransmitDropsHeadersAndPacesFrames(t *testing.T) {
	frames := [][]byte{{0x78, 1}, {0x78, 2}, {0x78, 3}, {0x78, 4}}
	synth := &fakeSynth{audio: oggStream(frames...)}
	radio := &fakeRadio{}

	start := time.Now()
	if err := Transmit(context.Background(), synth, radio, "Dodge 1-1, Overlord, 5 by 5"); err != nil {
		t.Fatalf("Transmit() error: %v", err)
	}
	elapsed := time.Since(start)

	if len(radio.frames) != len(frames) {
		t.Fatalf("sent %d frames, want %d (headers must be dropped)", len(radio.frames), len(frames))
	}
	for i, want := range frames {
		if !bytes.Equal(radio.frames[i], want) {
			t.Errorf("frame %d = %v, want %v", i, radio.frames[i], want)
		}
	}
	if radio.flushed != 1 {
		t.Errorf("flushed %d times, want 1", radio.flushed)
	}
	if len(synth.lines) != 1 || synth.lines[0] != "Dodge 1-1, Overlord, 5 by 5" {
		t.Errorf("synthesized lines = %v", synth.lines)
	}

	// Real-time pacing: 4 frames take at least 4*20ms minus scheduling slop.
	if lower := 4*FrameInterval - 5*time.Millisecond; elapsed < lower {
		t.Errorf("Transmit() finished in %v, want >= %v", elapsed, lower)
	}
	// No gap between consecutive sends may grossly exceed one interval.
	for i := 1; i < len(radio.sentAt); i++ {
		if gap := radio.sentAt[i].Sub(radio.sentAt[i-1]); gap > FrameInterval+15*time.Millisecond {
			t.Errorf("gap between frame %d and %d = %v", i-1, i, gap)
		}
	}
}

func TestTransmitSynthesisError(t *testing.T) {
	synth := &fakeSynth{err: errors.New("service unavailable")}
	radio := &fakeRadio{}
	if err := Transmit(context.Background(), synth, radio, "line"); err == nil {
		t.Fatal("Transmit() should fail when synthesis fails")
	}
	if len(radio.frames) != 0 {
		t.Errorf("sent %d frames after synthesis failure", len(radio.frames))
	}
}

func TestTransmitTransportErrorAborts(t *testing.T) {
	synth := &fakeSynth{audio: oggStream([]byte{1}, []byte{2}, []byte{3})}
	radio := &fakeRadio{failAt: 2}
	if err := Transmit(context.Background(), synth, radio, "line"); err == nil {
		t.Fatal("Transmit() should surface the transport error")
	}
	if len(radio.frames) != 1 {
		t.Errorf("sent %d frames, want 1 before abort", len(radio.frames))
	}
	if radio.flushed != 0 {
		t.Errorf("flushed %d times after abort, want 0", radio.flushed)
	}
}

func TestLoopContinuesAfterError(t *testing.T) {
	synth := &fakeSynth{err: errors.New("service unavailable")}
	radio := &fakeRadio{}
	in := queue.New[OutgoingTransmission]()
	in.Push(OutgoingTransmission{ToCallsign: "Dodge 1-1", FromCallsign: "Overlord", Message: "5 by 5"})
	in.Push(OutgoingTransmission{ToCallsign: "Uzi 2-1", FromCallsign: "Overlord", Message: "Scope is currently clear"})
	in.CloseWrite()

	done := make(chan struct{})
	go func() {
		defer close(done)
		Loop(context.Background(), slog.Default(), synth, radio, in)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Loop did not exit after queue close")
	}
	if len(synth.lines) != 2 {
		t.Errorf("synthesized %d lines, want 2 (loop must survive errors)", len(synth.lines))
	}
}

func TestSpeechLine(t *testing.T) {
	out := OutgoingTransmission{ToCallsign: "Dodge 1-1", FromCallsign: "Overlord", Message: "5 by 5"}
	if got, want := out.SpeechLine(), "Dodge 1-1, Overlord, 5 by 5"; got != want {
		t.Errorf("SpeechLine() = %q, want %q", got, want)
	}
}
