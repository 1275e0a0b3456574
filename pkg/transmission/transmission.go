// Package transmission paces synthesized speech onto the voice radio.
//
// The radio is half-duplex: transmissions are sent one at a time, and each
// one's Opus frames are released against a wall-clock schedule so the
// receiving end hears real-time speech rather than a burst.
package transmission

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/pbzweihander/magic-gci-bot/pkg/audio/ogg"
	"github.com/pbzweihander/magic-gci-bot/pkg/queue"
)

// FrameInterval is the playback duration of one synthesized Opus frame.
const FrameInterval = 20 * time.Millisecond

// headerPackets is the number of leading non-audio packets in an Ogg Opus
// stream (OpusHead and OpusTags).
const headerPackets = 2

// OutgoingTransmission is one tactical reply awaiting synthesis. It is
// consumed once and spoken as a single line.
type OutgoingTransmission struct {
	ToCallsign   string
	FromCallsign string
	Message      string
}

// SpeechLine renders the transmission as the line handed to synthesis.
func (t OutgoingTransmission) SpeechLine() string {
	return fmt.Sprintf("%s, %s, %s", t.ToCallsign, t.FromCallsign, t.Message)
}

// Synthesizer produces compressed speech audio for a line of text.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Transmitter is the outbound side of the voice radio.
type Transmitter interface {
	Transmit(frame []byte) error
	Flush() error
}

// Loop consumes outgoing transmissions until the queue closes. A failed
// transmission is logged and abandoned; the next one still proceeds.
func Loop(ctx context.Context, logger *slog.Logger, synth Synthesizer, radio Transmitter, in *queue.Queue[OutgoingTransmission]) {
	for {
		out, err := in.Next()
		if err != nil {
			if !errors.Is(err, queue.ErrDone) {
				logger.Error("transmission queue closed", "error", err)
			}
			logger.Info("exiting transmission loop")
			return
		}
		logger.Info("outgoing transmission",
			"to", out.ToCallsign, "from", out.FromCallsign, "message", out.Message)
		if err := Transmit(ctx, synth, radio, out.SpeechLine()); err != nil {
			logger.Error("transmit error", "error", err)
		}
	}
}

// Transmit synthesizes one line and paces its frames onto the radio.
//
// After sending frame i (0-indexed) the loop sleeps until
// start+(i+1)*FrameInterval, so the stream as a whole tracks wall-clock
// playback speed regardless of processing jitter.
func Transmit(ctx context.Context, synth Synthesizer, radio Transmitter, line string) error {
	audio, err := synth.Synthesize(ctx, line)
	if err != nil {
		return fmt.Errorf("synthesize speech: %w", err)
	}

	frames, err := demux(audio)
	if err != nil {
		return err
	}

	start := time.Now()
	for i, frame := range frames {
		if err := radio.Transmit(frame); err != nil {
			return fmt.Errorf("send frame %d: %w", i, err)
		}
		playtime := time.Duration(i+1) * FrameInterval
		if elapsed := time.Since(start); playtime > elapsed {
			select {
			case <-time.After(playtime - elapsed):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	if err := radio.Flush(); err != nil {
		return fmt.Errorf("flush radio: %w", err)
	}
	return nil
}

// demux splits an Ogg Opus container into audio frames, dropping the two
// leading header packets.
func demux(audio []byte) ([][]byte, error) {
	r := ogg.NewReader(bytes.NewReader(audio))
	var frames [][]byte
	n := 0
	for {
		pkt, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("demux synthesized audio: %w", err)
		}
		n++
		if n <= headerPackets {
			continue
		}
		frames = append(frames, pkt)
	}
	if n == 0 {
		return nil, errors.New("synthesized audio contained no packets")
	}
	return frames, nil
}
