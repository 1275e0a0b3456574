// Package recognition turns inbound radio audio into structured calls.
//
// Voice packets are accumulated into an utterance until the channel goes
// quiet, then the utterance is transcribed and its intent extracted. One
// quiet gap ends one utterance; dead air between calls never reaches the
// speech service.
package recognition

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/hraban/opus"

	"github.com/pbzweihander/magic-gci-bot/pkg/airspace"
	"github.com/pbzweihander/magic-gci-bot/pkg/queue"
	"github.com/pbzweihander/magic-gci-bot/pkg/speech"
	"github.com/pbzweihander/magic-gci-bot/pkg/srs"
)

// SilenceTimeout is how long the channel must stay quiet before the
// accumulated audio is treated as one finished utterance.
const SilenceTimeout = 500 * time.Millisecond

// maxFrameSamples is the largest PCM frame a single Opus packet can carry
// at 48 kHz (120 ms); decoding at 16 kHz needs at most a third of it, but
// the scratch buffer is sized for the worst case.
const maxFrameSamples = 5760

// Decoder decodes one Opus packet into PCM, returning the sample count.
// *opus.Decoder satisfies it.
type Decoder interface {
	Decode(data []byte, pcm []int16) (int, error)
}

// NewDecoder returns an Opus decoder matching the radio's audio format.
func NewDecoder() (*opus.Decoder, error) {
	return opus.NewDecoder(speech.SampleRate, speech.Channels)
}

// Service is the slice of the speech service the recognizer needs.
type Service interface {
	Transcribe(ctx context.Context, wav []byte, prompt string) (string, error)
	ParseIntent(ctx context.Context, transcript, ownCallsign string) (speech.IncomingTransmission, error)
}

// Recognizer accumulates voice packets into utterances and pushes the
// recognized calls downstream.
type Recognizer struct {
	logger   *slog.Logger
	callsign string
	decoder  Decoder
	service  Service
	state    *airspace.State
}

func New(logger *slog.Logger, callsign string, decoder Decoder, service Service, state *airspace.State) *Recognizer {
	return &Recognizer{
		logger:   logger,
		callsign: callsign,
		decoder:  decoder,
		service:  service,
		state:    state,
	}
}

// Loop consumes voice packets until the queue closes. A graceful close
// flushes the utterance in progress; a close with an error (shutdown)
// drops it, since nobody is left to hear the reply.
func (r *Recognizer) Loop(ctx context.Context, in *queue.Queue[*srs.VoicePacket], out *queue.Queue[speech.IncomingTransmission]) {
	for {
		var utterance []int16

	accumulate:
		for {
			packet, err := in.NextTimeout(SilenceTimeout)
			switch {
			case err == nil:
				utterance = r.decode(utterance, packet.Audio)
			case errors.Is(err, queue.ErrTimeout):
				break accumulate
			case errors.Is(err, queue.ErrDone):
				r.logger.Info("voice stream ended, exiting recognition loop")
				r.recognize(ctx, utterance, out)
				return
			default:
				// Shutdown: nobody is left to hear a reply, drop the
				// partial utterance.
				r.logger.Info("voice stream closed, exiting recognition loop", "error", err)
				return
			}
		}

		r.recognize(ctx, utterance, out)
	}
}

func (r *Recognizer) decode(utterance []int16, audio []byte) []int16 {
	pcm := make([]int16, maxFrameSamples)
	n, err := r.decoder.Decode(audio, pcm)
	if err != nil {
		r.logger.Error("opus decode failed", "error", err)
		return utterance
	}
	return append(utterance, pcm[:n]...)
}

// recognize transcribes one finished utterance and pushes the parsed call.
// Empty utterances and empty transcripts are discarded without a service
// round trip downstream.
func (r *Recognizer) recognize(ctx context.Context, utterance []int16, out *queue.Queue[speech.IncomingTransmission]) {
	if len(utterance) == 0 {
		return
	}

	wav := speech.EncodeWAV(utterance)
	transcript, err := r.service.Transcribe(ctx, wav, r.biasPrompt())
	if err != nil {
		r.logger.Error("transcription failed", "error", err)
		return
	}
	if strings.TrimSpace(transcript) == "" {
		return
	}
	r.logger.Info("transcribed utterance", "transcript", transcript)

	incoming, err := r.service.ParseIntent(ctx, transcript, r.callsign)
	if err != nil {
		r.logger.Error("intent parsing failed", "error", err, "transcript", transcript)
		return
	}
	out.Push(incoming)
}

// biasPrompt lists the callsigns likely to occur on the radio so the
// transcription model spells them consistently.
func (r *Recognizer) biasPrompt() string {
	names := append([]string{r.callsign}, r.state.KnownPilots()...)
	return "Radio transmission between military aircraft. Callsigns: " + strings.Join(names, ", ")
}
