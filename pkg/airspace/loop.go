package airspace

import (
	"errors"
	"io"
	"log/slog"

	"github.com/pbzweihander/magic-gci-bot/pkg/tacview"
)

// RecordReader is the telemetry stream consumed by the state engine.
// *tacview.Reader implements it.
type RecordReader interface {
	Next() (tacview.Record, error)
}

// Loop is the state engine: it consumes telemetry records in stream order
// and applies them to state. Decode errors are logged and skipped; the loop
// returns only when the stream ends.
func Loop(logger *slog.Logger, r RecordReader, state *State) {
	for {
		rec, err := r.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				logger.Info("telemetry stream ended, exiting state loop")
				return
			}
			logger.Error("telemetry record error", "error", err)
			continue
		}
		state.Apply(rec)
	}
}
