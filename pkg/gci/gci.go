// Package gci answers radio calls with tactical picture information.
//
// It bridges recognition and transmission: recognized calls addressed to
// the controller come in, and spoken replies built from the live airspace
// picture go out. All picture queries run against a single state snapshot
// so a reply never mixes two moments in time.
package gci

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pbzweihander/magic-gci-bot/pkg/airspace"
	"github.com/pbzweihander/magic-gci-bot/pkg/queue"
	"github.com/pbzweihander/magic-gci-bot/pkg/speech"
	"github.com/pbzweihander/magic-gci-bot/pkg/transmission"
)

// Controller identifies the AWACS on the radio and in the Tacview picture.
type Controller struct {
	// Callsign the controller answers to, matched case-insensitively.
	Callsign string
	// Coalition is the Tacview coalition label of friendly aircraft.
	Coalition string
	// OpposingCoalition is the Tacview coalition label of bandits.
	OpposingCoalition string
}

func (c Controller) reply(to, message string) transmission.OutgoingTransmission {
	return transmission.OutgoingTransmission{
		ToCallsign:   to,
		FromCallsign: c.Callsign,
		Message:      message,
	}
}

// Loop consumes recognized transmissions until the queue closes, pushing
// replies for the ones addressed to the controller. Calls for anyone else
// are logged and dropped, as are calls with no recognizable intent.
func Loop(logger *slog.Logger, ctrl Controller, state *airspace.State, in *queue.Queue[speech.IncomingTransmission], out *queue.Queue[transmission.OutgoingTransmission]) {
	for {
		incoming, err := in.Next()
		if err != nil {
			if !errors.Is(err, queue.ErrDone) {
				logger.Error("recognition queue closed", "error", err)
			}
			logger.Info("exiting GCI loop")
			return
		}

		if !strings.EqualFold(incoming.ToCallsign, ctrl.Callsign) {
			logger.Warn("incoming transmission is not for the AWACS", "to_callsign", incoming.ToCallsign)
			continue
		}

		switch incoming.Intent {
		case speech.IntentRadioCheck:
			out.Push(ctrl.reply(incoming.FromCallsign, "5 by 5"))
		case speech.IntentRequestBogeyDope:
			if reply, ok := BogeyDope(logger, ctrl, state.Snapshot(), incoming.FromCallsign); ok {
				out.Push(reply)
			}
		default:
			continue
		}
	}
}

// BogeyDope answers a bogey dope request against one picture snapshot.
// The reply names the nearest opposing aircraft with a full track, in
// bearing-range-altitude-aspect form from the requester's position. The
// false return means the picture has no reference origin or the requester
// has no position yet, in which case nothing is sent.
func BogeyDope(logger *slog.Logger, ctrl Controller, snap airspace.Snapshot, requester string) (transmission.OutgoingTransmission, bool) {
	from, ok := snap.FindAircraftByPilot(requester)
	if !ok {
		return ctrl.reply(requester, "I cannot find you on scope"), true
	}
	if from.Coalition == nil || *from.Coalition != ctrl.Coalition {
		return ctrl.reply(requester, "You are not in my coalition"), true
	}

	if snap.ReferenceLatitude == nil || snap.ReferenceLongitude == nil ||
		from.Latitude == nil || from.Longitude == nil {
		logger.Warn("airspace picture is not initialized")
		return transmission.OutgoingTransmission{}, false
	}
	refLat, refLon := *snap.ReferenceLatitude, *snap.ReferenceLongitude

	// Object coordinates are deltas from the picture's reference origin.
	fromLat := refLat + *from.Latitude
	fromLon := refLon + *from.Longitude

	var closest *airspace.Object
	var closestRange float64
	for _, bandit := range snap.Aircraft(ctrl.OpposingCoalition) {
		if !bandit.HasFullTrack() {
			continue
		}
		r := rangeNM(fromLat, fromLon, refLat+*bandit.Latitude, refLon+*bandit.Longitude)
		if closest == nil || r < closestRange {
			b := bandit
			closest = &b
			closestRange = r
		}
	}
	if closest == nil {
		return ctrl.reply(requester, "Scope is currently clear"), true
	}

	banditLat := refLat + *closest.Latitude
	banditLon := refLon + *closest.Longitude
	bearing := bearingDegrees(fromLat, fromLon, banditLat, banditLon)

	heading := *closest.Heading
	aspectDegrees := (int(bearing-heading) + 360) % 360
	cardinal := cardinalPoint(heading)
	var aspect string
	switch {
	case aspectDegrees <= 65 || aspectDegrees >= 295:
		aspect = "dragging " + cardinal
	case aspectDegrees <= 115 || aspectDegrees >= 245:
		aspect = "beaming " + cardinal
	case aspectDegrees <= 155 || aspectDegrees >= 205:
		aspect = "flanking " + cardinal
	default:
		aspect = "hot"
	}

	message := fmt.Sprintf("bandit braa %s, for %d miles, %s, %s, type %s",
		spokenBearing(bearing), int(closestRange), altitudePhrase(*closest.Altitude), aspect, BrevityName(closest.Name))
	return ctrl.reply(requester, message), true
}
