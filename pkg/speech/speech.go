// Package speech is the client for the external speech service: it turns
// captured radio audio into structured transmissions and tactical replies
// back into synthesized audio.
package speech

// Intent classifies what a radio transmission is asking for.
type Intent string

const (
	IntentUnknown          Intent = "unknown"
	IntentRadioCheck       Intent = "radio_check"
	IntentRequestBogeyDope Intent = "request_bogey_dope"
)

// ParseIntentValue maps a raw intent string to an Intent. Unrecognized
// values are IntentUnknown, never an error.
func ParseIntentValue(s string) Intent {
	switch Intent(s) {
	case IntentRadioCheck:
		return IntentRadioCheck
	case IntentRequestBogeyDope:
		return IntentRequestBogeyDope
	default:
		return IntentUnknown
	}
}

// IncomingTransmission is one recognized radio call. It is created per
// utterance and consumed once by the tactical engine.
type IncomingTransmission struct {
	ToCallsign   string `json:"to_callsign"`
	FromCallsign string `json:"from_callsign"`
	Intent       Intent `json:"intent"`
}
