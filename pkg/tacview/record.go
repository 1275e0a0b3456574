// Package tacview implements a client for the Tacview real-time telemetry
// protocol and a parser for the ACMI text records it carries.
//
// The protocol is a TCP stream: a short handshake in both directions, then
// newline-separated ACMI lines describing object updates, removals, frame
// markers, and global properties.
package tacview

// GlobalID is the object id that carries session-global properties such as
// the reference origin.
const GlobalID uint64 = 0

// Well-known ACMI property names.
const (
	PropTransform          = "T"
	PropType               = "Type"
	PropName               = "Name"
	PropPilot              = "Pilot"
	PropCoalition          = "Coalition"
	PropEvent              = "Event"
	PropReferenceLatitude  = "ReferenceLatitude"
	PropReferenceLongitude = "ReferenceLongitude"
)

// Property is a single key=value pair from an ACMI record.
type Property struct {
	Key   string
	Value string
}

// Record is one decoded ACMI record. Exactly one of the concrete types
// Frame, Remove, Update, Global, and Event is produced per line.
type Record interface {
	record()
}

// Frame marks a new telemetry frame at the given time offset in seconds.
type Frame struct {
	Offset float64
}

// Remove removes the object with the given id.
type Remove struct {
	ID uint64
}

// Update carries property deltas for one object.
type Update struct {
	ID    uint64
	Props []Property
}

// Global carries session-global property deltas (object id 0).
type Global struct {
	Props []Property
}

// Event is a global record whose properties describe a simulation event.
type Event struct {
	Props []Property
}

func (Frame) record()  {}
func (Remove) record() {}
func (Update) record() {}
func (Global) record() {}
func (Event) record()  {}
