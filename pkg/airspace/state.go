// Package airspace maintains the shared picture of every object in the
// simulated airspace, reconstructed from the Tacview telemetry stream.
//
// State has exactly one writer, the state engine loop, and any number of
// concurrent readers. Readers copy scalar data out under the read lock and
// never hold it across I/O.
package airspace

import (
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/pbzweihander/magic-gci-bot/pkg/tacview"
)

// TagAir marks airborne objects in the ACMI type tag set.
const TagAir = "Air"

// Object is one tracked entity. Coordinate fields are nil until first
// reported; telemetry deltas merge per axis.
type Object struct {
	ID        uint64
	Latitude  *float64
	Longitude *float64
	Altitude  *float64
	Heading   *float64
	Types     []string
	Name      *string
	Pilot     *string
	Coalition *string
}

// IsAir reports whether the object's type tag set classifies it as airborne.
func (o *Object) IsAir() bool {
	return slices.Contains(o.Types, TagAir)
}

// HasFullTrack reports whether position, altitude, and heading are all known.
func (o *Object) HasFullTrack() bool {
	return o.Latitude != nil && o.Longitude != nil && o.Altitude != nil && o.Heading != nil
}

func (o *Object) clone() Object {
	c := Object{ID: o.ID, Types: slices.Clone(o.Types)}
	cp := func(p *float64) *float64 {
		if p == nil {
			return nil
		}
		v := *p
		return &v
	}
	cs := func(p *string) *string {
		if p == nil {
			return nil
		}
		v := *p
		return &v
	}
	c.Latitude, c.Longitude = cp(o.Latitude), cp(o.Longitude)
	c.Altitude, c.Heading = cp(o.Altitude), cp(o.Heading)
	c.Name, c.Pilot, c.Coalition = cs(o.Name), cs(o.Pilot), cs(o.Coalition)
	return c
}

// State is the shared airspace picture.
type State struct {
	mu      sync.RWMutex
	refLat  *float64
	refLon  *float64
	objects map[uint64]*Object
}

// NewState creates an empty state.
func NewState() *State {
	return &State{objects: make(map[uint64]*Object)}
}

// Apply mutates the state with one decoded telemetry record. It is the only
// write path; the state engine loop is its only caller.
func (s *State) Apply(rec tacview.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch r := rec.(type) {
	case tacview.Remove:
		delete(s.objects, r.ID)
	case tacview.Global:
		s.applyGlobal(r.Props)
	case tacview.Update:
		s.applyUpdate(r.ID, r.Props)
	case tacview.Frame, tacview.Event:
		// No state effect.
	}
}

func (s *State) applyGlobal(props []tacview.Property) {
	for _, p := range props {
		switch p.Key {
		case tacview.PropReferenceLatitude, tacview.PropReferenceLongitude:
			v, err := strconv.ParseFloat(p.Value, 64)
			if err != nil {
				continue
			}
			if p.Key == tacview.PropReferenceLatitude {
				s.refLat = &v
			} else {
				s.refLon = &v
			}
			// A new reference origin signals a fresh telemetry session;
			// deltas recorded against the old origin are meaningless.
			s.objects = make(map[uint64]*Object)
		}
	}
}

func (s *State) applyUpdate(id uint64, props []tacview.Property) {
	obj := s.objects[id]
	if obj == nil {
		obj = &Object{ID: id}
		s.objects[id] = obj
	}

	for _, p := range props {
		switch p.Key {
		case tacview.PropTransform:
			tf, err := tacview.ParseTransform(p.Value)
			if err != nil {
				continue
			}
			if tf.Latitude != nil {
				obj.Latitude = tf.Latitude
			}
			if tf.Longitude != nil {
				obj.Longitude = tf.Longitude
			}
			if tf.Altitude != nil {
				obj.Altitude = tf.Altitude
			}
			if tf.Heading != nil {
				obj.Heading = tf.Heading
			}
		case tacview.PropType:
			obj.Types = strings.Split(p.Value, "+")
		case tacview.PropName:
			v := p.Value
			obj.Name = &v
		case tacview.PropPilot:
			v := p.Value
			obj.Pilot = &v
		case tacview.PropCoalition:
			v := p.Value
			obj.Coalition = &v
		}
	}
}

// Reference returns the reference origin, or nils while unknown.
func (s *State) Reference() (lat, lon *float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.refLat != nil {
		v := *s.refLat
		lat = &v
	}
	if s.refLon != nil {
		v := *s.refLon
		lon = &v
	}
	return lat, lon
}

// Object returns a copy of the object with the given id.
func (s *State) Object(id uint64) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[id]
	if !ok {
		return Object{}, false
	}
	return obj.clone(), true
}

// sortedIDs returns object ids in ascending order so that enumeration is
// deterministic. Callers must hold at least the read lock.
func (s *State) sortedIDs() []uint64 {
	return slices.Sorted(maps.Keys(s.objects))
}

// Snapshot is a consistent point-in-time copy of the state, taken under one
// read-lock acquisition. Queries that must observe a single coherent
// picture (the bogey-dope algorithm) run against a Snapshot, never against
// live state.
type Snapshot struct {
	ReferenceLatitude  *float64
	ReferenceLongitude *float64
	// Objects in ascending id order, for deterministic enumeration.
	Objects []Object
}

// Snapshot copies the reference origin and every object out under the read
// lock. The caller owns the result and holds no lock afterwards.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var snap Snapshot
	if s.refLat != nil {
		v := *s.refLat
		snap.ReferenceLatitude = &v
	}
	if s.refLon != nil {
		v := *s.refLon
		snap.ReferenceLongitude = &v
	}
	snap.Objects = make([]Object, 0, len(s.objects))
	for _, id := range s.sortedIDs() {
		snap.Objects = append(snap.Objects, s.objects[id].clone())
	}
	return snap
}

// FindAircraftByPilot returns the first airborne object whose pilot string
// contains the given callsign, both sides normalized by NormalizeCallsign.
// The substring semantics are deliberately loose: radio callsigns rarely
// match the full in-game pilot string exactly.
func (snap Snapshot) FindAircraftByPilot(callsign string) (Object, bool) {
	needle := NormalizeCallsign(callsign)
	if needle == "" {
		return Object{}, false
	}
	for _, obj := range snap.Objects {
		if !obj.IsAir() || obj.Pilot == nil {
			continue
		}
		if strings.Contains(NormalizeCallsign(*obj.Pilot), needle) {
			return obj, true
		}
	}
	return Object{}, false
}

// Aircraft returns all airborne objects belonging to the given coalition,
// in ascending id order.
func (snap Snapshot) Aircraft(coalition string) []Object {
	var out []Object
	for _, obj := range snap.Objects {
		if !obj.IsAir() {
			continue
		}
		if obj.Coalition == nil || *obj.Coalition != coalition {
			continue
		}
		out = append(out, obj)
	}
	return out
}

// FindAircraftByPilot is a convenience over a fresh Snapshot.
func (s *State) FindAircraftByPilot(callsign string) (Object, bool) {
	return s.Snapshot().FindAircraftByPilot(callsign)
}

// Aircraft is a convenience over a fresh Snapshot.
func (s *State) Aircraft(coalition string) []Object {
	return s.Snapshot().Aircraft(coalition)
}

// KnownPilots returns the pilot strings of all airborne objects, split on
// internal separators and trimmed, deduplicated, in deterministic order.
// The recognition pipeline feeds these to the transcription service as a
// bias hint.
func (s *State) KnownPilots() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	var out []string
	for _, id := range s.sortedIDs() {
		obj := s.objects[id]
		if !obj.IsAir() || obj.Pilot == nil {
			continue
		}
		name := strings.TrimSpace(strings.Join(splitSeparators(*obj.Pilot), " "))
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// Len returns the number of tracked objects.
func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// NormalizeCallsign lower-cases s and strips whitespace and hyphens, so
// "Dodge 1-1", "dodge11", and "DODGE-1-1" all compare equal.
func NormalizeCallsign(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch r {
		case ' ', '\t', '-':
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func splitSeparators(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		switch r {
		case ' ', '\t', '-', '_', '|', '/':
			return true
		}
		return false
	})
}
