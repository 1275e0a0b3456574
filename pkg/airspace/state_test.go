package airspace

import (
	"io"
	"log/slog"
	"testing"

	"github.com/pbzweihander/magic-gci-bot/pkg/tacview"
)

func update(id uint64, props ...tacview.Property) tacview.Update {
	return tacview.Update{ID: id, Props: props}
}

func prop(k, v string) tacview.Property {
	return tacview.Property{Key: k, Value: v}
}

func TestApplyCreatesAndMerges(t *testing.T) {
	s := NewState()

	s.Apply(update(1,
		prop("T", "41.6|33.2|2000"),
		prop("Type", "Air+FixedWing"),
		prop("Name", "F-16C_50"),
	))
	s.Apply(update(1,
		prop("T", "|33.9|"),
		prop("Pilot", "Dodge 1-1"),
	))

	obj, ok := s.Object(1)
	if !ok {
		t.Fatal("object 1 not created")
	}
	// Per-field last-write-wins: latitude updated, the rest preserved.
	if obj.Latitude == nil || *obj.Latitude != 33.9 {
		t.Errorf("Latitude = %v, want 33.9", obj.Latitude)
	}
	if obj.Longitude == nil || *obj.Longitude != 41.6 {
		t.Errorf("Longitude = %v, want 41.6", obj.Longitude)
	}
	if obj.Altitude == nil || *obj.Altitude != 2000 {
		t.Errorf("Altitude = %v, want 2000", obj.Altitude)
	}
	if obj.Heading != nil {
		t.Errorf("Heading = %v, want nil (never reported)", *obj.Heading)
	}
	if obj.Name == nil || *obj.Name != "F-16C_50" {
		t.Errorf("Name = %v, want F-16C_50", obj.Name)
	}
	if obj.Pilot == nil || *obj.Pilot != "Dodge 1-1" {
		t.Errorf("Pilot = %v, want Dodge 1-1", obj.Pilot)
	}
	if !obj.IsAir() {
		t.Error("IsAir() = false, want true")
	}
}

func TestApplyTypeReplacesWholesale(t *testing.T) {
	s := NewState()
	s.Apply(update(1, prop("Type", "Air+FixedWing")))
	s.Apply(update(1, prop("Type", "Ground+Heavy")))

	obj, _ := s.Object(1)
	if obj.IsAir() {
		t.Error("IsAir() = true after type replaced with Ground+Heavy")
	}
	if len(obj.Types) != 2 || obj.Types[0] != "Ground" || obj.Types[1] != "Heavy" {
		t.Errorf("Types = %v, want [Ground Heavy]", obj.Types)
	}
}

func TestApplyRemove(t *testing.T) {
	s := NewState()
	s.Apply(update(1, prop("Name", "F-15C")))
	s.Apply(tacview.Remove{ID: 1})
	if _, ok := s.Object(1); ok {
		t.Error("object 1 still present after removal")
	}
	// Removing an absent id is not an error.
	s.Apply(tacview.Remove{ID: 42})
}

func TestReferenceResetClearsObjects(t *testing.T) {
	s := NewState()
	s.Apply(update(1, prop("Name", "F-15C")))
	s.Apply(update(2, prop("Name", "MiG-29A")))

	s.Apply(tacview.Global{Props: []tacview.Property{prop("ReferenceLatitude", "33.0")}})
	if s.Len() != 0 {
		t.Fatalf("Len() = %d after reference reset, want 0", s.Len())
	}
	lat, lon := s.Reference()
	if lat == nil || *lat != 33.0 {
		t.Errorf("reference latitude = %v, want 33.0", lat)
	}
	if lon != nil {
		t.Errorf("reference longitude = %v, want nil", *lon)
	}

	s.Apply(update(3, prop("Name", "F-14B")))
	s.Apply(tacview.Global{Props: []tacview.Property{prop("ReferenceLongitude", "41.0")}})
	if s.Len() != 0 {
		t.Errorf("Len() = %d after second reference reset, want 0", s.Len())
	}
}

func TestFrameAndEventIgnored(t *testing.T) {
	s := NewState()
	s.Apply(update(1, prop("Name", "F-15C")))
	s.Apply(tacview.Frame{Offset: 10})
	s.Apply(tacview.Event{Props: []tacview.Property{prop("Event", "TakenOff|1|")}})
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestFindAircraftByPilot(t *testing.T) {
	s := NewState()
	s.Apply(update(1,
		prop("Type", "Air+FixedWing"),
		prop("Pilot", "Dodge 1-1 | Maverick"),
		prop("Coalition", "Enemies"),
	))
	s.Apply(update(2,
		prop("Type", "Ground+Heavy"),
		prop("Pilot", "Dodge 1-1"),
	))

	tests := []struct {
		callsign string
		wantID   uint64
		wantOK   bool
	}{
		{"Dodge 1-1", 1, true},
		{"dodge11", 1, true},
		{"DODGE-1-1", 1, true},
		{"Uzi 2-1", 0, false},
		{"", 0, false},
	}
	for _, tc := range tests {
		obj, ok := s.FindAircraftByPilot(tc.callsign)
		if ok != tc.wantOK {
			t.Errorf("FindAircraftByPilot(%q) ok = %v, want %v", tc.callsign, ok, tc.wantOK)
			continue
		}
		if ok && obj.ID != tc.wantID {
			t.Errorf("FindAircraftByPilot(%q) id = %d, want %d", tc.callsign, obj.ID, tc.wantID)
		}
	}
}

func TestAircraftFiltersAndSorts(t *testing.T) {
	s := NewState()
	s.Apply(update(3, prop("Type", "Air+FixedWing"), prop("Coalition", "Allies")))
	s.Apply(update(1, prop("Type", "Air+FixedWing"), prop("Coalition", "Allies")))
	s.Apply(update(2, prop("Type", "Air+FixedWing"), prop("Coalition", "Enemies")))
	s.Apply(update(4, prop("Type", "Sea+Watercraft"), prop("Coalition", "Allies")))

	got := s.Aircraft("Allies")
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		ids := make([]uint64, len(got))
		for i, o := range got {
			ids[i] = o.ID
		}
		t.Errorf("Aircraft(Allies) ids = %v, want [1 3]", ids)
	}
}

func TestSnapshotIsolatedFromLaterWrites(t *testing.T) {
	s := NewState()
	s.Apply(update(1, prop("T", "41.6|33.2|2000"), prop("Type", "Air+FixedWing")))

	snap := s.Snapshot()
	s.Apply(tacview.Remove{ID: 1})
	s.Apply(update(2, prop("Type", "Air+FixedWing")))

	if len(snap.Objects) != 1 || snap.Objects[0].ID != 1 {
		t.Errorf("snapshot objects = %+v, want the single pre-write object", snap.Objects)
	}
}

func TestKnownPilots(t *testing.T) {
	s := NewState()
	s.Apply(update(1, prop("Type", "Air+FixedWing"), prop("Pilot", "Dodge-1-1")))
	s.Apply(update(2, prop("Type", "Air+FixedWing"), prop("Pilot", "Uzi_2 1")))
	s.Apply(update(3, prop("Type", "Air+FixedWing"), prop("Pilot", "Dodge-1-1")))
	s.Apply(update(4, prop("Type", "Ground+Heavy"), prop("Pilot", "Convoy")))

	got := s.KnownPilots()
	want := []string{"Dodge 1 1", "Uzi 2 1"}
	if len(got) != len(want) {
		t.Fatalf("KnownPilots() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("KnownPilots()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

type stubReader struct {
	recs []tacview.Record
	errs []error
}

func (r *stubReader) Next() (tacview.Record, error) {
	if len(r.errs) > 0 && r.errs[0] != nil {
		err := r.errs[0]
		r.errs = r.errs[1:]
		r.recs = r.recs[1:]
		return nil, err
	}
	if len(r.recs) == 0 {
		return nil, io.EOF
	}
	rec := r.recs[0]
	r.recs = r.recs[1:]
	if len(r.errs) > 0 {
		r.errs = r.errs[1:]
	}
	return rec, nil
}

func TestLoopAppliesUntilEOF(t *testing.T) {
	s := NewState()
	r := &stubReader{
		recs: []tacview.Record{
			tacview.Update{ID: 1, Props: []tacview.Property{prop("Name", "F-15C")}},
			nil,
			tacview.Update{ID: 2, Props: []tacview.Property{prop("Name", "MiG-29A")}},
		},
		errs: []error{nil, tacview.ErrParse, nil},
	}
	Loop(slog.Default(), r, s)
	if s.Len() != 2 {
		t.Errorf("Len() = %d after loop, want 2 (parse error skipped)", s.Len())
	}
}
