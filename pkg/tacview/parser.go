package tacview

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseLine decodes one logical ACMI line (continuations already joined)
// into a Record.
//
// File-header lines (FileType=..., FileVersion=...) yield a nil Record and
// nil error; callers skip them.
func ParseLine(line string) (Record, error) {
	line = strings.TrimSuffix(line, "\r")
	if line == "" {
		return nil, nil
	}

	switch {
	case strings.HasPrefix(line, "FileType=") || strings.HasPrefix(line, "FileVersion="):
		return nil, nil
	case strings.HasPrefix(line, "#"):
		offset, err := strconv.ParseFloat(line[1:], 64)
		if err != nil {
			return nil, fmt.Errorf("tacview: bad frame offset %q: %w", line, err)
		}
		return Frame{Offset: offset}, nil
	case strings.HasPrefix(line, "-"):
		id, err := strconv.ParseUint(strings.TrimSpace(line[1:]), 16, 64)
		if err != nil {
			return nil, fmt.Errorf("tacview: bad removal id %q: %w", line, err)
		}
		return Remove{ID: id}, nil
	}

	fields := splitEscaped(line, ',')
	if len(fields) < 2 {
		return nil, fmt.Errorf("tacview: record without properties: %q", line)
	}
	id, err := strconv.ParseUint(fields[0], 16, 64)
	if err != nil {
		return nil, fmt.Errorf("tacview: bad object id %q: %w", fields[0], err)
	}

	props := make([]Property, 0, len(fields)-1)
	for _, f := range fields[1:] {
		key, value, ok := strings.Cut(f, "=")
		if !ok {
			return nil, fmt.Errorf("tacview: bad property %q in %q", f, line)
		}
		props = append(props, Property{Key: key, Value: unescape(value)})
	}

	if id == GlobalID {
		for _, p := range props {
			if p.Key == PropEvent {
				return Event{Props: props}, nil
			}
		}
		return Global{Props: props}, nil
	}
	return Update{ID: id, Props: props}, nil
}

// splitEscaped splits s on sep, honoring backslash escapes of the separator.
func splitEscaped(s string, sep byte) []string {
	var out []string
	var cur strings.Builder
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '\\' && i+1 < len(s) && s[i+1] == sep:
			cur.WriteByte(sep)
			i++
		case s[i] == sep:
			out = append(out, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(s[i])
		}
	}
	out = append(out, cur.String())
	return out
}

func unescape(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}
	s = strings.ReplaceAll(s, "\\,", ",")
	s = strings.ReplaceAll(s, "\\\\", "\\")
	return s
}

// Transform is the decoded T= property. Each field is optional: ACMI deltas
// report only changed axes, and the shorter transform forms omit heading
// entirely.
type Transform struct {
	Longitude *float64
	Latitude  *float64
	Altitude  *float64
	Heading   *float64
}

// ParseTransform decodes a T= property value.
//
// Supported forms, by field count:
//
//	lon|lat|alt
//	lon|lat|alt|u|v
//	lon|lat|alt|roll|pitch|yaw
//	lon|lat|alt|roll|pitch|yaw|u|v|heading
//
// Empty fields mean "unchanged" and stay nil. The u/v (native coordinates)
// and roll/pitch/yaw fields are not retained.
func ParseTransform(value string) (Transform, error) {
	fields := strings.Split(value, "|")
	var tf Transform
	switch len(fields) {
	case 3, 5, 6, 9:
	default:
		return tf, fmt.Errorf("tacview: transform with %d fields: %q", len(fields), value)
	}

	set := func(dst **float64, field string) error {
		if field == "" {
			return nil
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return fmt.Errorf("tacview: bad transform field %q: %w", field, err)
		}
		*dst = &v
		return nil
	}

	if err := set(&tf.Longitude, fields[0]); err != nil {
		return tf, err
	}
	if err := set(&tf.Latitude, fields[1]); err != nil {
		return tf, err
	}
	if err := set(&tf.Altitude, fields[2]); err != nil {
		return tf, err
	}
	if len(fields) == 9 {
		if err := set(&tf.Heading, fields[8]); err != nil {
			return tf, err
		}
	}
	return tf, nil
}
