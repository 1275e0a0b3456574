package gci

import (
	"fmt"
	"strings"
)

// altitudePhrase renders an altitude in meters as the spoken thousands of
// feet: "on the deck" below a thousand, "one thousand", then "N thousands".
// Thousands are truncated, not rounded.
func altitudePhrase(altitudeMeters float64) string {
	thousands := int(metersToFeet(altitudeMeters) / 1000)
	switch thousands {
	case 0:
		return "on the deck"
	case 1:
		return "one thousand"
	default:
		return fmt.Sprintf("%d thousands", thousands)
	}
}

// spokenBearing renders a bearing as three space-separated digits, the way
// it is read over the radio: 7 degrees is "0 0 7".
func spokenBearing(bearing float64) string {
	deg := (int(bearing) + 360) % 360
	digits := strings.Split(fmt.Sprintf("%03d", deg), "")
	return strings.Join(digits, " ")
}
