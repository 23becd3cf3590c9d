package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// HemispherePolicy controls how trailing hemisphere letters are validated.
type HemispherePolicy int

const (
	// HemispherePermissive negates the magnitude for any letter other than
	// the positive pole, including lowercase letters and garbage.
	HemispherePermissive HemispherePolicy = iota

	// HemisphereStrict accepts only N/S (latitude) or E/W (longitude) and
	// rejects magnitudes outside the axis range.
	HemisphereStrict
)

// ParseHemispherePolicy parses "permissive" or "strict" (case-insensitive).
// An empty string selects HemispherePermissive.
func ParseHemispherePolicy(s string) (HemispherePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "permissive":
		return HemispherePermissive, nil
	case "strict":
		return HemisphereStrict, nil
	default:
		return HemispherePermissive, fmt.Errorf("unknown hemisphere policy %q", s)
	}
}

func (p HemispherePolicy) String() string {
	if p == HemisphereStrict {
		return "strict"
	}
	return "permissive"
}

type axis struct {
	name     string
	positive byte
	negative byte
	limit    float64
}

var (
	latitudeAxis  = axis{name: "latitude", positive: 'N', negative: 'S', limit: 90}
	longitudeAxis = axis{name: "longitude", positive: 'E', negative: 'W', limit: 180}
)

// NormalizeLatitude converts a token like "34.722N" to signed decimal degrees.
func NormalizeLatitude(token string, policy HemispherePolicy) (float64, error) {
	return normalizeCoordinate(token, latitudeAxis, policy)
}

// NormalizeLongitude converts a token like "76.677W" to signed decimal degrees.
func NormalizeLongitude(token string, policy HemispherePolicy) (float64, error) {
	return normalizeCoordinate(token, longitudeAxis, policy)
}

func normalizeCoordinate(token string, ax axis, policy HemispherePolicy) (float64, error) {
	if len(token) <= 1 {
		return 0, fmt.Errorf("%s %q: %w", ax.name, token, ErrMalformedCoordinate)
	}

	hemisphere := token[len(token)-1]
	digits := token[:len(token)-1]
	if isHexFloat(digits) {
		return 0, fmt.Errorf("%s %q: %w", ax.name, token, ErrMalformedCoordinate)
	}
	magnitude, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w: %w", ax.name, token, ErrMalformedCoordinate, err)
	}

	if policy == HemisphereStrict {
		if hemisphere != ax.positive && hemisphere != ax.negative {
			return 0, fmt.Errorf("%s %q: %w %q", ax.name, token, ErrUnknownHemisphere, hemisphere)
		}
		if math.IsNaN(magnitude) || magnitude < 0 || magnitude > ax.limit {
			return 0, fmt.Errorf("%s %q: %w", ax.name, token, ErrOutOfRange)
		}
	}

	if hemisphere == ax.positive {
		return magnitude, nil
	}
	return -magnitude, nil
}

// isHexFloat reports a 0x mantissa, which ParseFloat accepts but telemetry
// dumps never contain.
func isHexFloat(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}
