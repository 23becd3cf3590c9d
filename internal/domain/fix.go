package domain

import "time"

// DatumLines is a header line and the location line that followed it, as
// discovered by a RecordScanner.
type DatumLines struct {
	Header   string
	Location string
	Line     int // 1-based line number of the header

	// Truncated is set when the header was the last line of the input and
	// no location line could be paired with it.
	Truncated bool
}

// RawDatum holds the six positional tokens of one ARGOS fix, unvalidated.
type RawDatum struct {
	TagID         string
	ObsDate       string
	ObsTime       string
	LocationClass string
	LatRaw        string
	LonRaw        string
}

// NormalizedFix is a validated location fix ready for a sink. Coordinates are
// signed decimal degrees on WGS84 (EPSG:4326).
type NormalizedFix struct {
	TagID         int64     `json:"tag_id"`
	LocationClass string    `json:"lc"`
	Timestamp     string    `json:"date"`
	Latitude      float64   `json:"lat"`
	Longitude     float64   `json:"lon"`
	Source        string    `json:"source,omitempty"` // input file name
	ProcessedAt   time.Time `json:"processed_at"`
}
