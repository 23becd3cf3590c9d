package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// NormalizeDatum validates a RawDatum and converts it into a NormalizedFix.
// The tag id must be a base-10 integer; coordinates follow the hemisphere
// rules of policy. Failures are returned as *ParseError.
func NormalizeDatum(raw RawDatum, policy HemispherePolicy) (NormalizedFix, error) {
	tagID, err := strconv.ParseInt(raw.TagID, 10, 64)
	if err != nil {
		return NormalizedFix{}, &ParseError{Kind: KindTag, TagID: raw.TagID, Err: fmt.Errorf("parse tag id: %w", err)}
	}

	lat, err := NormalizeLatitude(raw.LatRaw, policy)
	if err != nil {
		return NormalizedFix{}, &ParseError{Kind: KindCoordinate, TagID: raw.TagID, Err: err}
	}
	lon, err := NormalizeLongitude(raw.LonRaw, policy)
	if err != nil {
		return NormalizedFix{}, &ParseError{Kind: KindCoordinate, TagID: raw.TagID, Err: err}
	}

	return NormalizedFix{
		TagID:         tagID,
		LocationClass: raw.LocationClass,
		Timestamp:     ComposeTimestamp(raw.ObsDate, raw.ObsTime),
		Latitude:      lat,
		Longitude:     lon,
		ProcessedAt:   clock.Now().UTC(),
	}, nil
}

// ComposeTimestamp joins the date and time tokens into the output timestamp,
// e.g. "23.06.21" + "14:30:00" -> "23/06/21 14:30:00".
func ComposeTimestamp(date, timeOfDay string) string {
	return strings.ReplaceAll(date, ".", "/") + " " + timeOfDay
}
