// Package domain models ARGOS satellite tracking records and the rules for
// turning them into geolocated fixes.
//
// # Data Source
//
// ARGOS processing centres deliver tracking data as plain-text dumps, one file
// per download. Each satellite pass for a tag produces a block of lines; only
// the first two lines of a block carry a usable fix. Everything else (message
// counts, signal levels, frequency calculations, raw sensor words) is ignored.
//
// # Record Layout
//
// A block starts with a header line containing the literal marker "Date :".
// The line immediately after the header is the location line:
//
//	03884 Date : 21.06.23 14:30:00 LC : 3 IQ : 66
//	      Lat1 : 34.722N Lon1 : 76.677W Lat2 : 35.104N Lon2 : 77.012W
//
// Both lines are split on runs of whitespace and read by position:
//
//	header:   [0] tag id, [3] date, [4] time, [7] location class
//	location: [2] latitude, [5] longitude
//
// Only the primary solution (Lat1/Lon1) is used. The alternate solution
// (Lat2/Lon2) is left to downstream consumers.
//
// # Coordinates
//
// Coordinates are decimal degrees with a trailing hemisphere letter:
// "34.722N", "76.677W". The letter is stripped and the magnitude is negated
// unless the letter is the positive pole for its axis (N for latitude, E for
// longitude). Under [HemispherePermissive] any other trailing letter counts as
// the negative pole, matching the legacy import tooling. [HemisphereStrict]
// rejects letters that are not N/S or E/W and magnitudes outside the axis range.
//
// # Location Class
//
// The location class (LC) is the ARGOS accuracy code for the fix: 3, 2, 1, 0
// for estimated error classes and A, B, Z for fixes computed from too few
// messages. It is passed through unchanged; filtering by LC is a downstream
// concern.
//
// # Timestamps
//
// The date token uses "." separators. The output timestamp replaces them with
// "/" and joins the time token with a single space: "21.06.23" + "14:30:00"
// becomes "21/06/23 14:30:00". The string is not reinterpreted as a time.Time
// because the field order of the date token varies between ARGOS products.
package domain
