package domain

import (
	"fmt"
	"strings"
)

// Token positions on the header and location lines.
const (
	headerTagIdx  = 0
	headerDateIdx = 3
	headerTimeIdx = 4
	headerLCIdx   = 7

	locationLatIdx = 2
	locationLonIdx = 5
)

// ExtractDatum splits a header/location pair on whitespace and picks out the
// six positional tokens. Lines that are too short yield a ParseError of kind
// KindStructure; a truncated pair yields KindTruncated.
func ExtractDatum(d DatumLines) (RawDatum, error) {
	header := strings.Fields(d.Header)

	var tag string
	if len(header) > headerTagIdx {
		tag = header[headerTagIdx]
	}

	if d.Truncated {
		return RawDatum{}, &ParseError{Kind: KindTruncated, TagID: tag, Line: d.Line, Err: ErrTruncated}
	}
	if len(header) <= headerLCIdx {
		return RawDatum{}, &ParseError{
			Kind:  KindStructure,
			TagID: tag,
			Line:  d.Line,
			Err:   fmt.Errorf("header line has %d fields, need %d: %w", len(header), headerLCIdx+1, ErrTooFewFields),
		}
	}

	location := strings.Fields(d.Location)
	if len(location) <= locationLonIdx {
		return RawDatum{}, &ParseError{
			Kind:  KindStructure,
			TagID: tag,
			Line:  d.Line,
			Err:   fmt.Errorf("location line has %d fields, need %d: %w", len(location), locationLonIdx+1, ErrTooFewFields),
		}
	}

	return RawDatum{
		TagID:         tag,
		ObsDate:       header[headerDateIdx],
		ObsTime:       header[headerTimeIdx],
		LocationClass: header[headerLCIdx],
		LatRaw:        location[locationLatIdx],
		LonRaw:        location[locationLonIdx],
	}, nil
}
