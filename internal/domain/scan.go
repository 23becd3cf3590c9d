package domain

import "strings"

// HeaderMarker identifies the first line of a datum.
const HeaderMarker = "Date :"

// LineReader is the forward-only line iterator a RecordScanner consumes.
// *bufio.Scanner satisfies it.
type LineReader interface {
	Scan() bool
	Text() string
	Err() error
}

// RecordScanner pairs every header line with the line immediately after it.
// Lines that are neither a header nor the line after one are discarded.
//
// The line after a header is consumed without being tested for the marker,
// so two consecutive headers produce one datum whose location line is the
// second header.
type RecordScanner struct {
	lines  LineReader
	lineNo int
	datum  DatumLines
}

// NewRecordScanner creates a scanner reading from lines.
func NewRecordScanner(lines LineReader) *RecordScanner {
	return &RecordScanner{lines: lines}
}

// Scan advances to the next datum. It returns false at end of input or on a
// read error; check Err afterwards. A header on the last line is reported as
// a datum with Truncated set.
func (s *RecordScanner) Scan() bool {
	for s.lines.Scan() {
		s.lineNo++
		header := s.lines.Text()
		if !strings.Contains(header, HeaderMarker) {
			continue
		}

		s.datum = DatumLines{Header: header, Line: s.lineNo}
		if !s.lines.Scan() {
			s.datum.Truncated = true
			return true
		}
		s.lineNo++
		s.datum.Location = s.lines.Text()
		return true
	}
	return false
}

// Datum returns the pair found by the last successful call to Scan.
func (s *RecordScanner) Datum() DatumLines {
	return s.datum
}

// Err returns the first non-EOF error from the underlying reader.
func (s *RecordScanner) Err() error {
	return s.lines.Err()
}
