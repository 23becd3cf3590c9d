package domain

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDatum(t *testing.T) {
	got, err := ExtractDatum(DatumLines{Header: testHeader, Location: testLocation, Line: 1})
	require.NoError(t, err)

	want := RawDatum{
		TagID:         "03884",
		ObsDate:       "21.06.23",
		ObsTime:       "14:30:00",
		LocationClass: "3",
		LatRaw:        "34.722N",
		LonRaw:        "76.677W",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ExtractDatum mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractDatum_Errors(t *testing.T) {
	tests := []struct {
		name     string
		lines    DatumLines
		kind     ErrorKind
		sentinel error
		tag      string
	}{
		{
			name:     "short header",
			lines:    DatumLines{Header: "03884 Date : 21.06.23", Location: testLocation},
			kind:     KindStructure,
			sentinel: ErrTooFewFields,
			tag:      "03884",
		},
		{
			name:     "short location",
			lines:    DatumLines{Header: testHeader, Location: "Lat1 : 34.722N Lon1 :"},
			kind:     KindStructure,
			sentinel: ErrTooFewFields,
			tag:      "03884",
		},
		{
			name:     "empty location",
			lines:    DatumLines{Header: testHeader, Location: "   "},
			kind:     KindStructure,
			sentinel: ErrTooFewFields,
			tag:      "03884",
		},
		{
			name:     "truncated",
			lines:    DatumLines{Header: testHeader, Truncated: true},
			kind:     KindTruncated,
			sentinel: ErrTruncated,
			tag:      "03884",
		},
		{
			name:     "blank header",
			lines:    DatumLines{Header: "", Location: testLocation},
			kind:     KindStructure,
			sentinel: ErrTooFewFields,
			tag:      "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.lines.Line = 42
			_, err := ExtractDatum(tt.lines)
			require.Error(t, err)

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.kind, pe.Kind)
			assert.Equal(t, tt.tag, pe.TagID)
			assert.Equal(t, 42, pe.Line)
			assert.ErrorIs(t, err, tt.sentinel)
		})
	}
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindCoordinate, KindOf(&ParseError{Kind: KindCoordinate, Err: ErrMalformedCoordinate}))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestParseError_Message(t *testing.T) {
	withTag := &ParseError{Kind: KindTag, TagID: "x1", Err: errors.New("boom")}
	assert.Equal(t, "tag error for tag x1: boom", withTag.Error())

	noTag := &ParseError{Kind: KindStructure, Err: errors.New("boom")}
	assert.Equal(t, "structure error: boom", noTag.Error())
}
