package domain

import (
	"bufio"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testHeader   = "03884 Date : 21.06.23 14:30:00 LC : 3 IQ : 66"
	testLocation = "      Lat1 : 34.722N Lon1 : 76.677W Lat2 : 35.104N Lon2 : 77.012W"
)

func scanAll(t *testing.T, input string) []DatumLines {
	t.Helper()
	s := NewRecordScanner(bufio.NewScanner(strings.NewReader(input)))
	var out []DatumLines
	for s.Scan() {
		out = append(out, s.Datum())
	}
	require.NoError(t, s.Err())
	return out
}

func TestRecordScanner_SinglePair(t *testing.T) {
	got := scanAll(t, testHeader+"\n"+testLocation+"\n")

	require.Len(t, got, 1)
	assert.Equal(t, testHeader, got[0].Header)
	assert.Equal(t, testLocation, got[0].Location)
	assert.Equal(t, 1, got[0].Line)
	assert.False(t, got[0].Truncated)
}

func TestRecordScanner_SkipsNonHeaderLines(t *testing.T) {
	input := strings.Join([]string{
		"      Nb mes : 004 Nb mes>-120dB: 000 Best level : -127 dB",
		"      Pass duration : 360s NOPC : 3",
		testHeader,
		testLocation,
		"      Calcul freq : 401 651580.0 Hz Altitude : 0 m",
		"              00          179          231           48",
		"03884 Date : 21.06.23 16:02:11 LC : B IQ : 00",
		"      Lat1 : 34.801N Lon1 : 76.512W Lat2 : 33.990N Lon2 : 75.004W",
	}, "\n")

	got := scanAll(t, input)

	require.Len(t, got, 2)
	assert.Equal(t, 3, got[0].Line)
	assert.Equal(t, 7, got[1].Line)
	assert.Contains(t, got[1].Header, "16:02:11")
	assert.Contains(t, got[1].Location, "34.801N")
}

func TestRecordScanner_LocationLineIsNotRetested(t *testing.T) {
	second := "03885 Date : 21.06.23 15:00:00 LC : 2 IQ : 55"
	input := strings.Join([]string{testHeader, second, testLocation}, "\n")

	got := scanAll(t, input)

	require.Len(t, got, 1, "second header is consumed as the location line")
	assert.Equal(t, second, got[0].Location)
}

func TestRecordScanner_TruncatedTrailingHeader(t *testing.T) {
	input := testHeader + "\n" + testLocation + "\n" + "03885 Date : 21.06.23 15:00:00 LC : 2 IQ : 55\n"

	got := scanAll(t, input)

	require.Len(t, got, 2)
	assert.False(t, got[0].Truncated)
	assert.True(t, got[1].Truncated)
	assert.Empty(t, got[1].Location)
	assert.Equal(t, 3, got[1].Line)
}

func TestRecordScanner_EmptyInput(t *testing.T) {
	assert.Empty(t, scanAll(t, ""))
}

func TestRecordScanner_NoMarkerVariants(t *testing.T) {
	// The marker needs the space before the colon.
	got := scanAll(t, "03884 Date: 21.06.23 14:30:00 LC : 3\n"+testLocation+"\n")
	assert.Empty(t, got)
}

type failingReader struct{ n int }

func (f *failingReader) Read(p []byte) (int, error) {
	if f.n > 0 {
		return 0, errors.New("disk on fire")
	}
	f.n++
	return copy(p, testHeader+"\n"+testLocation+"\n"), nil
}

func TestRecordScanner_PropagatesReadError(t *testing.T) {
	s := NewRecordScanner(bufio.NewScanner(&failingReader{}))

	require.True(t, s.Scan())
	assert.False(t, s.Scan())
	require.Error(t, s.Err())
	assert.Contains(t, s.Err().Error(), "disk on fire")
}
