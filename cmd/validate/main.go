// Command validate checks a shapefile written by argos against its input
// directory. It re-scans the input with the same pipeline, then verifies the
// record count, record order, attributes, and projected coordinates.
//
// Usage:
//
//	go run ./cmd/validate -input data/mock/argos -shapefile out/ARGOStrack.shp -srs EPSG:4326
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"

	"github.com/couchcryptid/argos-etl/internal/adapter/shapefile"
	"github.com/couchcryptid/argos-etl/internal/domain"
	"github.com/couchcryptid/argos-etl/internal/observability"
	"github.com/couchcryptid/argos-etl/internal/pipeline"
	"github.com/couchcryptid/argos-etl/internal/source"
	"github.com/couchcryptid/argos-etl/internal/spatialref"
)

// tolerance absorbs the float formatting of the .shp writer.
const tolerance = 1e-6

// maxReported caps the mismatches printed per run.
const maxReported = 20

// collector is a pipeline sink that keeps every fix in memory.
type collector struct {
	fixes []domain.NormalizedFix
}

func (c *collector) Insert(_ context.Context, fix domain.NormalizedFix) error {
	c.fixes = append(c.fixes, fix)
	return nil
}

func main() {
	input := flag.String("input", "", "input directory of ARGOS dump files")
	shp := flag.String("shapefile", "", "shapefile written by argos")
	srs := flag.String("srs", "EPSG:4326", "spatial reference the shapefile was written in")
	hemisphere := flag.String("hemisphere", "permissive", "hemisphere mode used for the run")
	flag.Parse()

	if *input == "" || *shp == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*input, *shp, *srs, *hemisphere, os.Stdout); code != 0 {
		os.Exit(code)
	}
}

func run(input, shpPath, srs, hemisphere string, out io.Writer) int {
	ref, err := spatialref.Parse(srs)
	if err != nil {
		fmt.Fprintln(out, "FAIL:", err)
		return 2
	}
	policy, err := domain.ParseHemispherePolicy(hemisphere)
	if err != nil {
		fmt.Fprintln(out, "FAIL:", err)
		return 2
	}

	expected, err := rescan(input, policy)
	if err != nil {
		fmt.Fprintln(out, "FAIL: rescan input:", err)
		return 2
	}
	records, err := shapefile.Read(shpPath)
	if err != nil {
		fmt.Fprintln(out, "FAIL: read shapefile:", err)
		return 2
	}

	problems := compare(expected, records, ref)
	for i, p := range problems {
		if i == maxReported {
			fmt.Fprintf(out, "  ... %d more\n", len(problems)-maxReported)
			break
		}
		fmt.Fprintln(out, "  "+p)
	}
	if len(problems) > 0 {
		fmt.Fprintf(out, "FAIL: %d problems (%d expected fixes, %d records)\n", len(problems), len(expected), len(records))
		return 1
	}
	fmt.Fprintf(out, "PASS: %d records match %s\n", len(records), input)
	return 0
}

func rescan(input string, policy domain.HemispherePolicy) ([]domain.NormalizedFix, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sink := &collector{}
	p := pipeline.New(source.NewDir(input), pipeline.NewTransformer(policy, logger), sink, logger,
		observability.NewMetricsForTesting())
	if _, err := p.Run(context.Background()); err != nil {
		return nil, err
	}
	return sink.fixes, nil
}

// compare returns one line per mismatch between the expected fixes and the
// records read back from the shapefile, in order.
func compare(expected []domain.NormalizedFix, records []shapefile.Record, ref spatialref.SpatialRef) []string {
	var problems []string
	if len(expected) != len(records) {
		problems = append(problems, fmt.Sprintf("record count: want %d, got %d", len(expected), len(records)))
	}

	for i := range min(len(expected), len(records)) {
		want, got := expected[i], records[i]
		x, y := ref.Project(want.Longitude, want.Latitude)

		if want.TagID != got.TagID {
			problems = append(problems, fmt.Sprintf("record %d: TagID want %d, got %d", i, want.TagID, got.TagID))
		}
		if want.LocationClass != got.LC {
			problems = append(problems, fmt.Sprintf("record %d: LC want %q, got %q", i, want.LocationClass, got.LC))
		}
		if want.Timestamp != got.Date {
			problems = append(problems, fmt.Sprintf("record %d: Date want %q, got %q", i, want.Timestamp, got.Date))
		}
		if math.Abs(x-got.X) > tolerance || math.Abs(y-got.Y) > tolerance {
			problems = append(problems, fmt.Sprintf("record %d (tag %s): point want (%s, %s), got (%s, %s)",
				i, strconv.FormatInt(want.TagID, 10), fmtCoord(x), fmtCoord(y), fmtCoord(got.X), fmtCoord(got.Y)))
		}
	}
	return problems
}

func fmtCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
