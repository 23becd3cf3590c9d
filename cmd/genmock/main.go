// Command genmock writes a directory of synthetic ARGOS dump files for manual
// runs and demos. Output is deterministic for a given seed and includes a
// share of malformed datums so the error path is exercised.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock/argos -tags 5 -fixes 40 -malformed 0.05
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/argos-etl/internal/source"
)

var baseDate = time.Date(2023, time.June, 21, 0, 0, 0, 0, time.UTC)

// Location classes in decreasing accuracy.
var locationClasses = []string{"3", "2", "1", "0", "A", "B", "Z"}

type options struct {
	out       string
	tags      int
	fixes     int
	malformed float64
	seed      uint64
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	var opts options
	flag.StringVar(&opts.out, "out", "", "output directory for the generated dump files")
	flag.IntVar(&opts.tags, "tags", 3, "number of tags (one file per tag)")
	flag.IntVar(&opts.fixes, "fixes", 20, "datums per tag")
	flag.Float64Var(&opts.malformed, "malformed", 0.05, "fraction of datums to corrupt")
	flag.Uint64Var(&opts.seed, "seed", 1, "random seed")
	flag.Parse()

	if opts.out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if opts.tags <= 0 || opts.fixes <= 0 {
		return fmt.Errorf("-tags and -fixes must be positive")
	}

	if err := os.MkdirAll(opts.out, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", opts.out, err)
	}

	rng := rand.New(rand.NewPCG(opts.seed, opts.seed^0x9e3779b97f4a7c15))
	var valid, bad int
	for i := range opts.tags {
		tag := 3000 + rng.IntN(6000) + i
		v, b, err := writeTag(filepath.Join(opts.out, fmt.Sprintf("%05d.txt", tag)), tag, rng, opts)
		if err != nil {
			return err
		}
		valid += v
		bad += b
	}

	readme := fmt.Sprintf("Synthetic ARGOS dumps generated with seed %d.\n%d valid datums, %d malformed.\n",
		opts.seed, valid, bad)
	if err := os.WriteFile(filepath.Join(opts.out, source.ReadmeName), []byte(readme), 0o644); err != nil {
		return fmt.Errorf("write readme: %w", err)
	}

	log.Printf("wrote %d files to %s: %d valid datums, %d malformed", opts.tags, opts.out, valid, bad)
	return nil
}

// writeTag writes one file holding a random walk for tag. It returns the
// number of valid and malformed datums written.
func writeTag(path string, tag int, rng *rand.Rand, opts options) (valid, bad int, err error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, 0, fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	fmt.Fprintf(w, "Prg 1042  Tag %05d\n", tag)

	lat := rng.Float64()*120 - 60
	lon := rng.Float64()*340 - 170
	at := baseDate.Add(time.Duration(rng.IntN(86400)) * time.Second)

	for range opts.fixes {
		lat = clamp(lat+rng.NormFloat64()*0.2, -89.9, 89.9)
		lon = clamp(lon+rng.NormFloat64()*0.2, -179.9, 179.9)
		at = at.Add(time.Duration(30+rng.IntN(300)) * time.Minute)

		header := fmt.Sprintf("%05d Date : %s %s LC : %s IQ : %02d",
			tag, at.Format("02.01.06"), at.Format("15:04:05"),
			locationClasses[rng.IntN(len(locationClasses))], rng.IntN(100))
		location := fmt.Sprintf("      Lat1 : %s  Lon1 : %s  Lat2 : %s  Lon2 : %s",
			coord(lat, 'N', 'S'), coord(lon, 'E', 'W'),
			coord(lat+rng.NormFloat64()*0.5, 'N', 'S'), coord(lon+rng.NormFloat64()*0.5, 'E', 'W'))

		if rng.Float64() < opts.malformed {
			header, location = corrupt(header, location, rng)
			bad++
		} else {
			valid++
		}

		fmt.Fprintln(w, header)
		fmt.Fprintln(w, location)
		fmt.Fprintf(w, "      Nb mes : %03d  Nb mes>-120dB: 000  Best level : -%d dB\n", 1+rng.IntN(9), 120+rng.IntN(20))
	}

	if err := w.Flush(); err != nil {
		return 0, 0, fmt.Errorf("write %s: %w", path, err)
	}
	return valid, bad, nil
}

// corrupt damages one datum in one of the ways real dumps are damaged.
func corrupt(header, location string, rng *rand.Rand) (string, string) {
	switch rng.IntN(3) {
	case 0:
		return header, "      Lat1 : ???  Lon1 : ???"
	case 1:
		return header, "      Lat1 :"
	default:
		return "X" + header[1:], location
	}
}

func coord(v float64, pos, neg byte) string {
	if v < 0 {
		return fmt.Sprintf("%.3f%c", -v, neg)
	}
	return fmt.Sprintf("%.3f%c", v, pos)
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
