package pipeline_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/couchcryptid/argos-etl/internal/domain"
)

// memSource serves files from memory in the order given by names.
type memSource struct {
	names    []string
	files    map[string]string
	openErrs map[string]error
	listErr  error
}

func newMemSource() *memSource {
	return &memSource{files: map[string]string{}, openErrs: map[string]error{}}
}

func (m *memSource) add(name, content string) *memSource {
	m.names = append(m.names, name)
	m.files[name] = content
	return m
}

func (m *memSource) failOpen(name string, err error) *memSource {
	m.names = append(m.names, name)
	m.openErrs[name] = err
	return m
}

func (m *memSource) Files() ([]string, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.names, nil
}

func (m *memSource) Open(name string) (io.ReadCloser, error) {
	if err, ok := m.openErrs[name]; ok {
		return nil, err
	}
	content, ok := m.files[name]
	if !ok {
		return nil, fmt.Errorf("open %s: no such file", name)
	}
	return io.NopCloser(strings.NewReader(content)), nil
}

// recordingSink keeps every inserted fix and fails for the tags in rejects.
type recordingSink struct {
	mu      sync.Mutex
	fixes   []domain.NormalizedFix
	rejects map[int64]bool
}

var errSinkRejected = errors.New("sink rejected fix")

func (r *recordingSink) Insert(_ context.Context, fix domain.NormalizedFix) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rejects[fix.TagID] {
		return errSinkRejected
	}
	r.fixes = append(r.fixes, fix)
	return nil
}

// cancellingSink cancels the run after the first insert.
type cancellingSink struct {
	recordingSink
	cancel context.CancelFunc
}

func (c *cancellingSink) Insert(ctx context.Context, fix domain.NormalizedFix) error {
	err := c.recordingSink.Insert(ctx, fix)
	c.cancel()
	return err
}

// datum renders one header/location pair in ARGOS dump layout.
func datum(tag, date, clock, lc, lat, lon string) string {
	return fmt.Sprintf("%s Date : %s %s LC : %s IQ : 66\n      Lat1 : %s  Lon1 : %s  Lat2 : %s  Lon2 : %s\n",
		tag, date, clock, lc, lat, lon, lat, lon)
}
