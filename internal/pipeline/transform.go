package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/couchcryptid/argos-etl/internal/domain"
)

// FixTransformer implements Transformer with the domain extract and
// normalize functions.
type FixTransformer struct {
	policy domain.HemispherePolicy
	logger *slog.Logger
}

// NewTransformer creates a FixTransformer using the given hemisphere policy.
func NewTransformer(policy domain.HemispherePolicy, logger *slog.Logger) *FixTransformer {
	return &FixTransformer{
		policy: policy,
		logger: logger,
	}
}

// Transform extracts the positional tokens, logs them, and normalizes them
// into a fix. Errors are *domain.ParseError carrying the header line number.
func (t *FixTransformer) Transform(_ context.Context, d domain.DatumLines) (domain.NormalizedFix, error) {
	raw, err := domain.ExtractDatum(d)
	if err != nil {
		return domain.NormalizedFix{}, err
	}

	t.logger.Info("parsed datum",
		"tag_id", raw.TagID,
		"date", raw.ObsDate,
		"time", raw.ObsTime,
		"lc", raw.LocationClass,
		"lat", raw.LatRaw,
		"lon", raw.LonRaw,
	)

	fix, err := domain.NormalizeDatum(raw, t.policy)
	if err != nil {
		var pe *domain.ParseError
		if errors.As(err, &pe) {
			pe.Line = d.Line
		}
		return domain.NormalizedFix{}, err
	}
	return fix, nil
}
