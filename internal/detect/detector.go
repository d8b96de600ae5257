package detect

import (
	"fmt"
	"log/slog"
	"strings"

	"shelfmark/internal/catalog"
	"shelfmark/internal/logging"
)

// DefaultMaskThreshold is the confidence a candidate must reach before the
// book is grouped (and therefore masked) under its series.
const DefaultMaskThreshold = 70

// Detector arbitrates the match strategies into a single result per book.
// A Detector is safe for concurrent use; it holds no mutable state.
type Detector struct {
	cat        *catalog.Catalog
	strategies []Strategy
	threshold  int
	logger     *slog.Logger
}

// Option configures a Detector.
type Option func(*Detector)

// WithThreshold overrides the mask threshold. Values outside [0, 100] keep
// the default.
func WithThreshold(threshold int) Option {
	return func(d *Detector) {
		if threshold >= 0 && threshold <= 100 {
			d.threshold = threshold
		}
	}
}

// WithLogger attaches a logger for decision summaries.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Detector) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDetector builds a detector over the provided catalog.
func NewDetector(cat *catalog.Catalog, opts ...Option) *Detector {
	d := &Detector{
		cat:        cat,
		strategies: Strategies(),
		threshold:  DefaultMaskThreshold,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Threshold reports the configured mask threshold.
func (d *Detector) Threshold() int { return d.threshold }

// Catalog returns the catalog the detector evaluates against.
func (d *Detector) Catalog() *catalog.Catalog { return d.cat }

// WithMinConfidence returns a detector sharing this one's catalog and logger
// but using the given threshold. Used by batch runs that override the default.
func (d *Detector) WithMinConfidence(threshold int) *Detector {
	clone := *d
	if threshold >= 0 && threshold <= 100 {
		clone.threshold = threshold
	}
	return &clone
}

// Detect classifies one book. It never fails: malformed input and an empty
// catalog yield a "none" result with zero confidence.
func (d *Detector) Detect(book Book) Result {
	// The explicit field is authoritative and needs no catalog.
	if candidate, ok := (explicitFieldStrategy{}).Evaluate(book, d.cat); ok {
		return d.accept(book, candidate)
	}

	if strings.TrimSpace(book.Title) == "" {
		return Result{Method: MethodNone}
	}
	if d.cat.Len() == 0 {
		// Degraded mode: callers detect it by checking catalog size.
		return Result{Method: MethodNone}
	}

	var best Candidate
	found := false
	for _, strategy := range d.strategies {
		if strategy.Name() == "explicit_field" {
			continue
		}
		candidate, ok := strategy.Evaluate(book, d.cat)
		if !ok {
			continue
		}
		d.logger.Debug("strategy candidate",
			logging.String(logging.FieldDecisionType, "series_detection"),
			logging.String("strategy", strategy.Name()),
			logging.String("series", candidate.SeriesName),
			logging.Int("confidence", candidate.Confidence))
		// Strategies run in priority order, so a strict comparison keeps the
		// earlier strategy on exact ties.
		if !found || candidate.Confidence > best.Confidence {
			best = candidate
			found = true
		}
	}
	if !found {
		return Result{Method: MethodNone}
	}
	return d.accept(book, best)
}

func (d *Detector) accept(book Book, candidate Candidate) Result {
	result := Result{
		SeriesName: candidate.SeriesName,
		Confidence: candidate.Confidence,
		Method:     candidate.Method,
		Reasons:    candidate.Reasons,
	}
	result.Belongs = candidate.Confidence >= d.threshold
	if !result.Belongs {
		result.Reasons = append(result.Reasons,
			fmt.Sprintf("below threshold (confidence %d < %d)", candidate.Confidence, d.threshold))
	}
	d.logger.Info("series detection decision",
		logging.String(logging.FieldEventType, "decision_summary"),
		logging.String(logging.FieldDecisionType, "series_detection"),
		logging.String("title", book.Title),
		logging.String("series", result.SeriesName),
		logging.String("method", string(result.Method)),
		logging.Int("confidence", result.Confidence),
		logging.Bool("belongs", result.Belongs))
	return result
}
