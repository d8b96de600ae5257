package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"shelfmark/internal/detect"
	"shelfmark/internal/logging"
	"shelfmark/internal/textnorm"
)

// Evaluator is the per-book detection entry point the orchestrator drives.
// Satisfied by *detect.Detector.
type Evaluator interface {
	Detect(book detect.Book) detect.Result
}

// ThresholdEvaluator is implemented by evaluators whose mask threshold can be
// overridden per batch.
type ThresholdEvaluator interface {
	Evaluator
	WithMinConfidence(threshold int) *detect.Detector
}

// Options tunes a batch run.
type Options struct {
	// MinConfidence overrides the evaluator's mask threshold when positive.
	MinConfidence int
	// Delay is slept between books. Meaningful only when detection fronts a
	// rate-limited remote lookup; zero for in-process catalogs.
	Delay time.Duration
	// OnProgress is invoked after each book with the running position.
	OnProgress func(current, total, percent int)
}

// Summary aggregates one batch run.
type Summary struct {
	RunID           string
	BooksAnalyzed   int
	SeriesDetected  int
	StandaloneBooks int
	Errors          int
	Elapsed         time.Duration
}

// Orchestrator iterates a collection through an evaluator.
type Orchestrator struct {
	evaluator Evaluator
	logger    *slog.Logger
}

// New builds an orchestrator. A nil logger falls back to a no-op logger.
func New(evaluator Evaluator, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Orchestrator{evaluator: evaluator, logger: logger}
}

// Run analyzes every book and returns the summary. Each book is evaluated at
// most once; evaluation panics are counted as errors and the book is treated
// as standalone. Context cancellation stops the pass early.
func (o *Orchestrator) Run(ctx context.Context, books []detect.Book, opts Options) Summary {
	evaluator := o.evaluator
	if opts.MinConfidence > 0 {
		if te, ok := evaluator.(ThresholdEvaluator); ok {
			evaluator = te.WithMinConfidence(opts.MinConfidence)
		}
	}

	summary := Summary{RunID: uuid.NewString()}
	start := time.Now()
	seriesKeys := make(map[string]struct{})
	total := len(books)

	o.logger.Info("batch analysis started",
		logging.String(logging.FieldRunID, summary.RunID),
		logging.Int("books", total))

	for i, book := range books {
		if ctx.Err() != nil {
			o.logger.Warn("batch analysis cancelled",
				logging.String(logging.FieldRunID, summary.RunID),
				logging.Int("analyzed", summary.BooksAnalyzed))
			break
		}

		result, err := o.evaluate(evaluator, book)
		summary.BooksAnalyzed++
		switch {
		case err != nil:
			summary.Errors++
			summary.StandaloneBooks++
			o.logger.Error("book evaluation failed",
				logging.String(logging.FieldRunID, summary.RunID),
				logging.String("title", book.Title),
				logging.Error(err))
		case result.Belongs:
			seriesKeys[textnorm.Key(result.SeriesName)] = struct{}{}
		default:
			summary.StandaloneBooks++
		}

		if opts.OnProgress != nil {
			current := i + 1
			opts.OnProgress(current, total, percent(current, total))
		}
		if opts.Delay > 0 && i < total-1 {
			select {
			case <-time.After(opts.Delay):
			case <-ctx.Done():
			}
		}
	}

	summary.SeriesDetected = len(seriesKeys)
	summary.Elapsed = time.Since(start)
	o.logger.Info("batch analysis completed",
		logging.String(logging.FieldRunID, summary.RunID),
		logging.Int("books_analyzed", summary.BooksAnalyzed),
		logging.Int("series_detected", summary.SeriesDetected),
		logging.Int("standalone_books", summary.StandaloneBooks),
		logging.Int("errors", summary.Errors),
		logging.Duration("elapsed", summary.Elapsed))
	return summary
}

// evaluate shields the batch from a panicking evaluation.
func (o *Orchestrator) evaluate(evaluator Evaluator, book detect.Book) (result detect.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("evaluate %q: %v", book.Title, r)
		}
	}()
	result = evaluator.Detect(book)
	return result, nil
}

func percent(current, total int) int {
	if total <= 0 {
		return 100
	}
	return current * 100 / total
}
