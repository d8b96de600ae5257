package batch

import (
	"context"
	"testing"

	"shelfmark/internal/catalog"
	"shelfmark/internal/detect"
)

type scriptedEvaluator struct {
	results map[string]detect.Result
	panics  map[string]bool
}

func (s *scriptedEvaluator) Detect(book detect.Book) detect.Result {
	if s.panics[book.Title] {
		panic("scripted failure")
	}
	return s.results[book.Title]
}

func TestRunCountsSeriesAndStandalone(t *testing.T) {
	evaluator := &scriptedEvaluator{results: map[string]detect.Result{
		"hp1":  {Belongs: true, SeriesName: "Harry Potter", Confidence: 85},
		"hp2":  {Belongs: true, SeriesName: "harry potter!", Confidence: 85},
		"dune": {Belongs: false, Confidence: 40},
	}}
	o := New(evaluator, nil)

	summary := o.Run(context.Background(), []detect.Book{
		{Title: "hp1"}, {Title: "hp2"}, {Title: "dune"},
	}, Options{})

	if summary.BooksAnalyzed != 3 {
		t.Fatalf("expected 3 analyzed, got %d", summary.BooksAnalyzed)
	}
	// Both spellings normalize to one series.
	if summary.SeriesDetected != 1 {
		t.Fatalf("expected 1 distinct series, got %d", summary.SeriesDetected)
	}
	if summary.StandaloneBooks != 1 {
		t.Fatalf("expected 1 standalone, got %d", summary.StandaloneBooks)
	}
	if summary.Errors != 0 {
		t.Fatalf("expected no errors, got %d", summary.Errors)
	}
	if summary.RunID == "" {
		t.Fatal("expected a run id")
	}
}

func TestRunSurvivesPanickingBook(t *testing.T) {
	evaluator := &scriptedEvaluator{
		results: map[string]detect.Result{
			"ok": {Belongs: true, SeriesName: "Series", Confidence: 90},
		},
		panics: map[string]bool{"bad": true},
	}
	o := New(evaluator, nil)

	summary := o.Run(context.Background(), []detect.Book{
		{Title: "ok"}, {Title: "bad"}, {Title: "also fine"},
	}, Options{})

	if summary.BooksAnalyzed != 3 {
		t.Fatalf("panic must not stop the batch: analyzed %d", summary.BooksAnalyzed)
	}
	if summary.Errors != 1 {
		t.Fatalf("expected 1 error, got %d", summary.Errors)
	}
	// The failing book counts as standalone alongside "also fine".
	if summary.StandaloneBooks != 2 {
		t.Fatalf("expected 2 standalone, got %d", summary.StandaloneBooks)
	}
}

func TestRunProgressCallback(t *testing.T) {
	evaluator := &scriptedEvaluator{}
	o := New(evaluator, nil)

	var calls [][3]int
	o.Run(context.Background(), []detect.Book{{Title: "a"}, {Title: "b"}}, Options{
		OnProgress: func(current, total, percent int) {
			calls = append(calls, [3]int{current, total, percent})
		},
	})

	if len(calls) != 2 {
		t.Fatalf("expected 2 progress calls, got %d", len(calls))
	}
	if calls[0] != [3]int{1, 2, 50} {
		t.Fatalf("unexpected first call %v", calls[0])
	}
	if calls[1] != [3]int{2, 2, 100} {
		t.Fatalf("unexpected final call %v", calls[1])
	}
}

func TestRunCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := New(&scriptedEvaluator{}, nil)
	summary := o.Run(ctx, []detect.Book{{Title: "a"}, {Title: "b"}}, Options{})

	if summary.BooksAnalyzed != 0 {
		t.Fatalf("cancelled run analyzed %d books", summary.BooksAnalyzed)
	}
}

func TestRunMinConfidenceOverride(t *testing.T) {
	c, err := catalog.New(catalog.Series{
		Name:     "Harry Potter",
		Category: catalog.CategoryNovel,
		Keywords: []string{"harry", "potter", "hogwarts"},
	})
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	detector := detect.NewDetector(c)
	o := New(detector, nil)
	books := []detect.Book{{Title: "Harry Potter and the Goblet of Fire"}}

	relaxed := o.Run(context.Background(), books, Options{})
	if relaxed.SeriesDetected != 1 {
		t.Fatalf("expected detection at default threshold, got %+v", relaxed)
	}

	strict := o.Run(context.Background(), books, Options{MinConfidence: 99})
	if strict.SeriesDetected != 0 || strict.StandaloneBooks != 1 {
		t.Fatalf("expected override to suppress detection, got %+v", strict)
	}
}

func TestRunEmptyInput(t *testing.T) {
	o := New(&scriptedEvaluator{}, nil)
	summary := o.Run(context.Background(), nil, Options{})
	if summary.BooksAnalyzed != 0 || summary.SeriesDetected != 0 || summary.Errors != 0 {
		t.Fatalf("unexpected summary for empty input: %+v", summary)
	}
	if summary.RunID == "" {
		t.Fatal("expected a run id even for empty input")
	}
}
