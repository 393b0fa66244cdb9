package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"agencypulse/sentiment"
	"agencypulse/table"
)

// Store persists the final table, replacing whatever a previous run
// left behind.
type Store interface {
	ReplaceAll(ctx context.Context, t table.Table) error
}

// Service runs the full reconciliation pipeline over one pair of
// uploaded tables. It is safe for concurrent use; the store serializes
// the final write.
type Service struct {
	analyzer  sentiment.Analyzer
	store     Store
	log       *logrus.Logger
	batchSize int
}

// NewService wires the pipeline. batchSize controls sentiment chunking;
// values below one fall back to the analyzer default.
func NewService(analyzer sentiment.Analyzer, store Store, log *logrus.Logger, batchSize int) *Service {
	if log == nil {
		log = logrus.New()
	}
	return &Service{analyzer: analyzer, store: store, log: log, batchSize: batchSize}
}

// Run executes the pipeline on the two uploads in their received order:
// role classification, placeholder fill, key derivation, merge,
// projection, sentiment enrichment and the replace-all persist. The
// returned result carries the final table and every warning emitted
// along the way.
func (s *Service) Run(ctx context.Context, first, second table.Table) (*RunResult, error) {
	start := time.Now()
	var warnings []Warning

	perf, interview, w := Classify(first, second)
	warnings = append(warnings, w...)
	s.log.WithFields(logrus.Fields{
		"performance_rows": perf.Len(),
		"interview_rows":   interview.Len(),
	}).Info("tables classified")

	interview = PrepareInterview(interview)

	perf, interview, w, err := DeriveKeys(perf, interview)
	warnings = append(warnings, w...)
	if err != nil {
		return nil, err
	}

	merged, w := Merge(perf, interview)
	warnings = append(warnings, w...)
	s.log.WithField("rows", merged.Len()).Info("tables merged")

	projected, w, err := Project(merged)
	warnings = append(warnings, w...)
	if err != nil {
		return nil, err
	}

	enriched, err := s.enrich(ctx, projected)
	if err != nil {
		return nil, err
	}

	if s.store != nil {
		if err := s.store.ReplaceAll(ctx, enriched); err != nil {
			return nil, fmt.Errorf("persisting run output: %w", err)
		}
	}

	for _, warn := range warnings {
		s.log.WithField("code", warn.Code).Warn(warn.Message)
	}
	return &RunResult{
		Table:    enriched,
		Records:  enriched.Len(),
		Warnings: warnings,
		Duration: time.Since(start),
	}, nil
}

// enrich fills the sentiment companion columns for every flagged text
// field present in the projected table.
func (s *Service) enrich(ctx context.Context, t table.Table) (table.Table, error) {
	for _, spec := range SentimentSpecs() {
		if !t.HasColumn(spec.Canonical) {
			continue
		}
		texts := t.Column(spec.Canonical)
		progress := func(done, total int) {
			s.log.WithFields(logrus.Fields{
				"column": spec.Canonical,
				"done":   done,
				"total":  total,
			}).Debug("sentiment progress")
		}
		results, err := sentiment.AnalyzeBatch(ctx, s.analyzer, texts, s.batchSize, progress)
		if err != nil {
			return table.Table{}, fmt.Errorf("sentiment analysis of %q: %w", spec.Canonical, err)
		}

		labels := make([]string, len(results))
		scores := make([]string, len(results))
		for i, r := range results {
			labels[i] = r.Label.Display()
			scores[i] = strconv.FormatFloat(r.Score, 'f', 1, 64)
		}
		labelCol, scoreCol := SentimentColumns(spec.Canonical)
		t = t.WithColumn(labelCol, labels)
		t = t.WithColumn(scoreCol, scores)
	}
	return t, nil
}
