package pipeline

import (
	"context"
	"fmt"
	"strconv"

	"agencypulse/sentiment"
	"agencypulse/table"
)

// PreviewSentiment scores the sentiment-flagged columns of a table with
// the lexicon analyzer. It backs the interview preview, where loading
// the model would be wasteful for a handful of rows.
func PreviewSentiment(ctx context.Context, t table.Table) (table.Table, error) {
	analyzer := sentiment.NewLexiconAnalyzer()
	for _, spec := range SentimentSpecs() {
		if !t.HasColumn(spec.Canonical) {
			continue
		}
		results, err := sentiment.AnalyzeBatch(ctx, analyzer, t.Column(spec.Canonical), 0, nil)
		if err != nil {
			return table.Table{}, fmt.Errorf("preview sentiment of %q: %w", spec.Canonical, err)
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
