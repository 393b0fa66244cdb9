// Package sentiment classifies free-text survey answers on a five point
// polarity scale with a numeric score in [0,10]. Two analyzers share the
// contract: a model-backed contextual analyzer and a lightweight lexicon
// fallback for environments without the model.
package sentiment

import (
	"context"
	"strings"
)

// Label is one of the five polarity classes.
type Label string

const (
	VeryNegative Label = "very_negative"
	Negative     Label = "negative"
	Neutral      Label = "neutral"
	Positive     Label = "positive"
	VeryPositive Label = "very_positive"
)

// Placeholder is the token the survey exports use for unanswered
// questions. It short-circuits analysis to the neutral default.
const Placeholder = "Pas de réponse"

// NeutralScore is the score attached to empty and placeholder answers.
const NeutralScore = 5.0

// Result pairs a polarity label with its score on the 0-10 scale.
type Result struct {
	Label Label
	Score float64
}

// NeutralResult returns the fixed default used for empty input, the
// placeholder token and per-item analysis failures.
func NeutralResult() Result {
	return Result{Label: Neutral, Score: NeutralScore}
}

// Display returns the uppercase French form persisted with the records.
func (l Label) Display() string {
	switch l {
	case VeryNegative:
		return "TRÈS NÉGATIF"
	case Negative:
		return "NÉGATIF"
	case Positive:
		return "POSITIF"
	case VeryPositive:
		return "TRÈS POSITIF"
	default:
		return "NEUTRE"
	}
}

// LabelForScore maps a score to its label. The ranges partition [0,10]
// with boundaries belonging to the lower label, so any score maps to
// exactly one class.
func LabelForScore(score float64) Label {
	switch {
	case score <= 2:
		return VeryNegative
	case score <= 5:
		return Negative
	case score <= 7:
		return Neutral
	case score <= 8:
		return Positive
	default:
		return VeryPositive
	}
}

// IsPlaceholder reports whether the text is empty or the no-response
// token, in which case analysis is skipped entirely.
func IsPlaceholder(text string) bool {
	trimmed := strings.TrimSpace(text)
	return trimmed == "" || strings.EqualFold(trimmed, Placeholder)
}

// Analyzer scores a single text. Implementations must be total for
// placeholder input and safe for use from the batch helper.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (Result, error)
}

// ProgressFunc receives the number of processed items after each chunk.
type ProgressFunc func(done, total int)

// AnalyzeBatch runs the analyzer over texts in fixed-size chunks,
// reporting progress after each chunk. A failing item yields the neutral
// default instead of aborting the batch; only context cancellation stops
// the run early. Result order matches input order.
func AnalyzeBatch(ctx context.Context, a Analyzer, texts []string, batchSize int, progress ProgressFunc) ([]Result, error) {
	if batchSize <= 0 {
		batchSize = 10
	}
	results := make([]Result, 0, len(texts))
	for start := 0; start < len(texts); start += batchSize {
		end := start + batchSize
		if end > len(texts) {
			end = len(texts)
		}
		for _, text := range texts[start:end] {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			res, err := a.Analyze(ctx, text)
			if err != nil {
				res = NeutralResult()
			}
			results = append(results, res)
		}
		if progress != nil {
			progress(len(results), len(texts))
		}
	}
	return results, nil
}
