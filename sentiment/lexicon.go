package sentiment

import (
	"context"
	"math"
	"strings"
)

// LexiconAnalyzer is the lightweight fallback: a polarity estimate from
// the keyword buckets, no model and no contextual adjustment. It honors
// the same placeholder rule, score range and label mapping as the
// contextual analyzer.
type LexiconAnalyzer struct{}

// NewLexiconAnalyzer returns the stateless fallback analyzer.
func NewLexiconAnalyzer() *LexiconAnalyzer { return &LexiconAnalyzer{} }

var polarityWeights = map[Label]float64{
	VeryPositive: 1.0,
	Positive:     0.5,
	Negative:     -0.5,
	VeryNegative: -1.0,
}

// Analyze estimates polarity in [-1,1] from keyword hits and maps it to
// the 0-10 scale. It never fails.
func (l *LexiconAnalyzer) Analyze(_ context.Context, text string) (Result, error) {
	if IsPlaceholder(text) {
		return NeutralResult(), nil
	}
	clean := Preprocess(text)
	if clean == "" {
		return NeutralResult(), nil
	}
	lower := strings.ToLower(clean)

	var sum float64
	var hits int
	for label, weight := range polarityWeights {
		for _, kw := range contextKeywords[label] {
			if strings.Contains(lower, kw) {
				sum += weight
				hits++
			}
		}
	}
	polarity := 0.0
	if hits > 0 {
		polarity = sum / float64(hits)
	}
	if polarity > 1 {
		polarity = 1
	}
	if polarity < -1 {
		polarity = -1
	}
	score := math.Round((polarity + 1) * 5)
	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	return Result{Label: LabelForScore(score), Score: score}, nil
}
