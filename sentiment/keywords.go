package sentiment

import "strings"

// Keyword buckets tuned for French customer feedback on staffing
// services. Hits shift the model score by a bounded contextual
// adjustment.
var contextKeywords = map[Label][]string{
	VeryNegative: {"catastrophique", "inacceptable", "désastreux", "horrible", "nul", "très mauvais"},
	Negative:     {"mauvais", "décevant", "insuffisant", "problème", "insatisfait", "mécontentement"},
	Neutral:      {"moyen", "correct", "acceptable", "normal", "standard", "convenable"},
	Positive:     {"bon", "satisfait", "content", "bien", "apprécie", "recommande"},
	VeryPositive: {"excellent", "parfait", "formidable", "exceptionnel", "remarquable", "fantastique"},
}

// Contrastive connectives usually soften an otherwise positive answer.
var contrastWords = []string{"mais", "cependant", "toutefois", "malgré", "en revanche"}

var keywordWeights = map[Label]float64{
	VeryPositive: 0.8,
	Positive:     0.4,
	Negative:     -0.4,
	VeryNegative: -0.8,
}

// contextAdjustment computes the bounded score shift for a lowercased
// text: a contrast-connective penalty plus per-hit keyword deltas,
// composed additively. Simultaneous positive and negative keyword
// presence cancels the whole adjustment. The result is clamped to
// [-1, 1].
func contextAdjustment(lower string) float64 {
	adjust := 0.0
	for _, w := range contrastWords {
		if strings.Contains(lower, w) {
			adjust -= 0.5
			break
		}
	}
	for label, weight := range keywordWeights {
		for _, kw := range contextKeywords[label] {
			if strings.Contains(lower, kw) {
				adjust += weight
			}
		}
	}
	if containsAny(lower, contextKeywords[Positive]) && containsAny(lower, contextKeywords[Negative]) {
		return 0
	}
	if adjust > 1 {
		adjust = 1
	}
	if adjust < -1 {
		adjust = -1
	}
	return adjust
}

func containsAny(lower string, words []string) bool {
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
