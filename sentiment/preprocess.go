package sentiment

import (
	"regexp"
	"strings"
)

const maxTextLength = 512

var (
	spaceRun    = regexp.MustCompile(`\s+`)
	disallowed  = regexp.MustCompile(`[^\p{L}\p{N}\s.,!?;:()'-]`)
	sentenceEnd = regexp.MustCompile(`[.!?]+`)
)

// emotionWords flag sentences worth keeping when a long answer has to be
// condensed before classification.
var emotionWords = []string{
	"satisfait", "content", "déçu", "excellent", "mauvais", "recommande", "apprécie",
}

// Preprocess normalizes whitespace, strips characters that carry no
// signal while keeping punctuation, and condenses very long answers to
// their most expressive sentences: the first two, the last two, and any
// middle sentence containing an emotion keyword, capped at eight.
func Preprocess(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	text = spaceRun.ReplaceAllString(text, " ")
	text = disallowed.ReplaceAllString(text, "")

	if len([]rune(text)) > maxTextLength*2 {
		text = condense(text)
	}
	runes := []rune(text)
	if len(runes) > maxTextLength*3 {
		runes = runes[:maxTextLength*3]
	}
	return string(runes)
}

func condense(text string) string {
	sentences := sentenceEnd.Split(text, -1)
	trimmed := sentences[:0]
	for _, s := range sentences {
		if s = strings.TrimSpace(s); s != "" {
			trimmed = append(trimmed, s)
		}
	}
	sentences = trimmed
	if len(sentences) <= 4 {
		return strings.Join(sentences, ". ")
	}

	kept := make([]string, 0, 8)
	kept = append(kept, sentences[:2]...)
	kept = append(kept, sentences[len(sentences)-2:]...)
	for _, s := range sentences[2 : len(sentences)-2] {
		lower := strings.ToLower(s)
		for _, w := range emotionWords {
			if strings.Contains(lower, w) {
				kept = append(kept, s)
				break
			}
		}
	}
	if len(kept) > 8 {
		kept = kept[:8]
	}
	return strings.Join(kept, ". ")
}
