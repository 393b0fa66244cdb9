package sentiment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreprocessWhitespaceAndNoise(t *testing.T) {
	assert.Equal(t, "", Preprocess("   "))
	assert.Equal(t, "très bien, merci !", Preprocess("  très   bien,\n merci !  "))
	assert.Equal(t, "bien", Preprocess("bien @#€"))
}

func TestPreprocessKeepsShortTextIntact(t *testing.T) {
	in := "Le service est excellent."
	assert.Equal(t, in, Preprocess(in))
}

func TestPreprocessCondensesLongText(t *testing.T) {
	filler := strings.Repeat("Une phrase sans grand contenu. ", 80)
	in := "Premier point. Deuxième point. " + filler +
		"Je suis très satisfait du service. " + filler + "Avant-dernier point. Dernier point."

	out := Preprocess(in)
	assert.LessOrEqual(t, len([]rune(out)), maxTextLength*3)
	assert.Contains(t, out, "Premier point")
	assert.Contains(t, out, "satisfait")
}

func TestContextAdjustment(t *testing.T) {
	// Purely positive keywords add up.
	assert.InDelta(t, 0.8, contextAdjustment("un service excellent"), 1e-9)
	// A contrast connective pulls the adjustment down.
	assert.InDelta(t, 0.3, contextAdjustment("excellent mais lent"), 1e-9)
	// Mixed positive and negative keywords cancel everything.
	assert.InDelta(t, 0.0, contextAdjustment("excellent et satisfait puis mauvais"), 1e-9)
	// The adjustment is clamped to [-1, 1].
	assert.InDelta(t, 1.0, contextAdjustment("excellent parfait formidable"), 1e-9)
	assert.InDelta(t, -1.0, contextAdjustment("catastrophique inacceptable horrible"), 1e-9)
}
