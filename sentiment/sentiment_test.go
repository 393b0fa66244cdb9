package sentiment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelForScoreTotalAndBoundaries(t *testing.T) {
	cases := []struct {
		score float64
		want  Label
	}{
		{0, VeryNegative},
		{2, VeryNegative},
		{2.1, Negative},
		{5, Negative},
		{5.1, Neutral},
		{7, Neutral},
		{7.1, Positive},
		{8, Positive},
		{8.1, VeryPositive},
		{10, VeryPositive},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, LabelForScore(c.score), "score %v", c.score)
	}
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, "TRÈS NÉGATIF", VeryNegative.Display())
	assert.Equal(t, "NEUTRE", Neutral.Display())
	assert.Equal(t, "TRÈS POSITIF", VeryPositive.Display())
	assert.Equal(t, "NEUTRE", Label("garbage").Display())
}

func TestIsPlaceholder(t *testing.T) {
	assert.True(t, IsPlaceholder(""))
	assert.True(t, IsPlaceholder("   "))
	assert.True(t, IsPlaceholder("Pas de réponse"))
	assert.True(t, IsPlaceholder("  pas de réponse "))
	assert.False(t, IsPlaceholder("très satisfait"))
}

func TestLexiconPlaceholderShortCircuit(t *testing.T) {
	a := NewLexiconAnalyzer()
	for _, in := range []string{"", "Pas de réponse"} {
		res, err := a.Analyze(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, NeutralResult(), res)
	}
}

func TestContextualPlaceholderShortCircuit(t *testing.T) {
	// No model paths configured: any real inference would fail, so a
	// neutral answer proves the placeholder never reaches the model.
	a := NewContextualAnalyzer(ContextualConfig{})
	for _, in := range []string{"", "Pas de réponse", "  "} {
		res, err := a.Analyze(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, NeutralResult(), res)
	}
}

func TestLexiconScoring(t *testing.T) {
	a := NewLexiconAnalyzer()

	res, err := a.Analyze(context.Background(), "Service excellent, vraiment parfait")
	require.NoError(t, err)
	assert.Equal(t, VeryPositive, res.Label)
	assert.Equal(t, 10.0, res.Score)

	res, err = a.Analyze(context.Background(), "Service catastrophique et inacceptable")
	require.NoError(t, err)
	assert.Equal(t, VeryNegative, res.Label)
	assert.Equal(t, 0.0, res.Score)
}

func TestLexiconScoreRange(t *testing.T) {
	a := NewLexiconAnalyzer()
	texts := []string{
		"excellent", "mauvais", "correct", "catastrophique mais excellent",
		"rien à signaler", "satisfait malgré un problème",
	}
	for _, text := range texts {
		res, err := a.Analyze(context.Background(), text)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.Score, 0.0, "text %q", text)
		assert.LessOrEqual(t, res.Score, 10.0, "text %q", text)
	}
}

type failingAnalyzer struct{ calls int }

func (f *failingAnalyzer) Analyze(_ context.Context, text string) (Result, error) {
	f.calls++
	if text == "boom" {
		return Result{}, errors.New("model failure")
	}
	return Result{Label: Positive, Score: 8}, nil
}

func TestAnalyzeBatchIsolatesFailures(t *testing.T) {
	a := &failingAnalyzer{}
	results, err := AnalyzeBatch(context.Background(), a, []string{"ok", "boom", "ok"}, 2, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, Positive, results[0].Label)
	assert.Equal(t, NeutralResult(), results[1])
	assert.Equal(t, Positive, results[2].Label)
}

func TestAnalyzeBatchProgressAndOrder(t *testing.T) {
	a := &failingAnalyzer{}
	var steps []int
	texts := []string{"a", "b", "c", "d", "e"}
	results, err := AnalyzeBatch(context.Background(), a, texts, 2, func(done, total int) {
		assert.Equal(t, 5, total)
		steps = append(steps, done)
	})
	require.NoError(t, err)
	assert.Len(t, results, 5)
	assert.Equal(t, []int{2, 4, 5}, steps)
}

func TestAnalyzeBatchCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := AnalyzeBatch(ctx, &failingAnalyzer{}, []string{"a"}, 1, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
