package pipeline

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agencypulse/sentiment"
	"agencypulse/table"
)

type captureStore struct {
	table table.Table
	calls int
	err   error
}

func (c *captureStore) ReplaceAll(_ context.Context, t table.Table) error {
	c.calls++
	if c.err != nil {
		return c.err
	}
	c.table = t
	return nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func servicePerf(rows [][]string) table.Table {
	return table.New([]string{ColYear, ColEstablishmentNumber, ColAgencyCode}, rows)
}

func serviceInterview(rows [][]string) table.Table {
	return table.New(
		[]string{ColCampaign, ColInterviewSiret, ColInterviewAgency, ColRecommendReason},
		rows,
	)
}

func TestRunEndToEndPlaceholderRecommendation(t *testing.T) {
	st := &captureStore{}
	svc := NewService(sentiment.NewLexiconAnalyzer(), st, quietLogger(), 10)

	result, err := svc.Run(context.Background(),
		servicePerf([][]string{{"2024", "12345678901234", "A1"}}),
		serviceInterview([][]string{{"2023", "12345678901234", "A1", "Pas de réponse"}}),
	)
	require.NoError(t, err)
	require.Equal(t, 1, result.Records)
	assert.Equal(t, 1, st.calls)

	label, score := SentimentColumns(ColRecommendReason)
	assert.Equal(t, "NEUTRE", result.Table.Cell(0, label))
	assert.Equal(t, "5.0", result.Table.Cell(0, score))
	assert.Equal(t, "Pas de réponse", result.Table.Cell(0, ColRecommendReason))
}

func TestRunDropsSameYearCampaign(t *testing.T) {
	st := &captureStore{}
	svc := NewService(sentiment.NewLexiconAnalyzer(), st, quietLogger(), 10)

	result, err := svc.Run(context.Background(),
		servicePerf([][]string{{"2024", "12345678901234", "A1"}}),
		serviceInterview([][]string{{"2024", "12345678901234", "A1", "très satisfait"}}),
	)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Records)
}

func TestRunScoresFreeText(t *testing.T) {
	st := &captureStore{}
	svc := NewService(sentiment.NewLexiconAnalyzer(), st, quietLogger(), 10)

	result, err := svc.Run(context.Background(),
		servicePerf([][]string{{"2024", "12345678901234", "A1"}}),
		serviceInterview([][]string{{"2023", "12345678901234", "A1", "service excellent, parfait"}}),
	)
	require.NoError(t, err)
	require.Equal(t, 1, result.Records)

	label, score := SentimentColumns(ColRecommendReason)
	assert.Equal(t, "TRÈS POSITIF", result.Table.Cell(0, label))
	assert.Equal(t, "10.0", result.Table.Cell(0, score))
}

func TestRunAcceptsSwappedUploads(t *testing.T) {
	st := &captureStore{}
	svc := NewService(sentiment.NewLexiconAnalyzer(), st, quietLogger(), 10)

	result, err := svc.Run(context.Background(),
		serviceInterview([][]string{{"2023", "12345678901234", "A1", "bien"}}),
		servicePerf([][]string{{"2024", "12345678901234", "A1"}}),
	)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Records)
}

func TestRunUnjoinableInterviewIsFatal(t *testing.T) {
	st := &captureStore{}
	svc := NewService(sentiment.NewLexiconAnalyzer(), st, quietLogger(), 10)

	badInterview := table.New(
		[]string{ColCampaign, "Q5 - Amabilité et disponibilit", "Q8 - Qualité de collaboration", "Satisf.\n\nGlobale"},
		[][]string{{"2023", "9", "bonne", "8"}},
	)
	_, err := svc.Run(context.Background(),
		servicePerf([][]string{{"2024", "12345678901234", "A1"}}),
		badInterview,
	)
	assert.ErrorIs(t, err, ErrUnjoinable)
	assert.Equal(t, 0, st.calls)
}

func TestRunPropagatesStoreFailure(t *testing.T) {
	st := &captureStore{err: errors.New("disk full")}
	svc := NewService(sentiment.NewLexiconAnalyzer(), st, quietLogger(), 10)

	_, err := svc.Run(context.Background(),
		servicePerf([][]string{{"2024", "12345678901234", "A1"}}),
		serviceInterview([][]string{{"2023", "12345678901234", "A1", "bien"}}),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
