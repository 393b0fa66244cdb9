package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agencypulse/table"
)

func mergedFixture(t *testing.T, perfRows, itvRows [][]string) (table.Table, []Warning) {
	t.Helper()
	perf := table.New(
		[]string{ColYear, ColEstablishmentNumber, ColAgencyCode},
		perfRows,
	)
	itv := table.New(
		[]string{ColCampaign, ColInterviewSiret, ColInterviewAgency, ColCompetitor, "Raison note satisfaction"},
		itvRows,
	)
	perf, itv, _, err := DeriveKeys(perf, itv)
	require.NoError(t, err)
	return Merge(perf, itv)
}

func TestMergeJoinsOnCompositeKeyOnly(t *testing.T) {
	merged, _ := mergedFixture(t,
		[][]string{
			{"2024", "12345678901234", "A1"},
			{"2024", "12345678901234", "B9"},
		},
		[][]string{
			{"2023", "12345678901234", "A1", "Adecco", "très satisfait"},
		},
	)

	require.Equal(t, 1, merged.Len())
	assert.Equal(t, "A1", merged.Cell(0, ColAgencyCode))
	assert.Equal(t, "très satisfait", merged.Cell(0, "Raison note satisfaction"))
}

func TestMergeTemporalFilter(t *testing.T) {
	merged, _ := mergedFixture(t,
		[][]string{
			{"2024", "12345678901234", "A1"},
			{"2024", "22345678901234", "A2"},
			{"2024", "32345678901234", "A3"},
		},
		[][]string{
			{"2023", "12345678901234", "A1", "", "ok"},
			{"2024", "22345678901234", "A2", "", "même année, à écarter"},
			{"n/a", "32345678901234", "A3", "", "campagne illisible"},
		},
	)

	require.Equal(t, 1, merged.Len())
	assert.Equal(t, "12345678901234", merged.Cell(0, ColEstablishmentNumber))
}

func TestMergeFirstInterviewMatchWins(t *testing.T) {
	merged, _ := mergedFixture(t,
		[][]string{{"2024", "12345678901234", "A1"}},
		[][]string{
			{"2023", "12345678901234", "A1", "", "première réponse"},
			{"2023", "12345678901234", "A1", "", "seconde réponse"},
		},
	)

	require.Equal(t, 1, merged.Len())
	assert.Equal(t, "première réponse", merged.Cell(0, "Raison note satisfaction"))
}

func TestMergeUnmatchedPerformanceRowSurvives(t *testing.T) {
	merged, _ := mergedFixture(t,
		[][]string{
			{"2024", "12345678901234", "A1"},
			{"2024", "99999999999999", "ZZ"},
		},
		[][]string{
			{"2023", "12345678901234", "A1", "", "ok"},
			{"2023", "99999999999999", "ZZ", "", ""},
		},
	)

	require.Equal(t, 2, merged.Len())
	assert.Equal(t, "", merged.Cell(1, "Raison note satisfaction"))
}

func TestMergeCompetitorSitsAfterEstablishmentNumber(t *testing.T) {
	merged, warnings := mergedFixture(t,
		[][]string{{"2024", "12345678901234", "A1"}},
		[][]string{{"2023", "12345678901234", "A1", "Adecco", "ok"}},
	)
	assert.Empty(t, warnings)

	cols := merged.Columns()
	siretIdx := -1
	for i, c := range cols {
		if c == ColEstablishmentNumber {
			siretIdx = i
		}
	}
	require.GreaterOrEqual(t, siretIdx, 0)
	require.Less(t, siretIdx+1, len(cols))
	assert.Equal(t, ColCompetitor, cols[siretIdx+1])
	assert.Equal(t, "Adecco", merged.Cell(0, ColCompetitor))
}

func TestMergeCreatesEmptySentimentColumns(t *testing.T) {
	merged, _ := mergedFixture(t,
		[][]string{{"2024", "12345678901234", "A1"}},
		[][]string{{"2023", "12345678901234", "A1", "", "ok"}},
	)

	label, score := SentimentColumns("Raison note satisfaction")
	assert.True(t, merged.HasColumn(label))
	assert.True(t, merged.HasColumn(score))
	assert.Equal(t, "", merged.Cell(0, label))
}

func TestPrepareInterviewFillsPlaceholders(t *testing.T) {
	itv := table.New(
		[]string{"Raison note satisfaction", ColCompetitor, "Q6 - Connaissance entreprise et objectifs"},
		[][]string{{"", "  ", ""}},
	)
	filled := PrepareInterview(itv)

	assert.Equal(t, "Pas de réponse", filled.Cell(0, "Raison note satisfaction"))
	assert.Equal(t, "Pas de réponse", filled.Cell(0, ColCompetitor))
	// Q6 is not a fill field, it stays empty.
	assert.Equal(t, "", filled.Cell(0, "Q6 - Connaissance entreprise et objectifs"))
}
