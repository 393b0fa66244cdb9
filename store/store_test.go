package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agencypulse/table"
)

func testTable(rows [][]string) table.Table {
	return table.New(
		[]string{"Année", "No Siret", "code agence", "siret_agence", "var ca cum", "Raison recommandation Manpower", "Score Raison recommandation Manpower"},
		rows,
	)
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestReplaceAllRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	in := testTable([][]string{
		{"2024", "12345678901234", "A1", "12345678901234A1", "12.5", "très bien", "8.0"},
		{"2024", "98765432109876", "B2", "98765432109876B2", "-3", "Pas de réponse", "5.0"},
	})
	require.NoError(t, st.ReplaceAll(ctx, in))

	records, err := st.All(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, 2024, records[0].Annee)
	assert.Equal(t, "12345678901234", records[0].NoSiret)
	assert.Equal(t, "12345678901234A1", records[0].SiretAgence)
	assert.InDelta(t, 12.5, records[0].VarCaCum, 1e-9)
	assert.Equal(t, "très bien", records[0].RaisonRecommandationManpower)
	assert.InDelta(t, 8.0, records[0].ScoreRecommandation, 1e-9)
	assert.InDelta(t, -3.0, records[1].VarCaCum, 1e-9)
}

func TestReplaceAllReplacesPreviousRun(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	first := testTable([][]string{{"2023", "1", "A", "1A", "0", "", "0"}})
	require.NoError(t, st.ReplaceAll(ctx, first))

	second := testTable([][]string{
		{"2024", "2", "B", "2B", "1", "", "0"},
		{"2024", "3", "C", "3C", "2", "", "0"},
	})
	require.NoError(t, st.ReplaceAll(ctx, second))

	records, err := st.All(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2B", records[0].SiretAgence)
	assert.Equal(t, "3C", records[1].SiretAgence)
}

func TestReplaceAllFailureLeavesStoreUnchanged(t *testing.T) {
	st := openTestStore(t)

	initial := testTable([][]string{{"2023", "1", "A", "1A", "0", "", "0"}})
	require.NoError(t, st.ReplaceAll(context.Background(), initial))

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	err := st.ReplaceAll(cancelled, testTable([][]string{{"2024", "2", "B", "2B", "1", "", "0"}}))
	require.Error(t, err)

	records, err := st.All(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "1A", records[0].SiretAgence)
}

func TestMissingColumnsUseDefaults(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	tiny := table.New([]string{"siret_agence"}, [][]string{{"1A"}})
	require.NoError(t, st.ReplaceAll(ctx, tiny))

	records, err := st.All(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "1A", records[0].SiretAgence)
	assert.Equal(t, 0, records[0].Annee)
	assert.Equal(t, 0.0, records[0].VarCaCum)
	assert.Equal(t, "", records[0].RaisonRecommandationManpower)
}

func TestCount(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	n, err := st.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, st.ReplaceAll(ctx, testTable([][]string{{"2024", "1", "A", "1A", "0", "", "0"}})))
	n, err = st.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRecordsFromParsesFrenchDecimals(t *testing.T) {
	tb := table.New([]string{"var ca cum"}, [][]string{{"12,5"}, {"n/a"}})
	records := RecordsFrom(tb)
	require.Len(t, records, 2)
	assert.InDelta(t, 12.5, records[0].VarCaCum, 1e-9)
	assert.Equal(t, 0.0, records[1].VarCaCum)
}

func TestTableOfRoundTrip(t *testing.T) {
	in := testTable([][]string{{"2024", "12345678901234", "A1", "12345678901234A1", "12.5", "ok", "8.0"}})
	records := RecordsFrom(in)
	out := TableOf(records)

	assert.Equal(t, "2024", out.Cell(0, "Année"))
	assert.Equal(t, "12.5", out.Cell(0, "var ca cum"))
	assert.Equal(t, "ok", out.Cell(0, "Raison recommandation Manpower"))
}
