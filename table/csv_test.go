package table

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCSV(t *testing.T) {
	in := "Année;Mois\n2024;1\n2024;2\n"
	tb, err := LoadCSV(strings.NewReader(in), ';')
	require.NoError(t, err)
	assert.Equal(t, []string{"Année", "Mois"}, tb.Columns())
	assert.Equal(t, 2, tb.Len())
	assert.Equal(t, "2024", tb.Cell(0, "Année"))
}

func TestLoadCSVWindows1252Fallback(t *testing.T) {
	// "Année" with é encoded as the single 0xE9 byte is not valid UTF-8.
	in := []byte("Ann\xe9e;Mois\n2024;1\n")
	tb, err := LoadCSV(bytes.NewReader(in), ';')
	require.NoError(t, err)
	assert.Equal(t, []string{"Année", "Mois"}, tb.Columns())
}

func TestLoadCSVEmpty(t *testing.T) {
	_, err := LoadCSV(strings.NewReader(""), ';')
	assert.Error(t, err)
}

func TestLoadCSVRaggedRows(t *testing.T) {
	in := "a;b;c\n1;2\n1;2;3;4\n"
	tb, err := LoadCSV(strings.NewReader(in), ';')
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", ""}, tb.Row(0))
	assert.Equal(t, []string{"1", "2", "3"}, tb.Row(1))
}

func TestWriteCSVFrench(t *testing.T) {
	tb := New([]string{"Année", "var ca cum"}, [][]string{
		{"2024", "12.5"},
		{"2024", "3"},
		{"2024", "n/a"},
	})
	var buf bytes.Buffer
	require.NoError(t, tb.WriteCSVFrench(&buf))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\ufeff"), "missing BOM")
	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(out, "\ufeff")), "\n")
	assert.Equal(t, "Année;var ca cum", lines[0])
	assert.Equal(t, "2024;12,5", lines[1])
	assert.Equal(t, "2024;3", lines[2])
	assert.Equal(t, "2024;n/a", lines[3])
}
