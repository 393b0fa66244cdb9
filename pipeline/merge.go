package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"agencypulse/table"
)

// mergeSuffix marks interview columns whose name collides with a
// performance column after the join.
const mergeSuffix = "_interview"

// PrepareInterview fills empty cells of the designated interview fields
// with the no-response placeholder so unanswered questions survive the
// merge as explicit values rather than blanks.
func PrepareInterview(interview table.Table) table.Table {
	for _, spec := range InterviewSpecs {
		if !spec.Fill {
			continue
		}
		col, ok := spec.Resolve(interview)
		if !ok {
			continue
		}
		values := interview.Column(col)
		changed := false
		for i, v := range values {
			if strings.TrimSpace(v) == "" {
				values[i] = "Pas de réponse"
				changed = true
			}
		}
		if changed {
			interview = interview.WithColumn(col, values)
		}
	}
	return interview
}

// Merge left-joins the interview table onto the performance table by the
// composite key and applies the campaign-year filter.
//
// Every performance row is retained through the join; when several
// interview rows share a key, the first occurrence wins. The temporal
// filter then
// keeps only rows whose interview campaign year equals the performance
// year minus one; rows where either side is missing or non-numeric are
// dropped. Entirely empty suffixed duplicates are removed, the
// competitor column is reattached by a secondary join so it sits right
// after the establishment number, and the sentiment target columns are
// created empty for later enrichment.
func Merge(perf, interview table.Table) (table.Table, []Warning) {
	var warnings []Warning

	merged := leftJoin(perf, interview)
	merged = filterCampaignYear(merged)

	for _, col := range merged.Columns() {
		if strings.HasSuffix(col, mergeSuffix) && merged.IsEmptyColumn(col) {
			merged = merged.DropColumns(col)
		}
	}

	merged, w := repositionCompetitor(merged)
	warnings = append(warnings, w...)

	empty := make([]string, merged.Len())
	for _, spec := range SentimentSpecs() {
		labelCol, scoreCol := SentimentColumns(spec.Canonical)
		if !merged.HasColumn(labelCol) {
			merged = merged.WithColumn(labelCol, empty)
		}
		if !merged.HasColumn(scoreCol) {
			merged = merged.WithColumn(scoreCol, empty)
		}
	}
	return merged, warnings
}

func leftJoin(perf, interview table.Table) table.Table {
	itvCols := interview.Columns()
	// First interview occurrence per key wins.
	index := make(map[string]int, interview.Len())
	keys := interview.Column(KeyColumn)
	for i, k := range keys {
		if k == "" {
			continue
		}
		if _, ok := index[k]; !ok {
			index[k] = i
		}
	}

	attached := make([]string, 0, len(itvCols))
	for _, c := range itvCols {
		if c == KeyColumn {
			continue
		}
		name := c
		if perf.HasColumn(c) {
			name = c + mergeSuffix
		}
		attached = append(attached, name)
	}

	outCols := append(perf.Columns(), attached...)
	outRows := make([][]string, 0, perf.Len())
	perfKeys := perf.Column(KeyColumn)
	for i := 0; i < perf.Len(); i++ {
		row := perf.Row(i)
		if j, ok := index[perfKeys[i]]; ok && perfKeys[i] != "" {
			itvRow := interview.Row(j)
			for k, c := range itvCols {
				if c == KeyColumn {
					continue
				}
				row = append(row, itvRow[k])
			}
		} else {
			for range attached {
				row = append(row, "")
			}
		}
		outRows = append(outRows, row)
	}
	return table.New(outCols, outRows)
}

// filterCampaignYear keeps rows where campaign year equals performance
// year minus one: survey campaign N reports on performance year N+1.
func filterCampaignYear(merged table.Table) table.Table {
	years := merged.Column(ColYear)
	campaigns := merged.Column(ColCampaign)
	if campaigns == nil {
		campaigns = merged.Column(ColCampaign + mergeSuffix)
	}
	return merged.Filter(func(i int) bool {
		if years == nil || campaigns == nil {
			return false
		}
		year, err := parseYear(years[i])
		if err != nil {
			return false
		}
		campaign, err := parseYear(campaigns[i])
		if err != nil {
			return false
		}
		return campaign == year-1
	})
}

func parseYear(v string) (int, error) {
	v = strings.TrimSpace(v)
	if idx := strings.IndexByte(v, '.'); idx >= 0 {
		v = v[:idx]
	}
	return strconv.Atoi(v)
}

// repositionCompetitor reattaches the competitor column through a
// secondary join on the composite key and moves it directly after the
// establishment-number column. The position is a presentation contract
// the export depends on.
func repositionCompetitor(merged table.Table) (table.Table, []Warning) {
	spec := InterviewSpecs[competitorSpecIndex()]
	col, ok := spec.Resolve(merged)
	if !ok {
		return merged, []Warning{{
			Code:    WarnFieldUnresolved,
			Message: fmt.Sprintf("competitor column not found; %q will be absent from the output", ColCompetitor),
		}}
	}

	byKey := make(map[string]string, merged.Len())
	keys := merged.Column(KeyColumn)
	values := merged.Column(col)
	for i, k := range keys {
		if k == "" {
			continue
		}
		if _, seen := byKey[k]; !seen {
			byKey[k] = values[i]
		}
	}
	rejoined := make([]string, merged.Len())
	for i, k := range keys {
		rejoined[i] = byKey[k]
	}

	merged = merged.DropColumns(col)
	merged = merged.WithColumn(ColCompetitor, rejoined)

	cols := merged.Columns()
	reordered := make([]string, 0, len(cols))
	for _, c := range cols {
		if c == ColCompetitor {
			continue
		}
		reordered = append(reordered, c)
		if c == ColEstablishmentNumber {
			reordered = append(reordered, ColCompetitor)
		}
	}
	if len(reordered) < len(cols) {
		// No establishment-number column to anchor on; keep it at the end.
		reordered = append(reordered, ColCompetitor)
	}
	return merged.Select(reordered), nil
}

func competitorSpecIndex() int {
	for i, s := range InterviewSpecs {
		if s.Canonical == ColCompetitor {
			return i
		}
	}
	return 0
}
