package pipeline

import (
	"fmt"

	"agencypulse/table"
)

// Project reduces the merged table to the canonical output schema:
// the fixed performance block, the competitor column right after the
// establishment number, then the interview fields renamed to their
// canonical headers with the sentiment companions beside their source
// field. Unresolvable interview fields are skipped with a warning;
// fields failing their validity sampling are rejected with a warning.
// An empty result is fatal.
func Project(merged table.Table) (table.Table, []Warning, error) {
	var warnings []Warning

	rename := make(map[string]string)
	resolved := make(map[string]bool, len(InterviewSpecs))
	for _, spec := range InterviewSpecs {
		col, ok := spec.Resolve(merged)
		if !ok {
			code := WarnFieldUnresolved
			if spec.Validity != nil && len(spec.candidates(merged.Columns())) > 0 {
				code = WarnColumnRejected
			}
			warnings = append(warnings, Warning{
				Code:    code,
				Message: fmt.Sprintf("column %q not kept in the output", spec.Canonical),
			})
			continue
		}
		resolved[spec.Canonical] = true
		if col != spec.Canonical {
			rename[col] = spec.Canonical
		}
	}
	merged = merged.Rename(rename)

	order := make([]string, 0, len(PerformanceColumns)+2*len(InterviewSpecs))
	seen := make(map[string]struct{})
	add := func(col string) {
		if _, ok := seen[col]; ok {
			return
		}
		seen[col] = struct{}{}
		order = append(order, col)
	}

	for _, col := range PerformanceColumns {
		add(col)
		if col == ColEstablishmentNumber {
			add(ColCompetitor)
		}
	}
	for _, spec := range InterviewSpecs {
		if !resolved[spec.Canonical] {
			continue
		}
		add(spec.Canonical)
		if spec.Sentiment {
			label, score := SentimentColumns(spec.Canonical)
			add(label)
			add(score)
		}
	}

	out := merged.Select(order)
	if len(out.Columns()) == 0 {
		return table.Table{}, warnings, ErrNoColumns
	}
	return out, warnings, nil
}
