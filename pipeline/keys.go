package pipeline

import (
	"fmt"
	"strings"

	"agencypulse/table"
)

const establishmentNumberLen = 14

// CleanEstablishmentNumber normalizes a SIRET value: any decimal suffix
// from numeric spreadsheet cells is stripped and the result is
// left-padded with zeros to 14 characters. Empty input stays empty.
func CleanEstablishmentNumber(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if idx := strings.IndexByte(v, '.'); idx >= 0 {
		v = v[:idx]
	}
	for len(v) < establishmentNumberLen {
		v = "0" + v
	}
	return v
}

// DeriveKeys cleans the establishment numbers on both tables, back-fills
// missing interview SIRETs from the performance table via the agency
// code, and appends the composite siret_agence key to each table.
//
// The interview table is unjoinable, a fatal condition, only when no
// SIRET column can exist at all: neither a SIRET field nor an agency
// code to back-fill from.
func DeriveKeys(perf, interview table.Table) (table.Table, table.Table, []Warning, error) {
	var warnings []Warning

	if !perf.HasColumn(ColEstablishmentNumber) || !perf.HasColumn(ColAgencyCode) {
		return perf, interview, nil, fmt.Errorf("performance table: %w", ErrUnjoinable)
	}
	perf = perf.WithColumn(ColEstablishmentNumber, cleanAll(perf.Column(ColEstablishmentNumber)))
	perf = perf.WithColumn(KeyColumn, concatKey(perf.Column(ColEstablishmentNumber), perf.Column(ColAgencyCode)))

	siretCol, siretOK := ColumnSpec{Canonical: ColInterviewSiret}.Resolve(interview)
	agencyCol, agencyOK := ColumnSpec{Canonical: ColInterviewAgency}.Resolve(interview)
	if !siretOK && !agencyOK {
		return perf, interview, warnings, fmt.Errorf("interview table: %w", ErrUnjoinable)
	}

	var sirets []string
	if siretOK {
		sirets = cleanAll(interview.Column(siretCol))
	} else {
		sirets = make([]string, interview.Len())
		warnings = append(warnings, Warning{
			Code:    WarnKeyBackfill,
			Message: "interview SIRET column missing; deriving it from agency codes",
		})
	}

	if agencyOK {
		lookup := agencyLookup(perf)
		filled := 0
		agencies := interview.Column(agencyCol)
		for i, s := range sirets {
			if s != "" {
				continue
			}
			if match, ok := lookup[strings.TrimSpace(agencies[i])]; ok {
				sirets[i] = match
				filled++
			}
		}
		if filled > 0 {
			warnings = append(warnings, Warning{
				Code:    WarnKeyBackfill,
				Message: fmt.Sprintf("back-filled %d interview SIRET values from agency codes", filled),
			})
		}
	}

	interview = interview.WithColumn(ColInterviewSiret, sirets)
	var agencies []string
	if agencyOK {
		agencies = interview.Column(agencyCol)
	} else {
		agencies = make([]string, interview.Len())
	}
	interview = interview.WithColumn(KeyColumn, concatKey(sirets, agencies))
	return perf, interview, warnings, nil
}

func cleanAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = CleanEstablishmentNumber(v)
	}
	return out
}

// concatKey builds composite keys, leaving the key empty when the
// establishment number is empty so the row cannot join.
func concatKey(sirets, agencies []string) []string {
	out := make([]string, len(sirets))
	for i := range sirets {
		if sirets[i] == "" {
			continue
		}
		out[i] = sirets[i] + strings.TrimSpace(agencies[i])
	}
	return out
}

// agencyLookup maps agency codes to the first establishment number seen
// for them in the performance table.
func agencyLookup(perf table.Table) map[string]string {
	lookup := make(map[string]string)
	agencies := perf.Column(ColAgencyCode)
	sirets := perf.Column(ColEstablishmentNumber)
	for i := range agencies {
		code := strings.TrimSpace(agencies[i])
		if code == "" || sirets[i] == "" {
			continue
		}
		if _, ok := lookup[code]; !ok {
			lookup[code] = sirets[i]
		}
	}
	return lookup
}
