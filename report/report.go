// Package report derives the performance segment of each stored record
// on read. Nothing here is persisted; the view is recomputed from the
// record fields every time.
package report

import (
	"strconv"
	"strings"

	"agencypulse/store"
	"agencypulse/table"
)

// Segment labels, first matching rule wins. The French wording is the
// one the downstream dashboards expect.
const (
	SegmentTop      = "Top Performer"
	SegmentHigh     = "High Performer"
	SegmentStable   = "Stable / Surveillé"
	SegmentImproval = "À améliorer"
)

// SegmentedRecord is a stored record extended with the computed view
// fields.
type SegmentedRecord struct {
	store.Record
	Segment      string  `json:"segment"`
	ScoreMean    float64 `json:"score_moyen"`
	SentimentCat string  `json:"sentiment_cat"`
}

// Segment computes the view for every record. It is total: whatever the
// field values, each record gets exactly one of the four segments, with
// evaluation problems defaulting to the lowest one.
func Segment(records []store.Record) []SegmentedRecord {
	out := make([]SegmentedRecord, len(records))
	for i, r := range records {
		out[i] = segmentOne(r)
	}
	return out
}

func segmentOne(r store.Record) SegmentedRecord {
	growth := []float64{r.VarCaCum, r.VarCaMois, r.VarCaCumSiret, r.VarCaMoisSiret, r.VarEtpCum}
	allPositive := true
	allNonNegative := true
	negatives := 0
	for _, g := range growth {
		if g <= 0 {
			allPositive = false
		}
		if g < 0 {
			allNonNegative = false
			negatives++
		}
	}

	mean, hasMean := scoreMean(r)
	cat := sentimentCategory(r)

	// The sentiment gate is exact label equality: TRÈS POSITIF does not
	// satisfy the POSITIF requirement of the top rules.
	segment := SegmentImproval
	switch {
	case allPositive && hasMean && mean >= 9 && cat == "POSITIF":
		segment = SegmentTop
	case allNonNegative && hasMean && mean >= 7 && (cat == "POSITIF" || cat == "NEUTRE"):
		segment = SegmentHigh
	case hasMean && mean >= 5 && negatives <= 1:
		segment = SegmentStable
	}

	return SegmentedRecord{Record: r, Segment: segment, ScoreMean: mean, SentimentCat: cat}
}

// scoreMean averages the numeric note and question fields. Cells that
// do not parse (placeholders, free text) are excluded; with no numeric
// cell at all the mean is reported missing.
func scoreMean(r store.Record) (float64, bool) {
	cells := []string{
		r.SatisfGlobale,
		r.Q5Amabilite, r.Q6Connaissance, r.Q7Contribution,
		r.Q9ConformiteCandidatures, r.Q10PertinenceProfils,
		r.Q12Reactivite, r.Q13Efficacite,
		r.Q15SuiviContrats, r.Q16PrestationAdministrative,
		r.Q18Proactivite, r.Q19InformationsReglementation, r.Q20PreventionSecurite,
		r.NoteRecommandationConcurrent, r.NoteRecommandationManpower,
	}
	sum := 0.0
	n := 0
	for _, c := range cells {
		v := strings.ReplaceAll(strings.TrimSpace(c), ",", ".")
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			continue
		}
		sum += f
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// TableOf rebuilds the French-headed table from segmented records with
// the view columns appended, so the CSV export carries the same fields
// as the JSON read.
func TableOf(segmented []SegmentedRecord) table.Table {
	records := make([]store.Record, len(segmented))
	segments := make([]string, len(segmented))
	means := make([]string, len(segmented))
	cats := make([]string, len(segmented))
	for i, s := range segmented {
		records[i] = s.Record
		segments[i] = s.Segment
		means[i] = strconv.FormatFloat(s.ScoreMean, 'f', -1, 64)
		cats[i] = s.SentimentCat
	}

	t := store.TableOf(records)
	t = t.WithColumn("segment", segments)
	t = t.WithColumn("score_moyen", means)
	t = t.WithColumn("sentiment_cat", cats)
	return t
}

// sentimentCategory normalizes the recommendation sentiment label,
// defaulting to NEUTRE when absent.
func sentimentCategory(r store.Record) string {
	cat := strings.ToUpper(strings.TrimSpace(r.SentimentRecommandation))
	if cat == "" {
		return "NEUTRE"
	}
	return cat
}
