package pipeline

import (
	"regexp"
	"strings"

	"agencypulse/table"
)

// ColumnSpec describes one semantic field: its canonical output name,
// known historical header variants and, when needed, a validity check on
// sampled values. All header heuristics live here so resolution stays in
// one testable place.
type ColumnSpec struct {
	Canonical string
	Aliases   []string
	// Sentiment marks free-text fields that get companion
	// "Sentiment ..."/"Score ..." columns.
	Sentiment bool
	// Fill marks interview fields whose empty cells are filled with the
	// no-response placeholder before the merge.
	Fill bool
	// Validity, when set, gates acceptance on sampled values: at least
	// 70% must satisfy it and none may contain ErrorMarker.
	Validity    func(string) bool
	ErrorMarker string
}

var questionToken = regexp.MustCompile(`^Q\d+`)

// Resolve returns the best-matching actual column for the spec, or
// ("", false). Priority: exact canonical/alias match, case-insensitive
// substring in either direction, then the question-index token for
// "Q<N> - ..." fields. When a validity check is set, candidates are
// sampled and the first one passing wins. Resolution is deterministic
// for a given column set.
func (s ColumnSpec) Resolve(t table.Table) (string, bool) {
	candidates := s.candidates(t.Columns())
	if len(candidates) == 0 {
		return "", false
	}
	if s.Validity == nil {
		return candidates[0], true
	}
	for _, c := range candidates {
		if s.sampleValid(t, c) {
			return c, true
		}
	}
	return "", false
}

func (s ColumnSpec) candidates(cols []string) []string {
	names := append([]string{s.Canonical}, s.Aliases...)
	var out []string
	seen := make(map[string]struct{})
	add := func(col string) {
		if _, ok := seen[col]; !ok {
			seen[col] = struct{}{}
			out = append(out, col)
		}
	}

	for _, name := range names {
		for _, col := range cols {
			if col == name {
				add(col)
			}
		}
	}
	for _, name := range names {
		lowerName := strings.ToLower(name)
		for _, col := range cols {
			lowerCol := strings.ToLower(col)
			if strings.Contains(lowerCol, lowerName) || strings.Contains(lowerName, lowerCol) {
				add(col)
			}
		}
	}
	if token := questionToken.FindString(s.Canonical); token != "" {
		for _, col := range cols {
			if strings.Contains(col, token) {
				add(col)
			}
		}
	}
	return out
}

// sampleValid samples up to 10 non-empty values of the candidate column
// and accepts it when at least 70% satisfy the predicate and none carry
// the wrong-data marker.
func (s ColumnSpec) sampleValid(t table.Table, col string) bool {
	values := t.Column(col)
	sample := make([]string, 0, 10)
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		sample = append(sample, v)
		if len(sample) == 10 {
			break
		}
	}
	if len(sample) == 0 {
		return false
	}
	valid := 0
	for _, v := range sample {
		if s.ErrorMarker != "" && strings.Contains(v, s.ErrorMarker) {
			return false
		}
		if s.Validity(v) {
			valid++
		}
	}
	return float64(valid)/float64(len(sample)) >= 0.7
}

// NumericOrPlaceholder accepts rating cells: a numeric string (one
// decimal point allowed) or the no-response placeholder.
func NumericOrPlaceholder(v string) bool {
	trimmed := strings.TrimSpace(v)
	if strings.EqualFold(trimmed, "Pas de réponse") {
		return true
	}
	digits := strings.Replace(trimmed, ".", "", 1)
	if digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// KeyColumn is the composite join key present in both tables after key
// derivation.
const KeyColumn = "siret_agence"

// Well-known performance-side fields.
const (
	ColYear                = "Année"
	ColEstablishmentNumber = "No Siret"
	ColAgencyCode          = "code agence"
)

// Well-known interview-side fields.
const (
	ColCampaign           = "Campagne d'appels"
	ColInterviewSiret     = "SIRET"
	ColInterviewAgency    = "CODE_AGENC"
	ColCompetitor         = "Concurrent OnSite"
	ColRecommendReason    = "Raison recommandation Manpower"
	ColRecommendSentiment = "Sentiment " + ColRecommendReason
	ColRecommendScore     = "Score " + ColRecommendReason
)

// PerformanceColumns is the fixed performance-side projection, in output
// order.
var PerformanceColumns = []string{
	ColYear, "Mois", "type entité", "Code DR", "DR", ColAgencyCode, "agence",
	"Ouvert / Fermé", ColEstablishmentNumber, "raison sociale",
	"Ca Cum A", "Ca Cum A-1", "var ca cum",
	"Ca Mois M", "Ca Mois M-1", "var ca mois",
	"Ca Cum A SIRET", "Ca Cum A-1 SIRET", "var ca cum SIRET",
	"ca mois A SIRET", "ca mois A-1 SIRET", "var ca mois SIRET",
	"ETP Cum A", "ETP Cum A-1", "var ETP cum",
	KeyColumn,
}

// InterviewSpecs lists the interview-side semantic fields in output
// order. Aliases carry every historical header variant seen across
// campaigns, including the long question wordings.
var InterviewSpecs = []ColumnSpec{
	{Canonical: ColCampaign},
	{Canonical: ColInterviewAgency},
	{Canonical: ColInterviewSiret},
	{Canonical: "Satisf.\n\nGlobale", Aliases: []string{"Satisf. Globale", "Satisf.Globale"}, Fill: true},
	{
		Canonical: "Raison note satisfaction",
		Aliases:   []string{"Pouvez-vous me dire pourquoi vous donnez cette note de satisfaction ?"},
		Sentiment: true, Fill: true,
	},
	{
		Canonical: ColCompetitor,
		Aliases:   []string{"Quelle est LA société de travail temporaire à laquelle vous faites appel le plus souvent (en dehors de Manpower) ?"},
		Fill:      true,
	},
	{Canonical: "Q5 - Amabilité et disponibilit", Aliases: []string{"Q5 - Amabilité et disponibilité de votre partenaire Manpower"}},
	{Canonical: "Q6 - Connaissance entreprise et objectifs", Aliases: []string{"Q6 - Connaissance de votre entreprise, vos besoins, vos attentes, vos objectifs"}},
	{
		Canonical: "Q7 - Contribution objectifs et performances",
		Aliases:   []string{"Q7 - Contribution à votre performance et à l'atteinte de vos objectifs"},
		Fill:      true,
	},
	{
		Canonical: "Q8 - Qualité de collaboration",
		Aliases:   []string{"Q8 - Diriez-vous que votre collaboration avec MANPOWER est :"},
		Sentiment: true,
	},
	{Canonical: "Q9 - Conformité nombre de candidatures", Aliases: []string{"Q9 - Conformité du nombre de candidatures proposées par rapport à vos attentes"}},
	{Canonical: "Q10 - Qualité et pertinence profils", Aliases: []string{"Q10 - Qualité et pertinence des profils proposés"}},
	{
		Canonical: "Q11 - Qualité adéquation candidats",
		Aliases:   []string{"Q11 - Diriez-vous que l'adéquation entre les candidats proposés par MANPOWER et votre demande est :"},
		Sentiment: true, Fill: true,
	},
	{
		Canonical: "Q12 - Réactivité",
		Aliases: []string{
			"Q12 - Réactivité pour répondre à vos besoins",
			"Q12 - Réactivité pour répondre à vos besoins,",
		},
		Fill:        true,
		Validity:    NumericOrPlaceholder,
		ErrorMarker: "D.R.",
	},
	{Canonical: "Q13 - Efficacité", Aliases: []string{"Q13 - Efficacité à agir en cas de dysfonctionnements ou de réclamations"}},
	{
		Canonical: "Q14 - Quailté réactivité",
		Aliases:   []string{"Q14 - Diriez-vous que la réactivité de MANPOWER est :"},
		Sentiment: true,
	},
	{Canonical: "Q15 - Production et suivi des contrats", Aliases: []string{"Q15 - Production des contrats, au suivi de leurs prestations, et leur gestion de fins de contrats"}},
	{
		Canonical: "Q16 - Prestation administrative",
		Aliases:   []string{"Q16 - Prestation administrative, c'est-à-dire les relevés d'activités et la facturation"},
		Fill:      true,
	},
	{
		Canonical: "Q17 - Qualité presta administrative",
		Aliases:   []string{"Q17 - Diriez-vous que le suivi de mission et la gestion administrative de MANPOWER est :"},
		Sentiment: true,
	},
	{Canonical: "Q18 - Proactivité", Aliases: []string{"Q18 - Proactivité dans la poposition de candidatures spontanées"}},
	{Canonical: "Q19 - Qualité informations règlementation TT", Aliases: []string{"Q19 - Qualité des informations fournies sur la réglementation du travail temporaire"}},
	{Canonical: "Q20 - Actions prévention sécurité", Aliases: []string{"Q20 - Actions en matière de prévention sécurité au travail"}},
	{
		Canonical: "Q21 - Qualité expertise",
		Aliases:   []string{"Q21 - Diriez-vous que l'expertise de MANPOWER est :"},
		Sentiment: true, Fill: true,
	},
	{
		Canonical: "Note Recommandation concurrent",
		Aliases:   []string{"Q21bis - Sur une échelle de 0 à 10, recommanderiez-vous [CONCURRENT PRINCIPAL CITE] pour du TRAVAIL TEMPORAIRE ?"},
		Fill:      true,
	},
	{Canonical: "Note Recommandation Manpower", Aliases: []string{"Recommandation"}},
	{
		Canonical: ColRecommendReason,
		Aliases: []string{
			"Pouvez-vous me dire pourquoi vous donner cette note de recommandation?",
			"Pouvez-vous me dire pourquoi vous donner cette note de recommandation ?",
		},
		Sentiment: true, Fill: true,
	},
	{Canonical: KeyColumn},
}

// SentimentSpecs returns the interview specs flagged for sentiment
// enrichment, in output order.
func SentimentSpecs() []ColumnSpec {
	var out []ColumnSpec
	for _, s := range InterviewSpecs {
		if s.Sentiment {
			out = append(out, s)
		}
	}
	return out
}

// SentimentColumns returns the companion column names for a canonical
// text field.
func SentimentColumns(canonical string) (label, score string) {
	return "Sentiment " + canonical, "Score " + canonical
}
