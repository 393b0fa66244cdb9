// Package store persists the reconciled table in SQLite. Each pipeline
// run replaces the whole dataset in one transaction, so readers always
// see exactly one complete run.
package store

import (
	"strconv"
	"strings"

	"agencypulse/table"
)

// Record is one reconciled row. Field order mirrors the output column
// order of the pipeline; json tags match the API payload of the
// original service.
type Record struct {
	ID int64 `json:"id"`

	Annee          int     `json:"annee"`
	Mois           int     `json:"mois"`
	TypeEntite     string  `json:"type_entite"`
	CodeDR         string  `json:"code_dr"`
	DR             string  `json:"dr"`
	CodeAgence     string  `json:"code_agence"`
	Agence         string  `json:"agence"`
	OuvertFerme    string  `json:"ouvert_ferme"`
	NoSiret        string  `json:"no_siret"`
	Concurrent     string  `json:"concurrent_onsite"`
	RaisonSociale  string  `json:"raison_sociale"`
	CaCumA         float64 `json:"ca_cum_a"`
	CaCumA1        float64 `json:"ca_cum_a1"`
	VarCaCum       float64 `json:"var_ca_cum"`
	CaMoisM        float64 `json:"ca_mois_m"`
	CaMoisM1       float64 `json:"ca_mois_m1"`
	VarCaMois      float64 `json:"var_ca_mois"`
	CaCumASiret    float64 `json:"ca_cum_a_siret"`
	CaCumA1Siret   float64 `json:"ca_cum_a1_siret"`
	VarCaCumSiret  float64 `json:"var_ca_cum_siret"`
	CaMoisASiret   float64 `json:"ca_mois_a_siret"`
	CaMoisA1Siret  float64 `json:"ca_mois_a1_siret"`
	VarCaMoisSiret float64 `json:"var_ca_mois_siret"`
	EtpCumA        float64 `json:"etp_cum_a"`
	EtpCumA1       float64 `json:"etp_cum_a1"`
	VarEtpCum      float64 `json:"var_etp_cum"`
	SiretAgence    string  `json:"siret_agence"`

	CampagneAppels                  string  `json:"campagne_appels"`
	CodeAgenc                       string  `json:"code_agenc"`
	Siret                           string  `json:"siret"`
	SatisfGlobale                   string  `json:"satisf_globale"`
	RaisonNoteSatisfaction          string  `json:"raison_note_satisfaction"`
	SentimentRaisonNoteSatisfaction string  `json:"sentiment_raison_note_satisfaction"`
	ScoreRaisonNoteSatisfaction     float64 `json:"score_raison_note_satisfaction"`
	Q5Amabilite                     string  `json:"q5_amabilite"`
	Q6Connaissance                  string  `json:"q6_connaissance"`
	Q7Contribution                  string  `json:"q7_contribution"`
	Q8QualiteCollaboration          string  `json:"q8_qualite_collaboration"`
	SentimentQ8Collaboration        string  `json:"sentiment_q8_qualite_collaboration"`
	ScoreQ8Collaboration            float64 `json:"score_q8_qualite_collaboration"`
	Q9ConformiteCandidatures        string  `json:"q9_conformite_candidatures"`
	Q10PertinenceProfils            string  `json:"q10_pertinence_profils"`
	Q11AdequationCandidats          string  `json:"q11_adequation_candidats"`
	SentimentQ11Adequation          string  `json:"sentiment_q11_adequation_candidats"`
	ScoreQ11Adequation              float64 `json:"score_q11_adequation_candidats"`
	Q12Reactivite                   string  `json:"q12_reactivite"`
	Q13Efficacite                   string  `json:"q13_efficacite"`
	Q14QualiteReactivite            string  `json:"q14_qualite_reactivite"`
	SentimentQ14Reactivite          string  `json:"sentiment_q14_qualite_reactivite"`
	ScoreQ14Reactivite              float64 `json:"score_q14_qualite_reactivite"`
	Q15SuiviContrats                string  `json:"q15_suivi_contrats"`
	Q16PrestationAdministrative     string  `json:"q16_prestation_administrative"`
	Q17QualitePrestaAdministrative  string  `json:"q17_qualite_presta_administrative"`
	SentimentQ17Administrative      string  `json:"sentiment_q17_qualite_presta_administrative"`
	ScoreQ17Administrative          float64 `json:"score_q17_qualite_presta_administrative"`
	Q18Proactivite                  string  `json:"q18_proactivite"`
	Q19InformationsReglementation   string  `json:"q19_informations_reglementation"`
	Q20PreventionSecurite           string  `json:"q20_prevention_securite"`
	Q21QualiteExpertise             string  `json:"q21_qualite_expertise"`
	SentimentQ21Expertise           string  `json:"sentiment_q21_qualite_expertise"`
	ScoreQ21Expertise               float64 `json:"score_q21_qualite_expertise"`
	NoteRecommandationConcurrent    string  `json:"note_recommandation_concurrent"`
	NoteRecommandationManpower      string  `json:"note_recommandation_manpower"`
	RaisonRecommandationManpower    string  `json:"raison_recommandation_manpower"`
	SentimentRecommandation         string  `json:"sentiment_raison_recommandation_manpower"`
	ScoreRecommandation             float64 `json:"score_raison_recommandation_manpower"`
}

type fieldKind int

const (
	textField fieldKind = iota
	intField
	realField
)

// field binds one database column to the French header it is fed from.
type field struct {
	column string
	header string
	kind   fieldKind
}

// fields lists every persisted column in declaration order. The order
// must match (*Record).pointers and (Record).values.
var fields = []field{
	{"annee", "Année", intField},
	{"mois", "Mois", intField},
	{"type_entite", "type entité", textField},
	{"code_dr", "Code DR", textField},
	{"dr", "DR", textField},
	{"code_agence", "code agence", textField},
	{"agence", "agence", textField},
	{"ouvert_ferme", "Ouvert / Fermé", textField},
	{"no_siret", "No Siret", textField},
	{"concurrent_onsite", "Concurrent OnSite", textField},
	{"raison_sociale", "raison sociale", textField},
	{"ca_cum_a", "Ca Cum A", realField},
	{"ca_cum_a1", "Ca Cum A-1", realField},
	{"var_ca_cum", "var ca cum", realField},
	{"ca_mois_m", "Ca Mois M", realField},
	{"ca_mois_m1", "Ca Mois M-1", realField},
	{"var_ca_mois", "var ca mois", realField},
	{"ca_cum_a_siret", "Ca Cum A SIRET", realField},
	{"ca_cum_a1_siret", "Ca Cum A-1 SIRET", realField},
	{"var_ca_cum_siret", "var ca cum SIRET", realField},
	{"ca_mois_a_siret", "ca mois A SIRET", realField},
	{"ca_mois_a1_siret", "ca mois A-1 SIRET", realField},
	{"var_ca_mois_siret", "var ca mois SIRET", realField},
	{"etp_cum_a", "ETP Cum A", realField},
	{"etp_cum_a1", "ETP Cum A-1", realField},
	{"var_etp_cum", "var ETP cum", realField},
	{"siret_agence", "siret_agence", textField},

	{"campagne_appels", "Campagne d'appels", textField},
	{"code_agenc", "CODE_AGENC", textField},
	{"siret", "SIRET", textField},
	{"satisf_globale", "Satisf.\n\nGlobale", textField},
	{"raison_note_satisfaction", "Raison note satisfaction", textField},
	{"sentiment_raison_note_satisfaction", "Sentiment Raison note satisfaction", textField},
	{"score_raison_note_satisfaction", "Score Raison note satisfaction", realField},
	{"q5_amabilite", "Q5 - Amabilité et disponibilit", textField},
	{"q6_connaissance", "Q6 - Connaissance entreprise et objectifs", textField},
	{"q7_contribution", "Q7 - Contribution objectifs et performances", textField},
	{"q8_qualite_collaboration", "Q8 - Qualité de collaboration", textField},
	{"sentiment_q8_qualite_collaboration", "Sentiment Q8 - Qualité de collaboration", textField},
	{"score_q8_qualite_collaboration", "Score Q8 - Qualité de collaboration", realField},
	{"q9_conformite_candidatures", "Q9 - Conformité nombre de candidatures", textField},
	{"q10_pertinence_profils", "Q10 - Qualité et pertinence profils", textField},
	{"q11_adequation_candidats", "Q11 - Qualité adéquation candidats", textField},
	{"sentiment_q11_adequation_candidats", "Sentiment Q11 - Qualité adéquation candidats", textField},
	{"score_q11_adequation_candidats", "Score Q11 - Qualité adéquation candidats", realField},
	{"q12_reactivite", "Q12 - Réactivité", textField},
	{"q13_efficacite", "Q13 - Efficacité", textField},
	{"q14_qualite_reactivite", "Q14 - Quailté réactivité", textField},
	{"sentiment_q14_qualite_reactivite", "Sentiment Q14 - Quailté réactivité", textField},
	{"score_q14_qualite_reactivite", "Score Q14 - Quailté réactivité", realField},
	{"q15_suivi_contrats", "Q15 - Production et suivi des contrats", textField},
	{"q16_prestation_administrative", "Q16 - Prestation administrative", textField},
	{"q17_qualite_presta_administrative", "Q17 - Qualité presta administrative", textField},
	{"sentiment_q17_qualite_presta_administrative", "Sentiment Q17 - Qualité presta administrative", textField},
	{"score_q17_qualite_presta_administrative", "Score Q17 - Qualité presta administrative", realField},
	{"q18_proactivite", "Q18 - Proactivité", textField},
	{"q19_informations_reglementation", "Q19 - Qualité informations règlementation TT", textField},
	{"q20_prevention_securite", "Q20 - Actions prévention sécurité", textField},
	{"q21_qualite_expertise", "Q21 - Qualité expertise", textField},
	{"sentiment_q21_qualite_expertise", "Sentiment Q21 - Qualité expertise", textField},
	{"score_q21_qualite_expertise", "Score Q21 - Qualité expertise", realField},
	{"note_recommandation_concurrent", "Note Recommandation concurrent", textField},
	{"note_recommandation_manpower", "Note Recommandation Manpower", textField},
	{"raison_recommandation_manpower", "Raison recommandation Manpower", textField},
	{"sentiment_raison_recommandation_manpower", "Sentiment Raison recommandation Manpower", textField},
	{"score_raison_recommandation_manpower", "Score Raison recommandation Manpower", realField},
}

// pointers returns scan destinations in fields order, excluding ID.
func (r *Record) pointers() []any {
	return []any{
		&r.Annee, &r.Mois, &r.TypeEntite, &r.CodeDR, &r.DR, &r.CodeAgence,
		&r.Agence, &r.OuvertFerme, &r.NoSiret, &r.Concurrent, &r.RaisonSociale,
		&r.CaCumA, &r.CaCumA1, &r.VarCaCum,
		&r.CaMoisM, &r.CaMoisM1, &r.VarCaMois,
		&r.CaCumASiret, &r.CaCumA1Siret, &r.VarCaCumSiret,
		&r.CaMoisASiret, &r.CaMoisA1Siret, &r.VarCaMoisSiret,
		&r.EtpCumA, &r.EtpCumA1, &r.VarEtpCum,
		&r.SiretAgence,
		&r.CampagneAppels, &r.CodeAgenc, &r.Siret, &r.SatisfGlobale,
		&r.RaisonNoteSatisfaction, &r.SentimentRaisonNoteSatisfaction, &r.ScoreRaisonNoteSatisfaction,
		&r.Q5Amabilite, &r.Q6Connaissance, &r.Q7Contribution,
		&r.Q8QualiteCollaboration, &r.SentimentQ8Collaboration, &r.ScoreQ8Collaboration,
		&r.Q9ConformiteCandidatures, &r.Q10PertinenceProfils,
		&r.Q11AdequationCandidats, &r.SentimentQ11Adequation, &r.ScoreQ11Adequation,
		&r.Q12Reactivite, &r.Q13Efficacite,
		&r.Q14QualiteReactivite, &r.SentimentQ14Reactivite, &r.ScoreQ14Reactivite,
		&r.Q15SuiviContrats, &r.Q16PrestationAdministrative,
		&r.Q17QualitePrestaAdministrative, &r.SentimentQ17Administrative, &r.ScoreQ17Administrative,
		&r.Q18Proactivite, &r.Q19InformationsReglementation, &r.Q20PreventionSecurite,
		&r.Q21QualiteExpertise, &r.SentimentQ21Expertise, &r.ScoreQ21Expertise,
		&r.NoteRecommandationConcurrent, &r.NoteRecommandationManpower,
		&r.RaisonRecommandationManpower, &r.SentimentRecommandation, &r.ScoreRecommandation,
	}
}

// values returns insert arguments in fields order, excluding ID.
func (r *Record) values() []any {
	ptrs := r.pointers()
	out := make([]any, len(ptrs))
	for i, p := range ptrs {
		switch v := p.(type) {
		case *int:
			out[i] = *v
		case *float64:
			out[i] = *v
		case *string:
			out[i] = *v
		}
	}
	return out
}

// RecordsFrom converts the pipeline output table into records. Unknown
// table columns are ignored; missing ones leave the zero default.
// Numeric cells accept a French decimal comma.
func RecordsFrom(t table.Table) []Record {
	records := make([]Record, t.Len())
	for i := range records {
		ptrs := records[i].pointers()
		for j, f := range fields {
			if !t.HasColumn(f.header) {
				continue
			}
			cell := strings.TrimSpace(t.Cell(i, f.header))
			switch p := ptrs[j].(type) {
			case *string:
				*p = cell
			case *int:
				*p = parseInt(cell)
			case *float64:
				*p = parseFloat(cell)
			}
		}
	}
	return records
}

// TableOf rebuilds a table with the original French headers from
// records, for the CSV export.
func TableOf(records []Record) table.Table {
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.header
	}
	rows := make([][]string, len(records))
	for i := range records {
		vals := records[i].values()
		row := make([]string, len(vals))
		for j, v := range vals {
			switch x := v.(type) {
			case string:
				row[j] = x
			case int:
				row[j] = strconv.Itoa(x)
			case float64:
				row[j] = strconv.FormatFloat(x, 'f', -1, 64)
			}
		}
		rows[i] = row
	}
	return table.New(cols, rows)
}

func parseInt(v string) int {
	if idx := strings.IndexByte(v, '.'); idx >= 0 {
		v = v[:idx]
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func parseFloat(v string) float64 {
	v = strings.ReplaceAll(v, ",", ".")
	v = strings.ReplaceAll(v, " ", "")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}
