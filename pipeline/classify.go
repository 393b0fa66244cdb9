package pipeline

import (
	"fmt"
	"strings"

	"agencypulse/table"
)

// Indicator markers used to tell the two uploads apart by their column
// sets. Thresholds and markers follow the known source layouts.
var (
	interviewIndicators   = []string{"Q5", "Q7", "Q8", "Q11", "Satisf", "SIRET", "CODE_AGENC", "Campagne"}
	performanceIndicators = []string{"Année", "Ca Cum A", "No Siret", "code agence", "raison sociale"}
)

const indicatorThreshold = 3

// Classify assigns the performance and interview roles to the two
// uploaded tables. When indicator scoring is ambiguous it falls back to
// upload order (first = performance, second = interview) and reports the
// fallback as a warning.
func Classify(first, second table.Table) (perf, interview table.Table, warnings []Warning) {
	firstInterview := indicatorCount(first, interviewIndicators) >= indicatorThreshold
	secondInterview := indicatorCount(second, interviewIndicators) >= indicatorThreshold
	firstPerformance := indicatorCount(first, performanceIndicators) >= indicatorThreshold
	secondPerformance := indicatorCount(second, performanceIndicators) >= indicatorThreshold

	switch {
	case firstInterview && secondPerformance && !(secondInterview && firstPerformance):
		return second, first, nil
	case secondInterview && firstPerformance && !(firstInterview && secondPerformance):
		return first, second, nil
	default:
		warnings = append(warnings, Warning{
			Code: WarnRoleFallback,
			Message: fmt.Sprintf("table role auto-detection ambiguous (interview %t/%t, performance %t/%t); using upload order",
				firstInterview, secondInterview, firstPerformance, secondPerformance),
		})
		return first, second, warnings
	}
}

func indicatorCount(t table.Table, indicators []string) int {
	cols := t.Columns()
	count := 0
	for _, marker := range indicators {
		for _, col := range cols {
			if strings.Contains(col, marker) {
				count++
				break
			}
		}
	}
	return count
}
