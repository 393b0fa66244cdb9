// Package pipeline reconciles the agency performance export with the
// client interview export into one analytic table: role detection, key
// derivation, left merge with the campaign-year filter, column
// projection and sentiment enrichment.
package pipeline

import (
	"errors"
	"time"

	"agencypulse/table"
)

// Fatal conditions that make the run output meaningless.
var (
	// ErrUnjoinable means no establishment-number field could be derived,
	// so rows cannot be matched across the two tables.
	ErrUnjoinable = errors.New("unjoinable input: establishment number field missing")
	// ErrNoColumns means the projected column set came out empty.
	ErrNoColumns = errors.New("no valid columns after projection")
)

// Warning codes for degraded-but-continued decisions.
const (
	WarnRoleFallback    = "role_fallback"
	WarnFieldUnresolved = "field_unresolved"
	WarnColumnRejected  = "column_rejected"
	WarnKeyBackfill     = "key_backfill"
)

// Warning records a fallback or degradation the caller can audit.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RunResult is what a completed pipeline run hands back to the serving
// layer: the final table, how long the run took and every structured
// warning emitted along the way.
type RunResult struct {
	Table    table.Table
	Records  int
	Warnings []Warning
	Duration time.Duration
}
