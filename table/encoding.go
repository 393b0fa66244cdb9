package table

import "strings"

// headerFixes maps byte sequences produced by decoding UTF-8 exports as
// Latin-1 back to their intended characters. Longer sequences are listed
// first so the replacer matches them before their substrings.
var headerFixes = strings.NewReplacer(
	"lâ€™", "l'",
	"câ€™", "c'",
	"dâ€™", "d'",
	"sâ€™", "s'",
	"â€™", "'",
	"Ã©", "é",
	"Ã¨", "è",
	"Ã§", "ç",
	"Ã¹", "ù",
	"Ã´", "ô",
	"Ã¢", "â",
	"Ã®", "î",
	"Ã«", "ë",
	"Ã¯", "ï",
	"Ã¼", "ü",
	"Ã ", "à",
)

// RepairHeader fixes mis-decoded characters in a single header string.
// Unknown artifacts pass through unchanged; the function never fails.
func RepairHeader(h string) string {
	return headerFixes.Replace(h)
}
