package waitlist

import (
	"strings"

	"golang.org/x/text/cases"
)

// NormalizeEmail produces the canonical form used for duplicate checks:
// surrounding whitespace removed, then Unicode case folding. Folding
// instead of plain lowercasing keeps comparisons stable for non-ASCII
// mailboxes. Stored entries keep the address as the person typed it.
func NormalizeEmail(email string) string {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return ""
	}

	// A cases.Caser carries internal state, so each call folds with a
	// fresh one rather than sharing across goroutines.
	return cases.Fold().String(trimmed)
}
