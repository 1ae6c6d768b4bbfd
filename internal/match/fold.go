package match

import (
	"strings"
	"unicode"
)

// qualifiers are removed from the end of a folded name, longest first.
var qualifiers = []string{"timestamp", "ids", "utc", "id", "at"}

// Fold lower-cases name and drops the separators '_', '-' and ' ',
// so that OrderID, order_id and order-id compare equal.
func Fold(name string) string {
	return strings.Map(func(r rune) rune {
		if isSeparator(r) {
			return -1
		}

		return unicode.ToLower(r)
	}, name)
}

// Stem folds name and removes one trailing qualifier such as ID or At.
// A name made only of a qualifier is kept.
func Stem(name string) string {
	folded := Fold(name)

	for _, q := range qualifiers {
		if stem, ok := strings.CutSuffix(folded, q); ok && stem != "" {
			return stem
		}
	}

	return folded
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}
