package batch

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// NormalizeCoffeeType folds a free-text coffee type to its canonical
// display form: lower-case, then capitalize the first letter of each
// word ("ROBUSTA" -> "Robusta"). Distinct spellings remain distinct
// types; there is no fuzzy matching.
func NormalizeCoffeeType(coffeeType string) string {
	trimmed := strings.Join(strings.Fields(coffeeType), " ")
	if trimmed == "" {
		return ""
	}
	return titleCaser.String(strings.ToLower(trimmed))
}

// CodePrefix derives the batch code prefix from a normalized coffee
// type: the first three letters, upper-cased. Shorter names use all
// available letters.
func CodePrefix(normalizedType string) string {
	letters := make([]rune, 0, 3)
	for _, r := range normalizedType {
		if r == ' ' {
			continue
		}
		letters = append(letters, r)
		if len(letters) == 3 {
			break
		}
	}
	return strings.ToUpper(string(letters))
}
