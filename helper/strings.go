package helper

import (
	"strings"
	"unicode"
)

// Underscore turns a Go field name into snake_case: "KeywordIDs" becomes
// "keyword_ids".
func Underscore(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prevLower := unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if prevLower || (unicode.IsUpper(runes[i-1]) && nextLower && !isPluralS(runes, i+1)) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// isPluralS reports whether runes[i] is a trailing "s" after an acronym, as
// in "IDs".
func isPluralS(runes []rune, i int) bool {
	return i == len(runes)-1 && runes[i] == 's'
}
