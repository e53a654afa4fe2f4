// Package patterns holds the keyword tables and compiled regular expressions
// used to read bank, UPI and wallet SMS notifications.
//
// A Store is an immutable snapshot. User-supplied merchant patterns and
// salary payer names are layered on with WithOverlay, which returns a new
// snapshot; the built-in tables and compiled expressions are shared.
package patterns

import (
	"sort"
	"strings"
	"unicode"
)

// Normalize upper-cases text and collapses all whitespace runs to a single
// space. Keyword matching always runs on normalized text.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToUpper(text)), " ")
}

// ContainsWord reports whether word occurs in upper as a whole word: the
// characters around the match must not be letters or digits. Both arguments
// are expected to be normalized.
func ContainsWord(upper, word string) bool {
	if word == "" {
		return false
	}
	for offset := 0; offset <= len(upper)-len(word); {
		idx := strings.Index(upper[offset:], word)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(word)
		if boundaryBefore(upper, start, word) && boundaryAfter(upper, end, word) {
			return true
		}
		offset = start + 1
	}
	return false
}

func boundaryBefore(s string, start int, word string) bool {
	if start == 0 || !isWordRune(rune(word[0])) {
		return true
	}
	return !isWordRune(rune(s[start-1]))
}

func boundaryAfter(s string, end int, word string) bool {
	if end >= len(s) || !isWordRune(rune(word[len(word)-1])) {
		return true
	}
	return !isWordRune(rune(s[end]))
}

func isWordRune(r rune) bool {
	return r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

// KeywordSet is an ordered list of normalized keywords. Longer keywords are
// tried first so that "CREDIT SCORE BONUS" wins over "BONUS".
type KeywordSet struct {
	words []string
}

// NewKeywordSet normalizes and de-duplicates words.
func NewKeywordSet(words ...string) KeywordSet {
	seen := make(map[string]bool, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		n := Normalize(w)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return KeywordSet{words: out}
}

// Find returns the first keyword contained in the normalized text.
func (k KeywordSet) Find(upper string) (string, bool) {
	for _, w := range k.words {
		if ContainsWord(upper, w) {
			return w, true
		}
	}
	return "", false
}

// Matches reports whether any keyword is contained in the normalized text.
func (k KeywordSet) Matches(upper string) bool {
	_, ok := k.Find(upper)
	return ok
}

// Words returns a copy of the keywords.
func (k KeywordSet) Words() []string {
	out := make([]string, len(k.words))
	copy(out, k.words)
	return out
}

// Len returns the number of keywords.
func (k KeywordSet) Len() int {
	return len(k.words)
}
