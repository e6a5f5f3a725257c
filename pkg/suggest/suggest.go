// Package suggest provides an optional, pluggable "did you mean X?"
// keyword-similarity check. It is invoked lazily by the parser, only at
// the point an identifier is rejected where a keyword was required —
// never by the scanner, and never for every identifier it sees.
package suggest

import "strings"

// MaxDistance is the edit-distance cutoff beyond which no suggestion is
// offered.
const MaxDistance = 2

// Keyword returns the closest reserved word to ident (upper-cased
// comparison) if its Levenshtein distance to some word in candidates is
// within MaxDistance, and ok reports whether a match was found.
func Keyword(ident string, candidates []string) (closest string, ok bool) {
	upper := strings.ToUpper(ident)
	best := MaxDistance + 1
	for _, kw := range candidates {
		d := levenshtein(upper, kw)
		if d < best {
			best = d
			closest = kw
		}
	}
	if best <= MaxDistance {
		return closest, true
	}
	return "", false
}

// levenshtein computes the edit distance between a and b using
// space-optimized dynamic programming (two rows instead of a full
// matrix): insertions, deletions, and substitutions each cost 1.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			deletion := prev[j] + 1
			insertion := curr[j-1] + 1
			substitution := prev[j-1] + cost
			curr[j] = min3(deletion, insertion, substitution)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
