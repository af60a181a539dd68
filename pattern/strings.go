package pattern

// Helpers for walking source text while treating quoted strings, balanced
// parentheses, variable braces and percent-delimited expressions as opaque
// units. Both the expression placeholder and list-literal splitting rely on
// this so separators inside those groups never count.

// SkipGroup returns the index just past the group starting at i, or i when
// s[i] does not open a group. Escapes count as two-character groups.
func SkipGroup(s string, i int) int {
	if i >= len(s) {
		return i
	}
	switch s[i] {
	case '\\':
		if i+1 < len(s) {
			return i + 2
		}
		return i + 1
	case '"':
		for j := i + 1; j < len(s); j++ {
			if s[j] == '"' {
				// Doubled quotes are an escaped quote, not the end.
				if j+1 < len(s) && s[j+1] == '"' {
					j++
					continue
				}
				return j + 1
			}
		}
		return i
	case '(':
		if end, ok := FindClosing(s, '(', ')', i); ok {
			return end + 1
		}
		return i
	case '{':
		if end, ok := FindClosing(s, '{', '}', i); ok {
			return end + 1
		}
		return i
	case '%':
		for j := i + 1; j < len(s); j++ {
			if s[j] == '%' {
				return j + 1
			}
		}
		return i
	default:
		return i
	}
}

// NextSimpleIndex returns the first index at or after i that is outside any
// group. It advances past consecutive groups.
func NextSimpleIndex(s string, i int) int {
	for i < len(s) {
		j := SkipGroup(s, i)
		if j == i {
			return i
		}
		i = j
	}
	return i
}

// FindClosing locates the closing delimiter matching the opener at start.
// Quoted strings inside the group are skipped.
func FindClosing(s string, open, close byte, start int) (int, bool) {
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '"':
			end := SkipGroup(s, i)
			if end == i {
				return 0, false
			}
			i = end - 1
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// CandidateEnds lists every cut position an expression placeholder may stop
// at: each index outside a group, in ascending order, ending with len(s).
func CandidateEnds(s string, at int) []int {
	var ends []int
	i := at
	for i < len(s) {
		j := SkipGroup(s, i)
		if j > i {
			i = j
		} else {
			i++
		}
		ends = append(ends, i)
	}
	if len(ends) == 0 || ends[len(ends)-1] != len(s) {
		ends = append(ends, len(s))
	}
	return ends
}
