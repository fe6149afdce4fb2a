package cast

import "strings"

var javaTokens = []struct {
	java string
	goes string
}{
	{"yyyy", "2006"},
	{"yy", "06"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"MM", "01"},
	{"M", "1"},
	{"dd", "02"},
	{"d", "2"},
	{"EEEE", "Monday"},
	{"EEE", "Mon"},
	{"E", "Mon"},
	{"HH", "15"},
	{"hh", "03"},
	{"h", "3"},
	{"mm", "04"},
	{"ss", "05"},
	{"SSS", "000"},
	{"a", "PM"},
}

// JavaLayout translates a date pattern such as "dd-MM-yyyy" into the equivalent
// Go time layout. Text within single quotes is copied literally, and a pattern
// which is already a Go layout is returned unchanged.
func JavaLayout(pattern string) string {
	if strings.Contains(pattern, "2006") || strings.Contains(pattern, "Jan") {
		return pattern
	}
	var b strings.Builder
	for i := 0; i < len(pattern); {
		if pattern[i] == '\'' {
			end := strings.IndexByte(pattern[i+1:], '\'')
			if end < 0 {
				b.WriteString(pattern[i+1:])
				break
			}
			if end == 0 {
				b.WriteByte('\'')
			} else {
				b.WriteString(pattern[i+1 : i+1+end])
			}
			i += end + 2
			continue
		}
		matched := false
		for _, tok := range javaTokens {
			if strings.HasPrefix(pattern[i:], tok.java) {
				b.WriteString(tok.goes)
				i += len(tok.java)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(pattern[i])
			i++
		}
	}
	return b.String()
}
