package render

import (
	"strings"
	"time"
)

// javaTokens maps Java/ICU date pattern letters to Go layout fragments.
// The first entry whose length fits the run of repeated letters wins and
// consumes the whole run.
var javaTokens = map[byte][]struct {
	n      int
	layout string
}{
	'y': {{3, "2006"}, {2, "06"}, {1, "2006"}},
	'M': {{4, "January"}, {3, "Jan"}, {2, "01"}, {1, "1"}},
	'd': {{2, "02"}, {1, "2"}},
	'E': {{4, "Monday"}, {1, "Mon"}},
	'H': {{2, "15"}, {1, "15"}},
	'h': {{2, "03"}, {1, "3"}},
	'm': {{2, "04"}, {1, "4"}},
	's': {{2, "05"}, {1, "5"}},
	'S': {{3, ".000"}, {2, ".00"}, {1, ".0"}},
	'a': {{1, "PM"}},
	'Z': {{1, "-0700"}},
	'X': {{3, "Z07:00"}, {1, "Z0700"}},
	'z': {{1, "MST"}},
}

// FormatDate formats t with a pattern such as "yyyy-MM-dd HH:mm". Text in
// single quotes is copied literally; letters without a mapping are copied
// as is. Each pattern field is formatted on its own, so literal text never
// reaches time.Format.
func FormatDate(t time.Time, pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); {
		c := pattern[i]

		if c == '\'' {
			i = quoted(&b, pattern, i+1)
			continue
		}

		run := 1
		for i+run < len(pattern) && pattern[i+run] == c {
			run++
		}

		tokens, ok := javaTokens[c]
		if !ok {
			b.WriteString(pattern[i : i+run])
			i += run
			continue
		}

		for _, tok := range tokens {
			if run >= tok.n {
				field := t.Format(tok.layout)
				if c == 'S' {
					// Go only formats fractions after a separator; drop it.
					field = field[1:]
				}
				b.WriteString(field)
				break
			}
		}
		i += run
	}
	return b.String()
}

// quoted copies the literal text starting at pattern[i] up to the closing
// quote and returns the index after it. A doubled quote is a literal quote,
// both inside and outside quoted text.
func quoted(b *strings.Builder, pattern string, i int) int {
	if i < len(pattern) && pattern[i] == '\'' {
		b.WriteByte('\'')
		return i + 1
	}
	for i < len(pattern) {
		if pattern[i] != '\'' {
			b.WriteByte(pattern[i])
			i++
			continue
		}
		if i+1 < len(pattern) && pattern[i+1] == '\'' {
			b.WriteByte('\'')
			i += 2
			continue
		}
		return i + 1
	}
	return i
}
