package pro

// datefmt.go translates Excel date/time number formats into strftime patterns.
//
// Excel overloads two token families:
//   - m / mm is a month unless it sits next to an hour or second token,
//     in which case it is a minute
//   - h / hh is a 24-hour clock unless AM/PM appears anywhere in the format
//
// Both rules look at the original token layout, so the pattern is tokenized
// once, resolved over the token slice and only then rendered.

import "strings"

type tokenKind int

const (
	tokLiteral tokenKind = iota
	tokYear4
	tokYear2
	tokMonthName
	tokMonthAbbr
	tokMonthOrMinute2
	tokMonthOrMinute
	tokWeekday
	tokWeekdayAbbr
	tokDay2
	tokDay
	tokHour2
	tokHour
	tokSecond2
	tokSecond
	tokMeridiem
)

type patternToken struct {
	kind tokenKind
	text string
}

// excelTokens is ordered so that a longer token always wins over its prefix.
var excelTokens = []struct {
	text string
	kind tokenKind
}{
	{"am/pm", tokMeridiem},
	{"yyyy", tokYear4},
	{"yy", tokYear2},
	{"mmmm", tokMonthName},
	{"mmm", tokMonthAbbr},
	{"mm", tokMonthOrMinute2},
	{"m", tokMonthOrMinute},
	{"dddd", tokWeekday},
	{"ddd", tokWeekdayAbbr},
	{"dd", tokDay2},
	{"d", tokDay},
	{"hh", tokHour2},
	{"h", tokHour},
	{"ss", tokSecond2},
	{"s", tokSecond},
}

// directives holds the context-free translations.
var directives = map[tokenKind]string{
	tokYear4:       "%Y",
	tokYear2:       "%y",
	tokMonthName:   "%B",
	tokMonthAbbr:   "%b",
	tokWeekday:     "%A",
	tokWeekdayAbbr: "%a",
	tokDay2:        "%d",
	tokDay:         "%-d",
	tokSecond2:     "%S",
	tokSecond:      "%-S",
	tokMeridiem:    "%p",
}

// TranslateExcelDate converts an Excel date/time format such as
// "dd/mm/yyyy hh:mm" into the equivalent strftime pattern ("%d/%m/%Y %H:%M").
//
// Tokens are matched case-insensitively and anything else is copied through.
// Three-digit years and other exotic tokens are not supported; they pass
// through as literals or shorter tokens. Strftime directives already present
// in the input are left alone, so translating twice is a no-op.
func TranslateExcelDate(excelPattern string) string {
	tokens := tokenizeExcel(excelPattern)

	twelveHour := false
	for _, tok := range tokens {
		if tok.kind == tokMeridiem {
			twelveHour = true
			break
		}
	}

	var b strings.Builder
	b.Grow(len(excelPattern) * 2)
	for i, tok := range tokens {
		switch tok.kind {
		case tokLiteral:
			b.WriteString(tok.text)
		case tokMonthOrMinute2:
			if isMinute(tokens, i) {
				b.WriteString("%M")
			} else {
				b.WriteString("%m")
			}
		case tokMonthOrMinute:
			if isMinute(tokens, i) {
				b.WriteString("%-M")
			} else {
				b.WriteString("%-m")
			}
		case tokHour2:
			if twelveHour {
				b.WriteString("%I")
			} else {
				b.WriteString("%H")
			}
		case tokHour:
			if twelveHour {
				b.WriteString("%-I")
			} else {
				b.WriteString("%-H")
			}
		default:
			b.WriteString(directives[tok.kind])
		}
	}
	return b.String()
}

// tokenizeExcel splits a pattern into literal runs and format tokens.
// A '%' introduces a strftime directive ("%Y", "%-d") which is kept as a
// literal.
func tokenizeExcel(pattern string) []patternToken {
	var tokens []patternToken
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			tokens = append(tokens, patternToken{kind: tokLiteral, text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(pattern); {
		if pattern[i] == '%' && i+1 < len(pattern) {
			n := 2
			if pattern[i+1] == '-' && i+2 < len(pattern) {
				n = 3
			}
			lit.WriteString(pattern[i : i+n])
			i += n
			continue
		}

		matched := false
		for _, et := range excelTokens {
			if hasPrefixFold(pattern[i:], et.text) {
				flush()
				tokens = append(tokens, patternToken{kind: et.kind, text: pattern[i : i+len(et.text)]})
				i += len(et.text)
				matched = true
				break
			}
		}
		if !matched {
			lit.WriteByte(pattern[i])
			i++
		}
	}
	flush()

	return tokens
}

// isMinute reports whether the m/mm token at i neighbours an hour or second
// token. Literal runs between tokens are separators and are skipped.
func isMinute(tokens []patternToken, i int) bool {
	return isClockToken(neighbour(tokens, i, -1)) || isClockToken(neighbour(tokens, i, 1))
}

func neighbour(tokens []patternToken, i, step int) tokenKind {
	for j := i + step; j >= 0 && j < len(tokens); j += step {
		if tokens[j].kind != tokLiteral {
			return tokens[j].kind
		}
	}
	return tokLiteral
}

func isClockToken(k tokenKind) bool {
	switch k {
	case tokHour, tokHour2, tokSecond, tokSecond2:
		return true
	}
	return false
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
