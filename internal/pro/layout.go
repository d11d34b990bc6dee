package pro

import (
	"fmt"
	"strings"
)

// DefaultTimestampLayout formats date cells of columns without a pattern.
const DefaultTimestampLayout = "2006-01-02 15:04:05"

// goDirectives maps the strftime directives produced by TranslateExcelDate
// onto Go reference-time elements.
var goDirectives = map[string]string{
	"Y":  "2006",
	"y":  "06",
	"B":  "January",
	"b":  "Jan",
	"m":  "01",
	"-m": "1",
	"A":  "Monday",
	"a":  "Mon",
	"d":  "02",
	"-d": "2",
	"H":  "15",
	"-H": "15",
	"I":  "03",
	"-I": "3",
	"M":  "04",
	"-M": "4",
	"S":  "05",
	"-S": "5",
	"p":  "PM",
	"%":  "%",
}

// lenientDirectives relaxes zero-padded day and month so parsing accepts
// "1/2/2020" for "%d/%m/%Y", as strptime does.
var lenientDirectives = map[string]string{
	"m": "1",
	"d": "2",
}

// GoLayout converts a strftime pattern into a Go time layout.
// Only the directives emitted by TranslateExcelDate are supported.
func GoLayout(pattern string) (string, error) {
	return goLayout(pattern, false)
}

// parseLayouts returns the layouts tried, in order, when parsing a date cell.
func parseLayouts(pattern string) ([]string, error) {
	exact, err := goLayout(pattern, false)
	if err != nil {
		return nil, err
	}
	lenient, err := goLayout(pattern, true)
	if err != nil || lenient == exact {
		return []string{exact}, nil
	}
	return []string{exact, lenient}, nil
}

func goLayout(pattern string, lenient bool) (string, error) {
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != '%' {
			b.WriteByte(pattern[i])
			continue
		}
		if i+1 >= len(pattern) {
			return "", fmt.Errorf("unsupported directive: trailing %% in %q", pattern)
		}
		key := pattern[i+1 : i+2]
		if key == "-" && i+2 < len(pattern) {
			key = pattern[i+1 : i+3]
		}
		elem, ok := goDirectives[key]
		if !ok {
			return "", fmt.Errorf("unsupported directive %%%s in %q", key, pattern)
		}
		if lenient {
			if relaxed, ok := lenientDirectives[key]; ok {
				elem = relaxed
			}
		}
		b.WriteString(elem)
		i += len(key)
	}
	return b.String(), nil
}
