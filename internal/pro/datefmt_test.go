package pro

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslateExcelDate(t *testing.T) {
	tests := []struct {
		name  string
		excel string
		want  string
	}{
		{name: "iso date", excel: "yyyy/mm/dd", want: "%Y/%m/%d"},
		{name: "minutes between hours and seconds", excel: "dd-mm-yyyy hh:mm:ss", want: "%d-%m-%Y %H:%M:%S"},
		{name: "am/pm forces 12 hour clock", excel: "dd/mm/yy h:m:s AM/PM", want: "%d/%m/%y %-I:%-M:%-S %p"},
		{name: "time before date", excel: "h:m:s dd/mm/yyyy", want: "%-H:%-M:%-S %d/%m/%Y"},
		{name: "reversed clock order", excel: "s:m:h dd/mm/yyyy", want: "%-S:%-M:%-H %d/%m/%Y"},
		{name: "upper case tokens", excel: "YYYY-MM-DD", want: "%Y-%m-%d"},
		{name: "month and weekday names", excel: "dddd, mmmm d, yyyy", want: "%A, %B %-d, %Y"},
		{name: "abbreviated names", excel: "ddd dd mmm yy", want: "%a %d %b %y"},
		{name: "hours and minutes", excel: "hh:mm", want: "%H:%M"},
		{name: "minutes and seconds", excel: "mm:ss", want: "%M:%S"},
		{name: "12 hour with meridiem", excel: "hh:mm AM/PM", want: "%I:%M %p"},
		{name: "meridiem first", excel: "am/pm h", want: "%p %-I"},
		{name: "compact date", excel: "yyyymmdd", want: "%Y%m%d"},
		{name: "unpadded month then minute", excel: "m/d/yyyy h:mm", want: "%-m/%-d/%Y %-H:%M"},
		{name: "distant seconds keep month", excel: "mm/dd ss", want: "%m/%d %S"},
		{name: "literal T separator", excel: "yyyy-mm-ddThh:mm:ss", want: "%Y-%m-%dT%H:%M:%S"},
		{name: "three digit year unsupported", excel: "yyy", want: "%yy"},
		{name: "no tokens", excel: "--", want: "--"},
		{name: "empty", excel: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TranslateExcelDate(tt.excel))
		})
	}
}

func TestTranslateExcelDate_Idempotent(t *testing.T) {
	patterns := []string{
		"yyyy/mm/dd",
		"dd-mm-yyyy hh:mm:ss",
		"dd/mm/yy h:m:s AM/PM",
		"dddd, mmmm d, yyyy",
		"m/d/yyyy h:mm",
		"yyy",
	}
	for _, p := range patterns {
		once := TranslateExcelDate(p)
		assert.Equal(t, once, TranslateExcelDate(once), "pattern %q", p)
	}
}

func TestTokenizeExcel(t *testing.T) {
	tokens := tokenizeExcel("hh:MM AM/PM")

	kinds := make([]tokenKind, len(tokens))
	texts := make([]string, len(tokens))
	for i, tok := range tokens {
		kinds[i] = tok.kind
		texts[i] = tok.text
	}

	assert.Equal(t, []tokenKind{tokHour2, tokLiteral, tokMonthOrMinute2, tokLiteral, tokMeridiem}, kinds)
	assert.Equal(t, []string{"hh", ":", "MM", " ", "AM/PM"}, texts)
}
