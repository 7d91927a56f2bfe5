package builders

import (
	"strings"
	"time"
	"unicode"
)

// dateKeys reduces a profile date such as "09/2021" to the digits the
// segmented date inputs accept ("092021").
func dateKeys(date string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, date)
}

func todayKeys(now time.Time) string {
	return now.Format("01022006")
}
