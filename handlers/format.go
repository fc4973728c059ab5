package handlers

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var errEmptyNumber = errors.New("empty number")

var nonNumeric = regexp.MustCompile(`[^0-9.]`)

// ParseNumber accepts locale-formatted numeric input: "1.234,56" (Indonesian
// style), "1,234.56", "1234.56", "1 234". Whichever separator comes last is
// treated as the decimal point when both appear.
func ParseNumber(input string) (float64, error) {
	s := strings.ReplaceAll(input, " ", "")

	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")
	switch {
	case hasComma && hasDot:
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case hasComma:
		s = strings.ReplaceAll(s, ",", ".")
	}

	s = nonNumeric.ReplaceAllString(s, "")
	if s == "" {
		return 0, errEmptyNumber
	}
	return strconv.ParseFloat(s, 64)
}

// FormatCurrency renders an IDR amount as "Rp 19,400" (rounded to whole
// Rupiah).
func FormatCurrency(amount float64) string {
	s := strconv.FormatFloat(math.Round(amount), 'f', 0, 64)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder
	n := len(s)
	for i := 0; i < n; i++ {
		if i > 0 && (n-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(s[i])
	}

	if neg {
		return "Rp -" + b.String()
	}
	return "Rp " + b.String()
}

// Times are rendered in WIB (UTC+7) for the Indonesian audience.
var wib = time.FixedZone("WIB", 7*60*60)

// FormatTimestamp renders a time as "14.05.09 WIB".
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "Tidak tersedia"
	}
	return t.In(wib).Format("15.04.05") + " WIB"
}

// FormatDateTime renders the long form used on the welcome screen.
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return "Tidak diketahui"
	}
	return t.In(wib).Format("02 January 2006, 15:04") + " WIB"
}
