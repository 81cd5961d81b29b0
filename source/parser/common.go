package parser

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"cloud.google.com/go/civil"
	"golang.org/x/text/unicode/norm"
)

var monthNames = map[string]time.Month{}

func init() {
	// Английские (полные и сокращенные) и бенгальские названия григорианских месяцев.
	names := [12][]string{
		{"january", "jan", "জানুয়ারি", "জানুয়ারী"},
		{"february", "feb", "ফেব্রুয়ারি", "ফেব্রুয়ারী"},
		{"march", "mar", "মার্চ"},
		{"april", "apr", "এপ্রিল"},
		{"may", "মে"},
		{"june", "jun", "জুন"},
		{"july", "jul", "জুলাই"},
		{"august", "aug", "আগস্ট", "আগষ্ট"},
		{"september", "sep", "sept", "সেপ্টেম্বর"},
		{"october", "oct", "অক্টোবর"},
		{"november", "nov", "নভেম্বর"},
		{"december", "dec", "ডিসেম্বর"},
	}
	for i, nn := range names {
		for _, n := range nn {
			monthNames[norm.NFC.String(n)] = time.Month(i + 1)
		}
	}
}

func mapMonthName(name string) (time.Month, bool) {
	clean := norm.NFC.String(strings.ToLower(strings.Trim(strings.TrimSpace(name), ".,")))
	m, ok := monthNames[clean]
	return m, ok
}

// foldDigits заменяет бенгальские цифры на ASCII.
func foldDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '০' && r <= '৯' {
			return '0' + (r - '০')
		}
		return r
	}, s)
}

// parseDate понимает "2024-04-14", "14 April", "April 14", "১৪ এপ্রিল" и "14-15 April" (берется первый день).
func parseDate(raw string, y int) (civil.Date, bool) {
	s := norm.NFC.String(foldDigits(strings.TrimSpace(raw)))

	if d, err := civil.ParseDate(s); err == nil {
		return d, d.Year == y
	}

	var (
		day = -1
		mon time.Month
	)
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == '-' || r == '–'
	})
	for _, f := range fields {
		if n, err := strconv.Atoi(f); err == nil {
			if day < 0 && n >= 1 && n <= 31 {
				day = n
			}
			continue
		}
		if m, ok := mapMonthName(f); ok && mon == 0 {
			mon = m
		}
	}
	if day < 0 || mon == 0 {
		return civil.Date{}, false
	}

	d := civil.Date{Year: y, Month: mon, Day: day}
	return d, d.IsValid()
}
