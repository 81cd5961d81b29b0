package bangla

import (
	"strconv"
	"strings"
)

const banglaZero = '০' // U+09E6, цифры ০..৯ идут подряд.

// Numerals заменяет каждую ASCII-цифру на бенгальскую. Остальные символы (например, '-') не меняются.
func Numerals(n int) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return banglaZero + (r - '0')
		}
		return r
	}, strconv.Itoa(n))
}

// FormatDate - "১ বৈশাখ ১৪৩১".
func FormatDate(d Date) string {
	return Numerals(d.Day) + " " + d.Month.String() + " " + Numerals(d.Year)
}
