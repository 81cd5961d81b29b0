package bangla

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

var ErrUnknownMonth = errors.New("unknown bangla month")

// Month - индекс месяца бенгальского календаря, 0 (Baishakh) .. 11 (Chaitra).
type Month int

const (
	Baishakh Month = iota
	Jyaistha
	Asharh
	Shraban
	Bhadra
	Ashwin
	Kartik
	Agrahayan
	Poush
	Magh
	Falgun
	Chaitra
)

var monthNames = [12]string{
	"বৈশাখ", "জ্যৈষ্ঠ", "আষাঢ়", "শ্রাবণ", "ভাদ্র", "আশ্বিন",
	"কার্তিক", "অগ্রহায়ণ", "পৌষ", "মাঘ", "ফাল্গুন", "চৈত্র",
}

var latinNames = [12]string{
	"Baishakh", "Jyaistha", "Asharh", "Shraban", "Bhadra", "Ashwin",
	"Kartik", "Agrahayan", "Poush", "Magh", "Falgun", "Chaitra",
}

type boundary struct {
	gregorianMonth time.Month
	thresholdDay   int
}

// Григорианская дата, с которой начинается каждый бенгальский месяц. Индекс - Month.
var boundaries = [12]boundary{
	{time.April, 14},
	{time.May, 15},
	{time.June, 15},
	{time.July, 16},
	{time.August, 16},
	{time.September, 16},
	{time.October, 16},
	{time.November, 15},
	{time.December, 15},
	{time.January, 14},
	{time.February, 13},
	{time.March, 15},
}

// byGregorianMonth[gm] - бенгальский месяц, который начинается в григорианском месяце gm.
var byGregorianMonth = func() [13]Month {
	var idx [13]Month
	for m, b := range boundaries {
		idx[b.gregorianMonth] = Month(m)
	}
	return idx
}()

var normalizedNames = func() map[string]Month {
	names := make(map[string]Month, 24)
	for m := range monthNames {
		names[norm.NFC.String(monthNames[m])] = Month(m)
		names[strings.ToLower(latinNames[m])] = Month(m)
	}
	return names
}()

// MonthNames возвращает копию списка названий месяцев в каноническом порядке.
func MonthNames() [12]string {
	return monthNames
}

func (m Month) Valid() bool {
	return m >= Baishakh && m <= Chaitra
}

func (m Month) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Month(%d)", int(m))
	}
	return monthNames[m]
}

func (m Month) Latin() string {
	if !m.Valid() {
		return fmt.Sprintf("Month(%d)", int(m))
	}
	return latinNames[m]
}

func (m Month) prev() Month {
	return (m + 11) % 12
}

// MonthByName понимает бенгальские названия (в любой нормальной форме Unicode)
// и латинскую транслитерацию без учета регистра.
func MonthByName(name string) (Month, error) {
	clean := strings.TrimSpace(name)
	if m, ok := normalizedNames[norm.NFC.String(clean)]; ok {
		return m, nil
	}
	if m, ok := normalizedNames[strings.ToLower(clean)]; ok {
		return m, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMonth, name)
}

// ParseMonth принимает номер месяца 1..12 (1 - Baishakh) или название для MonthByName.
func ParseMonth(s string) (Month, error) {
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		m := Month(n - 1)
		if !m.Valid() {
			return 0, fmt.Errorf("%w: %d", ErrUnknownMonth, n)
		}
		return m, nil
	}
	return MonthByName(s)
}

func (m Month) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMonth, int(m))
	}
	return []byte(monthNames[m]), nil
}

func (m *Month) UnmarshalText(text []byte) error {
	parsed, err := MonthByName(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
