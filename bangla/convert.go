// Package bangla переводит даты между григорианским и бенгальским (Bangla) солнечным календарем
// и строит сетку дат для отображения месяца.
//
// Календарь приближенный: границы месяцев берутся из фиксированной таблицы, високосные годы
// и положение солнца не учитываются.
package bangla

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

const (
	yearOffset = 593

	// Новый год (1 Baishakh) наступает 14 апреля.
	newYearMonth = time.April
	newYearDay   = 14

	// Смещение дня для дат до порога месяца. Длина предыдущего григорианского месяца не учитывается,
	// поэтому около некоторых границ день может отличаться на 1-3 от точного значения.
	carryOverDays = 15
)

type Date struct {
	Day   int   `json:"day"`
	Month Month `json:"month"`
	Year  int   `json:"year"`
}

func (d Date) String() string {
	return fmt.Sprintf("%d %s %d", d.Day, d.Month, d.Year)
}

// DateOf отбрасывает время суток, оставляя календарную дату в часовом поясе t.
func DateOf(t time.Time) civil.Date {
	return civil.DateOf(t)
}

func ToBangla(d civil.Date) Date {
	gy, gm, gd := d.Year, d.Month, d.Day

	year := gy - yearOffset
	if gm < newYearMonth || (gm == newYearMonth && gd < newYearDay) {
		year--
	}

	month := byGregorianMonth[gm]
	threshold := boundaries[month].thresholdDay

	var day int
	if gd >= threshold {
		day = gd - threshold + 1
	} else {
		month = month.prev()
		day = gd + carryOverDays
	}

	return Date{Day: day, Month: month, Year: year}
}

// ToGregorian возвращает первый григорианский день месяца d.Month года d.Year. d.Day игнорируется.
func ToGregorian(d Date) (civil.Date, error) {
	if !d.Month.Valid() {
		return civil.Date{}, fmt.Errorf("%w: %d", ErrUnknownMonth, int(d.Month))
	}

	// Magh, Falgun и Chaitra начинаются уже в следующем григорианском году.
	gy := d.Year + yearOffset
	if d.Month >= Magh {
		gy++
	}

	b := boundaries[d.Month]
	return civil.Date{Year: gy, Month: b.gregorianMonth, Day: b.thresholdDay}, nil
}
