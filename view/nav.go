package view

import (
	"fmt"
	"time"

	"github.com/nvkalinin/bangla-calendar/bangla"
)

// MonthOffset - на сколько месяцев нужно перелистнуть, чтобы попасть из (fromY, fromM) в (toY, toM).
func MonthOffset(fromY int, fromM time.Month, toY int, toM time.Month) int {
	return (toY-fromY)*12 + int(toM-fromM)
}

// Shift сдвигает месяц на n (может быть отрицательным).
func Shift(y int, m time.Month, n int) (int, time.Month) {
	idx := y*12 + int(m-time.January) + n
	y = idx / 12
	mon := idx % 12
	if mon < 0 {
		mon += 12
		y--
	}
	return y, time.Month(mon) + time.January
}

// JumpTo - григорианский месяц, который нужно показать, когда пользователь выбрал бенгальский месяц и год.
func JumpTo(banglaYear int, m bangla.Month) (int, time.Month, error) {
	d, err := bangla.ToGregorian(bangla.Date{Day: 1, Month: m, Year: banglaYear})
	if err != nil {
		return 0, 0, fmt.Errorf("cannot jump to %d/%d: %w", banglaYear, int(m), err)
	}
	return d.Year, d.Month, nil
}

// YearRange - годы для выбора в диалоге, radius лет в обе стороны от center.
func YearRange(center, radius int) []int {
	years := make([]int, 0, 2*radius+1)
	for y := center - radius; y <= center+radius; y++ {
		years = append(years, y)
	}
	return years
}
