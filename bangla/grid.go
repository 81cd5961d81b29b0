package bangla

import (
	"time"

	"cloud.google.com/go/civil"
)

// GridSize - 6 недель по 7 дней.
const GridSize = 42

// refCell всегда попадает в целевой месяц: перед первым числом не больше 6 дней.
const refCell = 15

// Grid - даты для отображения месяца, неделя начинается с воскресенья.
type Grid [GridSize]civil.Date

func GenerateGrid(year int, month time.Month) Grid {
	first := civil.Date{Year: year, Month: month, Day: 1}
	offset := int(first.In(time.UTC).Weekday())

	var g Grid
	start := first.AddDays(-offset)
	for i := range g {
		g[i] = start.AddDays(i)
	}
	return g
}

// RefMonth - месяц, который отображает сетка.
func (g Grid) RefMonth() (int, time.Month) {
	ref := g[refCell]
	return ref.Year, ref.Month
}

func (g Grid) InMonth(i int) bool {
	if i < 0 || i >= GridSize {
		return false
	}
	y, m := g.RefMonth()
	return g[i].Year == y && g[i].Month == m
}

func (g Grid) First() civil.Date {
	return g[0]
}

func (g Grid) Last() civil.Date {
	return g[GridSize-1]
}
