package bangla

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateGrid(t *testing.T) {
	g := GenerateGrid(2024, time.April)

	assert.Len(t, g, GridSize)
	assert.Equal(t, date(2024, 3, 31), g.First())
	assert.Equal(t, date(2024, 5, 11), g.Last())

	y, m := g.RefMonth()
	assert.Equal(t, 2024, y)
	assert.Equal(t, time.April, m)

	assert.False(t, g.InMonth(0))
	assert.True(t, g.InMonth(1))
	assert.True(t, g.InMonth(30))
	assert.False(t, g.InMonth(31))
	assert.False(t, g.InMonth(-1))
	assert.False(t, g.InMonth(GridSize))
}

func TestGenerateGrid_properties(t *testing.T) {
	for y := 2020; y <= 2030; y++ {
		for m := time.January; m <= time.December; m++ {
			g := GenerateGrid(y, m)

			assert.Equal(t, time.Sunday, g.First().In(time.UTC).Weekday(), "%d-%02d", y, m)

			refY, refM := g.RefMonth()
			assert.Equal(t, y, refY)
			assert.Equal(t, m, refM)

			for i := 1; i < GridSize; i++ {
				assert.Equal(t, 1, g[i].DaysSince(g[i-1]), "%d-%02d cell %d", y, m, i)
			}

			// Месяц помещается в сетку целиком.
			inMonth := 0
			for i := range g {
				if g.InMonth(i) {
					inMonth++
				}
			}
			daysInMonth := time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
			assert.Equal(t, daysInMonth, inMonth, "%d-%02d", y, m)
		}
	}
}

func TestGenerateGrid_monthStartsOnSunday(t *testing.T) {
	// 1 сентября 2024 - воскресенье, ведущих дней нет.
	g := GenerateGrid(2024, time.September)
	assert.Equal(t, date(2024, 9, 1), g.First())
	assert.True(t, g.InMonth(0))
}
