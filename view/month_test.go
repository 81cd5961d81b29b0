package view

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/nvkalinin/bangla-calendar/bangla"
	"github.com/nvkalinin/bangla-calendar/locale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBuilder(now time.Time) *Builder {
	b := NewBuilder(bangla.MustNewCache(bangla.DefaultGridCapacity))
	b.Now = func() time.Time { return now }
	return b
}

func TestBuilder_Build(t *testing.T) {
	now := time.Date(2024, time.April, 14, 15, 30, 0, 0, time.Local)
	b := newTestBuilder(now)

	v := b.Build(2024, time.April, locale.New("bn"))

	assert.Equal(t, 2024, v.Year)
	assert.Equal(t, time.April, v.Month)
	assert.Equal(t, "চৈত্র - বৈশাখ ১৪৩০", v.Header)
	assert.Equal(t, "রবি", v.Weekdays[0])

	// 31 марта - первая ячейка, вне месяца, воскресенье.
	first := v.Cells[0]
	assert.Equal(t, civil.Date{Year: 2024, Month: time.March, Day: 31}, first.Date)
	assert.Equal(t, bangla.Date{Day: 17, Month: bangla.Chaitra, Year: 1430}, first.Bangla)
	assert.Equal(t, "১৭", first.DayLabel)
	assert.Equal(t, "চৈত্র", first.MonthLabel)
	assert.False(t, first.InMonth)
	assert.False(t, first.Weekend)

	// 14 апреля - сегодня и 1 বৈশাখ.
	newYear := v.Cells[14]
	assert.Equal(t, civil.Date{Year: 2024, Month: time.April, Day: 14}, newYear.Date)
	assert.True(t, newYear.Today)
	assert.True(t, newYear.InMonth)
	assert.Equal(t, "১", newYear.DayLabel)
	assert.Equal(t, "বৈশাখ", newYear.MonthLabel)

	// 12 апреля - пятница, выходной, месяц не подписан.
	friday := v.Cells[12]
	assert.True(t, friday.Weekend)
	assert.False(t, friday.Today)
	assert.Empty(t, friday.MonthLabel)

	today := 0
	labels := 0
	for _, c := range v.Cells {
		if c.Today {
			today++
		}
		if c.MonthLabel != "" {
			labels++
		}
	}
	assert.Equal(t, 1, today)
	// চৈত্র в первой ячейке, বৈশাখ с 14 апреля, জ্যৈষ্ঠ с 15 мая не попадает (сетка до 11 мая).
	assert.Equal(t, 2, labels)
}

func TestBuilder_Build_english(t *testing.T) {
	b := newTestBuilder(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.Local))

	v := b.Build(2024, time.January, locale.New("en"))
	assert.Equal(t, "Poush - Magh 1430", v.Header)
	assert.Equal(t, "Sun", v.Weekdays[0])

	jan1 := v.Cells[1]
	require.Equal(t, civil.Date{Year: 2024, Month: time.January, Day: 1}, jan1.Date)
	assert.Equal(t, "16", jan1.DayLabel)
	assert.True(t, jan1.Today)
}

func TestBuilder_cacheInvalidation(t *testing.T) {
	b := newTestBuilder(time.Now())
	loc := locale.New("bn")

	b.Build(2024, time.April, loc)
	dates := b.Cache.Stats().Dates
	assert.GreaterOrEqual(t, dates, bangla.GridSize)

	// Повторная отрисовка того же месяца использует кеш.
	b.Build(2024, time.April, loc)
	s := b.Cache.Stats()
	assert.Equal(t, dates, s.Dates)
	assert.Equal(t, uint64(1), s.GridHits)

	// Переход на другой месяц сбрасывает кеш дат.
	b.Build(2024, time.May, loc)
	assert.LessOrEqual(t, b.Cache.Stats().Dates, bangla.GridSize+2)
}

func TestBuilder_Header(t *testing.T) {
	b := newTestBuilder(time.Now())
	bn := locale.New("bn")

	assert.Equal(t, "পৌষ - মাঘ ১৪৩০", b.Header(2024, time.January, bn))
	assert.Equal(t, "অগ্রহায়ণ - পৌষ ১৪৩১", b.Header(2024, time.December, locale.New("bn")))
}
