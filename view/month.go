// Package view готовит данные для экрана месяца: сетку 6x7 с бенгальскими датами, заголовок и
// навигацию между месяцами. Отрисовка остается на стороне клиента.
package view

import (
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/nvkalinin/bangla-calendar/bangla"
	"github.com/nvkalinin/bangla-calendar/locale"
)

type Cell struct {
	Date       civil.Date  `json:"date"`
	Bangla     bangla.Date `json:"bangla"`
	DayLabel   string      `json:"dayLabel"`             // Бенгальский день цифрами языка.
	MonthLabel string      `json:"monthLabel,omitempty"` // Название бенгальского месяца, если он начался в этой ячейке.
	InMonth    bool        `json:"inMonth"`
	Today      bool        `json:"today"`
	Weekend    bool        `json:"weekend"`
}

type MonthView struct {
	Year     int                  `json:"year"`
	Month    time.Month           `json:"month"`
	Header   string               `json:"header"`
	Weekdays [7]string            `json:"weekdays"`
	Cells    [bangla.GridSize]Cell `json:"cells"`
}

// Builder владеет кешем конвертаций: при переходе на другой месяц кеш дат сбрасывается.
type Builder struct {
	Cache   *bangla.Cache
	Now     func() time.Time
	Weekend []time.Weekday

	mu       sync.Mutex
	lastYear int
	lastMon  time.Month
}

func NewBuilder(cache *bangla.Cache) *Builder {
	return &Builder{
		Cache:   cache,
		Now:     time.Now,
		Weekend: []time.Weekday{time.Friday, time.Saturday},
	}
}

func (b *Builder) Build(y int, m time.Month, loc *locale.Localizer) MonthView {
	b.mu.Lock()
	defer b.mu.Unlock()

	if y != b.lastYear || m != b.lastMon {
		b.Cache.ClearDates()
		b.lastYear, b.lastMon = y, m
	}

	grid := b.Cache.Grid(y, m)
	today := bangla.DateOf(b.Now())

	v := MonthView{
		Year:     y,
		Month:    m,
		Header:   b.header(y, m, loc),
		Weekdays: loc.Weekdays(),
	}

	for i, d := range grid {
		bd := b.Cache.BanglaDate(d)

		showMonth := i == 0 || v.Cells[i-1].Bangla.Month != bd.Month
		monthLabel := ""
		if showMonth {
			monthLabel = loc.MonthName(bd.Month)
		}

		v.Cells[i] = Cell{
			Date:       d,
			Bangla:     bd,
			DayLabel:   loc.Number(bd.Day),
			MonthLabel: monthLabel,
			InMonth:    grid.InMonth(i),
			Today:      d == today,
			Weekend:    b.isWeekend(d.In(time.UTC).Weekday()),
		}
	}

	return v
}

// Header - заголовок месяца по бенгальским датам первого и последнего дня григорианского месяца.
func (b *Builder) Header(y int, m time.Month, loc *locale.Localizer) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.header(y, m, loc)
}

func (b *Builder) header(y int, m time.Month, loc *locale.Localizer) string {
	first := civil.Date{Year: y, Month: m, Day: 1}
	// Месяц 13 нормализуется в январь следующего года.
	last := civil.Date{Year: y, Month: m + 1, Day: 1}.AddDays(-1)

	fb := b.Cache.BanglaDate(first)
	lb := b.Cache.BanglaDate(last)
	return loc.MonthHeader(fb.Month, lb.Month, fb.Year)
}

func (b *Builder) isWeekend(wd time.Weekday) bool {
	for _, w := range b.Weekend {
		if w == wd {
			return true
		}
	}
	return false
}
