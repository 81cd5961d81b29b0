package source

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/nvkalinin/bangla-calendar/bangla"
	"github.com/nvkalinin/bangla-calendar/store"
)

type Converter interface {
	BanglaDate(d civil.Date) bangla.Date
}

// Generic строит календарь на григорианский год: день недели, выходные (Weekend) и бенгальскую дату.
type Generic struct {
	Weekend []time.Weekday
	Conv    Converter
}

// NewGeneric использует выходные Бангладеш: пятница и суббота.
func NewGeneric(conv Converter) *Generic {
	return &Generic{
		Weekend: []time.Weekday{time.Friday, time.Saturday},
		Conv:    conv,
	}
}

func (g *Generic) GetYear(y int) (store.Months, error) {
	cal := make(store.Months, 12)

	d := civil.Date{Year: y, Month: time.January, Day: 1}
	for d.Year == y {
		if cal[d.Month] == nil {
			cal[d.Month] = make(store.Days, 31)
		}

		wd := d.In(time.UTC).Weekday()
		weekDay, _ := store.NewWeekDay(wd)

		dayType := store.Normal
		if g.isWeekend(wd) {
			dayType = store.Weekend
		}

		bd := g.banglaDate(d)
		cal[d.Month][d.Day] = store.Day{
			WeekDay: weekDay,
			Type:    dayType,
			Bangla:  &bd,
		}

		d = d.AddDays(1)
	}

	return cal, nil
}

func (g *Generic) banglaDate(d civil.Date) bangla.Date {
	if g.Conv == nil {
		return bangla.ToBangla(d)
	}
	return g.Conv.BanglaDate(d)
}

func (g *Generic) isWeekend(w time.Weekday) bool {
	for _, weekday := range g.Weekend {
		if w == weekday {
			return true
		}
	}
	return false
}
