// Package feed выгружает бенгальский календарь в формате iCalendar (RFC 5545), чтобы его можно было
// подписать в любом календарном приложении.
package feed

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/civil"
	"github.com/emersion/go-ical"
	"github.com/nvkalinin/bangla-calendar/bangla"
	"github.com/nvkalinin/bangla-calendar/store"
)

const (
	prodID    = "-//nvkalinin//bangla-calendar//BN"
	uidDomain = "bangla-calendar"
)

type Generator struct {
	Now func() time.Time
}

func NewGenerator() *Generator {
	return &Generator{Now: time.Now}
}

// Year - события на григорианский год y: начало каждого бенгальского месяца, который начинается в этом году,
// и праздники из holidays.
func (g *Generator) Year(y int, holidays store.Months) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, prodID)
	cal.Props.SetText(ical.PropCalendarScale, "GREGORIAN")
	cal.Props.SetText("X-WR-CALNAME", fmt.Sprintf("বাংলা ক্যালেন্ডার %s", bangla.Numerals(y)))

	stamp := ical.NewProp(ical.PropDateTimeStamp)
	stamp.SetDateTime(g.Now().UTC())

	for _, d := range monthStarts(y) {
		bd := bangla.ToBangla(d)
		ev := newEvent(fmt.Sprintf("month-%d-%d", bd.Year, int(bd.Month)), d, bangla.FormatDate(bd))
		ev.Props.SetText(ical.PropDescription, fmt.Sprintf("%s %d", bd.Month.Latin(), bd.Year))
		ev.Props.Set(stamp)
		cal.Children = append(cal.Children, ev.Component)
	}

	for _, d := range sortedDays(y, holidays) {
		day := holidays[d.Month][d.Day]

		summary := day.Desc
		if summary == "" {
			summary = bangla.FormatDate(bangla.ToBangla(d))
		}

		ev := newEvent(fmt.Sprintf("holiday-%s", d), d, summary)
		ev.Props.SetText(ical.PropCategories, string(store.Holiday))
		ev.Props.Set(stamp)
		cal.Children = append(cal.Children, ev.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("feed cannot encode calendar %d: %w", y, err)
	}
	return buf.Bytes(), nil
}

func newEvent(uid string, d civil.Date, summary string) *ical.Event {
	ev := ical.NewEvent()
	ev.Props.SetText(ical.PropUID, uid+"@"+uidDomain)
	ev.Props.SetText(ical.PropSummary, summary)

	start := ical.NewProp(ical.PropDateTimeStart)
	start.SetDate(d.In(time.UTC))
	ev.Props.Set(start)

	end := ical.NewProp(ical.PropDateTimeEnd)
	end.SetDate(d.AddDays(1).In(time.UTC))
	ev.Props.Set(end)

	return ev
}

// monthStarts - первые дни бенгальских месяцев, попадающие в григорианский год y.
func monthStarts(y int) []civil.Date {
	starts := make([]civil.Date, 0, 12)
	// Бенгальский год y-594 начинается в апреле y-1, его Magh..Chaitra - в январе..марте y.
	for _, by := range []int{y - 594, y - 593} {
		for m := bangla.Baishakh; m <= bangla.Chaitra; m++ {
			d, err := bangla.ToGregorian(bangla.Date{Day: 1, Month: m, Year: by})
			if err != nil {
				continue
			}
			if d.Year == y {
				starts = append(starts, d)
			}
		}
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })
	return starts
}

func sortedDays(y int, months store.Months) []civil.Date {
	var days []civil.Date
	for mon, dd := range months {
		for day := range dd {
			days = append(days, civil.Date{Year: y, Month: mon, Day: day})
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}
