package store

import (
	"time"

	"github.com/nvkalinin/bangla-calendar/bangla"
)

type DayType string

const (
	Normal  DayType = "normal"  // Обычный день.
	Weekend DayType = "weekend" // Выходной (в Бангладеш - пятница и суббота).
	Holiday DayType = "holiday" // Праздник.
)

type WeekDay string

const (
	Monday    WeekDay = "mon"
	Tuesday   WeekDay = "tue"
	Wednesday WeekDay = "wed"
	Thursday  WeekDay = "thu"
	Friday    WeekDay = "fri"
	Saturday  WeekDay = "sat"
	Sunday    WeekDay = "sun"
)

func NewWeekDay(wd time.Weekday) (WeekDay, bool) {
	// @formatter:off
	switch wd {
	case time.Monday:    return Monday,    true
	case time.Tuesday:   return Tuesday,   true
	case time.Wednesday: return Wednesday, true
	case time.Thursday:  return Thursday,  true
	case time.Friday:    return Friday,    true
	case time.Saturday:  return Saturday,  true
	case time.Sunday:    return Sunday,    true
	default:             return "",        false
	}
	// @formatter:on
}

// Day - один день григорианского календаря с бенгальской датой.
type Day struct {
	WeekDay WeekDay      `json:"weekDay,omitempty" yaml:"weekDay,omitempty"`
	Type    DayType      `json:"type,omitempty" yaml:"type,omitempty"`
	Bangla  *bangla.Date `json:"bangla,omitempty" yaml:"-"`
	Desc    string       `json:"desc,omitempty" yaml:"desc,omitempty"`
}

type Days map[int]Day

type Months map[time.Month]Days

func (d Day) Copy() Day {
	if d.Bangla != nil {
		bd := *d.Bangla
		d.Bangla = &bd
	}
	return d
}

func (m Days) Copy() Days {
	mCopy := make(Days, len(m))
	for dayNum, day := range m {
		mCopy[dayNum] = day.Copy()
	}
	return mCopy
}

func (y Months) Copy() Months {
	yCopy := make(Months, len(y))
	for monNum, month := range y {
		yCopy[monNum] = month.Copy()
	}
	return yCopy
}

// Holidays возвращает только праздничные дни.
func (y Months) Holidays() Months {
	res := make(Months)
	for mon, days := range y {
		for dayNum, day := range days {
			if day.Type != Holiday {
				continue
			}
			if res[mon] == nil {
				res[mon] = make(Days)
			}
			res[mon][dayNum] = day.Copy()
		}
	}
	return res
}
