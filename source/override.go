package source

import (
	"fmt"
	"os"
	"time"

	"cloud.google.com/go/civil"
	"github.com/nvkalinin/bangla-calendar/bangla"
	"github.com/nvkalinin/bangla-calendar/store"
	"gopkg.in/yaml.v3"
)

// Override - источник праздников и локальных правок из YAML-файла.
// Дату можно задать тремя способами, более конкретный перекрывает менее конкретный:
//
//	yearly:            # каждый год по григорианской дате
//	  2:
//	    21: {type: holiday, desc: শহীদ দিবস}
//	bangla:            # каждый год по бенгальской дате, месяц - номер (1-12) или название
//	  baishakh:
//	    1: {type: holiday, desc: পহেলা বৈশাখ}
//	years:             # только в указанном году
//	  2024:
//	    4:
//	      13: {type: normal, desc: কর্মদিবস}
type Override struct {
	Path string
}

type overrideFile struct {
	Yearly store.Months                 `yaml:"yearly"`
	Bangla map[string]map[int]store.Day `yaml:"bangla"`
	Years  map[int]store.Months         `yaml:"years"`
}

func (o *Override) GetYear(y int) (store.Months, error) {
	// Админ может менять файл, поэтому читаем его при каждом вызове.
	f, err := os.ReadFile(o.Path)
	if err != nil {
		return nil, fmt.Errorf("cannot read overrides yaml: %w", err)
	}

	var ov overrideFile
	if err := yaml.Unmarshal(f, &ov); err != nil {
		return nil, fmt.Errorf("cannot parse overrides yaml: %w", err)
	}

	res := make(store.Months)

	for mon, days := range ov.Yearly {
		for d, day := range days {
			date := civil.Date{Year: y, Month: mon, Day: d}
			if !date.IsValid() {
				// 29 февраля бывает не каждый год.
				if mon == time.February && d == 29 {
					continue
				}
				return nil, fmt.Errorf("overrides yaml: invalid yearly date %d-%d", mon, d)
			}
			put(res, date, day)
		}
	}

	for name, days := range ov.Bangla {
		m, err := bangla.ParseMonth(name)
		if err != nil {
			return nil, fmt.Errorf("overrides yaml: %w", err)
		}
		for d, day := range days {
			if d < 1 || d > 31 {
				return nil, fmt.Errorf("overrides yaml: invalid day %d of %s", d, m.Latin())
			}
			for _, date := range banglaDates(y, m, d) {
				put(res, date, day)
			}
		}
	}

	for mon, days := range ov.Years[y] {
		for d, day := range days {
			date := civil.Date{Year: y, Month: mon, Day: d}
			if !date.IsValid() {
				return nil, fmt.Errorf("overrides yaml: invalid date %s", date)
			}
			put(res, date, day)
		}
	}

	return res, nil
}

// banglaDates - григорианские даты года y, на которые приходится d-й день бенгальского месяца m.
// Бенгальский год пересекает границу григорианского, поэтому проверяются оба бенгальских года.
// Если ToBangla дает день d дважды (на стыке григорианских месяцев), берется первая дата.
// Если такого дня в месяце нет, дата пропускается.
func banglaDates(y int, m bangla.Month, d int) []civil.Date {
	var dates []civil.Date
	for _, by := range []int{y - 594, y - 593} {
		start, err := bangla.ToGregorian(bangla.Date{Day: 1, Month: m, Year: by})
		if err != nil {
			continue
		}

		want := bangla.Date{Day: d, Month: m, Year: by}
		// Месяц целиком лежит в двух соседних григорианских месяцах.
		for i := 0; i < 62; i++ {
			date := start.AddDays(i)
			if bangla.ToBangla(date) == want {
				if date.Year == y {
					dates = append(dates, date)
				}
				break
			}
		}
	}
	return dates
}

func put(res store.Months, date civil.Date, day store.Day) {
	if res[date.Month] == nil {
		res[date.Month] = make(store.Days)
	}
	res[date.Month][date.Day] = day
}
