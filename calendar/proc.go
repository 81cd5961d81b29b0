package calendar

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/nvkalinin/bangla-calendar/log"
	"github.com/nvkalinin/bangla-calendar/store"
)

type Source interface {
	// GetYear может вернуть не все месяцы и не все дни года.
	GetYear(y int) (store.Months, error)
}

type Store interface {
	PutYear(y int, data store.Months) error
}

type ProcOpts struct {
	Src      []Source  // Упорядоченный список источников, первый обычно source.Generic.
	Store    Store     // Куда сохранять итоговый календарь (необязательно, если нужен только MakeCalendar).
	UpdateAt time.Time // Используется только время, остальное игнорируется.
}

// Processor собирает годовой календарь с бенгальскими датами и праздниками из источников
// и раз в сутки обновляет хранилище.
type Processor struct {
	ProcOpts
	stopCh  chan struct{}
	doneCh  chan struct{}
	started atomic.Bool
}

func NewProcessor(opts ProcOpts) *Processor {
	return &Processor{
		ProcOpts: opts,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// RunUpdates раз в сутки (UpdateAt) обновляет календари за текущий и следующий год. Блокирует до Shutdown.
func (p *Processor) RunUpdates() {
	p.started.Store(true)
	defer close(p.doneCh)

	t := time.NewTimer(p.untilNextRun(time.Now()))
	defer t.Stop()

	for {
		select {
		case <-t.C:
			p.UpdateCurrentYears()
			t.Reset(p.untilNextRun(time.Now()))

		case <-p.stopCh:
			return
		}
	}
}

func (p *Processor) Shutdown(ctx context.Context) error {
	close(p.stopCh)
	if !p.started.Load() {
		return nil
	}

	select {
	case <-p.doneCh:
		return nil
	case <-ctx.Done():
		log.Printf("[WARN] calendar/proc shutdown timeout")
		return ctx.Err()
	}
}

func (p *Processor) untilNextRun(now time.Time) time.Duration {
	nextRun := time.Date(
		now.Year(), now.Month(), now.Day(),
		p.UpdateAt.Hour(), p.UpdateAt.Minute(), p.UpdateAt.Second(), p.UpdateAt.Nanosecond(),
		now.Location(),
	)

	d := nextRun.Sub(now)
	if d < 0 {
		d += 24 * time.Hour
	}
	return d
}

func (p *Processor) UpdateCurrentYears() {
	y := time.Now().Year()

	for _, year := range []int{y, y + 1} {
		if err := p.UpdateCalendar(year); err != nil {
			log.Printf("[WARN] calendar/proc cannot update %d: %+v", year, err)
		}
	}
}

func (p *Processor) UpdateCalendar(y int) error {
	cal := p.MakeCalendar(y)
	if len(cal) == 0 {
		log.Printf("[DEBUG] calendar/proc nothing to store for %d", y)
		return nil
	}

	if err := p.Store.PutYear(y, cal); err != nil {
		return fmt.Errorf("calendar/proc cannot store year %d: %w", y, err)
	}
	log.Printf("[INFO] calendar/proc year %d updated, %d months", y, len(cal))
	return nil
}

// MakeCalendar собирает календарь на один год из источников Src.
// Если два источника возвращают данные на одну дату, непустые поля последнего заменяют поля первого.
// Источник с ошибкой пропускается. Если данных нет, возвращается пустой store.Months (len=0).
func (p *Processor) MakeCalendar(y int) store.Months {
	cal := make(store.Months, 12)

	for i, src := range p.Src {
		months, err := src.GetYear(y)
		if err != nil {
			log.Printf("[WARN] calendar/proc skipping source %d (%T), error: %+v", i, src, err)
			continue
		}

		cal = merge(cal, months)
	}

	return cal
}

func merge(m1 store.Months, m2 store.Months) store.Months {
	res := m1.Copy()
	for mon, days := range m2 {
		if _, ok := res[mon]; !ok {
			res[mon] = make(store.Days, len(days))
		}

		for dayNum, day := range days {
			merged := res[mon][dayNum]

			if day.WeekDay != "" {
				merged.WeekDay = day.WeekDay
			}
			if day.Type != "" {
				merged.Type = day.Type
			}
			if day.Bangla != nil {
				bd := *day.Bangla
				merged.Bangla = &bd
			}
			if day.Desc != "" {
				merged.Desc = day.Desc
			}

			res[mon][dayNum] = merged
		}
	}
	return res
}
