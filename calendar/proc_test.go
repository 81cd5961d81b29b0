package calendar

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/nvkalinin/bangla-calendar/bangla"
	"github.com/nvkalinin/bangla-calendar/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type SrcMock map[int]store.Months

func (s SrcMock) GetYear(y int) (store.Months, error) {
	months, ok := s[y]
	if !ok {
		return nil, fmt.Errorf("no such year: %d", y)
	}
	return months, nil
}

type StoreMock struct {
	mu    sync.Mutex
	years map[int]store.Months
}

func (s *StoreMock) PutYear(y int, m store.Months) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.years == nil {
		s.years = map[int]store.Months{}
	}
	s.years[y] = m
	return nil
}

func (s *StoreMock) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.years)
}

func TestProcessor_MakeCalendar(t *testing.T) {
	baishakh1 := &bangla.Date{Day: 1, Month: bangla.Baishakh, Year: 1431}
	chaitra28 := &bangla.Date{Day: 28, Month: bangla.Chaitra, Year: 1430}

	src1 := SrcMock{2024: {
		time.April: {
			13: {WeekDay: store.Saturday, Type: store.Weekend, Bangla: chaitra28},
			14: {WeekDay: store.Sunday, Type: store.Normal, Bangla: baishakh1},
		},
	}}
	src2 := SrcMock{2024: {
		time.April: {
			14: {Type: store.Holiday, Desc: "পহেলা বৈশাখ"}, // День недели и бенгальская дата остаются из src1.
		},
		time.December: {
			16: {Type: store.Holiday, Desc: "বিজয় দিবস"},
		},
	}}

	tmpStore := &StoreMock{}

	p, _ := makeProcessor(ProcOpts{
		Src:   []Source{src1, src2, SrcMock{}},
		Store: tmpStore,
	})
	err := p.UpdateCalendar(2024)
	require.NoError(t, err)

	exp := map[int]store.Months{2024: {
		time.April: {
			13: {WeekDay: store.Saturday, Type: store.Weekend, Bangla: chaitra28},
			14: {WeekDay: store.Sunday, Type: store.Holiday, Bangla: baishakh1, Desc: "পহেলা বৈশাখ"},
		},
		time.December: {
			16: {Type: store.Holiday, Desc: "বিজয় দিবস"},
		},
	}}
	assert.Equal(t, exp, tmpStore.years)
}

func TestProcessor_UpdateCalendar_noData(t *testing.T) {
	tmpStore := &StoreMock{}
	p, _ := makeProcessor(ProcOpts{
		Src:   []Source{SrcMock{}},
		Store: tmpStore,
	})

	require.NoError(t, p.UpdateCalendar(2024))
	assert.Equal(t, 0, tmpStore.Len())
}

func TestProcessor_RunUpdates(t *testing.T) {
	y := time.Now().Year()
	src := SrcMock{
		y:     {time.April: {14: {Type: store.Holiday}}},
		y + 1: {time.April: {14: {Type: store.Holiday}}},
	}
	tmpStore := &StoreMock{}

	p, stop := makeProcessor(ProcOpts{
		Src:      []Source{src},
		Store:    tmpStore,
		UpdateAt: time.Now().Add(500 * time.Millisecond),
	})
	defer stop()

	go p.RunUpdates()
	assert.Equal(t, 0, tmpStore.Len())

	assert.Eventually(t, func() bool {
		return tmpStore.Len() == 2
	}, 3*time.Second, 50*time.Millisecond)
}

func TestProcessor_untilNextRun(t *testing.T) {
	p := NewProcessor(ProcOpts{UpdateAt: time.Date(0, 1, 1, 5, 0, 0, 0, time.UTC)})

	now := time.Date(2024, time.April, 14, 4, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Hour, p.untilNextRun(now))

	now = time.Date(2024, time.April, 14, 6, 0, 0, 0, time.UTC)
	assert.Equal(t, 23*time.Hour, p.untilNextRun(now))
}

func TestProcessor_ShutdownNotStarted(t *testing.T) {
	p := NewProcessor(ProcOpts{})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, p.Shutdown(ctx))
}

func makeProcessor(opts ProcOpts) (p *Processor, stop func()) {
	p = NewProcessor(opts)
	return p, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = p.Shutdown(ctx)
	}
}
