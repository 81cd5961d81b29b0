package feed

import (
	"bytes"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/emersion/go-ical"
	"github.com/nvkalinin/bangla-calendar/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_Year(t *testing.T) {
	g := &Generator{Now: func() time.Time {
		return time.Date(2024, time.April, 1, 10, 0, 0, 0, time.UTC)
	}}

	holidays := store.Months{
		time.December: {16: {Type: store.Holiday, Desc: "বিজয় দিবস"}},
		time.February: {21: {Type: store.Holiday}},
	}

	data, err := g.Year(2024, holidays)
	require.NoError(t, err)

	cal, err := ical.NewDecoder(bytes.NewReader(data)).Decode()
	require.NoError(t, err)

	events := cal.Events()
	require.Len(t, events, 14)

	summaries := make([]string, 0, len(events))
	for _, ev := range events {
		s, err := ev.Props.Text(ical.PropSummary)
		require.NoError(t, err)
		summaries = append(summaries, s)
	}

	assert.Equal(t, "১ মাঘ ১৪৩০", summaries[0])
	assert.Equal(t, "১ বৈশাখ ১৪৩১", summaries[3])
	assert.Equal(t, "১ পৌষ ১৪৩১", summaries[11])
	// Праздник без описания подписывается бенгальской датой.
	assert.Equal(t, "৯ ফাল্গুন ১৪৩০", summaries[12])
	assert.Equal(t, "বিজয় দিবস", summaries[13])

	start, err := events[3].DateTimeStart(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.April, 14, 0, 0, 0, 0, time.UTC), start)
}

func TestMonthStarts(t *testing.T) {
	starts := monthStarts(2024)
	require.Len(t, starts, 12)
	assert.Equal(t, civil.Date{Year: 2024, Month: time.January, Day: 14}, starts[0])
	assert.Equal(t, civil.Date{Year: 2024, Month: time.March, Day: 15}, starts[2])
	assert.Equal(t, civil.Date{Year: 2024, Month: time.December, Day: 15}, starts[11])

	for i := 1; i < len(starts); i++ {
		assert.True(t, starts[i-1].Before(starts[i]))
	}

	// Крайние годы: бенгальский год может быть отрицательным, месяцев всё равно 12.
	for _, y := range []int{1, 9999} {
		starts := monthStarts(y)
		assert.Len(t, starts, 12, "year %d", y)
		for _, d := range starts {
			assert.Equal(t, y, d.Year)
		}
	}
}
