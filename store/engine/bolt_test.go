package engine

import (
	"os"
	"testing"
	"time"

	"github.com/nvkalinin/bangla-calendar/bangla"
	"github.com/nvkalinin/bangla-calendar/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sample2024 = store.Months{
	time.April: store.Days{
		13: store.Day{WeekDay: store.Saturday, Type: store.Weekend, Bangla: &bangla.Date{Day: 28, Month: bangla.Chaitra, Year: 1430}},
		14: store.Day{WeekDay: store.Sunday, Type: store.Holiday, Bangla: &bangla.Date{Day: 1, Month: bangla.Baishakh, Year: 1431}, Desc: "পহেলা বৈশাখ"},
	},
	time.May: store.Days{
		15: store.Day{WeekDay: store.Wednesday, Type: store.Normal, Bangla: &bangla.Date{Day: 1, Month: bangla.Jyaistha, Year: 1431}},
	},
}

func TestBolt(t *testing.T) {
	b, _ := makeBolt(t)
	defer b.Close()

	err := b.PutYear(2024, sample2024)
	require.NoError(t, err)

	y, ok := b.FindYear(2024)
	assert.True(t, ok)
	assert.Equal(t, sample2024, y)

	m, ok := b.FindMonth(2024, time.May)
	assert.True(t, ok)
	assert.Equal(t, sample2024[time.May], m)

	d, ok := b.FindDay(2024, time.April, 14)
	assert.True(t, ok)
	assert.Equal(t, sample2024[time.April][14], *d)

	// Отсутствующие данные.
	_, ok = b.FindYear(2023)
	assert.False(t, ok)

	_, ok = b.FindMonth(2024, time.June)
	assert.False(t, ok)

	_, ok = b.FindDay(2024, time.April, 15)
	assert.False(t, ok)
}

func TestBolt_emptyBucket(t *testing.T) {
	b, _ := makeBolt(t)
	defer b.Close()

	_, ok := b.FindYear(2024)
	assert.False(t, ok)

	_, ok = b.FindMonth(2024, time.April)
	assert.False(t, ok)
}

func TestBolt_backup(t *testing.T) {
	b, dir := makeBolt(t)

	err := b.PutYear(2024, sample2024)
	require.NoError(t, err)

	f, err := os.Create(dir + "/backup.bolt")
	require.NoError(t, err)

	err = b.Backup(f)
	require.NoError(t, err)

	require.NoError(t, f.Close())
	require.NoError(t, b.Close())

	// Открыть бекап и проверить, что все данные на месте.
	b, err = NewBolt(dir + "/backup.bolt")
	require.NoError(t, err)
	defer b.Close()

	y, ok := b.FindYear(2024)
	assert.True(t, ok)
	assert.Equal(t, sample2024, y)
}

func makeBolt(t *testing.T) (b *Bolt, dir string) {
	dir = t.TempDir()
	b, err := NewBolt(dir + "/db.bolt")
	require.NoError(t, err)
	return b, dir
}
