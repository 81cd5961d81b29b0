package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonth(t *testing.T) {
	var out bytes.Buffer
	m := &Month{Lang: "bn", out: &out, now: func() time.Time {
		return time.Date(2024, time.April, 14, 9, 0, 0, 0, time.Local)
	}}

	require.NoError(t, m.Execute(nil))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	// Заголовок, пустая строка, дни недели и по две строки на каждую из 6 недель.
	require.Len(t, lines, 3+1+12)
	assert.Equal(t, "April 2024", lines[0])
	assert.Equal(t, "চৈত্র - বৈশাখ ১৪৩০", lines[1])
	assert.Contains(t, lines[3], "রবি")

	// Первая неделя начинается 31 марта (вне месяца), 14 апреля - сегодня.
	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[4]), ".31"))
	assert.Contains(t, lines[8], "*14")
	assert.Contains(t, lines[9], "বৈশাখ ১")
}

func TestMonth_args(t *testing.T) {
	var out bytes.Buffer
	m := &Month{Lang: "en", out: &out}
	m.Args.Year = 2024
	m.Args.Month = 1

	require.NoError(t, m.Execute(nil))
	assert.Contains(t, out.String(), "Poush - Magh 1430")
	assert.Contains(t, out.String(), "Sun")

	m.Args.Month = 13
	assert.ErrorContains(t, m.Execute(nil), "invalid month")
}
