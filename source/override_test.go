package source

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nvkalinin/bangla-calendar/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverride_GetYear(t *testing.T) {
	ov := &Override{
		Path: "testdata/override.yml",
	}

	months, err := ov.GetYear(2024)
	expMonths := store.Months{
		time.February: store.Days{
			21: {Type: store.Holiday, Desc: "শহীদ দিবস"},
		},
		time.April: store.Days{
			14: {Type: store.Holiday, Desc: "পহেলা বৈশাখ"},
		},
		time.May: store.Days{
			10: {Type: store.Holiday, Desc: "Rabindra Jayanti"},
		},
		time.December: store.Days{
			16: {Type: store.Holiday, Desc: "বিজয় দিবস 53"},
		},
	}
	assert.NoError(t, err)
	assert.Equal(t, expMonths, months)

	// Без years остаются ежегодные даты.
	months, err = ov.GetYear(2023)
	assert.NoError(t, err)
	assert.Equal(t, "বিজয় দিবস", months[time.December][16].Desc)
	assert.Equal(t, store.Holiday, months[time.April][14].Type)
	assert.Len(t, months, 4)
}

func TestOverride_GetYear_missingFile(t *testing.T) {
	ov := &Override{Path: "testdata/nope.yml"}
	_, err := ov.GetYear(2024)
	assert.ErrorContains(t, err, "cannot read overrides yaml")
}

func TestOverride_GetYear_banglaDates(t *testing.T) {
	path := writeOverride(t, `
bangla:
  falgun:
    16: {type: holiday, desc: twice}
    29: {type: holiday, desc: last}
    30: {type: holiday, desc: none}
  chaitra:
    1: {type: holiday, desc: first}
`)
	ov := &Override{Path: path}

	for _, y := range []int{2023, 2024} {
		months, err := ov.GetYear(y)
		require.NoError(t, err)

		// 16 Falgun выпадает и на 28 февраля, и на 1 марта, берется первая дата.
		assert.Equal(t, store.Days{28: {Type: store.Holiday, Desc: "twice"}}, months[time.February], "year %d", y)
		assert.Equal(t, store.Days{
			14: {Type: store.Holiday, Desc: "last"},
			15: {Type: store.Holiday, Desc: "first"},
		}, months[time.March], "year %d", y)
		assert.Len(t, months, 2, "year %d", y)
	}
}

func TestOverride_GetYear_leapDay(t *testing.T) {
	path := writeOverride(t, `
yearly:
  2:
    29: {type: holiday, desc: leap}
`)
	ov := &Override{Path: path}

	months, err := ov.GetYear(2024)
	require.NoError(t, err)
	assert.Equal(t, "leap", months[time.February][29].Desc)

	months, err = ov.GetYear(2023)
	require.NoError(t, err)
	assert.Len(t, months, 0)
}

func TestOverride_GetYear_invalid(t *testing.T) {
	tbl := []struct {
		name string
		yml  string
		err  string
	}{
		{"yearly", "yearly: {2: {30: {type: holiday}}}", "invalid yearly date"},
		{"years", "years: {2024: {4: {31: {type: holiday}}}}", "invalid date"},
		{"bangla month", "bangla: {january: {1: {type: holiday}}}", "unknown bangla month"},
		{"bangla day", "bangla: {baishakh: {32: {type: holiday}}}", "invalid day 32 of Baishakh"},
		{"syntax", "yearly: [", "cannot parse overrides yaml"},
	}

	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			ov := &Override{Path: writeOverride(t, tt.yml)}
			_, err := ov.GetYear(2024)
			assert.ErrorContains(t, err, tt.err)
		})
	}
}

func writeOverride(t *testing.T, yml string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "override.yml")
	require.NoError(t, os.WriteFile(path, []byte(yml), 0600))
	return path
}
