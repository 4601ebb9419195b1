package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateBefore(t *testing.T) {
	d := Date{Year: 2026, Month: 10, Day: 18}

	assert.True(t, Date{Year: 2025, Month: 12, Day: 31}.Before(d))
	assert.True(t, Date{Year: 2026, Month: 9, Day: 30}.Before(d))
	assert.True(t, Date{Year: 2026, Month: 10, Day: 17}.Before(d))
	assert.False(t, d.Before(d))
	assert.False(t, Date{Year: 2026, Month: 10, Day: 19}.Before(d))
}

func TestDateOfUsesLocation(t *testing.T) {
	// 23:30 UTC on the 18th is already the 19th in UTC+2.
	utc := time.Date(2026, 10, 18, 23, 30, 0, 0, time.UTC)
	local := utc.In(time.FixedZone("CEST", 2*60*60))

	assert.Equal(t, Date{Year: 2026, Month: 10, Day: 18}, DateOf(utc))
	assert.Equal(t, Date{Year: 2026, Month: 10, Day: 19}, DateOf(local))
}

func TestDateScan(t *testing.T) {
	want := Date{Year: 2099, Month: 1, Day: 1}

	sources := []any{
		time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC),
		"2099-01-01",
		[]byte("2099-01-01"),
		"2099-01-01 00:00:00+00:00",
	}
	for _, src := range sources {
		var d Date
		require.NoError(t, d.Scan(src), "Scan(%v)", src)
		assert.Equal(t, want, d)
	}

	var d Date
	assert.Error(t, d.Scan(int64(5)))
	assert.Error(t, d.Scan("not a date"))
}

func TestDateValueAndMarshal(t *testing.T) {
	d := Date{Year: 2099, Month: 3, Day: 7}

	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, "2099-03-07", v)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `"2099-03-07"`, string(data))
}
