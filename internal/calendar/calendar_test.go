package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateKeyUsesPinnedZone(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	ts := time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024-03-10", New(time.UTC).DateKey(ts))
	assert.Equal(t, "2024-03-11", New(tokyo).DateKey(ts))
}

func TestLoad(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, time.Local, c.Location())

	c, err = Load("Europe/London")
	require.NoError(t, err)
	assert.Equal(t, "Europe/London", c.Location().String())

	_, err = Load("Nowhere/Special")
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	_, err := Parse("2024-01-05")
	assert.NoError(t, err)

	for _, bad := range []string{"2024-1-5", "2024/01/05", "", "2024-13-01", "20240105"} {
		_, err := Parse(bad)
		assert.Error(t, err, bad)
		assert.False(t, Valid(bad), bad)
	}
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse("not-a-day") })
}

func TestAddDays(t *testing.T) {
	assert.Equal(t, "2024-02-29", AddDays("2024-03-01", -1))
	assert.Equal(t, "2025-01-01", AddDays("2024-12-31", 1))
	assert.Equal(t, "2023-12-03", AddDays("2024-03-02", -90))
	assert.Equal(t, "2024-03-01", Previous("2024-03-02"))
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 4, DaysBetween("2024-01-01", "2024-01-05"))
	assert.Equal(t, 0, DaysBetween("2024-01-01", "2024-01-01"))
	assert.Equal(t, -1, DaysBetween("2024-01-02", "2024-01-01"))
}

func TestStart(t *testing.T) {
	c := New(time.UTC)
	assert.Equal(t, time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), c.Start("2024-05-06"))
}
