package gematria

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 13, 0, 0, 0, time.UTC)
}

func TestComputeDateNumerology(t *testing.T) {
	got := ComputeDateNumerology(date(2025, time.September, 7))

	assert.Equal(t, 2041, got.Sum)
	assert.Equal(t, 7, got.Reduced) // 2+0+4+1
	assert.Equal(t, 250, got.DayOfYear)
	assert.Equal(t, 7, got.Weekday) // Sunday
	assert.False(t, got.Master)
}

func TestComputeDateNumerologyMaster(t *testing.T) {
	// 2025+11+9 = 2045, digits sum to 11: preserved, not reduced to 2.
	got := ComputeDateNumerology(date(2025, time.November, 9))

	assert.Equal(t, 11, got.Reduced)
	assert.True(t, got.Master)
}

func TestReduce(t *testing.T) {
	cases := []struct {
		in, out int
	}{
		{0, 0},
		{9, 9},
		{10, 1},
		{11, 11},
		{22, 22},
		{33, 33},
		{29, 11},   // 2+9=11, master, stop
		{2041, 7},  // 2+0+4+1
		{999, 9},   // 27 -> 9
		{1993, 22}, // 1+9+9+3=22, master
	}
	for _, c := range cases {
		assert.Equal(t, c.out, Reduce(c.in), "reduce(%d)", c.in)
	}
}

func TestISOWeekday(t *testing.T) {
	assert.Equal(t, 1, ComputeDateNumerology(date(2025, time.September, 1)).Weekday) // Monday
	assert.Equal(t, 7, ComputeDateNumerology(date(2025, time.September, 7)).Weekday) // Sunday
}

func TestBirthdayAlignmentExact(t *testing.T) {
	got := ComputeBirthdayAlignment(date(2025, time.March, 3), date(1998, time.March, 3))

	assert.True(t, got.Exact)
	assert.True(t, got.Week)
	assert.Equal(t, 0, got.DiffDays)
}

func TestBirthdayAlignmentWeekWindow(t *testing.T) {
	// Game three days after the anchored birthday: still birthday week.
	got := ComputeBirthdayAlignment(date(2025, time.March, 6), date(1998, time.March, 3))
	assert.False(t, got.Exact)
	assert.True(t, got.Week)
	assert.Equal(t, 3, got.DiffDays)

	// Signed the other way.
	got = ComputeBirthdayAlignment(date(2025, time.March, 1), date(1998, time.March, 4))
	assert.True(t, got.Week)
	assert.Equal(t, -3, got.DiffDays)

	// Four days out misses the window.
	got = ComputeBirthdayAlignment(date(2025, time.March, 7), date(1998, time.March, 3))
	assert.False(t, got.Week)
	assert.Equal(t, 4, got.DiffDays)
}
