package gematria

import (
	"math"
	"time"
)

// DateNumerology is derived once per game date.
type DateNumerology struct {
	Sum       int  `json:"sum"`     // year + month + day
	Reduced   int  `json:"reduced"` // digit-reduced, master numbers kept
	DayOfYear int  `json:"day_of_year"`
	Weekday   int  `json:"weekday"` // ISO: Monday=1 .. Sunday=7
	Master    bool `json:"master"`
}

// ComputeDateNumerology derives the numerology features for a date.
func ComputeDateNumerology(date time.Time) DateNumerology {
	sum := date.Year() + int(date.Month()) + date.Day()
	reduced := Reduce(sum)

	weekday := int(date.Weekday())
	if weekday == 0 {
		weekday = 7
	}

	return DateNumerology{
		Sum:       sum,
		Reduced:   reduced,
		DayOfYear: date.YearDay(),
		Weekday:   weekday,
		Master:    isMaster(reduced),
	}
}

// Reduce repeats digit-summing until the value is a single digit or a
// master number (11, 22, 33), which stay unreduced.
func Reduce(n int) int {
	if n < 0 {
		n = -n
	}
	for n >= 10 && !isMaster(n) {
		n = digitSum(n)
	}
	return n
}

func digitSum(n int) int {
	s := 0
	for n > 0 {
		s += n % 10
		n /= 10
	}
	return s
}

func isMaster(n int) bool {
	return n == 11 || n == 22 || n == 33
}

// BirthdayAlignment relates a birthday to a game date.
type BirthdayAlignment struct {
	Exact    bool `json:"bday_exact"`
	Week     bool `json:"bday_week"`
	DiffDays int  `json:"bday_diff_days"`
}

// ComputeBirthdayAlignment re-anchors the birthday to the game date's
// year and reports the signed day difference. Exact means month and day
// match; "birthday week" is within three days either side.
func ComputeBirthdayAlignment(gameDate, birthday time.Time) BirthdayAlignment {
	anchored := time.Date(gameDate.Year(), birthday.Month(), birthday.Day(),
		0, 0, 0, 0, gameDate.Location())
	game := time.Date(gameDate.Year(), gameDate.Month(), gameDate.Day(),
		0, 0, 0, 0, gameDate.Location())

	// Round instead of truncate so a DST-shortened day still counts whole.
	diff := int(math.Round(game.Sub(anchored).Hours() / 24))

	return BirthdayAlignment{
		Exact:    gameDate.Month() == birthday.Month() && gameDate.Day() == birthday.Day(),
		Week:     abs(diff) <= 3,
		DiffDays: diff,
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
