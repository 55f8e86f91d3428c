// Package date implements calendar dates with day granularity and the whole-month
// arithmetic used by vesting schedules.
//
// All computations work on the (year, month, day) triple. Nothing here depends on the
// process time zone: a Date parsed from "2024-01-31" is the same value on every host.
package date

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// DateFormat is the format used to represent dates as strings in ISO-8601 format.
const DateFormat = "2006-01-02"

// dateRE matches YYYY-MM-DD with an optional time component that is ignored.
var dateRE = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})(?:T(\d{2}):(\d{2}):(\d{2})(?:\.\d+)?Z?)?$`)

// Date represents a date with day-level granularity.
type Date struct {
	y int        // year
	m time.Month // month
	d int        // day
}

// DateFormatError is returned when a string cannot be parsed as a calendar date.
type DateFormatError struct {
	Input  string
	Reason string
}

func (e *DateFormatError) Error() string {
	return fmt.Sprintf("invalid date %q want format %q: %s", e.Input, "YYYY-MM-DD", e.Reason)
}

// New returns a normalized Date for the given year, month, and day.
// Out of range values are normalized the way time.Date does (e.g. Jan 32 is Feb 1).
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// time returns a time.Time that is a canonical representation of that day (at midnight UTC).
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// Year returns current year.
func (d Date) Year() int { return d.y }

// Month returns the month of the date.
func (d Date) Month() time.Month { return d.m }

// Day returns current day of the month.
func (d Date) Day() int { return d.d }

// IsZero returns true if the date is the zero value.
func (d Date) IsZero() bool { return d.y == 0 && d.m == 0 && d.d == 0 }

// Before reports whether the day d is before x.
func (d Date) Before(x Date) bool { return d.compare(x) < 0 }

// After reports whether the day d is after x.
func (d Date) After(x Date) bool { return d.compare(x) > 0 }

func (d Date) compare(x Date) int {
	switch {
	case d.y != x.y:
		return d.y - x.y
	case d.m != x.m:
		return int(d.m - x.m)
	default:
		return d.d - x.d
	}
}

// AddMonths returns the date i months later, normalized like time.AddDate
// (Jan 31 + 1 month is Mar 2 or Mar 3).
func (d Date) AddMonths(i int) Date { return New(d.y, d.m+time.Month(i), d.d) }

// Anniversary returns the first date that is at least n whole months after d, as
// counted by MonthsSince. It is the same day of month n months later, or the 1st of
// the month after when that month is too short (Jan 31 + 1 month is Mar 1).
func (d Date) Anniversary(n int) Date {
	first := New(d.y, d.m+time.Month(n), 1)
	if d.d > daysIn(first.y, first.m) {
		return New(first.y, first.m+1, 1)
	}
	return New(first.y, first.m, d.d)
}

// Add returns a new Date with the given number of days added.
func (d Date) Add(i int) Date { return New(d.y, d.m, d.d+i) }

// String format the date in its standard format.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.y, int(d.m), d.d)
}

// MonthsSince returns the number of whole months from start to d.
//
// The difference in calendar months is reduced by one when d's day of month is
// numerically lower than start's. The comparison is on day numbers only, so
// Jan 31 to Feb 29 is 0 months and Jan 31 to Mar 1 is 1 month. The result is
// negative when d is before start.
func (d Date) MonthsSince(start Date) int {
	delta := (d.y-start.y)*12 + int(d.m-start.m)
	if d.d < start.d {
		delta--
	}
	return delta
}

// MonthsBetween parses both dates and returns end.MonthsSince(start).
func MonthsBetween(end, start string) (int, error) {
	e, err := Parse(end)
	if err != nil {
		return 0, err
	}
	s, err := Parse(start)
	if err != nil {
		return 0, err
	}
	return e.MonthsSince(s), nil
}

// Today returns the current date in the local calendar. It is only meant for
// command line defaults, computations always take an explicit date.
func Today() Date { return New(time.Now().Date()) }

// Parse parses a Date from "YYYY-MM-DD". A trailing time component
// ("THH:MM:SS", optional fractional seconds and "Z") is accepted and ignored.
func Parse(str string) (Date, error) {
	match := dateRE.FindStringSubmatch(str)
	if match == nil {
		return Date{}, &DateFormatError{Input: str, Reason: "not a calendar date"}
	}
	// the regexp guarantees digits only.
	y, _ := strconv.Atoi(match[1])
	m, _ := strconv.Atoi(match[2])
	d, _ := strconv.Atoi(match[3])

	if m < 1 || m > 12 {
		return Date{}, &DateFormatError{Input: str, Reason: fmt.Sprintf("month %d out of range", m)}
	}
	if last := daysIn(y, time.Month(m)); d < 1 || d > last {
		return Date{}, &DateFormatError{Input: str, Reason: fmt.Sprintf("day %d out of range 1..%d", d, last)}
	}
	if match[4] != "" {
		hh, _ := strconv.Atoi(match[4])
		mm, _ := strconv.Atoi(match[5])
		ss, _ := strconv.Atoi(match[6])
		if hh > 23 || mm > 59 || ss > 60 {
			return Date{}, &DateFormatError{Input: str, Reason: "time component out of range"}
		}
	}
	return Date{y, time.Month(m), d}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(str string) Date {
	d, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// daysIn returns the number of days in month m of year y.
func daysIn(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// UnmarshalJSON implements the json specific way to unmarshall a date from a json string.
func (j *Date) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	d, err := Parse(str)
	if err != nil {
		return err
	}
	*j = d
	return nil
}

func (j Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(j.String())
}

// check that a Date pointer is a valid json marshall/unmarshaller type.
var _ json.Marshaler = (*Date)(nil)
var _ json.Unmarshaler = (*Date)(nil)
