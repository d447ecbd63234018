// Package calendar provides a timezone-free calendar date type.
//
// Bookings are expressed as half-open [check-in, check-out) intervals of
// calendar dates. All comparisons happen on a single canonical calendar with
// no timezone offset, so a Date never carries a time-of-day component.
package calendar

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

const Layout = "2006-01-02"

// Date is a calendar date with day granularity. The zero value is the zero
// date and reports IsZero.
type Date struct {
	t time.Time
}

func New(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to the calendar date it falls on, in the
// location the instant carries.
func DateOf(t time.Time) Date {
	return New(t.Year(), t.Month(), t.Day())
}

func Parse(value string) (Date, error) {
	t, err := time.Parse(Layout, value)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected format %s", value, Layout)
	}

	return DateOf(t), nil
}

func MustParse(value string) Date {
	d, err := Parse(value)
	if err != nil {
		panic(err)
	}

	return d
}

func (d Date) String() string {
	return d.t.Format(Layout)
}

func (d Date) IsZero() bool {
	return d.t.IsZero()
}

func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

func (d Date) After(other Date) bool {
	return d.t.After(other.t)
}

func (d Date) Equal(other Date) bool {
	return d.t.Equal(other.t)
}

// Compare returns -1, 0 or +1 when d is before, equal to, or after other.
func (d Date) Compare(other Date) int {
	return d.t.Compare(other.t)
}

func (d Date) AddDays(days int) Date {
	return DateOf(d.t.AddDate(0, 0, days))
}

// Overlaps reports whether the half-open intervals [s, e) and [cs, ce)
// intersect. Touching boundaries do not conflict: a checkout on day X and a
// check-in on day X share no night.
func Overlaps(s, e, cs, ce Date) bool {
	return s.Before(ce) && cs.Before(e)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(data), `"`)
	if value == "null" || value == "" {
		*d = Date{}

		return nil
	}

	parsed, err := Parse(value)
	if err != nil {
		return err
	}

	*d = parsed

	return nil
}

// Scan implements sql.Scanner. Postgres DATE columns arrive as time.Time
// through lib/pq; string forms are accepted for completeness.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}

		return nil
	case time.Time:
		*d = DateOf(v)

		return nil
	case string:
		parsed, err := Parse(v)
		if err != nil {
			return err
		}

		*d = parsed

		return nil
	case []byte:
		return d.Scan(string(v))
	default:
		return fmt.Errorf("cannot scan %T into calendar.Date", src)
	}
}

// Value implements driver.Valuer using the canonical string form so the
// stored value never shifts with a session timezone.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}

	return d.String(), nil
}
