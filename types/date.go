package types

import (
	"bytes"
	"strconv"
	"time"
)

// DateLayout is the wire format of every calendar day exchanged with the backend.
const DateLayout = "2006-01-02"

// Date is a calendar day without a time of day, always held at midnight UTC.
// It (un)marshals as "YYYY-MM-DD".
type Date time.Time

// NewDate builds a Date from its parts
func NewDate(year int, month time.Month, day int) Date {
	return Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf drops the time of day of t, keeping the day as seen in t's location
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses "YYYY-MM-DD". Anything after the day (a time component) is ignored.
func ParseDate(s string) (Date, error) {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date(t), nil
}

// MustParseDate is ParseDate for literals, it panics on malformed input
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*d = Date{}
		return nil
	}
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(d.String())), nil
}

func (d Date) ToTime() time.Time {
	return time.Time(d)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.ToTime().Format(DateLayout)
}

func (d Date) IsZero() bool {
	return d.ToTime().IsZero()
}

func (d Date) Year() int {
	return d.ToTime().Year()
}

func (d Date) Month() time.Month {
	return d.ToTime().Month()
}

func (d Date) Before(u Date) bool {
	return d.ToTime().Before(u.ToTime())
}

func (d Date) After(u Date) bool {
	return d.ToTime().After(u.ToTime())
}

func (d Date) Equal(u Date) bool {
	return d.ToTime().Equal(u.ToTime())
}

// Within reports whether d falls inside [start, end], both ends included
func (d Date) Within(start Date, end Date) bool {
	return !d.Before(start) && !d.After(end)
}

func (d Date) AddDays(n int) Date {
	return Date(d.ToTime().AddDate(0, 0, n))
}
