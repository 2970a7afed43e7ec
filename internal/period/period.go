package period

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

// Layout is the textual form of a period key.
const Layout = "2006-01"

var ErrInvalid = errors.New("invalid period")

// Period identifies a calendar month. The zero value is not a valid period.
type Period struct {
	year  int
	month time.Month
}

// New builds a period from a year and month. It panics on an out-of-range month.
func New(year int, month time.Month) Period {
	if month < time.January || month > time.December {
		panic(fmt.Sprintf("period: month %d out of range", month))
	}

	return Period{year: year, month: month}
}

// Parse reads a "YYYY-MM" token.
func Parse(s string) (Period, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Period{}, fmt.Errorf("%w %q: %w", ErrInvalid, s, err)
	}

	return FromTime(t), nil
}

// FromTime returns the period containing t, in t's location.
func FromTime(t time.Time) Period {
	return Period{year: t.Year(), month: t.Month()}
}

// Current returns the period containing now.
func Current(now time.Time) Period {
	return FromTime(now)
}

func (p Period) Year() int         { return p.year }
func (p Period) Month() time.Month { return p.month }
func (p Period) IsZero() bool      { return p.year == 0 && p.month == 0 }

// Start is the first instant of the period in UTC.
func (p Period) Start() time.Time {
	return time.Date(p.year, p.month, 1, 0, 0, 0, 0, time.UTC)
}

// End is the first instant after the period in UTC.
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, 0)
}

// Contains reports whether t falls on a calendar day inside the period.
func (p Period) Contains(t time.Time) bool {
	return t.Year() == p.year && t.Month() == p.month
}

func (p Period) Prev() Period { return FromTime(p.Start().AddDate(0, -1, 0)) }
func (p Period) Next() Period { return FromTime(p.Start().AddDate(0, 1, 0)) }

func (p Period) String() string {
	if p.IsZero() {
		return ""
	}

	return fmt.Sprintf("%04d-%02d", p.year, int(p.month))
}

func (p Period) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Period) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*p = Period{}
		return nil
	}

	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}

	*p = parsed

	return nil
}

// Value stores the period as its "YYYY-MM" token.
func (p Period) Value() (driver.Value, error) {
	if p.IsZero() {
		return nil, nil
	}

	return p.String(), nil
}

func (p *Period) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*p = Period{}
		return nil
	case string:
		return p.UnmarshalText([]byte(v))
	case []byte:
		return p.UnmarshalText(v)
	default:
		return fmt.Errorf("period: cannot scan %T", src)
	}
}
