// Package model defines the data structures for password generation.
package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Tokens is the normalized set of personal inputs generation draws from.
// Strings are mandatory; dates and numbers are optional.
type Tokens struct {
	Strings []string
	Dates   []Date
	Numbers []string
}

// Validate checks the fatal precondition for generation.
func (t Tokens) Validate() error {
	if len(t.Strings) == 0 {
		return ErrNoTokens
	}

	return nil
}

// Date is a parsed D/M/YYYY input with its component renderings.
type Date struct {
	Raw       string
	Day       string
	Month     string
	Year      string
	ShortYear string
}

// ParseDate parses a date token in D/M/YYYY form.
func ParseDate(raw string) (Date, error) {
	parts := strings.Split(raw, "/")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("date %q: want D/M/YYYY", raw)
	}

	day, month, year := parts[0], parts[1], parts[2]
	if _, err := strconv.Atoi(day); err != nil {
		return Date{}, fmt.Errorf("date %q: bad day component", raw)
	}

	if _, err := strconv.Atoi(month); err != nil {
		return Date{}, fmt.Errorf("date %q: bad month component", raw)
	}

	if len(year) < 2 {
		return Date{}, fmt.Errorf("date %q: bad year component", raw)
	}

	if _, err := strconv.Atoi(year); err != nil {
		return Date{}, fmt.Errorf("date %q: bad year component", raw)
	}

	return Date{
		Raw:       raw,
		Day:       day,
		Month:     month,
		Year:      year,
		ShortYear: year[len(year)-2:],
	}, nil
}

// ParseDates parses a list of raw date tokens, failing on the first bad one.
func ParseDates(raw []string) ([]Date, error) {
	dates := make([]Date, 0, len(raw))

	for _, r := range raw {
		d, err := ParseDate(r)
		if err != nil {
			return nil, err
		}

		dates = append(dates, d)
	}

	return dates, nil
}

// NumberForms returns the numeric renderings derived from the date: the
// year forms plus day/month concatenations in common orderings. Day and
// month are normalized (no leading zeros).
func (d Date) NumberForms() []string {
	day := stripLeadingZeros(d.Day)
	month := stripLeadingZeros(d.Month)
	year := d.Year
	short := d.ShortYear

	return []string{
		year,
		short,
		day + month,
		day + month + year,
		day + month + short,
		month + day,
		month + day + year,
		month + day + short,
		year + month + day,
		short + month + day,
		year + day + month,
		short + day + month,
	}
}

func stripLeadingZeros(s string) string {
	n, err := strconv.Atoi(s)
	if err != nil {
		return s
	}

	return strconv.Itoa(n)
}
