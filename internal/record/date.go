package record

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	datePattern      = regexp.MustCompile(`^\s*(\d{1,2})[/\-](\d{1,2})[/\-](\d{2,4})\s*$`)
	monthYearPattern = regexp.MustCompile(`^\s*(\d{1,2})\s*[/\-]\s*(\d{2,4})\s*$`)
)

// Date is a calendar date read from a receipt's Date field.
type Date struct {
	Day, Month, Year int
}

// ParseDate reads D/M/YYYY, DD/MM/YY or the same with dashes. Two-digit
// years are taken as 20YY. Days past the end of the month are rejected.
func ParseDate(s string) (Date, bool) {
	m := datePattern.FindStringSubmatch(s)
	if m == nil {
		return Date{}, false
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year := normalizeYear(m[3])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return Date{}, false
	}
	d := Date{Day: day, Month: month, Year: year}
	if d.Time().Day() != day {
		return Date{}, false
	}
	return d, true
}

// ParseMonthYear reads a month filter such as "7/2025", "07-25" or "7 / 25".
func ParseMonthYear(s string) (month, year int, ok bool) {
	m := monthYearPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false
	}
	month, _ = strconv.Atoi(m[1])
	if month < 1 || month > 12 {
		return 0, 0, false
	}
	return month, normalizeYear(m[2]), true
}

func normalizeYear(s string) int {
	year, _ := strconv.Atoi(s)
	if len(s) == 2 {
		year += 2000
	}
	return year
}

// Time returns d at midnight UTC.
func (d Date) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// MonthAbbrev returns the lower-case English month abbreviation, e.g. "jul".
func (d Date) MonthAbbrev() string {
	return strings.ToLower(time.Month(d.Month).String()[:3])
}

// MonthYear returns the "mon yy" tag used in file names, or "" when date
// cannot be parsed.
func MonthYear(date string) string {
	d, ok := ParseDate(date)
	if !ok {
		return ""
	}
	return d.MonthAbbrev() + " " + FormatNumber(d.Year%100)[NumberWidth-2:]
}

// SameMonth reports whether date falls in month/year.
func SameMonth(date string, month, year int) bool {
	d, ok := ParseDate(date)
	return ok && d.Month == month && d.Year == year
}
