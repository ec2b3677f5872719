package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Day-count difference between the spreadsheet epoch (1899-12-30) and the
// Unix epoch.
const spreadsheetEpochOffset = 25569

// Textual layouts tried by the generic fallback parse.
var genericLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"02 Jan 2006",
}

// ParseDate converts a raw cell value into a calendar date.
//
// Decision order: numeric values above 1000 are treated as spreadsheet-epoch
// day offsets; "-"-separated values with two-char day and month segments and a
// four-char year are day-month-year, while a leading four-char segment means
// year-month-day; "/"-separated values follow the same rule with month/day/year
// as the short form; anything else goes through the generic layout list.
//
// The separator disambiguation is purely length based. An input like
// "05-06-2024" is always day-month-year here even where the author meant
// month-day; this reproduces the documented import behavior and is a known
// limitation, not locale-aware parsing.
//
// Callers substitute the current processing date when an error is returned,
// surfacing the fallback as a soft warning rather than failing the row.
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	if n, err := strconv.ParseFloat(s, 64); err == nil {
		if n > 1000 {
			secs := int64((n - spreadsheetEpochOffset) * 86400)
			t := time.Unix(secs, 0).UTC()
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
		return time.Time{}, fmt.Errorf("numeric value %q is not a spreadsheet date", s)
	}

	if strings.Contains(s, "-") {
		if t, ok := parseSeparated(s, "-", false); ok {
			return t, nil
		}
	}

	if strings.Contains(s, "/") {
		if t, ok := parseSeparated(s, "/", true); ok {
			return t, nil
		}
	}

	for _, layout := range genericLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date format %q", raw)
}

// parseSeparated handles the two three-segment layouts. With a dash the short
// form is day-month-year; with a slash it is month/day/year.
func parseSeparated(s, sep string, monthFirst bool) (time.Time, bool) {
	parts := strings.Split(s, sep)
	if len(parts) != 3 {
		return time.Time{}, false
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return time.Time{}, false
		}
		nums[i] = n
	}

	switch {
	case len(parts[0]) == 4:
		// year first
		return makeDate(nums[0], nums[1], nums[2]), true
	case sep == "-" && len(parts[0]) == 2 && len(parts[1]) == 2 && len(parts[2]) == 4:
		// day-month-year
		return makeDate(nums[2], nums[1], nums[0]), true
	case sep == "/" && len(parts[2]) == 4:
		if monthFirst {
			// month/day/year
			return makeDate(nums[2], nums[0], nums[1]), true
		}
		return makeDate(nums[2], nums[1], nums[0]), true
	}

	return time.Time{}, false
}

func makeDate(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
