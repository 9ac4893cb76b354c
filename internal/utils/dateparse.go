package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var relativeRe = regexp.MustCompile(`^(\d+)\s*(d|day|days|w|week|weeks|m|month|months)$`)

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"Jan 2 2006",
	"Jan 2, 2006",
}

// ParseSince turns a --since value into the start of a window ending at now.
// It accepts today, yesterday, week, month, "7d", "2 weeks" and calendar dates.
func ParseSince(input string, now time.Time, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)
	input = strings.TrimSpace(strings.ToLower(input))
	midnight := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	}

	switch input {
	case "":
		return time.Time{}, fmt.Errorf("empty date input")
	case "all":
		return time.Time{}, nil
	case "today":
		return midnight(now), nil
	case "yesterday":
		return midnight(now.AddDate(0, 0, -1)), nil
	case "week":
		wd := int(now.Weekday())
		if wd == 0 { // Sunday
			wd = 7
		}
		return midnight(now.AddDate(0, 0, -(wd - 1))), nil
	case "month":
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc), nil
	}

	if m := relativeRe.FindStringSubmatch(input); m != nil {
		n, _ := strconv.Atoi(m[1])
		switch m[2][0] {
		case 'd':
			return midnight(now.AddDate(0, 0, -n)), nil
		case 'w':
			return midnight(now.AddDate(0, 0, -7*n)), nil
		default:
			return midnight(now.AddDate(0, -n, 0)), nil
		}
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, input, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", input)
}
