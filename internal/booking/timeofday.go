package booking

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// H:MM or HH:MM, optionally followed by an AM/PM marker.
var timeOfDayPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?:\s*([AaPp][Mm]))?$`)

// ParseTimeOfDay parses a patient-entered wall-clock time into 24-hour
// components. With a PM marker hours other than 12 gain twelve; 12 AM is
// midnight; without a marker the hour is taken as already 24-hour.
func ParseTimeOfDay(value string) (hour, minute int, err error) {
	m := timeOfDayPattern.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return 0, 0, fmt.Errorf("booking: unparseable time of day %q", value)
	}

	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	marker := strings.ToUpper(m[3])

	if minute > 59 {
		return 0, 0, fmt.Errorf("booking: minute out of range in %q", value)
	}

	switch marker {
	case "AM", "PM":
		if hour < 1 || hour > 12 {
			return 0, 0, fmt.Errorf("booking: hour out of range in %q", value)
		}
		if marker == "PM" && hour != 12 {
			hour += 12
		}
		if marker == "AM" && hour == 12 {
			hour = 0
		}
	default:
		if hour > 23 {
			return 0, 0, fmt.Errorf("booking: hour out of range in %q", value)
		}
	}
	return hour, minute, nil
}
