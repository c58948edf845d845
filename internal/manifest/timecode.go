package manifest

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseTimecode parses an HH:MM:SS time of day into an offset from midnight.
// Hours may be written with one digit. Values past 23:59:59 are rejected;
// there is no day rollover.
func ParseTimecode(value string) (time.Duration, error) {
	trimmed := strings.TrimSpace(value)
	parts := strings.Split(trimmed, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("timecode %q: want HH:MM:SS", value)
	}
	limits := [3]int{23, 59, 59}
	var fields [3]int
	for i, part := range parts {
		if len(part) == 0 || len(part) > 2 {
			return 0, fmt.Errorf("timecode %q: field %d has %d digits", value, i+1, len(part))
		}
		if strings.IndexFunc(part, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
			return 0, fmt.Errorf("timecode %q: field %d is not a number", value, i+1)
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return 0, fmt.Errorf("timecode %q: field %d is not a number", value, i+1)
		}
		if n > limits[i] {
			return 0, fmt.Errorf("timecode %q: field %d out of range", value, i+1)
		}
		fields[i] = n
	}
	return time.Duration(fields[0])*time.Hour +
		time.Duration(fields[1])*time.Minute +
		time.Duration(fields[2])*time.Second, nil
}

// FormatTimecode renders d as HH:MM:SS, truncating sub-second precision.
func FormatTimecode(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}
