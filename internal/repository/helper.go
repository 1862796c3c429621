package repository

import (
	"fmt"
	"time"
)

// timeLayout is how timestamps are stored in TEXT/DATETIME columns.
const timeLayout = time.RFC3339Nano

// formatTime renders t in UTC for storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// ParseTime parses a stored timestamp, accepting RFC3339 with or without fractional
// seconds and plain "2006-01-02" dates.
func ParseTime(str string) (time.Time, error) {
	returnTime, err := time.Parse(timeLayout, str)
	if err != nil {
		returnTime, err = time.Parse("2006-01-02", str)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse date: %w", err)
		}
	}
	return returnTime.UTC(), nil
}
