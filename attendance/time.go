package attendance

import (
	"regexp"
	"time"

	"github.com/brightwood/attendance-api/models"
)

// Times travel as HH:MM in the API and HH:MM:SS in storage.
var clockRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ToStorageTime converts a display time (HH:MM, 24-hour, zero-padded) to
// its storage form (HH:MM:SS).
func ToStorageTime(hhmm string) (string, error) {
	if !clockRe.MatchString(hhmm) {
		return "", &models.ValidationError{
			Message: "time must be HH:MM (24-hour, zero-padded)",
			Fields:  map[string]string{"time": hhmm},
		}
	}
	return hhmm + ":00", nil
}

// ToDisplayTime truncates a storage time (HH:MM:SS) to HH:MM. Input that is
// already HH:MM or shorter passes through, so the function is idempotent.
func ToDisplayTime(t string) string {
	if len(t) <= 5 {
		return t
	}
	return t[:5]
}

// Period is a closed calendar date range, both ends inclusive, in
// YYYY-MM-DD form.
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Contains reports whether date (YYYY-MM-DD) falls inside the period.
// Lexicographic comparison is exact for zero-padded ISO dates.
func (p Period) Contains(date string) bool {
	return date >= p.Start && date <= p.End
}

// ResolvePeriod returns the calendar month containing anchor: the first and
// last day of the anchor's month, inclusive.
func ResolvePeriod(anchor time.Time) Period {
	first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
	last := first.AddDate(0, 1, -1)
	return Period{
		Start: first.Format("2006-01-02"),
		End:   last.Format("2006-01-02"),
	}
}

// ParsePeriod builds a Period from explicit bounds, rejecting malformed
// dates and inverted ranges before any store call is made.
func ParsePeriod(start, end string) (Period, error) {
	for field, v := range map[string]string{"start_date": start, "end_date": end} {
		if _, err := time.Parse("2006-01-02", v); err != nil {
			return Period{}, &models.ValidationError{
				Message: "date must be YYYY-MM-DD",
				Fields:  map[string]string{field: v},
			}
		}
	}
	if start > end {
		return Period{}, &models.ValidationError{
			Message: "start_date must not be after end_date",
			Fields:  map[string]string{"start_date": start, "end_date": end},
		}
	}
	return Period{Start: start, End: end}, nil
}
