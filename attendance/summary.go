package attendance

import "github.com/brightwood/attendance-api/models"

// Summary aggregates one student's records over a period. It is derived,
// never persisted.
type Summary struct {
	TotalDays            int     `json:"total_days"`
	PresentDays          int     `json:"present_days"`
	AbsentDays           int     `json:"absent_days"`
	LateDays             int     `json:"late_days"`
	ExcusedDays          int     `json:"excused_days"`
	AttendancePercentage float64 `json:"attendance_percentage"`
}

// Summarize counts records per status for the dates that fall inside the
// period. TotalDays is the number of distinct recorded dates, not calendar
// days, so a day with no record does not drag the percentage down. The
// percentage is 0 when nothing was recorded.
func Summarize(records []models.Attendance, period Period) Summary {
	var s Summary
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if !period.Contains(r.Date) {
			continue
		}
		if _, dup := seen[r.Date]; dup {
			continue
		}
		seen[r.Date] = struct{}{}
		s.TotalDays++
		switch r.Status {
		case models.StatusPresent:
			s.PresentDays++
		case models.StatusAbsent:
			s.AbsentDays++
		case models.StatusLate:
			s.LateDays++
		case models.StatusExcused:
			s.ExcusedDays++
		}
	}
	if s.TotalDays > 0 {
		s.AttendancePercentage = float64(s.PresentDays) / float64(s.TotalDays) * 100
	}
	return s
}
