package attendance

import (
	"testing"

	"github.com/brightwood/attendance-api/models"
)

func rec(date string, status models.Status) models.Attendance {
	return models.Attendance{StudentID: "ST10001", Date: date, Status: status}
}

func TestSummarize(t *testing.T) {
	april := Period{Start: "2025-04-01", End: "2025-04-30"}

	tests := []struct {
		name    string
		records []models.Attendance
		period  Period
		want    Summary
	}{
		{
			name:   "empty set gives zero percentage",
			period: april,
			want:   Summary{},
		},
		{
			name: "mixed statuses",
			records: []models.Attendance{
				rec("2025-04-01", models.StatusPresent),
				rec("2025-04-02", models.StatusPresent),
				rec("2025-04-03", models.StatusLate),
				rec("2025-04-04", models.StatusAbsent),
				rec("2025-04-07", models.StatusExcused),
			},
			period: april,
			want: Summary{
				TotalDays: 5, PresentDays: 2, AbsentDays: 1, LateDays: 1, ExcusedDays: 1,
				AttendancePercentage: 40,
			},
		},
		{
			name: "records outside the period are ignored",
			records: []models.Attendance{
				rec("2025-03-31", models.StatusAbsent),
				rec("2025-04-01", models.StatusPresent),
				rec("2025-05-01", models.StatusAbsent),
			},
			period: april,
			want:   Summary{TotalDays: 1, PresentDays: 1, AttendancePercentage: 100},
		},
		{
			name: "all present",
			records: []models.Attendance{
				rec("2025-04-01", models.StatusPresent),
				rec("2025-04-02", models.StatusPresent),
			},
			period: april,
			want:   Summary{TotalDays: 2, PresentDays: 2, AttendancePercentage: 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.records, tt.period)
			if got != tt.want {
				t.Errorf("Summarize() = %+v, want %+v", got, tt.want)
			}
			// Count identity holds for every input.
			if sum := got.PresentDays + got.AbsentDays + got.LateDays + got.ExcusedDays; sum != got.TotalDays {
				t.Errorf("status counts sum to %d, total is %d", sum, got.TotalDays)
			}
		})
	}
}

func TestSummarizePartialCoverage(t *testing.T) {
	// Days without a record do not count toward the total; the percentage is
	// relative to recorded days only.
	april := Period{Start: "2025-04-01", End: "2025-04-30"}
	got := Summarize([]models.Attendance{
		rec("2025-04-10", models.StatusPresent),
		rec("2025-04-11", models.StatusAbsent),
	}, april)
	if got.TotalDays != 2 {
		t.Fatalf("TotalDays = %d, want 2 (not 30)", got.TotalDays)
	}
	if got.AttendancePercentage != 50 {
		t.Errorf("AttendancePercentage = %v, want 50", got.AttendancePercentage)
	}
}
