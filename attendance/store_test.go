package attendance

import (
	"errors"
	"testing"

	"github.com/brightwood/attendance-api/models"
)

func TestValidateListPeriod(t *testing.T) {
	tests := []struct {
		name    string
		period  Period
		wantErr bool
	}{
		{name: "ordered", period: Period{Start: "2025-04-01", End: "2025-04-30"}},
		{name: "single day", period: Period{Start: "2025-04-05", End: "2025-04-05"}},
		{name: "inverted", period: Period{Start: "2025-04-30", End: "2025-04-01"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateListPeriod(tt.period)
			if tt.wantErr {
				var vErr *models.ValidationError
				if !errors.As(err, &vErr) {
					t.Fatalf("ValidateListPeriod(%+v) = %v, want ValidationError", tt.period, err)
				}
				return
			}
			if err != nil {
				t.Errorf("ValidateListPeriod(%+v) unexpected error: %v", tt.period, err)
			}
		})
	}
}

func TestValidateRecord(t *testing.T) {
	in, out := "08:00:00", "15:30:00"

	tests := []struct {
		name    string
		rec     models.Attendance
		wantErr bool
	}{
		{name: "complete", rec: models.Attendance{
			StudentID: "ST1", Date: "2025-04-05", Status: models.StatusPresent, CheckIn: &in, CheckOut: &out,
		}},
		{name: "no times", rec: models.Attendance{StudentID: "ST1", Date: "2025-04-05", Status: models.StatusLate}},
		{name: "missing student", rec: models.Attendance{Date: "2025-04-05", Status: models.StatusPresent}, wantErr: true},
		{name: "missing date", rec: models.Attendance{StudentID: "ST1", Status: models.StatusPresent}, wantErr: true},
		{name: "unknown status", rec: models.Attendance{StudentID: "ST1", Date: "2025-04-05", Status: "asleep"}, wantErr: true},
		{name: "check-out before check-in", rec: models.Attendance{
			StudentID: "ST1", Date: "2025-04-05", Status: models.StatusPresent, CheckIn: &out, CheckOut: &in,
		}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRecord(tt.rec)
			if tt.wantErr {
				var vErr *models.ValidationError
				if !errors.As(err, &vErr) {
					t.Fatalf("ValidateRecord() = %v, want ValidationError", err)
				}
				return
			}
			if err != nil {
				t.Errorf("ValidateRecord() unexpected error: %v", err)
			}
		})
	}
}
