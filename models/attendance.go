package models

import "time"

// Status is the closed set of attendance states a student can be in on a
// given day.
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusExcused Status = "excused"
)

// Valid reports whether s is one of the supported statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusExcused:
		return true
	default:
		return false
	}
}

// Attendance is one student's record for one calendar day. At most one row
// exists per (student_id, date); the composite unique index backs that up.
type Attendance struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	StudentID string  `json:"student_id" gorm:"size:20;not null;uniqueIndex:idx_attendance_student_date"`
	Date      string  `json:"date" gorm:"size:10;not null;uniqueIndex:idx_attendance_student_date"` // YYYY-MM-DD
	Status    Status  `json:"status" gorm:"size:10;not null"`
	CheckIn   *string `json:"check_in_time,omitempty" gorm:"size:8"`  // HH:MM:SS
	CheckOut  *string `json:"check_out_time,omitempty" gorm:"size:8"` // HH:MM:SS
	Notes     string  `json:"notes" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
