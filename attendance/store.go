package attendance

import (
	"context"

	"github.com/brightwood/attendance-api/models"
)

// UpdatePatch carries a field-level partial update. Nil fields are left
// unchanged; CheckIn/CheckOut take storage-form times (HH:MM:SS).
type UpdatePatch struct {
	Date     *string
	Status   *models.Status
	CheckIn  *string
	CheckOut *string
	Notes    *string
}

// Store is the record-store boundary. All four single-record operations plus
// the atomic bulk write; nothing else mutates persisted attendance state.
//
// Contract:
//   - List returns records for one student inside the period, date
//     ascending; *models.NotFoundError for an unknown student,
//     *models.ValidationError for an inverted period (start after end).
//   - Create rejects a second record for the same (student, date) with
//     *models.ConflictError and malformed records with
//     *models.ValidationError.
//   - Update applies a partial patch; the patched record must still satisfy
//     ValidateRecord; *models.NotFoundError for unknown ids.
//   - Delete is not idempotent: deleting a missing id is
//     *models.NotFoundError.
//   - BulkCreate persists all records in one transaction or none of them.
type Store interface {
	List(ctx context.Context, studentID string, period Period) ([]models.Attendance, error)
	Create(ctx context.Context, rec models.Attendance) (models.Attendance, error)
	Update(ctx context.Context, id uint, patch UpdatePatch) (models.Attendance, error)
	Delete(ctx context.Context, id uint) error
	BulkCreate(ctx context.Context, recs []models.Attendance) ([]models.Attendance, error)
}

// RosterProvider supplies the students enrolled in a level/section, ordered
// by student number. Read-only from the attendance core's point of view.
type RosterProvider interface {
	Roster(ctx context.Context, level, section string) ([]models.Student, error)
}

// ValidateRecord rejects malformed records before any write is attempted.
// Every Store implementation applies it on Create, Update and BulkCreate.
func ValidateRecord(rec models.Attendance) error {
	fields := map[string]string{}
	if rec.StudentID == "" {
		fields["student_id"] = "required"
	}
	if rec.Date == "" {
		fields["date"] = "required"
	}
	if !rec.Status.Valid() {
		fields["status"] = "must be present, absent, late or excused"
	}
	if rec.CheckIn != nil && rec.CheckOut != nil && *rec.CheckOut < *rec.CheckIn {
		fields["check_out_time"] = "must not be before check_in_time"
	}
	if len(fields) > 0 {
		return &models.ValidationError{Message: "invalid attendance record", Fields: fields}
	}
	return nil
}

// ValidateListPeriod guards List against an inverted range; the check runs
// before any query is issued.
func ValidateListPeriod(period Period) error {
	if period.Start > period.End {
		return &models.ValidationError{
			Message: "start date must not be after end date",
			Fields:  map[string]string{"start": period.Start, "end": period.End},
		}
	}
	return nil
}
