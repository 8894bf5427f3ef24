package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/brightwood/attendance-api/attendance"
	"github.com/brightwood/attendance-api/models"
)

// AttendanceStore is the GORM-backed implementation of attendance.Store.
type AttendanceStore struct {
	db *gorm.DB
}

func NewAttendanceStore(db *gorm.DB) *AttendanceStore {
	return &AttendanceStore{db: db}
}

var _ attendance.Store = (*AttendanceStore)(nil)

func (s *AttendanceStore) List(ctx context.Context, studentID string, period attendance.Period) ([]models.Attendance, error) {
	if err := attendance.ValidateListPeriod(period); err != nil {
		return nil, err
	}

	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Student{}).
		Where("student_id = ?", studentID).Count(&n).Error; err != nil {
		return nil, &models.StoreError{Op: "list attendance", Cause: err}
	}
	if n == 0 {
		return nil, &models.NotFoundError{Resource: "student", Key: studentID}
	}

	var rows []models.Attendance
	err := s.db.WithContext(ctx).
		Where("student_id = ? AND date >= ? AND date <= ?", studentID, period.Start, period.End).
		Order("date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, &models.StoreError{Op: "list attendance", Cause: err}
	}
	return rows, nil
}

func (s *AttendanceStore) Create(ctx context.Context, rec models.Attendance) (models.Attendance, error) {
	if err := attendance.ValidateRecord(rec); err != nil {
		return models.Attendance{}, err
	}

	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Attendance{}).
		Where("student_id = ? AND date = ?", rec.StudentID, rec.Date).Count(&n).Error; err != nil {
		return models.Attendance{}, &models.StoreError{Op: "create attendance", Cause: err}
	}
	if n > 0 {
		return models.Attendance{}, &models.ConflictError{StudentID: rec.StudentID, Date: rec.Date}
	}

	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		// The unique index catches duplicates the pre-check raced with.
		if models.IsUniqueViolation(err, "idx_attendance_student_date") {
			return models.Attendance{}, &models.ConflictError{StudentID: rec.StudentID, Date: rec.Date}
		}
		return models.Attendance{}, &models.StoreError{Op: "create attendance", Cause: err}
	}
	return rec, nil
}

func (s *AttendanceStore) Update(ctx context.Context, id uint, patch attendance.UpdatePatch) (models.Attendance, error) {
	var rec models.Attendance
	if err := s.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Attendance{}, &models.NotFoundError{Resource: "attendance record", Key: fmt.Sprint(id)}
		}
		return models.Attendance{}, &models.StoreError{Op: "update attendance", Cause: err}
	}

	if patch.Date != nil {
		rec.Date = *patch.Date
	}
	if patch.Status != nil {
		rec.Status = *patch.Status
	}
	if patch.CheckIn != nil {
		rec.CheckIn = patch.CheckIn
	}
	if patch.CheckOut != nil {
		rec.CheckOut = patch.CheckOut
	}
	if patch.Notes != nil {
		rec.Notes = *patch.Notes
	}
	if err := attendance.ValidateRecord(rec); err != nil {
		return models.Attendance{}, err
	}

	if err := s.db.WithContext(ctx).Save(&rec).Error; err != nil {
		if models.IsUniqueViolation(err, "idx_attendance_student_date") {
			return models.Attendance{}, &models.ConflictError{StudentID: rec.StudentID, Date: rec.Date}
		}
		return models.Attendance{}, &models.StoreError{Op: "update attendance", Cause: err}
	}
	return rec, nil
}

func (s *AttendanceStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Attendance{}, id)
	if res.Error != nil {
		return &models.StoreError{Op: "delete attendance", Cause: res.Error}
	}
	// Deletion is not idempotent: a second delete of the same id is an error.
	if res.RowsAffected == 0 {
		return &models.NotFoundError{Resource: "attendance record", Key: fmt.Sprint(id)}
	}
	return nil
}

func (s *AttendanceStore) BulkCreate(ctx context.Context, recs []models.Attendance) ([]models.Attendance, error) {
	for i := range recs {
		if err := attendance.ValidateRecord(recs[i]); err != nil {
			return nil, err
		}
	}

	// All rows land in one transaction; a single duplicate rolls back the lot.
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range recs {
			if err := tx.Create(&recs[i]).Error; err != nil {
				if models.IsUniqueViolation(err, "idx_attendance_student_date") {
					return &models.ConflictError{StudentID: recs[i].StudentID, Date: recs[i].Date}
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		var conflict *models.ConflictError
		if errors.As(err, &conflict) {
			return nil, conflict
		}
		return nil, &models.StoreError{Op: "bulk create attendance", Cause: err}
	}
	return recs, nil
}
