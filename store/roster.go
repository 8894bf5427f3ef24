package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/brightwood/attendance-api/attendance"
	"github.com/brightwood/attendance-api/models"
)

// RosterStore reads the enrolled students of a level/section. The students
// table is owned by the admin system; this side only queries it.
type RosterStore struct {
	db *gorm.DB
}

func NewRosterStore(db *gorm.DB) *RosterStore {
	return &RosterStore{db: db}
}

var _ attendance.RosterProvider = (*RosterStore)(nil)

func (s *RosterStore) Roster(ctx context.Context, level, section string) ([]models.Student, error) {
	if level == "" || section == "" {
		return nil, &models.ValidationError{
			Message: "level and section are required",
			Fields:  map[string]string{"level": level, "section": section},
		}
	}
	var rows []models.Student
	err := s.db.WithContext(ctx).
		Where("level = ? AND section = ? AND status = ?", level, section, "active").
		Order("student_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, &models.StoreError{Op: "load roster", Cause: err}
	}
	return rows, nil
}
