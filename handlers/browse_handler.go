package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/brightwood/attendance-api/models"
)

// BrowseHandler is the admin-side ranged listing across all students. It
// queries the database directly; per-student operations go through the
// attendance store instead.
type BrowseHandler struct {
	db *gorm.DB
}

func NewBrowseHandler(db *gorm.DB) *BrowseHandler {
	return &BrowseHandler{db: db}
}

// GET /admin/attendance?start=YYYY-MM-DD&end=YYYY-MM-DD&studentId=&statuses=present,late
// optional: level, section, q (matches student number or name)
func (h *BrowseHandler) List(c echo.Context) error {
	start := strings.TrimSpace(c.QueryParam("start"))
	end := strings.TrimSpace(c.QueryParam("end"))
	studentID := strings.TrimSpace(c.QueryParam("studentId"))
	statuses := strings.TrimSpace(c.QueryParam("statuses"))
	level := strings.TrimSpace(c.QueryParam("level"))
	section := strings.TrimSpace(c.QueryParam("section"))
	q := strings.TrimSpace(c.QueryParam("q"))

	tx := h.db.WithContext(c.Request().Context()).Model(&models.Attendance{})

	if start != "" && end != "" {
		if start > end {
			return writeError(c, models.NewValidationError("start must not be after end"))
		}
		tx = tx.Where("attendances.date >= ? AND attendances.date <= ?", start, end)
	}
	if studentID != "" {
		tx = tx.Where("attendances.student_id = ?", studentID)
	}
	if statuses != "" {
		if parts := splitCSV(statuses); len(parts) > 0 {
			tx = tx.Where("attendances.status IN ?", parts)
		}
	}

	// Joining students only when a student-level filter is present.
	if level != "" || section != "" || q != "" {
		tx = tx.Joins("JOIN students s ON s.student_id = attendances.student_id")
		if level != "" {
			tx = tx.Where("s.level = ?", level)
		}
		if section != "" {
			tx = tx.Where("s.section = ?", section)
		}
		if q != "" {
			like := "%" + strings.ToLower(q) + "%"
			tx = tx.Where("LOWER(s.student_id) LIKE ? OR LOWER(s.first_name) LIKE ? OR LOWER(s.last_name) LIKE ?",
				like, like, like)
		}
	}

	var rows []models.Attendance
	if err := tx.Order("attendances.date ASC, attendances.student_id ASC, attendances.id ASC").Find(&rows).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusOK, []models.Attendance{})
		}
		return writeError(c, &models.StoreError{Op: "browse attendance", Cause: err})
	}
	return c.JSON(http.StatusOK, rows)
}
