package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/brightwood/attendance-api/attendance"
	"github.com/brightwood/attendance-api/models"
)

// AttendanceHandler exposes the record-store operations and the summary
// aggregator. Times arrive as HH:MM in request bodies and are normalized to
// HH:MM:SS before they reach the store.
type AttendanceHandler struct {
	store attendance.Store
}

func NewAttendanceHandler(store attendance.Store) *AttendanceHandler {
	return &AttendanceHandler{store: store}
}

// periodFromQuery resolves the requested period: explicit start/end wins,
// otherwise the calendar month of ?month=YYYY-MM (default: current month).
func periodFromQuery(c echo.Context) (attendance.Period, error) {
	start := strings.TrimSpace(c.QueryParam("start"))
	end := strings.TrimSpace(c.QueryParam("end"))
	if start != "" || end != "" {
		return attendance.ParsePeriod(start, end)
	}
	anchor := time.Now()
	if m := strings.TrimSpace(c.QueryParam("month")); m != "" {
		t, err := time.Parse("2006-01", m)
		if err != nil {
			return attendance.Period{}, &models.ValidationError{
				Message: "month must be YYYY-MM",
				Fields:  map[string]string{"month": m},
			}
		}
		anchor = t
	}
	return attendance.ResolvePeriod(anchor), nil
}

// GET /teacher/attendance/students/:studentId?month=YYYY-MM | ?start=&end=
func (h *AttendanceHandler) ListByStudent(c echo.Context) error {
	period, err := periodFromQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	rows, err := h.store.List(c.Request().Context(), c.Param("studentId"), period)
	if err != nil {
		return writeError(c, err)
	}
	if rows == nil {
		rows = []models.Attendance{}
	}
	return c.JSON(http.StatusOK, map[string]any{"period": period, "records": rows})
}

// GET /teacher/attendance/students/:studentId/summary
func (h *AttendanceHandler) Summary(c echo.Context) error {
	period, err := periodFromQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	rows, err := h.store.List(c.Request().Context(), c.Param("studentId"), period)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"period":  period,
		"summary": attendance.Summarize(rows, period),
	})
}

type attendancePayload struct {
	StudentID string `json:"student_id" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Status    string `json:"status" validate:"required"`
	CheckIn   string `json:"check_in_time"`
	CheckOut  string `json:"check_out_time"`
	Notes     string `json:"notes"`
}

func (p *attendancePayload) toRecord() (models.Attendance, error) {
	rec := models.Attendance{
		StudentID: strings.TrimSpace(p.StudentID),
		Date:      p.Date,
		Status:    models.Status(p.Status),
		Notes:     strings.TrimSpace(p.Notes),
	}
	if p.CheckIn != "" {
		t, err := attendance.ToStorageTime(p.CheckIn)
		if err != nil {
			return rec, err
		}
		rec.CheckIn = &t
	}
	if p.CheckOut != "" {
		t, err := attendance.ToStorageTime(p.CheckOut)
		if err != nil {
			return rec, err
		}
		rec.CheckOut = &t
	}
	return rec, nil
}

// POST /teacher/attendance
func (h *AttendanceHandler) Create(c echo.Context) error {
	var p attendancePayload
	if err := bindAndValidate(c, &p); err != nil {
		return writeError(c, err)
	}
	rec, err := p.toRecord()
	if err != nil {
		return writeError(c, err)
	}
	created, err := h.store.Create(c.Request().Context(), rec)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

type attendanceUpdatePayload struct {
	Date     *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Status   *string `json:"status"`
	CheckIn  *string `json:"check_in_time"`
	CheckOut *string `json:"check_out_time"`
	Notes    *string `json:"notes"`
}

// PATCH /teacher/attendance/:id — absent fields are left unchanged.
func (h *AttendanceHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return writeError(c, models.NewValidationError("id must be numeric"))
	}
	var p attendanceUpdatePayload
	if err := bindAndValidate(c, &p); err != nil {
		return writeError(c, err)
	}

	patch := attendance.UpdatePatch{Date: p.Date, Notes: p.Notes}
	if p.Status != nil {
		st := models.Status(*p.Status)
		patch.Status = &st
	}
	if p.CheckIn != nil {
		t, err := attendance.ToStorageTime(*p.CheckIn)
		if err != nil {
			return writeError(c, err)
		}
		patch.CheckIn = &t
	}
	if p.CheckOut != nil {
		t, err := attendance.ToStorageTime(*p.CheckOut)
		if err != nil {
			return writeError(c, err)
		}
		patch.CheckOut = &t
	}

	updated, err := h.store.Update(c.Request().Context(), uint(id), patch)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// DELETE /teacher/attendance/:id — a second delete of the same id is 404.
func (h *AttendanceHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return writeError(c, models.NewValidationError("id must be numeric"))
	}
	if err := h.store.Delete(c.Request().Context(), uint(id)); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type bulkPayload struct {
	Records []attendancePayload `json:"records" validate:"required,min=1,dive"`
}

// POST /teacher/attendance/bulk — all records land in one transaction; a
// single duplicate or invalid record rejects the whole batch.
func (h *AttendanceHandler) BulkCreate(c echo.Context) error {
	var p bulkPayload
	if err := bindAndValidate(c, &p); err != nil {
		return writeError(c, err)
	}
	recs := make([]models.Attendance, 0, len(p.Records))
	for i := range p.Records {
		rec, err := p.Records[i].toRecord()
		if err != nil {
			return writeError(c, err)
		}
		recs = append(recs, rec)
	}
	created, err := h.store.BulkCreate(c.Request().Context(), recs)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"inserted": len(created), "records": created})
}
