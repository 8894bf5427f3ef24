package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/brightwood/attendance-api/attendance"
	"github.com/brightwood/attendance-api/models"
)

// RosterHandler serves the class view a teacher marks attendance from: the
// enrolled students of a level/section with whatever records already exist
// for the requested day merged in.
type RosterHandler struct {
	roster attendance.RosterProvider
	store  attendance.Store
}

func NewRosterHandler(roster attendance.RosterProvider, store attendance.Store) *RosterHandler {
	return &RosterHandler{roster: roster, store: store}
}

type rosterRow struct {
	StudentID string         `json:"student_id"`
	Name      string         `json:"name"`
	Status    *models.Status `json:"status,omitempty"` // nil until marked
	CheckIn   string         `json:"check_in_time,omitempty"`
	Notes     string         `json:"notes,omitempty"`
	RecordID  uint           `json:"record_id,omitempty"`
}

// GET /teacher/roster?level=8&section=A&date=YYYY-MM-DD (date defaults to today)
func (h *RosterHandler) ForDate(c echo.Context) error {
	level := strings.TrimSpace(c.QueryParam("level"))
	section := strings.TrimSpace(c.QueryParam("section"))
	date := strings.TrimSpace(c.QueryParam("date"))
	if date == "" {
		date = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		return writeError(c, &models.ValidationError{
			Message: "date must be YYYY-MM-DD",
			Fields:  map[string]string{"date": date},
		})
	}

	students, err := h.roster.Roster(c.Request().Context(), level, section)
	if err != nil {
		return writeError(c, err)
	}

	day := attendance.Period{Start: date, End: date}
	rows := make([]rosterRow, 0, len(students))
	for _, s := range students {
		row := rosterRow{
			StudentID: s.StudentID,
			Name:      s.FirstName + " " + s.LastName,
		}
		recs, err := h.store.List(c.Request().Context(), s.StudentID, day)
		if err != nil {
			return writeError(c, err)
		}
		if len(recs) > 0 {
			rec := recs[0]
			st := rec.Status
			row.Status = &st
			row.Notes = rec.Notes
			row.RecordID = rec.ID
			if rec.CheckIn != nil {
				row.CheckIn = attendance.ToDisplayTime(*rec.CheckIn)
			}
		}
		rows = append(rows, row)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"date":     date,
		"level":    level,
		"section":  section,
		"students": rows,
	})
}
