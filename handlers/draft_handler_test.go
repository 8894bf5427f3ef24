package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightwood/attendance-api/models"
	"github.com/brightwood/attendance-api/store/inmem"
)

type draftResponse struct {
	ID      string `json:"id"`
	State   string `json:"state"`
	Entries []struct {
		StudentID string `json:"student_id"`
		Status    string `json:"status"`
		Notes     string `json:"notes"`
	} `json:"entries"`
	Counts map[string]int `json:"counts"`
}

func openDraft(t *testing.T, e *echo.Echo, h *DraftHandler, body map[string]any) draftResponse {
	t.Helper()
	c, rec := newRequest(e, http.MethodPost, "/teacher/attendance/drafts", body)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp draftResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestDraftLifecycle(t *testing.T) {
	e := echo.New()
	db := inmem.New()
	for _, id := range []string{"ST1", "ST2", "ST3", "ST4", "ST5"} {
		seedStudent(db, id)
	}
	h := NewDraftHandler(db, db)

	resp := openDraft(t, e, h, map[string]any{
		"level": "8", "section": "A", "subject": "MATH", "date": "2025-04-05",
	})
	assert.Equal(t, "roster_loaded", resp.State)
	require.Len(t, resp.Entries, 5)
	assert.Equal(t, 5, resp.Counts["present"], "roster defaults to present")

	// One student goes absent.
	c, rec := newRequest(e, http.MethodPatch, "/", map[string]any{"status": "absent"})
	c.SetParamNames("id", "studentId")
	c.SetParamValues(resp.ID, "ST2")
	require.NoError(t, h.UpdateEntry(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "editing", resp.State)
	assert.Equal(t, 4, resp.Counts["present"])
	assert.Equal(t, 1, resp.Counts["absent"])

	// Save persists the whole draft and clears it.
	c, rec = newRequest(e, http.MethodPost, "/", nil)
	c.SetParamNames("id")
	c.SetParamValues(resp.ID)
	require.NoError(t, h.Save(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "saved", resp.State)
	assert.Empty(t, resp.Entries)

	all := db.All()
	require.Len(t, all, 5)
	for _, r := range all {
		if r.StudentID == "ST2" {
			assert.Equal(t, models.StatusAbsent, r.Status)
		} else {
			assert.Equal(t, models.StatusPresent, r.Status)
		}
	}
}

func TestDraftSaveWithoutSubject(t *testing.T) {
	e := echo.New()
	db := inmem.New()
	seedStudent(db, "ST1")
	h := NewDraftHandler(db, db)

	resp := openDraft(t, e, h, map[string]any{
		"level": "8", "section": "A", "date": "2025-04-05",
	})

	c, rec := newRequest(e, http.MethodPost, "/", nil)
	c.SetParamNames("id")
	c.SetParamValues(resp.ID)
	require.NoError(t, h.Save(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "subject")
	assert.Empty(t, db.All())

	// Draft still intact.
	c, rec = newRequest(e, http.MethodGet, "/", nil)
	c.SetParamNames("id")
	c.SetParamValues(resp.ID)
	require.NoError(t, h.Get(c))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Entries, 1)
}

func TestDraftMarkAllPresent(t *testing.T) {
	e := echo.New()
	db := inmem.New()
	for _, id := range []string{"ST1", "ST2", "ST3"} {
		seedStudent(db, id)
	}
	h := NewDraftHandler(db, db)

	resp := openDraft(t, e, h, map[string]any{
		"level": "8", "section": "A", "subject": "MATH", "date": "2025-04-05",
	})

	c, _ := newRequest(e, http.MethodPatch, "/", map[string]any{"status": "absent"})
	c.SetParamNames("id", "studentId")
	c.SetParamValues(resp.ID, "ST1")
	require.NoError(t, h.UpdateEntry(c))

	c, rec := newRequest(e, http.MethodPost, "/", nil)
	c.SetParamNames("id")
	c.SetParamValues(resp.ID)
	require.NoError(t, h.MarkAllPresent(c))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Counts["present"])
	assert.Zero(t, resp.Counts["absent"])
}

func TestDraftUnknownStudentLeavesStateAlone(t *testing.T) {
	e := echo.New()
	db := inmem.New()
	seedStudent(db, "ST1")
	h := NewDraftHandler(db, db)

	resp := openDraft(t, e, h, map[string]any{
		"level": "8", "section": "A", "subject": "MATH", "date": "2025-04-05",
	})

	c, rec := newRequest(e, http.MethodPatch, "/", map[string]any{"status": "late"})
	c.SetParamNames("id", "studentId")
	c.SetParamValues(resp.ID, "ST999")
	require.NoError(t, h.UpdateEntry(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newRequest(e, http.MethodGet, "/", nil)
	c.SetParamNames("id")
	c.SetParamValues(resp.ID)
	require.NoError(t, h.Get(c))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "roster_loaded", resp.State)
}

func TestDraftDiscard(t *testing.T) {
	e := echo.New()
	db := inmem.New()
	seedStudent(db, "ST1")
	h := NewDraftHandler(db, db)

	resp := openDraft(t, e, h, map[string]any{
		"level": "8", "section": "A", "subject": "MATH", "date": "2025-04-05",
	})

	c, rec := newRequest(e, http.MethodDelete, "/", nil)
	c.SetParamNames("id")
	c.SetParamValues(resp.ID)
	require.NoError(t, h.Discard(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// The draft is gone.
	c, rec = newRequest(e, http.MethodGet, "/", nil)
	c.SetParamNames("id")
	c.SetParamValues(resp.ID)
	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, db.All())
}

func TestDraftSaveFailureRetry(t *testing.T) {
	e := echo.New()
	db := inmem.New()
	seedStudent(db, "ST1")
	h := NewDraftHandler(db, db)

	resp := openDraft(t, e, h, map[string]any{
		"level": "8", "section": "A", "subject": "MATH", "date": "2025-04-05",
	})

	db.FailNext = true
	c, rec := newRequest(e, http.MethodPost, "/", nil)
	c.SetParamNames("id")
	c.SetParamValues(resp.ID)
	require.NoError(t, h.Save(c))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Empty(t, db.All())

	// The retained draft saves cleanly on retry.
	c, rec = newRequest(e, http.MethodPost, "/", nil)
	c.SetParamNames("id")
	c.SetParamValues(resp.ID)
	require.NoError(t, h.Save(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, db.All(), 1)
}
