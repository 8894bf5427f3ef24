package handlers

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/brightwood/attendance-api/attendance"
	"github.com/brightwood/attendance-api/models"
)

// DraftHandler exposes the bulk-marking workflow over HTTP. Drafts live in
// process memory only; they are ephemeral edit buffers, never persisted.
type DraftHandler struct {
	store  attendance.Store
	roster attendance.RosterProvider

	mu     sync.Mutex
	drafts map[string]*attendance.Workflow
}

func NewDraftHandler(store attendance.Store, roster attendance.RosterProvider) *DraftHandler {
	return &DraftHandler{
		store:  store,
		roster: roster,
		drafts: map[string]*attendance.Workflow{},
	}
}

func (h *DraftHandler) get(id string) (*attendance.Workflow, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	w, ok := h.drafts[id]
	return w, ok
}

func (h *DraftHandler) render(w *attendance.Workflow) map[string]any {
	counts := w.Counts()
	return map[string]any{
		"id":      w.ID(),
		"state":   w.State(),
		"entries": w.Entries(),
		"counts": map[string]int{
			"present": counts[models.StatusPresent],
			"absent":  counts[models.StatusAbsent],
			"late":    counts[models.StatusLate],
			"excused": counts[models.StatusExcused],
		},
	}
}

type createDraftPayload struct {
	Level   string `json:"level" validate:"required"`
	Section string `json:"section" validate:"required"`
	Subject string `json:"subject"`
	Date    string `json:"date" validate:"required,datetime=2006-01-02"`
	CheckIn string `json:"check_in_time"`
}

// POST /teacher/attendance/drafts — loads the roster into a fresh draft,
// every student defaulting to present.
func (h *DraftHandler) Create(c echo.Context) error {
	var p createDraftPayload
	if err := bindAndValidate(c, &p); err != nil {
		return writeError(c, err)
	}

	w := attendance.NewWorkflow(h.store, h.roster)
	if err := w.LoadRoster(c.Request().Context(), p.Level, p.Section, p.Subject, p.Date); err != nil {
		return writeError(c, err)
	}
	if p.CheckIn != "" {
		if err := w.SetDefaultCheckIn(p.CheckIn); err != nil {
			return writeError(c, err)
		}
	}

	h.mu.Lock()
	h.drafts[w.ID()] = w
	h.mu.Unlock()
	return c.JSON(http.StatusCreated, h.render(w))
}

// GET /teacher/attendance/drafts/:id
func (h *DraftHandler) Get(c echo.Context) error {
	w, ok := h.get(c.Param("id"))
	if !ok {
		return writeError(c, &models.NotFoundError{Resource: "draft", Key: c.Param("id")})
	}
	return c.JSON(http.StatusOK, h.render(w))
}

type draftEntryPayload struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

// PATCH /teacher/attendance/drafts/:id/students/:studentId
func (h *DraftHandler) UpdateEntry(c echo.Context) error {
	w, ok := h.get(c.Param("id"))
	if !ok {
		return writeError(c, &models.NotFoundError{Resource: "draft", Key: c.Param("id")})
	}
	var p draftEntryPayload
	if err := bindAndValidate(c, &p); err != nil {
		return writeError(c, err)
	}
	if p.Status == nil && p.Notes == nil {
		return writeError(c, models.NewValidationError("nothing to update"))
	}
	studentID := c.Param("studentId")
	if p.Status != nil {
		if err := w.SetStatus(studentID, models.Status(*p.Status)); err != nil {
			return writeError(c, err)
		}
	}
	if p.Notes != nil {
		if err := w.SetNotes(studentID, *p.Notes); err != nil {
			return writeError(c, err)
		}
	}
	return c.JSON(http.StatusOK, h.render(w))
}

// POST /teacher/attendance/drafts/:id/mark-all-present
func (h *DraftHandler) MarkAllPresent(c echo.Context) error {
	w, ok := h.get(c.Param("id"))
	if !ok {
		return writeError(c, &models.NotFoundError{Resource: "draft", Key: c.Param("id")})
	}
	if err := w.MarkAllPresent(); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, h.render(w))
}

// POST /teacher/attendance/drafts/:id/save — one atomic write; the draft
// survives a failed save so the client can retry.
func (h *DraftHandler) Save(c echo.Context) error {
	w, ok := h.get(c.Param("id"))
	if !ok {
		return writeError(c, &models.NotFoundError{Resource: "draft", Key: c.Param("id")})
	}
	if err := w.Save(c.Request().Context()); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, h.render(w))
}

// DELETE /teacher/attendance/drafts/:id — discards unconditionally.
func (h *DraftHandler) Discard(c echo.Context) error {
	w, ok := h.get(c.Param("id"))
	if !ok {
		return writeError(c, &models.NotFoundError{Resource: "draft", Key: c.Param("id")})
	}
	w.Discard()
	h.mu.Lock()
	delete(h.drafts, c.Param("id"))
	h.mu.Unlock()
	return c.NoContent(http.StatusNoContent)
}
