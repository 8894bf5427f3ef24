package attendance

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/brightwood/attendance-api/models"
)

// WorkflowState names the bulk-marking draft's lifecycle stage.
type WorkflowState string

const (
	StateEmpty        WorkflowState = "empty"
	StateRosterLoaded WorkflowState = "roster_loaded"
	StateEditing      WorkflowState = "editing"
	StateSaving       WorkflowState = "saving"
	StateSaved        WorkflowState = "saved"
	StateFailed       WorkflowState = "failed"
)

// Entry is one student's line in the draft.
type Entry struct {
	StudentID string        `json:"student_id"`
	Name      string        `json:"name"`
	Status    models.Status `json:"status"`
	Notes     string        `json:"notes"`
}

// Workflow is the bulk-marking state machine: one in-memory draft covering a
// level/section/subject/date, persisted in a single all-or-nothing store
// call. A failed save keeps the draft verbatim so the user can retry; a
// successful save clears it.
type Workflow struct {
	store  Store
	roster RosterProvider

	mu      sync.Mutex
	saving  bool
	id      string
	state   WorkflowState
	level   string
	section string
	subject string
	date    string
	checkIn string // storage form, stamped on present entries at save
	entries []Entry
	index   map[string]int // studentID -> position in entries
}

// NewWorkflow returns an empty draft bound to a store and roster provider.
func NewWorkflow(store Store, roster RosterProvider) *Workflow {
	return &Workflow{
		store:  store,
		roster: roster,
		id:     uuid.NewString(),
		state:  StateEmpty,
		index:  map[string]int{},
	}
}

// ID returns the draft's identity, assigned at construction.
func (w *Workflow) ID() string { return w.id }

// State returns the current lifecycle stage.
func (w *Workflow) State() WorkflowState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Entries returns a copy of the draft lines in roster order.
func (w *Workflow) Entries() []Entry {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Entry, len(w.entries))
	copy(out, w.entries)
	return out
}

// Counts tallies the draft per status, the same shape Summarize produces
// for persisted records.
func (w *Workflow) Counts() map[models.Status]int {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := map[models.Status]int{}
	for _, e := range w.entries {
		out[e.Status]++
	}
	return out
}

// LoadRoster fills the draft with one entry per enrolled student, default
// status present. Allowed from Empty, Saved and Failed; a draft that is
// still being edited must be saved or discarded first.
func (w *Workflow) LoadRoster(ctx context.Context, level, section, subject, date string) error {
	w.mu.Lock()
	switch w.state {
	case StateEmpty, StateSaved, StateFailed:
	case StateSaving:
		w.mu.Unlock()
		return &models.BusyError{DraftID: w.id}
	default:
		w.mu.Unlock()
		return models.NewValidationError("a draft is already in progress; save or discard it first")
	}
	w.mu.Unlock()

	students, err := w.roster.Roster(ctx, level, section)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.level, w.section, w.subject, w.date = level, section, subject, date
	w.entries = make([]Entry, 0, len(students))
	w.index = make(map[string]int, len(students))
	for i, s := range students {
		w.entries = append(w.entries, Entry{
			StudentID: s.StudentID,
			Name:      s.FirstName + " " + s.LastName,
			Status:    models.StatusPresent,
		})
		w.index[s.StudentID] = i
	}
	w.state = StateRosterLoaded
	return nil
}

// SetStatus changes one draft entry's status. Unknown students and statuses
// are rejected without touching the draft.
func (w *Workflow) SetStatus(studentID string, status models.Status) error {
	if !status.Valid() {
		return &models.ValidationError{
			Message: "unknown attendance status",
			Fields:  map[string]string{"status": string(status)},
		}
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.editable(); err != nil {
		return err
	}
	i, ok := w.index[studentID]
	if !ok {
		return &models.ValidationError{
			Message: "student is not on the loaded roster",
			Fields:  map[string]string{"student_id": studentID},
		}
	}
	w.entries[i].Status = status
	w.state = StateEditing
	return nil
}

// SetNotes replaces one draft entry's notes.
func (w *Workflow) SetNotes(studentID, notes string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.editable(); err != nil {
		return err
	}
	i, ok := w.index[studentID]
	if !ok {
		return &models.ValidationError{
			Message: "student is not on the loaded roster",
			Fields:  map[string]string{"student_id": studentID},
		}
	}
	w.entries[i].Notes = notes
	w.state = StateEditing
	return nil
}

// MarkAllPresent resets every entry to present in one step.
func (w *Workflow) MarkAllPresent() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.editable(); err != nil {
		return err
	}
	for i := range w.entries {
		w.entries[i].Status = models.StatusPresent
	}
	w.state = StateEditing
	return nil
}

// SetDefaultCheckIn records a display time (HH:MM) stamped as check-in on
// every present entry when the draft is saved.
func (w *Workflow) SetDefaultCheckIn(hhmm string) error {
	stored, err := ToStorageTime(hhmm)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.editable(); err != nil {
		return err
	}
	w.checkIn = stored
	w.state = StateEditing
	return nil
}

// editable is called with w.mu held.
func (w *Workflow) editable() error {
	switch w.state {
	case StateRosterLoaded, StateEditing, StateFailed:
		return nil
	case StateSaving:
		return &models.BusyError{DraftID: w.id}
	default:
		return models.NewValidationError("no roster loaded")
	}
}

// Save persists the whole draft through one atomic store call. Level,
// section and subject must all be selected before anything is sent. Only
// one save may be in flight per draft; re-entrant calls get BusyError. On
// success the draft is cleared; on failure it is kept unchanged for retry.
func (w *Workflow) Save(ctx context.Context) error {
	w.mu.Lock()
	if w.saving {
		w.mu.Unlock()
		return &models.BusyError{DraftID: w.id}
	}
	switch w.state {
	case StateRosterLoaded, StateEditing, StateFailed:
	default:
		w.mu.Unlock()
		return models.NewValidationError("no roster loaded")
	}
	fields := map[string]string{}
	if w.level == "" || w.section == "" {
		fields["class"] = "level and section must be selected"
	}
	if w.subject == "" {
		fields["subject"] = "subject must be selected"
	}
	if len(fields) > 0 {
		w.mu.Unlock()
		return &models.ValidationError{Message: "draft is missing required selections", Fields: fields}
	}

	recs := make([]models.Attendance, 0, len(w.entries))
	for _, e := range w.entries {
		rec := models.Attendance{
			StudentID: e.StudentID,
			Date:      w.date,
			Status:    e.Status,
			Notes:     e.Notes,
		}
		if e.Status == models.StatusPresent && w.checkIn != "" {
			t := w.checkIn
			rec.CheckIn = &t
		}
		recs = append(recs, rec)
	}
	w.saving = true
	w.state = StateSaving
	w.mu.Unlock()

	_, err := w.store.BulkCreate(ctx, recs)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.saving = false
	if w.state != StateSaving {
		// Discarded while the save was in flight; the draft is gone either way.
		return err
	}
	if err != nil {
		// Edits are locked out while saving, so the draft is exactly as it
		// was before the call; retrying is safe.
		w.state = StateFailed
		return err
	}
	w.clearLocked()
	w.state = StateSaved
	return nil
}

// Discard drops the draft unconditionally and returns to Empty. A save that
// is already in flight is not cancelled; its outcome is simply ignored.
func (w *Workflow) Discard() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.clearLocked()
	w.state = StateEmpty
}

// clearLocked is called with w.mu held.
func (w *Workflow) clearLocked() {
	w.level, w.section, w.subject, w.date, w.checkIn = "", "", "", "", ""
	w.entries = nil
	w.index = map[string]int{}
}
