// Package inmem holds map-backed implementations of the attendance store
// boundary, used by handler and workflow tests in place of Postgres.
package inmem

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/brightwood/attendance-api/attendance"
	"github.com/brightwood/attendance-api/models"
)

type Store struct {
	mu       sync.Mutex
	nextID   uint
	records  map[uint]models.Attendance
	students map[string]models.Student

	// FailNext makes the next mutating call fail with a StoreError, for
	// exercising failure paths.
	FailNext bool
}

var (
	_ attendance.Store          = (*Store)(nil)
	_ attendance.RosterProvider = (*Store)(nil)
)

func New() *Store {
	return &Store{
		nextID:   1,
		records:  map[uint]models.Attendance{},
		students: map[string]models.Student{},
	}
}

// AddStudent seeds a roster entry.
func (s *Store) AddStudent(st models.Student) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st.Status == "" {
		st.Status = "active"
	}
	s.students[st.StudentID] = st
}

func (s *Store) failNext(op string) error {
	if s.FailNext {
		s.FailNext = false
		return &models.StoreError{Op: op, Cause: fmt.Errorf("injected failure")}
	}
	return nil
}

func (s *Store) List(ctx context.Context, studentID string, period attendance.Period) ([]models.Attendance, error) {
	if err := attendance.ValidateListPeriod(period); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.students[studentID]; !ok {
		return nil, &models.NotFoundError{Resource: "student", Key: studentID}
	}
	var out []models.Attendance
	for _, r := range s.records {
		if r.StudentID == studentID && period.Contains(r.Date) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (s *Store) Create(ctx context.Context, rec models.Attendance) (models.Attendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failNext("create attendance"); err != nil {
		return models.Attendance{}, err
	}
	return s.createLocked(rec)
}

func (s *Store) createLocked(rec models.Attendance) (models.Attendance, error) {
	if err := attendance.ValidateRecord(rec); err != nil {
		return models.Attendance{}, err
	}
	for _, r := range s.records {
		if r.StudentID == rec.StudentID && r.Date == rec.Date {
			return models.Attendance{}, &models.ConflictError{StudentID: rec.StudentID, Date: rec.Date}
		}
	}
	rec.ID = s.nextID
	s.nextID++
	s.records[rec.ID] = rec
	return rec, nil
}

func (s *Store) Update(ctx context.Context, id uint, patch attendance.UpdatePatch) (models.Attendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failNext("update attendance"); err != nil {
		return models.Attendance{}, err
	}
	rec, ok := s.records[id]
	if !ok {
		return models.Attendance{}, &models.NotFoundError{Resource: "attendance record", Key: fmt.Sprint(id)}
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
	s.records[id] = rec
	return rec, nil
}

func (s *Store) Delete(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failNext("delete attendance"); err != nil {
		return err
	}
	if _, ok := s.records[id]; !ok {
		return &models.NotFoundError{Resource: "attendance record", Key: fmt.Sprint(id)}
	}
	delete(s.records, id)
	return nil
}

func (s *Store) BulkCreate(ctx context.Context, recs []models.Attendance) ([]models.Attendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failNext("bulk create attendance"); err != nil {
		return nil, err
	}
	// All-or-nothing, mirroring the transactional Postgres path.
	snapshot := make(map[uint]models.Attendance, len(s.records))
	for k, v := range s.records {
		snapshot[k] = v
	}
	snapshotID := s.nextID
	out := make([]models.Attendance, 0, len(recs))
	for _, rec := range recs {
		created, err := s.createLocked(rec)
		if err != nil {
			s.records = snapshot
			s.nextID = snapshotID
			return nil, err
		}
		out = append(out, created)
	}
	return out, nil
}

func (s *Store) Roster(ctx context.Context, level, section string) ([]models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Student
	for _, st := range s.students {
		if st.Level == level && st.Section == section && st.Status == "active" {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StudentID < out[j].StudentID })
	return out, nil
}

// All returns every stored record, date then student ascending. Test helper.
func (s *Store) All() []models.Attendance {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Attendance, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].StudentID < out[j].StudentID
	})
	return out
}
