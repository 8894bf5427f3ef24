package inmem_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightwood/attendance-api/attendance"
	"github.com/brightwood/attendance-api/models"
	"github.com/brightwood/attendance-api/store/inmem"
)

func seed(db *inmem.Store, ids ...string) {
	for _, id := range ids {
		db.AddStudent(models.Student{StudentID: id, FirstName: "Test", LastName: id, Level: "8", Section: "A"})
	}
}

func TestListRejectsInvertedPeriod(t *testing.T) {
	db := inmem.New()
	seed(db, "ST1")

	_, err := db.List(context.Background(), "ST1", attendance.Period{Start: "2025-04-30", End: "2025-04-01"})
	var vErr *models.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestCreateRejectsMalformedRecords(t *testing.T) {
	db := inmem.New()
	seed(db, "ST1")
	in, out := "09:00:00", "08:00:00"

	tests := []struct {
		name string
		rec  models.Attendance
	}{
		{name: "missing student", rec: models.Attendance{Date: "2025-04-05", Status: models.StatusPresent}},
		{name: "missing date", rec: models.Attendance{StudentID: "ST1", Status: models.StatusPresent}},
		{name: "unknown status", rec: models.Attendance{StudentID: "ST1", Date: "2025-04-05", Status: "asleep"}},
		{name: "check-out before check-in", rec: models.Attendance{
			StudentID: "ST1", Date: "2025-04-05", Status: models.StatusPresent, CheckIn: &in, CheckOut: &out,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.Create(context.Background(), tt.rec)
			var vErr *models.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Empty(t, db.All())
		})
	}
}

func TestUpdateRejectsInvalidPatchResult(t *testing.T) {
	db := inmem.New()
	seed(db, "ST1")
	in := "09:00:00"
	created, err := db.Create(context.Background(), models.Attendance{
		StudentID: "ST1", Date: "2025-04-05", Status: models.StatusPresent, CheckIn: &in,
	})
	require.NoError(t, err)

	// Patch would leave check-out before check-in; the record must not change.
	out := "08:00:00"
	_, err = db.Update(context.Background(), created.ID, attendance.UpdatePatch{CheckOut: &out})
	var vErr *models.ValidationError
	require.ErrorAs(t, err, &vErr)

	all := db.All()
	require.Len(t, all, 1)
	assert.Nil(t, all[0].CheckOut)
}

func TestBulkCreateRollbackRestoresIDs(t *testing.T) {
	db := inmem.New()
	seed(db, "ST1", "ST2")

	first, err := db.Create(context.Background(), models.Attendance{
		StudentID: "ST1", Date: "2025-04-05", Status: models.StatusPresent,
	})
	require.NoError(t, err)
	require.Equal(t, uint(1), first.ID)

	// Second row duplicates ST1's day; the batch rolls back whole.
	_, err = db.BulkCreate(context.Background(), []models.Attendance{
		{StudentID: "ST2", Date: "2025-04-05", Status: models.StatusPresent},
		{StudentID: "ST1", Date: "2025-04-05", Status: models.StatusPresent},
	})
	var cErr *models.ConflictError
	require.ErrorAs(t, err, &cErr)
	require.Len(t, db.All(), 1)

	// The id sequence rewinds with the rollback.
	next, err := db.Create(context.Background(), models.Attendance{
		StudentID: "ST2", Date: "2025-04-05", Status: models.StatusPresent,
	})
	require.NoError(t, err)
	assert.Equal(t, uint(2), next.ID)
}
