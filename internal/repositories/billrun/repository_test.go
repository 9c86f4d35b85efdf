package billrun

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/reed/internal/testutil"
	"github.com/Ramsey-B/reed/pkg/models"
)

func TestRepository_GetByID_Query(t *testing.T) {
	db := &testutil.RecordingDB{}
	repo := NewRepository(db, testutil.Logger())

	_, err := repo.GetByID(context.Background(), "bill-run-1")
	require.NoError(t, err)

	stmt := db.Last()
	assert.Contains(t, stmt.Query, "FROM bill_runs AS br")
	assert.Contains(t, stmt.Query, "JOIN regions AS r ON r.id = br.region_id")
	assert.Equal(t, []any{"bill-run-1"}, stmt.Args)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo := NewRepository(&testutil.RecordingDB{Err: sql.ErrNoRows}, testutil.Logger())

	_, err := repo.GetByID(context.Background(), "bill-run-1")

	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))
}

func TestToBillRun(t *testing.T) {
	billRun := ToBillRun(&BillRunRow{
		ID:                "bill-run-1",
		Status:            "review",
		RegionID:          "region-1",
		RegionDisplayName: "Anglian",
	})

	assert.Equal(t, models.BillRunStatus("review"), billRun.Status)
	assert.Equal(t, models.Region{ID: "region-1", DisplayName: "Anglian"}, billRun.Region)
}

func TestRepository_GetByID_Postgres(t *testing.T) {
	db := testutil.Postgres(t)
	f := testutil.Seed(t, db, "Big Farm Co Ltd", "")

	billRun, err := NewRepository(db, testutil.Logger()).GetByID(context.Background(), f.BillRunID)
	require.NoError(t, err)

	assert.Equal(t, f.BillRunID, billRun.ID)
	assert.Equal(t, 1001, billRun.BillRunNumber)
	assert.Equal(t, "Anglian", billRun.Region.DisplayName)
	assert.Equal(t, 2023, billRun.ToFinancialYearEnding)
}
