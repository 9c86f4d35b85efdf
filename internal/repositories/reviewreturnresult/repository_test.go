package reviewreturnresult

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/reed/internal/testutil"
	"github.com/Ramsey-B/reed/pkg/models"
)

func returnResults(n int) []models.ReviewReturnResult {
	rows := make([]models.ReviewReturnResult, n)
	for i := range rows {
		rows[i] = models.ReviewReturnResult{
			ID:        uuid.NewString(),
			ReturnID:  "v1:1:01/123:1000:2022-04-01:2023-03-31",
			Status:    models.ReturnStatusCompleted,
			Quantity:  decimal.NewFromInt(10),
			Allocated: decimal.NewFromInt(10),
		}
	}
	return rows
}

func TestRepository_InsertMany(t *testing.T) {
	tests := []struct {
		name       string
		rows       int
		batchSize  int
		statements int
	}{
		{name: "empty", rows: 0, batchSize: 10, statements: 0},
		{name: "single batch", rows: 3, batchSize: 10, statements: 1},
		{name: "several batches", rows: 7, batchSize: 3, statements: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &testutil.RecordingDB{}
			repo := NewRepository(db, testutil.Logger(), tt.batchSize)

			require.NoError(t, repo.InsertMany(context.Background(), returnResults(tt.rows)))
			require.Len(t, db.Statements, tt.statements)
			for _, stmt := range db.Statements {
				assert.True(t, strings.HasPrefix(stmt.Query, "INSERT INTO "+Table), stmt.Query)
			}
		})
	}
}

func TestRepository_InsertMany_Error(t *testing.T) {
	db := &testutil.RecordingDB{Err: errors.New("connection reset")}

	err := NewRepository(db, testutil.Logger(), 10).InsertMany(context.Background(), returnResults(2))

	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, httperror.GetStatusCode(err))
}
