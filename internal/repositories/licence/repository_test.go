package licence

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/reed/internal/testutil"
)

func TestRepository_GetByID_Query(t *testing.T) {
	db := &testutil.RecordingDB{}
	repo := NewRepository(db, testutil.Logger())

	_, err := repo.GetByID(context.Background(), "licence-1")
	require.NoError(t, err)

	stmt := db.Last()
	assert.Contains(t, stmt.Query, "FROM licences AS l")
	assert.Contains(t, stmt.Query, "licence_document_roles")
	assert.Contains(t, stmt.Query, "AS licence_holder")
	assert.Equal(t, []any{"licence-1"}, stmt.Args)
}

func TestRepository_GetByID_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "not found", err: sql.ErrNoRows, wantCode: http.StatusNotFound},
		{name: "storage failure", err: errors.New("connection reset"), wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewRepository(&testutil.RecordingDB{Err: tt.err}, testutil.Logger())

			_, err := repo.GetByID(context.Background(), "licence-1")

			require.Error(t, err)
			assert.Equal(t, tt.wantCode, httperror.GetStatusCode(err))
		})
	}
}

func TestToLicence(t *testing.T) {
	row := &LicenceRow{
		ID:            "licence-1",
		LicenceRef:    "01/123",
		RegionID:      "region-1",
		LicenceHolder: "Mr J Smith",
	}

	licence := ToLicence(row)

	assert.Equal(t, "01/123", licence.LicenceRef)
	assert.Equal(t, "Mr J Smith", licence.LicenceHolder)
	assert.Nil(t, licence.ExpiredDate)
}

func TestRepository_GetByID_Postgres(t *testing.T) {
	db := testutil.Postgres(t)
	ctx := context.Background()
	repo := NewRepository(db, testutil.Logger())

	t.Run("company holder", func(t *testing.T) {
		f := testutil.Seed(t, db, "Big Farm Co Ltd", "")

		licence, err := repo.GetByID(ctx, f.LicenceID)
		require.NoError(t, err)
		assert.Equal(t, f.LicenceRef, licence.LicenceRef)
		assert.Equal(t, "Big Farm Co Ltd", licence.LicenceHolder)
	})

	t.Run("contact holder", func(t *testing.T) {
		f := testutil.Seed(t, db, "Big Farm Co Ltd", "Smith")

		licence, err := repo.GetByID(ctx, f.LicenceID)
		require.NoError(t, err)
		assert.Equal(t, "Mr John Smith", licence.LicenceHolder)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
		assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))
	})
}
