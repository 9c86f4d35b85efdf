package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/Ramsey-B/reed/pkg/database"
)

// Fixture ids for one seeded bill run and licence
type Fixture struct {
	RegionID   string
	BillRunID  string
	LicenceID  string
	LicenceRef string
	CompanyID  string
}

// Seed inserts a region, bill run and licence held by holderCompany. A non-empty contactLastName
// attaches a contact to the licence holder role.
func Seed(t *testing.T, db database.DB, holderCompany, contactLastName string) Fixture {
	t.Helper()
	ctx := context.Background()

	f := Fixture{
		RegionID:   uuid.NewString(),
		BillRunID:  uuid.NewString(),
		LicenceID:  uuid.NewString(),
		LicenceRef: "TEST/" + uuid.NewString()[:8],
		CompanyID:  uuid.NewString(),
	}
	documentID := uuid.NewString()

	var contactID *string
	if contactLastName != "" {
		id := uuid.NewString()
		contactID = &id
	}

	exec(ctx, t, db, `INSERT INTO regions (id, charge_region_id, name, display_name) VALUES ($1, 'A', 'Anglian', 'Anglian')`, f.RegionID)
	exec(ctx, t, db, `INSERT INTO bill_runs (id, region_id, bill_run_number, batch_type, scheme, status, from_financial_year_ending, to_financial_year_ending)
		VALUES ($1, $2, 1001, 'two_part_tariff', 'sroc', 'review', 2023, 2023)`, f.BillRunID, f.RegionID)
	exec(ctx, t, db, `INSERT INTO licences (id, licence_ref, region_id, start_date) VALUES ($1, $2, $3, '2020-04-01')`, f.LicenceID, f.LicenceRef, f.RegionID)
	exec(ctx, t, db, `INSERT INTO companies (id, name) VALUES ($1, $2)`, f.CompanyID, holderCompany)
	if contactID != nil {
		exec(ctx, t, db, `INSERT INTO contacts (id, salutation, first_name, last_name) VALUES ($1, 'Mr', 'John', $2)`, *contactID, contactLastName)
	}
	exec(ctx, t, db, `INSERT INTO licence_documents (id, licence_ref, start_date) VALUES ($1, $2, '2020-04-01')`, documentID, f.LicenceRef)
	exec(ctx, t, db, `INSERT INTO licence_document_roles (licence_document_id, role, company_id, contact_id, start_date)
		VALUES ($1, 'licenceHolder', $2, $3, '2020-04-01')`, documentID, f.CompanyID, contactID)

	return f
}

func exec(ctx context.Context, t *testing.T, db database.DB, query string, args ...any) {
	t.Helper()
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		t.Fatalf("failed to seed fixture: %v", err)
	}
}
