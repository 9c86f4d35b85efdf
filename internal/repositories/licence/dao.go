package licence

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Ramsey-B/reed/pkg/models"
)

const (
	licencesTable = "licences"

	// RoleLicenceHolder is the licence document role naming the licence holder
	RoleLicenceHolder = "licenceHolder"
)

// LicenceRow represents the database row for a licence with its holder name
type LicenceRow struct {
	ID            string       `db:"id"`
	LicenceRef    string       `db:"licence_ref"`
	RegionID      string       `db:"region_id"`
	StartDate     sql.NullTime `db:"start_date"`
	ExpiredDate   sql.NullTime `db:"expired_date"`
	LapsedDate    sql.NullTime `db:"lapsed_date"`
	RevokedDate   sql.NullTime `db:"revoked_date"`
	LicenceHolder string       `db:"licence_holder"`
}

// HolderNameColumn selects the current licence holder's name for the licence aliased as alias.
// A contact's name wins over the company name; no current holder yields an empty string.
func HolderNameColumn(alias string) string {
	return fmt.Sprintf(`COALESCE((
		SELECT COALESCE(NULLIF(TRIM(CASE
				WHEN ct.contact_type = 'department' THEN ct.department
				ELSE CONCAT_WS(' ', ct.salutation, COALESCE(ct.initials, ct.first_name), ct.last_name)
			END), ''), co.name)
		FROM licence_documents ld
		JOIN licence_document_roles ldr ON ldr.licence_document_id = ld.id AND ldr.role = '%s'
		LEFT JOIN companies co ON co.id = ldr.company_id
		LEFT JOIN contacts ct ON ct.id = ldr.contact_id
		WHERE ld.licence_ref = %s.licence_ref AND ld.end_date IS NULL AND ldr.end_date IS NULL
		ORDER BY ldr.start_date DESC
		LIMIT 1
	), '') AS licence_holder`, RoleLicenceHolder, alias)
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}

// ToLicence converts a database row to a domain model
func ToLicence(row *LicenceRow) *models.Licence {
	return &models.Licence{
		ID:            row.ID,
		LicenceRef:    row.LicenceRef,
		RegionID:      row.RegionID,
		StartDate:     row.StartDate.Time,
		ExpiredDate:   nullTime(row.ExpiredDate),
		LapsedDate:    nullTime(row.LapsedDate),
		RevokedDate:   nullTime(row.RevokedDate),
		LicenceHolder: row.LicenceHolder,
	}
}
