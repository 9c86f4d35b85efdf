package models

import "time"

type Licence struct {
	ID            string     `db:"id" json:"id"`
	LicenceRef    string     `db:"licence_ref" json:"licence_ref"`
	RegionID      string     `db:"region_id" json:"region_id"`
	StartDate     time.Time  `db:"start_date" json:"start_date"`
	ExpiredDate   *time.Time `db:"expired_date" json:"expired_date,omitempty"`
	LapsedDate    *time.Time `db:"lapsed_date" json:"lapsed_date,omitempty"`
	RevokedDate   *time.Time `db:"revoked_date" json:"revoked_date,omitempty"`
	LicenceHolder string     `db:"-" json:"licence_holder"`
}
