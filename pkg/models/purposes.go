package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Purpose is a purpose of use recorded against a return
type Purpose struct {
	Primary   PurposeCode `json:"primary"`
	Secondary PurposeCode `json:"secondary"`
	Tertiary  PurposeCode `json:"tertiary"`
	Alias     string      `json:"alias,omitempty"`
}

type PurposeCode struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Purposes is stored as a jsonb column
type Purposes []Purpose

func (p *Purposes) Scan(src any) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		*p = nil
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("Purposes.Scan: expected []byte, got %T", src)
	}
	return json.Unmarshal(b, p)
}

func (p Purposes) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
