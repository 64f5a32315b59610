package model

import (
	"encoding/json"
	"fmt"
)

// Label is an entry of one of the small lookup tables (ages, genders,
// categories). It serializes as [id, label, description].
type Label struct {
	ID          int16
	Label       string
	Description string
}

func (l Label) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{l.ID, l.Label, l.Description})
}

func (l *Label) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 3 {
		return fmt.Errorf("label: expected 3 elements, got %d", len(raw))
	}
	if err := json.Unmarshal(raw[0], &l.ID); err != nil {
		return err
	}
	if err := json.Unmarshal(raw[1], &l.Label); err != nil {
		return err
	}
	return json.Unmarshal(raw[2], &l.Description)
}

// LabelKind names a lookup table.
type LabelKind string

const (
	LabelAges       LabelKind = "ages"
	LabelGenders    LabelKind = "genders"
	LabelCategories LabelKind = "categories"
)
