package uuid

import (
	"database/sql/driver"
	"fmt"

	"github.com/google/uuid"
)

// UUID is a thin wrapper around google's uuid.UUID that implements database
// scanning and driver.Value interfaces. It is stored as BINARY(16).
type UUID uuid.UUID

// Nil is the zero UUID.
var Nil UUID

// NewUUID creates a new random UUID.
func NewUUID() UUID {
	return UUID(uuid.New())
}

// Parse decodes the canonical textual form of a UUID.
func Parse(s string) (UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return Nil, err
	}
	return UUID(id), nil
}

func (u UUID) String() string {
	return uuid.UUID(u).String()
}

func (u UUID) IsNil() bool {
	return u == Nil
}

func (u *UUID) Scan(src interface{}) error {
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("UUID.Scan: expected []byte, got %T", src)
	}
	id, err := uuid.FromBytes(b)
	if err != nil {
		return err
	}
	*u = UUID(id)
	return nil
}

func (u UUID) Value() (driver.Value, error) {
	return uuid.UUID(u).MarshalBinary()
}

func (u UUID) MarshalText() ([]byte, error) {
	return []byte(uuid.UUID(u).String()), nil
}

func (u *UUID) UnmarshalText(text []byte) error {
	parsed, err := uuid.ParseBytes(text)
	if err != nil {
		return err
	}
	*u = UUID(parsed)
	return nil
}

// NullUUID scans a nullable BINARY(16) column.
type NullUUID struct {
	UUID  UUID
	Valid bool
}

func (n *NullUUID) Scan(src interface{}) error {
	if src == nil {
		n.UUID, n.Valid = Nil, false
		return nil
	}
	n.Valid = true
	return n.UUID.Scan(src)
}

func (n NullUUID) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.UUID.Value()
}

// Ptr returns nil when the value is NULL.
func (n NullUUID) Ptr() *UUID {
	if !n.Valid {
		return nil
	}
	id := n.UUID
	return &id
}

// NullFrom wraps an optional UUID for use as a query argument.
func NullFrom(id *UUID) NullUUID {
	if id == nil {
		return NullUUID{}
	}
	return NullUUID{UUID: *id, Valid: true}
}
