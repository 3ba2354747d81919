package models

import "time"

// Profile holds the optional employee contact fields attached to a session.
// Nil pointers map to NULL columns; a profile update replaces all four
// fields, so an omitted field clears the stored value.
type Profile struct {
	FirstName   *string
	LastName    *string
	Email       *string
	PhoneNumber *string
}

// Session is an authorized connection for a company. AuthKey is the opaque
// bearer token returned by authentication; ExpiresAt nil means the session
// never expires.
type Session struct {
	AuthKey   string
	CompanyID string
	Profile
	CreatedAt time.Time
	ExpiresAt *time.Time
}
