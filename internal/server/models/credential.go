// Package models defines server-side data models persisted in the database.
package models

import "time"

// Credential is a company's login record. PasswordHash and Salt are the
// fixed-length outputs of the scrypt derivation; the password itself is never
// stored or compared in plaintext form.
type Credential struct {
	CompanyID    string
	CompanyName  string
	PasswordHash []byte
	Salt         []byte
	CreatedAt    time.Time
}
