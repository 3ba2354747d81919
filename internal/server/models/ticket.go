package models

import "time"

// Ticket is a submitted support request. Photo, when present, is the
// base64-encoded image exactly as received; tickets are immutable once
// created.
type Ticket struct {
	ID          int64
	AuthKey     string
	Description string
	Location    *string
	Photo       *string
	CreatedAt   time.Time
}
