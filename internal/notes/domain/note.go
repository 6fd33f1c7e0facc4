package domain

import "time"

type Note struct {
	ID        string
	Title     string
	Content   string
	TenantID  string
	AuthorID  string
	CreatedAt time.Time
	UpdatedAt time.Time

	// AuthorEmail is joined in on reads for response payloads; it is not a
	// column on the notes table.
	AuthorEmail string
}
