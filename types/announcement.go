package types

import "time"

// Announcement is a short post published by a club admin and shown on
// the club's public page.
type Announcement struct {
	ID        int       `json:"id" db:"id"`
	ClubID    string    `json:"clubId" db:"club_id"`
	Title     string    `json:"title" db:"title"`
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// RegistrationLink is a signup link a club admin attaches to its page,
// optionally with a deadline.
type RegistrationLink struct {
	ID        int        `json:"id" db:"id"`
	ClubID    string     `json:"clubId" db:"club_id"`
	Title     string     `json:"title" db:"title"`
	URL       string     `json:"url" db:"url"`
	Deadline  *time.Time `json:"deadline,omitempty" db:"deadline"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// Category classifies clubs for directory filtering.
type Category struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	Slug string `json:"slug" db:"slug"`
}
