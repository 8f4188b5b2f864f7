package types

import "time"

// College represents a registered college account in the directory.
// It carries the public identity shown to visitors and the admin
// credential material used for the dashboard login.
type College struct {
	// ID is the internal storage key. It is never used as an API identifier.
	ID int `json:"-" db:"id"`

	// PublicID is the human-shareable college code (e.g. "CLG-482913").
	// It is generated server-side at registration and immutable afterwards.
	PublicID string `json:"collegeId" db:"college_id"`

	// Name is the college's display name.
	Name string `json:"name" db:"name"`

	// Email is the admin contact address. Unique per college.
	Email string `json:"email" db:"email"`

	// PasswordHash stores the bcrypt digest of the admin password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	Location        string `json:"location,omitempty" db:"location"`
	City            string `json:"city,omitempty" db:"city"`
	State           string `json:"state,omitempty" db:"state"`
	OfficialWebsite string `json:"official_website,omitempty" db:"official_website"`
	OfficialEmail   string `json:"official_email,omitempty" db:"official_email"`

	// LogoKey is the object-storage key of the uploaded logo, if any.
	LogoKey string `json:"logo_key,omitempty" db:"logo_key"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CollegeUpdate holds the mutable profile fields for a details update.
// Nil pointers mean "leave unchanged".
type CollegeUpdate struct {
	Name            *string `json:"name"`
	Location        *string `json:"location"`
	City            *string `json:"city"`
	State           *string `json:"state"`
	OfficialWebsite *string `json:"official_website"`
	OfficialEmail   *string `json:"official_email"`
}

// CollegeSummary is the public directory projection of a college,
// including its approved clubs.
type CollegeSummary struct {
	CollegeID       string        `json:"college_id"`
	Name            string        `json:"name"`
	Location        string        `json:"location"`
	City            string        `json:"city"`
	State           string        `json:"state"`
	OfficialWebsite string        `json:"official_website"`
	OfficialEmail   string        `json:"official_email"`
	Clubs           []ClubSummary `json:"clubs"`
}
