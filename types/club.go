package types

import "time"

// Club approval states. A club is only listed publicly once the owning
// college's admin has approved it.
const (
	ClubStatusPending  = "pending"
	ClubStatusApproved = "approved"
	ClubStatusRejected = "rejected"
)

// Club represents a registered student club account.
type Club struct {
	// ID is the internal storage key. It is never used as an API identifier.
	ID int `json:"-" db:"id"`

	// PublicID is the human-shareable club code (e.g. "CLB-204817").
	PublicID string `json:"clubId" db:"club_id"`

	// CollegeID is the public identifier of the owning college. Clubs
	// reference their college by code, not by storage key.
	CollegeID string `json:"collegeId" db:"college_id"`

	Name       string `json:"name" db:"name"`
	Email      string `json:"email" db:"email"`
	CategoryID int    `json:"categoryId" db:"category_id"`
	AdminName  string `json:"adminName" db:"admin_name"`
	AdminEmail string `json:"adminEmail" db:"admin_email"`

	// PasswordHash stores the bcrypt digest of the admin password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	Description string `json:"description" db:"description"`

	// Status is the approval workflow state, controlled by the owning
	// college's admin.
	Status string `json:"status" db:"status"`

	LogoKey string `json:"logo_key,omitempty" db:"logo_key"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ClubUpdate holds the mutable profile fields for a details update.
type ClubUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	AdminName   *string `json:"adminName"`
	AdminEmail  *string `json:"adminEmail"`
	CategoryID  *int    `json:"categoryId"`
}

// ClubSummary is the public directory projection of a club.
type ClubSummary struct {
	ClubID       string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	CategoryName string `json:"category_name"`
	CategorySlug string `json:"category_slug"`
}

// PendingClub is the projection shown on the college admin dashboard
// for clubs awaiting approval.
type PendingClub struct {
	ClubID    string    `json:"clubId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	AdminName string    `json:"adminName"`
	CreatedAt time.Time `json:"created_at"`
}
