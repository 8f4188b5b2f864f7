package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/unixplore/apiserver/internal/auth"
	"github.com/unixplore/apiserver/types"
)

// ClubRepository handles persistence for club accounts.
type ClubRepository struct {
	db *sql.DB
}

func NewClubRepository(db *sql.DB) *ClubRepository {
	return &ClubRepository{db: db}
}

const clubColumns = `id, club_id, college_id, name, email, category_id, admin_name, admin_email, password_hash, description, status, logo_key, created_at, updated_at`

func scanClub(row *sql.Row) (types.Club, error) {
	var club types.Club
	err := row.Scan(
		&club.ID,
		&club.PublicID,
		&club.CollegeID,
		&club.Name,
		&club.Email,
		&club.CategoryID,
		&club.AdminName,
		&club.AdminEmail,
		&club.PasswordHash,
		&club.Description,
		&club.Status,
		&club.LogoKey,
		&club.CreatedAt,
		&club.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Club{}, ErrNotFound
		}
		return types.Club{}, err
	}
	return club, nil
}

func (r *ClubRepository) GetByPublicID(ctx context.Context, publicID string) (types.Club, error) {
	const query = `
		SELECT ` + clubColumns + `
		FROM clubs
		WHERE club_id = $1`
	return scanClub(r.db.QueryRowContext(ctx, query, publicID))
}

func (r *ClubRepository) GetByEmail(ctx context.Context, email string) (types.Club, error) {
	const query = `
		SELECT ` + clubColumns + `
		FROM clubs
		WHERE email = $1`
	return scanClub(r.db.QueryRowContext(ctx, query, email))
}

// Create persists a new club with a freshly generated public
// identifier. Same collision discipline as colleges: the unique index
// arbitrates, code collisions retry, email collisions surface as
// ErrDuplicate.
func (r *ClubRepository) Create(ctx context.Context, club types.Club) (types.Club, error) {
	now := time.Now()
	club.CreatedAt = now
	club.UpdatedAt = now

	const query = `
		INSERT INTO clubs (club_id, college_id, name, email, category_id, admin_name, admin_email, password_hash, description, status, logo_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		club.PublicID = auth.NewPublicID(auth.ClubIDPrefix)
		err := r.db.QueryRowContext(
			ctx,
			query,
			club.PublicID,
			club.CollegeID,
			club.Name,
			club.Email,
			club.CategoryID,
			club.AdminName,
			club.AdminEmail,
			club.PasswordHash,
			club.Description,
			club.Status,
			club.LogoKey,
			club.CreatedAt,
			club.UpdatedAt,
		).Scan(&club.ID)
		if err == nil {
			return club, nil
		}
		if constraint, ok := uniqueViolation(err); ok {
			if strings.Contains(constraint, "club_id") {
				continue
			}
			return types.Club{}, ErrDuplicate
		}
		return types.Club{}, err
	}
	return types.Club{}, ErrDuplicate
}

// UpdateDetails applies a partial profile update. Nil fields keep their
// stored value.
func (r *ClubRepository) UpdateDetails(ctx context.Context, publicID string, update types.ClubUpdate) error {
	const query = `
		UPDATE clubs
		SET name = COALESCE($1, name),
			description = COALESCE($2, description),
			admin_name = COALESCE($3, admin_name),
			admin_email = COALESCE($4, admin_email),
			category_id = COALESCE($5, category_id),
			updated_at = $6
		WHERE club_id = $7`
	result, err := r.db.ExecContext(
		ctx,
		query,
		update.Name,
		update.Description,
		update.AdminName,
		update.AdminEmail,
		update.CategoryID,
		time.Now(),
		publicID,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatus moves a club through the approval workflow.
func (r *ClubRepository) SetStatus(ctx context.Context, publicID, status string) error {
	const query = `UPDATE clubs SET status = $1, updated_at = $2 WHERE club_id = $3`
	result, err := r.db.ExecContext(ctx, query, status, time.Now(), publicID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetLogoKey records the object-storage key of the uploaded logo.
func (r *ClubRepository) SetLogoKey(ctx context.Context, publicID, key string) error {
	const query = `UPDATE clubs SET logo_key = $1, updated_at = $2 WHERE club_id = $3`
	result, err := r.db.ExecContext(ctx, query, key, time.Now(), publicID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByCollegeAndStatus counts a college's clubs in the given state.
func (r *ClubRepository) CountByCollegeAndStatus(ctx context.Context, collegeID, status string) (int, error) {
	const query = `SELECT COUNT(1) FROM clubs WHERE college_id = $1 AND status = $2`
	var count int
	if err := r.db.QueryRowContext(ctx, query, collegeID, status).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// ListPendingByCollege returns the dashboard projection of clubs
// awaiting the college admin's decision, newest first.
func (r *ClubRepository) ListPendingByCollege(ctx context.Context, collegeID string) ([]types.PendingClub, error) {
	const query = `
		SELECT club_id, name, email, admin_name, created_at
		FROM clubs
		WHERE college_id = $1 AND status = $2
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, collegeID, types.ClubStatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pending := make([]types.PendingClub, 0)
	for rows.Next() {
		var club types.PendingClub
		if err := rows.Scan(
			&club.ClubID,
			&club.Name,
			&club.Email,
			&club.AdminName,
			&club.CreatedAt,
		); err != nil {
			return nil, err
		}
		pending = append(pending, club)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return pending, nil
}
