package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/unixplore/apiserver/internal/auth"
	"github.com/unixplore/apiserver/types"
)

// maxIDAttempts bounds the regenerate-on-collision loop for public
// identifiers. The code space is ~900k values, so collisions are rare
// and a handful of retries is plenty.
const maxIDAttempts = 5

// CollegeRepository handles persistence for college accounts.
type CollegeRepository struct {
	db *sql.DB
}

func NewCollegeRepository(db *sql.DB) *CollegeRepository {
	return &CollegeRepository{db: db}
}

const collegeColumns = `id, college_id, name, email, password_hash, location, city, state, official_website, official_email, logo_key, created_at, updated_at`

func scanCollege(row *sql.Row) (types.College, error) {
	var college types.College
	err := row.Scan(
		&college.ID,
		&college.PublicID,
		&college.Name,
		&college.Email,
		&college.PasswordHash,
		&college.Location,
		&college.City,
		&college.State,
		&college.OfficialWebsite,
		&college.OfficialEmail,
		&college.LogoKey,
		&college.CreatedAt,
		&college.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.College{}, ErrNotFound
		}
		return types.College{}, err
	}
	return college, nil
}

func (r *CollegeRepository) GetByPublicID(ctx context.Context, publicID string) (types.College, error) {
	const query = `
		SELECT ` + collegeColumns + `
		FROM colleges
		WHERE college_id = $1`
	return scanCollege(r.db.QueryRowContext(ctx, query, publicID))
}

func (r *CollegeRepository) GetByEmail(ctx context.Context, email string) (types.College, error) {
	const query = `
		SELECT ` + collegeColumns + `
		FROM colleges
		WHERE email = $1`
	return scanCollege(r.db.QueryRowContext(ctx, query, email))
}

// Create persists a new college with a freshly generated public
// identifier. The unique index on college_id arbitrates concurrent
// generations; on a code collision the insert is retried with a new
// code, while an email collision surfaces as ErrDuplicate.
func (r *CollegeRepository) Create(ctx context.Context, college types.College) (types.College, error) {
	now := time.Now()
	college.CreatedAt = now
	college.UpdatedAt = now

	const query = `
		INSERT INTO colleges (college_id, name, email, password_hash, location, city, state, official_website, official_email, logo_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		college.PublicID = auth.NewPublicID(auth.CollegeIDPrefix)
		err := r.db.QueryRowContext(
			ctx,
			query,
			college.PublicID,
			college.Name,
			college.Email,
			college.PasswordHash,
			college.Location,
			college.City,
			college.State,
			college.OfficialWebsite,
			college.OfficialEmail,
			college.LogoKey,
			college.CreatedAt,
			college.UpdatedAt,
		).Scan(&college.ID)
		if err == nil {
			return college, nil
		}
		if constraint, ok := uniqueViolation(err); ok {
			if strings.Contains(constraint, "college_id") {
				continue
			}
			return types.College{}, ErrDuplicate
		}
		return types.College{}, err
	}
	return types.College{}, ErrDuplicate
}

// UpdateDetails applies a partial profile update. Nil fields keep their
// stored value.
func (r *CollegeRepository) UpdateDetails(ctx context.Context, publicID string, update types.CollegeUpdate) error {
	const query = `
		UPDATE colleges
		SET name = COALESCE($1, name),
			location = COALESCE($2, location),
			city = COALESCE($3, city),
			state = COALESCE($4, state),
			official_website = COALESCE($5, official_website),
			official_email = COALESCE($6, official_email),
			updated_at = $7
		WHERE college_id = $8`
	result, err := r.db.ExecContext(
		ctx,
		query,
		update.Name,
		update.Location,
		update.City,
		update.State,
		update.OfficialWebsite,
		update.OfficialEmail,
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

// SetLogoKey records the object-storage key of the uploaded logo.
func (r *CollegeRepository) SetLogoKey(ctx context.Context, publicID, key string) error {
	const query = `UPDATE colleges SET logo_key = $1, updated_at = $2 WHERE college_id = $3`
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

// DirectoryFilter narrows a public directory search. Empty fields
// match everything.
type DirectoryFilter struct {
	PublicID string
	Search   string
	City     string
	State    string
}

// Search returns colleges matching the filter, each with its approved
// clubs aggregated. Club rows are aggregated to JSON in the database
// and decoded here, which keeps the query a single round trip.
func (r *CollegeRepository) Search(ctx context.Context, filter DirectoryFilter) ([]types.CollegeSummary, error) {
	query := `
		SELECT
			c.college_id,
			c.name,
			c.location,
			c.city,
			c.state,
			c.official_website,
			c.official_email,
			COALESCE(
				json_agg(
					json_build_object(
						'id', cl.club_id,
						'name', cl.name,
						'description', cl.description,
						'category_name', COALESCE(cat.name, ''),
						'category_slug', COALESCE(cat.slug, '')
					)
				) FILTER (WHERE cl.id IS NOT NULL),
				'[]'
			) AS clubs
		FROM colleges c
		LEFT JOIN clubs cl ON cl.college_id = c.college_id AND cl.status = 'approved'
		LEFT JOIN categories cat ON cat.id = cl.category_id
		WHERE 1 = 1`

	var args []any
	if filter.PublicID != "" {
		args = append(args, strings.ToUpper(filter.PublicID))
		query += fmt.Sprintf(" AND c.college_id = $%d", len(args))
	} else if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND (c.name ILIKE $%d OR c.college_id ILIKE $%d)", len(args), len(args))
	}
	if filter.City != "" {
		args = append(args, "%"+filter.City+"%")
		query += fmt.Sprintf(" AND c.city ILIKE $%d", len(args))
	}
	if filter.State != "" {
		args = append(args, "%"+filter.State+"%")
		query += fmt.Sprintf(" AND c.state ILIKE $%d", len(args))
	}

	query += " GROUP BY c.id ORDER BY c.name ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]types.CollegeSummary, 0)
	for rows.Next() {
		var summary types.CollegeSummary
		var clubsJSON []byte
		if err := rows.Scan(
			&summary.CollegeID,
			&summary.Name,
			&summary.Location,
			&summary.City,
			&summary.State,
			&summary.OfficialWebsite,
			&summary.OfficialEmail,
			&clubsJSON,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(clubsJSON, &summary.Clubs); err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return summaries, nil
}
