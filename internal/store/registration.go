package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/unixplore/apiserver/types"
)

// RegistrationLinkRepository handles persistence for club signup links.
type RegistrationLinkRepository struct {
	db *sql.DB
}

func NewRegistrationLinkRepository(db *sql.DB) *RegistrationLinkRepository {
	return &RegistrationLinkRepository{db: db}
}

func (r *RegistrationLinkRepository) Create(ctx context.Context, link types.RegistrationLink) (types.RegistrationLink, error) {
	link.CreatedAt = time.Now()

	const query = `
		INSERT INTO registration_links (club_id, title, url, deadline, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		link.ClubID,
		link.Title,
		link.URL,
		link.Deadline,
		link.CreatedAt,
	).Scan(&link.ID); err != nil {
		return types.RegistrationLink{}, err
	}
	return link, nil
}

func (r *RegistrationLinkRepository) ListByClub(ctx context.Context, clubID string) ([]types.RegistrationLink, error) {
	const query = `
		SELECT id, club_id, title, url, deadline, created_at
		FROM registration_links
		WHERE club_id = $1
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := make([]types.RegistrationLink, 0)
	for rows.Next() {
		var link types.RegistrationLink
		if err := rows.Scan(
			&link.ID,
			&link.ClubID,
			&link.Title,
			&link.URL,
			&link.Deadline,
			&link.CreatedAt,
		); err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return links, nil
}

func (r *RegistrationLinkRepository) CountByClub(ctx context.Context, clubID string) (int, error) {
	const query = `SELECT COUNT(1) FROM registration_links WHERE club_id = $1`
	var count int
	if err := r.db.QueryRowContext(ctx, query, clubID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
