package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/unixplore/apiserver/types"
)

// AnnouncementRepository handles persistence for club announcements.
type AnnouncementRepository struct {
	db *sql.DB
}

func NewAnnouncementRepository(db *sql.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

func (r *AnnouncementRepository) Create(ctx context.Context, announcement types.Announcement) (types.Announcement, error) {
	announcement.CreatedAt = time.Now()

	const query = `
		INSERT INTO announcements (club_id, title, body, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		announcement.ClubID,
		announcement.Title,
		announcement.Body,
		announcement.CreatedAt,
	).Scan(&announcement.ID); err != nil {
		return types.Announcement{}, err
	}
	return announcement, nil
}

func (r *AnnouncementRepository) ListByClub(ctx context.Context, clubID string) ([]types.Announcement, error) {
	const query = `
		SELECT id, club_id, title, body, created_at
		FROM announcements
		WHERE club_id = $1
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	announcements := make([]types.Announcement, 0)
	for rows.Next() {
		var announcement types.Announcement
		if err := rows.Scan(
			&announcement.ID,
			&announcement.ClubID,
			&announcement.Title,
			&announcement.Body,
			&announcement.CreatedAt,
		); err != nil {
			return nil, err
		}
		announcements = append(announcements, announcement)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return announcements, nil
}

func (r *AnnouncementRepository) CountByClub(ctx context.Context, clubID string) (int, error) {
	const query = `SELECT COUNT(1) FROM announcements WHERE club_id = $1`
	var count int
	if err := r.db.QueryRowContext(ctx, query, clubID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
