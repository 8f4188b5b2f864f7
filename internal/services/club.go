package services

import (
	"context"

	"github.com/unixplore/apiserver/types"
)

// ClubRepository defines persistence operations for clubs.
type ClubRepository interface {
	GetByPublicID(ctx context.Context, publicID string) (types.Club, error)
	GetByEmail(ctx context.Context, email string) (types.Club, error)
	Create(ctx context.Context, club types.Club) (types.Club, error)
	UpdateDetails(ctx context.Context, publicID string, update types.ClubUpdate) error
	SetStatus(ctx context.Context, publicID, status string) error
	SetLogoKey(ctx context.Context, publicID, key string) error
	CountByCollegeAndStatus(ctx context.Context, collegeID, status string) (int, error)
	ListPendingByCollege(ctx context.Context, collegeID string) ([]types.PendingClub, error)
}

// ClubService encapsulates club use-cases.
type ClubService struct {
	repo ClubRepository
}

func NewClubService(repo ClubRepository) *ClubService {
	return &ClubService{repo: repo}
}

func (s *ClubService) GetByPublicID(ctx context.Context, publicID string) (types.Club, error) {
	return s.repo.GetByPublicID(ctx, publicID)
}

func (s *ClubService) GetByEmail(ctx context.Context, email string) (types.Club, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *ClubService) Create(ctx context.Context, club types.Club) (types.Club, error) {
	return s.repo.Create(ctx, club)
}

func (s *ClubService) UpdateDetails(ctx context.Context, publicID string, update types.ClubUpdate) error {
	return s.repo.UpdateDetails(ctx, publicID, update)
}

func (s *ClubService) SetStatus(ctx context.Context, publicID, status string) error {
	return s.repo.SetStatus(ctx, publicID, status)
}

func (s *ClubService) SetLogoKey(ctx context.Context, publicID, key string) error {
	return s.repo.SetLogoKey(ctx, publicID, key)
}

func (s *ClubService) CountByCollegeAndStatus(ctx context.Context, collegeID, status string) (int, error) {
	return s.repo.CountByCollegeAndStatus(ctx, collegeID, status)
}

func (s *ClubService) ListPendingByCollege(ctx context.Context, collegeID string) ([]types.PendingClub, error) {
	return s.repo.ListPendingByCollege(ctx, collegeID)
}
