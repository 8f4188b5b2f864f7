package services

import (
	"context"

	"github.com/unixplore/apiserver/internal/store"
	"github.com/unixplore/apiserver/types"
)

// CollegeRepository defines persistence operations for colleges.
type CollegeRepository interface {
	GetByPublicID(ctx context.Context, publicID string) (types.College, error)
	GetByEmail(ctx context.Context, email string) (types.College, error)
	Create(ctx context.Context, college types.College) (types.College, error)
	UpdateDetails(ctx context.Context, publicID string, update types.CollegeUpdate) error
	SetLogoKey(ctx context.Context, publicID, key string) error
	Search(ctx context.Context, filter store.DirectoryFilter) ([]types.CollegeSummary, error)
}

// CollegeService encapsulates college use-cases.
type CollegeService struct {
	repo CollegeRepository
}

func NewCollegeService(repo CollegeRepository) *CollegeService {
	return &CollegeService{repo: repo}
}

func (s *CollegeService) GetByPublicID(ctx context.Context, publicID string) (types.College, error) {
	return s.repo.GetByPublicID(ctx, publicID)
}

func (s *CollegeService) GetByEmail(ctx context.Context, email string) (types.College, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *CollegeService) Create(ctx context.Context, college types.College) (types.College, error) {
	return s.repo.Create(ctx, college)
}

func (s *CollegeService) UpdateDetails(ctx context.Context, publicID string, update types.CollegeUpdate) error {
	return s.repo.UpdateDetails(ctx, publicID, update)
}

func (s *CollegeService) SetLogoKey(ctx context.Context, publicID, key string) error {
	return s.repo.SetLogoKey(ctx, publicID, key)
}

func (s *CollegeService) Search(ctx context.Context, filter store.DirectoryFilter) ([]types.CollegeSummary, error) {
	return s.repo.Search(ctx, filter)
}
