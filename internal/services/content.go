package services

import (
	"context"

	"github.com/unixplore/apiserver/types"
)

// AnnouncementRepository defines persistence operations for club
// announcements.
type AnnouncementRepository interface {
	Create(ctx context.Context, announcement types.Announcement) (types.Announcement, error)
	ListByClub(ctx context.Context, clubID string) ([]types.Announcement, error)
	CountByClub(ctx context.Context, clubID string) (int, error)
}

// RegistrationLinkRepository defines persistence operations for club
// signup links.
type RegistrationLinkRepository interface {
	Create(ctx context.Context, link types.RegistrationLink) (types.RegistrationLink, error)
	ListByClub(ctx context.Context, clubID string) ([]types.RegistrationLink, error)
	CountByClub(ctx context.Context, clubID string) (int, error)
}

// CategoryRepository reads club categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]types.Category, error)
	Get(ctx context.Context, id int) (types.Category, error)
}

// ContentService encapsulates the club page content: announcements,
// registration links, categories.
type ContentService struct {
	announcements AnnouncementRepository
	registrations RegistrationLinkRepository
	categories    CategoryRepository
}

func NewContentService(
	announcements AnnouncementRepository,
	registrations RegistrationLinkRepository,
	categories CategoryRepository,
) *ContentService {
	return &ContentService{
		announcements: announcements,
		registrations: registrations,
		categories:    categories,
	}
}

func (s *ContentService) CreateAnnouncement(ctx context.Context, announcement types.Announcement) (types.Announcement, error) {
	return s.announcements.Create(ctx, announcement)
}

func (s *ContentService) ListAnnouncements(ctx context.Context, clubID string) ([]types.Announcement, error) {
	return s.announcements.ListByClub(ctx, clubID)
}

func (s *ContentService) CountAnnouncements(ctx context.Context, clubID string) (int, error) {
	return s.announcements.CountByClub(ctx, clubID)
}

func (s *ContentService) CreateRegistrationLink(ctx context.Context, link types.RegistrationLink) (types.RegistrationLink, error) {
	return s.registrations.Create(ctx, link)
}

func (s *ContentService) ListRegistrationLinks(ctx context.Context, clubID string) ([]types.RegistrationLink, error) {
	return s.registrations.ListByClub(ctx, clubID)
}

func (s *ContentService) CountRegistrationLinks(ctx context.Context, clubID string) (int, error) {
	return s.registrations.CountByClub(ctx, clubID)
}

func (s *ContentService) ListCategories(ctx context.Context) ([]types.Category, error) {
	return s.categories.List(ctx)
}

func (s *ContentService) GetCategory(ctx context.Context, id int) (types.Category, error) {
	return s.categories.Get(ctx, id)
}
