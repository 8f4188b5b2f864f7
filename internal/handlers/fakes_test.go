package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/unixplore/apiserver/internal/auth"
	"github.com/unixplore/apiserver/internal/services"
	"github.com/unixplore/apiserver/internal/store"
	"github.com/unixplore/apiserver/types"
)

const testSecret = "test-secret"

// memoryStore backs the fake repositories with plain maps so handler
// tests run without a database. Duplicate and not-found behavior
// mirrors the real repositories.
type memoryStore struct {
	mu            sync.Mutex
	colleges      map[string]types.College
	clubs         map[string]types.Club
	announcements []types.Announcement
	links         []types.RegistrationLink
	categories    []types.Category
	nextID        int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		colleges: make(map[string]types.College),
		clubs:    make(map[string]types.Club),
		categories: []types.Category{
			{ID: 1, Name: "Technical", Slug: "technical"},
			{ID: 2, Name: "Cultural", Slug: "cultural"},
			{ID: 3, Name: "Sports", Slug: "sports"},
		},
	}
}

func (s *memoryStore) sequence() int {
	s.nextID++
	return s.nextID
}

func (s *memoryStore) addCollege(t *testing.T, publicID, name, email, password string) types.College {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	college := types.College{
		ID:           s.sequence(),
		PublicID:     publicID,
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	s.colleges[publicID] = college
	return college
}

func (s *memoryStore) addClub(t *testing.T, publicID, collegeID, name, email, password, status string) types.Club {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	club := types.Club{
		ID:           s.sequence(),
		PublicID:     publicID,
		CollegeID:    collegeID,
		Name:         name,
		Email:        email,
		CategoryID:   1,
		AdminName:    "Admin",
		AdminEmail:   "admin@" + email,
		PasswordHash: hash,
		Description:  "A club",
		Status:       status,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	s.clubs[publicID] = club
	return club
}

type fakeCollegeRepo struct{ s *memoryStore }

func (f fakeCollegeRepo) GetByPublicID(ctx context.Context, publicID string) (types.College, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	college, ok := f.s.colleges[publicID]
	if !ok {
		return types.College{}, store.ErrNotFound
	}
	return college, nil
}

func (f fakeCollegeRepo) GetByEmail(ctx context.Context, email string) (types.College, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, college := range f.s.colleges {
		if college.Email == email {
			return college, nil
		}
	}
	return types.College{}, store.ErrNotFound
}

func (f fakeCollegeRepo) Create(ctx context.Context, college types.College) (types.College, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, existing := range f.s.colleges {
		if existing.Email == college.Email {
			return types.College{}, store.ErrDuplicate
		}
	}
	for {
		college.PublicID = auth.NewPublicID(auth.CollegeIDPrefix)
		if _, taken := f.s.colleges[college.PublicID]; !taken {
			break
		}
	}
	college.ID = f.s.sequence()
	college.CreatedAt = time.Now()
	college.UpdatedAt = college.CreatedAt
	f.s.colleges[college.PublicID] = college
	return college, nil
}

func (f fakeCollegeRepo) UpdateDetails(ctx context.Context, publicID string, update types.CollegeUpdate) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	college, ok := f.s.colleges[publicID]
	if !ok {
		return store.ErrNotFound
	}
	if update.Name != nil {
		college.Name = *update.Name
	}
	if update.Location != nil {
		college.Location = *update.Location
	}
	if update.City != nil {
		college.City = *update.City
	}
	if update.State != nil {
		college.State = *update.State
	}
	if update.OfficialWebsite != nil {
		college.OfficialWebsite = *update.OfficialWebsite
	}
	if update.OfficialEmail != nil {
		college.OfficialEmail = *update.OfficialEmail
	}
	college.UpdatedAt = time.Now()
	f.s.colleges[publicID] = college
	return nil
}

func (f fakeCollegeRepo) SetLogoKey(ctx context.Context, publicID, key string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	college, ok := f.s.colleges[publicID]
	if !ok {
		return store.ErrNotFound
	}
	college.LogoKey = key
	f.s.colleges[publicID] = college
	return nil
}

func (f fakeCollegeRepo) Search(ctx context.Context, filter store.DirectoryFilter) ([]types.CollegeSummary, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	contains := func(haystack, needle string) bool {
		return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
	}

	summaries := make([]types.CollegeSummary, 0)
	for _, college := range f.s.colleges {
		if filter.PublicID != "" {
			if college.PublicID != strings.ToUpper(filter.PublicID) {
				continue
			}
		} else if filter.Search != "" {
			if !contains(college.Name, filter.Search) && !contains(college.PublicID, filter.Search) {
				continue
			}
		}
		if filter.City != "" && !contains(college.City, filter.City) {
			continue
		}
		if filter.State != "" && !contains(college.State, filter.State) {
			continue
		}

		summary := types.CollegeSummary{
			CollegeID:       college.PublicID,
			Name:            college.Name,
			Location:        college.Location,
			City:            college.City,
			State:           college.State,
			OfficialWebsite: college.OfficialWebsite,
			OfficialEmail:   college.OfficialEmail,
			Clubs:           make([]types.ClubSummary, 0),
		}
		for _, club := range f.s.clubs {
			if club.CollegeID != college.PublicID || club.Status != types.ClubStatusApproved {
				continue
			}
			entry := types.ClubSummary{
				ClubID:      club.PublicID,
				Name:        club.Name,
				Description: club.Description,
			}
			for _, category := range f.s.categories {
				if category.ID == club.CategoryID {
					entry.CategoryName = category.Name
					entry.CategorySlug = category.Slug
				}
			}
			summary.Clubs = append(summary.Clubs, entry)
		}
		sort.Slice(summary.Clubs, func(i, j int) bool { return summary.Clubs[i].ClubID < summary.Clubs[j].ClubID })
		summaries = append(summaries, summary)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })
	return summaries, nil
}

type fakeClubRepo struct{ s *memoryStore }

func (f fakeClubRepo) GetByPublicID(ctx context.Context, publicID string) (types.Club, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	club, ok := f.s.clubs[publicID]
	if !ok {
		return types.Club{}, store.ErrNotFound
	}
	return club, nil
}

func (f fakeClubRepo) GetByEmail(ctx context.Context, email string) (types.Club, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, club := range f.s.clubs {
		if club.Email == email {
			return club, nil
		}
	}
	return types.Club{}, store.ErrNotFound
}

func (f fakeClubRepo) Create(ctx context.Context, club types.Club) (types.Club, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, existing := range f.s.clubs {
		if existing.Email == club.Email {
			return types.Club{}, store.ErrDuplicate
		}
	}
	for {
		club.PublicID = auth.NewPublicID(auth.ClubIDPrefix)
		if _, taken := f.s.clubs[club.PublicID]; !taken {
			break
		}
	}
	club.ID = f.s.sequence()
	club.CreatedAt = time.Now()
	club.UpdatedAt = club.CreatedAt
	f.s.clubs[club.PublicID] = club
	return club, nil
}

func (f fakeClubRepo) UpdateDetails(ctx context.Context, publicID string, update types.ClubUpdate) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	club, ok := f.s.clubs[publicID]
	if !ok {
		return store.ErrNotFound
	}
	if update.Name != nil {
		club.Name = *update.Name
	}
	if update.Description != nil {
		club.Description = *update.Description
	}
	if update.AdminName != nil {
		club.AdminName = *update.AdminName
	}
	if update.AdminEmail != nil {
		club.AdminEmail = *update.AdminEmail
	}
	if update.CategoryID != nil {
		club.CategoryID = *update.CategoryID
	}
	club.UpdatedAt = time.Now()
	f.s.clubs[publicID] = club
	return nil
}

func (f fakeClubRepo) SetStatus(ctx context.Context, publicID, status string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	club, ok := f.s.clubs[publicID]
	if !ok {
		return store.ErrNotFound
	}
	club.Status = status
	club.UpdatedAt = time.Now()
	f.s.clubs[publicID] = club
	return nil
}

func (f fakeClubRepo) SetLogoKey(ctx context.Context, publicID, key string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	club, ok := f.s.clubs[publicID]
	if !ok {
		return store.ErrNotFound
	}
	club.LogoKey = key
	f.s.clubs[publicID] = club
	return nil
}

func (f fakeClubRepo) CountByCollegeAndStatus(ctx context.Context, collegeID, status string) (int, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	count := 0
	for _, club := range f.s.clubs {
		if club.CollegeID == collegeID && club.Status == status {
			count++
		}
	}
	return count, nil
}

func (f fakeClubRepo) ListPendingByCollege(ctx context.Context, collegeID string) ([]types.PendingClub, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	pending := make([]types.PendingClub, 0)
	for _, club := range f.s.clubs {
		if club.CollegeID == collegeID && club.Status == types.ClubStatusPending {
			pending = append(pending, types.PendingClub{
				ClubID:    club.PublicID,
				Name:      club.Name,
				Email:     club.Email,
				AdminName: club.AdminName,
				CreatedAt: club.CreatedAt,
			})
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].CreatedAt.After(pending[j].CreatedAt) })
	return pending, nil
}

type fakeAnnouncementRepo struct{ s *memoryStore }

func (f fakeAnnouncementRepo) Create(ctx context.Context, announcement types.Announcement) (types.Announcement, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	announcement.ID = f.s.sequence()
	announcement.CreatedAt = time.Now()
	f.s.announcements = append(f.s.announcements, announcement)
	return announcement, nil
}

func (f fakeAnnouncementRepo) ListByClub(ctx context.Context, clubID string) ([]types.Announcement, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	list := make([]types.Announcement, 0)
	for _, announcement := range f.s.announcements {
		if announcement.ClubID == clubID {
			list = append(list, announcement)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list, nil
}

func (f fakeAnnouncementRepo) CountByClub(ctx context.Context, clubID string) (int, error) {
	list, err := f.ListByClub(ctx, clubID)
	return len(list), err
}

type fakeRegistrationRepo struct{ s *memoryStore }

func (f fakeRegistrationRepo) Create(ctx context.Context, link types.RegistrationLink) (types.RegistrationLink, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	link.ID = f.s.sequence()
	link.CreatedAt = time.Now()
	f.s.links = append(f.s.links, link)
	return link, nil
}

func (f fakeRegistrationRepo) ListByClub(ctx context.Context, clubID string) ([]types.RegistrationLink, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	list := make([]types.RegistrationLink, 0)
	for _, link := range f.s.links {
		if link.ClubID == clubID {
			list = append(list, link)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list, nil
}

func (f fakeRegistrationRepo) CountByClub(ctx context.Context, clubID string) (int, error) {
	list, err := f.ListByClub(ctx, clubID)
	return len(list), err
}

type fakeCategoryRepo struct{ s *memoryStore }

func (f fakeCategoryRepo) List(ctx context.Context) ([]types.Category, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return append([]types.Category(nil), f.s.categories...), nil
}

func (f fakeCategoryRepo) Get(ctx context.Context, id int) (types.Category, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, category := range f.s.categories {
		if category.ID == id {
			return category, nil
		}
	}
	return types.Category{}, store.ErrNotFound
}

// newTestRouter wires the handlers onto the same route tree the server
// mounts, backed by the in-memory store. Eventing and object storage
// stay disabled.
func newTestRouter(s *memoryStore, autoApprove bool) *chi.Mux {
	collegeService := services.NewCollegeService(fakeCollegeRepo{s})
	clubService := services.NewClubService(fakeClubRepo{s})
	contentService := services.NewContentService(
		fakeAnnouncementRepo{s}, fakeRegistrationRepo{s}, fakeCategoryRepo{s})

	collegeHandler := NewCollegeHandler(
		collegeService, clubService, testSecret, time.Hour, nil, nil)
	clubHandler := NewClubHandler(
		clubService, collegeService, contentService,
		testSecret, time.Hour, autoApprove, nil, nil)
	directoryHandler := NewDirectoryHandler(collegeService, clubService, contentService)

	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		DirectoryRouter(r, directoryHandler)
		r.Route("/auth/college", func(r chi.Router) {
			CollegeAuthRouter(r, collegeHandler)
		})
		r.Route("/auth/club", func(r chi.Router) {
			ClubAuthRouter(r, clubHandler)
		})
		r.Route("/admin/college", func(r chi.Router) {
			CollegeAdminRouter(r, collegeHandler)
		})
		r.Route("/admin/club", func(r chi.Router) {
			ClubAdminRouter(r, clubHandler)
		})
	})
	return router
}

func issueTestToken(t *testing.T, publicID, role string) string {
	t.Helper()
	token, err := auth.IssueToken(publicID, role, []byte(testSecret), time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

// postJSON is used by setup steps that need a value out of the
// response, e.g. a freshly generated public ID.
func postJSON(t *testing.T, router http.Handler, path string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if out != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec
}
