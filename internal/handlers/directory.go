package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/unixplore/apiserver/internal/logutil"
	"github.com/unixplore/apiserver/internal/services"
	"github.com/unixplore/apiserver/internal/store"
	"github.com/unixplore/apiserver/types"
)

// DirectoryHandler serves the public browse/search endpoints. No
// authentication; only approved clubs are visible.
type DirectoryHandler struct {
	colleges *services.CollegeService
	clubs    *services.ClubService
	content  *services.ContentService
}

func NewDirectoryHandler(
	colleges *services.CollegeService,
	clubs *services.ClubService,
	content *services.ContentService,
) *DirectoryHandler {
	return &DirectoryHandler{
		colleges: colleges,
		clubs:    clubs,
		content:  content,
	}
}

// DirectoryRouter registers the public directory routes.
func DirectoryRouter(r chi.Router, h *DirectoryHandler) {
	r.Get("/colleges", h.SearchColleges)
	r.Get("/clubs/{clubID}", h.GetClub)
	r.Get("/categories", h.ListCategories)
}

// SearchColleges lists colleges matching the query filters, each with
// its approved clubs. An exact public-ID lookup takes precedence over
// the free-text search.
func (h *DirectoryHandler) SearchColleges(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := store.DirectoryFilter{
		PublicID: strings.TrimSpace(query.Get("id")),
		Search:   strings.TrimSpace(query.Get("search")),
		City:     strings.TrimSpace(query.Get("city")),
		State:    strings.TrimSpace(query.Get("state")),
	}

	summaries, err := h.colleges.Search(r.Context(), filter)
	if err != nil {
		h.serverError(w, r, err, "search colleges")
		return
	}
	writeData(w, http.StatusOK, summaries)
}

// ClubDetail is the public club page payload.
type ClubDetail struct {
	ClubID        string                   `json:"clubId"`
	CollegeID     string                   `json:"collegeId"`
	Name          string                   `json:"name"`
	Description   string                   `json:"description"`
	CategoryName  string                   `json:"category_name"`
	CategorySlug  string                   `json:"category_slug"`
	Announcements []types.Announcement     `json:"announcements"`
	Registrations []types.RegistrationLink `json:"registrations"`
}

// GetClub returns one approved club's public detail with its
// announcements and signup links. Pending and rejected clubs are
// indistinguishable from unknown ones.
func (h *DirectoryHandler) GetClub(w http.ResponseWriter, r *http.Request) {
	clubID := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "clubID")))
	if clubID == "" {
		writeError(w, http.StatusBadRequest, "Invalid club ID")
		return
	}

	club, err := h.clubs.GetByPublicID(r.Context(), clubID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Club not found")
			return
		}
		h.serverError(w, r, err, "load club")
		return
	}
	if club.Status != types.ClubStatusApproved {
		writeError(w, http.StatusNotFound, "Club not found")
		return
	}

	detail := ClubDetail{
		ClubID:      club.PublicID,
		CollegeID:   club.CollegeID,
		Name:        club.Name,
		Description: club.Description,
	}

	if category, err := h.content.GetCategory(r.Context(), club.CategoryID); err == nil {
		detail.CategoryName = category.Name
		detail.CategorySlug = category.Slug
	} else if !errors.Is(err, store.ErrNotFound) {
		h.serverError(w, r, err, "load category")
		return
	}

	detail.Announcements, err = h.content.ListAnnouncements(r.Context(), club.PublicID)
	if err != nil {
		h.serverError(w, r, err, "list announcements")
		return
	}
	detail.Registrations, err = h.content.ListRegistrationLinks(r.Context(), club.PublicID)
	if err != nil {
		h.serverError(w, r, err, "list registration links")
		return
	}

	writeData(w, http.StatusOK, detail)
}

// ListCategories returns the club categories used by the search
// filters.
func (h *DirectoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.content.ListCategories(r.Context())
	if err != nil {
		h.serverError(w, r, err, "list categories")
		return
	}
	writeData(w, http.StatusOK, categories)
}

func (h *DirectoryHandler) serverError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	logger := logutil.GetOrDefault(r.Context())
	logger.Error().Err(err).Msg(msg)
	writeError(w, http.StatusInternalServerError, "Server error")
}
