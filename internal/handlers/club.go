package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/unixplore/apiserver/internal/auth"
	"github.com/unixplore/apiserver/internal/events"
	"github.com/unixplore/apiserver/internal/logutil"
	"github.com/unixplore/apiserver/internal/services"
	"github.com/unixplore/apiserver/internal/storage"
	"github.com/unixplore/apiserver/internal/store"
	"github.com/unixplore/apiserver/types"
)

// ClubHandler provides the club admin endpoints: registration, login,
// dashboard stats, profile updates, announcements and signup links.
type ClubHandler struct {
	clubs       *services.ClubService
	colleges    *services.CollegeService
	content     *services.ContentService
	secret      []byte
	tokenTTL    time.Duration
	autoApprove bool
	events      *events.Publisher
	assets      *storage.AssetStore
}

// NewClubHandler constructs a ClubHandler with the provided
// dependencies. autoApprove controls whether new clubs skip the
// college admin's approval queue.
func NewClubHandler(
	clubs *services.ClubService,
	colleges *services.CollegeService,
	content *services.ContentService,
	jwtSecret string,
	tokenTTL time.Duration,
	autoApprove bool,
	publisher *events.Publisher,
	assets *storage.AssetStore,
) *ClubHandler {
	return &ClubHandler{
		clubs:       clubs,
		colleges:    colleges,
		content:     content,
		secret:      []byte(jwtSecret),
		tokenTTL:    tokenTTL,
		autoApprove: autoApprove,
		events:      publisher,
		assets:      assets,
	}
}

// ClubAuthRouter registers the public club auth routes.
func ClubAuthRouter(r chi.Router, h *ClubHandler) {
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
}

// ClubAdminRouter registers the protected club dashboard routes.
func ClubAdminRouter(r chi.Router, h *ClubHandler) {
	r.Use(h.RequireAuth())
	r.Get("/stats", h.Stats)
	r.Patch("/details", h.UpdateDetails)
	r.Get("/announcements", h.ListAnnouncements)
	r.Post("/announcements", h.PostAnnouncement)
	r.Get("/registrations", h.ListRegistrations)
	r.Post("/registrations", h.AddRegistration)
	r.Post("/logo", h.UploadLogo)
}

// RequireAuth gates routes to holders of a valid club token whose
// account still exists.
func (h *ClubHandler) RequireAuth() func(http.Handler) http.Handler {
	return auth.Require(h.secret, auth.RoleClub, clubResolver{clubs: h.clubs})
}

type clubResolver struct {
	clubs *services.ClubService
}

func (r clubResolver) AccountExists(ctx context.Context, identity auth.Identity) (bool, error) {
	_, err := r.clubs.GetByPublicID(ctx, identity.PublicID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

type RegisterClubRequest struct {
	Name          string `json:"name"`
	CollegeID     string `json:"collegeId"`
	Email         string `json:"email"`
	CategoryID    int    `json:"categoryId"`
	AdminName     string `json:"adminName"`
	AdminEmail    string `json:"adminEmail"`
	AdminPassword string `json:"adminPassword"`
	Description   string `json:"description"`
}

type RegisterClubResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ClubID  string `json:"clubId"`
}

// Register creates a new club account under an existing college. The
// club starts pending unless auto-approval is configured.
func (h *ClubHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterClubRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.CollegeID = strings.ToUpper(strings.TrimSpace(req.CollegeID))
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.AdminName = strings.TrimSpace(req.AdminName)
	req.AdminEmail = strings.ToLower(strings.TrimSpace(req.AdminEmail))
	if req.Name == "" || req.CollegeID == "" || req.Email == "" ||
		req.AdminName == "" || req.AdminEmail == "" || req.AdminPassword == "" ||
		req.Description == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	if _, err := h.colleges.GetByPublicID(r.Context(), req.CollegeID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "Invalid college ID")
			return
		}
		h.serverError(w, r, err, "load college")
		return
	}

	hash, err := auth.HashPassword(req.AdminPassword)
	if err != nil {
		h.serverError(w, r, err, "hash password")
		return
	}

	status := types.ClubStatusPending
	if h.autoApprove {
		status = types.ClubStatusApproved
	}

	club, err := h.clubs.Create(r.Context(), types.Club{
		CollegeID:    req.CollegeID,
		Name:         req.Name,
		Email:        req.Email,
		CategoryID:   req.CategoryID,
		AdminName:    req.AdminName,
		AdminEmail:   req.AdminEmail,
		PasswordHash: hash,
		Description:  req.Description,
		Status:       status,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			writeError(w, http.StatusBadRequest, "Club email already registered")
			return
		}
		h.serverError(w, r, err, "create club")
		return
	}

	h.events.Publish(r.Context(), events.ClubEvent{
		Event:     events.ClubRegistered,
		ClubID:    club.PublicID,
		CollegeID: club.CollegeID,
		Name:      club.Name,
		Status:    club.Status,
	})

	writeJSON(w, http.StatusCreated, RegisterClubResponse{
		Success: true,
		Message: "Club registered successfully",
		ClubID:  club.PublicID,
	})
}

type LoginClubRequest struct {
	ClubID   string `json:"clubId"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies club credentials and returns a session token. Clubs
// may log in with either their club code or their club email. Unknown
// identifier and wrong password are indistinguishable to the caller.
func (h *ClubHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginClubRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	req.ClubID = strings.ToUpper(strings.TrimSpace(req.ClubID))
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if (req.ClubID == "" && req.Email == "") || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Missing credentials")
		return
	}

	var club types.Club
	var err error
	if req.ClubID != "" {
		club, err = h.clubs.GetByPublicID(r.Context(), req.ClubID)
	} else {
		club, err = h.clubs.GetByEmail(r.Context(), req.Email)
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "Invalid ID or password")
			return
		}
		h.serverError(w, r, err, "load club")
		return
	}

	if !auth.CheckPassword(req.Password, club.PasswordHash) {
		writeError(w, http.StatusUnauthorized, "Invalid ID or password")
		return
	}

	token, err := auth.IssueToken(club.PublicID, auth.RoleClub, h.secret, h.tokenTTL)
	if err != nil {
		h.serverError(w, r, err, "issue token")
		return
	}

	writeData(w, http.StatusOK, map[string]any{
		"token": token,
		"club": map[string]string{
			"clubId":      club.PublicID,
			"name":        club.Name,
			"description": club.Description,
			"status":      club.Status,
		},
	})
}

// ClubStats is the dashboard payload for a club admin.
type ClubStats struct {
	Status        string `json:"status"`
	Announcements int    `json:"announcements"`
	Registrations int    `json:"registrations"`
	TotalViews    int    `json:"total_views"`
}

// Stats returns the club's approval state and content counters.
func (h *ClubHandler) Stats(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	club, err := h.clubs.GetByPublicID(r.Context(), identity.PublicID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		h.serverError(w, r, err, "load club")
		return
	}

	announcements, err := h.content.CountAnnouncements(r.Context(), club.PublicID)
	if err != nil {
		h.serverError(w, r, err, "count announcements")
		return
	}
	registrations, err := h.content.CountRegistrationLinks(r.Context(), club.PublicID)
	if err != nil {
		h.serverError(w, r, err, "count registrations")
		return
	}

	writeData(w, http.StatusOK, ClubStats{
		Status:        club.Status,
		Announcements: announcements,
		Registrations: registrations,
		TotalViews:    0,
	})
}

// UpdateDetails applies a partial profile update for the authenticated
// club.
func (h *ClubHandler) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	var update types.ClubUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	if err := h.clubs.UpdateDetails(r.Context(), identity.PublicID, update); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		h.serverError(w, r, err, "update club details")
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Success: true, Message: "Club details updated"})
}

type PostAnnouncementRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// PostAnnouncement publishes an announcement on the club's page.
func (h *ClubHandler) PostAnnouncement(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	var req PostAnnouncementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || strings.TrimSpace(req.Body) == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	announcement, err := h.content.CreateAnnouncement(r.Context(), types.Announcement{
		ClubID: identity.PublicID,
		Title:  req.Title,
		Body:   req.Body,
	})
	if err != nil {
		h.serverError(w, r, err, "create announcement")
		return
	}

	h.events.Publish(r.Context(), events.ClubEvent{
		Event:  events.AnnouncementAdded,
		ClubID: identity.PublicID,
		Title:  announcement.Title,
	})

	writeData(w, http.StatusCreated, announcement)
}

// ListAnnouncements returns the club's announcements, newest first.
func (h *ClubHandler) ListAnnouncements(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	announcements, err := h.content.ListAnnouncements(r.Context(), identity.PublicID)
	if err != nil {
		h.serverError(w, r, err, "list announcements")
		return
	}
	writeData(w, http.StatusOK, announcements)
}

type AddRegistrationRequest struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Deadline string `json:"deadline"`
}

// AddRegistration attaches a signup link to the club's page. The
// deadline is optional RFC 3339.
func (h *ClubHandler) AddRegistration(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	var req AddRegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	req.URL = strings.TrimSpace(req.URL)
	if req.Title == "" || req.URL == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	var deadline *time.Time
	if strings.TrimSpace(req.Deadline) != "" {
		parsed, err := time.Parse(time.RFC3339, req.Deadline)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid deadline")
			return
		}
		deadline = &parsed
	}

	link, err := h.content.CreateRegistrationLink(r.Context(), types.RegistrationLink{
		ClubID:   identity.PublicID,
		Title:    req.Title,
		URL:      req.URL,
		Deadline: deadline,
	})
	if err != nil {
		h.serverError(w, r, err, "create registration link")
		return
	}

	writeData(w, http.StatusCreated, link)
}

// ListRegistrations returns the club's signup links, newest first.
func (h *ClubHandler) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	links, err := h.content.ListRegistrationLinks(r.Context(), identity.PublicID)
	if err != nil {
		h.serverError(w, r, err, "list registration links")
		return
	}
	writeData(w, http.StatusOK, links)
}

// UploadLogo stores the club's logo in object storage.
func (h *ClubHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	key, err := storeLogo(r, h.assets)
	if err != nil {
		writeError(w, err.status, err.message)
		return
	}

	if err := h.clubs.SetLogoKey(r.Context(), identity.PublicID, key); err != nil {
		h.serverError(w, r, err, "save logo key")
		return
	}

	writeData(w, http.StatusOK, map[string]string{"logo_key": key})
}

func (h *ClubHandler) serverError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	logger := logutil.GetOrDefault(r.Context())
	logger.Error().Err(err).Msg(msg)
	writeError(w, http.StatusInternalServerError, "Server error")
}
