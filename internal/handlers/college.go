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

// CollegeHandler provides the college admin endpoints: registration,
// login, dashboard stats, club approval and profile updates.
type CollegeHandler struct {
	colleges *services.CollegeService
	clubs    *services.ClubService
	secret   []byte
	tokenTTL time.Duration
	events   *events.Publisher
	assets   *storage.AssetStore
}

// NewCollegeHandler constructs a CollegeHandler with the provided
// dependencies. events and assets may be nil when those subsystems are
// not configured.
func NewCollegeHandler(
	colleges *services.CollegeService,
	clubs *services.ClubService,
	jwtSecret string,
	tokenTTL time.Duration,
	publisher *events.Publisher,
	assets *storage.AssetStore,
) *CollegeHandler {
	return &CollegeHandler{
		colleges: colleges,
		clubs:    clubs,
		secret:   []byte(jwtSecret),
		tokenTTL: tokenTTL,
		events:   publisher,
		assets:   assets,
	}
}

// CollegeAuthRouter registers the public college auth routes.
func CollegeAuthRouter(r chi.Router, h *CollegeHandler) {
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
}

// CollegeAdminRouter registers the protected college dashboard routes.
func CollegeAdminRouter(r chi.Router, h *CollegeHandler) {
	r.Use(h.RequireAuth())
	r.Get("/stats", h.Stats)
	r.Post("/approve", h.ApproveClub)
	r.Patch("/details", h.UpdateDetails)
	r.Post("/logo", h.UploadLogo)
}

// RequireAuth gates routes to holders of a valid college token whose
// account still exists.
func (h *CollegeHandler) RequireAuth() func(http.Handler) http.Handler {
	return auth.Require(h.secret, auth.RoleCollege, collegeResolver{colleges: h.colleges})
}

type collegeResolver struct {
	colleges *services.CollegeService
}

func (r collegeResolver) AccountExists(ctx context.Context, identity auth.Identity) (bool, error) {
	_, err := r.colleges.GetByPublicID(ctx, identity.PublicID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

type RegisterCollegeRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	AdminPassword   string `json:"adminPassword"`
	Location        string `json:"location"`
	City            string `json:"city"`
	State           string `json:"state"`
	OfficialWebsite string `json:"official_website"`
	OfficialEmail   string `json:"official_email"`
}

type RegisterCollegeResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	CollegeID string `json:"collegeId"`
}

// Register creates a new college account. The public identifier is
// generated server-side and returned to the caller.
func (h *CollegeHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterCollegeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || req.AdminPassword == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	hash, err := auth.HashPassword(req.AdminPassword)
	if err != nil {
		h.serverError(w, r, err, "hash password")
		return
	}

	college, err := h.colleges.Create(r.Context(), types.College{
		Name:            req.Name,
		Email:           req.Email,
		PasswordHash:    hash,
		Location:        req.Location,
		City:            req.City,
		State:           req.State,
		OfficialWebsite: req.OfficialWebsite,
		OfficialEmail:   req.OfficialEmail,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			writeError(w, http.StatusBadRequest, "College already registered")
			return
		}
		h.serverError(w, r, err, "create college")
		return
	}

	writeJSON(w, http.StatusCreated, RegisterCollegeResponse{
		Success:   true,
		Message:   "College registered successfully",
		CollegeID: college.PublicID,
	})
}

type LoginCollegeRequest struct {
	CollegeID string `json:"collegeId"`
	Password  string `json:"password"`
}

// Login verifies college credentials and returns a session token.
// Unknown identifier and wrong password are indistinguishable to the
// caller.
func (h *CollegeHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginCollegeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	req.CollegeID = strings.ToUpper(strings.TrimSpace(req.CollegeID))
	if req.CollegeID == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Missing credentials")
		return
	}

	college, err := h.colleges.GetByPublicID(r.Context(), req.CollegeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "Invalid ID or password")
			return
		}
		h.serverError(w, r, err, "load college")
		return
	}

	if !auth.CheckPassword(req.Password, college.PasswordHash) {
		writeError(w, http.StatusUnauthorized, "Invalid ID or password")
		return
	}

	token, err := auth.IssueToken(college.PublicID, auth.RoleCollege, h.secret, h.tokenTTL)
	if err != nil {
		h.serverError(w, r, err, "issue token")
		return
	}

	writeData(w, http.StatusOK, map[string]any{
		"token": token,
		"admin": map[string]string{
			"collegeId":   college.PublicID,
			"collegeName": college.Name,
		},
	})
}

// CollegeStats is the dashboard payload for a college admin.
type CollegeStats struct {
	ApprovedClubs int `json:"approved_clubs"`
	PendingClubs  int `json:"pending_clubs"`
	TotalViews    int `json:"total_views"`
}

// Stats returns approval counters and the pending club queue for the
// authenticated college.
func (h *CollegeHandler) Stats(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	approved, err := h.clubs.CountByCollegeAndStatus(r.Context(), identity.PublicID, types.ClubStatusApproved)
	if err != nil {
		h.serverError(w, r, err, "count approved clubs")
		return
	}
	pendingCount, err := h.clubs.CountByCollegeAndStatus(r.Context(), identity.PublicID, types.ClubStatusPending)
	if err != nil {
		h.serverError(w, r, err, "count pending clubs")
		return
	}
	pending, err := h.clubs.ListPendingByCollege(r.Context(), identity.PublicID)
	if err != nil {
		h.serverError(w, r, err, "list pending clubs")
		return
	}

	writeData(w, http.StatusOK, map[string]any{
		"stats": CollegeStats{
			ApprovedClubs: approved,
			PendingClubs:  pendingCount,
			TotalViews:    0,
		},
		"pendingClubs": pending,
	})
}

type ApproveClubRequest struct {
	ClubID string `json:"clubId"`
	Action string `json:"action"`
}

// ApproveClub moves one of the college's own clubs through the
// approval workflow. Clubs belonging to other colleges are reported as
// unknown rather than forbidden.
func (h *CollegeHandler) ApproveClub(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	var req ApproveClubRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	req.ClubID = strings.ToUpper(strings.TrimSpace(req.ClubID))
	if req.ClubID == "" {
		writeError(w, http.StatusBadRequest, "Missing club ID")
		return
	}

	var status string
	switch req.Action {
	case "approve":
		status = types.ClubStatusApproved
	case "reject":
		status = types.ClubStatusRejected
	default:
		writeError(w, http.StatusBadRequest, "Invalid action")
		return
	}

	club, err := h.clubs.GetByPublicID(r.Context(), req.ClubID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "Invalid club ID")
			return
		}
		h.serverError(w, r, err, "load club")
		return
	}
	if club.CollegeID != identity.PublicID {
		writeError(w, http.StatusBadRequest, "Invalid club ID")
		return
	}

	if err := h.clubs.SetStatus(r.Context(), club.PublicID, status); err != nil {
		h.serverError(w, r, err, "set club status")
		return
	}

	h.events.Publish(r.Context(), events.ClubEvent{
		Event:     events.ClubStatusChanged,
		ClubID:    club.PublicID,
		CollegeID: club.CollegeID,
		Name:      club.Name,
		Status:    status,
	})

	message := "Club rejected successfully"
	if status == types.ClubStatusApproved {
		message = "Club approved successfully"
	}
	writeJSON(w, http.StatusOK, MessageResponse{Success: true, Message: message})
}

// UpdateDetails applies a partial profile update for the authenticated
// college.
func (h *CollegeHandler) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	var update types.CollegeUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	if err := h.colleges.UpdateDetails(r.Context(), identity.PublicID, update); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		h.serverError(w, r, err, "update college details")
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Success: true, Message: "College details updated"})
}

// UploadLogo stores the college's logo in object storage.
func (h *CollegeHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
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

	if err := h.colleges.SetLogoKey(r.Context(), identity.PublicID, key); err != nil {
		h.serverError(w, r, err, "save logo key")
		return
	}

	writeData(w, http.StatusOK, map[string]string{"logo_key": key})
}

func (h *CollegeHandler) serverError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	logger := logutil.GetOrDefault(r.Context())
	logger.Error().Err(err).Msg(msg)
	writeError(w, http.StatusInternalServerError, "Server error")
}
