package handlers

import (
	"net/http"
	"regexp"
	"testing"

	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"
	"github.com/stretchr/testify/require"
	"github.com/unixplore/apiserver/types"
)

func TestCollegeRegister(t *testing.T) {
	s := newMemoryStore()
	router := newTestRouter(s, false)

	var resp RegisterCollegeResponse
	rec := postJSON(t, router, "/api/auth/college/register", map[string]string{
		"name":          "IIT Madras",
		"email":         "admin@iitm.ac.in",
		"adminPassword": "hunter2hunter2",
		"city":          "Chennai",
		"state":         "Tamil Nadu",
	}, &resp)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.True(t, resp.Success)
	require.Regexp(t, regexp.MustCompile(`^CLG-\d{6}$`), resp.CollegeID)

	college, ok := s.colleges[resp.CollegeID]
	require.True(t, ok, "registered college must be persisted under its public ID")
	require.Equal(t, "admin@iitm.ac.in", college.Email)
	require.NotEqual(t, "hunter2hunter2", college.PasswordHash)
}

func TestCollegeRegister_DuplicateEmail(t *testing.T) {
	s := newMemoryStore()
	s.addCollege(t, "CLG-100001", "IIT Madras", "admin@iitm.ac.in", "hunter2hunter2")
	router := newTestRouter(s, false)

	apitest.New().
		Handler(router).
		Post("/api/auth/college/register").
		JSON(`{"name": "IIT Madras Again", "email": "admin@iitm.ac.in", "adminPassword": "different"}`).
		Expect(t).
		Status(http.StatusBadRequest).
		Assert(jsonpath.Equal(`$.error`, "College already registered")).
		End()
}

func TestCollegeRegister_MissingFields(t *testing.T) {
	router := newTestRouter(newMemoryStore(), false)

	apitest.New().
		Handler(router).
		Post("/api/auth/college/register").
		JSON(`{"name": "No Credentials College"}`).
		Expect(t).
		Status(http.StatusBadRequest).
		Assert(jsonpath.Equal(`$.error`, "Missing required fields")).
		End()
}

func TestCollegeLogin(t *testing.T) {
	s := newMemoryStore()
	s.addCollege(t, "CLG-100001", "IIT Madras", "admin@iitm.ac.in", "hunter2hunter2")
	router := newTestRouter(s, false)

	apitest.New().
		Handler(router).
		Post("/api/auth/college/login").
		JSON(`{"collegeId": "clg-100001", "password": "hunter2hunter2"}`).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.success`, true)).
		Assert(jsonpath.Present(`$.data.token`)).
		Assert(jsonpath.Equal(`$.data.admin.collegeId`, "CLG-100001")).
		Assert(jsonpath.Equal(`$.data.admin.collegeName`, "IIT Madras")).
		End()
}

func TestCollegeLogin_RejectionsAreUniform(t *testing.T) {
	s := newMemoryStore()
	s.addCollege(t, "CLG-100001", "IIT Madras", "admin@iitm.ac.in", "hunter2hunter2")
	router := newTestRouter(s, false)

	// Wrong password and unknown ID must be indistinguishable.
	for _, body := range []string{
		`{"collegeId": "CLG-100001", "password": "wrong"}`,
		`{"collegeId": "CLG-999999", "password": "hunter2hunter2"}`,
	} {
		apitest.New().
			Handler(router).
			Post("/api/auth/college/login").
			JSON(body).
			Expect(t).
			Status(http.StatusUnauthorized).
			Assert(jsonpath.Equal(`$.error`, "Invalid ID or password")).
			End()
	}
}

func TestCollegeStats(t *testing.T) {
	s := newMemoryStore()
	s.addCollege(t, "CLG-100001", "IIT Madras", "admin@iitm.ac.in", "hunter2hunter2")
	s.addClub(t, "CLB-200001", "CLG-100001", "Robotics Club", "robotics@iitm.ac.in", "p@ssw0rd1", types.ClubStatusApproved)
	s.addClub(t, "CLB-200002", "CLG-100001", "Drama Club", "drama@iitm.ac.in", "p@ssw0rd2", types.ClubStatusPending)
	s.addClub(t, "CLB-200003", "CLG-100001", "Chess Club", "chess@iitm.ac.in", "p@ssw0rd3", types.ClubStatusPending)
	router := newTestRouter(s, false)
	token := issueTestToken(t, "CLG-100001", "college")

	apitest.New().
		Handler(router).
		Get("/api/admin/college/stats").
		Header("Authorization", "Bearer "+token).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.data.stats.approved_clubs`, float64(1))).
		Assert(jsonpath.Equal(`$.data.stats.pending_clubs`, float64(2))).
		Assert(jsonpath.Len(`$.data.pendingClubs`, 2)).
		End()
}

func TestCollegeStats_NoToken(t *testing.T) {
	router := newTestRouter(newMemoryStore(), false)

	apitest.New().
		Handler(router).
		Get("/api/admin/college/stats").
		Expect(t).
		Status(http.StatusUnauthorized).
		Assert(jsonpath.Equal(`$.error`, "No token provided")).
		End()
}

func TestApproveClub(t *testing.T) {
	s := newMemoryStore()
	s.addCollege(t, "CLG-100001", "IIT Madras", "admin@iitm.ac.in", "hunter2hunter2")
	s.addClub(t, "CLB-200001", "CLG-100001", "Robotics Club", "robotics@iitm.ac.in", "p@ssw0rd1", types.ClubStatusPending)
	router := newTestRouter(s, false)
	token := issueTestToken(t, "CLG-100001", "college")

	apitest.New().
		Handler(router).
		Post("/api/admin/college/approve").
		Header("Authorization", "Bearer "+token).
		JSON(`{"clubId": "CLB-200001", "action": "approve"}`).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.message`, "Club approved successfully")).
		End()

	require.Equal(t, types.ClubStatusApproved, s.clubs["CLB-200001"].Status)

	// An approved club becomes publicly visible.
	apitest.New().
		Handler(router).
		Get("/api/clubs/CLB-200001").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.data.clubId`, "CLB-200001")).
		End()
}

func TestApproveClub_Reject(t *testing.T) {
	s := newMemoryStore()
	s.addCollege(t, "CLG-100001", "IIT Madras", "admin@iitm.ac.in", "hunter2hunter2")
	s.addClub(t, "CLB-200001", "CLG-100001", "Robotics Club", "robotics@iitm.ac.in", "p@ssw0rd1", types.ClubStatusPending)
	router := newTestRouter(s, false)
	token := issueTestToken(t, "CLG-100001", "college")

	apitest.New().
		Handler(router).
		Post("/api/admin/college/approve").
		Header("Authorization", "Bearer "+token).
		JSON(`{"clubId": "CLB-200001", "action": "reject"}`).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.message`, "Club rejected successfully")).
		End()

	require.Equal(t, types.ClubStatusRejected, s.clubs["CLB-200001"].Status)
}

func TestApproveClub_NotOwned(t *testing.T) {
	s := newMemoryStore()
	s.addCollege(t, "CLG-100001", "IIT Madras", "admin@iitm.ac.in", "hunter2hunter2")
	s.addCollege(t, "CLG-100002", "IIT Bombay", "admin@iitb.ac.in", "hunter2hunter2")
	s.addClub(t, "CLB-200001", "CLG-100002", "Robotics Club", "robotics@iitb.ac.in", "p@ssw0rd1", types.ClubStatusPending)
	router := newTestRouter(s, false)
	token := issueTestToken(t, "CLG-100001", "college")

	// A club owned by another college looks like an unknown club.
	apitest.New().
		Handler(router).
		Post("/api/admin/college/approve").
		Header("Authorization", "Bearer "+token).
		JSON(`{"clubId": "CLB-200001", "action": "approve"}`).
		Expect(t).
		Status(http.StatusBadRequest).
		Assert(jsonpath.Equal(`$.error`, "Invalid club ID")).
		End()

	require.Equal(t, types.ClubStatusPending, s.clubs["CLB-200001"].Status)
}

func TestApproveClub_InvalidAction(t *testing.T) {
	s := newMemoryStore()
	s.addCollege(t, "CLG-100001", "IIT Madras", "admin@iitm.ac.in", "hunter2hunter2")
	router := newTestRouter(s, false)
	token := issueTestToken(t, "CLG-100001", "college")

	apitest.New().
		Handler(router).
		Post("/api/admin/college/approve").
		Header("Authorization", "Bearer "+token).
		JSON(`{"clubId": "CLB-200001", "action": "promote"}`).
		Expect(t).
		Status(http.StatusBadRequest).
		Assert(jsonpath.Equal(`$.error`, "Invalid action")).
		End()
}

func TestCollegeUpdateDetails(t *testing.T) {
	s := newMemoryStore()
	s.addCollege(t, "CLG-100001", "IIT Madras", "admin@iitm.ac.in", "hunter2hunter2")
	router := newTestRouter(s, false)
	token := issueTestToken(t, "CLG-100001", "college")

	apitest.New().
		Handler(router).
		Patch("/api/admin/college/details").
		Header("Authorization", "Bearer "+token).
		JSON(`{"city": "Chennai", "official_website": "https://www.iitm.ac.in"}`).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.message`, "College details updated")).
		End()

	college := s.colleges["CLG-100001"]
	require.Equal(t, "Chennai", college.City)
	require.Equal(t, "https://www.iitm.ac.in", college.OfficialWebsite)
	require.Equal(t, "IIT Madras", college.Name, "unset fields must stay unchanged")
}

func TestCollegeUploadLogo_StorageDisabled(t *testing.T) {
	s := newMemoryStore()
	s.addCollege(t, "CLG-100001", "IIT Madras", "admin@iitm.ac.in", "hunter2hunter2")
	router := newTestRouter(s, false)
	token := issueTestToken(t, "CLG-100001", "college")

	apitest.New().
		Handler(router).
		Post("/api/admin/college/logo").
		Header("Authorization", "Bearer "+token).
		Expect(t).
		Status(http.StatusServiceUnavailable).
		Assert(jsonpath.Equal(`$.error`, "Uploads are not enabled")).
		End()
}
