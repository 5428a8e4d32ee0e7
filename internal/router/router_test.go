package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evalportal/internal/auth"
	"evalportal/internal/cache"
	"evalportal/internal/config"
	"evalportal/internal/handler"
	"evalportal/internal/repository"
	"evalportal/internal/service"
	"evalportal/internal/testutil"
)

const adminPassword = "s3cret"

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	return newServer(t, "admin", "admin")
}

// newServer seeds the administrator under seededAdminID and configures adminStudentID
// as the reserved id, which differ when the reserved id changes between deployments.
func newServer(t *testing.T, seededAdminID, adminStudentID string) *echo.Echo {
	t.Helper()

	gormDB := testutil.NewSQLite(t)
	logger, _ := test.NewNullLogger()

	webDir := t.TempDir()
	for _, page := range []string{"index.html", "login.html", "projects.html", "evaluate.html", "admin.html"} {
		require.NoError(t, os.WriteFile(filepath.Join(webDir, page), []byte("<html>"+page+"</html>"), 0o644))
	}

	cfg := &config.Config{
		Env:            "development",
		AdminName:      "admin",
		AdminPassword:  adminPassword,
		AdminStudentID: adminStudentID,
		WebDir:         webDir,
	}

	userRepo := repository.NewUserRepository(gormDB)
	projectRepo := repository.NewProjectRepository(gormDB)
	evaluationRepo := repository.NewEvaluationRepository(gormDB)

	_, err := service.NewSeedService(userRepo, projectRepo, evaluationRepo, seededAdminID).
		Seed(context.Background(), service.DefaultCatalog)
	require.NoError(t, err)

	sessions := auth.NewSessionManager(
		auth.NewJWTService("test-secret"),
		auth.NewTokenStore(cache.New("", "", 0)),
		false,
	)
	authService, err := service.NewAuthService(userRepo, service.AdminCredentials{
		Name:      cfg.AdminName,
		Password:  cfg.AdminPassword,
		StudentID: cfg.AdminStudentID,
	})
	require.NoError(t, err)

	e := echo.New()
	Register(
		e,
		cfg,
		logger,
		sessions,
		handler.NewAuthHandler(authService, sessions, logger),
		handler.NewProjectHandler(service.NewProjectService(projectRepo), sessions),
		handler.NewEvaluationHandler(service.NewEvaluationService(projectRepo, evaluationRepo), sessions),
		handler.NewAdminHandler(
			service.NewStatsService(userRepo, projectRepo, evaluationRepo),
			service.NewExportService(evaluationRepo, time.UTC),
		),
		handler.NewPageHandler(webDir),
	)
	return e
}

func do(e *echo.Echo, method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	t.Fatalf("response did not set %s", auth.CookieName)
	return nil
}

func login(t *testing.T, e *echo.Echo, body map[string]interface{}) *http.Cookie {
	t.Helper()
	rec := do(e, http.MethodPost, "/api/auth/login", body, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return sessionCookie(t, rec)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestEvaluationFlow(t *testing.T) {
	e := newTestServer(t)

	// Student logs in; year may arrive as a string from the form.
	rec := do(e, http.MethodPost, "/api/auth/login", map[string]interface{}{
		"name": "Somchai", "studentId": "S001", "year": "2",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"success":true,"isAdmin":false}`, rec.Body.String())
	student := sessionCookie(t, rec)
	assert.True(t, student.HttpOnly)

	rec = do(e, http.MethodGet, "/api/projects", nil, student)
	require.Equal(t, http.StatusOK, rec.Code)
	projects := decode[[]map[string]interface{}](t, rec)
	require.Len(t, projects, len(service.DefaultCatalog))
	for _, p := range projects {
		assert.Contains(t, p, "userEvaluation")
		assert.Nil(t, p["userEvaluation"])
	}
	firstID := projects[0]["id"].(string)

	rec = do(e, http.MethodPost, "/api/evaluate", map[string]interface{}{
		"projectId": firstID, "score": 8, "comment": "Good",
	}, student)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	submitted := decode[map[string]interface{}](t, rec)
	assert.Equal(t, true, submitted["success"])

	rec = do(e, http.MethodGet, "/api/projects/"+firstID, nil, student)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[map[string]interface{}](t, rec)
	mine, ok := detail["myEvaluation"].(map[string]interface{})
	require.True(t, ok, "myEvaluation should be set")
	assert.Equal(t, float64(8), mine["score"])
	assert.Equal(t, "Good", mine["comment"])

	// Resubmission replaces the earlier evaluation.
	rec = do(e, http.MethodPost, "/api/evaluate", map[string]interface{}{
		"projectId": firstID, "score": "8", "comment": "Good",
	}, student)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Students cannot reach the admin API.
	rec = do(e, http.MethodGet, "/api/admin/stats", nil, student)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	admin := login(t, e, map[string]interface{}{
		"name": "admin", "studentId": "admin", "year": 4, "password": adminPassword,
	})

	rec = do(e, http.MethodGet, "/api/admin/stats", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	stats := decode[service.Statistics](t, rec)
	assert.Equal(t, service.Summary{TotalStudents: 1, EvaluatedCount: 1, PercentComplete: 100}, stats.Summary)
	require.Len(t, stats.ProjectStats, len(service.DefaultCatalog))
	assert.Equal(t, firstID, stats.ProjectStats[0].ID.String())
	assert.Equal(t, 8.0, stats.ProjectStats[0].AverageScore)
	assert.Equal(t, 1, stats.ProjectStats[0].EvaluationCount)
	require.Len(t, stats.AllEvaluations, 1)
	assert.Equal(t, "Somchai", stats.AllEvaluations[0].Evaluator.Name)

	rec = do(e, http.MethodGet, "/api/admin/export", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, "attachment; filename=project_evaluations.csv", rec.Header().Get(echo.HeaderContentDisposition))
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "\uFEFF"+service.ExportHeader))
	assert.True(t, strings.HasPrefix(lines[1], "Somchai,S001,2,"))
	assert.Contains(t, lines[1], `,8,"Good",`)
}

func TestLoginErrors(t *testing.T) {
	e := newTestServer(t)

	tests := []struct {
		name         string
		body         map[string]interface{}
		expectedCode int
		expectedErr  string
	}{
		{name: "missing year", body: map[string]interface{}{"name": "Somchai", "studentId": "S001"}, expectedCode: http.StatusBadRequest, expectedErr: "VALIDATION_ERROR"},
		{name: "missing name", body: map[string]interface{}{"studentId": "S001", "year": 2}, expectedCode: http.StatusBadRequest, expectedErr: "VALIDATION_ERROR"},
		{name: "year not a number", body: map[string]interface{}{"name": "Somchai", "studentId": "S001", "year": "two"}, expectedCode: http.StatusBadRequest, expectedErr: "VALIDATION_ERROR"},
		{name: "reserved student id", body: map[string]interface{}{"name": "Mallory", "studentId": "admin", "year": 1}, expectedCode: http.StatusForbidden, expectedErr: "RESERVED_STUDENT_ID"},
		{name: "wrong admin password", body: map[string]interface{}{"name": "admin", "studentId": "admin", "year": 4, "password": "nope"}, expectedCode: http.StatusUnauthorized, expectedErr: "INVALID_CREDENTIALS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(e, http.MethodPost, "/api/auth/login", tt.body, nil)
			assert.Equal(t, tt.expectedCode, rec.Code)
			body := decode[map[string]interface{}](t, rec)
			assert.Equal(t, tt.expectedErr, body["code"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestLoginCannotClaimStoredAdministrator(t *testing.T) {
	e := newServer(t, "admin", "root")

	rec := do(e, http.MethodPost, "/api/auth/login", map[string]interface{}{"name": "Mallory", "studentId": "admin", "year": 1}, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	for _, c := range rec.Result().Cookies() {
		assert.NotEqual(t, auth.CookieName, c.Name)
	}
	body := decode[map[string]interface{}](t, rec)
	assert.Equal(t, "RESERVED_STUDENT_ID", body["code"])

	rec = do(e, http.MethodGet, "/api/admin/stats", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	admin := login(t, e, map[string]interface{}{"name": "admin", "studentId": "x", "year": 4, "password": adminPassword})
	rec = do(e, http.MethodGet, "/api/admin/stats", nil, admin)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestEvaluateErrors(t *testing.T) {
	e := newTestServer(t)
	student := login(t, e, map[string]interface{}{"name": "Somchai", "studentId": "S001", "year": 2})

	rec := do(e, http.MethodGet, "/api/projects", nil, student)
	require.Equal(t, http.StatusOK, rec.Code)
	projectID := decode[[]map[string]interface{}](t, rec)[0]["id"].(string)

	tests := []struct {
		name         string
		body         map[string]interface{}
		expectedCode int
	}{
		{name: "missing score", body: map[string]interface{}{"projectId": projectID}, expectedCode: http.StatusBadRequest},
		{name: "missing project", body: map[string]interface{}{"score": 5}, expectedCode: http.StatusBadRequest},
		{name: "score too high", body: map[string]interface{}{"projectId": projectID, "score": 11}, expectedCode: http.StatusBadRequest},
		{name: "score too low", body: map[string]interface{}{"projectId": projectID, "score": 0}, expectedCode: http.StatusBadRequest},
		{name: "malformed project id", body: map[string]interface{}{"projectId": "abc", "score": 5}, expectedCode: http.StatusBadRequest},
		{name: "unknown project", body: map[string]interface{}{"projectId": "00000000-0000-0000-0000-000000000001", "score": 5}, expectedCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(e, http.MethodPost, "/api/evaluate", tt.body, student)
			assert.Equal(t, tt.expectedCode, rec.Code, rec.Body.String())
		})
	}
}

func TestProjects(t *testing.T) {
	e := newTestServer(t)
	student := login(t, e, map[string]interface{}{"name": "Somchai", "studentId": "S001", "year": 2})

	rec := do(e, http.MethodPost, "/api/projects", map[string]interface{}{"name": "Robot Arm"}, student)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[map[string]interface{}](t, rec)
	assert.Equal(t, "Robot Arm", created["name"])
	assert.Equal(t, "", created["description"])

	rec = do(e, http.MethodPost, "/api/projects", map[string]interface{}{"description": "no name"}, student)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodGet, "/api/projects/not-a-uuid", nil, student)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(e, http.MethodGet, "/api/projects/00000000-0000-0000-0000-000000000001", nil, student)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessionEndpoints(t *testing.T) {
	e := newTestServer(t)

	rec := do(e, http.MethodGet, "/api/auth/session", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))

	student := login(t, e, map[string]interface{}{"name": "Somchai", "studentId": "S001", "year": 2})
	rec = do(e, http.MethodGet, "/api/auth/session", nil, student)
	require.Equal(t, http.StatusOK, rec.Code)
	identity := decode[auth.Identity](t, rec)
	assert.Equal(t, "Somchai", identity.Name)
	assert.Equal(t, "S001", identity.StudentID)
	assert.False(t, identity.IsAdmin)

	rec = do(e, http.MethodPost, "/api/auth/logout", nil, student)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	cleared := sessionCookie(t, rec)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
}

func TestPagesAndPublicRoutes(t *testing.T) {
	e := newTestServer(t)
	student := login(t, e, map[string]interface{}{"name": "Somchai", "studentId": "S001", "year": 2})

	rec := do(e, http.MethodGet, "/", nil, nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))

	rec = do(e, http.MethodGet, "/login", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "login.html")

	rec = do(e, http.MethodGet, "/", nil, student)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "index.html")

	rec = do(e, http.MethodGet, "/admin", nil, student)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))

	rec = do(e, http.MethodGet, "/api/projects", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(e, http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_request_duration_seconds")
}
