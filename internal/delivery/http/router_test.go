package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"family-health-dashboard/config"
	"family-health-dashboard/internal/dashboard"
	"family-health-dashboard/internal/delivery/http/handler"
	"family-health-dashboard/internal/delivery/http/middleware"
	"family-health-dashboard/internal/infrastructure/blob"
	"family-health-dashboard/internal/repository"
	"family-health-dashboard/internal/service"
	"family-health-dashboard/internal/testutil"
	"family-health-dashboard/internal/usecase"
	"family-health-dashboard/pkg/jwt"
	"family-health-dashboard/pkg/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type apiClient struct {
	t      *testing.T
	server *httptest.Server
	token  string
}

func newTestServer(t *testing.T) *apiClient {
	t.Helper()

	db := testutil.NewDB(t)
	_, redisClient := testutil.NewRedis(t)
	log := testutil.NewLogger()

	feed := service.NewChangeFeed(service.NewMemoryNotifier(), log)
	require.NoError(t, feed.Start(context.Background()))

	blobCfg := config.BlobConfig{Dir: t.TempDir(), URLPath: "/blobs"}
	store, err := blob.NewLocalStore(blobCfg)
	require.NoError(t, err)

	profileRepo := repository.NewProfileRepository()
	recordRepo := repository.NewRecordRepository()
	auditLogRepo := repository.NewAuditLogRepository()
	audit := service.NewAuditService(log, auditLogRepo)
	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "test-secret", SessionExpiry: time.Hour})
	sessions := usecase.NewSessionUsecase(db, log, "app", jwtService, redisClient, audit)

	registry := dashboard.NewRegistry(dashboard.Deps{
		Sessions:  sessions,
		Profiles:  usecase.NewProfileUsecase(db, log, profileRepo, audit, feed),
		Records:   usecase.NewRecordQueryUsecase(db, log, recordRepo),
		Mutations: usecase.NewMutationUsecase(db, log, profileRepo, recordRepo, audit, feed, store),
		Exports:   usecase.NewExportUsecase(log),
		Feed:      feed,
		Log:       log,
	}, time.Minute)

	v := validator.NewValidator()
	router := NewRouter(
		handler.NewSessionHandler(sessions, registry, log),
		handler.NewDashboardHandler(v),
		handler.NewProfileHandler(v),
		handler.NewRecordHandler(v),
		handler.NewAuditLogHandler(usecase.NewAuditLogUsecase(db, log, auditLogRepo)),
		handler.NewPrescriptionHandler(store, log),
		middleware.NewAuthMiddleware(jwtService, sessions, registry, log),
		middleware.NewCORSMiddleware(nil),
		store.URLPath(),
	)

	server := httptest.NewServer(router.Setup())
	t.Cleanup(func() {
		server.Close()
		registry.Stop()
		feed.Stop()
	})
	return &apiClient{t: t, server: server}
}

func (c *apiClient) do(method, path string, body interface{}) (*http.Response, envelope) {
	c.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, c.server.URL+path, reader)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	return c.send(req)
}

func (c *apiClient) send(req *http.Request) (*http.Response, envelope) {
	c.t.Helper()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.server.Client().Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var env envelope
	_ = json.NewDecoder(resp.Body).Decode(&env)
	return resp, env
}

// dashboard fetches the current state. It never fails the test itself, so it is
// safe inside require.Eventually.
func (c *apiClient) dashboard() map[string]interface{} {
	req, err := http.NewRequest(http.MethodGet, c.server.URL+"/api/v1/dashboard", nil)
	if err != nil {
		return nil
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.server.Client().Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	var env struct {
		Data map[string]interface{} `json:"data"`
	}
	if resp.StatusCode != http.StatusOK || json.NewDecoder(resp.Body).Decode(&env) != nil {
		return nil
	}
	return env.Data
}

func (c *apiClient) open() {
	c.t.Helper()
	resp, env := c.do(http.MethodPost, "/api/v1/session", nil)
	require.Equal(c.t, http.StatusCreated, resp.StatusCode)

	var session struct {
		Token     string `json:"token"`
		Anonymous bool   `json:"anonymous"`
	}
	require.NoError(c.t, json.Unmarshal(env.Data, &session))
	require.NotEmpty(c.t, session.Token)
	assert.True(c.t, session.Anonymous)
	c.token = session.Token
}

func TestHealthCheck(t *testing.T) {
	c := newTestServer(t)
	resp, _ := c.do(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	c := newTestServer(t)

	resp, _ := c.do(http.MethodGet, "/api/v1/dashboard", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	c.token = "garbage"
	resp, _ = c.do(http.MethodGet, "/api/v1/dashboard", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestDashboardFlowOverHTTP(t *testing.T) {
	c := newTestServer(t)
	c.open()

	resp, env := c.do(http.MethodPost, "/api/v1/profiles", map[string]string{"name": "Alice", "relationship": "Self"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var profile struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &profile))

	require.Eventually(t, func() bool {
		return c.dashboard()["active_profile_id"] == profile.ID
	}, 2*time.Second, 10*time.Millisecond)

	resp, env = c.do(http.MethodPost, "/api/v1/medicines", map[string]interface{}{
		"name":   "Aspirin",
		"stock":  2,
		"dosage": "Once a day",
		"times":  []string{"08:00"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var saved struct {
		ID   string `json:"id"`
		Kind string `json:"kind"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &saved))
	assert.Equal(t, "medicines", saved.Kind)

	resp, _ = c.do(http.MethodPost, "/api/v1/medicines/"+saved.ID+"/doses", nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	require.Eventually(t, func() bool {
		d := c.dashboard()
		logs, _ := d["medicine_logs"].([]interface{})
		return len(logs) == 1
	}, 2*time.Second, 10*time.Millisecond)

	resp, env = c.do(http.MethodGet, "/api/v1/export", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "health-report-Alice-")
	var report struct {
		Profile struct {
			Name string `json:"name"`
		} `json:"profile"`
		Summary struct {
			DosesTaken int `json:"doses_taken"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, "Alice", report.Profile.Name)
	assert.Equal(t, 1, report.Summary.DosesTaken)

	resp, _ = c.do(http.MethodGet, "/api/v1/activity", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestValidationAndMutationErrors(t *testing.T) {
	c := newTestServer(t)
	c.open()

	resp, env := c.do(http.MethodPost, "/api/v1/profiles", map[string]string{"relationship": "Self"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Validation failed", env.Message)

	resp, _ = c.do(http.MethodPost, "/api/v1/medicines", map[string]interface{}{"name": "Aspirin", "dosage": "Hourly"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = c.do(http.MethodPut, "/api/v1/dashboard/view", map[string]string{"view": "settings"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = c.do(http.MethodPut, "/api/v1/dashboard/view", map[string]string{"view": "history"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "history", c.dashboard()["view"])

	resp, _ = c.do(http.MethodPut, "/api/v1/profiles/active", map[string]string{"profile_id": "ghost"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = c.do(http.MethodGet, "/api/v1/export", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

// upload posts a multipart prescription and returns the status and stored URL.
func (c *apiClient) upload(fileName, content string) (int, string) {
	c.t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", fileName)
	require.NoError(c.t, err)
	_, err = part.Write([]byte(content))
	require.NoError(c.t, err)
	require.NoError(c.t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, c.server.URL+"/api/v1/prescriptions", &body)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, env := c.send(req)

	var uploaded struct {
		URL string `json:"url"`
	}
	if len(env.Data) > 0 {
		require.NoError(c.t, json.Unmarshal(env.Data, &uploaded))
	}
	return resp.StatusCode, uploaded.URL
}

// get fetches path raw, with the client's token when it has one.
func (c *apiClient) get(path string) (*http.Response, string) {
	c.t.Helper()

	req, err := http.NewRequest(http.MethodGet, c.server.URL+path, nil)
	require.NoError(c.t, err)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.server.Client().Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp, string(body)
}

func (c *apiClient) addProfile(name string) {
	c.t.Helper()
	resp, _ := c.do(http.MethodPost, "/api/v1/profiles", map[string]string{"name": name, "relationship": "Self"})
	require.Equal(c.t, http.StatusCreated, resp.StatusCode)
}

func TestUploadedPrescriptionIsDownloadableByOwner(t *testing.T) {
	c := newTestServer(t)
	c.open()
	c.addProfile("Alice")

	status, url := c.upload("scan.PNG", "secret-rx")
	require.Equal(t, http.StatusCreated, status)
	assert.True(t, strings.HasSuffix(url, ".png"), url)

	resp, body := c.get(url)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "secret-rx", body)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")
}

func TestPrescriptionsAreNotPublic(t *testing.T) {
	c := newTestServer(t)
	c.open()
	c.addProfile("Alice")

	status, url := c.upload("scan.png", "secret-rx")
	require.Equal(t, http.StatusCreated, status)
	prescriptionsDir := url[:strings.LastIndex(url, "/")+1]

	anonymous := &apiClient{t: t, server: c.server}
	resp, body := anonymous.get("/blobs/artifacts/app/users/")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.NotContains(t, body, "profiles")

	resp, body = anonymous.get(url)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.NotContains(t, body, "secret-rx")

	// The owner cannot list directories either.
	resp, _ = c.get("/blobs/artifacts/app/users/")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = c.get(prescriptionsDir)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	other := &apiClient{t: t, server: c.server}
	other.open()
	resp, body = other.get(url)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NotContains(t, body, "secret-rx")
}

func TestUploadRejectsActiveContent(t *testing.T) {
	c := newTestServer(t)
	c.open()
	c.addProfile("Alice")

	status, url := c.upload("page.html", "<script>alert(1)</script>")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Empty(t, url)
}

func TestClosedSessionIsRejected(t *testing.T) {
	c := newTestServer(t)
	c.open()

	resp, _ := c.do(http.MethodDelete, "/api/v1/session", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = c.do(http.MethodGet, "/api/v1/dashboard", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	c.token = ""
	resp, _ = c.do(http.MethodDelete, "/api/v1/session", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
