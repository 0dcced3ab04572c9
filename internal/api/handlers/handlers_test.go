package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/followme-dot/INFRA-OBSERVATORY/internal/api/handlers"
	"github.com/followme-dot/INFRA-OBSERVATORY/internal/api/middleware"
	"github.com/followme-dot/INFRA-OBSERVATORY/internal/auth"
	"github.com/followme-dot/INFRA-OBSERVATORY/internal/config"
	"github.com/followme-dot/INFRA-OBSERVATORY/internal/db"
	"github.com/followme-dot/INFRA-OBSERVATORY/internal/overview"
)

const testSecret = "handlers-test-secret"

type testEnv struct {
	router *gin.Engine
	repo   *db.Repository
	token  string
}

// newTestEnv wires the handlers onto a bare engine. The metrics collector
// registers into the process-global prometheus registry, so the full server
// constructor cannot be built once per test here.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn, err := sqlx.Connect("sqlite3", "file::memory:?_fk=1")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	schema, err := os.ReadFile(filepath.Join("..", "..", "..", "migrations", "000001_init_schema.up.sql"))
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}
	// go-sqlite3 only parses time.Time out of columns declared
	// timestamp/datetime/date, so the Postgres type needs translating.
	ddl := strings.ReplaceAll(string(schema), "TIMESTAMPTZ", "TIMESTAMP")
	if _, err := conn.Exec(ddl); err != nil {
		t.Fatalf("apply schema: %v", err)
	}

	repo := db.NewRepository(conn)
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = testSecret
	cfg.Auth.TokenTTL = time.Hour

	logger := zap.NewNop()
	h := handlers.NewHandler(repo, overview.NewCalculator(repo, logger), cfg, logger)

	router := gin.New()
	router.POST("/api/v1/auth/login", h.Login)

	api := router.Group("/api/v1")
	api.Use(middleware.AuthRequired(testSecret))
	api.GET("/auth/me", h.Me)
	api.GET("/overview", h.SystemOverview)

	api.POST("/platforms", h.CreatePlatform)
	api.GET("/platforms", h.ListPlatforms)
	api.GET("/platforms/:code", h.GetPlatform)
	api.PUT("/platforms/:code", h.UpdatePlatform)
	api.DELETE("/platforms/:code", h.DeletePlatform)
	api.GET("/platforms/:code/health", h.GetPlatformHealth)

	api.POST("/services", h.CreateService)
	api.GET("/logs", h.ListLogs)

	api.POST("/incidents", h.CreateIncident)
	api.PUT("/incidents/:id", h.UpdateIncident)
	api.POST("/incidents/:id/timeline", h.AppendIncidentTimeline)

	api.POST("/alerts", h.CreateAlert)
	api.POST("/alerts/:id/acknowledge", h.AcknowledgeAlert)
	api.POST("/alerts/:id/resolve", h.ResolveAlert)

	api.POST("/alert-rules", h.CreateAlertRule)

	users := api.Group("/users")
	users.Use(middleware.AdminRequired())
	users.GET("", h.ListUsers)

	env := &testEnv{router: router, repo: repo}
	env.token = env.seedUser(t, "admin@example.com", "correct horse", db.RoleAdmin)
	return env
}

func (e *testEnv) seedUser(t *testing.T, email, password string, role db.Role) string {
	t.Helper()

	hashed, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &db.User{Email: email, HashedPassword: hashed, Name: "Test User", Role: role, IsActive: true}
	if err := e.repo.CreateUser(u); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	token, err := auth.IssueToken(testSecret, time.Hour, u.ID, u.Email, string(u.Role))
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func TestLoginFlow(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/auth/login",
		gin.H{"email": "admin@example.com", "password": "nope"}, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad password: code = %d, want 401", w.Code)
	}

	w = env.do(t, http.MethodPost, "/api/v1/auth/login",
		gin.H{"email": "ghost@example.com", "password": "nope"}, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("unknown email: code = %d, want 401", w.Code)
	}

	w = env.do(t, http.MethodPost, "/api/v1/auth/login",
		gin.H{"email": "admin@example.com", "password": "correct horse"}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login: code = %d, body %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	token, _ := body["access_token"].(string)
	if token == "" {
		t.Fatal("login response missing access_token")
	}

	w = env.do(t, http.MethodGet, "/api/v1/auth/me", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("me: code = %d", w.Code)
	}
	if me := decode(t, w); me["email"] != "admin@example.com" {
		t.Errorf("me email = %v", me["email"])
	}
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t)

	if w := env.do(t, http.MethodGet, "/api/v1/overview", nil, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("no token: code = %d, want 401", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/api/v1/overview", nil, "garbage"); w.Code != http.StatusUnauthorized {
		t.Errorf("bad token: code = %d, want 401", w.Code)
	}
}

func TestAdminOnlyRoutes(t *testing.T) {
	env := newTestEnv(t)
	viewer := env.seedUser(t, "viewer@example.com", "pw", db.RoleViewer)

	if w := env.do(t, http.MethodGet, "/api/v1/users", nil, viewer); w.Code != http.StatusForbidden {
		t.Errorf("viewer: code = %d, want 403", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/api/v1/users", nil, env.token); w.Code != http.StatusOK {
		t.Errorf("admin: code = %d, want 200", w.Code)
	}
}

func TestPlatformLifecycle(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/platforms",
		gin.H{"code": "infrabank", "name": "InfraBank"}, env.token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: code = %d, body %s", w.Code, w.Body.String())
	}
	created := decode(t, w)
	if created["status"] != "unknown" {
		t.Errorf("status = %v, want unknown default", created["status"])
	}

	w = env.do(t, http.MethodPost, "/api/v1/platforms",
		gin.H{"code": "infrabank", "name": "Duplicate"}, env.token)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate: code = %d, want 409", w.Code)
	}
	if body := decode(t, w); body["code"] != "conflict" {
		t.Errorf("duplicate error code = %v", body["code"])
	}

	w = env.do(t, http.MethodGet, "/api/v1/platforms/infrabank", nil, env.token)
	if w.Code != http.StatusOK {
		t.Fatalf("get: code = %d", w.Code)
	}
	if ov := decode(t, w); ov["service_count"] != float64(0) {
		t.Errorf("service_count = %v, want 0", ov["service_count"])
	}

	w = env.do(t, http.MethodPut, "/api/v1/platforms/infrabank",
		gin.H{"name": "InfraBank Prod", "status": "healthy"}, env.token)
	if w.Code != http.StatusOK {
		t.Fatalf("update: code = %d, body %s", w.Code, w.Body.String())
	}
	if updated := decode(t, w); updated["name"] != "InfraBank Prod" {
		t.Errorf("updated name = %v", updated["name"])
	}

	w = env.do(t, http.MethodGet, "/api/v1/platforms/infrabank/health", nil, env.token)
	if w.Code != http.StatusOK {
		t.Fatalf("health: code = %d", w.Code)
	}
	if health := decode(t, w); health["health_score"] != float64(100) {
		t.Errorf("health_score = %v, want 100 with no services", health["health_score"])
	}

	if w = env.do(t, http.MethodDelete, "/api/v1/platforms/infrabank", nil, env.token); w.Code != http.StatusNoContent {
		t.Fatalf("delete: code = %d, want 204", w.Code)
	}
	if w = env.do(t, http.MethodGet, "/api/v1/platforms/infrabank", nil, env.token); w.Code != http.StatusNotFound {
		t.Errorf("get after delete: code = %d, want 404", w.Code)
	}
}

func TestPlatformValidation(t *testing.T) {
	env := newTestEnv(t)

	// Missing required fields.
	if w := env.do(t, http.MethodPost, "/api/v1/platforms", gin.H{"name": "No Code"}, env.token); w.Code != http.StatusBadRequest {
		t.Errorf("missing code: code = %d, want 400", w.Code)
	}
	// Bad color.
	w := env.do(t, http.MethodPost, "/api/v1/platforms",
		gin.H{"code": "x", "name": "X", "color": "bright red"}, env.token)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad color: code = %d, want 400", w.Code)
	}
}

func TestServiceSlugConflict(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/platforms",
		gin.H{"code": "pay", "name": "Payments"}, env.token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create platform: code = %d", w.Code)
	}
	platformID := decode(t, w)["id"].(string)

	payload := gin.H{"platform_id": platformID, "name": "API Gateway", "slug": "api-gateway"}
	if w = env.do(t, http.MethodPost, "/api/v1/services", payload, env.token); w.Code != http.StatusCreated {
		t.Fatalf("create service: code = %d, body %s", w.Code, w.Body.String())
	}
	if w = env.do(t, http.MethodPost, "/api/v1/services", payload, env.token); w.Code != http.StatusConflict {
		t.Errorf("duplicate slug: code = %d, want 409", w.Code)
	}

	orphan := gin.H{"platform_id": "no-such-platform", "name": "Orphan", "slug": "orphan"}
	if w = env.do(t, http.MethodPost, "/api/v1/services", orphan, env.token); w.Code != http.StatusBadRequest {
		t.Errorf("missing platform: code = %d, want 400", w.Code)
	}
}

func TestListWindowValidation(t *testing.T) {
	env := newTestEnv(t)

	if w := env.do(t, http.MethodGet, "/api/v1/logs?limit=501", nil, env.token); w.Code != http.StatusBadRequest {
		t.Errorf("limit=501: code = %d, want 400", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/api/v1/logs?limit=0", nil, env.token); w.Code != http.StatusBadRequest {
		t.Errorf("limit=0: code = %d, want 400", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/api/v1/logs?offset=-1", nil, env.token); w.Code != http.StatusBadRequest {
		t.Errorf("offset=-1: code = %d, want 400", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/api/v1/logs?limit=500", nil, env.token); w.Code != http.StatusOK {
		t.Errorf("limit=500: code = %d, want 200", w.Code)
	}
}

func TestIncidentStatusTransitions(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/incidents",
		gin.H{"title": "Checkout errors spiking", "severity": "high"}, env.token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: code = %d, body %s", w.Code, w.Body.String())
	}
	id := decode(t, w)["id"].(string)

	w = env.do(t, http.MethodPut, "/api/v1/incidents/"+id,
		gin.H{"status": "investigating"}, env.token)
	if w.Code != http.StatusOK {
		t.Fatalf("advance: code = %d, body %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodPut, "/api/v1/incidents/"+id,
		gin.H{"status": "open"}, env.token)
	if w.Code != http.StatusConflict {
		t.Errorf("backwards: code = %d, want 409", w.Code)
	}

	w = env.do(t, http.MethodPut, "/api/v1/incidents/"+id,
		gin.H{"status": "resolved"}, env.token)
	if w.Code != http.StatusOK {
		t.Fatalf("resolve: code = %d", w.Code)
	}
	if body := decode(t, w); body["resolved_at"] == nil {
		t.Error("resolved_at should be stamped on transition")
	}

	w = env.do(t, http.MethodPost, "/api/v1/incidents/"+id+"/timeline",
		gin.H{"action": "identified root cause", "note": "bad deploy"}, env.token)
	if w.Code != http.StatusOK {
		t.Fatalf("timeline: code = %d, body %s", w.Code, w.Body.String())
	}
	timeline, ok := decode(t, w)["timeline"].([]interface{})
	if !ok || len(timeline) == 0 {
		t.Fatal("timeline should contain the appended entry")
	}
	entry := timeline[len(timeline)-1].(map[string]interface{})
	if entry["action"] != "identified root cause" {
		t.Errorf("entry action = %v", entry["action"])
	}
}

func TestAlertAcknowledgeAndResolve(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/alerts",
		gin.H{"name": "p99 latency", "severity": "high"}, env.token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: code = %d, body %s", w.Code, w.Body.String())
	}
	id := decode(t, w)["id"].(string)

	admin, err := env.repo.GetUserByEmail("admin@example.com")
	if err != nil {
		t.Fatalf("load admin: %v", err)
	}

	w = env.do(t, http.MethodPost, "/api/v1/alerts/"+id+"/acknowledge", nil, env.token)
	if w.Code != http.StatusOK {
		t.Fatalf("acknowledge: code = %d, body %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["acknowledged_at"] == nil {
		t.Error("acknowledged_at should be set")
	}
	// acknowledged_by is a UUID reference, not the caller's email.
	if body["acknowledged_by"] != admin.ID {
		t.Errorf("acknowledged_by = %v, want user id %s", body["acknowledged_by"], admin.ID)
	}

	// Acknowledging twice is idempotent.
	if w = env.do(t, http.MethodPost, "/api/v1/alerts/"+id+"/acknowledge", nil, env.token); w.Code != http.StatusOK {
		t.Errorf("re-acknowledge: code = %d, want 200", w.Code)
	}

	if w = env.do(t, http.MethodPost, "/api/v1/alerts/"+id+"/resolve", nil, env.token); w.Code != http.StatusOK {
		t.Fatalf("resolve: code = %d", w.Code)
	}

	// Resolved alerts cannot be acknowledged.
	if w = env.do(t, http.MethodPost, "/api/v1/alerts/"+id+"/acknowledge", nil, env.token); w.Code != http.StatusConflict {
		t.Errorf("acknowledge resolved: code = %d, want 409", w.Code)
	}
}

func TestAlertRuleCreatorAttribution(t *testing.T) {
	env := newTestEnv(t)

	admin, err := env.repo.GetUserByEmail("admin@example.com")
	if err != nil {
		t.Fatalf("load admin: %v", err)
	}

	w := env.do(t, http.MethodPost, "/api/v1/alert-rules",
		gin.H{"name": "error budget burn", "condition_operator": "gt", "threshold": 0.95}, env.token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create rule: code = %d, body %s", w.Code, w.Body.String())
	}
	if body := decode(t, w); body["created_by"] != admin.ID {
		t.Errorf("created_by = %v, want user id %s", body["created_by"], admin.ID)
	}
}

func TestBoolFilterValidation(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/platforms?is_active=banana", nil, env.token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("is_active=banana: code = %d, want 400", w.Code)
	}
	if body := decode(t, w); body["code"] != "validation_failed" {
		t.Errorf("error code = %v, want validation_failed", body["code"])
	}

	if w := env.do(t, http.MethodGet, "/api/v1/platforms?is_active=true", nil, env.token); w.Code != http.StatusOK {
		t.Errorf("is_active=true: code = %d, want 200", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/api/v1/platforms?is_active=0", nil, env.token); w.Code != http.StatusOK {
		t.Errorf("is_active=0: code = %d, want 200", w.Code)
	}
}
