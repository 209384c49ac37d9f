package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/truthcheck/truthcheck/internal/config"
	"github.com/truthcheck/truthcheck/internal/models"
	"github.com/truthcheck/truthcheck/internal/store/redisstore"
)

type envelope struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(gormsqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	h := &Handler{
		DB: db,
		Cfg: config.Config{
			JWTSecret: "test-secret",
			JWTTTL:    time.Hour,
			BaseURL:   "http://localhost:8080",
		},
		// unreachable redis: the confirmation token write fails and the
		// signup mail is skipped, which is the offline dev behavior
		Redis: redisstore.New("127.0.0.1:1", "", 0),
	}

	r := gin.New()
	r.POST("/users", h.CreateUser)
	r.POST("/login", h.Login)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal response %q: %v", w.Body.String(), err)
	}
	return w, env
}

func signupBody(email string) map[string]string {
	return map[string]string{
		"name":             "Ada Lovelace",
		"email":            email,
		"phone":            "+1 555 0100",
		"password":         "secret6",
		"confirm_password": "secret6",
	}
}

func TestCreateUser_ValidationFailures(t *testing.T) {
	r := newTestRouter(t)

	cases := []struct {
		name string
		body map[string]string
	}{
		{"missing name", map[string]string{"email": "a@b.co", "password": "secret6", "confirm_password": "secret6"}},
		{"bad email", map[string]string{"name": "A", "email": "a@b", "password": "secret6", "confirm_password": "secret6"}},
		{"short password", map[string]string{"name": "A", "email": "a@b.co", "password": "12345", "confirm_password": "12345"}},
		{"mismatched confirmation", map[string]string{"name": "A", "email": "a@b.co", "password": "secret6", "confirm_password": "secret7"}},
	}
	for _, tc := range cases {
		w, env := doJSON(t, r, http.MethodPost, "/users", tc.body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", tc.name, w.Code)
		}
		if env.Code == 0 {
			t.Errorf("%s: expected non-zero app code", tc.name)
		}
	}
}

func TestCreateUser_Success(t *testing.T) {
	r := newTestRouter(t)

	w, env := doJSON(t, r, http.MethodPost, "/users", signupBody("ada1@example.com"))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	if env.Data["token"] == "" || env.Data["token"] == nil {
		t.Fatalf("expected session token in response")
	}

	// duplicate email rejected
	w2, _ := doJSON(t, r, http.MethodPost, "/users", signupBody("ada1@example.com"))
	if w2.Code != http.StatusBadRequest {
		t.Fatalf("expected duplicate signup to fail, got %d", w2.Code)
	}
}

func TestLogin(t *testing.T) {
	r := newTestRouter(t)

	if w, _ := doJSON(t, r, http.MethodPost, "/users", signupBody("ada2@example.com")); w.Code != http.StatusOK {
		t.Fatalf("signup failed: %d", w.Code)
	}

	// wrong password: generic message, single attempt
	w, env := doJSON(t, r, http.MethodPost, "/login", map[string]string{
		"email":    "ada2@example.com",
		"password": "wrong66",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if env.Message != loginFailedMsg {
		t.Fatalf("expected generic failure message, got %q", env.Message)
	}

	// unknown user gets the same generic message
	_, env2 := doJSON(t, r, http.MethodPost, "/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "secret6",
	})
	if env2.Message != loginFailedMsg {
		t.Fatalf("expected generic failure message, got %q", env2.Message)
	}

	// correct credentials
	w3, env3 := doJSON(t, r, http.MethodPost, "/login", map[string]string{
		"email":    "ada2@example.com",
		"password": "secret6",
	})
	if w3.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w3.Code, w3.Body.String())
	}
	if env3.Data["token"] == "" || env3.Data["token"] == nil {
		t.Fatalf("expected token on login")
	}

	// malformed email is rejected before any lookup
	w4, _ := doJSON(t, r, http.MethodPost, "/login", map[string]string{
		"email":    "not-an-email",
		"password": "secret6",
	})
	if w4.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed email, got %d", w4.Code)
	}
}
