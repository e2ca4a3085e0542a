package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"taskman/todo-web/model"
	"taskman/todo-web/pkg/security"
	"taskman/todo-web/pkg/session"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestAPI wires the full router around a private in-memory database.
func newTestAPI(t *testing.T) *API {
	t.Helper()

	gin.SetMode(gin.TestMode)

	viper.Set("host.domain", "localhost")
	viper.Set("session.secret", "test-secret-"+t.Name())
	viper.Set("session.max_age", "1h")
	viper.Set("audit.workers", 1)
	viper.Set("audit.queue_size", 64)

	// _foreign_keys=1 makes SQLite enforce the FK constraints the way
	// MySQL does in production
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", strings.ReplaceAll(t.Name(), "/", "_"))

	d, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := d.DB()
	if err != nil {
		t.Fatalf("Failed to access sql.DB: %v", err)
	}

	// A single connection keeps the shared in-memory database alive for
	// the duration of the test
	sqlDB.SetMaxOpenConns(1)

	if err := d.AutoMigrate(model.User{}, model.Task{}, model.LogEntry{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	a := newAPI(d)

	// Hashing at production cost would dominate the test runtime
	a.Argon = &security.ArgonHash{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}

	t.Cleanup(a.Audit.Close)

	return a
}

func createUser(t *testing.T, a *API, name, password string, admin bool) *model.User {
	t.Helper()

	hash, err := a.Argon.GenerateFromPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	u := &model.User{
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: hash,
		Admin:        admin,
	}

	if err := a.DB.Create(u).Error; err != nil {
		t.Fatalf("Failed to create user %q: %v", name, err)
	}

	return u
}

func getPage(a *API, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	rr := httptest.NewRecorder()
	a.Router.ServeHTTP(rr, req)
	return rr
}

func postForm(a *API, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	rr := httptest.NewRecorder()
	a.Router.ServeHTTP(rr, req)
	return rr
}

func login(t *testing.T, a *API, name, password string) *http.Cookie {
	t.Helper()

	rr := postForm(a, "/login", url.Values{
		"username": {name},
		"password": {password},
	})
	if rr.Code != http.StatusFound {
		t.Fatalf("Login for %q returned status %d, want %d", name, rr.Code, http.StatusFound)
	}

	for _, ck := range rr.Result().Cookies() {
		if ck.Name == session.CookieName && ck.Value != "" {
			return ck
		}
	}

	t.Fatalf("Login for %q did not set a session cookie", name)
	return nil
}
