package api

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"taskman/todo-web/model"
)

func TestRegisterCreatesUserAndRedirects(t *testing.T) {
	a := newTestAPI(t)

	rr := postForm(a, "/register", url.Values{
		"username": {"alice"},
		"email":    {"a@x.com"},
		"password": {"pw123456"},
	})

	if rr.Code != http.StatusFound {
		t.Fatalf("Expected status %d, got %d", http.StatusFound, rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/login" {
		t.Errorf("Expected redirect to /login, got %q", loc)
	}

	var user model.User
	if err := a.DB.Where("name = ?", "alice").First(&user).Error; err != nil {
		t.Fatalf("Registered user not found: %v", err)
	}

	ok, err := a.Argon.VerifyPasswd("pw123456", user.PasswordHash)
	if err != nil || !ok {
		t.Errorf("Stored hash does not verify against the registered password (ok=%v, err=%v)", ok, err)
	}
	if user.Verified || user.Admin {
		t.Errorf("New user should be unverified and non-admin, got verified=%v admin=%v", user.Verified, user.Admin)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	a := newTestAPI(t)

	form := url.Values{
		"username": {"alice"},
		"email":    {"a@x.com"},
		"password": {"pw123456"},
	}

	if rr := postForm(a, "/register", form); rr.Code != http.StatusFound {
		t.Fatalf("First registration failed with status %d", rr.Code)
	}

	rr := postForm(a, "/register", form)
	if rr.Code != http.StatusConflict {
		t.Errorf("Expected status %d on duplicate, got %d", http.StatusConflict, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Username already exists.") {
		t.Error("Expected duplicate-user message in the form")
	}

	var count int64
	a.DB.Model(model.User{}).Where("name = ?", "alice").Count(&count)
	if count != 1 {
		t.Errorf("Expected exactly 1 row for alice, got %d", count)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	a := newTestAPI(t)

	rr := postForm(a, "/register", url.Values{
		"username": {"alice"},
		"email":    {"a@x.com"},
		"password": {"short"},
	})

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}

	var count int64
	a.DB.Model(model.User{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected no users, got %d", count)
	}
}

// Both an unknown username and a wrong password must produce the same
// response, so the login form can't be used to enumerate accounts.
func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	a := newTestAPI(t)
	createUser(t, a, "bob", "pw123456", false)

	wrongPass := postForm(a, "/login", url.Values{
		"username": {"bob"},
		"password": {"wrongpass"},
	})
	unknownUser := postForm(a, "/login", url.Values{
		"username": {"nosuchuser"},
		"password": {"whatever1"},
	})

	if wrongPass.Code != http.StatusUnauthorized || unknownUser.Code != http.StatusUnauthorized {
		t.Fatalf("Expected status %d for both failures, got %d and %d",
			http.StatusUnauthorized, wrongPass.Code, unknownUser.Code)
	}

	if wrongPass.Body.String() != unknownUser.Body.String() {
		t.Error("Wrong-password and unknown-user responses differ")
	}

	if !strings.Contains(wrongPass.Body.String(), "Invalid username or password.") {
		t.Error("Expected the generic invalid-credentials message")
	}
}

func TestLoginRedirectsByRole(t *testing.T) {
	a := newTestAPI(t)
	createUser(t, a, "bob", "pw123456", false)
	createUser(t, a, "root", "pw123456", true)

	rr := postForm(a, "/login", url.Values{"username": {"bob"}, "password": {"pw123456"}})
	if loc := rr.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("Expected regular user redirect to /dashboard, got %q", loc)
	}

	rr = postForm(a, "/login", url.Values{"username": {"root"}, "password": {"pw123456"}})
	if loc := rr.Header().Get("Location"); loc != "/admin" {
		t.Errorf("Expected admin redirect to /admin, got %q", loc)
	}
}

func TestLoginSessionCookieAttributes(t *testing.T) {
	a := newTestAPI(t)
	createUser(t, a, "bob", "pw123456", false)

	rr := postForm(a, "/login", url.Values{"username": {"bob"}, "password": {"pw123456"}})

	var found bool
	for _, ck := range rr.Result().Cookies() {
		if ck.Name != "session_token" {
			continue
		}

		found = true
		if !ck.Secure {
			t.Error("Session cookie must have the Secure flag")
		}
		if !ck.HttpOnly {
			t.Error("Session cookie must be HttpOnly")
		}
		if ck.SameSite != http.SameSiteLaxMode {
			t.Errorf("Session cookie must be SameSite=Lax, got %v", ck.SameSite)
		}
	}

	if !found {
		t.Fatal("No session cookie set on login")
	}
}

func TestLogoutClearsSession(t *testing.T) {
	a := newTestAPI(t)
	createUser(t, a, "bob", "pw123456", false)
	ck := login(t, a, "bob", "pw123456")

	rr := postForm(a, "/logout", url.Values{}, ck)
	if rr.Code != http.StatusFound {
		t.Fatalf("Expected status %d, got %d", http.StatusFound, rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/login" {
		t.Errorf("Expected redirect to /login, got %q", loc)
	}

	var cleared bool
	for _, c := range rr.Result().Cookies() {
		if c.Name == "session_token" && c.Value == "" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("Logout did not expire the session cookie")
	}

	// A second logout without a session is fine
	rr = postForm(a, "/logout", url.Values{})
	if rr.Code != http.StatusFound {
		t.Errorf("Logout without a session returned %d, want %d", rr.Code, http.StatusFound)
	}
}

func TestDashboardRequiresSession(t *testing.T) {
	a := newTestAPI(t)

	rr := getPage(a, "/dashboard")
	if rr.Code != http.StatusFound {
		t.Fatalf("Expected status %d, got %d", http.StatusFound, rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/login" {
		t.Errorf("Expected redirect to /login, got %q", loc)
	}
}

func TestSessionForDeletedUserIsRejected(t *testing.T) {
	a := newTestAPI(t)
	user := createUser(t, a, "bob", "pw123456", false)
	ck := login(t, a, "bob", "pw123456")

	if err := a.DB.Delete(&model.User{}, user.ID).Error; err != nil {
		t.Fatalf("Failed to delete user: %v", err)
	}

	rr := getPage(a, "/dashboard", ck)
	if rr.Code != http.StatusFound {
		t.Fatalf("Expected status %d, got %d", http.StatusFound, rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/login" {
		t.Errorf("Expected redirect to /login, got %q", loc)
	}
}

// Every 500 carries the request ID so a user report can be matched to
// the log line, the middleware paths included.
func TestDatabaseFailureReturns500WithRequestID(t *testing.T) {
	a := newTestAPI(t)
	createUser(t, a, "bob", "pw123456", false)
	ck := login(t, a, "bob", "pw123456")

	if err := a.DB.Migrator().DropTable(&model.User{}); err != nil {
		t.Fatalf("Failed to drop users table: %v", err)
	}

	rr := getPage(a, "/dashboard", ck)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status %d, got %d", http.StatusInternalServerError, rr.Code)
	}
	if body := rr.Body.String(); !strings.Contains(body, "(request ") {
		t.Errorf("Expected the error page to carry the request ID, got %q", body)
	}
}
