package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// loginAndGetCookie runs the mock login flow and returns the session cookie.
func loginAndGetCookie(t *testing.T, m *MockAuth) *http.Cookie {
	t.Helper()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	m.LoginHandler(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect after login, got %d", rec.Code)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == "session_id" {
			return c
		}
	}
	t.Fatal("login did not set a session cookie")
	return nil
}

func TestMockAuthMiddlewareRejectsWithoutSession(t *testing.T) {
	m := NewMockAuth()

	handler := m.Middleware(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run without a session")
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/api/draft/pick", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestMockAuthLoginAndMiddleware(t *testing.T) {
	m := NewMockAuth()
	cookie := loginAndGetCookie(t, m)

	var seen *User
	handler := m.Middleware(func(w http.ResponseWriter, r *http.Request) {
		seen = GetUser(r)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/draft/pick", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid session, got %d", rec.Code)
	}
	if seen == nil {
		t.Fatal("user missing from request context")
	}
	if seen.Username != "devuser" {
		t.Errorf("expected devuser, got %s", seen.Username)
	}
	if !IsCommissioner(seen) {
		t.Error("mock user should be a commissioner")
	}
}

func TestMockAuthLogoutInvalidatesSession(t *testing.T) {
	m := NewMockAuth()
	cookie := loginAndGetCookie(t, m)

	logoutReq := httptest.NewRequest(http.MethodGet, "/auth/logout", nil)
	logoutReq.AddCookie(cookie)
	m.LogoutHandler(httptest.NewRecorder(), logoutReq)

	handler := m.Middleware(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run after logout")
	})
	req := httptest.NewRequest(http.MethodGet, "/api/draft/state", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", rec.Code)
	}
}

func TestRequireCommissioner(t *testing.T) {
	called := false
	handler := RequireCommissioner(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	// No user in context
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/api/draft/reset", nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 without user, got %d", rec.Code)
	}
	if called {
		t.Error("handler ran without commissioner rights")
	}
}

func TestIsCommissioner(t *testing.T) {
	if IsCommissioner(nil) {
		t.Error("nil user is not a commissioner")
	}
	if IsCommissioner(&User{Groups: []string{"users"}}) {
		t.Error("plain member is not a commissioner")
	}
	if !IsCommissioner(&User{Groups: []string{"users", "commissioners"}}) {
		t.Error("commissioner group member should pass")
	}
}
