package middleware

import (
	"context"
	"coursehub/internal/logger"
	"coursehub/internal/utils"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

const testSecret = "test-secret"

func okHandler() (http.Handler, *bool) {
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), &called
}

func serveJWT(t *testing.T, token string) (*httptest.ResponseRecorder, *bool) {
	t.Helper()
	next, called := okHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	JWTAuth(next).ServeHTTP(rec, req)
	return rec, called
}

func TestJWTAuth_AccessToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	token, err := utils.GenerateToken(testSecret, 7, "user", time.Minute, "access")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	rec, called := serveJWT(t, token)
	if rec.Code != http.StatusOK || !*called {
		t.Fatalf("ожидался 200 и вызов обработчика, получено %d", rec.Code)
	}
}

func TestJWTAuth_AdminToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	token, err := utils.GenerateAdminToken(testSecret, 1, "root", time.Minute)
	if err != nil {
		t.Fatalf("GenerateAdminToken: %v", err)
	}

	rec, called := serveJWT(t, token)
	if rec.Code != http.StatusOK || !*called {
		t.Fatalf("ожидался 200 и вызов обработчика, получено %d", rec.Code)
	}
}

func TestJWTAuth_RejectsRefreshToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	token, err := utils.GenerateToken(testSecret, 7, "user", time.Hour, "refresh")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	rec, called := serveJWT(t, token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("refresh-токен должен давать 401, получено %d", rec.Code)
	}
	if *called {
		t.Fatal("обработчик не должен вызываться с refresh-токеном")
	}
}

func TestJWTAuth_MissingToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	rec, called := serveJWT(t, "")
	if rec.Code != http.StatusUnauthorized || *called {
		t.Fatalf("ожидался 401 без токена, получено %d", rec.Code)
	}
}

func withRole(r *http.Request, role string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ContextRole, role))
}

// Фастлейн должен стоять раньше role-проверок, иначе skip-флаг
// появляется в контексте слишком поздно.
func TestAdminFastLane_SkipsRoleGuards(t *testing.T) {
	next, called := okHandler()
	chain := AdminFastLane(OnlyRole("moderator")(next))

	req := withRole(httptest.NewRequest(http.MethodGet, "/api/admin/tickets", nil), "admin")
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || !*called {
		t.Fatalf("админ должен проходить любые role-проверки, получено %d", rec.Code)
	}
}

func TestOnlyRole_ForbidsOthers(t *testing.T) {
	next, called := okHandler()
	chain := AdminFastLane(OnlyRole("admin")(next))

	req := withRole(httptest.NewRequest(http.MethodGet, "/api/admin/tickets", nil), "user")
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden || *called {
		t.Fatalf("не-админ должен получать 403, получено %d", rec.Code)
	}
}
