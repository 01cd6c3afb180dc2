package routes

import (
	"coursehub/internal/handlers"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
)

func newTestRouter() *mux.Router {
	router := mux.NewRouter()
	InitRoutes(
		router,
		&handlers.AuthHandler{},
		&handlers.AdminAuthHandler{},
		&handlers.ProfileHandler{},
		&handlers.CourseHandler{},
		&handlers.CategoryHandler{},
		&handlers.PaymentHandler{},
		&handlers.AdminPaymentHandler{},
		&handlers.SupportHandler{},
		&handlers.GuestTeacherHandler{},
	)
	return router
}

func TestRoutes_Registered(t *testing.T) {
	router := newTestRouter()

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/auth/signup"},
		{http.MethodPost, "/api/auth/login"},
		{http.MethodPost, "/api/auth/verify-email"},
		{http.MethodPost, "/api/admin/login"},
		{http.MethodGet, "/api/courses"},
		{http.MethodPost, "/api/courses"},
		{http.MethodGet, "/api/categories"},
		{http.MethodPost, "/api/payments/process"},
		{http.MethodGet, "/api/payments/history"},
		{http.MethodGet, "/api/admin/courses"},
		{http.MethodPost, "/api/admin/courses"},
		{http.MethodPatch, "/api/admin/courses/1"},
		{http.MethodPost, "/api/admin/payments/1/refund"},
		{http.MethodPost, "/api/admin/payouts/1/process"},
		{http.MethodPatch, "/api/admin/subscriptions/1"},
		{http.MethodGet, "/api/admin/support/tickets"},
		{http.MethodGet, "/api/admin/guest-teachers"},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		var m mux.RouteMatch
		if !router.Match(req, &m) {
			t.Errorf("маршрут не зарегистрирован: %s %s (%v)", tc.method, tc.path, m.MatchErr)
		}
	}
}
