package routes

import (
	"coursehub/internal/handlers"
	"coursehub/internal/middleware"

	"github.com/gorilla/mux"
)

func InitRoutes(
	router *mux.Router,
	authHandler *handlers.AuthHandler,
	adminAuthHandler *handlers.AdminAuthHandler,
	profileHandler *handlers.ProfileHandler,
	courseHandler *handlers.CourseHandler,
	categoryHandler *handlers.CategoryHandler,
	paymentHandler *handlers.PaymentHandler,
	adminPaymentHandler *handlers.AdminPaymentHandler,
	supportHandler *handlers.SupportHandler,
	guestTeacherHandler *handlers.GuestTeacherHandler,
) {
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Logging)

	api := router.PathPrefix("/api").Subrouter()

	// --- Публичные маршруты ---
	api.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/auth/verify-email", authHandler.VerifyEmail).Methods("POST")
	api.HandleFunc("/auth/resend-verification", authHandler.ResendVerification).Methods("POST")
	api.HandleFunc("/auth/refresh", authHandler.Refresh).Methods("POST")
	api.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST")

	api.HandleFunc("/admin/login", adminAuthHandler.Login).Methods("POST")

	api.HandleFunc("/courses", courseHandler.List).Methods("GET")
	api.HandleFunc("/courses/{id:[0-9]+}", courseHandler.Get).Methods("GET")
	api.HandleFunc("/categories", categoryHandler.List).Methods("GET")

	// --- Защищённые JWT ---
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.JWTAuth)

	protected.HandleFunc("/profile", profileHandler.Me).Methods("GET")
	protected.HandleFunc("/profile", profileHandler.Update).Methods("PATCH")
	protected.HandleFunc("/profile/history", profileHandler.History).Methods("GET")

	protected.HandleFunc("/payments/process", paymentHandler.Process).Methods("POST")
	protected.HandleFunc("/payments/history", paymentHandler.History).Methods("GET")
	protected.HandleFunc("/payments/{id:[0-9]+}", paymentHandler.Details).Methods("GET")

	protected.HandleFunc("/courses", courseHandler.Create).Methods("POST")

	// --- Только администратор ---
	admin := protected.PathPrefix("/admin").Subrouter()
	// Фастлейн ставит skip-флаг до всех role-проверок
	admin.Use(middleware.AdminFastLane)
	admin.Use(middleware.OnlyRole("admin"))

	admin.HandleFunc("/courses", courseHandler.ListAll).Methods("GET")
	admin.HandleFunc("/courses", courseHandler.Create).Methods("POST")
	admin.HandleFunc("/courses/{id:[0-9]+}", courseHandler.Update).Methods("PATCH")
	admin.HandleFunc("/courses/{id:[0-9]+}", courseHandler.Delete).Methods("DELETE")

	admin.HandleFunc("/categories", categoryHandler.Create).Methods("POST")
	admin.HandleFunc("/categories/{id:[0-9]+}", categoryHandler.Update).Methods("PUT")
	admin.HandleFunc("/categories/{id:[0-9]+}", categoryHandler.Delete).Methods("DELETE")

	admin.HandleFunc("/transactions", adminPaymentHandler.Transactions).Methods("GET")
	admin.HandleFunc("/payments/{id:[0-9]+}/refund", adminPaymentHandler.Refund).Methods("POST")
	admin.HandleFunc("/payouts", adminPaymentHandler.Payouts).Methods("GET")
	admin.HandleFunc("/payouts/{id:[0-9]+}/process", adminPaymentHandler.ProcessPayout).Methods("POST")
	admin.HandleFunc("/subscriptions", adminPaymentHandler.Subscriptions).Methods("GET")
	admin.HandleFunc("/subscriptions/{id:[0-9]+}", adminPaymentHandler.UpdateSubscription).Methods("PATCH")

	admin.HandleFunc("/support/tickets", supportHandler.Tickets).Methods("GET")
	admin.HandleFunc("/support/tickets/{id:[0-9]+}", supportHandler.UpdateTicketStatus).Methods("PATCH")
	admin.HandleFunc("/support/tickets/{id:[0-9]+}/messages", supportHandler.AddTicketMessage).Methods("POST")
	admin.HandleFunc("/support/qa", supportHandler.Threads).Methods("GET")
	admin.HandleFunc("/support/qa/{id:[0-9]+}/messages", supportHandler.AddThreadMessage).Methods("POST")
	admin.HandleFunc("/support/mentorship", supportHandler.Mentorships).Methods("GET")
	admin.HandleFunc("/support/mentorship/{id:[0-9]+}", supportHandler.UpdateMentorshipStatus).Methods("PATCH")
	admin.HandleFunc("/support/mentorship/{id:[0-9]+}/messages", supportHandler.AddMentorshipMessage).Methods("POST")

	admin.HandleFunc("/guest-teachers", guestTeacherHandler.List).Methods("GET")
	admin.HandleFunc("/guest-teachers", guestTeacherHandler.Create).Methods("POST")
	admin.HandleFunc("/guest-teachers/{id:[0-9]+}", guestTeacherHandler.UpdateStatus).Methods("PATCH")
	admin.HandleFunc("/guest-teachers/{id:[0-9]+}", guestTeacherHandler.Delete).Methods("DELETE")
}
