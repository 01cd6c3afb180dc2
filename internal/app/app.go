package app

import (
	"coursehub/internal/config"
	"coursehub/internal/db"
	"coursehub/internal/handlers"
	"coursehub/internal/repository"
	"coursehub/internal/routes"
	"coursehub/internal/services"
	"coursehub/internal/validator"
	"strconv"
	"time"

	"github.com/gorilla/mux"
)

func InitApp(cfg *config.Config) (*mux.Router, error) {
	conn, err := db.NewPostgresConnection(cfg)
	if err != nil {
		return nil, err
	}

	// Репозитории
	userRepo := repository.NewUserRepository(conn)
	adminRepo := repository.NewAdminUserRepository(conn)
	tokenRepo := repository.NewVerificationTokenRepository(conn)
	categoryRepo := repository.NewCategoryRepository(conn)
	courseRepo := repository.NewCourseRepository(conn)
	paymentRepo := repository.NewPaymentRepository(conn)
	payoutRepo := repository.NewPayoutRepository(conn)
	subscriptionRepo := repository.NewSubscriptionRepository(conn)
	supportRepo := repository.NewSupportRepository(conn)
	guestTeacherRepo := repository.NewGuestTeacherRepository(conn)

	// Сервисы
	otpMinutes, err := strconv.Atoi(cfg.OTPTTLMin)
	if err != nil || otpMinutes <= 0 {
		otpMinutes = 10
	}
	verificationService := services.NewVerificationService(tokenRepo, userRepo, time.Duration(otpMinutes)*time.Minute)
	authService := services.NewAuthService(userRepo, adminRepo, verificationService)
	categoryService := services.NewCategoryService(categoryRepo)
	courseService := services.NewCourseService(courseRepo, categoryRepo)
	stripeService := services.NewStripeService(cfg.StripeSecretKey)
	paymentService := services.NewPaymentService(paymentRepo, payoutRepo, subscriptionRepo, userRepo, stripeService)
	supportService := services.NewSupportService(supportRepo)
	guestTeacherService := services.NewGuestTeacherService(guestTeacherRepo)

	emailService := services.NewEmailService(cfg)
	// Воркеры забирают письма из общей очереди
	for i := 0; i < 3; i++ {
		services.StartEmailWorker(emailService)
	}

	validate := validator.New()

	// Хендлеры
	authHandler := handlers.NewAuthHandler(authService, validate)
	adminAuthHandler := handlers.NewAdminAuthHandler(authService, validate)
	profileHandler := handlers.NewProfileHandler(authService)
	courseHandler := handlers.NewCourseHandler(courseService, validate)
	categoryHandler := handlers.NewCategoryHandler(categoryService, validate)
	paymentHandler := handlers.NewPaymentHandler(paymentService, validate)
	adminPaymentHandler := handlers.NewAdminPaymentHandler(paymentService, validate)
	supportHandler := handlers.NewSupportHandler(supportService, validate)
	guestTeacherHandler := handlers.NewGuestTeacherHandler(guestTeacherService, validate)

	router := mux.NewRouter()
	routes.InitRoutes(
		router,
		authHandler,
		adminAuthHandler,
		profileHandler,
		courseHandler,
		categoryHandler,
		paymentHandler,
		adminPaymentHandler,
		supportHandler,
		guestTeacherHandler,
	)

	return router, nil
}
