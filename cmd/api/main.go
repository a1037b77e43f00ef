package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/stayloop/hotel-bookings/internal/domain"
	"github.com/stayloop/hotel-bookings/internal/http/handlers"
	authmw "github.com/stayloop/hotel-bookings/internal/http/middleware"
	"github.com/stayloop/hotel-bookings/internal/platform/mailer"
	"github.com/stayloop/hotel-bookings/internal/repo/postgres"
	redisrepo "github.com/stayloop/hotel-bookings/internal/repo/redis"
	"github.com/stayloop/hotel-bookings/internal/service"
	"github.com/stayloop/hotel-bookings/pkg/config"
	"github.com/stayloop/hotel-bookings/pkg/database"
	"github.com/stayloop/hotel-bookings/pkg/events"
	"github.com/stayloop/hotel-bookings/pkg/logger"
	"github.com/stayloop/hotel-bookings/pkg/middleware"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	tokenStore, err := redisrepo.NewTokenStore(cfg.Redis.URL)
	if err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer tokenStore.Close()

	eventBus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		logger.Error("failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventBus.Close()

	mailSvc := mailer.New(cfg.Email)

	userRepo := postgres.NewUserRepository(pool)
	roomRepo := postgres.NewRoomRepository(pool)
	bookingRepo := postgres.NewBookingRepository(pool)

	authSvc := service.NewAuthService(userRepo, tokenStore, mailSvc, eventBus, cfg)
	roomSvc := service.NewRoomService(roomRepo, bookingRepo)
	bookingSvc := service.NewBookingService(bookingRepo, roomRepo, userRepo, eventBus)

	authHandler := handlers.NewAuthHandler(authSvc)
	usersHandler := handlers.NewUsersHandler(authSvc)
	roomsHandler := handlers.NewRoomsHandler(roomSvc)
	bookingsHandler := handlers.NewBookingsHandler(bookingSvc)

	requireAuth := authmw.RequireAuth(cfg.Auth.JWTSecret, tokenStore)
	adminOnly := authmw.RequireRole(domain.RoleAdmin)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.App.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/confirm-email", authHandler.ConfirmEmail)
			r.Post("/resend-email", authHandler.ResendEmail)
			r.Post("/reset-password", authHandler.RequestPasswordReset)
			r.Post("/reset-password/{token}", authHandler.ResetPassword)
			r.With(requireAuth).Post("/logout", authHandler.Logout)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(requireAuth)
			r.With(adminOnly).Get("/", usersHandler.List)
			r.Get("/{user_id}", usersHandler.Get)
			r.With(adminOnly).Get("/email/{email}", usersHandler.GetByEmail)
			r.With(adminOnly).Put("/{user_id}", usersHandler.Update)
			r.With(adminOnly).Delete("/{user_id}", usersHandler.Delete)
		})

		r.Route("/rooms", func(r chi.Router) {
			r.Get("/", roomsHandler.List)
			r.Get("/{room_id}", roomsHandler.Get)
			r.Group(func(r chi.Router) {
				r.Use(requireAuth, adminOnly)
				r.Post("/", roomsHandler.Create)
				r.Put("/{room_id}", roomsHandler.Update)
				r.Delete("/{room_id}", roomsHandler.Delete)
			})
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", bookingsHandler.Create)
			r.With(adminOnly).Get("/", bookingsHandler.List)
			r.Get("/{booking_id}", bookingsHandler.Get)
			r.Get("/user/{user_id}", bookingsHandler.ListByUser)
			r.With(adminOnly).Get("/room/{room_id}", bookingsHandler.ListByRoom)
			r.Put("/{booking_id}", bookingsHandler.Update)
			r.With(adminOnly).Delete("/{booking_id}", bookingsHandler.Delete)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
	logger.Info("server stopped")
}
