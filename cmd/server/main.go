package main

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"fleetbook/internal/api"
	"fleetbook/internal/auth"
	"fleetbook/internal/config"
	"fleetbook/internal/db"
	"fleetbook/internal/logger"
	"fleetbook/internal/repository"
	"fleetbook/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	logger.Setup(cfg.LogLevel, cfg.LogFile)

	conn, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logrus.Fatalf("open db: %v", err)
	}
	if err := conn.Ping(); err != nil {
		logrus.Fatalf("connect db: %v", err)
	}

	ctx := context.Background()
	if err := db.Bootstrap(ctx, conn); err != nil {
		logrus.Fatalf("bootstrap schema: %v", err)
	}
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := db.SeedAdmin(ctx, conn, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			logrus.Fatalf("seed admin: %v", err)
		}
	}

	userRepo := repository.NewUserRepository(conn)
	vehicleRepo := repository.NewVehicleRepository(conn)
	bookingRepo := repository.NewBookingRepository(conn)
	blockoutRepo := repository.NewBlockoutRepository(conn)
	deviceRepo := repository.NewDeviceRepository(conn)

	notifier := service.NewNotifyService(userRepo, deviceRepo,
		service.NewSendGridSender(cfg), service.NewTwilioSender(cfg), service.NewLogPushSender())

	userSvc := service.NewUserService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	vehicleSvc := service.NewVehicleService(vehicleRepo, bookingRepo, blockoutRepo)
	bookingSvc := service.NewBookingService(bookingRepo, vehicleRepo, notifier)
	blockoutSvc := service.NewBlockoutService(blockoutRepo, vehicleRepo)
	deviceSvc := service.NewDeviceService(deviceRepo)

	authHandler := api.NewAuthHandler(userSvc)
	vehicleHandler := api.NewVehicleHandler(vehicleSvc)
	bookingHandler := api.NewBookingHandler(bookingSvc)
	blockoutHandler := api.NewBlockoutHandler(blockoutSvc)
	deviceHandler := api.NewDeviceHandler(deviceSvc)
	adminHandler := api.NewAdminHandler(bookingSvc, vehicleSvc)

	mw := auth.NewMiddleware(userRepo, cfg.JWTSecret)

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")
	r.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/vehicles", vehicleHandler.List).Methods("GET")
	r.HandleFunc("/vehicles/{id}", vehicleHandler.Get).Methods("GET")

	// Authenticated endpoints
	authed := r.NewRoute().Subrouter()
	authed.Use(mw.Authenticate)
	authed.HandleFunc("/me", authHandler.Me).Methods("GET")
	authed.HandleFunc("/me", authHandler.UpdateMe).Methods("PUT")
	authed.HandleFunc("/devices/register", deviceHandler.Register).Methods("POST")
	authed.HandleFunc("/devices/unregister", deviceHandler.Unregister).Methods("POST")
	authed.HandleFunc("/bookings", bookingHandler.Create).Methods("POST")
	authed.HandleFunc("/bookings", bookingHandler.List).Methods("GET")
	authed.HandleFunc("/bookings/me", bookingHandler.ListMine).Methods("GET")
	authed.HandleFunc("/bookings/{id}/approve", bookingHandler.Approve).Methods("POST")
	authed.HandleFunc("/bookings/{id}/cancel", bookingHandler.Cancel).Methods("POST")
	authed.HandleFunc("/bookings/{id}/complete", bookingHandler.Complete).Methods("POST")
	authed.HandleFunc("/availability", vehicleHandler.Availability).Methods("GET")
	authed.HandleFunc("/vehicles/{id}/calendar", vehicleHandler.Calendar).Methods("GET")

	// Admin endpoints (protected)
	admin := r.NewRoute().Subrouter()
	admin.Use(mw.Authenticate, mw.RequireAdmin)
	admin.HandleFunc("/vehicles", vehicleHandler.Create).Methods("POST")
	admin.HandleFunc("/vehicles/{id}", vehicleHandler.Update).Methods("PUT")
	admin.HandleFunc("/vehicles/{id}", vehicleHandler.Delete).Methods("DELETE")
	admin.HandleFunc("/vehicle-blockouts", blockoutHandler.Create).Methods("POST")
	admin.HandleFunc("/vehicle-blockouts", blockoutHandler.List).Methods("GET")
	admin.HandleFunc("/vehicle-blockouts/{id}", blockoutHandler.Delete).Methods("DELETE")
	admin.HandleFunc("/admin/bookings", adminHandler.ListBookings).Methods("GET")
	admin.HandleFunc("/admin/inuse", adminHandler.ListInUse).Methods("GET")

	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	logrus.Infof("server listening on port %s", cfg.Port)
	logrus.Fatal(http.ListenAndServe(":"+cfg.Port,
		handlers.LoggingHandler(logger.Writer(), cors(r))))
}
