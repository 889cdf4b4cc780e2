package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/tajkir-alam/music-camp-server/internal/auth"
	"github.com/tajkir-alam/music-camp-server/internal/config"
	"github.com/tajkir-alam/music-camp-server/internal/database"
	"github.com/tajkir-alam/music-camp-server/internal/jobs"
	"github.com/tajkir-alam/music-camp-server/internal/payment"
	"github.com/tajkir-alam/music-camp-server/internal/repository"
	"github.com/tajkir-alam/music-camp-server/internal/routes"
	"github.com/tajkir-alam/music-camp-server/internal/service"
	"github.com/tajkir-alam/music-camp-server/internal/utils"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}
	if level, err := logrus.ParseLevel(cfg.Server.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := database.ConnectMongoDB(ctx, cfg.Mongo.URI, cfg.Mongo.Timeout)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.WithError(err).Error("Failed to disconnect from MongoDB")
		}
	}()

	db := client.Database(cfg.Mongo.DatabaseName)
	users := repository.NewUserRepository(db.Collection("users"), cfg.Mongo.Timeout)
	courses := repository.NewCourseRepository(db.Collection("courses"), cfg.Mongo.Timeout)
	carts := repository.NewCartRepository(db.Collection("carts"), cfg.Mongo.Timeout)
	payments := repository.NewPaymentRepository(db.Collection("payments"), cfg.Mongo.Timeout)

	if err := users.EnsureIndexes(ctx); err != nil {
		logger.WithError(err).Warn("Could not ensure user indexes")
	}

	mailer := utils.NewMailer(cfg.SMTP, logger)
	paymentService := service.NewPaymentService(payments, carts, payment.NewStripeClient(cfg.Stripe), mailer, cfg.Stripe.Currency, logger)

	reconciler := jobs.NewReconciler(paymentService, cfg.Jobs.ReconcileGrace, cfg.Mongo.Timeout, logger)
	if err := reconciler.Start(cfg.Jobs.ReconcileSchedule); err != nil {
		logger.WithError(err).Fatal("Failed to start cart reconciler")
	}

	router := routes.SetupRouter(routes.Dependencies{
		Tokens:   auth.NewTokenService(cfg.Auth.Secret, cfg.Auth.TokenTTL),
		Roles:    service.NewRoleService(users),
		Users:    service.NewUserService(users),
		Courses:  service.NewCourseService(courses, mailer, logger),
		Carts:    service.NewCartService(carts),
		Payments: paymentService,
		Stats:    service.NewStatsService(users, courses, payments),
		Health:   database.Pinger{Client: client},
		Logger:   logger,
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.Server.Origin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Server running")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Graceful shutdown failed")
	}
	reconciler.Stop(shutdownCtx)
}
