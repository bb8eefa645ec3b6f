package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/meditriage/triage-api/internal/config"
	"github.com/meditriage/triage-api/internal/email"
	doctorHandler "github.com/meditriage/triage-api/internal/handler/doctor"
	healthHandler "github.com/meditriage/triage-api/internal/handler/health"
	patientHandler "github.com/meditriage/triage-api/internal/handler/patient"
	triageHandler "github.com/meditriage/triage-api/internal/handler/triage"
	"github.com/meditriage/triage-api/internal/model"
	"github.com/meditriage/triage-api/internal/repository/postgres"
	"github.com/meditriage/triage-api/internal/router"
	"github.com/meditriage/triage-api/internal/scoring"
	doctorService "github.com/meditriage/triage-api/internal/service/doctor"
	"github.com/meditriage/triage-api/internal/service/inference"
	patientService "github.com/meditriage/triage-api/internal/service/patient"
	triageService "github.com/meditriage/triage-api/internal/service/triage"
	"github.com/meditriage/triage-api/pkg/logger"
	"github.com/meditriage/triage-api/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	m := metrics.NewMetrics("triage", "api")

	patientRepo := postgres.NewPatientRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	assignmentRepo := postgres.NewAssignmentRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	engine := scoring.NewEngine(cfg.Triage.Weights)
	inferenceClient := inference.NewClient(cfg.Inference, appLogger)
	mailer := email.NewService(cfg.SMTP, appLogger)

	triageSvc := triageService.NewService(
		patientRepo, doctorRepo, assignmentRepo, outboxRepo,
		inferenceClient, engine, mailer,
		cfg.Triage.CacheTTL(), m, appLogger,
	)
	patientSvc := patientService.NewService(patientRepo, appLogger)
	doctorSvc := doctorService.NewService(doctorRepo, appLogger)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := model.RegisterValidators(v); err != nil {
			log.Fatal().Err(err).Msg("failed to register validators")
		}
	}

	r := router.New(
		router.Config{
			RateLimit:      cfg.Server.RateLimit,
			RateBurst:      cfg.Server.RateBurst,
			RequestTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		},
		appLogger,
		healthHandler.NewHandler(db),
		patientHandler.NewHandler(patientSvc),
		doctorHandler.NewHandler(doctorSvc),
		triageHandler.NewHandler(triageSvc),
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		appLogger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shut down")
	}
	appLogger.Info("server stopped")
}
