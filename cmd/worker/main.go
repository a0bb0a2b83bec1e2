package main

import (
	"context"
	"os"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"humanglue-backend/internal/config"
	appjob "humanglue-backend/internal/domains/application/job"
	apprepo "humanglue-backend/internal/domains/application/repository"
	appservice "humanglue-backend/internal/domains/application/service"
	"humanglue-backend/internal/infrastructure/database"
	"humanglue-backend/internal/infrastructure/email"
	emailjob "humanglue-backend/internal/infrastructure/email/job"
	"humanglue-backend/internal/shared"
	"humanglue-backend/pkg/logger"
)

// The worker consumes lifecycle email tasks and runs the daily stale
// draft cleanup. It shares the repository layer with the API but has
// no HTTP surface.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load config", err)
		os.Exit(1)
	}

	logger.Init(cfg.App.Environment)

	db := database.NewPostgresDB(cfg.Database)
	if err := db.Connect(context.Background()); err != nil {
		logger.Error("Failed to connect to database", err)
		os.Exit(1)
	}
	defer db.Close()

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	emailService := email.NewSMTPEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.From,
		cfg.Email.AdminEmail,
		cfg.App.BaseURL,
	)

	appRepository := apprepo.NewPostgresRepository(db.Pool)
	appService := appservice.NewApplicationService(appRepository, nil, nil, nil)

	mux := asynq.NewServeMux()
	mux.Handle(shared.TypeApplicationConfirmation, emailjob.NewConfirmationHandler(emailService))
	mux.Handle(shared.TypeApplicationAdminNotify, emailjob.NewAdminNotifyHandler(emailService))
	mux.Handle(shared.TypeApplicationDecision, emailjob.NewDecisionHandler(emailService))
	mux.Handle(shared.TypeCleanupStaleDrafts, appjob.NewCleanupHandler(appService))

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			"emails":  6,
			"default": 3,
			"low":     1,
		},
	})

	scheduler := asynq.NewScheduler(redisOpt, nil)
	if _, err := scheduler.Register(
		"0 3 * * *",
		asynq.NewTask(shared.TypeCleanupStaleDrafts, nil, asynq.Queue("low")),
	); err != nil {
		logger.Error("Failed to register cleanup schedule", err)
		os.Exit(1)
	}

	go func() {
		if err := scheduler.Run(); err != nil {
			logger.Error("Scheduler stopped", err)
			os.Exit(1)
		}
	}()

	logger.Info("Worker starting", map[string]interface{}{
		"redis": cfg.Redis.Host,
	})
	if err := srv.Run(mux); err != nil {
		logger.Error("Worker stopped", err)
		os.Exit(1)
	}
}
