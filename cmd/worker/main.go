package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/inkpost/inkpost/internal/app"
	"github.com/inkpost/inkpost/internal/platform/db"
	"github.com/inkpost/inkpost/internal/posts"
	"github.com/inkpost/inkpost/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	if err := godotenv.Load(); err != nil {
		slog.Default().Info("no .env file loaded", slog.Any("error", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	postsRepo := posts.NewRepository(pool)
	scrubJob := jobs.NewUploadsScrubJob(postsRepo, logger)

	scrubTask, err := jobs.NewUploadsScrubTask(jobs.UploadsScrubPayload{
		Dir:    cfg.UploadDir,
		MaxAge: cfg.UploadMaxAge,
	})
	if err != nil {
		logger.Error("build scrub task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskUploadsScrub, Handler: scrubJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "@daily", Task: scrubTask, Options: []asynq.Option{asynq.Queue(jobs.QueueDefault)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("starting worker")
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
