package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	_ "fanstock/docs"
	"fanstock/internal/config"
	"fanstock/internal/domain/club"
	"fanstock/internal/domain/poll"
	"fanstock/internal/domain/user"
	"fanstock/internal/domain/vote"
	api "fanstock/internal/http"
	"fanstock/internal/metrics"
	"fanstock/internal/platform/database"
	"fanstock/internal/repository/postgres"
	"fanstock/internal/worker"
)

// @title           FanStock API
// @version         1.0
// @description     Fan-token platform with token-weighted governance polls
// @BasePath        /api/v1
func main() {
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	api.SetLogger(logger)

	metrics.Register()

	db, err := database.NewPostgres(cfg.DB_DSN)
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepo(db)
	clubRepo := postgres.NewClubRepo(db)
	pollRepo := postgres.NewPollRepo(db)
	voteRepo := postgres.NewVoteRepo(db)

	userSvc := user.NewService(userRepo)
	clubSvc := club.NewService(clubRepo)
	pollSvc := poll.NewService(pollRepo)
	voteSvc := vote.NewService(pollRepo, voteRepo, clubRepo)

	voteCh := make(chan worker.VoteEvent, 100)
	statsWorker := worker.NewStatsWorker(voteCh, voteRepo, logger)

	router := api.NewRouter(userSvc, clubSvc, pollSvc, voteSvc, voteCh, db)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go statsWorker.Run(ctx)

	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	<-stop
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server shutdown error: %v", err)
	}

	logger.Info("server stopped")
}
