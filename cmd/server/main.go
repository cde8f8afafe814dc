package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hackfest_v2/internal/api"
	"hackfest_v2/internal/app/service"
	"hackfest_v2/internal/common/security"
	"hackfest_v2/internal/domain/repository"
	"hackfest_v2/internal/platform/config"
	"hackfest_v2/internal/platform/database"
	"hackfest_v2/internal/platform/judge"
	"hackfest_v2/internal/platform/logging"
	"hackfest_v2/internal/platform/queue"
	"hackfest_v2/internal/platform/sessions"
)

func main() {
	config.Load()

	logger := logging.New(config.AppConfig.LogFile)
	defer logger.Sync()
	logger.Info("configuration loaded")

	security.InitJWT()

	database.Connect()
	defer database.Close()
	logger.Info("database connected")

	queue.ConnectRedis()
	defer queue.CloseRedis()
	logger.Info("redis connected")

	userRepo := repository.NewPgUserRepository(database.DB)
	hackathonRepo := repository.NewPgHackathonRepository(database.DB)
	regRepo := repository.NewPgRegistrationRepository(database.DB)
	progressRepo := repository.NewPgProgressRepository(database.DB)
	submissionRepo := repository.NewPgSubmissionRepository(database.DB)

	sessionStore := sessions.NewRedisStore(queue.RDB, config.AppConfig.SessionTTL)
	judgeClient := judge.NewClient(config.AppConfig.JudgeBaseURL, config.AppConfig.JudgeTimeout)

	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo)
	regService := service.NewRegistrationService(regRepo, hackathonRepo, config.AppConfig.AttemptWindowDays)
	progressService := service.NewProgressService(progressRepo, regService)
	hackathonService := service.NewHackathonService(hackathonRepo, regService, progressService)
	quizService := service.NewQuizService(hackathonRepo, submissionRepo, regService, progressService, logger)
	leaderboardService := service.NewLeaderboardService(submissionRepo, queue.RDB, config.AppConfig.LeaderboardTTL, logger)
	challengeService := service.NewChallengeService(sessionStore, hackathonRepo, submissionRepo, regService, progressService, judgeClient, leaderboardService, logger)
	projectService := service.NewProjectService(submissionRepo, regService, progressService, logger)
	proctoringService := service.NewProctoringService(queue.RDB, config.AppConfig.ProctoringAlertLimit, config.AppConfig.ProctoringAlertTTL, logger)

	router := api.NewRouter(
		authService,
		userService,
		hackathonService,
		regService,
		progressService,
		quizService,
		challengeService,
		projectService,
		proctoringService,
		leaderboardService,
		logger,
	)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second, // submissions run full test batches inline
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Infow("server starting", "port", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalw("listen failed", "port", config.AppConfig.APIPort, "error", err)
		}
	}()

	<-stop

	logger.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalw("server shutdown failed", "error", err)
	}
	logger.Info("server stopped gracefully")
}
