package api

import (
	"net/http"
	"time"

	"hackfest_v2/internal/api/handler"
	"hackfest_v2/internal/api/middleware"
	"hackfest_v2/internal/app/service"
	"hackfest_v2/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"go.uber.org/zap"
)

func NewRouter(
	authService *service.AuthService,
	userService *service.UserService,
	hackathonService *service.HackathonService,
	regService *service.RegistrationService,
	progressService *service.ProgressService,
	quizService *service.QuizService,
	challengeService *service.ChallengeService,
	projectService *service.ProjectService,
	proctoringService *service.ProctoringService,
	leaderboardService *service.LeaderboardService,
	logger *zap.SugaredLogger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	r.Use(jwtauth.Verifier(security.TokenAuth))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	authHandler := handler.NewAuthHandler(authService)
	hackathonHandler := handler.NewHackathonHandler(hackathonService, regService, progressService)
	challengeHandler := handler.NewChallengeHandler(challengeService)
	quizHandler := handler.NewQuizHandler(quizService)
	projectHandler := handler.NewProjectHandler(projectService)
	proctoringHandler := handler.NewProctoringHandler(proctoringService)
	leaderboardHandler := handler.NewLeaderboardHandler(leaderboardService, logger)
	adminHandler := handler.NewAdminHandler(hackathonService, userService, leaderboardService)

	r.Route("/api", func(api chi.Router) {
		api.Route("/users", func(users chi.Router) {
			// Public auth routes
			users.Group(func(public chi.Router) {
				authHandler.RegisterRoutes(public)
			})

			users.Group(func(private chi.Router) {
				private.Use(middleware.Authenticator)
				authHandler.RegisterProtectedRoutes(private)
				challengeHandler.RegisterUserRoutes(private)
				projectHandler.RegisterRoutes(private)
				private.Route("/hackathons", func(uh chi.Router) {
					quizHandler.RegisterRoutes(uh)
					proctoringHandler.RegisterRoutes(uh)
					leaderboardHandler.RegisterRoutes(uh)
				})
			})
		})

		api.Route("/hackathons", func(hackathons chi.Router) {
			hackathons.Use(middleware.Authenticator)
			hackathonHandler.RegisterRoutes(hackathons)
			challengeHandler.RegisterRoutes(hackathons)
		})

		api.Route("/admin", func(admin chi.Router) {
			admin.Use(middleware.Authenticator)
			admin.Use(middleware.AdminOnly)
			adminHandler.RegisterRoutes(admin)
		})
	})

	return r
}
