package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chatterboxhq/chatterbox-backend/api/controllers"
	"github.com/chatterboxhq/chatterbox-backend/api/middleware"
	"github.com/chatterboxhq/chatterbox-backend/internal/admin"
	"github.com/chatterboxhq/chatterbox-backend/internal/auth"
	"github.com/chatterboxhq/chatterbox-backend/internal/chats"
	"github.com/chatterboxhq/chatterbox-backend/internal/messages"
	"github.com/chatterboxhq/chatterbox-backend/internal/users"
	"github.com/chatterboxhq/chatterbox-backend/pkg/auth/session"
	"github.com/chatterboxhq/chatterbox-backend/pkg/config"
	"github.com/chatterboxhq/chatterbox-backend/pkg/db/models"
	"github.com/chatterboxhq/chatterbox-backend/pkg/enums"
	"github.com/chatterboxhq/chatterbox-backend/pkg/logger"
	"github.com/chatterboxhq/chatterbox-backend/pkg/metrics"
	"github.com/chatterboxhq/chatterbox-backend/pkg/redis"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type userStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, dto users.UpdateUserDTO) (*models.User, error)
}

// Deps bundles everything the HTTP layer needs.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          pinger
	Redis       *redis.Client
	Sessions    session.AccessSessionChecker
	AuthService auth.Service
	UserStore   userStore
	ChatService chats.Service
	MsgService  messages.Service
	AdminSvc    admin.Service
	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(d.HTTPMetrics),
		middleware.CORS(cfg.CORS),
	)

	loginPolicy := middleware.LoginRateLimitPolicy(cfg.AuthRateLimit)
	registerPolicy := middleware.RegisterRateLimitPolicy(cfg.AuthRateLimit)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, d.DB, d.Redis, logg))
	})

	r.Get("/api/public/ping", controllers.Ping())

	if d.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, d.Redis, logg)).Post("/register", controllers.AuthRegister(d.AuthService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, logg)).Post("/login", controllers.AuthLogin(d.AuthService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, logg)).Post("/google", controllers.AuthProviderLogin(d.AuthService, enums.AuthProviderGoogle, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, logg)).Post("/apple", controllers.AuthProviderLogin(d.AuthService, enums.AuthProviderApple, logg))
		r.Post("/refresh", controllers.AuthRefresh(d.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(d.AuthService, cfg.JWT, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))
			r.Get("/me", controllers.Me(d.UserStore, logg))
			r.Put("/me", controllers.UpdateMe(d.UserStore, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))

		r.Get("/ping", controllers.Ping())

		r.Route("/chats", func(r chi.Router) {
			r.Post("/", controllers.CreateChat(d.ChatService, logg))
			r.Get("/", controllers.ListMyChats(d.ChatService, logg))

			r.Route("/{chatID}", func(r chi.Router) {
				r.Get("/", controllers.GetChat(d.ChatService, logg))
				r.Put("/", controllers.UpdateChat(d.ChatService, logg))
				r.Delete("/", controllers.DeleteChat(d.ChatService, logg))

				r.Post("/participants", controllers.AddParticipant(d.ChatService, logg))
				r.Delete("/participants/{userID}", controllers.RemoveParticipant(d.ChatService, logg))

				r.Route("/messages", func(r chi.Router) {
					r.Post("/", controllers.CreateMessage(d.MsgService, d.ChatService, logg))
					r.Get("/", controllers.ListMessages(d.MsgService, d.ChatService, logg))
					r.Post("/read", controllers.MarkMessagesRead(d.MsgService, d.ChatService, logg))
				})

				r.Post("/ai-response", controllers.GenerateAIResponse(d.MsgService, d.ChatService, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))
		r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.AdminListUsers(d.AdminSvc, logg))
			r.Get("/{userID}", controllers.AdminGetUser(d.AdminSvc, logg))
			r.Put("/{userID}", controllers.AdminUpdateUser(d.AdminSvc, logg))
			r.Delete("/{userID}", controllers.AdminDeleteUser(d.AdminSvc, logg))
			r.Post("/{userID}/promote", controllers.AdminPromoteUser(d.AdminSvc, logg))
		})
		r.Get("/chats", controllers.AdminListChats(d.AdminSvc, logg))
		r.Get("/statistics", controllers.AdminStatistics(d.AdminSvc, logg))
	})

	return r
}
