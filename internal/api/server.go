package api

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/Yassen717/HabitFlow/internal/service"
)

const defaultRequestTimeout = 10 * time.Second

type Server struct {
	mx                 *chi.Mux
	mu                 sync.Mutex
	srv                *http.Server
	userService        service.UserServiceI
	habitsService      service.HabitsServiceI
	checkInService     service.CheckInServiceI
	achievementService service.AchievementServiceI
	jwtService         JWTServiceI
	requestTimeout     time.Duration
	allowedOrigins     []string
}

type ServicesList struct {
	UserService        service.UserServiceI
	HabitsService      service.HabitsServiceI
	CheckInService     service.CheckInServiceI
	AchievementService service.AchievementServiceI
	JwtService         JWTServiceI
	// Zero means defaultRequestTimeout
	RequestTimeout time.Duration
	// Empty allows any origin
	AllowedOrigins []string
}

// New builds the server and mounts all routes under /api/v1. Services left
// nil in servicesOptions may only be used by tests that call handlers directly.
func New(servicesOptions *ServicesList) *Server {
	if servicesOptions == nil {
		log.Fatal("api: nil services list")
	}
	s := &Server{
		mx:                 chi.NewMux(),
		userService:        servicesOptions.UserService,
		habitsService:      servicesOptions.HabitsService,
		checkInService:     servicesOptions.CheckInService,
		achievementService: servicesOptions.AchievementService,
		jwtService:         servicesOptions.JwtService,
		requestTimeout:     servicesOptions.RequestTimeout,
		allowedOrigins:     servicesOptions.AllowedOrigins,
	}
	if s.requestTimeout <= 0 {
		s.requestTimeout = defaultRequestTimeout
	}
	s.mountRoutes()
	return s
}

func (s *Server) mountRoutes() {
	s.mx.Use(middleware.Recoverer)
	s.mx.Use(s.corsHandler().Handler)
	s.mx.Use(s.RequestIDMiddleware)
	s.mx.Use(s.SettingUpLoggerMiddleware)
	s.mx.Use(s.AccessLogMiddleware)

	s.mx.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.Health)

		r.Post("/auth/register", s.Register)
		r.Post("/auth/login", s.Login)

		r.Get("/achievements", s.GetAchievements)

		// Protected
		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware)
			r.Use(s.LoggerExtensionMiddleware)

			r.Get("/achievements/user", s.GetUserAchievements)

			r.Get("/users/me", s.GetProfile)
			r.Put("/users/me", s.UpdateProfile)
			r.Delete("/users/me", s.DeleteAccount)
			r.Put("/users/me/password", s.ChangePassword)

			r.Get("/habits", s.GetHabits)
			r.Post("/habits", s.CreateHabit)
			r.Route("/habits/{id}", func(r chi.Router) {
				r.Get("/", s.GetHabit)
				r.Put("/", s.UpdateHabit)
				r.Delete("/", s.DeleteHabit)
				r.Post("/log", s.CheckIn)
				r.Get("/logs", s.GetHabitLogs)
				r.Get("/stats", s.GetHabitStats)
			})
		})
	})
}

func (s *Server) corsHandler() *cors.Cors {
	origins := s.allowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mx.ServeHTTP(w, r)
}

// Run blocks until the server stops. http.ErrServerClosed after Shutdown
// is not reported as an error.
func (s *Server) Run(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mx,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.mu.Lock()
	s.srv = srv
	s.mu.Unlock()
	slog.Info("api server started", slog.String("address", addr))
	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
