// @title HabitFlow API
// @description API for habit tracker with streaks, points and achievements
// @BasePath /api/v1
// @schemes http
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Yassen717/HabitFlow/internal/achievement"
	"github.com/Yassen717/HabitFlow/internal/api"
	"github.com/Yassen717/HabitFlow/internal/repository"
	"github.com/Yassen717/HabitFlow/internal/service"
	"github.com/Yassen717/HabitFlow/pkg/cleanup"
	"github.com/Yassen717/HabitFlow/pkg/clock"
	"github.com/Yassen717/HabitFlow/pkg/config"
	jwtservice "github.com/Yassen717/HabitFlow/pkg/jwt_service"
	"github.com/Yassen717/HabitFlow/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func init() {
	service.InitValidator()
}

func main() {
	cfg := config.New()
	slog.SetDefault(logging.New(os.Stdout, cfg.GetStringOr("LOG_LEVEL", "info"), cfg.GetStringOr("LOG_FORMAT", "json")))

	secret := cfg.GetString("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is not set")
	}
	dbCfg := repository.PGCfg{
		Address:  cfg.GetStringOr("POSTGRES_DB_ADDRESS", "localhost:5432"),
		Username: cfg.GetString("POSTGRES_USER"),
		Password: cfg.GetString("POSTGRES_PASSWORD"),
		DB:       cfg.GetString("POSTGRES_DB"),
		SSLMode:  cfg.GetStringOr("POSTGRES_SSLMODE", "disable"),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.GetBool("MIGRATE_ON_START", false) {
		if err := repository.Migrate(dbCfg.ConnString(), cfg.GetStringOr("MIGRATIONS_DIR", "./migrations")); err != nil {
			log.Fatal(err)
		}
		slog.Info("migrations applied")
	}
	pool, err := repository.Connect(ctx, &dbCfg)
	if err != nil {
		log.Fatal(err)
	}

	usersRepo := repository.NewUsersRepo(pool)
	habitsRepo := repository.NewHabitsRepo(pool)
	logsRepo := repository.NewCompletionLogsRepo(pool)
	achievementsRepo := repository.NewAchievementsRepo(pool)

	clk := clock.System{}
	engine := achievement.NewEngine(usersRepo, logsRepo, achievementsRepo, clk)
	achievementService := service.NewAchievementService(achievementsRepo, usersRepo)
	if err = achievementService.Seed(ctx); err != nil {
		cleanup.CleanUp()
		log.Fatal(err)
	}

	serv := api.New(&api.ServicesList{
		UserService:        service.NewUserService(usersRepo),
		HabitsService:      service.NewHabitsService(habitsRepo, logsRepo, usersRepo, engine, clk),
		CheckInService:     service.NewCheckInService(habitsRepo, logsRepo, engine, clk),
		AchievementService: achievementService,
		JwtService:         jwtservice.New(secret, cfg.GetDuration("JWT_TTL", jwtservice.DefaultTokenTTL)),
		RequestTimeout:     cfg.GetDuration("REQUEST_TIMEOUT", 10*time.Second),
		AllowedOrigins:     cfg.GetList("CORS_ALLOWED_ORIGINS"),
	})
	cleanup.Register(&cleanup.Job{
		Name: "shutting down api server",
		F: func() error {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return serv.Shutdown(shutdownCtx)
		},
	})

	go func() {
		if err := serv.Run(cfg.GetStringOr("API_ADDRESS", ":8080")); err != nil {
			slog.Error("server error", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
	if failed := cleanup.CleanUp(); failed > 0 {
		os.Exit(1)
	}
}
