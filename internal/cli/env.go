package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"gopkg.in/yaml.v3"

	"github.com/Yassen717/HabitFlow/internal/repository"
	"github.com/Yassen717/HabitFlow/pkg/config"
)

func dbConfig(cfg *config.Config) *repository.PGCfg {
	return &repository.PGCfg{
		Address:  cfg.GetStringOr("POSTGRES_DB_ADDRESS", "localhost:5432"),
		Username: cfg.GetString("POSTGRES_USER"),
		Password: cfg.GetString("POSTGRES_PASSWORD"),
		DB:       cfg.GetString("POSTGRES_DB"),
		SSLMode:  cfg.GetStringOr("POSTGRES_SSLMODE", "disable"),
	}
}

// connect opens the shared pool. Callers release it with cleanup.CleanUp.
func connect(ctx context.Context, opts *RootOptions) (*pgxpool.Pool, error) {
	cfg := config.NewFromFile(opts.EnvFile)
	return repository.Connect(ctx, dbConfig(cfg))
}

func parseUserID(arg string) (uuid.UUID, error) {
	uid, err := uuid.Parse(arg)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid user id %q: %w", arg, err)
	}
	return uid, nil
}

func writeOutput(w io.Writer, format string, v any) error {
	if format == "json" {
		raw, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		_, err = w.Write(append(raw, '\n'))
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}
