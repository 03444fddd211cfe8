package repositories

import (
	"context"
	"fmt"
	"log/slog"

	"nwaevents/internal/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Repository struct {
	logger *slog.Logger
	cfg    *config.Config
	DB     *sqlx.DB
}

// New connects to Postgres and returns the repository service.
// Panics on connection failure: the process is useless without a store.
func New(logger *slog.Logger, cfg *config.Config) *Repository {
	op := "repository.New()"
	log := logger.With(slog.String("op", op))

	db, err := sqlx.Connect("postgres", cfg.DBConfig.DSN())
	if err != nil {
		log.Error("cannot connect to database", slog.String("error", err.Error()))
		panic(fmt.Sprintf("cannot connect to database: %s", err))
	}

	log.Info("connected to database",
		slog.String("host", cfg.DBConfig.Host),
		slog.String("name", cfg.DBConfig.Name),
	)

	return &Repository{
		logger: logger,
		cfg:    cfg,
		DB:     db,
	}
}

func (r *Repository) Shutdown(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("force exit repository: %w", ctx.Err())
	default:
		return r.DB.Close()
	}
}
