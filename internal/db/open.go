package db

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/baharkarakas/kuota-backend/internal/config"
	repo "github.com/baharkarakas/kuota-backend/internal/repository"
	"github.com/baharkarakas/kuota-backend/internal/repository/postgres"
	"github.com/baharkarakas/kuota-backend/internal/repository/sqlite"
)

// Store is an opened ledger backend.
type Store struct {
	Repos repo.Repositories
	Ping  func(context.Context) error
	Close func()
}

// Open connects the backend named by cfg.DBDriver. Postgres migrations run
// only when cfg.Migrate is set; the sqlite schema is always ensured.
func Open(ctx context.Context, cfg config.Config, log *slog.Logger) (*Store, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		pool, err := NewPool(ctx, cfg.DatabaseURL, int32(cfg.DBMaxConns))
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.Migrate {
			if err := RunMigrations(ctx, pool); err != nil {
				pool.Close()
				return nil, fmt.Errorf("migrations: %w", err)
			}
			log.Info("migrations applied")
		}
		log.Info("store ready", "driver", cfg.DBDriver)
		return &Store{
			Repos: postgres.NewRepositories(pool),
			Ping:  pool.Ping,
			Close: pool.Close,
		}, nil

	case config.DriverSQLite:
		if !strings.Contains(cfg.SQLitePath, ":memory:") {
			if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		st, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info("store ready", "driver", cfg.DBDriver, "path", cfg.SQLitePath)
		return &Store{
			Repos: st.Repositories(),
			Ping:  st.Ping,
			Close: func() { _ = st.Close() },
		}, nil
	}
	return nil, fmt.Errorf("unknown db driver %q", cfg.DBDriver)
}
