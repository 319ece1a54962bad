package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/mosaicdev/mosaic/internal/store"
	memorystore "github.com/mosaicdev/mosaic/internal/store/memory"
	postgresstore "github.com/mosaicdev/mosaic/internal/store/postgres"
)

type Globals struct {
	Debug   bool
	Version string
}

// StoreFlags selects the backing store shared by the server and seed
// commands.
type StoreFlags struct {
	StoreType     string             `help:"store type (memory or postgres)" default:"memory" env:"MOSAIC_STORE_TYPE" enum:"memory,postgres"`
	PostgresStore PostgresStoreFlags `embed:"" prefix:"postgres-"`
}

type PostgresStoreFlags struct {
	// Connection Configuration
	ConnString string `help:"PostgreSQL connection string" env:"POSTGRES_CONNECTION_STRING"`

	// Connection Pool Configuration
	MaxConns        int32 `help:"maximum number of connections in pool" default:"20"`
	MinConns        int32 `help:"minimum number of connections in pool" default:"5"`
	MaxConnLifetime int32 `help:"maximum connection lifetime in seconds" default:"3600"`
	MaxConnIdleTime int32 `help:"maximum connection idle time in seconds" default:"1800"`

	// Migration Configuration
	AutoMigrate bool `help:"run database migrations on startup" default:"false" env:"MOSAIC_POSTGRES_AUTO_MIGRATE"`

	// Connection Retry Configuration
	ConnectTimeout time.Duration `help:"how long to keep retrying the initial database connection" default:"30s"`
}

// buildRunner constructs the transaction runner for the configured store
// type. The returned cleanup func closes the pool for postgres stores and
// is a no-op for memory stores.
func (s *StoreFlags) buildRunner(ctx context.Context, log zerolog.Logger) (store.TxRunner, func(), error) {
	switch s.StoreType {
	case "postgres":
		if s.PostgresStore.ConnString == "" {
			return nil, nil, errors.New("PostgreSQL connection string is required (--postgres-conn-string or POSTGRES_CONNECTION_STRING)")
		}

		poolCfg := &postgresstore.PoolConfig{
			ConnString:      s.PostgresStore.ConnString,
			MaxConns:        s.PostgresStore.MaxConns,
			MinConns:        s.PostgresStore.MinConns,
			MaxConnLifetime: s.PostgresStore.MaxConnLifetime,
			MaxConnIdleTime: s.PostgresStore.MaxConnIdleTime,
		}

		// The database is commonly still starting alongside us, so retry
		// the initial connection with exponential backoff.
		pool, err := backoff.Retry(ctx, func() (*pgxpool.Pool, error) {
			pool, err := postgresstore.NewPool(ctx, poolCfg)
			if err != nil {
				log.Warn().Err(err).Msg("Database connection failed, will retry")
				return nil, err
			}
			return pool, nil
		},
			backoff.WithBackOff(backoff.NewExponentialBackOff()),
			backoff.WithMaxElapsedTime(s.PostgresStore.ConnectTimeout),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create connection pool: %w", err)
		}

		if s.PostgresStore.AutoMigrate {
			if err := postgresstore.RunMigrations(ctx, pool); err != nil {
				pool.Close()
				return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
			}
			log.Info().Msg("Database migrations completed")
		}

		log.Info().Msg("Using PostgreSQL store")
		return postgresstore.NewRunner(pool), pool.Close, nil

	default:
		log.Info().Msg("Using in-memory store")
		runner := memorystore.NewRunner(
			memorystore.NewDocumentStore(),
			memorystore.NewRoleStore(),
			memorystore.NewSpaceStore(),
		)
		return runner, func() {}, nil
	}
}

func configureHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       time.Minute,
		WriteTimeout:      time.Minute,
		IdleTimeout:       5 * time.Minute,
		MaxHeaderBytes:    8 * 1024, // 8KiB
	}
}
