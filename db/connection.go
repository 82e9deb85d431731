package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Config holds database configuration
type Config struct {
	Host           string
	Port           int
	User           string
	Password       string
	Database       string
	SSLMode        string
	MaxOpenConns   int           // Maximum number of open connections (default: 25)
	MaxIdleConns   int           // Maximum number of idle connections (default: 25)
	MaxLifetime    time.Duration // Maximum connection lifetime (default: 5 minutes)
	MaxIdleTime    time.Duration // Maximum connection idle time (default: 5 minutes)
	AcquireTimeout time.Duration // Maximum wait for a pooled connection (default: 5 seconds)
}

// Connect establishes a database connection pool with the given configuration
func Connect(config Config) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host,
		config.Port,
		config.User,
		config.Password,
		config.Database,
		config.SSLMode,
	)

	// Apply sensible defaults if not configured
	if config.MaxOpenConns == 0 {
		config.MaxOpenConns = 25
	}
	if config.MaxIdleConns == 0 {
		config.MaxIdleConns = 25
	}
	if config.MaxLifetime == 0 {
		config.MaxLifetime = 5 * time.Minute
	}
	if config.MaxIdleTime == 0 {
		config.MaxIdleTime = 5 * time.Minute
	}

	// Validate configuration
	if config.MaxIdleConns > config.MaxOpenConns {
		return nil, fmt.Errorf("MaxIdleConns (%d) cannot exceed MaxOpenConns (%d)",
			config.MaxIdleConns, config.MaxOpenConns)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.MaxLifetime)
	db.SetConnMaxIdleTime(config.MaxIdleTime)

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Conn is a single checked-out pool connection. Callers must Close it on all
// exit paths to return the connection to the pool.
type Conn interface {
	Querier
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
	Close() error
}

// Pool wraps the process-wide *sql.DB handle with an explicit, bounded
// checkout. Checkout waits at most AcquireTimeout before failing with the
// pool error kind.
type Pool struct {
	db             *sql.DB
	acquireTimeout time.Duration
}

// NewPool creates a Pool over an established connection pool.
func NewPool(db *sql.DB, acquireTimeout time.Duration) *Pool {
	if acquireTimeout == 0 {
		acquireTimeout = 5 * time.Second
	}
	return &Pool{db: db, acquireTimeout: acquireTimeout}
}

// Acquire checks out a single connection from the pool. The returned Conn
// must be closed by the caller.
func (p *Pool) Acquire(ctx context.Context) (Conn, error) {
	acquireCtx, cancel := context.WithTimeout(ctx, p.acquireTimeout)
	defer cancel()

	conn, err := p.db.Conn(acquireCtx)
	if err != nil {
		return nil, newError(KindPool, err)
	}
	return conn, nil
}

// HealthCheck performs a basic health check on the database
func HealthCheck(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return db.PingContext(ctx)
}
