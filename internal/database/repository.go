package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

// Repository persists connection events
type Repository struct {
	db *sqlx.DB
}

// PoolConfig sizes the connection pool
type PoolConfig struct {
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// withSimpleProtocol forces the pgx simple protocol so no server-side
// prepared statements are cached
func withSimpleProtocol(dsn string) string {
	if dsn == "" || strings.Contains(dsn, "prefer_simple_protocol=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "prefer_simple_protocol=true"
}

// NewRepository creates a new database repository
func NewRepository(connectionString string, pool PoolConfig) (*Repository, error) {
	db, err := sqlx.Connect("pgx", withSimpleProtocol(connectionString))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if pool.MaxOpenConns > 0 {
		db.SetMaxOpenConns(pool.MaxOpenConns)
	}
	db.SetMaxIdleConns(0)
	if pool.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}
	db.SetConnMaxIdleTime(10 * time.Minute)

	return &Repository{db: db}, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}

// Ping verifies the database connection
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// RunMigrations executes database migrations
func (r *Repository) RunMigrations(ctx context.Context, migrationSQL string) error {
	if _, err := r.db.ExecContext(ctx, migrationSQL); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// RecordEvent inserts event, assigning an id and timestamp when missing
func (r *Repository) RecordEvent(ctx context.Context, event *ConnectionEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO connection_events (id, session_id, kind, state, detail, created_at)
		VALUES (:id, :session_id, :kind, :state, :detail, :created_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("failed to record connection event: %w", err)
	}
	return nil
}

// ListEvents returns the events of a session, oldest first
func (r *Repository) ListEvents(ctx context.Context, sessionID uuid.UUID, limit int) ([]ConnectionEvent, error) {
	if limit <= 0 {
		limit = 100
	}

	var events []ConnectionEvent
	query := `
		SELECT id, session_id, kind, state, detail, created_at
		FROM connection_events
		WHERE session_id = $1
		ORDER BY created_at ASC
		LIMIT $2
	`
	if err := r.db.SelectContext(ctx, &events, query, sessionID, limit); err != nil {
		return nil, fmt.Errorf("failed to list connection events: %w", err)
	}
	return events, nil
}
