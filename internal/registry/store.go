package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver for database/sql

	domerrors "github.com/atiendebot/atiendebot/internal/errors"
)

// Store persists client profiles in SQLite.
type Store struct {
	conn *sql.DB
	path string
}

// Error wrappers stamping failures with their module and operation, so
// handlers can surface the user message without leaking SQL details.
var (
	upsertWrap = domerrors.NewWrapper("registry", "upsert")
	lookupWrap = domerrors.NewWrapper("registry", "lookup")
)

// NewStore opens (or creates) the profile database and initializes the
// schema.
func NewStore(dbPath string) (*Store, error) {
	// Ensure directory exists (skip for in-memory database)
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(time.Hour)

	// WAL mode so profile reads never block on registration writes
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := conn.Exec("PRAGMA busy_timeout=30000"); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if _, err := conn.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to set synchronous mode: %w", err)
	}

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := initSchema(conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{conn: conn, path: dbPath}, nil
}

func initSchema(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS client_profiles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		business_name TEXT NOT NULL,
		owner_name TEXT NOT NULL,
		channel_id TEXT NOT NULL UNIQUE,
		owner_phone TEXT NOT NULL DEFAULT '',
		service_catalog TEXT NOT NULL DEFAULT '',
		opening_hours TEXT NOT NULL DEFAULT '',
		contact_email TEXT NOT NULL DEFAULT '',
		contact_phone TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_client_profiles_owner_phone ON client_profiles(owner_phone);
	`

	if _, err := db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("failed to create client_profiles table: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// Ready reports whether the database answers queries.
func (s *Store) Ready(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

// Upsert inserts or updates a profile keyed by its channel identifier and
// returns the stored row.
func (s *Store) Upsert(ctx context.Context, p *ClientProfile) (*ClientProfile, error) {
	if strings.TrimSpace(p.ChannelID) == "" {
		return nil, domerrors.NewValidationError("channelId", "channel identifier is required")
	}

	query := `
		INSERT INTO client_profiles (
			business_name, owner_name, channel_id, owner_phone,
			service_catalog, opening_hours, contact_email, contact_phone,
			created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(channel_id) DO UPDATE SET
			business_name = excluded.business_name,
			owner_name = excluded.owner_name,
			owner_phone = excluded.owner_phone,
			service_catalog = excluded.service_catalog,
			opening_hours = excluded.opening_hours,
			contact_email = excluded.contact_email,
			contact_phone = excluded.contact_phone,
			updated_at = excluded.updated_at
	`
	start := time.Now()
	now := start.Unix()
	_, err := s.conn.ExecContext(ctx, query,
		p.BusinessName, p.OwnerName, p.ChannelID, p.OwnerPhone,
		p.ServiceCatalog, p.OpeningHours, p.ContactEmail, p.ContactPhone,
		now, now,
	)
	if err != nil {
		slog.ErrorContext(ctx, "failed to save client profile",
			"channel_id", p.ChannelID,
			"error", err)
		return nil, upsertWrap.Wrap(err, "could not save the client profile")
	}

	if duration := time.Since(start); duration > 100*time.Millisecond {
		slog.WarnContext(ctx, "slow database operation",
			"operation", "Upsert",
			"duration_ms", duration.Milliseconds(),
			"channel_id", p.ChannelID)
	}

	return s.LookupByChannel(ctx, p.ChannelID)
}

// LookupByChannel returns the profile whose channel matches.
// Returns ErrNotFound when the channel has no registered client.
func (s *Store) LookupByChannel(ctx context.Context, channelID string) (*ClientProfile, error) {
	query := selectColumns + ` WHERE channel_id = ?`
	return s.queryOne(ctx, query, channelID)
}

// LookupByOwnerPhone returns the profile registered from the given owner
// phone, used at intake time. Returns ErrNotFound when none matches.
func (s *Store) LookupByOwnerPhone(ctx context.Context, phone string) (*ClientProfile, error) {
	query := selectColumns + ` WHERE owner_phone = ? ORDER BY updated_at DESC LIMIT 1`
	return s.queryOne(ctx, query, phone)
}

// Count returns the number of registered profiles.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM client_profiles`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count client profiles: %w", err)
	}
	return count, nil
}

const selectColumns = `
	SELECT id, business_name, owner_name, channel_id, owner_phone,
		service_catalog, opening_hours, contact_email, contact_phone,
		created_at, updated_at
	FROM client_profiles`

func (s *Store) queryOne(ctx context.Context, query string, args ...any) (*ClientProfile, error) {
	var p ClientProfile
	err := s.conn.QueryRowContext(ctx, query, args...).Scan(
		&p.ID,
		&p.BusinessName,
		&p.OwnerName,
		&p.ChannelID,
		&p.OwnerPhone,
		&p.ServiceCatalog,
		&p.OpeningHours,
		&p.ContactEmail,
		&p.ContactPhone,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domerrors.ErrNotFound
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to query client profile", "error", err)
		return nil, lookupWrap.Wrap(err, "could not load the client profile")
	}
	return &p, nil
}
