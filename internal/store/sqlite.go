package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/issuelane/issuelane/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// SaveProfile stores the merged profile record as a single JSON blob,
// replacing any previous sign-in.
func (s *SQLiteStore) SaveProfile(ctx context.Context, profile model.UserProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshaling profile: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO profile_cache (id, data, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		string(data), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}
	return nil
}

// GetProfile reads back the cached profile, or nil when none is cached.
func (s *SQLiteStore) GetProfile(ctx context.Context) (*model.UserProfile, error) {
	var data string
	err := s.db.GetContext(ctx, &data, "SELECT data FROM profile_cache WHERE id = 1")
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cached profile: %w", err)
	}

	var profile model.UserProfile
	if err := json.Unmarshal([]byte(data), &profile); err != nil {
		return nil, fmt.Errorf("unmarshaling cached profile: %w", err)
	}
	return &profile, nil
}

// ClearProfile removes the cached profile record.
func (s *SQLiteStore) ClearProfile(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM profile_cache"); err != nil {
		return fmt.Errorf("clearing cached profile: %w", err)
	}
	return nil
}

// notificationRow maps the notifications table for sqlx scanning.
type notificationRow struct {
	ID        string    `db:"id"`
	Title     string    `db:"title"`
	Message   string    `db:"message"`
	Category  string    `db:"category"`
	Unread    bool      `db:"unread"`
	CreatedAt time.Time `db:"created_at"`
}

func (r notificationRow) toModel() model.Notification {
	return model.Notification{
		ID:        r.ID,
		Title:     r.Title,
		Message:   r.Message,
		Category:  model.NotificationCategory(r.Category),
		Unread:    r.Unread,
		CreatedAt: r.CreatedAt,
	}
}

// GetNotifications returns all notifications, newest first.
func (s *SQLiteStore) GetNotifications(ctx context.Context) ([]model.Notification, error) {
	var rows []notificationRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT id, title, message, category, unread, created_at FROM notifications ORDER BY created_at DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("reading notifications: %w", err)
	}

	notifications := make([]model.Notification, len(rows))
	for i, r := range rows {
		notifications[i] = r.toModel()
	}
	return notifications, nil
}

// CountUnreadNotifications returns the unread badge count.
func (s *SQLiteStore) CountUnreadNotifications(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM notifications WHERE unread = 1")
	if err != nil {
		return 0, fmt.Errorf("counting unread notifications: %w", err)
	}
	return count, nil
}

// MarkNotificationRead clears one notification's unread flag.
func (s *SQLiteStore) MarkNotificationRead(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "UPDATE notifications SET unread = 0 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("marking notification %s read: %w", id, err)
	}
	return nil
}

// MarkAllNotificationsRead clears every unread flag.
func (s *SQLiteStore) MarkAllNotificationsRead(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "UPDATE notifications SET unread = 0"); err != nil {
		return fmt.Errorf("marking all notifications read: %w", err)
	}
	return nil
}
