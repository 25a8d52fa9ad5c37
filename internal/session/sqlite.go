// ABOUTME: SQLite session store keyed by browser session id using modernc.org/sqlite
// ABOUTME: Credentials are sealed with NaCl secretbox before they reach disk

package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"
	_ "modernc.org/sqlite"
)

// MinSecretLength is the shortest accepted sealing secret.
const MinSecretLength = 32

// ErrSecretTooShort is returned when the sealing secret is under MinSecretLength bytes.
var ErrSecretTooShort = errors.New("session secret too short")

// ErrUnsealFailed is returned when a stored credential cannot be decrypted,
// usually because the secret changed.
var ErrUnsealFailed = errors.New("cannot unseal stored credential")

const nonceSize = 24

// SQLiteStore persists one sealed credential per browser session.
type SQLiteStore struct {
	db     *sql.DB
	key    [32]byte
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) the session database at path.
// Rows expire ttl after their last Set.
func NewSQLiteStore(path string, secret []byte, ttl time.Duration) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "session")

	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("%w: need %d bytes, got %d", ErrSecretTooShort, MinSecretLength, len(secret))
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection keeps :memory: databases coherent and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}

	if err := deriveKey(secret, &s.key); err != nil {
		db.Close()
		return nil, err
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("session store initialized", "path", path, "ttl", ttl)
	return s, nil
}

func deriveKey(secret []byte, key *[32]byte) error {
	r := hkdf.New(sha256.New, secret, nil, []byte("confadmin session credential"))
	if _, err := io.ReadFull(r, key[:]); err != nil {
		return fmt.Errorf("deriving sealing key: %w", err)
	}
	return nil
}

func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			sealed_token BLOB NOT NULL,
			created_at TEXT NOT NULL,
			expires_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_expires ON sessions(expires_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) seal(token string) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}
	return secretbox.Seal(nonce[:], []byte(token), &nonce, &s.key), nil
}

func (s *SQLiteStore) unseal(sealed []byte) (string, error) {
	if len(sealed) < nonceSize+secretbox.Overhead {
		return "", ErrUnsealFailed
	}
	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])
	plain, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", ErrUnsealFailed
	}
	return string(plain), nil
}

// Get returns the credential for the session in ctx.
func (s *SQLiteStore) Get(ctx context.Context) (string, error) {
	id, ok := IDFromContext(ctx)
	if !ok {
		return "", ErrNoToken
	}

	var sealed []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT sealed_token FROM sessions WHERE id = ? AND expires_at > ?`,
		id, s.now().UTC().Format(time.RFC3339),
	).Scan(&sealed)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("querying session: %w", err)
	}

	token, err := s.unseal(sealed)
	if err != nil {
		s.logger.Warn("dropping unreadable session credential", "error", err)
		return "", ErrNoToken
	}
	return token, nil
}

// Set seals and stores the credential, refreshing the expiry.
func (s *SQLiteStore) Set(ctx context.Context, token string) error {
	id, ok := IDFromContext(ctx)
	if !ok {
		return ErrNoSession
	}

	sealed, err := s.seal(token)
	if err != nil {
		return err
	}

	now := s.now().UTC()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, sealed_token, created_at, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET sealed_token = excluded.sealed_token, expires_at = excluded.expires_at
	`,
		id,
		sealed,
		now.Format(time.RFC3339),
		now.Add(s.ttl).Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("storing session: %w", err)
	}

	s.logger.Debug("stored session credential", "session", id)
	return nil
}

// Clear removes the session row.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	id, ok := IDFromContext(ctx)
	if !ok {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// DeleteExpired removes every expired row and reports how many were dropped.
func (s *SQLiteStore) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at <= ?`,
		s.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("deleting expired sessions: %w", err)
	}
	return res.RowsAffected()
}

// RunJanitor deletes expired rows every interval until ctx is done.
func (s *SQLiteStore) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			n, err := s.DeleteExpired(ctx)
			if err != nil {
				s.logger.Error("session cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				s.logger.Debug("expired sessions removed", "count", n)
			}
		case <-ctx.Done():
			return
		}
	}
}
