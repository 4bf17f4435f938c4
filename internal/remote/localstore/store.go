// Package localstore is an in-process implementation of the remote
// capability surface, backed by GORM (sqlite or postgres). It exists for
// local development and tests; it is not the hosted service and makes no
// durability promises beyond its database file.
package localstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"glimpse/internal/remote"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const sessionTTL = 30 * 24 * time.Hour

type accountRow struct {
	ID           string `gorm:"primaryKey;size:64"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash []byte `gorm:"not null"`
	Name         string
	CreatedAt    time.Time
}

func (accountRow) TableName() string { return "accounts" }

type documentRow struct {
	ID           string `gorm:"primaryKey;size:64"`
	CollectionID string `gorm:"index;not null"`
	Fields       []byte `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (documentRow) TableName() string { return "documents" }

type fileRow struct {
	ID        string `gorm:"primaryKey;size:64"`
	BucketID  string `gorm:"index;not null"`
	Name      string
	Data      []byte
	CreatedAt time.Time
}

func (fileRow) TableName() string { return "files" }

// Store implements remote.Store on a local database. Sessions are held in
// memory: one process, one active session, matching the single-client model
// of the hosted SDK.
type Store struct {
	db *gorm.DB

	mu      sync.RWMutex
	session *remote.Session
}

var _ remote.Store = (*Store)(nil)

// Open connects to the local database and migrates the schema.
func Open(driver, dsn string) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported local store driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening local store: %w", err)
	}
	if err := db.AutoMigrate(&accountRow{}, &documentRow{}, &fileRow{}); err != nil {
		return nil, fmt.Errorf("migrating local store: %w", err)
	}
	return &Store{db: db}, nil
}

// CreateAccount registers a new auth principal.
func (s *Store) CreateAccount(ctx context.Context, id, email, password, name string) (*remote.Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&accountRow{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, fmt.Errorf("%w: account with email already exists", remote.ErrConflict)
	}

	row := accountRow{ID: id, Email: email, PasswordHash: hash, Name: name}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return &remote.Account{ID: row.ID, Email: row.Email, Name: row.Name}, nil
}

// CreateSession verifies credentials and installs the session.
func (s *Store) CreateSession(ctx context.Context, email, password string) (*remote.Session, error) {
	var row accountRow
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", remote.ErrUnauthorized)
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword(row.PasswordHash, []byte(password)) != nil {
		return nil, fmt.Errorf("%w: invalid credentials", remote.ErrUnauthorized)
	}

	session := &remote.Session{
		ID:        uuid.NewString(),
		AccountID: row.ID,
		Secret:    uuid.NewString(),
		ExpiresAt: time.Now().Add(sessionTTL),
	}
	s.mu.Lock()
	s.session = session
	s.mu.Unlock()
	return session, nil
}

// CurrentAccount resolves the installed session, returning (nil, nil) when
// no session is active.
func (s *Store) CurrentAccount(ctx context.Context) (*remote.Account, error) {
	s.mu.RLock()
	session := s.session
	s.mu.RUnlock()
	if session == nil || time.Now().After(session.ExpiresAt) {
		return nil, nil
	}

	var row accountRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", session.AccountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &remote.Account{ID: row.ID, Email: row.Email, Name: row.Name}, nil
}

// DeleteSession ends the installed session. "current" targets it directly.
func (s *Store) DeleteSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return fmt.Errorf("%w: no active session", remote.ErrUnauthorized)
	}
	if sessionID != "current" && sessionID != s.session.ID {
		return fmt.Errorf("%w: session %s", remote.ErrNotFound, sessionID)
	}
	s.session = nil
	return nil
}

// InitialsURL derives a synthetic placeholder avatar URL.
func (s *Store) InitialsURL(name string) string {
	q := url.Values{}
	q.Set("name", name)
	return "local://avatars/initials?" + q.Encode()
}
