package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tasktrack/tasktrack/db"
	"github.com/tasktrack/tasktrack/internal/types"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Keys under which the client persists its state.
const (
	KeyAuthToken = "auth_token"
	KeyUser      = "user"
	KeyTasks     = "tasks"
	KeyView      = "view"
)

// ViewPrefs are the derived-view inputs kept between runs.
type ViewPrefs struct {
	Filters       Filters `json:"filters"`
	SortBy        SortKey `json:"sort_by"`
	ShowCompleted bool    `json:"show_completed"`
}

type localEntry struct {
	Name      string         `gorm:"primaryKey"`
	Value     datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time
}

func (localEntry) TableName() string { return "local_storage" }

// LocalStore is a small key/value store in a SQLite file holding the
// client's token, user and task collection between runs.
type LocalStore struct {
	db *gorm.DB
}

func OpenLocalStore(path string) (*LocalStore, error) {
	database, err := db.ConnectDatabase("sqlite", path, nil)
	if err != nil {
		return nil, err
	}

	if err := database.AutoMigrate(&localEntry{}); err != nil {
		return nil, fmt.Errorf("migrate local store: %w", err)
	}

	return &LocalStore{db: database}, nil
}

func (s *LocalStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *LocalStore) put(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	entry := localEntry{Name: key, Value: datatypes.JSON(payload)}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&entry).Error
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// get decodes the value under key into out. found is false when the key is absent.
func (s *LocalStore) get(ctx context.Context, key string, out any) (found bool, err error) {
	var entry localEntry
	err = s.db.WithContext(ctx).Where("name = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}

	if err := json.Unmarshal(entry.Value, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *LocalStore) SaveTasks(ctx context.Context, tasks []Task) error {
	if tasks == nil {
		tasks = []Task{}
	}
	return s.put(ctx, KeyTasks, tasks)
}

// LoadTasks returns the persisted collection, or an empty one if none was saved.
func (s *LocalStore) LoadTasks(ctx context.Context) ([]Task, error) {
	tasks := []Task{}
	if _, err := s.get(ctx, KeyTasks, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *LocalStore) SaveView(ctx context.Context, prefs ViewPrefs) error {
	return s.put(ctx, KeyView, prefs)
}

// LoadView reports found=false when no preferences were saved.
func (s *LocalStore) LoadView(ctx context.Context) (ViewPrefs, bool, error) {
	var prefs ViewPrefs
	found, err := s.get(ctx, KeyView, &prefs)
	return prefs, found, err
}

func (s *LocalStore) SaveAuth(ctx context.Context, token string, user types.UserResponse) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scoped := &LocalStore{db: tx}
		if err := scoped.put(ctx, KeyAuthToken, token); err != nil {
			return err
		}
		return scoped.put(ctx, KeyUser, user)
	})
}

// LoadAuth returns ErrNotLoggedIn when no token was saved.
func (s *LocalStore) LoadAuth(ctx context.Context) (string, *types.UserResponse, error) {
	var token string
	found, err := s.get(ctx, KeyAuthToken, &token)
	if err != nil {
		return "", nil, err
	}
	if !found || token == "" {
		return "", nil, ErrNotLoggedIn
	}

	var user types.UserResponse
	if _, err := s.get(ctx, KeyUser, &user); err != nil {
		return "", nil, err
	}
	return token, &user, nil
}

// Clear forgets everything the client saved.
func (s *LocalStore) Clear(ctx context.Context) error {
	err := s.db.WithContext(ctx).
		Where("name IN ?", []string{KeyAuthToken, KeyUser, KeyTasks, KeyView}).
		Delete(&localEntry{}).Error
	if err != nil {
		return fmt.Errorf("clear local store: %w", err)
	}
	return nil
}
