package viewstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// TableConfig is a user's saved layout for one document list screen. Filters
// are accepted on the way in but never persisted: a reload starts from an
// unfiltered list so stale filters cannot hide documents.
type TableConfig struct {
	Columns  []ColumnConfig    `json:"columns"`
	SortBy   string            `json:"sortBy,omitempty"`
	SortDir  string            `json:"sortDir,omitempty"`
	PageSize int               `json:"pageSize,omitempty"`
	Filters  map[string]string `json:"filters,omitempty"`
}

// ColumnConfig is the visibility and order of one list column.
type ColumnConfig struct {
	Key     string `json:"key"`
	Visible bool   `json:"visible"`
	Width   int    `json:"width,omitempty"`
}

type viewStateRecord struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    string `gorm:"uniqueIndex:idx_user_screen;size:64"`
	Screen    string `gorm:"uniqueIndex:idx_user_screen;size:64"`
	Payload   string
	UpdatedAt time.Time
}

func (viewStateRecord) TableName() string {
	return "view_states"
}

// Store persists per-user table layouts in a local sqlite database.
type Store struct {
	db *gorm.DB
}

// Open opens (and migrates) the store at path. Use ":memory:" for tests.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("viewstate: failed to open %s: %w", path, err)
	}
	if err := db.AutoMigrate(&viewStateRecord{}); err != nil {
		return nil, fmt.Errorf("viewstate: migration failed: %w", err)
	}
	return &Store{db: db}, nil
}

// Save upserts the user's layout for a screen, dropping any filters first.
func (s *Store) Save(ctx context.Context, userID, screen string, cfg TableConfig) error {
	cfg.Filters = nil
	payload, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("viewstate: failed to encode config: %w", err)
	}

	record := viewStateRecord{UserID: userID, Screen: screen, Payload: string(payload)}
	return s.db.WithContext(ctx).
		Where(viewStateRecord{UserID: userID, Screen: screen}).
		Assign(map[string]any{"payload": record.Payload}).
		FirstOrCreate(&viewStateRecord{}).Error
}

// Load returns the user's saved layout for a screen, or nil when none exists.
func (s *Store) Load(ctx context.Context, userID, screen string) (*TableConfig, error) {
	var record viewStateRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND screen = ?", userID, screen).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("viewstate: load failed: %w", err)
	}

	var cfg TableConfig
	if err := json.Unmarshal([]byte(record.Payload), &cfg); err != nil {
		return nil, fmt.Errorf("viewstate: stored config corrupt: %w", err)
	}
	return &cfg, nil
}

// Reset deletes the user's saved layout for a screen.
func (s *Store) Reset(ctx context.Context, userID, screen string) error {
	return s.db.WithContext(ctx).
		Where("user_id = ? AND screen = ?", userID, screen).
		Delete(&viewStateRecord{}).Error
}
