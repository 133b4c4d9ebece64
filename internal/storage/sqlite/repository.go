package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/educationrisehub/faceless-reels-generator/internal/content"
	"github.com/educationrisehub/faceless-reels-generator/internal/storage"
)

// historyKey matches the key used by earlier releases so existing histories
// keep loading.
const historyKey = "faceless_history"

// record is a single key-value row holding a JSON-serialized history array.
type record struct {
	Key       string    `gorm:"primaryKey;column:key"`
	Value     []byte    `gorm:"column:value"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (record) TableName() string { return "history" }

// Repository implements storage.HistoryRepository using SQLite
type Repository struct {
	db *gorm.DB
}

// New creates a new SQLite repository
func New(dsn string) (*Repository, error) {
	// Ensure directory exists
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Load reads the stored history array. A missing row is an empty history.
func (r *Repository) Load(ctx context.Context) ([]content.GenerationResult, error) {
	var rec record
	err := r.db.WithContext(ctx).First(&rec, "key = ?", historyKey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	var history []content.GenerationResult
	if err := json.Unmarshal(rec.Value, &history); err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrCorrupt, err)
	}
	return history, nil
}

// Save overwrites the stored history wholesale.
func (r *Repository) Save(ctx context.Context, history []content.GenerationResult) error {
	value, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}

	rec := record{Key: historyKey, Value: value}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

// Clear deletes the stored history row.
func (r *Repository) Clear(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Delete(&record{}, "key = ?", historyKey).Error; err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}
