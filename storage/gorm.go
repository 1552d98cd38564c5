package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Blob is the table row behind GormStore.
type Blob struct {
	Key       string `gorm:"primaryKey;size:255"`
	Data      []byte `gorm:"not null"`
	UpdatedAt time.Time `gorm:"index"`
}

func (Blob) TableName() string { return "session_blobs" }

// GormStore keeps blobs in a SQL table (postgres in production, sqlite locally).
type GormStore struct {
	db *gorm.DB
}

// OpenPostgres connects with a DSN or URL and migrates the blob table.
func OpenPostgres(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return NewGormStore(db)
}

// OpenSQLite opens (or creates) a sqlite database file.
func OpenSQLite(path string) (*GormStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return NewGormStore(db)
}

// NewGormStore wraps an open connection and migrates the blob table.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&Blob{}); err != nil {
		return nil, fmt.Errorf("migrate session_blobs: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Load(ctx context.Context, key string) ([]byte, error) {
	var b Blob
	if err := s.db.WithContext(ctx).First(&b, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load blob %s: %w", key, err)
	}
	return b.Data, nil
}

func (s *GormStore) Save(ctx context.Context, key string, data []byte) error {
	b := Blob{Key: key, Data: data, UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&b).Error
	if err != nil {
		return fmt.Errorf("save blob %s: %w", key, err)
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Delete(&Blob{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("delete blob %s: %w", key, err)
	}
	return nil
}

func (s *GormStore) Touch(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Model(&Blob{}).
		Where("key IN ?", keys).
		Update("updated_at", time.Now()).Error
	if err != nil {
		return fmt.Errorf("touch blobs: %w", err)
	}
	return nil
}

func (s *GormStore) Sweep(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Where("updated_at < ?", cutoff).Delete(&Blob{})
	if result.Error != nil {
		return 0, fmt.Errorf("sweep blobs: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
