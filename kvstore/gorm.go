package kvstore

import (
	"context"
	"errors"
	"fmt"

	"alumni-chat/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore stores entries in the kv_entries table of any gorm dialect.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore migrates the kv_entries table and returns a store over db.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := models.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrating kv_entries: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Get(ctx context.Context, key string) (string, bool, error) {
	var entry models.KVEntry
	err := s.db.WithContext(ctx).Where(&models.KVEntry{Key: key}).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading key %q: %w", key, err)
	}
	return entry.Value, true, nil
}

func (s *GormStore) Set(ctx context.Context, key, value string) error {
	entry := models.KVEntry{Key: key, Value: value}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
	if err != nil {
		return fmt.Errorf("writing key %q: %w", key, err)
	}
	return nil
}

func (s *GormStore) Clear(ctx context.Context) error {
	err := s.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.KVEntry{}).Error
	if err != nil {
		return fmt.Errorf("clearing kv_entries: %w", err)
	}
	return nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
