// Package storage persists the business profiles and the selected business
// in a client-local key-value store.
package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/yourusername/invoice-builder/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrUnavailable = errors.New("storage_unavailable")

// KeyValue is a string key-value store.
type KeyValue interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// GormKeyValue keeps entries in the storage_entries table.
type GormKeyValue struct {
	db *gorm.DB
}

func NewGormKeyValue(db *gorm.DB) *GormKeyValue {
	return &GormKeyValue{db: db}
}

func (kv *GormKeyValue) Get(ctx context.Context, key string) (string, bool, error) {
	if kv == nil || kv.db == nil {
		return "", false, ErrUnavailable
	}
	var entry models.StorageEntry
	err := kv.db.WithContext(ctx).Where(&models.StorageEntry{Key: key}).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return entry.Value, true, nil
}

func (kv *GormKeyValue) Set(ctx context.Context, key, value string) error {
	if kv == nil || kv.db == nil {
		return ErrUnavailable
	}
	entry := models.StorageEntry{Key: key, Value: value}
	err := kv.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// MemoryKeyValue keeps entries in process memory. Contents are lost on exit.
type MemoryKeyValue struct {
	mu    sync.RWMutex
	items map[string]string
}

func NewMemoryKeyValue() *MemoryKeyValue {
	return &MemoryKeyValue{items: make(map[string]string)}
}

func (kv *MemoryKeyValue) Get(_ context.Context, key string) (string, bool, error) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()
	v, ok := kv.items[key]
	return v, ok, nil
}

func (kv *MemoryKeyValue) Set(_ context.Context, key, value string) error {
	kv.mu.Lock()
	kv.items[key] = value
	kv.mu.Unlock()
	return nil
}
