package storage

import (
	"context"
	"fmt"

	"github.com/jstittsworth/dfs-covariance/internal/models"
	"github.com/jstittsworth/dfs-covariance/pkg/database"
)

// Repository persists historical game records and slate entries for the
// server mode. The batch CLI bypasses it and works from CSV tables directly.
type Repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) (*Repository, error) {
	if err := db.AutoMigrate(&models.GameRecord{}, &models.SlateEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &Repository{db: db}, nil
}

// SaveGameRecords appends historical game records.
func (r *Repository) SaveGameRecords(ctx context.Context, records []models.GameRecord) error {
	if len(records) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(records, 500).Error; err != nil {
		return fmt.Errorf("failed to save game records: %w", err)
	}
	return nil
}

// LoadGameRecords returns the full historical log.
func (r *Repository) LoadGameRecords(ctx context.Context) ([]models.GameRecord, error) {
	var records []models.GameRecord
	if err := r.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to load game records: %w", err)
	}
	return records, nil
}

// SaveSlate replaces the stored slate for a date.
func (r *Repository) SaveSlate(ctx context.Context, slateDate string, entries []models.SlateEntry) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin slate save: %w", tx.Error)
	}
	if err := tx.Where("slate_date = ?", slateDate).Delete(&models.SlateEntry{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to clear slate %s: %w", slateDate, err)
	}
	if len(entries) > 0 {
		if err := tx.CreateInBatches(entries, 500).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to save slate %s: %w", slateDate, err)
		}
	}
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit slate %s: %w", slateDate, err)
	}
	return nil
}

// LoadSlate returns the stored slate for a date in insertion order.
func (r *Repository) LoadSlate(ctx context.Context, slateDate string) ([]models.SlateEntry, error) {
	var entries []models.SlateEntry
	if err := r.db.WithContext(ctx).Where("slate_date = ?", slateDate).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to load slate %s: %w", slateDate, err)
	}
	return entries, nil
}
