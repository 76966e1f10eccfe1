// Package gormstore persists dashboard layouts as JSON documents through GORM.
package gormstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/goliatone/go-dashboard-layout/components/dashboard"
)

// LayoutRecord is one user's committed layout.
type LayoutRecord struct {
	UserID    string         `gorm:"primaryKey;type:varchar(128)"`
	Theme     string         `gorm:"type:varchar(16)"`
	Layout    string         `gorm:"type:varchar(16)"`
	Saves     int            `gorm:"not null;default:1"`
	Doc       datatypes.JSON `gorm:"type:jsonb"`
	UpdatedAt time.Time
}

// TableName pins the table name.
func (LayoutRecord) TableName() string { return "dashboard_layouts" }

// Store implements dashboard.PersistenceGateway on a gorm.DB.
type Store struct {
	db *gorm.DB
}

var _ dashboard.PersistenceGateway = (*Store)(nil)

// OpenPostgres connects to postgres with the given DSN.
func OpenPostgres(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true}), &gorm.Config{})
}

// New migrates the layout table and returns a Store.
func New(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("gormstore: db is required")
	}
	if err := db.AutoMigrate(&LayoutRecord{}); err != nil {
		return nil, fmt.Errorf("gormstore: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Load returns the stored layout or dashboard.ErrConfigNotFound.
func (s *Store) Load(ctx context.Context, userID string) (dashboard.UserDashboardConfig, error) {
	var record LayoutRecord
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dashboard.UserDashboardConfig{}, dashboard.ErrConfigNotFound
	}
	if err != nil {
		return dashboard.UserDashboardConfig{}, err
	}
	var cfg dashboard.UserDashboardConfig
	if err := json.Unmarshal(record.Doc, &cfg); err != nil {
		return dashboard.UserDashboardConfig{}, fmt.Errorf("gormstore: decode layout for %s: %w", userID, err)
	}
	return cfg, nil
}

// Save upserts the layout document. Concurrent saves are last-write-wins.
func (s *Store) Save(ctx context.Context, cfg dashboard.UserDashboardConfig) error {
	if cfg.UserID == "" {
		return errors.New("gormstore: user id is required")
	}
	doc, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("gormstore: encode layout: %w", err)
	}
	record := LayoutRecord{
		UserID:    cfg.UserID,
		Theme:     string(cfg.Theme),
		Layout:    string(cfg.Layout),
		Saves:     1,
		Doc:       datatypes.JSON(doc),
		UpdatedAt: cfg.LastUpdated,
	}
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = time.Now().UTC()
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"theme":      record.Theme,
			"layout":     record.Layout,
			"doc":        record.Doc,
			"updated_at": record.UpdatedAt,
			"saves":      gorm.Expr("dashboard_layouts.saves + 1"),
		}),
	}).Create(&record).Error
}

// Delete removes the stored layout for userID.
func (s *Store) Delete(ctx context.Context, userID string) error {
	return s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&LayoutRecord{}).Error
}

// Saves returns how many times userID's layout has been saved.
func (s *Store) Saves(ctx context.Context, userID string) (int, error) {
	var record LayoutRecord
	err := s.db.WithContext(ctx).Select("saves").Where("user_id = ?", userID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, dashboard.ErrConfigNotFound
	}
	return record.Saves, err
}
