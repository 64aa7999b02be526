package history

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mj1618/webtrial/internal/logger"
)

// Store persists run records.
type Store interface {
	SaveRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)
}

// SqliteStore implements Store on an embedded sqlite database.
type SqliteStore struct {
	db  *gorm.DB
	log logger.Logger
}

// NewSqliteStore opens (or creates) the database at path and migrates the
// schema.
func NewSqliteStore(path string, log logger.Logger) (*SqliteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open history db %s: %w", path, err)
	}
	if err := db.AutoMigrate(&Run{}); err != nil {
		return nil, fmt.Errorf("migrate history db: %w", err)
	}
	return &SqliteStore{db: db, log: log}, nil
}

// SaveRun inserts one run record.
func (s *SqliteStore) SaveRun(ctx context.Context, run *Run) error {
	if err := s.db.WithContext(ctx).Create(run).Error; err != nil {
		s.log.Error(ctx, "failed to save run", map[string]interface{}{
			"error":  err.Error(),
			"run_id": run.ID,
		})
		return err
	}
	s.log.Debug(ctx, "run saved", map[string]interface{}{"run_id": run.ID})
	return nil
}

// GetRun fetches one run by ID.
func (s *SqliteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	var run Run
	err := s.db.WithContext(ctx).
		Where("id = ?", id).
		First(&run).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRunNotFound
		}
		s.log.Error(ctx, "failed to get run", map[string]interface{}{
			"error":  err.Error(),
			"run_id": id,
		})
		return nil, err
	}
	return &run, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *SqliteStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []Run
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		s.log.Error(ctx, "failed to list runs", map[string]interface{}{
			"error": err.Error(),
			"limit": limit,
		})
		return nil, err
	}
	return runs, nil
}
