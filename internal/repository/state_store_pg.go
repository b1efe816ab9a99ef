package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hydroshop/storefront/internal/model"
)

type pgStateStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewPGStateStore keeps state in the session_records table. Run
// model.AutoMigrate first.
func NewPGStateStore(db *gorm.DB) StateStore {
	return newPGStateStore(db, time.Now)
}

func newPGStateStore(db *gorm.DB, now func() time.Time) *pgStateStore {
	return &pgStateStore{db: db, now: now}
}

func (s *pgStateStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	rec := model.SessionRecord{Key: key, Value: value}
	if ttl > 0 {
		exp := s.now().Add(ttl)
		rec.ExpiresAt = &exp
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
		}).
		Create(&rec).Error
}

func (s *pgStateStore) Get(ctx context.Context, key string) ([]byte, error) {
	var rec model.SessionRecord
	err := s.db.WithContext(ctx).First(&rec, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if rec.Expired(s.now()) {
		_ = s.Delete(ctx, key)
		return nil, nil
	}
	return rec.Value, nil
}

func (s *pgStateStore) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Delete(&model.SessionRecord{}, "key = ?", key).Error
}

func (s *pgStateStore) Exists(ctx context.Context, key string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.SessionRecord{}).
		Where("key = ? AND (expires_at IS NULL OR expires_at > ?)", key, s.now()).
		Count(&n).Error
	return n > 0, err
}

// Sweep deletes every expired record and reports how many were removed.
func (s *pgStateStore) Sweep(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", s.now()).
		Delete(&model.SessionRecord{})
	return res.RowsAffected, res.Error
}
