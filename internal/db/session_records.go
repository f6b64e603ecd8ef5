package db

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/balkashynov/healthmate/internal/models"
)

// SessionRecords stores serialized sessions in the session_records table
type SessionRecords struct {
	db *gorm.DB
}

// NewSessionRecords wraps an open database
func NewSessionRecords(db *gorm.DB) *SessionRecords {
	return &SessionRecords{db: db}
}

// Load returns the payload stored under key. A missing record is not an error.
func (r *SessionRecords) Load(ctx context.Context, key string) (string, bool, error) {
	var record models.SessionRecord

	err := r.db.WithContext(ctx).Where("record_key = ?", key).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return record.Payload, true, nil
}

// Save writes payload under key, replacing any previous value
func (r *SessionRecords) Save(ctx context.Context, key, payload string) error {
	record := models.SessionRecord{Key: key, Payload: payload}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "record_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&record).Error
}

// Delete removes the record under key, if any
func (r *SessionRecords) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("record_key = ?", key).Delete(&models.SessionRecord{}).Error
}
