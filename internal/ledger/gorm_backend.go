package ledger

import (
	"context"
	"errors"
	"time"

	"caixa-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBackend her kovayı ledger_buckets tablosunda tek satır olarak tutar.
type GormBackend struct {
	db *gorm.DB
}

func NewGormBackend(db *gorm.DB) *GormBackend {
	return &GormBackend{db: db}
}

func (b *GormBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var row models.LedgerBucket
	err := b.db.WithContext(ctx).First(&row, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(row.Payload), true, nil
}

func (b *GormBackend) Set(ctx context.Context, key string, payload []byte) error {
	row := models.LedgerBucket{
		Key:       key,
		Payload:   string(payload),
		UpdatedAt: time.Now(),
	}
	return b.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&row).Error
}
