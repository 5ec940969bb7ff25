package models

import "time"

// LedgerBucket - tek bir isimli kova; kapanış listesinin tamamı Payload içinde
// JSON olarak tutulur ve her değişiklikte baştan yazılır.
type LedgerBucket struct {
	Key       string `gorm:"primaryKey;size:100"`
	Payload   string `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time
}
