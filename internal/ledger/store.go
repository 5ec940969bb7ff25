package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"caixa-backend/internal/models"
)

const DefaultBucket = "daily_closings"

var (
	// ErrUnavailable: backend okunamadı ya da yazılamadı
	ErrUnavailable = errors.New("armazenamento indisponível")
	// ErrUnreadable: kovadaki veri anlaşılamadı; üzerine yazılmaz
	ErrUnreadable  = errors.New("dados do armazenamento ilegíveis")
	ErrDuplicateID = errors.New("registro já existe")
)

// Backend - anahtar/değer saklama. Set her zaman tüm değeri değiştirir.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte) error
}

// Store kapanış listesini tek bir kovada tutar. Çağrılar sıralıdır
// (tek operatör), bu yüzden kilit yok; eşzamanlılık Controller'da çözülür.
type Store struct {
	backend Backend
	bucket  string
	log     *slog.Logger
}

func NewStore(backend Backend, bucket string, logger *slog.Logger) *Store {
	if bucket == "" {
		bucket = DefaultBucket
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{backend: backend, bucket: bucket, log: logger}
}

func (s *Store) Bucket() string { return s.bucket }

// Load - katı okuma; değişiklikten önce kullanılır.
func (s *Store) Load(ctx context.Context) ([]models.ClosingRecord, error) {
	payload, found, err := s.backend.Get(ctx, s.bucket)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !found {
		return nil, nil
	}
	return decodeEnvelope(payload)
}

// List asla hata dönmez: kova yoksa, bozuksa veya backend erişilemezse boş liste.
func (s *Store) List(ctx context.Context) []models.ClosingRecord {
	records, err := s.Load(ctx)
	if err != nil {
		s.log.Warn("ledger okunamadı, boş liste dönülüyor",
			slog.String("bucket", s.bucket),
			slog.String("error", err.Error()),
		)
		return []models.ClosingRecord{}
	}
	if records == nil {
		return []models.ClosingRecord{}
	}
	return records
}

// Save kaydı sona ekler ve koleksiyonun tamamını geri yazar.
func (s *Store) Save(ctx context.Context, rec models.ClosingRecord) error {
	records, err := s.Load(ctx)
	if err != nil {
		return err
	}
	for _, r := range records {
		if r.ID == rec.ID {
			return fmt.Errorf("%w: %s", ErrDuplicateID, rec.ID)
		}
	}
	return s.write(ctx, append(records, rec))
}

// Delete - id bulunamazsa no-op (false, nil).
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	records, err := s.Load(ctx)
	if err != nil {
		return false, err
	}

	kept := make([]models.ClosingRecord, 0, len(records))
	for _, r := range records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(records) {
		return false, nil
	}
	return true, s.write(ctx, kept)
}

func (s *Store) write(ctx context.Context, records []models.ClosingRecord) error {
	payload, err := encodeEnvelope(records)
	if err != nil {
		return fmt.Errorf("ledger encode: %w", err)
	}
	if err := s.backend.Set(ctx, s.bucket, payload); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
