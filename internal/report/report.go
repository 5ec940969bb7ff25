package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"caixa-backend/internal/models"
)

var ErrExportFailed = errors.New("falha ao gerar o relatório")

// Renderer tek bir kapanışı PDF'e çevirir. Kayıt değiştirilmez.
type Renderer interface {
	Render(ctx context.Context, rec models.ClosingRecord) ([]byte, error)
}

// Sink üretilen dosyayı kullanıcıya ulaştırır.
type Sink interface {
	Deliver(name string, pdf []byte) (string, error)
}

type Options struct {
	CompanyName string
	Location    *time.Location
	Now         func() time.Time
}

func (o Options) withDefaults() Options {
	if o.CompanyName == "" {
		o.CompanyName = "Fechamento de Caixa"
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Filename: fechamento-2025-12-09-<id>.pdf
func Filename(rec models.ClosingRecord, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	day := time.UnixMilli(rec.CreatedAt).In(loc).Format("2006-01-02")
	return fmt.Sprintf("fechamento-%s-%s.pdf", day, rec.ID)
}

// Exporter render + teslim. Hata her zaman ErrExportFailed ile sarılır,
// böylece çağıran taraf kayıt hatasından ayırabilir.
type Exporter struct {
	Renderer Renderer
	Sink     Sink
	Location *time.Location
}

func (e Exporter) Export(ctx context.Context, rec models.ClosingRecord) (string, error) {
	pdf, err := e.Renderer.Render(ctx, rec)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	path, err := e.Sink.Deliver(Filename(rec, e.Location), pdf)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	return path, nil
}

// DirSink PDF'leri bir klasöre yazar.
type DirSink struct {
	Dir string
}

func (s DirSink) Deliver(name string, pdf []byte) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("export klasörü oluşturulamadı: %w", err)
	}
	path := filepath.Join(s.Dir, filepath.Base(name))
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return "", fmt.Errorf("pdf yazılamadı: %w", err)
	}
	return path, nil
}
