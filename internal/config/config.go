package config

import (
	"fmt"
	"log"
	"strings"
	"time"
	_ "time/tzdata" // container imajlarında zoneinfo olmayabilir

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultDSN  = "host=localhost user=postgres password=postgres dbname=caixa port=5432 sslmode=disable"
	defaultCORS = "http://localhost:5173"
)

type Config struct {
	HTTPPort       string        `validate:"required,numeric"`
	StorageBackend string        `validate:"oneof=postgres mongo memory"`
	DatabaseDSN    string        `validate:"required_if=StorageBackend postgres"`
	MongoURI       string        `validate:"required_if=StorageBackend mongo"`
	MongoDatabase  string        `validate:"required_if=StorageBackend mongo"`
	LedgerBucket   string        `validate:"required,max=100"`
	CloseDelay     time.Duration `validate:"gte=0"`
	PDFEngine      string        `validate:"oneof=native chromium"`
	ChromiumPath   string
	PDFTimeout     time.Duration `validate:"gt=0"`
	ExportDir      string        `validate:"required"`
	CompanyName    string        `validate:"required"`
	TimeZone       string        `validate:"required"`
	CORSOrigins    string
	LogLevel       string `validate:"oneof=debug info warn error"`

	Location *time.Location `validate:"-"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("STORAGE_BACKEND", "postgres")
	v.SetDefault("DATABASE_DSN", defaultDSN)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "caixa")
	v.SetDefault("LEDGER_BUCKET", "daily_closings")
	v.SetDefault("CLOSE_DELAY", "800ms")
	v.SetDefault("PDF_ENGINE", "native")
	v.SetDefault("PDF_CHROMIUM_PATH", "")
	v.SetDefault("PDF_TIMEOUT", "15s")
	v.SetDefault("EXPORT_DIR", "./exports")
	v.SetDefault("COMPANY_NAME", "Fechamento de Caixa")
	v.SetDefault("TIME_ZONE", "America/Sao_Paulo")
	v.SetDefault("CORS_ALLOWED_ORIGINS", defaultCORS)
	v.SetDefault("LOG_LEVEL", "info")
}

// FromViper - ortam değişkenlerini Config'e çevirir ve doğrular.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		HTTPPort:       v.GetString("HTTP_PORT"),
		StorageBackend: strings.ToLower(v.GetString("STORAGE_BACKEND")),
		DatabaseDSN:    v.GetString("DATABASE_DSN"),
		MongoURI:       v.GetString("MONGO_URI"),
		MongoDatabase:  v.GetString("MONGO_DATABASE"),
		LedgerBucket:   v.GetString("LEDGER_BUCKET"),
		PDFEngine:      strings.ToLower(v.GetString("PDF_ENGINE")),
		ChromiumPath:   v.GetString("PDF_CHROMIUM_PATH"),
		ExportDir:      v.GetString("EXPORT_DIR"),
		CompanyName:    v.GetString("COMPANY_NAME"),
		TimeZone:       v.GetString("TIME_ZONE"),
		CORSOrigins:    v.GetString("CORS_ALLOWED_ORIGINS"),
		LogLevel:       strings.ToLower(v.GetString("LOG_LEVEL")),
	}

	var err error
	if cfg.CloseDelay, err = time.ParseDuration(v.GetString("CLOSE_DELAY")); err != nil {
		return nil, fmt.Errorf("CLOSE_DELAY geçersiz: %w", err)
	}
	if cfg.PDFTimeout, err = time.ParseDuration(v.GetString("PDF_TIMEOUT")); err != nil {
		return nil, fmt.Errorf("PDF_TIMEOUT geçersiz: %w", err)
	}
	if cfg.Location, err = time.LoadLocation(cfg.TimeZone); err != nil {
		return nil, fmt.Errorf("TIME_ZONE geçersiz: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config geçersiz: %w", err)
	}
	return nil
}

func Load() *Config {
	// .env yoksa sorun değil
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg, err := FromViper(v)
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}

	if cfg.StorageBackend == "postgres" && cfg.DatabaseDSN == defaultDSN {
		log.Println("[WARN] DATABASE_DSN varsayılan değer kullanılıyor, production için kendi Postgres bağlantı bilgisini tanımla.")
	}
	if cfg.StorageBackend == "memory" {
		log.Println("[WARN] STORAGE_BACKEND=memory: kapanışlar süreç kapanınca kaybolur.")
	}
	if cfg.CORSOrigins == defaultCORS {
		log.Println("[WARN] CORS_ALLOWED_ORIGINS varsayılan değer kullanılıyor, production için kendi domain'ini tanımla.")
	}

	return cfg
}
