package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(overrides map[string]string) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for k, val := range overrides {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := FromViper(newViper(nil))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "postgres", cfg.StorageBackend)
	assert.Equal(t, "daily_closings", cfg.LedgerBucket)
	assert.Equal(t, 800*time.Millisecond, cfg.CloseDelay)
	assert.Equal(t, "native", cfg.PDFEngine)
	assert.Equal(t, 15*time.Second, cfg.PDFTimeout)
	require.NotNil(t, cfg.Location)
	assert.Equal(t, "America/Sao_Paulo", cfg.Location.String())
}

func TestFromViper_Overrides(t *testing.T) {
	cfg, err := FromViper(newViper(map[string]string{
		"STORAGE_BACKEND": "Mongo",
		"PDF_ENGINE":      "chromium",
		"CLOSE_DELAY":     "0s",
		"TIME_ZONE":       "UTC",
	}))
	require.NoError(t, err)
	assert.Equal(t, "mongo", cfg.StorageBackend)
	assert.Equal(t, "chromium", cfg.PDFEngine)
	assert.Zero(t, cfg.CloseDelay)
}

func TestFromViper_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown backend": {"STORAGE_BACKEND": "redis"},
		"unknown engine":  {"PDF_ENGINE": "latex"},
		"bad delay":       {"CLOSE_DELAY": "soon"},
		"negative delay":  {"CLOSE_DELAY": "-1s"},
		"bad zone":        {"TIME_ZONE": "Mars/Olympus"},
		"bad port":        {"HTTP_PORT": "http"},
		"mongo w/o uri":   {"STORAGE_BACKEND": "mongo", "MONGO_URI": ""},
		"bad log level":   {"LOG_LEVEL": "trace"},
	}
	for name, overrides := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := FromViper(newViper(overrides))
			assert.Error(t, err)
		})
	}
}
