package ledger

import (
	"bytes"
	"encoding/json"
	"fmt"

	"caixa-backend/internal/models"
)

// CurrentVersion - kalıcı zarfın şema sürümü. Şema değişirse artırılır ve
// decodeEnvelope içine eski sürüm için dönüşüm eklenir.
const CurrentVersion = 1

type envelope struct {
	Version int                    `json:"version"`
	Records []models.ClosingRecord `json:"records"`
}

func encodeEnvelope(records []models.ClosingRecord) ([]byte, error) {
	if records == nil {
		records = []models.ClosingRecord{}
	}
	return json.Marshal(envelope{Version: CurrentVersion, Records: records})
}

// decodeEnvelope zarfı veya sürümsüz eski diziyi okur.
func decodeEnvelope(payload []byte) ([]models.ClosingRecord, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	// Eski tarayıcı formatı: düz JSON dizi, sürüm alanı yok
	if trimmed[0] == '[' {
		var legacy []models.ClosingRecord
		if err := json.Unmarshal(trimmed, &legacy); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
		}
		return legacy, nil
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if env.Version < 1 || env.Version > CurrentVersion {
		return nil, fmt.Errorf("%w: desteklenmeyen sürüm %d", ErrUnreadable, env.Version)
	}
	return env.Records, nil
}
