package ledger

import (
	"encoding/base32"
	"strings"

	"github.com/google/uuid"
)

// Crockford alfabesi: I, L, O, U yok; okunurken karışmaz.
var idEncoding = base32.NewEncoding("0123456789ABCDEFGHJKMNPQRSTVWXYZ").WithPadding(base32.NoPadding)

// NewID - 128 bit rastgele (UUIDv4) değer, 26 karakter base32.
// Çakışma olasılığı ihmal edilebilir; Store yine de tekrar eden id'yi reddeder.
func NewID() string {
	u := uuid.New()
	return strings.ToUpper(idEncoding.EncodeToString(u[:]))
}
