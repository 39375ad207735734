package verification

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

const codePrefix = "CH-"

// GenerateCode возвращает код вида CH-1A2B3C4D, который пользователь размещает в описании канала
func GenerateCode() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return codePrefix + strings.ToUpper(hex.EncodeToString(buf)), nil
}
