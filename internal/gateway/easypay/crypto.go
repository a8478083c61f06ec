package easypay

import (
	"crypto/aes"
	"encoding/base64"

	"github.com/learnifypk/backend/internal/apperror"
)

// The gateway authenticates requests with AES-128/ECB/PKCS5 over the raw
// canonical string, base64-encoded. ECB is the gateway's contract, not a
// choice; the payload is a single short authenticated-by-shared-key string.

func pkcs5Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}
	return padded
}

// EncryptECBBase64 produces the merchantHashedReq value for a canonical
// string. The key must be exactly 16 bytes.
func EncryptECBBase64(payload, key string) (string, error) {
	if len(key) != 16 {
		return "", apperror.ExternalConfig("easypay hash key must be exactly 16 characters")
	}
	block, err := aes.NewCipher([]byte(key))
	if err != nil {
		return "", apperror.Wrap(apperror.KindExternalConfig, "easypay cipher init failed", err)
	}
	padded := pkcs5Pad([]byte(payload), block.BlockSize())
	out := make([]byte, len(padded))
	for i := 0; i < len(padded); i += block.BlockSize() {
		block.Encrypt(out[i:i+block.BlockSize()], padded[i:i+block.BlockSize()])
	}
	return base64.StdEncoding.EncodeToString(out), nil
}
