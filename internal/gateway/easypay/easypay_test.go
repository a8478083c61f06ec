package easypay

import (
	"crypto/aes"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/learnifypk/backend/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHashKey = "0123456789abcdef"

func testConfig() Config {
	return Config{
		Base:        "https://gateway.example.com",
		IndexPath:   "/easypay/Index.jsf",
		ConfirmPath: "/easypay/Confirm.jsf",
		StoreID:     "98765",
		HashKey:     testHashKey,
	}
}

// decryptECBBase64 reverses EncryptECBBase64 so the round trip can be
// verified without the gateway.
func decryptECBBase64(encoded, key string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	block, err := aes.NewCipher([]byte(key))
	if err != nil {
		return "", err
	}
	out := make([]byte, len(raw))
	for i := 0; i < len(raw); i += block.BlockSize() {
		block.Decrypt(out[i:i+block.BlockSize()], raw[i:i+block.BlockSize()])
	}
	pad := int(out[len(out)-1])
	return string(out[:len(out)-pad]), nil
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, testConfig().Validate())

	missing := testConfig()
	missing.StoreID = "  "
	err := missing.Validate()
	require.Error(t, err)
	assert.Equal(t, apperror.KindExternalConfig, apperror.KindOf(err))

	short := testConfig()
	short.HashKey = "tooshort"
	err = short.Validate()
	require.Error(t, err)
	assert.Equal(t, apperror.KindExternalConfig, apperror.KindOf(err))
}

func TestNewOrderRef(t *testing.T) {
	now := time.Date(2024, 3, 7, 15, 4, 5, 0, time.UTC)
	for i := 0; i < 50; i++ {
		ref := NewOrderRef(now)
		assert.LessOrEqual(t, len(ref), 20)
		assert.True(t, strings.HasPrefix(ref, "240307150405"), ref)
		for _, r := range ref {
			assert.True(t, r >= '0' && r <= '9', "non-digit in order ref %q", ref)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "300.0", FormatAmount(300))
	assert.Equal(t, "300.0", FormatAmount(300.04))
	assert.Equal(t, "99.5", FormatAmount(99.5))
	assert.Equal(t, "0.0", FormatAmount(0))
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2024, 3, 7, 9, 5, 2, 0, time.UTC)
	assert.Equal(t, "07/03/2024 09:05:02", FormatTimestamp(ts))
}

func TestBuildRequest(t *testing.T) {
	now := time.Date(2024, 3, 7, 15, 4, 5, 0, time.UTC)
	req, err := BuildRequest(testConfig(), 300, "240307150405123456", "https://api.example.com/cb", now)
	require.NoError(t, err)

	assert.Equal(t, "https://gateway.example.com/easypay/Index.jsf", req.Endpoint)
	assert.Equal(t,
		"storeId=98765&amount=300.0&postBackURL=https://api.example.com/cb&orderRefNum=240307150405123456&timeStamp=07/03/2024 15:04:05&paymentMethod=MA",
		req.Canonical)

	assert.Equal(t, "300.0", req.Fields["amount"])
	assert.Equal(t, "98765", req.Fields["storeId"])
	assert.Equal(t, "MA", req.Fields["paymentMethod"])
	assert.Equal(t, "0", req.Fields["autoRedirect"])

	hashed := req.Fields["merchantHashedReq"]
	require.NotEmpty(t, hashed)
	assert.Zero(t, len(hashed)%4, "base64 length must be a multiple of 4")

	plain, err := decryptECBBase64(hashed, testHashKey)
	require.NoError(t, err)
	assert.Equal(t, req.Canonical, plain)
}

func TestBuildRequestRejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.HashKey = "short"
	_, err := BuildRequest(cfg, 300, "ref", "https://api.example.com/cb", time.Now())
	require.Error(t, err)
	assert.Equal(t, apperror.KindExternalConfig, apperror.KindOf(err))
}

func TestEncryptECBBase64Deterministic(t *testing.T) {
	a, err := EncryptECBBase64("storeId=1&amount=2.0", testHashKey)
	require.NoError(t, err)
	b, err := EncryptECBBase64("storeId=1&amount=2.0", testHashKey)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	_, err = EncryptECBBase64("payload", "badkeylen")
	assert.Error(t, err)
}

func TestConfirmFields(t *testing.T) {
	fields := ConfirmFields("tok-123", "https://api.example.com/status")
	assert.Equal(t, map[string]string{
		"auth_token":  "tok-123",
		"postBackURL": "https://api.example.com/status",
	}, fields)
}
