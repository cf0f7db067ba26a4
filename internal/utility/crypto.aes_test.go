package utility

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Khóa test: hex 64 ký tự = 32 bytes (AES-256)
const testKeyHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestEncryptDecryptRoundtrip(t *testing.T) {
	plaintext := "line-channel-access-token-ABC123"

	encrypted, err := EncryptString(plaintext, testKeyHex)
	assert.NoError(t, err)
	assert.NotEmpty(t, encrypted)
	assert.NotEqual(t, plaintext, encrypted, "Bản mã không được trùng bản rõ")

	decrypted, err := DecryptString(encrypted, testKeyHex)
	assert.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestEncryptProducesDifferentCiphertexts(t *testing.T) {
	// GCM dùng nonce ngẫu nhiên: cùng bản rõ phải cho bản mã khác nhau
	first, err := EncryptString("secret", testKeyHex)
	assert.NoError(t, err)
	second, err := EncryptString("secret", testKeyHex)
	assert.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestDecryptWithWrongKey(t *testing.T) {
	encrypted, err := EncryptString("secret", testKeyHex)
	assert.NoError(t, err)

	wrongKey := strings.Repeat("ff", 32)
	_, err = DecryptString(encrypted, wrongKey)
	assert.Error(t, err, "Giải mã bằng khóa sai phải lỗi (GCM auth tag)")
}

func TestDecryptTamperedCiphertext(t *testing.T) {
	encrypted, err := EncryptString("secret", testKeyHex)
	assert.NoError(t, err)

	// Đảo một ký tự hex cuối
	tampered := encrypted[:len(encrypted)-1]
	if strings.HasSuffix(encrypted, "0") {
		tampered += "1"
	} else {
		tampered += "0"
	}

	_, err = DecryptString(tampered, testKeyHex)
	assert.Error(t, err, "Bản mã bị sửa phải bị phát hiện")
}

func TestEncryptInvalidKey(t *testing.T) {
	_, err := EncryptString("secret", "ngắn")
	assert.Error(t, err, "Khóa không phải hex 64 ký tự phải lỗi")
}
