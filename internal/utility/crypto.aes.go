package utility

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

// EncryptString mã hóa plaintext bằng AES-256-GCM.
// keyHex là khóa 32 bytes dạng hex (64 ký tự). Kết quả là hex(nonce || ciphertext).
// Dùng để lưu access token của các kênh ở trạng thái mã hóa trong database.
func EncryptString(plaintext string, keyHex string) (string, error) {
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return "", fmt.Errorf("khóa mã hóa không phải hex hợp lệ: %w", err)
	}
	if len(key) != 32 {
		return "", fmt.Errorf("khóa mã hóa phải dài 32 bytes, nhận được %d", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return hex.EncodeToString(sealed), nil
}

// DecryptString giải mã chuỗi đã mã hóa bởi EncryptString.
func DecryptString(encryptedHex string, keyHex string) (string, error) {
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return "", fmt.Errorf("khóa mã hóa không phải hex hợp lệ: %w", err)
	}
	if len(key) != 32 {
		return "", fmt.Errorf("khóa mã hóa phải dài 32 bytes, nhận được %d", len(key))
	}

	data, err := hex.DecodeString(encryptedHex)
	if err != nil {
		return "", fmt.Errorf("dữ liệu mã hóa không phải hex hợp lệ: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	if len(data) < gcm.NonceSize() {
		return "", fmt.Errorf("dữ liệu mã hóa quá ngắn")
	}

	nonce, ciphertext := data[:gcm.NonceSize()], data[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("giải mã thất bại: %w", err)
	}
	return string(plaintext), nil
}
