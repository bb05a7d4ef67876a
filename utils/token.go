package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
)

// sealedPrefix marks a stored Micropub token as sealed. Tokens saved before an
// encryption key was configured carry no prefix and are returned as-is.
const sealedPrefix = "enc:"

// SealToken encrypts a Micropub access token for storage with AES-256-GCM.
// The stored form is "enc:" + base64(nonce || ciphertext || tag). Key must be
// 32 bytes.
func SealToken(token string, key []byte) (string, error) {
	if len(key) != 32 {
		return "", errors.New("token key must be 32 bytes")
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	sealed := aead.Seal(nonce, nonce, []byte(token), nil)
	return sealedPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// OpenToken recovers a token stored by SealToken. Values without the sealed
// prefix predate encryption and pass through unchanged. Key must be 32 bytes.
func OpenToken(stored string, key []byte) (string, error) {
	if len(key) != 32 {
		return "", errors.New("token key must be 32 bytes")
	}
	if len(stored) < len(sealedPrefix) || stored[:len(sealedPrefix)] != sealedPrefix {
		return stored, nil
	}
	raw, err := base64.StdEncoding.DecodeString(stored[len(sealedPrefix):])
	if err != nil {
		return "", err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	nonceSize := aead.NonceSize()
	if len(raw) < nonceSize {
		return "", errors.New("sealed token too short")
	}
	nonce, sealed := raw[:nonceSize], raw[nonceSize:]
	token, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", err
	}
	return string(token), nil
}
