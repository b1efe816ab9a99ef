package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// CookieKeys is the key pair used to sign and encrypt session cookies.
type CookieKeys struct {
	HashKey  []byte // 64 bytes, HMAC-SHA256
	BlockKey []byte // 32 bytes, AES-256
}

// DeriveCookieKeys stretches a configured secret into independent hash and
// block keys with HKDF-SHA256, so operators only manage one string.
func DeriveCookieKeys(secret string) (CookieKeys, error) {
	if secret == "" {
		return CookieKeys{}, fmt.Errorf("empty session secret")
	}
	hashKey, err := expand(secret, "session-cookie-hash", 64)
	if err != nil {
		return CookieKeys{}, err
	}
	blockKey, err := expand(secret, "session-cookie-block", 32)
	if err != nil {
		return CookieKeys{}, err
	}
	return CookieKeys{HashKey: hashKey, BlockKey: blockKey}, nil
}

func expand(secret, info string, n int) ([]byte, error) {
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(info))
	out := make([]byte, n)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, fmt.Errorf("derive %s key: %w", info, err)
	}
	return out, nil
}

// GenerateRandomString produces a cryptographically random base64url string of n bytes.
func GenerateRandomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
