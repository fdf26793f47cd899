package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"math/big"
)

const (
	verifierLength   = 128
	verifierAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-._~"
)

// GeneratePKCE returns a code verifier and its S256 challenge (RFC 7636).
func GeneratePKCE() (verifier, challenge string, err error) {
	buf := make([]byte, verifierLength)
	limit := big.NewInt(int64(len(verifierAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", "", err
		}
		buf[i] = verifierAlphabet[n.Int64()]
	}
	verifier = string(buf)
	return verifier, Challenge(verifier), nil
}

func Challenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
