package auth

import (
	"crypto/sha256"
	"encoding/base64"

	"golang.org/x/crypto/bcrypt"

	"github.com/Mirxonjon/charge-one-backend/domain"
)

// SecretHasherImpl implements domain.SecretHasher for refresh tokens and
// opaque registration/reset secrets. Inputs are sha256-digested before
// bcrypt: bcrypt rejects inputs longer than 72 bytes and a signed JWT
// always exceeds that.
type SecretHasherImpl struct {
	cost int
}

// NewSecretHasher creates a new secret hasher
func NewSecretHasher() domain.SecretHasher {
	return &SecretHasherImpl{cost: bcrypt.MinCost + 2}
}

// Hash implements domain.SecretHasher
func (h *SecretHasherImpl) Hash(secret string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(digest(secret), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Compare implements domain.SecretHasher
func (h *SecretHasherImpl) Compare(hash, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), digest(secret)) == nil
}

func digest(secret string) []byte {
	sum := sha256.Sum256([]byte(secret))
	return []byte(base64.RawStdEncoding.EncodeToString(sum[:]))
}
