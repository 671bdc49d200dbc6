package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const randomCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// 🎲 GenerateRandomString returns length characters drawn uniformly from
// [a-zA-Z0-9] with crypto/rand.
func GenerateRandomString(length int) (string, error) {
	max := big.NewInt(int64(len(randomCharset)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate random string: %w", err)
		}
		b[i] = randomCharset[n.Int64()]
	}
	return string(b), nil
}
