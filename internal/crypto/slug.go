package crypto

import (
	"crypto/rand"
	"math/big"
)

// SlugLength is the number of characters in a share slug.
const SlugLength = 32

const slugAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"

// NewSlug returns an unguessable URL-safe identifier for public share links.
func NewSlug() (string, error) {
	result := make([]byte, SlugLength)
	max := big.NewInt(int64(len(slugAlphabet)))

	for i := range result {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		result[i] = slugAlphabet[n.Int64()]
	}

	return string(result), nil
}
