package repository

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const (
	tokenPrefix     = "VIST_"
	tokenAlphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	tokenRandomLen  = 12
	tokenTimeLayout = "20060102_150405"
)

// NewToken generates the client-facing handle for a new inspection:
// VIST_<12 random chars>_<timestamp>. The random component comes from
// crypto/rand so tokens stay unpredictable even within the same second; the
// timestamp keeps them operator-readable. Uniqueness is ultimately enforced
// by the database index, and a collision there is a hard failure.
func NewToken(now time.Time) (string, error) {
	buf := make([]byte, tokenRandomLen)
	max := big.NewInt(int64(len(tokenAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("token entropy: %w", err)
		}
		buf[i] = tokenAlphabet[n.Int64()]
	}
	return tokenPrefix + string(buf) + "_" + now.Format(tokenTimeLayout), nil
}
