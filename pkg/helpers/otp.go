package helpers

import (
	"crypto/rand"
	"encoding/binary"
	"strconv"
)

// GenVerificationCode generates a 6-digit verification code, uniformly
// random in [100000, 999999]. Rejection sampling keeps the distribution
// uniform over the 900000 possible codes.
func GenVerificationCode() (string, error) {
	const span = 900000
	// Largest multiple of span below 2^32, so modulo introduces no bias.
	const limit = (1 << 32) / span * span
	for {
		var b [4]byte
		if _, err := rand.Read(b[:]); err != nil {
			return "", err
		}
		n := binary.BigEndian.Uint32(b[:])
		if n >= limit {
			continue
		}
		return strconv.Itoa(int(n%span) + 100000), nil
	}
}
