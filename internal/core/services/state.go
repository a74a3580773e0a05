package services

import (
	"crypto/rand"
	"fmt"
)

// State tokens are 32 alphanumeric characters drawn from crypto/rand.
const (
	stateLength   = 32
	stateAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// GenerateState creates an unguessable CSRF state token for one
// authorization attempt. An entropy source failure is fatal to the
// process; there is no local recovery from a broken random source.
func GenerateState() string {
	// Rejection sampling keeps the alphabet distribution uniform.
	const limit = byte(248) // largest multiple of len(stateAlphabet) <= 256
	out := make([]byte, 0, stateLength)
	buf := make([]byte, stateLength)
	for len(out) < stateLength {
		if _, err := rand.Read(buf); err != nil {
			panic(fmt.Sprintf("entropy source failure: %v", err))
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, stateAlphabet[int(b)%len(stateAlphabet)])
			if len(out) == stateLength {
				break
			}
		}
	}
	return string(out)
}
