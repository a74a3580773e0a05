package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateStateLength(t *testing.T) {
	state := GenerateState()
	assert.Len(t, state, 32)
}

func TestGenerateStateAlphabet(t *testing.T) {
	for range 20 {
		for _, r := range GenerateState() {
			ok := (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
			assert.True(t, ok, "unexpected character %q", r)
		}
	}
}

func TestGenerateStateUnique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		state := GenerateState()
		assert.False(t, seen[state], "duplicate state %s", state)
		seen[state] = true
	}
}
