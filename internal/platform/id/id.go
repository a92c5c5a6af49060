package id

import (
	"crypto/rand"
	"encoding/hex"
)

// Generator creates opaque identifiers for beacon messages and
// submission attempts.
type Generator interface {
	New() string
}

type RandomHex struct{}

func (RandomHex) New() string {
	buf := make([]byte, 12)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
