package id

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
)

// Generator mints opaque identifiers for externally referenced records
// such as prediction reports.
type Generator interface {
	NewID() (string, error)
}

// lowerBase32 keeps IDs URL-safe and case-stable across clients.
var lowerBase32 = base32.StdEncoding.WithPadding(base32.NoPadding)

type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return strings.ToLower(lowerBase32.EncodeToString(buf)), nil
}
