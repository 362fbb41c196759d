package service

import (
	"context"
	"crypto/rand"
	"math/big"
	"strings"
)

const (
	wagerIDAlphabet      = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	maxWagerIDAttempts   = 32
	defaultWagerIDPrefix = "WGR-"
	defaultWagerIDLength = 6
)

// IDExistsFunc reports whether a candidate wager ID is already stored
type IDExistsFunc func(ctx context.Context, id string) (bool, error)

// WagerIDGenerator draws human-readable wager IDs and redraws until it finds one not yet stored
type WagerIDGenerator struct {
	prefix string
	length int
	intn   func(n int) int
}

// NewWagerIDGenerator creates a generator backed by crypto/rand
func NewWagerIDGenerator(prefix string, length int) *WagerIDGenerator {
	if prefix == "" {
		prefix = defaultWagerIDPrefix
	}
	if length <= 0 {
		length = defaultWagerIDLength
	}
	return &WagerIDGenerator{prefix: prefix, length: length, intn: cryptoIntn}
}

// WithRandSource replaces the random source, used for deterministic tests
func (g *WagerIDGenerator) WithRandSource(intn func(n int) int) *WagerIDGenerator {
	g.intn = intn
	return g
}

// Candidate draws one ID without checking the store
func (g *WagerIDGenerator) Candidate() string {
	var b strings.Builder
	b.Grow(len(g.prefix) + g.length)
	b.WriteString(g.prefix)
	for i := 0; i < g.length; i++ {
		b.WriteByte(wagerIDAlphabet[g.intn(len(wagerIDAlphabet))])
	}
	return b.String()
}

// Generate returns an ID that exists reports as unused
func (g *WagerIDGenerator) Generate(ctx context.Context, exists IDExistsFunc) (string, error) {
	for attempt := 0; attempt < maxWagerIDAttempts; attempt++ {
		id := g.Candidate()
		taken, err := exists(ctx, id)
		if err != nil {
			return "", storeError("failed to check wager id", err)
		}
		if !taken {
			return id, nil
		}
	}
	return "", newLedgerError(KindStoreUnavailable, "could not allocate a unique wager id after %d attempts", maxWagerIDAttempts)
}

func cryptoIntn(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(err)
	}
	return int(v.Int64())
}
