package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededIntn(seed uint64) func(int) int {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return r.IntN
}

func TestWagerIDGenerator_Format(t *testing.T) {
	gen := NewWagerIDGenerator("WGR-", 6)
	pattern := regexp.MustCompile(`^WGR-[A-Z0-9]{6}$`)

	for i := 0; i < 100; i++ {
		assert.Regexp(t, pattern, gen.Candidate())
	}
}

func TestWagerIDGenerator_DefaultsWhenUnset(t *testing.T) {
	gen := NewWagerIDGenerator("", 0)
	assert.Regexp(t, `^WGR-[A-Z0-9]{6}$`, gen.Candidate())
}

func TestWagerIDGenerator_UniqueAcrossSeededCollision(t *testing.T) {
	ctx := context.Background()
	const seed = 42

	// The first draw of an identically seeded generator is stored up front, so the
	// generator under test must redraw on its very first attempt.
	colliding := NewWagerIDGenerator("WGR-", 6).WithRandSource(seededIntn(seed)).Candidate()
	store := map[string]struct{}{colliding: {}}

	gen := NewWagerIDGenerator("WGR-", 6).WithRandSource(seededIntn(seed))
	collisions := 0
	exists := func(_ context.Context, id string) (bool, error) {
		_, ok := store[id]
		if ok {
			collisions++
		}
		return ok, nil
	}

	issued := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		id, err := gen.Generate(ctx, exists)
		require.NoError(t, err)
		_, dup := issued[id]
		require.False(t, dup, "duplicate id %s at iteration %d", id, i)
		issued[id] = struct{}{}
		store[id] = struct{}{}
	}

	assert.Len(t, issued, 10000)
	assert.NotContains(t, issued, colliding)
	assert.GreaterOrEqual(t, collisions, 1)
}

func TestWagerIDGenerator_GivesUpAfterMaxAttempts(t *testing.T) {
	gen := NewWagerIDGenerator("WGR-", 6)
	calls := 0
	_, err := gen.Generate(context.Background(), func(context.Context, string) (bool, error) {
		calls++
		return true, nil
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStoreUnavailable))
	assert.Equal(t, maxWagerIDAttempts, calls)
}

func TestWagerIDGenerator_StoreFailure(t *testing.T) {
	gen := NewWagerIDGenerator("WGR-", 6)
	cause := errors.New("connection reset")
	_, err := gen.Generate(context.Background(), func(context.Context, string) (bool, error) {
		return false, cause
	})

	assert.True(t, errors.Is(err, ErrStoreUnavailable))
	assert.True(t, errors.Is(err, cause))
}
