package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Rank is an externally visible role rank, N/A or R1..R10
type Rank string

// Tier subdivides a rank
type Tier string

const (
	RankNone Rank = "N/A"

	TierNone Tier = "none"
	TierLow  Tier = "low"
	TierMid  Tier = "mid"
	TierHigh Tier = "high"
)

const maxRankNumber = 10

// ParseRank normalizes and validates a rank string
func ParseRank(s string) (Rank, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" || s == string(RankNone) {
		return RankNone, nil
	}
	if !strings.HasPrefix(s, "R") {
		return "", fmt.Errorf("invalid rank %q", s)
	}
	n, err := strconv.Atoi(s[1:])
	if err != nil || n < 1 || n > maxRankNumber || s[1] == '0' {
		return "", fmt.Errorf("invalid rank %q", s)
	}
	return Rank(s), nil
}

// ParseTier normalizes and validates a tier string; empty means none
func ParseTier(s string) (Tier, error) {
	switch Tier(strings.ToLower(strings.TrimSpace(s))) {
	case "", TierNone:
		return TierNone, nil
	case TierLow:
		return TierLow, nil
	case TierMid:
		return TierMid, nil
	case TierHigh:
		return TierHigh, nil
	}
	return "", fmt.Errorf("invalid tier %q", s)
}

// IsNone reports whether r is N/A
func (r Rank) IsNone() bool {
	return r == RankNone || r == ""
}

// Number returns the numeric rank, 0 for N/A
func (r Rank) Number() int {
	if r.IsNone() {
		return 0
	}
	n, err := strconv.Atoi(string(r)[1:])
	if err != nil {
		return 0
	}
	return n
}

// Order returns the sort weight of a tier
func (t Tier) Order() int {
	switch t {
	case TierLow:
		return 1
	case TierMid:
		return 2
	case TierHigh:
		return 3
	default:
		return 0
	}
}

// RankState is the stored rank and tier of a user
type RankState struct {
	UserID    int64     `db:"user_id"`
	Rank      Rank      `db:"rank"`
	Tier      Tier      `db:"tier"`
	UpdatedAt time.Time `db:"updated_at"`
}

// NewRankState returns the default state for a user with no stored rank
func NewRankState(userID int64) *RankState {
	return &RankState{UserID: userID, Rank: RankNone, Tier: TierNone}
}

// Matches reports whether the state equals the given rank and tier
func (s *RankState) Matches(rank Rank, tier Tier) bool {
	return s.Rank == rank && s.Tier == tier
}

func (s *RankState) String() string {
	return fmt.Sprintf("%s %s", s.Rank, s.Tier)
}

// RankClaim is a requested rank change together with the caller's belief about the current state
type RankClaim struct {
	UserID  int64
	OldRank Rank
	OldTier Tier
	NewRank Rank
	NewTier Tier
}

// Normalize forces the tier to none wherever the rank is N/A
func (c RankClaim) Normalize() RankClaim {
	if c.OldRank.IsNone() {
		c.OldRank, c.OldTier = RankNone, TierNone
	}
	if c.NewRank.IsNone() {
		c.NewRank, c.NewTier = RankNone, TierNone
	}
	if c.OldTier == "" {
		c.OldTier = TierNone
	}
	if c.NewTier == "" {
		c.NewTier = TierNone
	}
	return c
}

// RoleDiff lists the external role names to remove and to add
type RoleDiff struct {
	Remove []string
	Add    []string
}

// IsEmpty reports whether the diff changes nothing
func (d RoleDiff) IsEmpty() bool {
	return len(d.Remove) == 0 && len(d.Add) == 0
}

// ComputeRoleDiff builds the role changes for moving from the claim's old state to its new state.
// Roles of an N/A rank are never touched and a tier of none has no role.
func ComputeRoleDiff(claim RankClaim) RoleDiff {
	var diff RoleDiff
	if !claim.OldRank.IsNone() {
		diff.Remove = append(diff.Remove, string(claim.OldRank))
		if claim.OldTier != TierNone {
			diff.Remove = append(diff.Remove, string(claim.OldTier))
		}
	}
	if !claim.NewRank.IsNone() {
		diff.Add = append(diff.Add, string(claim.NewRank))
		if claim.NewTier != TierNone {
			diff.Add = append(diff.Add, string(claim.NewTier))
		}
	}
	return diff
}

// RankTransition is the accepted result of a rank claim
type RankTransition struct {
	UserID   int64
	Previous *RankState
	Current  *RankState
	Diff     RoleDiff
	// RoleSyncErr is set when the state was stored but the role store failed to apply the diff
	RoleSyncErr error
}
