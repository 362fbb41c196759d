package application

import (
	"regexp"
	"strconv"

	"wagerbot/models"
)

// rankLogPattern matches "<@id> OLD [tier] to NEW [tier]" at the start of a message
var rankLogPattern = regexp.MustCompile(
	`(?i)^\s*<@!?(\d+)>\s+(N/A|R10|R[1-9])(?:\s+(low|mid|high))?\s+to\s+(N/A|R10|R[1-9])(?:\s+(low|mid|high))?\b`,
)

// parseRankLog extracts a rank claim from a rank-log message.
// The second return value is false when the message is not a rank log entry.
func parseRankLog(content string) (models.RankClaim, bool) {
	m := rankLogPattern.FindStringSubmatch(content)
	if m == nil {
		return models.RankClaim{}, false
	}

	userID, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || userID == 0 {
		return models.RankClaim{}, false
	}

	oldRank, err := models.ParseRank(m[2])
	if err != nil {
		return models.RankClaim{}, false
	}
	newRank, err := models.ParseRank(m[4])
	if err != nil {
		return models.RankClaim{}, false
	}
	oldTier, err := models.ParseTier(m[3])
	if err != nil {
		return models.RankClaim{}, false
	}
	newTier, err := models.ParseTier(m[5])
	if err != nil {
		return models.RankClaim{}, false
	}

	claim := models.RankClaim{
		UserID:  userID,
		OldRank: oldRank,
		OldTier: oldTier,
		NewRank: newRank,
		NewTier: newTier,
	}
	return claim.Normalize(), true
}
