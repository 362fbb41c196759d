package common

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"wagerbot/models"
)

// FormatMoney formats an amount in dollars with thousand separators, e.g. $1,234.50
func FormatMoney(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}

	str := amount.StringFixed(models.CurrencyPrecision)
	whole, frac, _ := strings.Cut(str, ".")

	n := len(whole)
	var result strings.Builder
	for i, digit := range whole {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}

	return fmt.Sprintf("%s$%s.%s", sign, result.String(), frac)
}

// FormatMention formats a user mention
func FormatMention(userID int64) string {
	return fmt.Sprintf("<@%d>", userID)
}

// FormatRankState formats a role rank for display, e.g. "R3 Mid" or "N/A"
func FormatRankState(state *models.RankState) string {
	if state == nil || state.Rank.IsNone() {
		return string(models.RankNone)
	}
	if state.Tier == models.TierNone {
		return string(state.Rank)
	}
	tier := string(state.Tier)
	return fmt.Sprintf("%s %s", state.Rank, strings.ToUpper(tier[:1])+tier[1:])
}

// FormatYesNo formats a flag as Yes or No
func FormatYesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}
