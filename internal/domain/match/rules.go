package match

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/riskibarqy/statikk-crawler/internal/domain/ladder"
	"github.com/riskibarqy/statikk-crawler/internal/domain/summoner"
)

const (
	MaxBansPerTeam  = 5
	RiotIDMaxLength = 40
	BotPuuid        = "BOT"
)

var roleByPosition = map[string]Role{
	"TOP":     RoleTop,
	"JUNGLE":  RoleJungle,
	"MIDDLE":  RoleMid,
	"BOTTOM":  RoleBottom,
	"UTILITY": RoleSupport,
}

// ClassifyRole maps an upstream position label to a Role.
func ClassifyRole(position string) Role {
	if role, ok := roleByPosition[strings.ToUpper(strings.TrimSpace(position))]; ok {
		return role
	}
	return RoleNone
}

// PatchVersion reduces a game version like "14.3.561.5678" to "14.3".
func PatchVersion(gameVersion string) (string, bool) {
	parts := strings.Split(strings.TrimSpace(gameVersion), ".")
	if len(parts) < 2 {
		return "", false
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil || major < 0 {
		return "", false
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil || minor < 0 {
		return "", false
	}
	return strconv.Itoa(major) + "." + strconv.Itoa(minor), true
}

// NormalizeRiotID joins name and tag, trims whitespace and truncates to RiotIDMaxLength runes.
func NormalizeRiotID(gameName, tagLine string) string {
	gameName = strings.TrimSpace(gameName)
	tagLine = strings.TrimSpace(tagLine)
	value := gameName
	if tagLine != "" {
		value = gameName + "#" + tagLine
	}
	value = strings.TrimSpace(value)

	runes := []rune(value)
	if len(runes) > RiotIDMaxLength {
		return strings.TrimSpace(string(runes[:RiotIDMaxLength]))
	}
	return value
}

// IsBot reports whether a participant identity is a bot placeholder.
func IsBot(puuid string) bool {
	puuid = strings.TrimSpace(puuid)
	return puuid == "" || strings.EqualFold(puuid, BotPuuid)
}

// ParseGameID extracts the numeric game id from "NA1_4912345678".
func ParseGameID(matchID string) (int64, error) {
	idx := strings.LastIndexByte(matchID, '_')
	if idx < 0 || idx == len(matchID)-1 {
		return 0, fmt.Errorf("invalid match id %q", matchID)
	}
	gameID, err := strconv.ParseInt(matchID[idx+1:], 10, 64)
	if err != nil || gameID <= 0 {
		return 0, fmt.Errorf("invalid game id in match id %q", matchID)
	}
	return gameID, nil
}

func FormatMatchID(region ladder.Region, gameID int64) string {
	return strings.ToUpper(string(region)) + "_" + strconv.FormatInt(gameID, 10)
}

// AverageRank is the rounded mean of the given participant ranks. Tier,
// division and league points are averaged independently and rounded half up.
// ok is false when no rank is usable.
func AverageRank(ranks []summoner.Rank) (ladder.Tier, ladder.Division, int, bool) {
	var tierSum, divisionSum, lpSum, n int
	for _, r := range ranks {
		if r.Tier.Order() == 0 || r.Division.Order() == 0 {
			continue
		}
		tierSum += r.Tier.Order()
		divisionSum += r.Division.Order()
		lpSum += max(r.LeaguePoints, 0)
		n++
	}
	if n == 0 {
		return ladder.TierNone, ladder.DivisionNone, 0, false
	}

	tier := ladder.TierFromOrder(roundHalfUp(tierSum, n))
	division := ladder.DivisionFromOrder(roundHalfUp(divisionSum, n))
	if tier.IsApex() {
		division = ladder.DivisionI
	}
	return tier, division, roundHalfUp(lpSum, n), true
}

// roundHalfUp divides non-negative sum by n rounding .5 upward.
func roundHalfUp(sum, n int) int {
	return (2*sum + n) / (2 * n)
}
