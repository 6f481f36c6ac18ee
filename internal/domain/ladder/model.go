package ladder

import (
	"fmt"
	"strings"
)

// Region is a platform routing value such as NA1 or EUW1.
type Region string

// Route is the regional routing domain used by match endpoints.
type Route string

const (
	RouteAmericas Route = "AMERICAS"
	RouteAsia     Route = "ASIA"
	RouteEurope   Route = "EUROPE"
	RouteSEA      Route = "SEA"
)

const (
	QueueRankedSolo   = "RANKED_SOLO_5x5"
	QueueIDRankedSolo = 420
)

// Tier is a ranked skill bracket.
type Tier string

const (
	TierNone        Tier = "NONE"
	TierIron        Tier = "IRON"
	TierBronze      Tier = "BRONZE"
	TierSilver      Tier = "SILVER"
	TierGold        Tier = "GOLD"
	TierPlatinum    Tier = "PLATINUM"
	TierEmerald     Tier = "EMERALD"
	TierDiamond     Tier = "DIAMOND"
	TierMaster      Tier = "MASTER"
	TierGrandmaster Tier = "GRANDMASTER"
	TierChallenger  Tier = "CHALLENGER"
)

// Tiers lists every ranked tier from highest to lowest.
var Tiers = []Tier{
	TierChallenger,
	TierGrandmaster,
	TierMaster,
	TierDiamond,
	TierEmerald,
	TierPlatinum,
	TierGold,
	TierSilver,
	TierBronze,
	TierIron,
}

var tierOrder = map[Tier]int{
	TierIron:        1,
	TierBronze:      2,
	TierSilver:      3,
	TierGold:        4,
	TierPlatinum:    5,
	TierEmerald:     6,
	TierDiamond:     7,
	TierMaster:      8,
	TierGrandmaster: 9,
	TierChallenger:  10,
}

// Order returns 1 for IRON up to 10 for CHALLENGER, 0 when unranked.
func (t Tier) Order() int {
	return tierOrder[t]
}

// IsApex reports whether the tier only has division I upstream.
func (t Tier) IsApex() bool {
	return t == TierMaster || t == TierGrandmaster || t == TierChallenger
}

func TierFromOrder(order int) Tier {
	for tier, o := range tierOrder {
		if o == order {
			return tier
		}
	}
	return TierNone
}

func ParseTier(raw string) (Tier, error) {
	tier := Tier(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := tierOrder[tier]; !ok {
		return TierNone, fmt.Errorf("invalid tier %q", raw)
	}
	return tier, nil
}

// Division is the sub-rank inside a tier.
type Division string

const (
	DivisionNone Division = "NONE"
	DivisionI    Division = "I"
	DivisionII   Division = "II"
	DivisionIII  Division = "III"
	DivisionIV   Division = "IV"
)

var Divisions = []Division{DivisionI, DivisionII, DivisionIII, DivisionIV}

var divisionOrder = map[Division]int{
	DivisionI:   1,
	DivisionII:  2,
	DivisionIII: 3,
	DivisionIV:  4,
}

// Order returns 1 for I up to 4 for IV, 0 when unranked.
func (d Division) Order() int {
	return divisionOrder[d]
}

func DivisionFromOrder(order int) Division {
	for division, o := range divisionOrder {
		if o == order {
			return division
		}
	}
	return DivisionNone
}

func ParseDivision(raw string) (Division, error) {
	division := Division(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := divisionOrder[division]; !ok {
		return DivisionNone, fmt.Errorf("invalid division %q", raw)
	}
	return division, nil
}

// Pair is one (tier, division) bracket of a ladder.
type Pair struct {
	Tier     Tier
	Division Division
}

func (p Pair) String() string {
	return string(p.Tier) + " " + string(p.Division)
}

// Exists reports whether the upstream ladder has this bracket at all.
func (p Pair) Exists() bool {
	if p.Tier.Order() == 0 || p.Division.Order() == 0 {
		return false
	}
	return !p.Tier.IsApex() || p.Division == DivisionI
}

// Pairs expands tiers x divisions, dropping brackets that do not exist.
func Pairs(tiers []Tier, divisions []Division) []Pair {
	out := make([]Pair, 0, len(tiers)*len(divisions))
	for _, tier := range tiers {
		for _, division := range divisions {
			pair := Pair{Tier: tier, Division: division}
			if !pair.Exists() {
				continue
			}
			out = append(out, pair)
		}
	}
	return out
}

// PlayerEntry is one ranked player row from a ladder page.
type PlayerEntry struct {
	Puuid        string
	SummonerID   string
	Tier         Tier
	Division     Division
	LeaguePoints int
	Wins         int
	Losses       int
}

// PlayerBatch is one non-empty ladder page.
type PlayerBatch struct {
	Region  Region
	Pair    Pair
	Page    int
	Players []PlayerEntry
}

// RouteMap resolves a platform region to its routing domain.
type RouteMap map[Region]Route

func DefaultRouteMap() RouteMap {
	return RouteMap{
		"NA1":  RouteAmericas,
		"BR1":  RouteAmericas,
		"LA1":  RouteAmericas,
		"LA2":  RouteAmericas,
		"KR":   RouteAsia,
		"JP1":  RouteAsia,
		"EUW1": RouteEurope,
		"EUN1": RouteEurope,
		"TR1":  RouteEurope,
		"RU":   RouteEurope,
		"ME1":  RouteEurope,
		"OC1":  RouteSEA,
		"SG2":  RouteSEA,
		"TW2":  RouteSEA,
		"VN2":  RouteSEA,
	}
}

func (m RouteMap) Route(region Region) (Route, bool) {
	route, ok := m[Region(strings.ToUpper(string(region)))]
	return route, ok
}
