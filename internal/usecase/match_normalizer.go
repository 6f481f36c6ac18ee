package usecase

import (
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/statikk-crawler/internal/domain/catalog"
	"github.com/riskibarqy/statikk-crawler/internal/domain/identity"
	"github.com/riskibarqy/statikk-crawler/internal/domain/ladder"
	"github.com/riskibarqy/statikk-crawler/internal/domain/match"
	"github.com/riskibarqy/statikk-crawler/internal/domain/summoner"
)

// RejectReason explains why a raw match was not normalized. Empty means accepted.
type RejectReason string

const (
	RejectNone               RejectReason = ""
	RejectUnknownPlatform    RejectReason = "unknown_platform"
	RejectInvalidGameID      RejectReason = "invalid_game_id"
	RejectInvalidGameVersion RejectReason = "invalid_game_version"
	RejectNoParticipants     RejectReason = "no_participants"
	RejectInvalidTeam        RejectReason = "invalid_team"
	RejectNoWinner           RejectReason = "no_winner"
	RejectBotParticipant     RejectReason = "bot_participant"
	RejectUnknownChampion    RejectReason = "unknown_champion"
)

const (
	objectiveBaron      = "baron"
	objectiveChampion   = "champion"
	objectiveDragon     = "dragon"
	objectiveHorde      = "horde"
	objectiveInhibitor  = "inhibitor"
	objectiveRiftHerald = "riftHerald"
	objectiveTower      = "tower"
	objectiveAtakhan    = "atakhan"
)

// MatchNormalizer maps raw match bodies into match graphs. It performs no I/O;
// participant identities stay unresolved and the patch is carried by version only.
type MatchNormalizer struct {
	champions catalog.ChampionSet
	routes    ladder.RouteMap
}

// NewMatchNormalizer builds a normalizer. A nil champion set accepts every positive champion id.
func NewMatchNormalizer(champions catalog.ChampionSet, routes ladder.RouteMap) *MatchNormalizer {
	if routes == nil {
		routes = ladder.DefaultRouteMap()
	}
	return &MatchNormalizer{champions: champions, routes: routes}
}

func (n *MatchNormalizer) Normalize(raw ExternalMatch) (match.Match, RejectReason) {
	region := ladder.Region(strings.ToUpper(strings.TrimSpace(raw.PlatformID)))
	if _, ok := n.routes.Route(region); !ok {
		return match.Match{}, RejectUnknownPlatform
	}

	gameID := raw.GameID
	if gameID <= 0 {
		parsed, err := match.ParseGameID(raw.MatchID)
		if err != nil {
			return match.Match{}, RejectInvalidGameID
		}
		gameID = parsed
	}

	version, ok := match.PatchVersion(raw.GameVersion)
	if !ok {
		return match.Match{}, RejectInvalidGameVersion
	}
	if len(raw.Participants) == 0 {
		return match.Match{}, RejectNoParticipants
	}

	teams := make([]match.Team, 0, len(raw.Teams))
	var winner match.TeamSide
	for _, rawTeam := range raw.Teams {
		side := match.TeamSide(rawTeam.TeamID)
		if !side.Valid() {
			return match.Match{}, RejectInvalidTeam
		}
		if rawTeam.Win {
			winner = side
		}
		teams = append(teams, normalizeTeam(rawTeam))
	}
	if winner == 0 {
		return match.Match{}, RejectNoWinner
	}

	playedAt := raw.GameStart
	if playedAt.IsZero() {
		playedAt = raw.GameCreation
	}
	playedAt = playedAt.UTC()

	participants := make([]match.Participant, 0, len(raw.Participants))
	for _, rawParticipant := range raw.Participants {
		if match.IsBot(rawParticipant.Puuid) {
			return match.Match{}, RejectBotParticipant
		}
		side := match.TeamSide(rawParticipant.TeamID)
		if !side.Valid() {
			return match.Match{}, RejectInvalidTeam
		}
		if rawParticipant.ChampionID <= 0 || !n.champions.Contains(rawParticipant.ChampionID) {
			return match.Match{}, RejectUnknownChampion
		}
		participants = append(participants, normalizeParticipant(region, playedAt, rawParticipant))
	}

	first := raw.Participants[0]
	return match.Match{
		Region:                region,
		GameID:                gameID,
		QueueID:               raw.QueueID,
		PatchVersion:          version,
		PlayedAt:              playedAt,
		Duration:              time.Duration(raw.DurationSeconds) * time.Second,
		WinningTeam:           winner,
		Tier:                  ladder.TierNone,
		Division:              ladder.DivisionNone,
		EndedInSurrender:      first.GameEndedInSurrender,
		EndedInEarlySurrender: first.GameEndedInEarlySurrender,
		Teams:                 teams,
		Participants:          participants,
	}, RejectNone
}

func normalizeTeam(raw ExternalMatchTeam) match.Team {
	bans := make([]match.Ban, 0, len(raw.Bans))
	for _, ban := range raw.Bans {
		if ban.ChampionID <= 0 {
			continue
		}
		bans = append(bans, match.Ban{PickTurn: ban.PickTurn, ChampionID: ban.ChampionID})
	}
	sort.SliceStable(bans, func(i, j int) bool { return bans[i].PickTurn < bans[j].PickTurn })
	if len(bans) > match.MaxBansPerTeam {
		bans = bans[:match.MaxBansPerTeam]
	}

	objective := func(key string) ExternalObjective {
		return raw.Objectives[key]
	}
	return match.Team{
		Side:       match.TeamSide(raw.TeamID),
		Win:        raw.Win,
		FirstBlood: objective(objectiveChampion).First,
		FirstTower: objective(objectiveTower).First,
		Objectives: match.Objectives{
			Baron:      objective(objectiveBaron).Kills,
			Champion:   objective(objectiveChampion).Kills,
			Dragon:     objective(objectiveDragon).Kills,
			Horde:      objective(objectiveHorde).Kills,
			Inhibitor:  objective(objectiveInhibitor).Kills,
			RiftHerald: objective(objectiveRiftHerald).Kills,
			Tower:      objective(objectiveTower).Kills,
			Atakhan:    objective(objectiveAtakhan).Kills,
		},
		Bans: bans,
	}
}

func normalizeParticipant(region ladder.Region, playedAt time.Time, raw ExternalParticipant) match.Participant {
	var kda, killParticipation float64
	if raw.Challenges != nil {
		kda = raw.Challenges.KDA
		killParticipation = raw.Challenges.KillParticipation
	}

	return match.Participant{
		Side: match.TeamSide(raw.TeamID),
		Summoner: summoner.Summoner{
			Puuid:         strings.TrimSpace(raw.Puuid),
			Region:        region,
			SummonerID:    strings.TrimSpace(raw.SummonerID),
			RiotID:        match.NormalizeRiotID(raw.RiotIDGameName, raw.RiotIDTagline),
			ProfileIconID: raw.ProfileIcon,
			SummonerLevel: raw.SummonerLevel,
			LastUpdated:   playedAt,
		},
		SummonerRef: identity.Unresolved(),
		ChampionID:  raw.ChampionID,
		ChampLevel:  raw.ChampLevel,
		Role:        match.ClassifyRole(raw.TeamPosition),
		Win:         raw.Win,
		Runes:       normalizeRunes(raw.Perks),
		Spells:      normalizeSpells(raw),
		Items:       normalizeItems(raw.Items),
		Stats: match.Stats{
			Kills:               raw.Kills,
			Deaths:              raw.Deaths,
			Assists:             raw.Assists,
			LargestMultiKill:    raw.LargestMultiKill,
			DoubleKills:         raw.DoubleKills,
			TripleKills:         raw.TripleKills,
			QuadraKills:         raw.QuadraKills,
			PentaKills:          raw.PentaKills,
			CreepScore:          raw.TotalMinionsKilled + raw.NeutralMinionsKilled,
			GoldEarned:          raw.GoldEarned,
			DamageDealt:         raw.TotalDamageToChamps,
			DamageTaken:         raw.TotalDamageTaken,
			PhysicalDamageDealt: raw.PhysicalDamageToChamps,
			MagicDamageDealt:    raw.MagicDamageToChamps,
			TrueDamageDealt:     raw.TrueDamageToChamps,
			PhysicalDamageTaken: raw.PhysicalDamageTaken,
			MagicDamageTaken:    raw.MagicDamageTaken,
			TrueDamageTaken:     raw.TrueDamageTaken,
			Healing:             raw.TotalHeal,
			WardsPlaced:         raw.WardsPlaced,
			WardsKilled:         raw.WardsKilled,
			VisionScore:         raw.VisionScore,
			Pings:               raw.Pings,
			KDA:                 kda,
			KillParticipation:   killParticipation,
		},
	}
}

func normalizeRunes(raw ExternalPerks) match.RunePage {
	page := match.RunePage{
		StatOffense: raw.Offense,
		StatFlex:    raw.Flex,
		StatDefense: raw.Defense,
		Perks:       []int{},
	}
	for i, style := range raw.Styles {
		switch i {
		case 0:
			page.PrimaryStyle = style.Style
			if len(style.Selections) > 0 {
				page.Keystone = style.Selections[0]
			}
		case 1:
			page.SecondaryStyle = style.Style
		}
		for _, perk := range style.Selections {
			if perk > 0 {
				page.Perks = append(page.Perks, perk)
			}
		}
	}
	return page
}

func normalizeSpells(raw ExternalParticipant) []match.Spell {
	spells := make([]match.Spell, 0, 2)
	if raw.Summoner1ID > 0 {
		spells = append(spells, match.Spell{SortOrder: 1, SpellID: raw.Summoner1ID, Casts: raw.Summoner1Casts})
	}
	if raw.Summoner2ID > 0 {
		spells = append(spells, match.Spell{SortOrder: 2, SpellID: raw.Summoner2ID, Casts: raw.Summoner2Casts})
	}
	return spells
}

func normalizeItems(raw [7]int) []match.Item {
	items := make([]match.Item, 0, len(raw))
	for slot, itemID := range raw {
		if itemID <= 0 {
			continue
		}
		items = append(items, match.Item{Slot: slot, ItemID: itemID})
	}
	return items
}
