package catalog

import "strings"

// NameMaxLength bounds stored champion and queue names.
const NameMaxLength = 40

// Champion is a playable character.
type Champion struct {
	ID   int
	Name string
}

// Queue is a matchmaking queue.
type Queue struct {
	ID   int
	Name string
}

// ChampionSet is a read-only set of known champion ids. A nil set accepts any positive id.
type ChampionSet map[int]struct{}

func NewChampionSet(ids []int) ChampionSet {
	if len(ids) == 0 {
		return nil
	}
	out := make(ChampionSet, len(ids))
	for _, id := range ids {
		if id > 0 {
			out[id] = struct{}{}
		}
	}
	return out
}

func (s ChampionSet) Contains(id int) bool {
	if id <= 0 {
		return false
	}
	if s == nil {
		return true
	}
	_, ok := s[id]
	return ok
}

// TruncateName trims a display name to NameMaxLength runes.
func TruncateName(name string) string {
	name = strings.TrimSpace(name)
	runes := []rune(name)
	if len(runes) <= NameMaxLength {
		return name
	}
	return string(runes[:NameMaxLength])
}
