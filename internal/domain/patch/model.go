package patch

import (
	"fmt"
	"strings"
	"time"
)

// Patch is a released game version, e.g. "14.3".
type Patch struct {
	ID       int
	Version  string
	StartAt  time.Time
	IsLatest bool
}

func (p Patch) Validate() error {
	if strings.TrimSpace(p.Version) == "" {
		return fmt.Errorf("patch version is required")
	}
	return nil
}

// Lookup is a read-only version to id index, safe for concurrent use.
type Lookup struct {
	byVersion map[string]int
}

func NewLookup(patches []Patch) Lookup {
	byVersion := make(map[string]int, len(patches))
	for _, p := range patches {
		if p.ID <= 0 || p.Version == "" {
			continue
		}
		byVersion[p.Version] = p.ID
	}
	return Lookup{byVersion: byVersion}
}

func (l Lookup) Resolve(version string) (int, bool) {
	id, ok := l.byVersion[strings.TrimSpace(version)]
	return id, ok
}

func (l Lookup) Len() int {
	return len(l.byVersion)
}
