package service

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/njume/signbook/internal/database/repository"
)

// Filters narrows the roster view. Zero values mean "no filter"; set filters
// are ANDed together.
type Filters struct {
	Search string           // case-insensitive substring on name or phone
	Track  repository.Track // exact match
	Level  repository.Level // exact match
}

func (f Filters) Empty() bool {
	return strings.TrimSpace(f.Search) == "" && f.Track == "" && f.Level == ""
}

// FilterRoster returns the registrations matching f, preserving order.
func FilterRoster(regs []repository.Registration, f Filters) []repository.Registration {
	if f.Empty() {
		return regs
	}
	out := make([]repository.Registration, 0, len(regs))
	for _, reg := range regs {
		if matches(reg, f) {
			out = append(out, reg)
		}
	}
	return out
}

func matches(reg repository.Registration, f Filters) bool {
	if f.Track != "" && reg.Track != f.Track {
		return false
	}
	if f.Level != "" && reg.Level != f.Level {
		return false
	}
	search := strings.ToLower(strings.TrimSpace(f.Search))
	if search == "" {
		return true
	}
	if strings.Contains(strings.ToLower(reg.FullName), search) {
		return true
	}
	return strings.Contains(reg.Phone, NormalizePhone(search))
}

const suggestMaxDistance = 2

// SuggestTrack proposes the nearest valid track code for a mistyped one.
// Used for "did you mean" hints only; it never widens a filter.
func SuggestTrack(code string) (repository.Track, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	if repository.Track(code).Valid() {
		return repository.Track(code), true
	}
	best, bestDist := repository.Track(""), suggestMaxDistance+1
	for _, t := range repository.Tracks {
		if d := levenshtein.ComputeDistance(code, string(t)); d < bestDist {
			best, bestDist = t, d
		}
	}
	return best, best != ""
}

// SuggestLevel proposes the nearest valid level code for a mistyped one.
func SuggestLevel(code string) (repository.Level, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	if repository.Level(code).Valid() {
		return repository.Level(code), true
	}
	best, bestDist := repository.Level(""), suggestMaxDistance+1
	for _, l := range repository.Levels {
		if d := levenshtein.ComputeDistance(code, string(l)); d < bestDist {
			best, bestDist = l, d
		}
	}
	return best, best != ""
}
