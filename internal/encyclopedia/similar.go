package encyclopedia

import (
	"context"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/bluewriter/bluewriter/internal/storage"
	"github.com/bluewriter/bluewriter/pkg/types"
)

// MinSimilarity is the lowest score Similar reports.
const MinSimilarity = 0.5

// Match is an entry whose name resembles a looked-up name.
type Match struct {
	Entry types.Entry `json:"entry"`
	Score float64     `json:"score"`
}

// similarity is 1 minus the edit distance over the longer name, ignoring case.
func similarity(a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if a == b {
		return 1
	}
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

// Similar returns up to limit entries whose names are close to name, best
// first. It catches near-duplicates such as "Aria" and "Arya" before an
// entry is created. A limit of zero or less means no limit.
func (s *Service) Similar(ctx context.Context, projectID int64, name string, limit int) ([]Match, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, types.Invalid("name cannot be empty")
	}

	conn, err := s.store.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	entries, err := storage.ListEntries(ctx, conn, projectID, "")
	if err != nil {
		return nil, err
	}

	matches := []Match{}
	for _, e := range entries {
		if score := similarity(name, e.Name); score >= MinSimilarity {
			matches = append(matches, Match{Entry: e, Score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}
