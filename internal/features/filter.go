package features

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/dotcommander/huddle/internal/models"
)

// Match kinds returned by FilterConversations.
const (
	MatchChannel = "channel"
	MatchMember  = "member"
)

// Match is one channel or member whose name matched a filter.
type Match struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
	Name string `json:"name"`
	// Indexes are the byte offsets in Name that matched.
	Indexes []int `json:"indexes,omitempty"`
	Score   int   `json:"score"`
}

type candidates []Match

func (c candidates) String(i int) string { return c[i].Name }
func (c candidates) Len() int            { return len(c) }

// FilterConversations fuzzy-matches pattern against channel and member names,
// best match first. An empty pattern returns every candidate in input order.
func FilterConversations(channels []*models.Channel, members []*models.MemberWithUser, pattern string) []Match {
	all := make(candidates, 0, len(channels)+len(members))
	for _, c := range channels {
		all = append(all, Match{Kind: MatchChannel, ID: c.ID, Name: c.Name})
	}
	for _, m := range members {
		all = append(all, Match{Kind: MatchMember, ID: m.ID, Name: m.User.Name})
	}

	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return all
	}

	found := fuzzy.FindFrom(pattern, all)
	out := make([]Match, 0, len(found))
	for _, f := range found {
		m := all[f.Index]
		m.Indexes = f.MatchedIndexes
		m.Score = f.Score
		out = append(out, m)
	}
	return out
}
