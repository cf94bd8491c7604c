// Package render formats messages as human-readable text.
package render

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/dotcommander/huddle/internal/models"
)

// CompactWindow is how close consecutive messages from one author must be to
// render without repeating the author line.
const CompactWindow = 5 * time.Minute

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func isYesterday(t, now time.Time) bool {
	return sameDay(t, now.AddDate(0, 0, -1))
}

// FullTime formats t as "Today at 3:04:05 PM", "Yesterday at ..." or
// "Jan 2, 2006 at ...", relative to now. t is shown in now's location.
func FullTime(t, now time.Time) string {
	t = t.In(now.Location())
	var day string
	switch {
	case sameDay(t, now):
		day = "Today"
	case isYesterday(t, now):
		day = "Yesterday"
	default:
		day = t.Format("Jan 2, 2006")
	}
	return day + " at " + t.Format("3:04:05 PM")
}

// DayLabel is the separator shown above the first message of each day.
func DayLabel(t, now time.Time) string {
	t = t.In(now.Location())
	switch {
	case sameDay(t, now):
		return "Today"
	case isYesterday(t, now):
		return "Yesterday"
	default:
		return t.Format("Monday, January 2")
	}
}

// ThreadBar summarizes replies, or returns "" when there are none.
func ThreadBar(th models.ThreadSummary, now time.Time) string {
	if th.Count == 0 {
		return ""
	}
	s := "1 reply"
	if th.Count > 1 {
		s = fmt.Sprintf("%d replies", th.Count)
	}
	if th.Timestamp != nil {
		s += ", last reply " + humanize.RelTime(*th.Timestamp, now, "ago", "from now")
		if th.Name != "" {
			s += " by " + th.Name
		}
	}
	return s
}

// Reactions renders grouped reactions as "🚀 2  👍 1".
func Reactions(groups []models.ReactionGroup) string {
	parts := make([]string, 0, len(groups))
	for _, g := range groups {
		parts = append(parts, fmt.Sprintf("%s %d", g.Value, g.Count))
	}
	return strings.Join(parts, "  ")
}

// Messages writes msgs oldest first with day separators. msgs may arrive in
// any order, as a page does (newest first).
func Messages(w io.Writer, msgs []*models.MessageView, now time.Time) error {
	ordered := slices.Clone(msgs)
	slices.SortStableFunc(ordered, func(a, b *models.MessageView) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	bw := bufio.NewWriter(w)
	var prev *models.MessageView
	for _, m := range ordered {
		created := m.CreatedAt.In(now.Location())
		newDay := prev == nil || !sameDay(prev.CreatedAt.In(now.Location()), created)
		if newDay {
			if prev != nil {
				fmt.Fprintln(bw)
			}
			fmt.Fprintf(bw, "--- %s ---\n", DayLabel(created, now))
		}

		compact := !newDay && prev.MemberID == m.MemberID && created.Sub(prev.CreatedAt) < CompactWindow
		if compact {
			fmt.Fprintf(bw, "  %s  %s\n", created.Format("03:04"), m.Body)
		} else {
			fmt.Fprintf(bw, "%s  %s\n", authorName(m), created.Format("3:04 PM"))
			fmt.Fprintf(bw, "  %s\n", m.Body)
		}
		if m.Image != "" {
			fmt.Fprintf(bw, "  [image] %s\n", m.Image)
		}
		if m.IsEdited() {
			fmt.Fprintln(bw, "  (edited)")
		}
		if r := Reactions(m.Reactions); r != "" {
			fmt.Fprintf(bw, "  %s\n", r)
		}
		if bar := ThreadBar(m.Thread, now); bar != "" {
			fmt.Fprintf(bw, "  > %s\n", bar)
		}
		prev = m
	}
	return bw.Flush()
}

func authorName(m *models.MessageView) string {
	if m.User.Name != "" {
		return m.User.Name
	}
	return "Member"
}
