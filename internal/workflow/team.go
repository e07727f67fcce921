package workflow

import (
	"slices"
	"strings"

	"github.com/JaimeStill/hackid/pkg/source"
)

// UnauthorizedThreshold is the in-window commit count at which a non-claimed
// author is reported.
const UnauthorizedThreshold = 6

const minFuzzyLength = 4

var nameReplacer = strings.NewReplacer(" ", "", "-", "", "_", "")

// NormalizeName lowercases a person's name and removes spaces, hyphens, and underscores.
func NormalizeName(name string) string {
	return nameReplacer.Replace(strings.ToLower(strings.TrimSpace(name)))
}

// NamesMatch reports whether two names refer to the same person: equal after
// normalization, or one containing the other when both have at least four
// characters. The relation is symmetric.
func NamesMatch(a, b string) bool {
	na, nb := NormalizeName(a), NormalizeName(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}
	if len(na) < minFuzzyLength || len(nb) < minFuzzyLength {
		return false
	}
	return strings.Contains(na, nb) || strings.Contains(nb, na)
}

// MatchTeam partitions claimed members by whether any in-window author
// matches them, and lists non-claimed authors with at least
// UnauthorizedThreshold in-window commits, busiest first.
func MatchTeam(members []string, inWindow []source.Commit) TeamVerdict {
	counts := make(map[string]int)
	var authors []string
	for _, c := range inWindow {
		if c.AuthorName == "" {
			continue
		}
		if counts[c.AuthorName] == 0 {
			authors = append(authors, c.AuthorName)
		}
		counts[c.AuthorName]++
	}

	v := TeamVerdict{
		Matched:      []string{},
		Unmatched:    []string{},
		Unauthorized: []Contributor{},
	}

	for _, m := range members {
		if slices.ContainsFunc(authors, func(a string) bool { return NamesMatch(m, a) }) {
			v.Matched = append(v.Matched, m)
		} else {
			v.Unmatched = append(v.Unmatched, m)
		}
	}

	for _, a := range authors {
		if counts[a] < UnauthorizedThreshold {
			continue
		}
		if slices.ContainsFunc(members, func(m string) bool { return NamesMatch(m, a) }) {
			continue
		}
		v.Unauthorized = append(v.Unauthorized, Contributor{Name: a, Commits: counts[a]})
	}

	slices.SortStableFunc(v.Unauthorized, func(x, y Contributor) int {
		return y.Commits - x.Commits
	})

	return v
}
