// Package catalog holds the pure ordering rules of the record catalog:
// alphabetical grouping keys for artist names and the partial natural order
// for track positions. Both are plain string functions so they can be unit
// tested without a database.
package catalog

import (
	"sort"
	"strings"

	"github.com/sakif/record-crate/model"
)

// NumericGroup is the bucket for names that don't start with A–Z after
// article stripping (digits, punctuation, non-Latin scripts). It sorts
// before the letter groups.
const NumericGroup = "0-10"

// SortKey returns the name used for ordering and grouping: trimmed, with a
// single leading English article ("The ", "A ", "An ") removed.
// "The Beatles" and "Beatles" land in the same group.
func SortKey(name string) string {
	cleaned := strings.TrimSpace(name)
	lower := strings.ToLower(cleaned)

	for _, article := range []string{"the ", "a ", "an "} {
		if strings.HasPrefix(lower, article) {
			return strings.TrimSpace(cleaned[len(article):])
		}
	}
	return cleaned
}

// GroupLetter returns the alphabetical bucket for a name: the upper-cased
// first character of its sort key, or NumericGroup when that character is
// not A–Z.
func GroupLetter(name string) string {
	key := SortKey(name)
	if key == "" {
		return NumericGroup
	}
	c := key[0]
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	if c < 'A' || c > 'Z' {
		return NumericGroup
	}
	return string(c)
}

// GroupArtists buckets artists alphabetically. Groups are ordered with
// NumericGroup first, then letters; within a group artists are ordered by
// sort key (case-insensitive).
func GroupArtists(artists []model.Artist) []model.ArtistGroup {
	buckets := make(map[string][]model.Artist)
	for _, a := range artists {
		letter := GroupLetter(a.Name)
		buckets[letter] = append(buckets[letter], a)
	}

	letters := make([]string, 0, len(buckets))
	for letter := range buckets {
		letters = append(letters, letter)
	}
	sort.Slice(letters, func(i, j int) bool {
		if letters[i] == NumericGroup {
			return true
		}
		if letters[j] == NumericGroup {
			return false
		}
		return letters[i] < letters[j]
	})

	groups := make([]model.ArtistGroup, 0, len(letters))
	for _, letter := range letters {
		members := buckets[letter]
		sort.Slice(members, func(i, j int) bool {
			return strings.ToLower(SortKey(members[i].Name)) < strings.ToLower(SortKey(members[j].Name))
		})
		groups = append(groups, model.ArtistGroup{Letter: letter, Artists: members})
	}
	return groups
}
