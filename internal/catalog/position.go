package catalog

import (
	"sort"

	"github.com/sakif/record-crate/model"
)

// PositionKey returns the comparison key for a track position.
//
// Positions shaped like one uppercase letter followed by digits ("A1",
// "B12") compare as themselves; anything else ("7", "Side A", "") gets a
// "Z" prefix so it lands after every side-letter position. Within each of
// the two classes ordering is lexical, which gives
// ["B2","A1","10","A10"] → ["A1","A10","B2","10"].
func PositionKey(position string) string {
	if isSidePosition(position) {
		return position
	}
	return "Z" + position
}

// isSidePosition reports whether s matches one uppercase letter followed by
// one or more digits.
func isSidePosition(s string) bool {
	if len(s) < 2 {
		return false
	}
	if s[0] < 'A' || s[0] > 'Z' {
		return false
	}
	for i := 1; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// SortTracks orders tracks in place by their position keys.
func SortTracks(tracks []model.Track) {
	sort.SliceStable(tracks, func(i, j int) bool {
		return PositionKey(tracks[i].Position) < PositionKey(tracks[j].Position)
	})
}
