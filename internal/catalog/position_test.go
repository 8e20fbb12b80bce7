package catalog

import (
	"testing"

	"github.com/sakif/record-crate/model"
)

func TestPositionKey(t *testing.T) {
	tests := []struct {
		position string
		want     string
	}{
		{"A1", "A1"},
		{"B12", "B12"},
		{"10", "Z10"},
		{"Side A", "ZSide A"},
		{"a1", "Za1"},   // lowercase side letter does not qualify
		{"A", "ZA"},     // letter with no digits does not qualify
		{"A1B", "ZA1B"}, // trailing non-digit does not qualify
		{"", "Z"},
	}

	for _, tt := range tests {
		if got := PositionKey(tt.position); got != tt.want {
			t.Errorf("PositionKey(%q) = %q, want %q", tt.position, got, tt.want)
		}
	}
}

func TestSortTracks(t *testing.T) {
	tracks := []model.Track{
		{Title: "t1", Position: "B2"},
		{Title: "t2", Position: "A1"},
		{Title: "t3", Position: "10"},
		{Title: "t4", Position: "A10"},
	}

	SortTracks(tracks)

	want := []string{"A1", "A10", "B2", "10"}
	for i, w := range want {
		if tracks[i].Position != w {
			t.Errorf("position %d = %q, want %q", i, tracks[i].Position, w)
		}
	}
}

func TestSortTracks_StableForEqualKeys(t *testing.T) {
	tracks := []model.Track{
		{Title: "first", Position: ""},
		{Title: "second", Position: ""},
	}

	SortTracks(tracks)

	if tracks[0].Title != "first" || tracks[1].Title != "second" {
		t.Error("tracks with equal position keys should keep insertion order")
	}
}
