package trailers

import "testing"

func TestRankPrefersOfficialTrailer(t *testing.T) {
	results := []Result{
		{VideoID: "aaaaaaaaaa1", Title: "Heat Reaction - First Time Watching", Position: 0},
		{VideoID: "aaaaaaaaaa2", Title: "Heat (1995) Official Trailer", Position: 1, Duration: "2 minutes, 31 seconds"},
		{VideoID: "aaaaaaaaaa3", Title: "Heat fan made concept teaser", Position: 2},
	}
	best, ok := Rank(results, "Heat", DefaultScoringRules(), 5)
	if !ok {
		t.Fatal("expected a winner")
	}
	if best.VideoID != "aaaaaaaaaa2" {
		t.Fatalf("winner = %+v, want the official trailer", best)
	}
}

func TestRankPenalizesShortClips(t *testing.T) {
	results := []Result{
		{VideoID: "aaaaaaaaaa1", Title: "Dune Official Trailer", Position: 0, Duration: "15 seconds"},
		{VideoID: "aaaaaaaaaa2", Title: "Dune Official Trailer", Position: 1, Duration: "2 minutes, 10 seconds"},
	}
	best, ok := Rank(results, "Dune", DefaultScoringRules(), 5)
	if !ok {
		t.Fatal("expected a winner")
	}
	if best.VideoID != "aaaaaaaaaa2" {
		t.Fatalf("winner = %+v, want the full-length upload", best)
	}
}

func TestRankPenalizesReuploadCounters(t *testing.T) {
	results := []Result{
		{VideoID: "aaaaaaaaaa1", Title: "Alien Official Trailer (2)", Position: 0},
		{VideoID: "aaaaaaaaaa2", Title: "Alien Official Trailer", Position: 1},
	}
	best, ok := Rank(results, "Alien", DefaultScoringRules(), 5)
	if !ok {
		t.Fatal("expected a winner")
	}
	if best.VideoID != "aaaaaaaaaa2" {
		t.Fatalf("winner = %+v, want the unnumbered upload", best)
	}
}

func TestRankRejectsBelowThreshold(t *testing.T) {
	results := []Result{
		{VideoID: "aaaaaaaaaa1", Title: "cat video compilation reaction review", Position: 0},
	}
	if best, ok := Rank(results, "Heat", DefaultScoringRules(), 5); ok {
		t.Fatalf("winner = %+v, want rejection below threshold", best)
	}
}

func TestRankKeepsSearchOrderOnTies(t *testing.T) {
	results := []Result{
		{VideoID: "aaaaaaaaaa1", Title: "Heat Official Trailer", Position: 0},
		{VideoID: "aaaaaaaaaa2", Title: "Heat Official Trailer", Position: 0},
	}
	best, ok := Rank(results, "Heat", DefaultScoringRules(), 5)
	if !ok {
		t.Fatal("expected a winner")
	}
	if best.VideoID != "aaaaaaaaaa1" {
		t.Fatalf("winner = %+v, want the earlier hit on a tie", best)
	}
}

func TestRankEmptyInput(t *testing.T) {
	if _, ok := Rank(nil, "Heat", DefaultScoringRules(), 5); ok {
		t.Fatal("no results must not produce a winner")
	}
}

func TestScoreComponents(t *testing.T) {
	rules := DefaultScoringRules()
	cases := []struct {
		name   string
		result Result
		title  string
		want   float64
	}{
		{
			name:   "official trailer with title match",
			result: Result{Title: "Heat Official Trailer", Position: 0},
			title:  "Heat",
			// title match 15, official 10, title-as-keyword 10, trailer 8,
			// official-as-trailer-keyword 8, position 15, exact phrase 20
			want: 86,
		},
		{
			name:   "reaction video",
			result: Result{Title: "Heat Reaction", Position: 0},
			title:  "Heat",
			// title match 15, title-as-keyword 10, reaction -25, position 15
			want: 15,
		},
		{
			name:   "unrelated",
			result: Result{Title: "unboxing video", Position: 14},
			title:  "Heat",
			want:   1, // position bonus only
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := rules.Score(tc.result, tc.title); got != tc.want {
				t.Fatalf("Score = %v, want %v", got, tc.want)
			}
		})
	}
}
