package ratings

import "testing"

func TestExtractFromSlotText(t *testing.T) {
	body := []byte(`<html><body>
		<rt-text slot="criticsScore">87%</rt-text>
		<rt-text slot="audienceScore">92%</rt-text>
	</body></html>`)
	got := Extract(body)
	if got.Tomatometer != 87 || got.Audience != 92 {
		t.Fatalf("scores = %+v, want 87/92", got)
	}
}

func TestExtractFromScoreBoardAttrs(t *testing.T) {
	body := []byte(`<html><body>
		<score-board tomatometerscore="64" audiencescore="71"></score-board>
	</body></html>`)
	got := Extract(body)
	if got.Tomatometer != 64 || got.Audience != 71 {
		t.Fatalf("scores = %+v, want 64/71", got)
	}
}

func TestExtractFromLabeledText(t *testing.T) {
	body := []byte(`<html><body>
		<div>Tomatometer</div><div>55%</div>
		<div>Audience Score</div><div>48%</div>
	</body></html>`)
	got := Extract(body)
	if got.Tomatometer != 55 || got.Audience != 48 {
		t.Fatalf("scores = %+v, want 55/48", got)
	}
}

func TestExtractFromRelaxedHints(t *testing.T) {
	body := []byte(`<html><body>
		<span data-qa="critic-score-value">79</span>
		<span class="audience-score__number">83</span>
	</body></html>`)
	got := Extract(body)
	if got.Tomatometer != 79 || got.Audience != 83 {
		t.Fatalf("scores = %+v, want 79/83", got)
	}
}

func TestExtractFieldsFallThroughIndependently(t *testing.T) {
	// Critic score only exists in the slot markup, audience only as an
	// attribute of the older element; each field takes its own path.
	body := []byte(`<html><body>
		<rt-text slot="criticsScore">93%</rt-text>
		<score-board audiencescore="88"></score-board>
	</body></html>`)
	got := Extract(body)
	if got.Tomatometer != 93 || got.Audience != 88 {
		t.Fatalf("scores = %+v, want 93/88", got)
	}
}

func TestExtractPartialPageYieldsPartialScores(t *testing.T) {
	body := []byte(`<html><body><rt-text slot="criticsScore">70%</rt-text></body></html>`)
	got := Extract(body)
	if got.Tomatometer != 70 || got.Audience != 0 {
		t.Fatalf("scores = %+v, want 70/0", got)
	}
	if got.Empty() {
		t.Fatal("partial result must not report empty")
	}
}

func TestExtractToleratesGarbage(t *testing.T) {
	for _, body := range [][]byte{
		nil,
		[]byte(""),
		[]byte("not html at all \x00\x01"),
		[]byte("<html><body><p>no scores here</p></body></html>"),
	} {
		if got := Extract(body); !got.Empty() {
			t.Fatalf("Extract(%q) = %+v, want empty", body, got)
		}
	}
}

func TestPercentFromTextClampsRange(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"87%", 87},
		{" 100 ", 100},
		{"0%", 0},
		{"101", 0},
		{"", 0},
		{"n/a", 0},
	}
	for _, tc := range cases {
		if got := percentFromText(tc.in); got != tc.want {
			t.Fatalf("percentFromText(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
