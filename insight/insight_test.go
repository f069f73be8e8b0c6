package insight

import (
	"strings"
	"testing"

	"github.com/OwenCoonahan/ego-index/analyzer"
	"github.com/OwenCoonahan/ego-index/profile"
)

var (
	testProfile  = profile.Profile{Username: "alice"}
	testAnalysis = analyzer.Analysis{
		EgoScore:         70,
		ValueScore:       25,
		NoiseScore:       30,
		OverallScore:     65,
		SignalToEgoRatio: 0.25,
		Tier:             "Self-Promoter",
		TierEmoji:        "📢",
		TweetsAnalyzed:   42,
	}
)

func TestRenderFillsPlaceholders(t *testing.T) {
	got := Render(Data, 0, testProfile, testAnalysis)

	for _, want := range []string{"@alice", "65/100", "Self-Promoter", "📢"} {
		if !strings.Contains(got, want) {
			t.Errorf("Render output %q missing %q", got, want)
		}
	}
	if strings.Contains(got, "{") {
		t.Errorf("Render output %q has an unfilled placeholder", got)
	}
}

func TestRenderWrapsIndex(t *testing.T) {
	n := len(templates[Praise])
	if Render(Praise, 0, testProfile, testAnalysis) != Render(Praise, n, testProfile, testAnalysis) {
		t.Error("index should wrap around the template list")
	}
}

func TestRenderAllTemplatesFill(t *testing.T) {
	for cat, list := range templates {
		for i := range list {
			got := Render(cat, i, testProfile, testAnalysis)
			if strings.Contains(got, "{") {
				t.Errorf("%s[%d] output %q has an unfilled placeholder", cat, i, got)
			}
		}
	}
}

func TestRenderUnknownCategory(t *testing.T) {
	got := Render(Category("bogus"), 0, testProfile, testAnalysis)
	if got == "" {
		t.Error("unknown category should fall back to data templates")
	}
}

func TestSummarize(t *testing.T) {
	a := testAnalysis
	a.Summary = "Posts mostly about themselves."
	a.MostEgotisticalTweet = &analyzer.TweetHighlight{ID: "1", Text: "I did it again", Score: 70}

	got := Summarize(testProfile, a)
	for _, want := range []string{"@alice", "Self-Promoter", "Posts mostly about themselves.", `"I did it again"`} {
		if !strings.Contains(got, want) {
			t.Errorf("Summarize output %q missing %q", got, want)
		}
	}
}
