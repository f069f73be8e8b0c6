package analyzer

import (
	"fmt"

	"github.com/OwenCoonahan/ego-index/profile"
)

// mockAnalysis produces a deterministic record without calling any service.
// Scores are derived from the username so different accounts still look
// different in demos.
func mockAnalysis(p profile.Profile, tweets []profile.Tweet) *Analysis {
	seed := 0
	for _, r := range p.Username {
		seed += int(r)
	}

	ego := 30 + seed%50
	value := 20 + (seed*7)%60
	noise := 10 + (seed*3)%40
	overall := (ego + noise) / 2

	raw := rawAnalysis{
		EgoScore:               ego,
		ValueScore:             value,
		OverallScore:           overall,
		NoiseScore:             noise,
		EngagementQualityScore: 40 + seed%40,
		AuthenticityScore:      50 + seed%30,
		MainCharacterScore:     ego - 10,
		HumbleBragScore:        20 + seed%50,
		SelfPromotionScore:     15 + (seed*11)%60,
		Industry:               "tech",
		Summary:                fmt.Sprintf("@%s posts with conviction and an audience of %d to prove it. Mock analysis; no model was consulted.", p.Username, p.FollowersCount),
	}
	if len(tweets) > 0 {
		raw.MostEgotisticalTweetID = "0"
		raw.LeastEgotisticalTweetID = fmt.Sprintf("%d", len(tweets)-1)
	}

	return finish(raw, tweets)
}
