package analyzer

import (
	"fmt"
	"strings"

	"github.com/OwenCoonahan/ego-index/profile"
)

const analysisPrompt = `You are a sharp, funny social media analyst. You score Twitter/X accounts on how egotistical their posting is versus how much value they provide to readers.

Score each dimension 0-100:
- egoScore: how self-centered the posting is (flexing, main-character energy, humble brags)
- valueScore: how much genuinely useful content the account shares (insights, resources, teaching)
- overallScore: overall ego level combining all signals (higher = more egotistical)
- noiseScore: low-effort filler, engagement bait, reply-guy energy
- engagementQualityScore: does engagement come from substance or from provocation
- authenticityScore: does the account feel like a real person or a personal brand machine
- mainCharacterScore: how much the account treats every event as being about them
- humbleBragScore: disguised flexing frequency
- selfPromotionScore: direct promotion of their own products, courses, newsletters

Also return:
- industry: one short label for what space the account is in (e.g. "tech", "finance", "fitness", "crypto", "media")
- summary: 2-3 witty sentences roasting or praising the account, addressed to a general audience
- mostEgotisticalTweetId: the index (0-based) of the most egotistical tweet in the list
- leastEgotisticalTweetId: the index (0-based) of the least egotistical tweet in the list

Respond with a single JSON object using exactly those field names. No markdown, no commentary.`

// buildPrompt renders the profile and tweet list for the scoring request.
// Tweets are numbered so the model can reference them by index. The scoring
// instructions travel separately (system message for OpenAI, prepended for
// Gemini).
func buildPrompt(p profile.Profile, tweets []profile.Tweet) string {
	var b strings.Builder

	b.WriteString("Profile:\n")
	fmt.Fprintf(&b, "Username: @%s\n", p.Username)
	fmt.Fprintf(&b, "Display name: %s\n", p.DisplayName)
	if p.Bio != "" {
		fmt.Fprintf(&b, "Bio: %s\n", p.Bio)
	}
	fmt.Fprintf(&b, "Followers: %d, Following: %d, Total tweets: %d\n", p.FollowersCount, p.FollowingCount, p.TweetCount)

	b.WriteString("\nRecent original tweets:\n")
	for i, t := range tweets {
		fmt.Fprintf(&b, "[%d] %s", i, t.Text)
		fmt.Fprintf(&b, " (likes: %d, retweets: %d, replies: %d)\n", t.LikeCount, t.RetweetCount, t.ReplyCount)
	}

	return b.String()
}
