// Package insight renders short shareable lines about a scored profile from
// a fixed set of templates.
package insight

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/OwenCoonahan/ego-index/analyzer"
	"github.com/OwenCoonahan/ego-index/profile"
)

// Category selects a family of templates.
type Category string

const (
	// Praise highlights high-value accounts.
	Praise Category = "praise"
	// Data states the numbers plainly.
	Data Category = "data"
	// Engagement pokes at the audience to try it themselves.
	Engagement Category = "engagement"
)

// Templates use {placeholder} markers filled by Render. Unknown markers are
// left in place so a typo is visible rather than silently dropped.
var templates = map[Category][]string{
	Praise: {
		"{emoji} @{username} is a {tier} with a signal-to-ego ratio of {ratio}. The timeline thanks you.",
		"@{username} posts more value than ego ({value} vs {ego}). Rare breed. {emoji}",
		"Certified {tier}: @{username} scores {overall}/100 on the ego index. {emoji}",
	},
	Data: {
		"@{username} ego index: {overall}/100. Ego {ego}, value {value}, noise {noise}. Tier: {tier} {emoji}",
		"Analyzed {tweets} tweets from @{username}: {overall}/100 overall, signal-to-ego {ratio}.",
		"The numbers on @{username}: ego {ego}, value {value}, tier {tier} {emoji}.",
	},
	Engagement: {
		"@{username} scored {overall}/100 on the ego index ({tier} {emoji}). How egotistical is YOUR timeline?",
		"Is @{username} a {tier}? The index says {overall}/100. Run your own account and find out.",
		"{emoji} {overall}/100. @{username}, the index has spoken. Who should we analyze next?",
	},
}

// Render fills a category's template for one scored profile. idx selects a
// template within the category (wrapped), so callers can rotate
// deterministically; pass a negative idx for a random pick.
func Render(cat Category, idx int, p profile.Profile, a analyzer.Analysis) string {
	list := templates[cat]
	if len(list) == 0 {
		list = templates[Data]
	}
	if idx < 0 {
		idx = rand.Intn(len(list)) //nolint:gosec // non-cryptographic template choice
	}
	tpl := list[idx%len(list)]

	repl := strings.NewReplacer(
		"{username}", p.Username,
		"{tier}", a.Tier,
		"{emoji}", a.TierEmoji,
		"{overall}", strconv.Itoa(a.OverallScore),
		"{ego}", strconv.Itoa(a.EgoScore),
		"{value}", strconv.Itoa(a.ValueScore),
		"{noise}", strconv.Itoa(a.NoiseScore),
		"{ratio}", strconv.FormatFloat(a.SignalToEgoRatio, 'f', 2, 64),
		"{tweets}", strconv.Itoa(a.TweetsAnalyzed),
	)
	return repl.Replace(tpl)
}

// Summarize produces a one-paragraph insight combining the model summary
// with the headline numbers.
func Summarize(p profile.Profile, a analyzer.Analysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "@%s: %s %s (%d/100).", p.Username, a.Tier, a.TierEmoji, a.OverallScore)
	if a.Summary != "" {
		b.WriteString(" ")
		b.WriteString(a.Summary)
	}
	if a.MostEgotisticalTweet != nil {
		fmt.Fprintf(&b, " Peak ego: %q", a.MostEgotisticalTweet.Text)
	}
	return b.String()
}
