package nitter

import (
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/OwenCoonahan/ego-index/count"
	"github.com/OwenCoonahan/ego-index/profile"
)

// extract pulls a normalized profile and tweet list out of a mirror's HTML
// document. It is a pure transform over an already-fetched document: no I/O.
//
// The mirror argument is the origin the document came from, used to resolve
// mirror-relative avatar URLs to absolute ones.
func extract(doc *goquery.Document, mirror, username string, maxTweets int) (*profile.Result, error) {
	// Not-found markers short-circuit before any field extraction so a dead
	// or private account never yields a garbage profile.
	if doc.Find(".error-panel").Length() > 0 || strings.Contains(doc.Find("title").Text(), "not found") {
		return nil, profile.ErrProfileNotFound
	}

	if doc.Find(".profile-card").Length() == 0 {
		return nil, &profile.ParseError{Mirror: mirror, Reason: "no profile card in document"}
	}

	displayName := strings.TrimSpace(doc.Find(".profile-card-fullname").First().Text())
	if displayName == "" {
		displayName = username
	}
	bio := strings.TrimSpace(doc.Find(".profile-bio").First().Text())

	// Mirrors serve the avatar from their own origin with a relative path.
	// The class usually sits on an anchor wrapping the img, but some mirrors
	// put it on the img directly; only the element carrying src is useful.
	avatarURL, ok := doc.Find(".profile-card-avatar img").First().Attr("src")
	if !ok {
		avatarURL, _ = doc.Find(".profile-card-avatar[src]").First().Attr("src")
	}
	if avatarURL != "" && !strings.HasPrefix(avatarURL, "http") {
		avatarURL = mirror + avatarURL
	}

	// Stat order in the markup is following, followers, tweets. Transposing
	// these is the classic regression here; see TestExtractStatOrder.
	var stats []string
	doc.Find(".profile-stat-num").Each(func(_ int, sel *goquery.Selection) {
		stats = append(stats, strings.TrimSpace(sel.Text()))
	})
	var followingCount, followersCount, tweetCount int
	if len(stats) > 0 {
		followingCount = count.Parse(stats[0])
	}
	if len(stats) > 1 {
		followersCount = count.Parse(stats[1])
	}
	if len(stats) > 2 {
		tweetCount = count.Parse(stats[2])
	}

	tweets := extractTimeline(doc, maxTweets)

	return &profile.Result{
		Profile: profile.Profile{
			Username:        username,
			DisplayName:     displayName,
			Bio:             bio,
			ProfileImageURL: avatarURL,
			FollowersCount:  followersCount,
			FollowingCount:  followingCount,
			TweetCount:      tweetCount,
		},
		Tweets: tweets,
	}, nil
}

// extractTimeline walks timeline items in document order, collecting up to
// maxTweets accepted tweets. Placeholder items ("load more") and items without
// a text body are skipped and do not count toward the cap.
func extractTimeline(doc *goquery.Document, maxTweets int) []profile.Tweet {
	if maxTweets <= 0 {
		return nil
	}

	tweets := make([]profile.Tweet, 0, maxTweets)
	synthetic := 0

	doc.Find(".timeline-item").EachWithBreak(func(_ int, item *goquery.Selection) bool {
		if item.HasClass("show-more") || item.Find(".tweet-content").Length() == 0 {
			return true
		}

		text := strings.TrimSpace(item.Find(".tweet-content").First().Text())
		if text == "" {
			return true
		}

		// The stable ID is the permalink's last path segment. When a mirror
		// omits the permalink we synthesize one, unique within this call
		// only, and flag it so nothing downstream keys on it across runs.
		var id string
		syntheticID := false
		if href, ok := item.Find(".tweet-link").First().Attr("href"); ok {
			segment := href[strings.LastIndex(href, "/")+1:]
			id, _, _ = strings.Cut(segment, "#")
		}
		if id == "" {
			synthetic++
			id = "synthetic-" + strconv.Itoa(synthetic)
			syntheticID = true
		}

		isRetweet := item.Find(".retweet-header").Length() > 0 || strings.HasPrefix(text, "RT @")
		isReply := item.Find(".replying-to").Length() > 0

		// Documented approximation: when the mirror omits a timestamp the
		// tweet is dated "now" rather than dropped.
		createdAt, ok := item.Find(".tweet-date a").First().Attr("title")
		if !ok || createdAt == "" {
			createdAt = time.Now().UTC().Format(time.RFC3339)
		}

		// Inline engagement indicators appear as reply, retweet, quote, like.
		// Like coming last mirrors the source markup's layout; it looks wrong
		// but is a contract, not a bug.
		var counts []int
		item.Find(".icon-container").Each(func(_ int, sel *goquery.Selection) {
			counts = append(counts, count.Parse(sel.Text()))
		})
		engagement := func(i int) int {
			if i < len(counts) {
				return counts[i]
			}
			return 0
		}

		tweets = append(tweets, profile.Tweet{
			ID:           id,
			SyntheticID:  syntheticID,
			Text:         text,
			CreatedAt:    createdAt,
			ReplyCount:   engagement(0),
			RetweetCount: engagement(1),
			QuoteCount:   engagement(2),
			LikeCount:    engagement(3),
			IsRetweet:    isRetweet,
			IsReply:      isReply,
		})

		return len(tweets) < maxTweets
	})

	return tweets
}
