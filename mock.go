package egoindex

import (
	"fmt"
	"time"

	"github.com/OwenCoonahan/ego-index/profile"
)

// mockTweets is the fixed timeline served in mock mode. It mixes original
// tweets with a retweet and a reply so downstream filtering has something
// to do.
var mockTweets = []profile.Tweet{
	{
		Text:         "Just shipped a new feature! So proud of what our team accomplished this quarter.",
		LikeCount:    245,
		RetweetCount: 32,
		ReplyCount:   18,
	},
	{
		Text:         "Here's a thread on everything I learned building my first startup. 1/12",
		LikeCount:    1890,
		RetweetCount: 456,
		ReplyCount:   89,
	},
	{
		Text:         "RT @technews: The future of AI is looking incredible",
		LikeCount:    0,
		RetweetCount: 0,
		IsRetweet:    true,
	},
	{
		Text:         "Honored to be featured in this list of founders to watch. Humbled and grateful.",
		LikeCount:    567,
		RetweetCount: 41,
		ReplyCount:   35,
	},
	{
		Text:       "Totally agree, this is such an underrated point.",
		LikeCount:  12,
		ReplyCount: 2,
		IsReply:    true,
	},
	{
		Text:         "Free resource: the exact spreadsheet I use to track growth metrics. Link below.",
		LikeCount:    3201,
		RetweetCount: 892,
		ReplyCount:   156,
	},
}

// mockResult returns a deterministic profile and timeline without any
// network calls.
func mockResult(username string, maxTweets int) *profile.Result {
	tweets := make([]profile.Tweet, 0, len(mockTweets))
	now := time.Now().UTC()
	for i, t := range mockTweets {
		if len(tweets) >= maxTweets {
			break
		}
		t.ID = fmt.Sprintf("mock-%d", i+1)
		t.CreatedAt = now.Add(-time.Duration(i) * 6 * time.Hour).Format(time.RFC3339)
		tweets = append(tweets, t)
	}

	return &profile.Result{
		Profile: profile.Profile{
			Username:        username,
			DisplayName:     "Mock User",
			Bio:             "Building cool stuff on the internet. Founder @startup. Opinions are my own.",
			ProfileImageURL: "https://example.com/avatar.jpg",
			FollowersCount:  12500,
			FollowingCount:  450,
			TweetCount:      3240,
		},
		Tweets: tweets,
	}
}
