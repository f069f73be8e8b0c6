package rapidapi

import (
	"strconv"
	"strings"
	"time"

	"github.com/OwenCoonahan/ego-index/profile"
)

// variant captures one provider's endpoint and parameter shape. Keeping these
// as explicit tables, rather than conditionals scattered through the fetch
// path, is what makes a new provider a one-line addition.
type variant struct {
	name           string
	hostMarker     string
	userEndpoint   string
	tweetsEndpoint string
	queryParam     string
}

var variants = []variant{
	{name: "twitter154", hostMarker: "twitter154", userEndpoint: "/user/details", tweetsEndpoint: "/user/tweets", queryParam: "username"},
	{name: "twitter-api45", hostMarker: "twitter-api45", userEndpoint: "/user-info", tweetsEndpoint: "/user-timeline", queryParam: "username"},
	{name: "twitter241", hostMarker: "twitter241", userEndpoint: "/user", tweetsEndpoint: "/user-tweets", queryParam: "username"},
}

// defaultVariant covers providers we have not mapped explicitly; twitter-api47
// and friends follow this shape.
var defaultVariant = variant{name: "default", userEndpoint: "/user", tweetsEndpoint: "/user/tweets", queryParam: "username"}

func variantForHost(host string) variant {
	lower := strings.ToLower(host)
	for _, v := range variants {
		if strings.Contains(lower, v.hostMarker) {
			return v
		}
	}
	return defaultVariant
}

// Field-alias tables: each logical field lists the provider keys that may
// carry it, in priority order. Resolution takes the first present, non-null
// value and otherwise defaults to zero/empty.
var (
	displayNameAliases = []string{"name", "display_name"}
	bioAliases         = []string{"description", "bio"}
	avatarAliases      = []string{"profile_pic_url", "profile_image_url", "avatar"}
	followersAliases   = []string{"follower_count", "followers_count", "followers"}
	followingAliases   = []string{"following_count", "following"}
	tweetCountAliases  = []string{"number_of_tweets", "statuses_count", "tweets_count"}

	tweetIDAliases   = []string{"tweet_id", "id_str", "id"}
	tweetTextAliases = []string{"text", "full_text"}
	createdAtAliases = []string{"creation_date", "created_at"}
	likeAliases      = []string{"favorite_count", "like_count"}

	// Presence of any of these, not its value, marks a tweet as a reply.
	replyMarkers = []string{"in_reply_to_user_id", "reply_to", "is_reply"}

	// The keys a listing payload may nest its tweet array under.
	listingKeys = []string{"results", "tweets", "data"}
)

func normalizeProfile(data map[string]any, username string) profile.Profile {
	name := firstString(data, displayNameAliases)
	if name == "" {
		name = username
	}
	if u := firstString(data, []string{"username"}); u != "" {
		username = profile.CleanUsername(u)
	}

	return profile.Profile{
		Username:        username,
		DisplayName:     name,
		Bio:             firstString(data, bioAliases),
		ProfileImageURL: firstString(data, avatarAliases),
		FollowersCount:  firstInt(data, followersAliases),
		FollowingCount:  firstInt(data, followingAliases),
		TweetCount:      firstInt(data, tweetCountAliases),
	}
}

// normalizeTweets locates the tweet array, drops textless items and items the
// provider flags as retweets, and truncates to maxTweets after filtering.
func normalizeTweets(data map[string]any, maxTweets int) []profile.Tweet {
	var items []any
	for _, key := range listingKeys {
		if list, ok := data[key].([]any); ok {
			items = list
			break
		}
	}

	tweets := make([]profile.Tweet, 0, maxTweets)
	synthetic := 0

	for _, raw := range items {
		if len(tweets) >= maxTweets {
			break
		}
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		text := firstString(item, tweetTextAliases)
		if text == "" {
			continue
		}
		if b, ok := item["retweeted"].(bool); ok && b {
			continue
		}

		id := firstString(item, tweetIDAliases)
		syntheticID := false
		if id == "" {
			synthetic++
			id = "synthetic-" + strconv.Itoa(synthetic)
			syntheticID = true
		}

		createdAt := firstString(item, createdAtAliases)
		if createdAt == "" {
			createdAt = time.Now().UTC().Format(time.RFC3339)
		}

		isRetweet := false
		if b, ok := item["is_retweet"].(bool); ok {
			isRetweet = b
		}

		tweets = append(tweets, profile.Tweet{
			ID:           id,
			SyntheticID:  syntheticID,
			Text:         text,
			CreatedAt:    createdAt,
			LikeCount:    firstInt(item, likeAliases),
			RetweetCount: firstInt(item, []string{"retweet_count"}),
			ReplyCount:   firstInt(item, []string{"reply_count"}),
			QuoteCount:   firstInt(item, []string{"quote_count"}),
			IsRetweet:    isRetweet,
			IsReply:      hasAny(item, replyMarkers),
		})
	}

	return tweets
}

func firstString(m map[string]any, keys []string) string {
	for _, key := range keys {
		switch v := m[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

func firstInt(m map[string]any, keys []string) int {
	for _, key := range keys {
		switch v := m[key].(type) {
		case float64:
			return int(v)
		case string:
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
	}
	return 0
}

func hasAny(m map[string]any, keys []string) bool {
	for _, key := range keys {
		v, ok := m[key]
		if !ok || v == nil {
			continue
		}
		// A false boolean marker is an explicit "not a reply".
		if b, isBool := v.(bool); isBool && !b {
			continue
		}
		if s, isString := v.(string); isString && s == "" {
			continue
		}
		return true
	}
	return false
}
