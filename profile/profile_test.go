package profile

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCleanUsername(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"@ExampleUser ", "exampleuser"},
		{"exampleuser", "exampleuser"},
		{"  @JohnDoe", "johndoe"},
		{"JOHNDOE", "johndoe"},
		{"@ jack ", "jack"},
		{"", ""},
		{"@", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := CleanUsername(tt.input); got != tt.want {
				t.Errorf("CleanUsername(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFilterOriginal(t *testing.T) {
	original := Tweet{ID: "1", Text: "shipping"}
	retweet := Tweet{ID: "2", Text: "RT @someone great post", IsRetweet: true}
	reply := Tweet{ID: "3", Text: "agreed", IsReply: true}
	replyQuote := Tweet{ID: "4", Text: "quoting a reply", IsReply: true, IsRetweet: true}

	tests := []struct {
		name  string
		input []Tweet
		want  []Tweet
	}{
		{"mixed", []Tweet{original, retweet, reply, replyQuote}, []Tweet{original}},
		{"all original", []Tweet{original, {ID: "5", Text: "more"}}, []Tweet{original, {ID: "5", Text: "more"}}},
		{"all retweets", []Tweet{retweet, retweet}, []Tweet{}},
		{"empty", []Tweet{}, []Tweet{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterOriginal(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FilterOriginal() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilterOriginalIdempotent(t *testing.T) {
	input := []Tweet{
		{ID: "1", Text: "a"},
		{ID: "2", Text: "b", IsRetweet: true},
		{ID: "3", Text: "c", IsReply: true},
		{ID: "4", Text: "d"},
	}

	once := FilterOriginal(input)
	twice := FilterOriginal(once)
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("FilterOriginal not idempotent (-once +twice):\n%s", diff)
	}
}

func TestFilterOriginalPreservesOrder(t *testing.T) {
	input := []Tweet{
		{ID: "9", Text: "first"},
		{ID: "2", Text: "rt", IsRetweet: true},
		{ID: "7", Text: "second"},
		{ID: "1", Text: "third"},
	}

	got := FilterOriginal(input)
	wantIDs := []string{"9", "7", "1"}
	if len(got) != len(wantIDs) {
		t.Fatalf("FilterOriginal() returned %d tweets, want %d", len(got), len(wantIDs))
	}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("tweet[%d].ID = %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestOriginal(t *testing.T) {
	tests := []struct {
		name  string
		tweet Tweet
		want  bool
	}{
		{"plain", Tweet{}, true},
		{"retweet", Tweet{IsRetweet: true}, false},
		{"reply", Tweet{IsReply: true}, false},
		{"both flags", Tweet{IsRetweet: true, IsReply: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tweet.Original(); got != tt.want {
				t.Errorf("Original() = %v, want %v", got, tt.want)
			}
		})
	}
}
