// Package analyzer scores an acquired profile with a text-generation service.
// Gemini is preferred when configured, OpenAI otherwise. The acquisition core
// treats this as an opaque collaborator: profile + tweets in, score record out.
package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"google.golang.org/genai"

	"github.com/OwenCoonahan/ego-index/profile"
)

// TweetHighlight references one representative tweet chosen by the scorer.
type TweetHighlight struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Score int    `json:"score"`
}

// Analysis is the scoring collaborator's output record.
//
//nolint:govet // fieldalignment: intentional layout for readability
type Analysis struct {
	EgoScore               int     `json:"ego_score"`
	ValueScore             int     `json:"value_score"`
	OverallScore           int     `json:"overall_score"`
	NoiseScore             int     `json:"noise_score"`
	EngagementQualityScore int     `json:"engagement_quality_score"`
	AuthenticityScore      int     `json:"authenticity_score"`
	SignalToEgoRatio       float64 `json:"signal_to_ego_ratio"`
	MainCharacterScore     int     `json:"main_character_score"`
	HumbleBragScore        int     `json:"humble_brag_score"`
	SelfPromotionScore     int     `json:"self_promotion_score"`
	Industry               string  `json:"industry"`
	Tier                   string  `json:"tier"`
	TierEmoji              string  `json:"tier_emoji"`
	Summary                string  `json:"summary"`
	TweetsAnalyzed         int     `json:"tweets_analyzed"`

	MostEgotisticalTweet  *TweetHighlight `json:"most_egotistical_tweet,omitempty"`
	LeastEgotisticalTweet *TweetHighlight `json:"least_egotistical_tweet,omitempty"`
}

// Config configures a Client. At least one API key is required unless
// UseMock is set.
type Config struct {
	GeminiAPIKey string
	OpenAIAPIKey string
	GeminiModel  string // defaults to gemini-2.5-flash
	OpenAIModel  string // defaults to gpt-4o-mini
	Logger       *slog.Logger
	UseMock      bool // deterministic analysis, no network
}

// Client calls the configured text-generation service.
type Client struct {
	gemini      *genai.Client
	openai      *openai.Client
	logger      *slog.Logger
	geminiModel string
	openaiModel string
	mock        bool
}

// New creates an analyzer client.
func New(ctx context.Context, cfg Config) (*Client, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		logger:      logger,
		geminiModel: cfg.GeminiModel,
		openaiModel: cfg.OpenAIModel,
		mock:        cfg.UseMock,
	}
	if c.geminiModel == "" {
		c.geminiModel = "gemini-2.5-flash"
	}
	if c.openaiModel == "" {
		c.openaiModel = "gpt-4o-mini"
	}

	if cfg.UseMock {
		return c, nil
	}

	if cfg.GeminiAPIKey == "" && cfg.OpenAIAPIKey == "" {
		return nil, errors.New("no AI API key configured")
	}

	if cfg.GeminiAPIKey != "" {
		gemini, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("creating gemini client: %w", err)
		}
		c.gemini = gemini
	}

	if cfg.OpenAIAPIKey != "" {
		client := openai.NewClient(option.WithAPIKey(cfg.OpenAIAPIKey))
		c.openai = &client
	}

	return c, nil
}

// Analyze scores a profile and its eligible tweets.
func (c *Client) Analyze(ctx context.Context, p profile.Profile, tweets []profile.Tweet) (*Analysis, error) {
	if c.mock {
		c.logger.InfoContext(ctx, "using mock analysis", "username", p.Username)
		return mockAnalysis(p, tweets), nil
	}

	prompt := buildPrompt(p, tweets)

	text, err := retry.DoWithData(
		func() (string, error) { return c.generate(ctx, prompt) },
		retry.Context(ctx),
		retry.Attempts(2),
		retry.Delay(500*time.Millisecond),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug("retrying analysis call", "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("analysis call failed: %w", err)
	}

	var raw rawAnalysis
	if err := json.Unmarshal([]byte(stripFences(text)), &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON from analysis service: %w", err)
	}

	return finish(raw, tweets), nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	if c.gemini != nil {
		return c.generateWithGemini(ctx, prompt)
	}
	return c.generateWithOpenAI(ctx, prompt)
}

func (c *Client) generateWithGemini(ctx context.Context, prompt string) (string, error) {
	temp := float32(0.7)
	resp, err := c.gemini.Models.GenerateContent(ctx, c.geminiModel, []*genai.Content{
		{Parts: []*genai.Part{{Text: analysisPrompt + "\n\n" + prompt}}},
	}, &genai.GenerateContentConfig{
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	text := geminiText(resp)
	if text == "" {
		return "", errors.New("empty gemini response")
	}
	return text, nil
}

func (c *Client) generateWithOpenAI(ctx context.Context, prompt string) (string, error) {
	resp, err := c.openai.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.openaiModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(analysisPrompt),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(0.7),
	})
	if err != nil {
		return "", fmt.Errorf("openai generation failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in openai response")
	}
	return resp.Choices[0].Message.Content, nil
}

func geminiText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return ""
	}
	var texts []string
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			texts = append(texts, part.Text)
		}
	}
	return strings.Join(texts, "")
}

// rawAnalysis is the JSON shape the model is asked to return. Highlight
// references come back as indexes into the tweet list sent in the prompt.
type rawAnalysis struct {
	EgoScore                int    `json:"egoScore"`
	ValueScore              int    `json:"valueScore"`
	OverallScore            int    `json:"overallScore"`
	NoiseScore              int    `json:"noiseScore"`
	EngagementQualityScore  int    `json:"engagementQualityScore"`
	AuthenticityScore       int    `json:"authenticityScore"`
	MainCharacterScore      int    `json:"mainCharacterScore"`
	HumbleBragScore         int    `json:"humbleBragScore"`
	SelfPromotionScore      int    `json:"selfPromotionScore"`
	Industry                string `json:"industry"`
	Summary                 string `json:"summary"`
	MostEgotisticalTweetID  string `json:"mostEgotisticalTweetId"`
	LeastEgotisticalTweetID string `json:"leastEgotisticalTweetId"`
}

// finish turns a raw model response into the final record: clamps scores,
// derives the signal-to-ego ratio and tier, and resolves tweet references.
func finish(raw rawAnalysis, tweets []profile.Tweet) *Analysis {
	a := &Analysis{
		EgoScore:               clampScore(raw.EgoScore),
		ValueScore:             clampScore(raw.ValueScore),
		OverallScore:           clampScore(raw.OverallScore),
		NoiseScore:             clampScore(raw.NoiseScore),
		EngagementQualityScore: clampScore(raw.EngagementQualityScore),
		AuthenticityScore:      clampScore(raw.AuthenticityScore),
		MainCharacterScore:     clampScore(raw.MainCharacterScore),
		HumbleBragScore:        clampScore(raw.HumbleBragScore),
		SelfPromotionScore:     clampScore(raw.SelfPromotionScore),
		Industry:               raw.Industry,
		Summary:                raw.Summary,
		TweetsAnalyzed:         len(tweets),
	}

	a.SignalToEgoRatio = SignalToEgoRatio(a.ValueScore, a.EgoScore, a.NoiseScore)

	tier := tierFor(a.OverallScore)
	a.Tier = tier.name
	a.TierEmoji = tier.emoji

	if t := resolveTweet(raw.MostEgotisticalTweetID, tweets); t != nil {
		a.MostEgotisticalTweet = &TweetHighlight{ID: t.ID, Text: t.Text, Score: a.EgoScore}
	}
	if t := resolveTweet(raw.LeastEgotisticalTweetID, tweets); t != nil {
		a.LeastEgotisticalTweet = &TweetHighlight{ID: t.ID, Text: t.Text, Score: 100 - a.EgoScore}
	}

	return a
}

// resolveTweet accepts either an index into the prompt's tweet list or an
// actual tweet ID; models return both despite being asked for the index.
func resolveTweet(ref string, tweets []profile.Tweet) *profile.Tweet {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil
	}
	if idx, err := strconv.Atoi(ref); err == nil && idx >= 0 && idx < len(tweets) {
		return &tweets[idx]
	}
	for i := range tweets {
		if tweets[i].ID == ref {
			return &tweets[i]
		}
	}
	return nil
}

// SignalToEgoRatio computes value/(ego+noise+1), clamped to [0, 1] and
// rounded to two decimals.
func SignalToEgoRatio(value, ego, noise int) float64 {
	ratio := float64(value) / float64(ego+noise+1)
	ratio = math.Max(0, math.Min(1, ratio))
	return math.Round(ratio*100) / 100
}

func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// stripFences removes a markdown code fence the model may wrap around its
// JSON despite being told not to.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "```json"))
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "```"))
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}
