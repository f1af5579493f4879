package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/echoserve/support-service/internal/config"
	"github.com/echoserve/support-service/internal/domain"
	apperrors "github.com/echoserve/support-service/pkg/util"
)

const (
	maxTicketTags      = 5
	maxCustomerIntents = 3
)

// Client wraps the external chat-completions classifier. All calls carry
// the configured timeout; transport failures surface as
// util.ErrClassifierUnavailable and callers degrade locally.
type Client struct {
	cfg    config.ClassifierConfig
	http   *http.Client
	logger *zap.Logger
}

// NewClient builds a classifier client.
func NewClient(cfg config.ClassifierConfig, logger *zap.Logger) *Client {
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout()},
		logger: logger,
	}
}

// SummarizeConversation derives a one-sentence summary and topical tags
// from a chat transcript. Unparsable completions fall back to the raw text
// as summary with no tags rather than failing.
func (c *Client) SummarizeConversation(ctx context.Context, utterances []domain.Utterance) (domain.ClassificationResult, error) {
	var transcript strings.Builder
	for _, u := range utterances {
		transcript.WriteString(strings.ToUpper(string(u.Role)))
		transcript.WriteString(": ")
		transcript.WriteString(u.Text)
		transcript.WriteString("\n")
	}

	prompt := "You are an assistant helping summarize customer support chats.\n" +
		"Return:\n- a 1-sentence summary of the issue\n" +
		"- 3-5 relevant tags (like \"refund\", \"late delivery\", \"app crash\")\n\n" +
		"Format:\n{\n  \"summary\": \"...\",\n  \"tags\": [\"...\", \"...\"]\n}\n\n" +
		"Chat History:\n" + transcript.String()

	content, err := c.complete(ctx, "You return JSON summaries from chat transcripts.", prompt, 0.3)
	if err != nil {
		return domain.ClassificationResult{}, err
	}
	return parseClassification(content), nil
}

// CustomerInsights derives a rolling summary, intents and sentiment from a
// cross-channel transcript.
func (c *Client) CustomerInsights(ctx context.Context, utterances []domain.Utterance) (domain.CustomerInsights, error) {
	var transcript strings.Builder
	for _, u := range utterances {
		fmt.Fprintf(&transcript, "[%s] %s\n", u.Role, u.Text)
	}

	systemPrompt := "You are an AI summarizer for a customer support platform. " +
		"Given a chronological transcript of customer support messages across chat and email, extract:\n" +
		"1. A short summary of the conversation.\n" +
		"2. The customer's main intents (up to 3 short tags).\n" +
		"3. The overall sentiment (Positive, Neutral, or Negative).\n\n" +
		"Respond in JSON with the following format:\n" +
		"{\n  \"summary\": \"...\",\n  \"intents\": [\"...\", \"...\"],\n  \"sentiment\": \"Neutral\"\n}"

	content, err := c.complete(ctx, systemPrompt, transcript.String(), 0.3)
	if err != nil {
		return domain.CustomerInsights{}, err
	}
	return parseInsights(content), nil
}

// EmailTags derives concise lowercase tags for an inbound email.
func (c *Client) EmailTags(ctx context.Context, subject, body string) ([]string, error) {
	prompt := fmt.Sprintf("Generate 2-3 concise support tags for this email: [%s] [%s]. Return them as an array of lowercase strings.", subject, body)
	content, err := c.complete(ctx, "You return only a JSON array of lowercase tags for support emails.", prompt, 0.3)
	if err != nil {
		return nil, err
	}
	return parseTagArray(content), nil
}

// DraftEmailReply asks the classifier for a concise reply to an inbound email.
func (c *Client) DraftEmailReply(ctx context.Context, from, subject, body string) (string, error) {
	systemPrompt := "You are an AI support assistant replying to the following customer email " +
		"with a helpful, polite, and relevant response. Keep it concise."
	prompt := fmt.Sprintf("Subject: %s\nFrom: %s\n\n%s", subject, from, body)
	content, err := c.complete(ctx, systemPrompt, prompt, 0.7)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) complete(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error) {
	if c.cfg.APIKey == "" {
		return "", fmt.Errorf("%w: api key not configured", apperrors.ErrClassifierUnavailable)
	}

	payload := completionRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens:   512,
		Temperature: temperature,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(c.cfg.BaseURL, "/")+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrClassifierUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", apperrors.ErrClassifierUnavailable, resp.StatusCode)
	}

	var completion completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrClassifierUnavailable, err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", apperrors.ErrClassifierUnavailable)
	}
	return completion.Choices[0].Message.Content, nil
}
