package classifier

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/echoserve/support-service/internal/domain"
)

var (
	jsonObjectPattern = regexp.MustCompile(`(?s)\{.+\}`)
	jsonArrayPattern  = regexp.MustCompile(`(?s)\[.*\]`)
)

// parseClassification extracts the summary/tags JSON object from a
// completion. Output that cannot be parsed degrades to the raw text as
// summary, empty tags and unknown sentiment.
func parseClassification(content string) domain.ClassificationResult {
	fallback := domain.ClassificationResult{
		Summary:   strings.TrimSpace(content),
		Tags:      []string{},
		Sentiment: domain.SentimentUnknown,
	}

	match := jsonObjectPattern.FindString(content)
	if match == "" {
		return fallback
	}
	var parsed struct {
		Summary   string   `json:"summary"`
		Tags      []string `json:"tags"`
		Sentiment string   `json:"sentiment"`
	}
	if err := json.Unmarshal([]byte(match), &parsed); err != nil {
		return fallback
	}
	return domain.ClassificationResult{
		Summary:   strings.TrimSpace(parsed.Summary),
		Tags:      normalizeTags(parsed.Tags, maxTicketTags),
		Sentiment: domain.ParseSentiment(parsed.Sentiment),
	}
}

func parseInsights(content string) domain.CustomerInsights {
	fallback := domain.CustomerInsights{
		Summary:   strings.TrimSpace(content),
		Intents:   []string{},
		Sentiment: domain.SentimentUnknown,
	}

	match := jsonObjectPattern.FindString(content)
	if match == "" {
		return fallback
	}
	var parsed struct {
		Summary   string   `json:"summary"`
		Intents   []string `json:"intents"`
		Sentiment string   `json:"sentiment"`
	}
	if err := json.Unmarshal([]byte(match), &parsed); err != nil {
		return fallback
	}
	return domain.CustomerInsights{
		Summary:   strings.TrimSpace(parsed.Summary),
		Intents:   normalizeTags(parsed.Intents, maxCustomerIntents),
		Sentiment: domain.ParseSentiment(parsed.Sentiment),
	}
}

// parseTagArray extracts a JSON string array; unparsable output yields
// an empty slice.
func parseTagArray(content string) []string {
	match := jsonArrayPattern.FindString(content)
	if match == "" {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal([]byte(match), &tags); err != nil {
		return []string{}
	}
	return normalizeTags(tags, maxTicketTags)
}

func normalizeTags(tags []string, limit int) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		out = append(out, strings.ToLower(trimmed))
		if len(out) == limit {
			break
		}
	}
	return out
}
