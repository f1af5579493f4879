package domain

import "strings"

// Sentiment is the classifier's overall read of a conversation.
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNeutral  Sentiment = "Neutral"
	SentimentNegative Sentiment = "Negative"
	SentimentUnknown  Sentiment = "Unknown"
)

// ParseSentiment maps classifier output onto the closed sentiment set.
// Matching is case-insensitive since completions rarely respect casing.
func ParseSentiment(raw string) Sentiment {
	for _, s := range []Sentiment{SentimentPositive, SentimentNeutral, SentimentNegative} {
		if strings.EqualFold(raw, string(s)) {
			return s
		}
	}
	return SentimentUnknown
}

// ClassificationResult is the classifier's per-ticket output.
type ClassificationResult struct {
	Summary   string
	Tags      []string
	Sentiment Sentiment
}

// CustomerInsights is the classifier's rolling per-customer output.
type CustomerInsights struct {
	Summary   string
	Intents   []string
	Sentiment Sentiment
}
