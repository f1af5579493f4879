package service

import (
	"context"

	"github.com/echoserve/support-service/internal/domain"
)

// Classifier is the external conversation-understanding capability the
// services depend on. Implementations may be slow or fail; every caller
// treats it as best-effort.
type Classifier interface {
	SummarizeConversation(ctx context.Context, utterances []domain.Utterance) (domain.ClassificationResult, error)
	CustomerInsights(ctx context.Context, utterances []domain.Utterance) (domain.CustomerInsights, error)
	EmailTags(ctx context.Context, subject, body string) ([]string, error)
	DraftEmailReply(ctx context.Context, from, subject, body string) (string, error)
}
