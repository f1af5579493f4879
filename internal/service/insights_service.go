package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/echoserve/support-service/internal/domain"
	"github.com/echoserve/support-service/internal/observability"
	"github.com/echoserve/support-service/internal/persistence"
)

// promptWindow bounds the transcript handed to the classifier; older
// entries are dropped, most recent kept.
const promptWindow = 40

// InsightsService produces the rolling per-customer summary, intents and
// sentiment from the merged cross-channel timeline. Results are cached in
// Redis for a short TTL since the classifier call is slow and expensive.
type InsightsService struct {
	timeline   *TimelineService
	classifier Classifier
	cache      *persistence.Redis
	ttl        time.Duration
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewInsightsService constructs the service.
func NewInsightsService(timeline *TimelineService, classifier Classifier, cache *persistence.Redis, ttl time.Duration, logger *zap.Logger, metrics *observability.Metrics) *InsightsService {
	return &InsightsService{
		timeline:   timeline,
		classifier: classifier,
		cache:      cache,
		ttl:        ttl,
		logger:     logger,
		metrics:    metrics,
	}
}

// CustomerInsights classifies the customer's recent cross-channel
// transcript. On classifier failure the merged transcript still exists, so
// the caller gets an empty-summary unknown-sentiment result, never an error
// from the classifier itself.
func (s *InsightsService) CustomerInsights(ctx context.Context, email string) (domain.CustomerInsights, error) {
	if cached, ok := s.fromCache(ctx, email); ok {
		return cached, nil
	}

	timeline, err := s.timeline.Merge(ctx, email)
	if err != nil {
		return domain.CustomerInsights{}, err
	}

	entries := timeline
	if len(entries) > promptWindow {
		entries = entries[len(entries)-promptWindow:]
	}
	utterances := make([]domain.Utterance, 0, len(entries))
	for _, entry := range entries {
		utterances = append(utterances, domain.Utterance{Role: entry.Role, Text: entry.Content})
	}

	insights, err := s.classifier.CustomerInsights(ctx, utterances)
	if err != nil {
		s.metrics.RecordClassifierFailure()
		s.logger.Warn("customer insights degraded", zap.String("email", email), zap.Error(err))
		return domain.CustomerInsights{
			Summary:   "",
			Intents:   []string{},
			Sentiment: domain.SentimentUnknown,
		}, nil
	}

	s.toCache(ctx, email, insights)
	return insights, nil
}

func (s *InsightsService) fromCache(ctx context.Context, email string) (domain.CustomerInsights, bool) {
	if s.cache == nil || s.cache.Client == nil {
		return domain.CustomerInsights{}, false
	}
	raw, err := s.cache.Client.Get(ctx, insightsKey(email)).Result()
	if err != nil {
		return domain.CustomerInsights{}, false
	}
	var insights domain.CustomerInsights
	if err := json.Unmarshal([]byte(raw), &insights); err != nil {
		return domain.CustomerInsights{}, false
	}
	return insights, true
}

func (s *InsightsService) toCache(ctx context.Context, email string, insights domain.CustomerInsights) {
	if s.cache == nil || s.cache.Client == nil {
		return
	}
	data, err := json.Marshal(insights)
	if err != nil {
		return
	}
	if err := s.cache.Client.Set(ctx, insightsKey(email), data, s.ttl).Err(); err != nil {
		s.logger.Debug("insights cache write failed", zap.String("email", email), zap.Error(err))
	}
}

func insightsKey(email string) string {
	return "insights:" + email
}
