package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/echoserve/support-service/internal/domain"
	"github.com/echoserve/support-service/internal/events"
	"github.com/echoserve/support-service/internal/observability"
	"github.com/echoserve/support-service/internal/repository"
	apperrors "github.com/echoserve/support-service/pkg/util"
)

// EmailService ingests inbound emails. Drafting the AI reply and tagging
// are best-effort classifier steps; their failure never blocks storing the
// email or answering the webhook.
type EmailService struct {
	emails     repository.EmailMessageRepository
	classifier Classifier
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// InboundEmail is one email delivered by the inbound webhook.
type InboundEmail struct {
	From          string
	Subject       string
	Body          string
	CustomerEmail string
}

// NewEmailService constructs the service.
func NewEmailService(emails repository.EmailMessageRepository, classifier Classifier, dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *EmailService {
	return &EmailService{
		emails:     emails,
		classifier: classifier,
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
	}
}

// Ingest stores an inbound email along with a best-effort drafted reply
// and tags. Returns the stored record.
func (s *EmailService) Ingest(ctx context.Context, inbound InboundEmail) (*domain.EmailMessage, error) {
	if strings.TrimSpace(inbound.From) == "" || strings.TrimSpace(inbound.Subject) == "" || strings.TrimSpace(inbound.Body) == "" {
		return nil, apperrors.NewValidationError("from, subject, body required", nil)
	}

	reply, err := s.classifier.DraftEmailReply(ctx, inbound.From, inbound.Subject, inbound.Body)
	if err != nil {
		s.metrics.RecordClassifierFailure()
		s.logger.Warn("email reply draft skipped", zap.String("from", inbound.From), zap.Error(err))
		reply = ""
	}

	tags, err := s.classifier.EmailTags(ctx, inbound.Subject, inbound.Body)
	if err != nil {
		s.metrics.RecordClassifierFailure()
		s.logger.Warn("email tagging skipped", zap.String("from", inbound.From), zap.Error(err))
		tags = []string{}
	}

	msg := &domain.EmailMessage{
		FromAddress:   strings.TrimSpace(inbound.From),
		Subject:       inbound.Subject,
		Body:          inbound.Body,
		AIReply:       reply,
		Tags:          tags,
		CustomerEmail: strings.TrimSpace(inbound.CustomerEmail),
	}
	if err := s.emails.Create(ctx, msg); err != nil {
		return nil, apperrors.NewStoreError(err)
	}

	events.Dispatch(ctx, s.dispatcher, events.Event{
		Type: events.EventEmailRecorded,
		Payload: events.EmailRecordedPayload{
			CustomerEmail: msg.CustomerEmail,
			Tags:          msg.Tags,
		},
	})
	return msg, nil
}

// List returns stored emails, newest first.
func (s *EmailService) List(ctx context.Context) ([]domain.EmailMessage, error) {
	emails, err := s.emails.List(ctx)
	if err != nil {
		return nil, apperrors.NewStoreError(err)
	}
	return emails, nil
}
