package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/echoserve/support-service/internal/events"
	apperrors "github.com/echoserve/support-service/pkg/util"
)

func newEmailFixture(classifier *fakeClassifier) (*EmailService, *fakeEmailRepo) {
	emails := &fakeEmailRepo{}
	svc := NewEmailService(emails, classifier, events.NewInMemoryDispatcher(), zap.NewNop(), nil)
	return svc, emails
}

func TestIngest_StoresReplyAndTags(t *testing.T) {
	classifier := &fakeClassifier{
		emailReply: "Thanks for reaching out, we are on it.",
		emailTags:  []string{"outage"},
	}
	svc, emails := newEmailFixture(classifier)

	msg, err := svc.Ingest(context.Background(), InboundEmail{
		From:          "jo@example.com",
		Subject:       "Service down",
		Body:          "Nothing loads since this morning",
		CustomerEmail: "jo@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Thanks for reaching out, we are on it.", msg.AIReply)
	assert.Equal(t, []string{"outage"}, msg.Tags)
	assert.NotEmpty(t, msg.ID)

	stored, err := emails.List(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, msg.ID, stored[0].ID)
}

func TestIngest_ClassifierFailureStillStores(t *testing.T) {
	classifier := &fakeClassifier{err: apperrors.ErrClassifierUnavailable}
	svc, emails := newEmailFixture(classifier)

	msg, err := svc.Ingest(context.Background(), InboundEmail{
		From:    "jo@example.com",
		Subject: "Hello",
		Body:    "A question",
	})
	require.NoError(t, err)
	assert.Empty(t, msg.AIReply)
	assert.Empty(t, msg.Tags)

	stored, err := emails.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestIngest_RejectsIncompletePayload(t *testing.T) {
	svc, _ := newEmailFixture(&fakeClassifier{})

	_, err := svc.Ingest(context.Background(), InboundEmail{From: "jo@example.com", Subject: "no body"})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}
