package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/echoserve/support-service/internal/domain"
)

// EmailMessageRepository manages the inbound email store.
type EmailMessageRepository interface {
	Create(ctx context.Context, msg *domain.EmailMessage) error
	List(ctx context.Context) ([]domain.EmailMessage, error)
	ListByCustomer(ctx context.Context, email string) ([]domain.EmailMessage, error)
}

type emailMessageRepository struct {
	pool *pgxpool.Pool
}

// NewEmailMessageRepository builds repository.
func NewEmailMessageRepository(pool *pgxpool.Pool) EmailMessageRepository {
	return &emailMessageRepository{pool: pool}
}

func (r *emailMessageRepository) Create(ctx context.Context, msg *domain.EmailMessage) error {
	const query = `
        INSERT INTO email_messages (from_address, subject, body, ai_reply, tags, customer_email)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		msg.FromAddress,
		msg.Subject,
		msg.Body,
		msg.AIReply,
		msg.Tags,
		nullableString(msg.CustomerEmail),
	).Scan(&msg.ID, &msg.CreatedAt)
}

func (r *emailMessageRepository) List(ctx context.Context) ([]domain.EmailMessage, error) {
	const query = `
        SELECT id, from_address, subject, body, ai_reply, tags, COALESCE(customer_email, ''), created_at
        FROM email_messages ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEmailMessages(rows)
}

func (r *emailMessageRepository) ListByCustomer(ctx context.Context, email string) ([]domain.EmailMessage, error) {
	const query = `
        SELECT id, from_address, subject, body, ai_reply, tags, COALESCE(customer_email, ''), created_at
        FROM email_messages WHERE customer_email=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEmailMessages(rows)
}

func scanEmailMessages(rows pgx.Rows) ([]domain.EmailMessage, error) {
	var result []domain.EmailMessage
	for rows.Next() {
		var msg domain.EmailMessage
		if err := rows.Scan(
			&msg.ID,
			&msg.FromAddress,
			&msg.Subject,
			&msg.Body,
			&msg.AIReply,
			&msg.Tags,
			&msg.CustomerEmail,
			&msg.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
