package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/echoserve/support-service/internal/domain"
)

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context) ([]domain.Ticket, error)
	ListByCustomer(ctx context.Context, email string) ([]domain.Ticket, error)
	UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) error
	UpdateClassification(ctx context.Context, id, summary string, tags []string) error
	// CompareAndSwapAssignee updates the assignment and its recorded origin
	// only when the stored assignee still matches expected. Returns false on
	// a lost race.
	CompareAndSwapAssignee(ctx context.Context, id string, expected, next *string, origin domain.AssignmentOrigin) (bool, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (customer_email, session_id, user_message, ai_response, status, assigned_agent_id, assignment_origin, summary, tags)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.CustomerEmail,
		ticket.SessionID,
		ticket.UserMessage,
		ticket.AIResponse,
		ticket.Status,
		ticket.AssignedAgentID,
		ticket.AssignmentOrigin,
		ticket.Summary,
		ticket.Tags,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

const ticketColumns = `id, customer_email, session_id, user_message, ai_response,
               status, assigned_agent_id, assignment_origin, summary, tags, created_at, updated_at`

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `
        SELECT ` + ticketColumns + `
        FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.CustomerEmail,
		&ticket.SessionID,
		&ticket.UserMessage,
		&ticket.AIResponse,
		&ticket.Status,
		&ticket.AssignedAgentID,
		&ticket.AssignmentOrigin,
		&ticket.Summary,
		&ticket.Tags,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	const query = `
        SELECT ` + ticketColumns + `
        FROM tickets ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) ListByCustomer(ctx context.Context, email string) ([]domain.Ticket, error) {
	const query = `
        SELECT ` + ticketColumns + `
        FROM tickets WHERE customer_email=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) error {
	const query = `UPDATE tickets SET status=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) UpdateClassification(ctx context.Context, id, summary string, tags []string) error {
	const query = `UPDATE tickets SET summary=$1, tags=$2, updated_at=NOW() WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, summary, tags, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) CompareAndSwapAssignee(ctx context.Context, id string, expected, next *string, origin domain.AssignmentOrigin) (bool, error) {
	const query = `
        UPDATE tickets SET assigned_agent_id=$1, assignment_origin=$2, updated_at=NOW()
        WHERE id=$3 AND assigned_agent_id IS NOT DISTINCT FROM $4`
	cmd, err := r.pool.Exec(ctx, query, next, origin, id, expected)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.CustomerEmail,
			&ticket.SessionID,
			&ticket.UserMessage,
			&ticket.AIResponse,
			&ticket.Status,
			&ticket.AssignedAgentID,
			&ticket.AssignmentOrigin,
			&ticket.Summary,
			&ticket.Tags,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
