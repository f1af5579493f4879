package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/echoserve/support-service/internal/domain"
)

// AgentRepository handles persistence for the agent roster.
type AgentRepository interface {
	Create(ctx context.Context, agent *domain.Agent) error
	GetByID(ctx context.Context, id string) (*domain.Agent, error)
	List(ctx context.Context) ([]domain.Agent, error)
	ListOnline(ctx context.Context) ([]domain.Agent, error)
	// CompareAndSwapLoad writes next only when the stored current_load still
	// equals expected. Returns false when a concurrent writer got there first.
	CompareAndSwapLoad(ctx context.Context, id string, expected, next int) (bool, error)
}

type agentRepository struct {
	pool *pgxpool.Pool
}

// NewAgentRepository instantiates the repository.
func NewAgentRepository(pool *pgxpool.Pool) AgentRepository {
	return &agentRepository{pool: pool}
}

func (r *agentRepository) Create(ctx context.Context, agent *domain.Agent) error {
	const query = `
        INSERT INTO agents (name, tags, online, current_load)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		agent.Name,
		agent.Tags,
		agent.Online,
		agent.CurrentLoad,
	).Scan(&agent.ID, &agent.CreatedAt, &agent.UpdatedAt)
}

const agentColumns = `id, name, tags, online, current_load, created_at, updated_at`

func (r *agentRepository) GetByID(ctx context.Context, id string) (*domain.Agent, error) {
	const query = `SELECT ` + agentColumns + ` FROM agents WHERE id=$1`
	var agent domain.Agent
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&agent.ID,
		&agent.Name,
		&agent.Tags,
		&agent.Online,
		&agent.CurrentLoad,
		&agent.CreatedAt,
		&agent.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &agent, nil
}

func (r *agentRepository) List(ctx context.Context) ([]domain.Agent, error) {
	const query = `SELECT ` + agentColumns + ` FROM agents ORDER BY id ASC`
	return r.queryAgents(ctx, query)
}

func (r *agentRepository) ListOnline(ctx context.Context) ([]domain.Agent, error) {
	const query = `SELECT ` + agentColumns + ` FROM agents WHERE online=TRUE ORDER BY id ASC`
	return r.queryAgents(ctx, query)
}

func (r *agentRepository) CompareAndSwapLoad(ctx context.Context, id string, expected, next int) (bool, error) {
	const query = `
        UPDATE agents SET current_load=$1, updated_at=NOW()
        WHERE id=$2 AND current_load=$3`
	cmd, err := r.pool.Exec(ctx, query, next, id, expected)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *agentRepository) queryAgents(ctx context.Context, query string) ([]domain.Agent, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAgents(rows)
}

func scanAgents(rows pgx.Rows) ([]domain.Agent, error) {
	var result []domain.Agent
	for rows.Next() {
		var agent domain.Agent
		if err := rows.Scan(
			&agent.ID,
			&agent.Name,
			&agent.Tags,
			&agent.Online,
			&agent.CurrentLoad,
			&agent.CreatedAt,
			&agent.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, agent)
	}
	return result, rows.Err()
}
