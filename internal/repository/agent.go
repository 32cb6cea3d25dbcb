package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/ntp/agent-server-go/internal/model"
	"github.com/ntp/agent-server-go/internal/tenant"
)

const agentColumns = "id, agent_name, agent_pwd, group_prefix, agent_type, invitation_code, money, money_total, status, created_at"

type AgentRepository interface {
	// FindActiveByName looks up a login candidate inside one tenant.
	FindActiveByName(ctx context.Context, name, groupPrefix string) (*model.Agent, error)
	FindActiveByID(ctx context.Context, id int64, groupPrefix string) (*model.Agent, error)
	// LockActiveByID is FindActiveByID with a row lock; use inside WithTx.
	LockActiveByID(ctx context.Context, id int64, groupPrefix string) (*model.Agent, error)
	AddMoney(ctx context.Context, id int64, delta float64) (float64, error)
	UpdatePassword(ctx context.Context, id int64, hash string) error
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) AgentRepository
}

type agentRepo struct {
	db sqlxDB
}

// sqlxDB is an interface satisfied by both *sqlx.DB and *sqlx.Tx
type sqlxDB interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func NewAgentRepository(db *sqlx.DB) AgentRepository {
	return &agentRepo{db: db}
}

func (r *agentRepo) WithTx(tx *sqlx.Tx) AgentRepository {
	return &agentRepo{db: tx}
}

func activeAgent(groupPrefix string) *Query {
	q := Select(agentColumns).From("ntp_common_group_agent").Where("status = ?", model.StatusActive)
	return tenant.ApplyExact(q, groupPrefix)
}

func (r *agentRepo) FindActiveByName(ctx context.Context, name, groupPrefix string) (*model.Agent, error) {
	query, args := activeAgent(groupPrefix).Where("agent_name = ?", name).Page(1, 0).Build()

	var agent model.Agent
	err := r.db.GetContext(ctx, &agent, query, args...)
	return HandleNotFound(&agent, err)
}

func (r *agentRepo) FindActiveByID(ctx context.Context, id int64, groupPrefix string) (*model.Agent, error) {
	query, args := activeAgent(groupPrefix).Where("id = ?", id).Build()

	var agent model.Agent
	err := r.db.GetContext(ctx, &agent, query, args...)
	return HandleNotFound(&agent, err)
}

func (r *agentRepo) LockActiveByID(ctx context.Context, id int64, groupPrefix string) (*model.Agent, error) {
	query, args := activeAgent(groupPrefix).Where("id = ?", id).ForUpdate().Build()

	var agent model.Agent
	err := r.db.GetContext(ctx, &agent, query, args...)
	return HandleNotFound(&agent, err)
}

func (r *agentRepo) AddMoney(ctx context.Context, id int64, delta float64) (float64, error) {
	var money float64
	err := r.db.GetContext(ctx, &money, `
		UPDATE ntp_common_group_agent SET money = money + $2
		WHERE id = $1
		RETURNING money
	`, id, delta)
	return money, err
}

func (r *agentRepo) UpdatePassword(ctx context.Context, id int64, hash string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE ntp_common_group_agent SET agent_pwd = $2 WHERE id = $1
	`, id, hash)
	return err
}
