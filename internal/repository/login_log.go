package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ntp/agent-server-go/internal/model"
)

type LoginLogRepository interface {
	Create(ctx context.Context, params model.CreateLoginLogParams) error
	// DeleteOlderThan removes rows logged before cutoff and reports how many.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type loginLogRepo struct {
	db sqlxDB
}

func NewLoginLogRepository(db *sqlx.DB) LoginLogRepository {
	return &loginLogRepo{db: db}
}

func (r *loginLogRepo) Create(ctx context.Context, p model.CreateLoginLogParams) error {
	now := time.Now()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ntp_agent_login_log
			(agent_id, agent_name, group_prefix, login_ip, login_time, user_agent,
			 login_status, fail_reason, session_id, login_device, browser_info, create_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, p.AgentID, p.AgentName, p.GroupPrefix, p.LoginIP, now, p.UserAgent,
		p.Status, p.FailReason, p.SessionID, p.Device, p.Browser, now)
	return err
}

func (r *loginLogRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM ntp_agent_login_log WHERE create_time < $1
	`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
