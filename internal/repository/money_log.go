package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ntp/agent-server-go/internal/model"
)

// MoneyLogRepository writes the member and agent ledgers. Both inserts of an
// adjustment belong in the same transaction as the balance updates.
type MoneyLogRepository interface {
	CreateMemberLog(ctx context.Context, log model.MemberMoneyLog) error
	CreateAgentLog(ctx context.Context, log model.AgentMoneyLog) error
	WithTx(tx *sqlx.Tx) MoneyLogRepository
}

type moneyLogRepo struct {
	db sqlxDB
}

func NewMoneyLogRepository(db *sqlx.DB) MoneyLogRepository {
	return &moneyLogRepo{db: db}
}

func (r *moneyLogRepo) WithTx(tx *sqlx.Tx) MoneyLogRepository {
	return &moneyLogRepo{db: tx}
}

func (r *moneyLogRepo) CreateMemberLog(ctx context.Context, l model.MemberMoneyLog) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ntp_common_pay_money_log
			(group_prefix, create_time, type, status, money_before, money_end, money, uid, source_id, market_uid, mark)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, l.GroupPrefix, l.CreateTime, l.Type, l.Status, l.MoneyBefore, l.MoneyEnd, l.Money,
		l.UID, l.SourceID, l.MarketUID, l.Mark)
	return err
}

func (r *moneyLogRepo) CreateAgentLog(ctx context.Context, l model.AgentMoneyLog) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ntp_common_pay_money_agent_log
			(group_prefix, create_time, type, status, money_before, money_end, money, agent_id, source_id, admin_uid, mark)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, l.GroupPrefix, l.CreateTime, l.Type, l.Status, l.MoneyBefore, l.MoneyEnd, l.Money,
		l.AgentID, l.SourceID, l.AdminUID, l.Mark)
	return err
}
