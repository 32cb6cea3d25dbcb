package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ntp/agent-server-go/internal/model"
	"github.com/ntp/agent-server-go/internal/tenant"
)

var memberColumns = []string{
	"id", "name", "group_prefix", "money", "money_rebate", "money_fanyong", "vip_grade",
	"fanyong_proportion", "agent_id", "user_agent_id_1", "user_agent_id_2", "user_agent_id_3",
	"status", "created_at", "updated_at",
}

type MemberRepository interface {
	// ListManaged returns members whose agent or upline agents include
	// the filter's agent.
	ListManaged(ctx context.Context, f model.MemberFilter) ([]model.Member, int, error)
	// DirectIDs returns ids of members registered directly under agentID.
	DirectIDs(ctx context.Context, agentID int64, groupPrefix, username string) ([]int64, error)
	FindActiveByID(ctx context.Context, id int64, groupPrefix string) (*model.Member, error)
	LockActiveByID(ctx context.Context, id int64, groupPrefix string) (*model.Member, error)
	AddMoney(ctx context.Context, id int64, delta float64) (float64, error)
	UpdateProportion(ctx context.Context, id int64, proportion float64) error
	WithTx(tx *sqlx.Tx) MemberRepository
}

type memberRepo struct {
	db sqlxDB
}

func NewMemberRepository(db *sqlx.DB) MemberRepository {
	return &memberRepo{db: db}
}

func (r *memberRepo) WithTx(tx *sqlx.Tx) MemberRepository {
	return &memberRepo{db: tx}
}

func activeMembers(groupPrefix string) *Query {
	q := Select(memberColumns...).From("ntp_common_user").Where("status = ?", model.StatusActive)
	return tenant.ApplyExact(q, groupPrefix)
}

func applyDateRange(q *Query, column string, dr model.DateRange) *Query {
	if dr.From != nil {
		q = q.Where(column+" >= ?", *dr.From)
	}
	if dr.To != nil {
		q = q.Where(column+" <= ?", *dr.To)
	}
	return q
}

func (r *memberRepo) ListManaged(ctx context.Context, f model.MemberFilter) ([]model.Member, int, error) {
	q := activeMembers(f.GroupPrefix).
		Where("(agent_id = ? OR user_agent_id_1 = ? OR user_agent_id_2 = ? OR user_agent_id_3 = ?)",
			f.AgentID, f.AgentID, f.AgentID, f.AgentID).
		WhereLike("name", f.Username)
	q = applyDateRange(q, "created_at", f.Range)

	countQuery, countArgs := q.BuildCount()
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []model.Member{}, 0, nil
	}

	query, args := q.OrderBy("created_at DESC").Page(f.Limit, f.Offset).Build()
	members := []model.Member{}
	if err := r.db.SelectContext(ctx, &members, query, args...); err != nil {
		return nil, 0, err
	}
	return members, total, nil
}

func (r *memberRepo) DirectIDs(ctx context.Context, agentID int64, groupPrefix, username string) ([]int64, error) {
	q := Select("id").From("ntp_common_user").
		Where("agent_id = ?", agentID).
		Where("status = ?", model.StatusActive).
		WhereLike("name", username)
	query, args := tenant.ApplyExact(q, groupPrefix).Build()

	ids := []int64{}
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *memberRepo) FindActiveByID(ctx context.Context, id int64, groupPrefix string) (*model.Member, error) {
	query, args := activeMembers(groupPrefix).Where("id = ?", id).Build()

	var member model.Member
	err := r.db.GetContext(ctx, &member, query, args...)
	return HandleNotFound(&member, err)
}

func (r *memberRepo) LockActiveByID(ctx context.Context, id int64, groupPrefix string) (*model.Member, error) {
	query, args := activeMembers(groupPrefix).Where("id = ?", id).ForUpdate().Build()

	var member model.Member
	err := r.db.GetContext(ctx, &member, query, args...)
	return HandleNotFound(&member, err)
}

func (r *memberRepo) AddMoney(ctx context.Context, id int64, delta float64) (float64, error) {
	var money float64
	err := r.db.GetContext(ctx, &money, `
		UPDATE ntp_common_user SET money = money + $2, updated_at = $3
		WHERE id = $1
		RETURNING money
	`, id, delta, time.Now())
	return money, err
}

func (r *memberRepo) UpdateProportion(ctx context.Context, id int64, proportion float64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE ntp_common_user SET fanyong_proportion = $2, updated_at = $3
		WHERE id = $1
	`, id, proportion, time.Now())
	return err
}
